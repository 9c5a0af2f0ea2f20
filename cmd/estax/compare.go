package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/compare"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare the estimator strategies for one household",
		Long: fmt.Sprintf(`Runs every estimated-tax strategy over a household file and shows the
alternatives against a base strategy. The strategies are independent and are
not expected to agree.

Strategies: %s

Examples:
  estax compare household.yaml
  estax compare household.yaml --base legacy --with worksheet --format csv
`, strings.Join(calculation.EstimatorNames, ", ")),
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runCompare(cmd, args[0], cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	cmd.Flags().String("base", calculation.EstimatorWorksheet, "Base strategy to compare against")
	cmd.Flags().String("with", "", "Comma-separated list of strategies to compare (default: all others)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	return cmd
}

func runCompare(cmd *cobra.Command, inputFile string, w io.Writer) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	hs, err := config.NewInputParser().LoadHousehold(inputFile)
	if err != nil {
		return err
	}

	base, _ := cmd.Flags().GetString("base")
	with, _ := cmd.Flags().GetString("with")
	var strategies []string
	for _, s := range strings.Split(with, ",") {
		if s = strings.TrimSpace(s); s != "" {
			strategies = append(strategies, s)
		}
	}

	compSet, err := compare.NewCompareEngine(rules).Compare(context.Background(), *hs, compare.CompareOptions{
		BaseStrategy: base,
		Strategies:   strategies,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	compSet.InputPath = inputFile

	format, _ := cmd.Flags().GetString("format")
	var out string
	switch format {
	case "table":
		out = (&compare.TableFormatter{}).Format(compSet)
	case "compact":
		out = (&compare.TableFormatter{}).FormatCompact(compSet) + "\n"
	case "csv":
		out, err = (&compare.CSVFormatter{}).Format(compSet)
	case "json":
		out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
	default:
		return fmt.Errorf("unknown format %q (want table, compact, csv or json)", format)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
