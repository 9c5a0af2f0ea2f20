package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/rgehrsitz/estax/internal/breakeven"
	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func breakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break-even [input-file]",
		Short: "Find where estimated payments become required",
		Long: `Searches one worksheet input for the value at which the payment decision
flips, or for the value that produces a chosen line 15 installment.

Targets: income, se_profit, withholding, all (threshold report for every target)
Goals:   payment_threshold, match_installment (needs --installment)

Examples:
  estax break-even inputs.yaml --target withholding
  estax break-even inputs.yaml --target income --max 250000
  estax break-even inputs.yaml --target withholding --goal match_installment --installment 1000
  estax break-even inputs.yaml --target all --format json
`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runBreakEven(cmd, args[0], cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	cmd.Flags().String("target", "all", "Input to vary (income, se_profit, withholding, all)")
	cmd.Flags().String("goal", string(breakeven.GoalPaymentThreshold), "Search goal (payment_threshold, match_installment)")
	cmd.Flags().String("installment", "", "Line 15 installment to match")
	cmd.Flags().String("min", "", "Lower bound of the search range")
	cmd.Flags().String("max", "", "Upper bound of the search range")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

// optionalDecimalFlag returns nil when the flag is empty.
func optionalDecimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimalFlag(cmd, name)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func runBreakEven(cmd *cobra.Command, inputFile string, w io.Writer) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	doc, err := config.NewInputParser().LoadWorksheet(inputFile)
	if err != nil {
		return err
	}

	var constraints breakeven.Constraints
	if constraints.Min, err = optionalDecimalFlag(cmd, "min"); err != nil {
		return err
	}
	if constraints.Max, err = optionalDecimalFlag(cmd, "max"); err != nil {
		return err
	}
	if constraints.TargetInstallment, err = optionalDecimalFlag(cmd, "installment"); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format %q (available: table, json)", format)
	}

	engine := calculation.NewWorksheetEngine(rules)
	engine.Rounding = doc.Rounding
	solver := breakeven.NewDefaultSolver(engine)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	targetFlag, _ := cmd.Flags().GetString("target")
	goalFlag, _ := cmd.Flags().GetString("goal")
	goal, err := breakeven.ParseSolveGoal(goalFlag)
	if err != nil {
		return err
	}

	if targetFlag == "all" {
		if goal != breakeven.GoalPaymentThreshold {
			return fmt.Errorf("--target all only supports the %s goal", breakeven.GoalPaymentThreshold)
		}
		report, err := solver.AnalyzeThresholds(ctx, doc.WorksheetInputs, constraints)
		if err != nil {
			return err
		}
		if format == "json" {
			out, err := (&breakeven.JSONFormatter{Pretty: true}).FormatReport(report)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, out)
			return err
		}
		_, err = fmt.Fprint(w, (&breakeven.TableFormatter{}).FormatReport(report))
		return err
	}

	target, err := breakeven.ParseSolveTarget(targetFlag)
	if err != nil {
		return err
	}
	result, err := solver.Solve(ctx, breakeven.SolveRequest{
		Inputs:      doc.WorksheetInputs,
		Target:      target,
		Goal:        goal,
		Constraints: constraints,
	})
	if err != nil {
		return err
	}
	if format == "json" {
		out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	_, err = fmt.Fprint(w, (&breakeven.TableFormatter{}).Format(result))
	return err
}
