package main

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate tax rule books",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the active rule book as YAML",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRulesShow(cmd, cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	show.Flags().Int("year", 0, "Print only this tax year")

	validate := &cobra.Command{
		Use:   "validate [rules-file]",
		Short: "Validate a rules file (the built-in rules when omitted)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if err := runRulesValidate(cmd, path, cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.AddCommand(show, validate)
	return cmd
}

func runRulesShow(cmd *cobra.Command, w io.Writer) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	var v any = rules
	if year, _ := cmd.Flags().GetInt("year"); year != 0 {
		yr, err := rules.Year(year)
		if err != nil {
			return err
		}
		v = yr
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func runRulesValidate(cmd *cobra.Command, path string, w io.Writer) error {
	var (
		rules *domain.RuleBook
		err   error
	)
	if path == "" {
		rules, err = loadRules(cmd)
		path = "built-in rules"
	} else {
		rules, err = config.LoadRules(path)
	}
	if err != nil {
		return err
	}
	years := ""
	for i, y := range rules.AvailableYears() {
		if i > 0 {
			years += ", "
		}
		years += strconv.Itoa(y)
	}
	fmt.Fprintf(w, "Rule book %s is valid (tax years %s)\n", path, years)
	return nil
}
