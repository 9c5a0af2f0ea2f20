package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func estimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Quick federal and self-employment tax estimate",
		Long: `Runs the simplified dashboard estimator: one bracket table for every status,
self-employment tax on 92.35% of business profit, and a quarterly payment of
one quarter of the total.

Examples:
  estax estimate --gross 60000 --expenses 10000
  estax estimate --status married_joint --gross 120000 --other 5000 --format json
`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runEstimate(cmd, cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	cmd.Flags().String("status", string(domain.LegacySingle), "Filing status (single, married_joint, married_separate, head)")
	cmd.Flags().String("gross", "0", "Expected gross income")
	cmd.Flags().String("expenses", "0", "Deductible business expenses")
	cmd.Flags().String("other", "0", "Other deductions")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	return cmd
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return d, nil
}

func runEstimate(cmd *cobra.Command, w io.Writer) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	statusFlag, _ := cmd.Flags().GetString("status")
	status, err := domain.ParseLegacyFilingStatus(statusFlag)
	if err != nil {
		return err
	}
	var amounts [3]decimal.Decimal
	for i, name := range []string{"gross", "expenses", "other"} {
		if amounts[i], err = decimalFlag(cmd, name); err != nil {
			return err
		}
	}

	est, err := calculation.NewLegacyTaxEstimator(rules.LegacyEstimator).Estimate(status, amounts[0], amounts[1], amounts[2])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return writeJSON(w, est)
	case "console", "text":
		fmt.Fprintln(w, "QUICK TAX ESTIMATE")
		fmt.Fprintln(w, "==================")
		fmt.Fprintf(w, "Taxable income:       %s\n", domain.FormatCurrency(est.TaxableIncome))
		fmt.Fprintf(w, "Federal income tax:   %s\n", domain.FormatCurrency(est.FederalTax))
		fmt.Fprintf(w, "Self-employment tax:  %s\n", domain.FormatCurrency(est.SelfEmploymentTax))
		fmt.Fprintf(w, "Total tax:            %s\n", domain.FormatCurrency(est.TotalTax()))
		fmt.Fprintf(w, "Quarterly payment:    %s\n", domain.FormatCurrency(est.QuarterlyPayment))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want console or json)", format)
	}
}

func voucherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher [input-file]",
		Short: "Compute the next 1040-ES voucher amount",
		Long: `Computes the required annual payment, what has been paid so far, and the
amount of the next payment voucher from a voucher input file.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runVoucher(cmd, args[0], cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json, yaml)")
	return cmd
}

func runVoucher(cmd *cobra.Command, inputFile string, w io.Writer) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	in, err := config.NewInputParser().LoadVoucher(inputFile)
	if err != nil {
		return err
	}
	res, err := calculation.NewIrs1040EsComputation(rules.LegacyEstimator).Compute(*in)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return writeJSON(w, res)
	case "yaml", "yml":
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "console", "text":
	default:
		return fmt.Errorf("unknown format %q (want console, json or yaml)", format)
	}

	title := fmt.Sprintf("%d FORM 1040-ES PAYMENT VOUCHER", in.TaxYear)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	if in.Name != "" {
		fmt.Fprintf(w, "Taxpayer:             %s\n", in.Name)
	}
	fmt.Fprintf(w, "Total tax:            %s\n", domain.FormatCurrency(res.TotalTax))
	fmt.Fprintf(w, "Required annual:      %s\n", domain.FormatCurrency(res.RequiredAnnual))
	fmt.Fprintf(w, "Quarterly payment:    %s\n", domain.FormatCurrency(res.QuarterlyBase))
	fmt.Fprintf(w, "Paid so far:          %s\n", domain.FormatCurrency(res.PaidSoFar))
	fmt.Fprintf(w, "Remaining:            %s\n", domain.FormatCurrency(res.Remaining))
	fmt.Fprintf(w, "Next voucher amount:  %s\n", domain.FormatCurrency(res.NextVoucher))
	if len(res.MissingPrompts) > 0 {
		fmt.Fprintf(w, "\nPlease provide: %s\n", strings.Join(res.MissingPrompts, ", "))
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warn)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
