package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/rgehrsitz/estax/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func whatIfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "what-if [input-file]",
		Short: "Recompute the worksheet after hypothetical input changes",
		Long: `Applies transforms and templates to a worksheet input and shows which lines
and decisions change.

Examples:
  estax what-if inputs.yaml --template bonus_5k,w4_extra_250
  estax what-if inputs.yaml --apply set_withholding:amount=5000 --apply itemize:amount=21000
  estax what-if --list-templates
`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				fmt.Fprintf(cmd.OutOrStdout(), "\nTransforms: %s\n", strings.Join(transform.NewTransformRegistry().List(), ", "))
				return
			}
			if len(args) == 0 {
				log.Fatal("input file required (use --list-templates to see available templates)")
			}
			if err := runWhatIf(cmd, args[0], cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	cmd.Flags().StringArray("apply", nil, "Transform spec name:key=value,... (repeatable)")
	cmd.Flags().String("template", "", "Comma-separated built-in templates")
	cmd.Flags().Bool("list-templates", false, "List built-in templates and transforms")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

// whatIfTransforms resolves templates first, then explicit specs, in flag order.
func whatIfTransforms(cmd *cobra.Command) ([]transform.InputTransform, error) {
	var out []transform.InputTransform

	templates := transform.CreateBuiltInTemplates()
	list, _ := cmd.Flags().GetString("template")
	for _, name := range transform.ParseTemplateList(list) {
		tpl, ok := templates.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(templates.List(), ", "))
		}
		out = append(out, tpl.Transforms...)
	}

	specs, _ := cmd.Flags().GetStringArray("apply")
	parsed, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
	if err != nil {
		return nil, err
	}
	out = append(out, parsed...)

	if len(out) == 0 {
		return nil, errors.New("nothing to apply: use --apply or --template")
	}
	return out, nil
}

// lineChange is one worksheet line before and after the transforms.
type lineChange struct {
	Line    string          `json:"line"`
	Base    decimal.Decimal `json:"base"`
	WhatIf  decimal.Decimal `json:"what_if"`
	Changed bool            `json:"changed"`
}

type whatIfReport struct {
	Changes        []string                `json:"changes"`
	Lines          []lineChange            `json:"lines"`
	BaseDecision   domain.PaymentDecision  `json:"base_decision"`
	WhatIfDecision domain.PaymentDecision  `json:"what_if_decision"`
	Result         *domain.WorksheetResult `json:"result"`
}

func runWhatIf(cmd *cobra.Command, inputFile string, w io.Writer) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	doc, err := config.NewInputParser().LoadWorksheet(inputFile)
	if err != nil {
		return err
	}
	transforms, err := whatIfTransforms(cmd)
	if err != nil {
		return err
	}
	modified, err := transform.ApplyTransforms(doc.WorksheetInputs, transforms)
	if err != nil {
		return err
	}

	engine := calculation.NewWorksheetEngine(rules)
	engine.SetLogger(engineLogger(cmd))
	engine.Rounding = doc.Rounding
	base, err := engine.Compute(doc.WorksheetInputs)
	if err != nil {
		return err
	}
	after, err := engine.Compute(modified)
	if err != nil {
		return err
	}

	report := whatIfReport{
		Changes:        transform.Describe(transforms),
		BaseDecision:   base.Decision,
		WhatIfDecision: after.Decision,
		Result:         after,
	}
	for _, l := range domain.WorksheetLineOrder {
		b, _ := base.Value(l)
		a, _ := after.Value(l)
		report.Lines = append(report.Lines, lineChange{Line: l.Label(), Base: b, WhatIf: a, Changed: !a.Equal(b)})
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return writeJSON(w, report)
	case "table":
		writeWhatIfTable(w, report, doc.Rounding)
		return nil
	default:
		return fmt.Errorf("unknown format %q (available: table, json)", format)
	}
}

func writeWhatIfTable(w io.Writer, report whatIfReport, rounding domain.RoundingMode) {
	fmt.Fprintln(w, "WHAT-IF ANALYSIS")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Changes:")
	for _, c := range report.Changes {
		fmt.Fprintf(w, "  - %s\n", c)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s %14s %14s %14s\n", "LINE", "BASE", "WHAT-IF", "CHANGE")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	changed := 0
	for _, lc := range report.Lines {
		if !lc.Changed {
			continue
		}
		changed++
		delta := lc.WhatIf.Sub(lc.Base)
		sign := ""
		if delta.IsPositive() {
			sign = "+"
		}
		fmt.Fprintf(w, "%-6s %14s %14s %14s\n", lc.Line, rounding.Format(lc.Base), rounding.Format(lc.WhatIf), sign+rounding.Format(delta))
	}
	if changed == 0 {
		fmt.Fprintln(w, "(no worksheet lines changed)")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Payments required: %s -> %s\n", yesNo(report.BaseDecision.RequirePayments), yesNo(report.WhatIfDecision.RequirePayments))
	fmt.Fprintf(w, "Reason: %s\n", report.WhatIfDecision.Reason)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
