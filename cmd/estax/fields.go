package main

import (
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/forms"
	"github.com/spf13/cobra"
)

func fieldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields [input-file]",
		Short: "Map worksheet results onto fillable form fields",
		Long: `Computes the worksheet for an input file and assigns a value to each form
field identifier listed in the --fields file (one identifier per line, '#'
starts a comment). Identifiers of the worksheet page are matched exactly;
other identifiers are classified by keyword.

Examples:
  estax fields inputs.yaml --fields fields.txt
  estax fields inputs.yaml --fields fields.txt --format json
`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runFields(cmd, args[0], cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	cmd.Flags().String("fields", "", "File listing the target field identifiers (required)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.Flags().Bool("list", false, "Print the worksheet page identifiers instead of mapping")
	return cmd
}

func runFields(cmd *cobra.Command, inputFile string, w io.Writer) error {
	if list, _ := cmd.Flags().GetBool("list"); list {
		for _, id := range forms.WorksheetFieldIDs() {
			fmt.Fprintln(w, id)
		}
		return nil
	}

	fieldsFile, _ := cmd.Flags().GetString("fields")
	if fieldsFile == "" {
		return fmt.Errorf("--fields is required")
	}

	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	parser := config.NewInputParser()
	doc, err := parser.LoadWorksheet(inputFile)
	if err != nil {
		return err
	}
	fields, err := parser.LoadFieldList(fieldsFile)
	if err != nil {
		return err
	}

	engine := calculation.NewWorksheetEngine(rules)
	engine.SetLogger(engineLogger(cmd))
	engine.Rounding = doc.Rounding
	result, err := engine.Compute(doc.WorksheetInputs)
	if err != nil {
		return err
	}

	mapping := forms.NewAdapter().Map(result, forms.FormContext{
		Taxpayer: doc.Taxpayer,
		Payments: doc.PriorPayments,
	}, fields)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return writeJSON(w, mapping)
	case "table":
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tSOURCE\tMATCH")
	for _, a := range mapping.Assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Field, a.Value, a.Target, a.Confidence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(mapping.Ambiguous) > 0 {
		fmt.Fprintf(w, "\nAmbiguous (assigned to the first matching rule):\n")
		for _, f := range mapping.Ambiguous {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	if len(mapping.Unmatched) > 0 {
		fmt.Fprintf(w, "\nUnmatched:\n")
		for _, f := range mapping.Unmatched {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	return nil
}
