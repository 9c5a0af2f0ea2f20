package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/rgehrsitz/estax/internal/output"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "estax %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newRootCmd assembles the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "estax",
		Short: "Form 1040-ES estimated tax calculator CLI",
		Long: `Computes the IRS Form 1040-ES Estimated Tax Worksheet line by line, decides
whether quarterly estimated payments are required, and fills payment vouchers.`,
	}
	root.PersistentFlags().String("rules", "", "Path to a rules file replacing the built-in tax tables")
	root.PersistentFlags().Bool("debug", false, "Log every computed line to stderr")

	root.AddCommand(worksheetCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(estimateCmd())
	root.AddCommand(voucherCmd())
	root.AddCommand(fieldsCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(breakEvenCmd())
	root.AddCommand(whatIfCmd())
	root.AddCommand(rulesCmd())
	root.AddCommand(versionCmd())
	return root
}

// loadRules returns the rule book named by --rules, or the built-in one.
func loadRules(cmd *cobra.Command) (*domain.RuleBook, error) {
	path, _ := cmd.Flags().GetString("rules")
	if path == "" {
		return config.DefaultRules()
	}
	return config.LoadRules(path)
}

// engineLogger returns the zap-backed logger when --debug is set.
func engineLogger(cmd *cobra.Command) calculation.Logger {
	debugMode, _ := cmd.Flags().GetBool("debug")
	if !debugMode {
		return calculation.NopLogger{}
	}
	zl, err := newCLILogger(true)
	if err != nil {
		log.Printf("WARN: falling back to silent logging: %v", err)
		return calculation.NopLogger{}
	}
	return newZapLogger(zl)
}

func worksheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worksheet [input-file]",
		Short: "Compute the estimated tax worksheet",
		Long: `Compute the Form 1040-ES Estimated Tax Worksheet for a YAML input file.

Examples:
  estax worksheet inputs.yaml
  estax worksheet inputs.yaml --format json --cents
  estax worksheet inputs.yaml --format html --save
`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runWorksheet(cmd, args[0], cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "console", fmt.Sprintf("Output format %v", output.AvailableFormatterNames()))
	cmd.Flags().Bool("cents", false, "Round to cents instead of whole dollars")
	cmd.Flags().Bool("round-once", false, "Carry full precision and round only the reported lines")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func runWorksheet(cmd *cobra.Command, inputFile string, w io.Writer) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	doc, err := config.NewInputParser().LoadWorksheet(inputFile)
	if err != nil {
		return err
	}

	engine := calculation.NewWorksheetEngine(rules)
	engine.SetLogger(engineLogger(cmd))
	engine.Rounding = doc.Rounding
	if cents, _ := cmd.Flags().GetBool("cents"); cents {
		engine.Rounding = domain.RoundCents
	}
	if once, _ := cmd.Flags().GetBool("round-once"); once {
		engine.Strategy = domain.RoundOnce
	}

	result, err := engine.Compute(doc.WorksheetInputs)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %v, aliases: %v)", format, output.AvailableFormatterNames(), output.AvailableFormatAliases())
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		path, err := output.WriteFormatted(f, result, extensionFor(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Report written to %s\n", path)
		return nil
	}

	data, err := f.Format(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// extensionFor maps a formatter name to the file extension of saved reports.
func extensionFor(name string) string {
	switch name {
	case "console", "console-verbose":
		return "txt"
	default:
		return name
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a worksheet input file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runValidate(args[0], cmd.OutOrStdout()); err != nil {
				log.Fatal(err)
			}
		},
	}
}

func runValidate(inputFile string, w io.Writer) error {
	if _, err := config.NewInputParser().LoadWorksheet(inputFile); err != nil {
		return err
	}
	fmt.Fprintf(w, "Worksheet file %s is valid\n", inputFile)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
