// Package cmd - estimate command
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solar-estimate/core/output"
	"solar-estimate/core/survey"
	"solar-estimate/internal/config"
	"solar-estimate/internal/logging"
)

var (
	clientName   string
	outputFormat string
	outputFile   string
	interactive  bool
	force        bool
	noReasoning  bool

	totalBeforeTax int64
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate <survey-file>",
	Short: "Generate an estimate from a survey record",
	Long: `Read a site survey (JSON or YAML), validate it, and price it against the
pricing rules.

Surveys with validation errors are refused unless --force is given. With
--interactive, items that need a manual amount are asked for before the
estimate is rendered. --total-before-tax replaces the round-down discount
with whatever brings the subtotal to the agreed figure.

Examples:
  solar-estimate estimate survey.json
  solar-estimate estimate survey.json --client "株式会社テスト物流" --format markdown
  solar-estimate estimate survey.yaml --format xlsx --out estimate.xlsx
  solar-estimate estimate survey.json --interactive
  solar-estimate estimate survey.json --total-before-tax 5700000`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&clientName, "client", "c", "", "client name printed on the cover")
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown, xlsx)")
	estimateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "write to a file instead of stdout")
	estimateCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for manual-input amounts")
	estimateCmd.Flags().BoolVar(&force, "force", false, "price the survey even if it has validation errors")
	estimateCmd.Flags().BoolVar(&noReasoning, "no-reasoning", false, "omit the reasoning list")
	estimateCmd.Flags().Int64Var(&totalBeforeTax, "total-before-tax", 0, "agreed total before tax in yen; the discount absorbs the difference")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	format, err := output.ParseFormat(firstNonEmpty(outputFormat, cfg.Output.DefaultFormat))
	if err != nil {
		return err
	}
	if format.Binary() && outputFile == "" && isTerminal(os.Stdout) {
		return fmt.Errorf("%s output is binary; use --out to write it to a file", format)
	}

	s, err := survey.Load(args[0])
	if err != nil {
		return err
	}

	result := survey.Validate(s)
	printValidation(cmd.ErrOrStderr(), result)
	if !result.Valid() {
		if !force {
			return fmt.Errorf("survey has %d validation error(s); fix them or pass --force", len(result.Errors))
		}
		logging.Warn("pricing a survey with validation errors", zap.Int("errors", len(result.Errors)))
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	est, err := eng.Generate(s, clientName)
	if err != nil {
		return err
	}

	if interactive {
		if !isTerminal(os.Stdin) {
			return fmt.Errorf("--interactive needs a terminal on stdin")
		}
		edits, err := promptManualItems(est)
		if err != nil {
			return err
		}
		if err := eng.ApplyEdits(est, edits); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("total-before-tax") {
		if err := eng.AdjustTotalBeforeTax(est, totalBeforeTax); err != nil {
			return err
		}
		logging.Debug("total before tax adjusted",
			zap.Int64("subtotal", est.Summary.Subtotal),
			zap.Int64("discount", est.Summary.Discount))
	}

	color := cfg.Output.Color && outputFile == "" && isTerminal(os.Stdout)
	doc := output.NewDocument(est, company())
	doc.ShowReasoning = cfg.Output.ShowReasoning && !noReasoning

	var buf bytes.Buffer
	if err := output.NewRegistry(color).Render(&buf, format, doc); err != nil {
		return err
	}

	if outputFile == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
		return err
	}
	logging.Info("estimate written",
		zap.String("file", outputFile),
		zap.String("format", string(format)),
		zap.String("estimate_id", est.Cover.EstimateID))
	return nil
}

func printValidation(w io.Writer, result *survey.Result) {
	for _, e := range result.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if len(result.Feedback) > 0 {
		fmt.Fprintln(w, "surveyor feedback:")
		for _, f := range result.Feedback {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
