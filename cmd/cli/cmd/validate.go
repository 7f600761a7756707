package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"solar-estimate/core/survey"
)

var validateJSON bool

// validateCmd checks a survey record without pricing it
var validateCmd = &cobra.Command{
	Use:   "validate <survey-file>",
	Short: "Check a survey record for missing or inconsistent fields",
	Long: `Validate a survey record and print its errors, warnings and the feedback
to send back to the surveyor. Exits non-zero when there are errors.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := survey.Load(args[0])
		if err != nil {
			return err
		}
		result := survey.Validate(s)

		if validateJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			printValidation(cmd.OutOrStdout(), result)
			if result.Valid() {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
			}
		}

		if !result.Valid() {
			return fmt.Errorf("%d validation error(s)", len(result.Errors))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the result as JSON")
}
