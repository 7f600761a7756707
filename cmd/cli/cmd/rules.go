package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solar-estimate/core/estimate"
	"solar-estimate/core/explanation"
	"solar-estimate/core/rules"
)

var dumpRules bool

// rulesCmd shows the pricing rules in effect
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the pricing rules in effect",
	Long: `List every pricing rule by category. With --dump, print the embedded
default rule document, which can be edited and passed back with --rules.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if dumpRules {
			_, err := out.Write(rules.DefaultDocument())
			return err
		}

		rs, err := loadRules()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "version %s  tax %s%%  discount %s\n",
			rs.Version, rs.TaxRate.Shift(2).String(), rs.DiscountMethod)
		for _, w := range rs.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, c := range estimate.Categories() {
			defs := rs.Items(c)
			if len(defs) == 0 {
				continue
			}
			fmt.Fprintf(tw, "\n%d. %s\n", c.Number(), c.Label())
			for _, d := range defs {
				fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n",
					d.No, d.Description, d.EffectiveMethod(), explanation.Yen(d.UnitPrice), d.Condition)
			}
		}
		return tw.Flush()
	},
}

func init() {
	rulesCmd.Flags().BoolVar(&dumpRules, "dump", false, "print the default rule document")
}
