package main

import (
	"fmt"
	"strings"

	"github.com/angelofallars/rentbill/internal/calc"
	"github.com/angelofallars/rentbill/internal/dom"
	"github.com/angelofallars/rentbill/internal/invoice"
	"github.com/spf13/cobra"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Work out an invoice's total and grand total",
	Long: `totals fills a blank invoice form with the given amounts, one input
event per amount, and prints the total and grand total the form shows.
Amounts are read like the form reads them: "12kg" counts as 12 and
anything that is not a number counts as 0.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := dom.NewDocument()
		for _, role := range invoice.Roles {
			doc.AddInput(role.ElementID(), "")
		}

		calculator := calc.New(doc)
		calculator.Bind()

		flags := cmd.Flags()
		for _, role := range invoice.Roles {
			name := flagName(role)
			if role.Computed() || !flags.Changed(name) {
				continue
			}
			value, _ := flags.GetString(name)
			doc.ElementByID(role.ElementID()).Type(value)
		}

		fields := calculator.Fields()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s %s\n", "Total", fields[invoice.RoleTotal].Value())
		fmt.Fprintf(out, "%-12s %s\n", "Grand total", fields[invoice.RoleGrand].Value())
		return nil
	},
}

// flagName is the role's form field name in flag style, e.g.
// --rent-amount for rent_amount.
func flagName(role invoice.Role) string {
	return strings.ReplaceAll(role.FieldName(), "_", "-")
}

func init() {
	for _, role := range invoice.Roles {
		if role.Computed() {
			continue
		}
		totalsCmd.Flags().String(flagName(role), "", role.Label())
	}
	rootCmd.AddCommand(totalsCmd)
}
