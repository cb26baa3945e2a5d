// Package calc keeps an invoice form's total and grand total fields in
// step with its fee fields as they are edited.
package calc

import (
	"github.com/angelofallars/rentbill/internal/dom"
	"github.com/angelofallars/rentbill/internal/invoice"
	"github.com/shopspring/decimal"
)

// FieldSet maps each role to its input on the page. Roles whose input is
// missing map to nil.
type FieldSet map[invoice.Role]*dom.Input

type Calculator struct {
	fields FieldSet
}

// New looks up every role's input on doc once.
func New(doc *dom.Document) *Calculator {
	fields := make(FieldSet, len(invoice.Roles))
	for _, role := range invoice.Roles {
		fields[role] = doc.ElementByID(role.ElementID())
	}
	return &Calculator{fields: fields}
}

func (c *Calculator) Fields() FieldSet { return c.fields }

// ParseValue is the field's numeric value, or zero when the field is
// missing or does not hold a number.
func ParseValue(field *dom.Input) decimal.Decimal {
	if field == nil {
		return decimal.Zero
	}
	return invoice.ParseAmount(field.Value())
}

// CalculateTotals recomputes the totals and writes them into the total
// and grand total fields.
func (c *Calculator) CalculateTotals() invoice.Totals {
	totals := invoice.ComputeTotals(func(r invoice.Role) string {
		return c.fields[r].Value()
	})

	c.fields[invoice.RoleTotal].SetValue(totals.TotalText())
	c.fields[invoice.RoleGrand].SetValue(totals.GrandText())

	return totals
}

// Bind subscribes to input events on every editable field and runs an
// initial calculation.
func (c *Calculator) Bind() {
	for _, role := range invoice.Roles {
		if role.Computed() {
			continue
		}
		c.fields[role].AddEventListener(dom.EventInput, func(*dom.Event) {
			c.CalculateTotals()
		})
	}

	c.CalculateTotals()
}
