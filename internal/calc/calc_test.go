package calc_test

import (
	"testing"

	"github.com/angelofallars/rentbill/internal/calc"
	"github.com/angelofallars/rentbill/internal/dom"
	"github.com/angelofallars/rentbill/internal/invoice"
	"github.com/stretchr/testify/assert"
)

// invoicePage renders every role's input with an empty value.
func invoicePage() *dom.Document {
	doc := dom.NewDocument()
	for _, role := range invoice.Roles {
		doc.AddInput(role.ElementID(), "")
	}
	return doc
}

func value(doc *dom.Document, role invoice.Role) string {
	return doc.ElementByID(role.ElementID()).Value()
}

func TestParseValue(t *testing.T) {
	doc := dom.NewDocument()

	assert.True(t, calc.ParseValue(nil).IsZero())
	assert.True(t, calc.ParseValue(doc.AddInput("a", "")).IsZero())
	assert.True(t, calc.ParseValue(doc.AddInput("b", "abc")).IsZero())
	assert.Equal(t, "12.5", calc.ParseValue(doc.AddInput("c", "12.5")).String())
}

func TestBindCalculatesOnLoad(t *testing.T) {
	doc := invoicePage()
	doc.ElementByID(invoice.RoleRent.ElementID()).SetValue("1000")
	doc.ElementByID(invoice.RoleParking.ElementID()).SetValue("50")
	doc.ElementByID(invoice.RoleElectricity.ElementID()).SetValue("200")
	doc.ElementByID(invoice.RoleDiscount.ElementID()).SetValue("0")
	doc.ElementByID(invoice.RoleTax.ElementID()).SetValue("10")
	doc.ElementByID(invoice.RolePreviousDue.ElementID()).SetValue("5")

	calc.New(doc).Bind()

	assert.Equal(t, "1250.00", value(doc, invoice.RoleTotal))
	assert.Equal(t, "1265.00", value(doc, invoice.RoleGrand))
}

func TestInputEventsRecalculate(t *testing.T) {
	doc := invoicePage()
	calc.New(doc).Bind()

	assert.Equal(t, "0.00", value(doc, invoice.RoleTotal))
	assert.Equal(t, "0.00", value(doc, invoice.RoleGrand))

	doc.ElementByID(invoice.RoleDiscount.ElementID()).Type("20")
	assert.Equal(t, "0.00", value(doc, invoice.RoleTotal))
	assert.Equal(t, "-20.00", value(doc, invoice.RoleGrand))

	doc.ElementByID(invoice.RoleInternet.ElementID()).Type("45.5")
	doc.ElementByID(invoice.RoleWaste.ElementID()).Type("4.5")
	assert.Equal(t, "50.00", value(doc, invoice.RoleTotal))
	assert.Equal(t, "30.00", value(doc, invoice.RoleGrand))

	doc.ElementByID(invoice.RoleWaste.ElementID()).Type("oops")
	assert.Equal(t, "45.50", value(doc, invoice.RoleTotal))
	assert.Equal(t, "25.50", value(doc, invoice.RoleGrand))
}

func TestComputedFieldsAreNotWatched(t *testing.T) {
	doc := invoicePage()
	calc.New(doc).Bind()

	doc.ElementByID(invoice.RoleTotal.ElementID()).Type("999")

	// typing into the total does not trigger a recalculation
	assert.Equal(t, "999", value(doc, invoice.RoleTotal))
	assert.Equal(t, "0.00", value(doc, invoice.RoleGrand))
}

func TestMissingFieldsAreTolerated(t *testing.T) {
	doc := dom.NewDocument()
	rent := doc.AddInput(invoice.RoleRent.ElementID(), "300")
	grand := doc.AddInput(invoice.RoleGrand.ElementID(), "")

	c := calc.New(doc)
	assert.Nil(t, c.Fields()[invoice.RoleTotal])
	assert.Nil(t, c.Fields()[invoice.RoleTax])

	c.Bind()
	assert.Equal(t, "300.00", grand.Value())

	rent.Type("310")
	assert.Equal(t, "310.00", grand.Value())
}

func TestCalculateTotalsReturnsTotals(t *testing.T) {
	doc := invoicePage()
	doc.ElementByID(invoice.RoleSecurity.ElementID()).SetValue("75")
	doc.ElementByID(invoice.RolePreviousDue.ElementID()).SetValue("25")

	totals := calc.New(doc).CalculateTotals()

	assert.Equal(t, "75", totals.Subtotal.String())
	assert.Equal(t, "100", totals.Grand.String())
}
