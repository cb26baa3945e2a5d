package invoice_test

import (
	"testing"

	"github.com/angelofallars/rentbill/internal/invoice"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"integer", "1000", "1000"},
		{"decimal", "12.75", "12.75"},
		{"surrounding space", "  42 ", "42"},
		{"trailing garbage", "12.5kg", "12.5"},
		{"leading dot", ".5", "0.5"},
		{"trailing dot", "7.", "7"},
		{"negative", "-3.25", "-3.25"},
		{"exponent", "1e3", "1000"},
		{"empty", "", "0"},
		{"letters", "abc", "0"},
		{"only sign", "-", "0"},
		{"overflow", "1e999", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.ParseAmount(tt.text)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func lookupFrom(values map[invoice.Role]string) func(invoice.Role) string {
	return func(r invoice.Role) string { return values[r] }
}

func TestComputeTotals(t *testing.T) {
	t.Run("rent parking electricity with tax and previous due", func(t *testing.T) {
		totals := invoice.ComputeTotals(lookupFrom(map[invoice.Role]string{
			invoice.RoleRent:        "1000",
			invoice.RoleParking:     "50",
			invoice.RoleElectricity: "200",
			invoice.RoleDiscount:    "0",
			invoice.RoleTax:         "10",
			invoice.RolePreviousDue: "5",
		}))

		assert.Equal(t, "1250.00", totals.TotalText())
		assert.Equal(t, "1265.00", totals.GrandText())
	})

	t.Run("discount only goes negative", func(t *testing.T) {
		totals := invoice.ComputeTotals(lookupFrom(map[invoice.Role]string{
			invoice.RoleDiscount:    "20",
			invoice.RoleTax:         "0",
			invoice.RolePreviousDue: "0",
		}))

		assert.Equal(t, "0.00", totals.TotalText())
		assert.Equal(t, "-20.00", totals.GrandText())
	})

	t.Run("every fee field is summed", func(t *testing.T) {
		values := map[invoice.Role]string{}
		for _, role := range invoice.FeeRoles {
			values[role] = "1.1"
		}
		totals := invoice.ComputeTotals(lookupFrom(values))

		assert.Equal(t, "11.00", totals.TotalText())
		assert.Equal(t, "11.00", totals.GrandText())
	})

	t.Run("non numeric content counts as zero", func(t *testing.T) {
		totals := invoice.ComputeTotals(lookupFrom(map[invoice.Role]string{
			invoice.RoleRent:     "five hundred",
			invoice.RoleParking:  "",
			invoice.RoleWaste:    "25",
			invoice.RoleTax:      "n/a",
			invoice.RoleDiscount: "x",
		}))

		assert.Equal(t, "25.00", totals.TotalText())
		assert.Equal(t, "25.00", totals.GrandText())
	})

	t.Run("computed fields are ignored as inputs", func(t *testing.T) {
		totals := invoice.ComputeTotals(lookupFrom(map[invoice.Role]string{
			invoice.RoleRent:  "10",
			invoice.RoleTotal: "999",
			invoice.RoleGrand: "999",
		}))

		assert.Equal(t, "10.00", totals.TotalText())
		assert.Equal(t, "10.00", totals.GrandText())
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		totals := invoice.ComputeTotals(lookupFrom(map[invoice.Role]string{
			invoice.RoleRent:    "0.1",
			invoice.RoleParking: "0.2",
			invoice.RoleTax:     "0.005",
		}))

		assert.Equal(t, "0.30", totals.TotalText())
		assert.Equal(t, "0.31", totals.GrandText())
	})
}

func TestRoleElementID(t *testing.T) {
	assert.Equal(t, "id_rent_amount", invoice.RoleRent.ElementID())
	assert.Equal(t, "id_generator_power_backup_fee", invoice.RoleGenerator.ElementID())
	assert.Equal(t, "id_internet_telephone_tv_fee", invoice.RoleInternet.ElementID())
	assert.Equal(t, "id_grand_total", invoice.RoleGrand.ElementID())
	assert.Equal(t, "previous_due", invoice.RolePreviousDue.FieldName())
	assert.Len(t, invoice.Roles, 15)
	assert.Len(t, invoice.FeeRoles, 10)
}

func TestStatusTransitions(t *testing.T) {
	status, ok := invoice.ParseStatus("paid")
	assert.True(t, ok)
	assert.Equal(t, invoice.StatusPaid, status)

	_, ok = invoice.ParseStatus("refunded")
	assert.False(t, ok)

	assert.True(t, invoice.StatusUnpaid.CanTransition(invoice.StatusPaid))
	assert.True(t, invoice.StatusPaid.CanTransition(invoice.StatusCancelled))
	assert.True(t, invoice.StatusCancelled.CanTransition(invoice.StatusCancelled))
	assert.False(t, invoice.StatusCancelled.CanTransition(invoice.StatusPaid))
}
