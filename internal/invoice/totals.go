package invoice

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Role is the semantic meaning of one amount field on the invoice form.
type Role string

const (
	RoleRent          Role = "rent"
	RoleParking       Role = "parking"
	RoleElectricity   Role = "electricity"
	RoleDrinkingWater Role = "drinkingWater"
	RoleNormalWater   Role = "normalWater"
	RoleWaste         Role = "waste"
	RoleSecurity      Role = "security"
	RoleGenerator     Role = "generator"
	RoleInternet      Role = "internet"
	RoleOther         Role = "other"
	RoleDiscount      Role = "discount"
	RoleTotal         Role = "total"
	RoleTax           Role = "tax"
	RoleGrand         Role = "grand"
	RolePreviousDue   Role = "previousDue"
)

var fieldNames = map[Role]string{
	RoleRent:          "rent_amount",
	RoleParking:       "parking_fee",
	RoleElectricity:   "electricity_fee",
	RoleDrinkingWater: "drinking_water_fee",
	RoleNormalWater:   "normal_water_fee",
	RoleWaste:         "waste_fee",
	RoleSecurity:      "security_fee",
	RoleGenerator:     "generator_power_backup_fee",
	RoleInternet:      "internet_telephone_tv_fee",
	RoleOther:         "other_fee",
	RoleDiscount:      "discount",
	RoleTotal:         "total_amount",
	RoleTax:           "tax",
	RoleGrand:         "grand_total",
	RolePreviousDue:   "previous_due",
}

var labels = map[Role]string{
	RoleRent:          "Rent",
	RoleParking:       "Parking",
	RoleElectricity:   "Electricity",
	RoleDrinkingWater: "Drinking water",
	RoleNormalWater:   "Normal water",
	RoleWaste:         "Waste",
	RoleSecurity:      "Security",
	RoleGenerator:     "Generator / power backup",
	RoleInternet:      "Internet / telephone / TV",
	RoleOther:         "Other",
	RoleDiscount:      "Discount",
	RoleTotal:         "Total",
	RoleTax:           "Tax",
	RoleGrand:         "Grand total",
	RolePreviousDue:   "Previous due",
}

// FeeRoles are the itemized charges that make up the subtotal.
var FeeRoles = []Role{
	RoleRent,
	RoleParking,
	RoleElectricity,
	RoleDrinkingWater,
	RoleNormalWater,
	RoleWaste,
	RoleSecurity,
	RoleGenerator,
	RoleInternet,
	RoleOther,
}

// Roles lists every form role in page order.
var Roles = []Role{
	RoleRent,
	RoleParking,
	RoleElectricity,
	RoleDrinkingWater,
	RoleNormalWater,
	RoleWaste,
	RoleSecurity,
	RoleGenerator,
	RoleInternet,
	RoleOther,
	RoleDiscount,
	RoleTotal,
	RoleTax,
	RoleGrand,
	RolePreviousDue,
}

// FieldName is the name the role's input carries in a submitted form.
func (r Role) FieldName() string { return fieldNames[r] }

// ElementID is the DOM identifier of the role's input.
//
// Format:
//
//	id_<field name>
func (r Role) ElementID() string { return "id_" + fieldNames[r] }

func (r Role) Label() string { return labels[r] }

// Computed reports whether the role is an output of [ComputeTotals]
// rather than something a user types.
func (r Role) Computed() bool { return r == RoleTotal || r == RoleGrand }

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the leading number in text the way a browser's
// parseFloat does ("12.5kg" is 12.5). Anything without a finite numeric
// prefix is zero.
func ParseAmount(text string) decimal.Decimal {
	prefix := numericPrefix.FindString(strings.TrimSpace(text))
	if prefix == "" {
		return decimal.Zero
	}

	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(f)
}

type Totals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	PreviousDue decimal.Decimal
	Total       decimal.Decimal
	Grand       decimal.Decimal
}

// ComputeTotals sums the fee roles and applies tax, previous due and
// discount. lookup returns the raw text of a role's field; absent fields
// should return "".
func ComputeTotals(lookup func(Role) string) Totals {
	t := Totals{Subtotal: decimal.Zero}
	for _, role := range FeeRoles {
		t.Subtotal = t.Subtotal.Add(ParseAmount(lookup(role)))
	}

	t.Discount = ParseAmount(lookup(RoleDiscount))
	t.Tax = ParseAmount(lookup(RoleTax))
	t.PreviousDue = ParseAmount(lookup(RolePreviousDue))

	t.Total = t.Subtotal
	t.Grand = t.Total.Add(t.Tax).Add(t.PreviousDue).Sub(t.Discount)

	return t
}

func (t Totals) TotalText() string { return t.Total.StringFixed(2) }

func (t Totals) GrandText() string { return t.Grand.StringFixed(2) }

// Amounts returns the totals keyed by their output roles.
func (t Totals) Amounts() map[Role]decimal.Decimal {
	return map[Role]decimal.Decimal{
		RoleTotal: t.Total,
		RoleGrand: t.Grand,
	}
}
