package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID           uuid.UUID
	SerialNumber string
	TenantName   string
	Date         time.Time
	Amounts      map[Role]decimal.Decimal
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Amount returns the stored amount for role, or zero.
func (i *Invoice) Amount(role Role) decimal.Decimal {
	return i.Amounts[role]
}

type Status string

const (
	StatusUnpaid    Status = "Unpaid"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

var Statuses = []Status{StatusUnpaid, StatusPaid, StatusCancelled}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	for _, status := range Statuses {
		if strings.EqualFold(string(status), s) {
			return status, true
		}
	}
	return "", false
}

// CanTransition reports whether an invoice may move from s to next.
// Cancelled invoices are final.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	return s != StatusCancelled
}
