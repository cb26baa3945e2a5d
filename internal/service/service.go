package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/angelofallars/rentbill/internal/invoice"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Invoice interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*invoice.Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]invoice.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*invoice.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrNotFound          = errors.New("Invoice not found")
	ErrInvalidStatus     = errors.New("Invalid status")
	ErrInvalidTransition = errors.New("Invalid transition")
	ErrSerialExhausted   = errors.New("No serial numbers left for today")
	ErrInvalidPage       = errors.New("Invalid page")
)

// maxSerialAttempts bounds how many fresh ids Create tries before it
// gives up on finding a free serial number.
const maxSerialAttempts = 32

// invoices is an in-memory invoice store. Lists come back newest first.
type invoices struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*invoice.Invoice
	bySerial map[string]uuid.UUID

	now   func() time.Time
	newID func() uuid.UUID
}

func NewInvoice() *invoices {
	return &invoices{
		byID:     map[uuid.UUID]*invoice.Invoice{},
		bySerial: map[string]uuid.UUID{},
		now:      time.Now,
		newID:    uuid.New,
	}
}

// WithClock replaces the time source used for timestamps and serial
// numbers.
func (s *invoices) WithClock(now func() time.Time) *invoices {
	s.now = now
	return s
}

// WithIDs replaces the source of invoice ids.
func (s *invoices) WithIDs(newID func() uuid.UUID) *invoices {
	s.newID = newID
	return s
}

type CreateInvoiceRequest struct {
	TenantName string
	Date       time.Time
	// Amounts holds the raw text typed for each role. Computed roles are
	// ignored and recalculated.
	Amounts map[invoice.Role]string
}

func (req CreateInvoiceRequest) validate() error {
	if strings.TrimSpace(req.TenantName) == "" {
		return errors.New("Tenant name is required")
	}
	for _, role := range invoice.Roles {
		if role.Computed() {
			continue
		}
		if invoice.ParseAmount(req.Amounts[role]).IsNegative() {
			return fmt.Errorf("%s cannot be less than zero", role.Label())
		}
	}
	return nil
}

func (s *invoices) Create(ctx context.Context, req CreateInvoiceRequest) (*invoice.Invoice, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	totals := invoice.ComputeTotals(func(r invoice.Role) string { return req.Amounts[r] })

	amounts := make(map[invoice.Role]decimal.Decimal, len(invoice.Roles))
	for _, role := range invoice.Roles {
		if !role.Computed() {
			amounts[role] = invoice.ParseAmount(req.Amounts[role])
		}
	}
	for role, amount := range totals.Amounts() {
		amounts[role] = amount
	}

	now := s.now()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	inv := &invoice.Invoice{
		TenantName: strings.TrimSpace(req.TenantName),
		Date:       date,
		Amounts:    amounts,
		Status:     invoice.StatusUnpaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < maxSerialAttempts; attempt++ {
		id := s.newID()
		if _, taken := s.byID[id]; taken {
			continue
		}
		serial := serialNumber(now, id)
		if _, taken := s.bySerial[serial]; taken {
			continue
		}

		inv.ID = id
		inv.SerialNumber = serial
		s.byID[id] = inv
		s.bySerial[serial] = id

		out := *inv
		return &out, nil
	}

	return nil, ErrSerialExhausted
}

// serialNumber is the issue date followed by four digits taken from id.
func serialNumber(now time.Time, id uuid.UUID) string {
	n := (uint(id[0])<<8 | uint(id[1])) % 10000
	return fmt.Sprintf("%s%04d", now.Format("20060102"), n)
}

type ListFilter struct {
	// Search matches tenant name or serial number, case-insensitively.
	Search string
	Status invoice.Status
	// StartDate and EndDate bound the invoice date, both inclusive and
	// compared by calendar day. Zero means unbounded.
	StartDate time.Time
	EndDate   time.Time
}

func (f ListFilter) matches(inv *invoice.Invoice) bool {
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	day := inv.Date.Format(time.DateOnly)
	if !f.StartDate.IsZero() && day < f.StartDate.Format(time.DateOnly) {
		return false
	}
	if !f.EndDate.IsZero() && day > f.EndDate.Format(time.DateOnly) {
		return false
	}
	if f.Search == "" {
		return true
	}
	search := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(inv.TenantName), search) ||
		strings.Contains(strings.ToLower(inv.SerialNumber), search)
}

func (s *invoices) List(ctx context.Context, filter ListFilter) ([]invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]invoice.Invoice, 0, len(s.byID))
	for _, inv := range s.byID {
		if filter.matches(inv) {
			out = append(out, *inv)
		}
	}

	slices.SortFunc(out, func(a, b invoice.Invoice) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.SerialNumber, b.SerialNumber)
	})

	return out, nil
}

func (s *invoices) Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *inv
	return &out, nil
}

func (s *invoices) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*invoice.Invoice, error) {
	next, ok := invoice.ParseStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !inv.Status.CanTransition(next) {
		return nil, ErrInvalidTransition
	}

	inv.Status = next
	inv.UpdatedAt = s.now()

	out := *inv
	return &out, nil
}

func (s *invoices) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.bySerial, inv.SerialNumber)
	delete(s.byID, id)
	return nil
}

// PageSize is how many invoices one list page holds.
const PageSize = 5

type Page struct {
	Invoices []invoice.Invoice
	// Number is 1-based.
	Number int
	// Count is the number of pages, at least 1.
	Count int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Count }

// Paginate returns page number of invoices, PageSize to a page. An
// empty list still has a first page; any other page past the end is
// [ErrInvalidPage].
func Paginate(invoices []invoice.Invoice, number int) (Page, error) {
	count := (len(invoices) + PageSize - 1) / PageSize
	if count == 0 {
		count = 1
	}
	if number < 1 || number > count {
		return Page{}, ErrInvalidPage
	}

	start := (number - 1) * PageSize
	end := min(start+PageSize, len(invoices))
	return Page{Invoices: invoices[start:end], Number: number, Count: count}, nil
}
