package invoice

import (
	"bytes"
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/angelofallars/rentbill/app/auth"
	"github.com/angelofallars/rentbill/app/component"
	domain "github.com/angelofallars/rentbill/internal/invoice"
	"github.com/angelofallars/rentbill/internal/status"
)

type RowProps struct {
	ID           string
	SerialNumber string
	TenantName   string
	Date         string
	Grand        string
	Status       domain.Status
	DetailURL    string
	StatusAction string
	DeleteAction string
}

// PageProps describes one page of a paginated list. Prev and Next are
// empty when there is no such page.
type PageProps struct {
	Number int
	Count  int
	Prev   string
	Next   string
}

type ManageProps struct {
	Search    string
	Status    domain.Status
	StartDate string
	EndDate   string
	Rows      []RowProps
	Page      PageProps
}

// Manage lists invoices, each with a status form for in-place status
// changes.
func Manage(props ManageProps) templ.Component {
	return component.Buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		token, _ := auth.GetCSRFToken(ctx)

		buf.WriteString(`<h1>Manage invoices</h1>`)
		buf.WriteString(`<form class="search-form" method="get" action="/">`)
		buf.WriteString(`<input type="search" name="search" placeholder="Tenant or serial number" value="`)
		buf.WriteString(templ.EscapeString(props.Search))
		buf.WriteString(`"><input type="date" name="start_date" value="`)
		buf.WriteString(templ.EscapeString(props.StartDate))
		buf.WriteString(`"><input type="date" name="end_date" value="`)
		buf.WriteString(templ.EscapeString(props.EndDate))
		buf.WriteString(`"><select name="status"><option value="">All</option>`)
		writeStatusOptions(buf, props.Status)
		buf.WriteString(`</select><button type="submit">Filter</button></form>`)
		buf.WriteString(`<a href="/invoices/new">New invoice</a>`)

		buf.WriteString(`<table id="invoices"><thead><tr>`)
		buf.WriteString(`<th>Serial</th><th>Tenant</th><th>Date</th><th>Grand total</th><th>Status</th><th></th>`)
		buf.WriteString(`</tr></thead><tbody>`)
		for _, row := range props.Rows {
			buf.WriteString(`<tr id="invoice-`)
			buf.WriteString(templ.EscapeString(row.ID))
			buf.WriteString(`"><td><a href="`)
			buf.WriteString(templ.EscapeString(row.DetailURL))
			buf.WriteString(`">`)
			buf.WriteString(templ.EscapeString(row.SerialNumber))
			buf.WriteString(`</a></td><td>`)
			buf.WriteString(templ.EscapeString(row.TenantName))
			buf.WriteString(`</td><td>`)
			buf.WriteString(templ.EscapeString(row.Date))
			buf.WriteString(`</td><td>`)
			buf.WriteString(templ.EscapeString(row.Grand))
			buf.WriteString(`</td><td>`)
			writeStatusForm(buf, row.StatusAction, row.Status, token)
			buf.WriteString(`</td><td>`)
			writeDeleteForm(buf, row.DeleteAction, row.SerialNumber, token)
			buf.WriteString(`</td></tr>`)
		}
		if len(props.Rows) == 0 {
			buf.WriteString(`<tr><td colspan="6">No invoices found.</td></tr>`)
		}
		buf.WriteString(`</tbody></table>`)

		writePagination(buf, props.Page)
		return nil
	})
}

type AmountProps struct {
	Label string
	Value string
}

type DetailProps struct {
	SerialNumber string
	TenantName   string
	Date         string
	Status       domain.Status
	Amounts      []AmountProps
	StatusAction string
	DeleteAction string
}

// Detail shows a single invoice with every amount line.
func Detail(props DetailProps) templ.Component {
	return component.Buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		token, _ := auth.GetCSRFToken(ctx)

		buf.WriteString(`<h1>Invoice `)
		buf.WriteString(templ.EscapeString(props.SerialNumber))
		buf.WriteString(`</h1><dl class="invoice-detail"><dt>Tenant</dt><dd>`)
		buf.WriteString(templ.EscapeString(props.TenantName))
		buf.WriteString(`</dd><dt>Date</dt><dd>`)
		buf.WriteString(templ.EscapeString(props.Date))
		buf.WriteString(`</dd><dt>Status</dt><dd>`)
		writeStatusForm(buf, props.StatusAction, props.Status, token)
		buf.WriteString(`</dd></dl><table class="amounts"><tbody>`)
		for _, amount := range props.Amounts {
			buf.WriteString(`<tr><th>`)
			buf.WriteString(templ.EscapeString(amount.Label))
			buf.WriteString(`</th><td>`)
			buf.WriteString(templ.EscapeString(amount.Value))
			buf.WriteString(`</td></tr>`)
		}
		buf.WriteString(`</tbody></table>`)
		writeDeleteForm(buf, props.DeleteAction, props.SerialNumber, token)
		buf.WriteString(`<a href="/">Back to invoices</a>`)
		return nil
	})
}

type InputProps struct {
	ID    string
	Name  string
	Label string
	Value string
}

// Totals renders the computed total fields; it is swapped in place as
// fee fields change.
func Totals(t domain.Totals) templ.Component {
	return component.Buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<div id="invoice-totals">`)
		writeTotalField(buf, domain.RoleTotal, t.TotalText())
		writeTotalField(buf, domain.RoleGrand, t.GrandText())
		buf.WriteString(`</div>`)
		return nil
	})
}

// Create renders the invoice form with values prefilled from values.
func Create(values func(domain.Role) string) templ.Component {
	return component.Buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		token, _ := auth.GetCSRFToken(ctx)

		buf.WriteString(`<h1>Create invoice</h1>`)
		buf.WriteString(`<form id="invoice-form" method="post" action="/invoices" hx-post="/invoices">`)
		writeTokenField(buf, token)
		buf.WriteString(`<label for="id_tenant_name">Tenant</label>`)
		buf.WriteString(`<input type="text" id="id_tenant_name" name="tenant_name" required>`)
		buf.WriteString(`<label for="id_date">Date</label>`)
		buf.WriteString(`<input type="date" id="id_date" name="date">`)

		for _, role := range domain.Roles {
			if role.Computed() {
				continue
			}
			input := InputProps{
				ID:    role.ElementID(),
				Name:  role.FieldName(),
				Label: role.Label(),
				Value: values(role),
			}
			buf.WriteString(`<label for="`)
			buf.WriteString(templ.EscapeString(input.ID))
			buf.WriteString(`">`)
			buf.WriteString(templ.EscapeString(input.Label))
			buf.WriteString(`</label>`)
			buf.WriteString(`<input type="number" step="0.01"`)
			err := templ.RenderAttributes(ctx, buf, templ.Attributes{
				"id":         input.ID,
				"name":       input.Name,
				"value":      input.Value,
				"hx-post":    "/invoices/totals",
				"hx-trigger": "input changed delay:150ms",
				"hx-include": "#invoice-form",
				"hx-target":  "#invoice-totals",
				"hx-swap":    "outerHTML",
			})
			if err != nil {
				return err
			}
			buf.WriteString(`>`)
		}

		if err := Totals(domain.ComputeTotals(values)).Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`<button type="submit">Save</button></form>`)
		return nil
	})
}

func writeTotalField(buf *bytes.Buffer, role domain.Role, value string) {
	buf.WriteString(`<label for="`)
	buf.WriteString(templ.EscapeString(role.ElementID()))
	buf.WriteString(`">`)
	buf.WriteString(templ.EscapeString(role.Label()))
	buf.WriteString(`</label><input type="number" step="0.01" id="`)
	buf.WriteString(templ.EscapeString(role.ElementID()))
	buf.WriteString(`" name="`)
	buf.WriteString(templ.EscapeString(role.FieldName()))
	buf.WriteString(`" value="`)
	buf.WriteString(templ.EscapeString(value))
	buf.WriteString(`" readonly>`)
}

func writeTokenField(buf *bytes.Buffer, token string) {
	buf.WriteString(`<input type="hidden" name="`)
	buf.WriteString(status.TokenField)
	buf.WriteString(`" value="`)
	buf.WriteString(templ.EscapeString(token))
	buf.WriteString(`">`)
}

func writeStatusOptions(buf *bytes.Buffer, selected domain.Status) {
	for _, s := range domain.Statuses {
		buf.WriteString(`<option value="`)
		buf.WriteString(templ.EscapeString(string(s)))
		buf.WriteString(`"`)
		if s == selected {
			buf.WriteString(` selected`)
		}
		buf.WriteString(`>`)
		buf.WriteString(templ.EscapeString(string(s)))
		buf.WriteString(`</option>`)
	}
}

// writeStatusForm renders a form that posts its status as soon as the
// select changes. It also works as a plain form post.
func writeStatusForm(buf *bytes.Buffer, action string, current domain.Status, token string) {
	buf.WriteString(`<form class="`)
	buf.WriteString(status.FormClass)
	buf.WriteString(`" method="post" action="`)
	buf.WriteString(templ.EscapeString(action))
	buf.WriteString(`" hx-post="`)
	buf.WriteString(templ.EscapeString(action))
	buf.WriteString(`" hx-trigger="change" hx-swap="none">`)
	writeTokenField(buf, token)
	buf.WriteString(`<select name="status">`)
	writeStatusOptions(buf, current)
	buf.WriteString(`</select></form>`)
}

func writeDeleteForm(buf *bytes.Buffer, action, serialNumber, token string) {
	buf.WriteString(`<form class="delete-form" method="post" action="`)
	buf.WriteString(templ.EscapeString(action))
	buf.WriteString(`" hx-post="`)
	buf.WriteString(templ.EscapeString(action))
	buf.WriteString(`" hx-confirm="Delete invoice `)
	buf.WriteString(templ.EscapeString(serialNumber))
	buf.WriteString(`?">`)
	writeTokenField(buf, token)
	buf.WriteString(`<button type="submit">Delete</button></form>`)
}

func writePagination(buf *bytes.Buffer, page PageProps) {
	if page.Count <= 1 {
		return
	}
	buf.WriteString(`<nav class="pagination">`)
	if page.Prev != "" {
		buf.WriteString(`<a rel="prev" href="`)
		buf.WriteString(templ.EscapeString(page.Prev))
		buf.WriteString(`">Previous</a>`)
	}
	buf.WriteString(`<span>Page `)
	buf.WriteString(strconv.Itoa(page.Number))
	buf.WriteString(` of `)
	buf.WriteString(strconv.Itoa(page.Count))
	buf.WriteString(`</span>`)
	if page.Next != "" {
		buf.WriteString(`<a rel="next" href="`)
		buf.WriteString(templ.EscapeString(page.Next))
		buf.WriteString(`">Next</a>`)
	}
	buf.WriteString(`</nav>`)
}
