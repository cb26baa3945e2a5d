package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/ajg/form"
	"github.com/angelofallars/htmx-go"
	"github.com/angelofallars/rentbill/app/auth"
	"github.com/angelofallars/rentbill/app/component"
	"github.com/angelofallars/rentbill/app/event"
	domain "github.com/angelofallars/rentbill/internal/invoice"
	"github.com/angelofallars/rentbill/internal/service"
	"github.com/angelofallars/rentbill/internal/status"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type HandlerGroup struct {
	svcInvoice service.Invoice
	csrf       *auth.CSRF
	slog       *slog.Logger
}

func NewHandlerGroup(svcInvoice service.Invoice, csrf *auth.CSRF, slog *slog.Logger) *HandlerGroup {
	return &HandlerGroup{
		svcInvoice: svcInvoice,
		csrf:       csrf,
		slog:       slog,
	}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(hg.csrf.Issue)
		r.Get("/", hg.handleManage)
		r.Get("/invoices/new", hg.handleNew)
		r.Get("/invoices/{invoiceID}", hg.handleDetail)
	})

	r.Post("/invoices/totals", hg.handleTotals)
	r.Post("/invoices", hg.csrf.Require(hg.handleCreate))
	r.Post("/invoices/{invoiceID}/status", hg.csrf.Require(hg.handleUpdateStatus))
	r.Post("/invoices/{invoiceID}/delete", hg.csrf.Require(hg.handleDelete))
}

var pageListeners = []templ.Attributes{
	event.SetErrMessage.Listen("errMessage = $event.detail.value"),
	event.StatusUpdated.Listen("alert('Status updated to: ' + $event.detail.value)"),
	event.StatusFailed.Listen("alert('Error: ' + $event.detail.value)"),
}

func (hg *HandlerGroup) handleManage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := newListFilter(query)
	if err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	number := 1
	if p := query.Get("page"); p != "" {
		number, err = strconv.Atoi(p)
		if err != nil {
			showError(w, http.StatusNotFound, service.ErrInvalidPage)
			return
		}
	}

	invoices, err := hg.svcInvoice.List(r.Context(), filter)
	if err != nil {
		showError(w, http.StatusInternalServerError, err)
		return
	}

	page, err := service.Paginate(invoices, number)
	if err != nil {
		showError(w, http.StatusNotFound, err)
		return
	}

	rows := make([]RowProps, 0, len(page.Invoices))
	for _, inv := range page.Invoices {
		rows = append(rows, RowProps{
			ID:           inv.ID.String(),
			SerialNumber: inv.SerialNumber,
			TenantName:   inv.TenantName,
			Date:         inv.Date.Format(time.DateOnly),
			Grand:        inv.Amount(domain.RoleGrand).StringFixed(2),
			Status:       inv.Status,
			DetailURL:    detailURL(inv.ID),
			StatusAction: detailURL(inv.ID) + "/status",
			DeleteAction: detailURL(inv.ID) + "/delete",
		})
	}

	props := ManageProps{
		Search:    filter.Search,
		Status:    filter.Status,
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Rows:      rows,
		Page:      PageProps{Number: page.Number, Count: page.Count},
	}
	if page.HasPrev() {
		props.Page.Prev = pageURL(query, page.Number-1)
	}
	if page.HasNext() {
		props.Page.Next = pageURL(query, page.Number+1)
	}

	_ = component.FullPage("Manage invoices", Manage(props), pageListeners...).Render(r.Context(), w)
}

func newListFilter(query url.Values) (service.ListFilter, error) {
	filter := service.ListFilter{Search: strings.TrimSpace(query.Get("search"))}

	if s := query.Get("status"); s != "" {
		st, ok := domain.ParseStatus(s)
		if !ok {
			return filter, fmt.Errorf("Unknown status filter: %s", s)
		}
		filter.Status = st
	}

	var err error
	if filter.StartDate, err = parseDate(query.Get("start_date")); err != nil {
		return filter, fmt.Errorf("Invalid start date: %w", err)
	}
	if filter.EndDate, err = parseDate(query.Get("end_date")); err != nil {
		return filter, fmt.Errorf("Invalid end date: %w", err)
	}
	return filter, nil
}

// parseDate reads a YYYY-MM-DD date. Blank input is the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

// pageURL keeps the current filters and moves to page number.
func pageURL(query url.Values, number int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(number))
	return "/?" + q.Encode()
}

func detailURL(id uuid.UUID) string {
	return "/invoices/" + id.String()
}

func (hg *HandlerGroup) handleNew(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := Create(func(role domain.Role) string { return query.Get(role.FieldName()) })
	_ = component.FullPage("Create invoice", page, pageListeners...).Render(r.Context(), w)
}

func (hg *HandlerGroup) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "invoiceID"))
	if err != nil {
		showError(w, http.StatusNotFound, service.ErrNotFound)
		return
	}

	inv, err := hg.svcInvoice.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, service.ErrNotFound) {
			code = http.StatusNotFound
		}
		showError(w, code, err)
		return
	}

	amounts := make([]AmountProps, 0, len(domain.Roles))
	for _, role := range domain.Roles {
		amounts = append(amounts, AmountProps{
			Label: role.Label(),
			Value: inv.Amount(role).StringFixed(2),
		})
	}

	page := Detail(DetailProps{
		SerialNumber: inv.SerialNumber,
		TenantName:   inv.TenantName,
		Date:         inv.Date.Format(time.DateOnly),
		Status:       inv.Status,
		Amounts:      amounts,
		StatusAction: detailURL(inv.ID) + "/status",
		DeleteAction: detailURL(inv.ID) + "/delete",
	})
	_ = component.FullPage("Invoice "+inv.SerialNumber, page, pageListeners...).Render(r.Context(), w)
}

func (hg *HandlerGroup) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "invoiceID"))
	if err != nil {
		showError(w, http.StatusNotFound, service.ErrNotFound)
		return
	}

	if err := hg.svcInvoice.Delete(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, service.ErrNotFound) {
			code = http.StatusNotFound
		} else {
			hg.slog.Error("deleting invoice", "id", id, "err", err)
		}
		showError(w, code, err)
		return
	}

	hg.slog.Info("invoice deleted", "id", id)

	if htmx.IsHTMX(r) {
		_ = htmx.NewResponse().Redirect("/").Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleTotals recomputes the invoice totals from the posted form.
// Totals are always derived here, never taken from the request.
func (hg *HandlerGroup) handleTotals(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	totals := domain.ComputeTotals(func(role domain.Role) string {
		return r.PostForm.Get(role.FieldName())
	})

	_ = htmx.NewResponse().
		Retarget("#invoice-totals").
		Reswap(htmx.SwapOuterHTML).
		AddTrigger(event.TriggerTotalsUpdated(totals.GrandText())).
		RenderTempl(r.Context(), w, Totals(totals))
}

func (hg *HandlerGroup) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	req, err := newCreateInvoiceRequest(r.PostForm)
	if err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	inv, err := hg.svcInvoice.Create(r.Context(), req)
	if err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	hg.slog.Info("invoice created", "id", inv.ID, "serial", inv.SerialNumber)

	if htmx.IsHTMX(r) {
		_ = htmx.NewResponse().Redirect("/").Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func newCreateInvoiceRequest(values url.Values) (service.CreateInvoiceRequest, error) {
	req := service.CreateInvoiceRequest{
		TenantName: values.Get("tenant_name"),
		Amounts:    make(map[domain.Role]string, len(domain.Roles)),
	}

	if dateString := values.Get("date"); dateString != "" {
		date, err := time.Parse(time.DateOnly, dateString)
		if err != nil {
			return req, fmt.Errorf("Parsing date failed: %w", err)
		}
		req.Date = date
	}

	for _, role := range domain.Roles {
		req.Amounts[role] = values.Get(role.FieldName())
	}

	return req, nil
}

type UpdateStatusRequest struct {
	CSRFToken string `form:"csrfmiddlewaretoken" json:"csrfmiddlewaretoken"`
	Status    string `form:"status" json:"status"`
}

// UpdateStatusRequest satisfies [render.Binder]
func (usr *UpdateStatusRequest) Bind(r *http.Request) error {
	usr.Status = strings.TrimSpace(usr.Status)
	if usr.Status == "" {
		return errors.New("Status is required")
	}
	return nil
}

// bindUpdateStatus decodes the request body into req. Form bodies may
// already have been parsed by the CSRF check, so they are decoded from
// r.PostForm rather than the body.
func bindUpdateStatus(r *http.Request, req *UpdateStatusRequest) error {
	if render.GetRequestContentType(r) != render.ContentTypeForm {
		return render.Bind(r, req)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	dec := form.NewDecoder(nil)
	dec.IgnoreUnknownKeys(true)
	if err := dec.DecodeValues(req, r.PostForm); err != nil {
		return err
	}
	return req.Bind(r)
}

func (hg *HandlerGroup) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "invoiceID"))
	if err != nil {
		replyStatus(w, r, http.StatusNotFound, status.Response{Error: service.ErrNotFound.Error()})
		return
	}

	req := &UpdateStatusRequest{}
	if err := bindUpdateStatus(r, req); err != nil {
		replyStatus(w, r, http.StatusBadRequest, status.Response{Error: err.Error()})
		return
	}

	token, _ := auth.GetCSRFToken(r.Context())
	if req.CSRFToken != token {
		replyStatus(w, r, http.StatusForbidden, status.Response{Error: "CSRF token mismatch"})
		return
	}

	inv, err := hg.svcInvoice.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidTransition):
			code = http.StatusBadRequest
		default:
			hg.slog.Error("updating invoice status", "id", id, "err", err)
		}
		replyStatus(w, r, code, status.Response{Error: err.Error()})
		return
	}

	hg.slog.Info("invoice status updated", "id", id, "status", inv.Status)
	replyStatus(w, r, http.StatusOK, status.Response{Success: true, NewStatus: string(inv.Status)})
}

// replyStatus answers scripted callers with JSON and htmx with a
// status-updated or status-failed trigger.
func replyStatus(w http.ResponseWriter, r *http.Request, code int, resp status.Response) {
	if htmx.IsHTMX(r) {
		trigger := event.TriggerStatusUpdated(resp.NewStatus)
		if !resp.Success {
			trigger = event.TriggerStatusFailed(resp.Error)
		}
		_ = htmx.NewResponse().
			StatusCode(code).
			Reswap(htmx.SwapNone).
			AddTrigger(trigger).
			Write(w)
		return
	}

	render.Status(r, code)
	render.JSON(w, r, resp)
}

func showError(w http.ResponseWriter, code int, err error) {
	_ = htmx.NewResponse().
		StatusCode(code).
		Reswap(htmx.SwapNone).
		AddTrigger(event.TriggerSetErrMessage(err.Error())).
		Write(w)
}
