// Package status submits invoice status changes from status forms
// without a page reload and reports the outcome to the user.
package status

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/angelofallars/rentbill/internal/dom"
)

// FormClass marks the forms a [Submitter] takes over.
const FormClass = "status-form"

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc satisfies [Notifier]
type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

type Submitter struct {
	client   *Client
	notifier Notifier
	slog     *slog.Logger

	wg sync.WaitGroup
}

func NewSubmitter(client *Client, notifier Notifier, slog *slog.Logger) *Submitter {
	return &Submitter{
		client:   client,
		notifier: notifier,
		slog:     slog,
	}
}

// Bind takes over every status form currently on doc and returns how
// many were bound. Submissions started from these forms run under ctx.
func (s *Submitter) Bind(ctx context.Context, doc *dom.Document) int {
	forms := doc.FormsByClass(FormClass)
	for _, form := range forms {
		form.AddEventListener(dom.EventChange, func(e *dom.Event) {
			e.PreventDefault()

			// Snapshot now; later edits belong to the next submission.
			values := form.Values()
			action := form.Action

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.submit(ctx, action, values)
			}()
		})
	}
	return len(forms)
}

// Submit sends form's current values and reports the result. It blocks
// until the response has been handled. A nil form is a no-op.
func (s *Submitter) Submit(ctx context.Context, form *dom.Form) {
	if form == nil {
		return
	}
	s.submit(ctx, form.Action, form.Values())
}

// Wait blocks until every submission started by a bound form has been
// handled.
func (s *Submitter) Wait() { s.wg.Wait() }

func (s *Submitter) submit(ctx context.Context, action string, values url.Values) {
	resp, err := s.client.UpdateStatus(ctx, action, values)
	if err != nil {
		s.slog.Error("status update failed", "action", action, "err", err)
		return
	}

	if resp.Success {
		s.notifier.Alert("Status updated to: " + resp.NewStatus)
		return
	}
	s.notifier.Alert("Error: " + resp.Error)
}
