// Package event provides definitions for global DOM
// events that are dispatched by the `HX-Trigger`
// header in HTMX requests.
package event

import (
	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
)

// Event is a client-side event that can be triggered
// on the server.
//
// Event names should be snake-case so Alpine.js
// can parse them correctly.
type Event string

// Event satisfies [fmt.Stringer]
func (e Event) String() string { return string(e) }

// Listen returns an Alpine.js x-on attribute with
// the provided JavaScript callback text.
//
// Format:
//
//	x-on:<eventName>.window="<code>"
func (e Event) Listen(jsCode string) templ.Attributes {
	return templ.Attributes{
		"x-on:" + string(e) + ".window": jsCode,
	}
}

const SetErrMessage Event = "set-err-message"

func TriggerSetErrMessage(message string) htmx.EventTrigger {
	return htmx.TriggerDetail(SetErrMessage.String(), message)
}

// StatusUpdated carries the invoice's new status as its detail.
const StatusUpdated Event = "status-updated"

func TriggerStatusUpdated(newStatus string) htmx.EventTrigger {
	return htmx.TriggerDetail(StatusUpdated.String(), newStatus)
}

// StatusFailed carries the server's error text as its detail.
const StatusFailed Event = "status-failed"

func TriggerStatusFailed(message string) htmx.EventTrigger {
	return htmx.TriggerDetail(StatusFailed.String(), message)
}

// TotalsUpdated carries the new grand total as its detail.
const TotalsUpdated Event = "totals-updated"

func TriggerTotalsUpdated(grand string) htmx.EventTrigger {
	return htmx.TriggerDetail(TotalsUpdated.String(), grand)
}
