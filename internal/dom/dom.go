// Package dom is a minimal page model for binding behavior to
// server-rendered forms: inputs addressed by identifier, forms
// addressed by class marker and synchronous event dispatch.
//
// All element references are optional. A nil *Input or *Form is a
// valid value and every method on it is a no-op.
package dom

import (
	"net/url"
	"slices"
	"sync"
)

// Event types dispatched by this package.
const (
	EventInput  = "input"
	EventChange = "change"
)

type Event struct {
	Type   string
	Target any

	defaultPrevented bool
}

// PreventDefault cancels the element's native behavior, such as a
// full form submission.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

type Listener func(*Event)

type listeners struct {
	mu    sync.Mutex
	byEvt map[string][]Listener
}

func (l *listeners) add(eventType string, fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.byEvt == nil {
		l.byEvt = map[string][]Listener{}
	}
	l.byEvt[eventType] = append(l.byEvt[eventType], fn)
}

// dispatch runs the listeners outside the lock so they may register
// more listeners or mutate the element.
func (l *listeners) dispatch(e *Event) bool {
	l.mu.Lock()
	fns := slices.Clone(l.byEvt[e.Type])
	l.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
	return !e.defaultPrevented
}

// Document is a page: a set of inputs keyed by identifier and the
// forms on it in document order.
type Document struct {
	mu     sync.RWMutex
	inputs map[string]*Input
	forms  []*Form
}

func NewDocument() *Document {
	return &Document{inputs: map[string]*Input{}}
}

// AddInput places a new input on the page. An existing input with the
// same identifier is replaced.
func (d *Document) AddInput(id, value string) *Input {
	in := &Input{id: id, value: value}

	d.mu.Lock()
	d.inputs[id] = in
	d.mu.Unlock()

	return in
}

// ElementByID returns the input with the identifier, or nil.
func (d *Document) ElementByID(id string) *Input {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.inputs[id]
}

func (d *Document) AddForm(f *Form) *Form {
	d.mu.Lock()
	d.forms = append(d.forms, f)
	d.mu.Unlock()
	return f
}

// FormsByClass returns the forms carrying class at the time of the
// call. Forms added afterwards are not included.
func (d *Document) FormsByClass(class string) []*Form {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var forms []*Form
	for _, f := range d.forms {
		if f.HasClass(class) {
			forms = append(forms, f)
		}
	}
	return forms
}

type Input struct {
	id string

	mu    sync.RWMutex
	value string

	listeners listeners
}

func (in *Input) ID() string {
	if in == nil {
		return ""
	}
	return in.id
}

func (in *Input) Value() string {
	if in == nil {
		return ""
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.value
}

// SetValue writes the value without dispatching any event, the way a
// script assignment does.
func (in *Input) SetValue(value string) {
	if in == nil {
		return
	}
	in.mu.Lock()
	in.value = value
	in.mu.Unlock()
}

func (in *Input) AddEventListener(eventType string, fn Listener) {
	if in == nil {
		return
	}
	in.listeners.add(eventType, fn)
}

// Type replaces the value and dispatches an input event, as a user
// editing the field would.
func (in *Input) Type(value string) {
	if in == nil {
		return
	}
	in.SetValue(value)
	in.listeners.dispatch(&Event{Type: EventInput, Target: in})
}

// Form is a form element: an action URL, class markers and named fields
// kept in insertion order.
type Form struct {
	Action  string
	Classes []string

	mu     sync.RWMutex
	names  []string
	fields map[string]string

	listeners listeners
}

func NewForm(action string, classes ...string) *Form {
	return &Form{
		Action:  action,
		Classes: classes,
		fields:  map[string]string{},
	}
}

func (f *Form) HasClass(class string) bool {
	if f == nil {
		return false
	}
	return slices.Contains(f.Classes, class)
}

// SetField writes a field without dispatching any event.
func (f *Form) SetField(name, value string) *Form {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.fields[name]; !ok {
		f.names = append(f.names, name)
	}
	f.fields[name] = value
	return f
}

func (f *Form) Field(name string) string {
	if f == nil {
		return ""
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.fields[name]
}

// Values snapshots the form's current fields for submission.
func (f *Form) Values() url.Values {
	values := url.Values{}
	if f == nil {
		return values
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, name := range f.names {
		values.Add(name, f.fields[name])
	}
	return values
}

func (f *Form) AddEventListener(eventType string, fn Listener) {
	if f == nil {
		return
	}
	f.listeners.add(eventType, fn)
}

// Select changes a field the way picking an option in a select does and
// dispatches a change event on the form. It reports whether the form's
// default action was left in place.
func (f *Form) Select(name, value string) bool {
	if f == nil {
		return false
	}
	f.SetField(name, value)
	return f.listeners.dispatch(&Event{Type: EventChange, Target: f})
}
