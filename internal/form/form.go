// Package form mirrors the values of a form's inputs into an observable
// state snapshot.
//
// A Form models the native form: a container of named inputs that dispatch
// change events. Forms are owned by a single goroutine; event dispatch is
// synchronous and happens on the caller of SetValue.
package form

// InputTypeText is the type of inputs whose values are cached.
const InputTypeText = "text"

// Event is a change event. Target is the input whose value changed.
type Event struct {
	Target *Input
}

// Listener handles a change event.
type Listener func(Event)

// listeners is an ordered set of listeners that can be removed individually.
type listeners struct {
	nextID  int
	entries []listenerEntry
}

type listenerEntry struct {
	id int
	fn Listener
}

func (l *listeners) add(fn Listener) func() {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry{id: id, fn: fn})

	return func() {
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners) dispatch(ev Event) {
	// Copy so listeners can remove themselves while being dispatched.
	entries := append([]listenerEntry(nil), l.entries...)
	for _, e := range entries {
		e.fn(ev)
	}
}

func (l *listeners) len() int {
	return len(l.entries)
}

// Input is a form input element.
type Input struct {
	Name  string
	Type  string
	Value string

	listeners listeners
}

// NewTextInput returns a text input with an initial value.
func NewTextInput(name, value string) *Input {
	return &Input{Name: name, Type: InputTypeText, Value: value}
}

// AddEventListener registers fn for change events on this input and returns
// a function that removes it.
func (in *Input) AddEventListener(fn Listener) func() {
	return in.listeners.add(fn)
}

// Form is a container of inputs.
type Form struct {
	inputs    []*Input
	listeners listeners
}

// New returns a form holding inputs in order.
func New(inputs ...*Input) *Form {
	return &Form{inputs: inputs}
}

// Inputs returns the inputs of the form in document order.
func (f *Form) Inputs() []*Input {
	return f.inputs
}

// Input returns the first input named name, or nil.
func (f *Form) Input(name string) *Input {
	for _, in := range f.inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// AddEventListener registers fn for change events bubbling from any input
// and returns a function that removes it.
func (f *Form) AddEventListener(fn Listener) func() {
	return f.listeners.add(fn)
}

// SetValue changes the value of the input named name and dispatches a change
// event to the input's listeners and then to the form's listeners. It
// reports false when the form has no such input.
func (f *Form) SetValue(name, value string) bool {
	if name == "" {
		return false
	}
	in := f.Input(name)
	if in == nil {
		return false
	}
	in.Value = value
	f.Dispatch(in)
	return true
}

// Dispatch fires a change event for in without modifying its value.
func (f *Form) Dispatch(in *Input) {
	ev := Event{Target: in}
	in.listeners.dispatch(ev)
	f.listeners.dispatch(ev)
}

// Values returns the current value of every named input, like the form's
// data set. Later inputs with a duplicate name win.
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(f.inputs))
	for _, in := range f.inputs {
		if in.Name == "" {
			continue
		}
		values[in.Name] = in.Value
	}
	return values
}

// ListenerCount returns the number of listeners registered on the form and
// all of its inputs.
func (f *Form) ListenerCount() int {
	n := f.listeners.len()
	for _, in := range f.inputs {
		n += in.listeners.len()
	}
	return n
}
