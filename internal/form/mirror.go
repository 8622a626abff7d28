package form

import (
	"sync"

	"brewratio/internal/cache"
	"brewratio/internal/metrics"
)

// Mirror keeps a State in sync with the inputs of a mounted Form and
// notifies subscribers on every change.
type Mirror struct {
	local cache.Local

	mu          sync.RWMutex
	state       State
	unsubs      []func()
	subscribers map[int]func(State)
	nextSubID   int
}

// NewMirror returns an unmounted mirror with empty state. Field values are
// restored from and persisted to local when it has a store.
func NewMirror(local cache.Local) *Mirror {
	return &Mirror{
		local:       local,
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (m *Mirror) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn to receive every new snapshot and returns a
// function that removes it.
func (m *Mirror) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSubID++
	id := m.nextSubID
	m.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Mount attaches the mirror to f. Cached values are written into the text
// inputs first, then every named input is folded into the state in a single
// update, and only then are change listeners registered. Mounting a nil form
// does nothing; mounting again unmounts the previous form.
func (m *Mirror) Mount(f *Form) {
	if f == nil {
		return
	}
	m.Unmount()

	var unsubs []func()
	for _, in := range f.Inputs() {
		if in.Name == "" || in.Type != InputTypeText {
			continue
		}
		if stored, ok := m.local.Get(in.Name); ok && stored != "" {
			in.Value = stored
		}
		name := in.Name
		unsubs = append(unsubs, in.AddEventListener(func(ev Event) {
			m.local.Set(name, ev.Target.Value)
		}))
	}

	m.set(func(s State) State { return s.Merge(f.Values()) })

	unsubs = append(unsubs, f.AddEventListener(m.handleChange))

	m.mu.Lock()
	m.unsubs = unsubs
	m.mu.Unlock()
}

// Unmount removes every listener registered by Mount. The state is kept.
func (m *Mirror) Unmount() {
	m.mu.Lock()
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// Mounted reports whether the mirror currently listens to a form.
func (m *Mirror) Mounted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unsubs != nil
}

func (m *Mirror) handleChange(ev Event) {
	if ev.Target == nil || ev.Target.Name == "" {
		return
	}
	metrics.FormChangesTotal.WithLabelValues(ev.Target.Name).Inc()

	name, value := ev.Target.Name, ev.Target.Value
	m.set(func(s State) State { return s.With(name, value) })
}

func (m *Mirror) set(update func(State) State) {
	m.mu.Lock()
	m.state = update(m.state)
	next := m.state
	subs := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
