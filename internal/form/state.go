package form

import (
	"maps"
	"sync/atomic"
)

var stateVersion atomic.Uint64

// State is an immutable snapshot of form values keyed by input name. Every
// update produces a new State with a new version, so a version identifies
// a snapshot the way a reference identifies an object.
type State struct {
	values  map[string]string
	version uint64
}

// NewState returns a snapshot holding a copy of values.
func NewState(values map[string]string) State {
	return State{values: maps.Clone(values), version: stateVersion.Add(1)}
}

// Lookup returns the value for name and whether it is present.
func (s State) Lookup(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Get returns the value for name, or the empty string.
func (s State) Get(name string) string {
	return s.values[name]
}

// Version identifies this snapshot. The zero State has version 0.
func (s State) Version() uint64 {
	return s.version
}

// Len returns the number of entries.
func (s State) Len() int {
	return len(s.values)
}

// Map returns a copy of the entries.
func (s State) Map() map[string]string {
	if s.values == nil {
		return map[string]string{}
	}
	return maps.Clone(s.values)
}

// With returns a new snapshot where name maps to value and every other entry
// is unchanged.
func (s State) With(name, value string) State {
	values := make(map[string]string, len(s.values)+1)
	maps.Copy(values, s.values)
	values[name] = value
	return State{values: values, version: stateVersion.Add(1)}
}

// Merge returns a new snapshot with all of updates applied in one step.
func (s State) Merge(updates map[string]string) State {
	values := make(map[string]string, len(s.values)+len(updates))
	maps.Copy(values, s.values)
	maps.Copy(values, updates)
	return State{values: values, version: stateVersion.Add(1)}
}
