package form

import (
	"testing"

	"brewratio/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatioForm() *Form {
	return New(
		NewTextInput("coffee-gram", "1"),
		NewTextInput("water-ml", "12"),
		NewTextInput("use-water-ml", "200"),
	)
}

func TestForm_SetValue(t *testing.T) {
	f := newRatioForm()

	var events []string
	f.Input("water-ml").AddEventListener(func(ev Event) {
		events = append(events, "input:"+ev.Target.Value)
	})
	f.AddEventListener(func(ev Event) {
		events = append(events, "form:"+ev.Target.Name)
	})

	assert.True(t, f.SetValue("water-ml", "250"))
	assert.Equal(t, "250", f.Input("water-ml").Value)
	assert.Equal(t, []string{"input:250", "form:water-ml"}, events, "input listeners run before the form's")

	assert.False(t, f.SetValue("unknown", "1"))
	assert.False(t, f.SetValue("", "1"))
	assert.Len(t, events, 2)
}

func TestForm_RemoveListener(t *testing.T) {
	f := newRatioForm()

	calls := 0
	remove := f.AddEventListener(func(Event) { calls++ })
	require.Equal(t, 1, f.ListenerCount())

	f.SetValue("coffee-gram", "2")
	remove()
	f.SetValue("coffee-gram", "3")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, f.ListenerCount())

	assert.NotPanics(t, remove, "removing twice is harmless")
}

func TestForm_Values(t *testing.T) {
	f := New(
		NewTextInput("coffee-gram", "1"),
		&Input{Type: InputTypeText, Value: "unnamed"},
		NewTextInput("water-ml", "12"),
	)

	assert.Equal(t, map[string]string{"coffee-gram": "1", "water-ml": "12"}, f.Values())
}

func TestState_With(t *testing.T) {
	s := NewState(map[string]string{"coffee-gram": "1", "water-ml": "12"})
	next := s.With("water-ml", "250")

	assert.NotEqual(t, s.Version(), next.Version())
	assert.Equal(t, "12", s.Get("water-ml"), "original snapshot is unchanged")
	assert.Equal(t, "250", next.Get("water-ml"))
	assert.Equal(t, "1", next.Get("coffee-gram"))
}

func TestState_Zero(t *testing.T) {
	var s State
	assert.Equal(t, uint64(0), s.Version())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, map[string]string{}, s.Map())

	_, ok := s.Lookup("coffee-gram")
	assert.False(t, ok)
}

func TestMirror_MountSnapshotsAllFields(t *testing.T) {
	f := newRatioForm()
	m := NewMirror(cache.Local{})

	var notified []State
	m.Subscribe(func(s State) { notified = append(notified, s) })

	m.Mount(f)

	require.Len(t, notified, 1, "initial values arrive in one update")
	assert.Equal(t, map[string]string{
		"coffee-gram":  "1",
		"water-ml":     "12",
		"use-water-ml": "200",
	}, m.State().Map())
	assert.True(t, m.Mounted())
}

func TestMirror_ChangeUpdatesOneEntry(t *testing.T) {
	f := newRatioForm()
	m := NewMirror(cache.Local{})
	m.Mount(f)

	before := m.State()
	f.SetValue("coffee-gram", "15")
	after := m.State()

	assert.Equal(t, "15", after.Get("coffee-gram"))
	assert.Equal(t, before.Get("water-ml"), after.Get("water-ml"))
	assert.Equal(t, before.Get("use-water-ml"), after.Get("use-water-ml"))
	assert.Equal(t, before.Len(), after.Len())
	assert.NotEqual(t, before.Version(), after.Version())
}

func TestMirror_IgnoresUnnamedInputs(t *testing.T) {
	unnamed := &Input{Type: InputTypeText, Value: "x"}
	f := New(NewTextInput("coffee-gram", "1"), unnamed)
	m := NewMirror(cache.Local{})
	m.Mount(f)

	version := m.State().Version()
	unnamed.Value = "y"
	f.Dispatch(unnamed)

	assert.Equal(t, version, m.State().Version())
	assert.Equal(t, 1, m.State().Len())
}

func TestMirror_ValuesAreRawStrings(t *testing.T) {
	f := newRatioForm()
	m := NewMirror(cache.Local{})
	m.Mount(f)

	f.SetValue("water-ml", " 0x10 ")
	assert.Equal(t, " 0x10 ", m.State().Get("water-ml"))
}

func TestMirror_Unmount(t *testing.T) {
	f := newRatioForm()
	m := NewMirror(cache.NewLocal(cache.NewMemory()))
	m.Mount(f)
	require.Greater(t, f.ListenerCount(), 0)

	m.Unmount()
	assert.Equal(t, 0, f.ListenerCount(), "no dangling listeners")
	assert.False(t, m.Mounted())

	version := m.State().Version()
	f.SetValue("coffee-gram", "99")
	assert.Equal(t, version, m.State().Version())

	assert.NotPanics(t, m.Unmount)
}

func TestMirror_MountNilForm(t *testing.T) {
	m := NewMirror(cache.Local{})
	m.Mount(nil)

	assert.False(t, m.Mounted())
	assert.Equal(t, 0, m.State().Len())
}

func TestMirror_Remount(t *testing.T) {
	first := newRatioForm()
	second := newRatioForm()
	m := NewMirror(cache.Local{})

	m.Mount(first)
	m.Mount(second)

	assert.Equal(t, 0, first.ListenerCount())
	assert.Greater(t, second.ListenerCount(), 0)
}

func TestMirror_Unsubscribe(t *testing.T) {
	f := newRatioForm()
	m := NewMirror(cache.Local{})

	calls := 0
	unsubscribe := m.Subscribe(func(State) { calls++ })
	m.Mount(f)
	unsubscribe()
	f.SetValue("coffee-gram", "2")

	assert.Equal(t, 1, calls)
}

func TestMirror_RestoresFromCache(t *testing.T) {
	store := cache.NewMemory()
	store.Set("coffee-gram", "15")
	store.Set("water-ml", "250")

	f := newRatioForm()
	m := NewMirror(cache.NewLocal(store))
	m.Mount(f)

	assert.Equal(t, "15", f.Input("coffee-gram").Value, "input value is overwritten")
	assert.Equal(t, map[string]string{
		"coffee-gram":  "15",
		"water-ml":     "250",
		"use-water-ml": "200",
	}, m.State().Map())
}

func TestMirror_SkipsEmptyStoredValues(t *testing.T) {
	store := cache.NewMemory()
	store.Set("coffee-gram", "")

	f := newRatioForm()
	NewMirror(cache.NewLocal(store)).Mount(f)

	assert.Equal(t, "1", f.Input("coffee-gram").Value)
}

func TestMirror_OnlyRestoresTextInputs(t *testing.T) {
	store := cache.NewMemory()
	store.Set("strength", "strong")

	f := New(&Input{Name: "strength", Type: "hidden", Value: "normal"})
	NewMirror(cache.NewLocal(store)).Mount(f)

	assert.Equal(t, "normal", f.Input("strength").Value)
}

func TestMirror_PersistsChanges(t *testing.T) {
	store := cache.NewMemory()
	f := newRatioForm()
	m := NewMirror(cache.NewLocal(store))
	m.Mount(f)

	f.SetValue("use-water-ml", "500")

	v, ok := store.Get("use-water-ml")
	assert.True(t, ok)
	assert.Equal(t, "500", v)

	_, ok = store.Get("coffee-gram")
	assert.False(t, ok, "mount alone does not write")

	// A fresh mount sees the persisted value.
	again := newRatioForm()
	NewMirror(cache.NewLocal(store)).Mount(again)
	assert.Equal(t, "500", again.Input("use-water-ml").Value)
}

func TestMirror_WithoutStoreBehavesTheSame(t *testing.T) {
	run := func(local cache.Local) map[string]string {
		f := newRatioForm()
		m := NewMirror(local)
		m.Mount(f)
		f.SetValue("coffee-gram", "15")
		f.SetValue("water-ml", "250")
		return m.State().Map()
	}

	assert.Equal(t, run(cache.NewLocal(cache.NewMemory())), run(cache.Local{}))

	// Nothing survives a fresh mount without a store.
	f := newRatioForm()
	m := NewMirror(cache.Local{})
	m.Mount(f)
	assert.Equal(t, "1", m.State().Get("coffee-gram"))
}
