// Package page wires the ratio form, its state mirror and the calculator
// into one mounted page.
package page

import (
	"math"

	"brewratio/internal/cache"
	"brewratio/internal/form"
	"brewratio/internal/metrics"
	"brewratio/internal/ratio"

	"github.com/rs/zerolog/log"
)

// SharePath is the path share links point at.
const SharePath = "/"

// View is everything needed to render the page for one state snapshot.
type View struct {
	Values   map[string]string
	Result   float64
	Display  string
	ShareURL string
	Version  uint64
}

// Page is a mounted ratio form. A Page is used by one goroutine at a time.
type Page struct {
	form   *form.Form
	mirror *form.Mirror
	calc   ratio.Calculator
}

// NewForm returns the ratio form with its default values.
func NewForm() *form.Form {
	inputs := make([]*form.Input, 0, len(ratio.Fields))
	for _, name := range ratio.Fields {
		inputs = append(inputs, form.NewTextInput(name, ratio.Defaults[name]))
	}
	return form.New(inputs...)
}

// New mounts a fresh ratio form. Values cached in local are restored before
// the initial snapshot is taken.
func New(local cache.Local) *Page {
	p := &Page{
		form:   NewForm(),
		mirror: form.NewMirror(local),
	}
	p.mirror.Mount(p.form)
	return p
}

// Change applies a change event to the named field. It reports false for
// fields the form does not have.
func (p *Page) Change(name, value string) bool {
	return p.form.SetValue(name, value)
}

// State returns the mirrored form state.
func (p *Page) State() form.State {
	return p.mirror.State()
}

// Form returns the underlying form.
func (p *Page) Form() *form.Form {
	return p.form
}

// View computes the view of the current state.
func (p *Page) View() View {
	return p.view(p.mirror.State())
}

// Subscribe calls fn with a fresh View after every state change and returns
// a function that stops the notifications.
func (p *Page) Subscribe(fn func(View)) func() {
	return p.mirror.Subscribe(func(s form.State) {
		fn(p.view(s))
	})
}

// Close unmounts the form, removing every listener.
func (p *Page) Close() {
	p.mirror.Unmount()
}

func (p *Page) view(s form.State) View {
	result := p.calc.Result(s)
	metrics.RatioComputationsTotal.WithLabelValues(outcome(result)).Inc()

	share, err := ratio.ShareURL(SharePath, s)
	if err != nil {
		log.Warn().Err(err).Msg("page: failed to build share link")
		share = ""
	}

	return View{
		Values:   s.Map(),
		Result:   result,
		Display:  ratio.Format(result),
		ShareURL: share,
		Version:  s.Version(),
	}
}

func outcome(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 0):
		return "infinite"
	default:
		return "finite"
	}
}
