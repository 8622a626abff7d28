// Package components holds the small templ building blocks the ratio page is
// made of.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Locale marks its children as written in lang. It renders the children
// unchanged and performs no translation or formatting.
func Locale(lang string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), w)
	})
}

// Wrap renders parent with children available through templ.GetChildren.
func Wrap(parent templ.Component, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return parent.Render(templ.WithChildren(ctx, templ.Join(children...)), w)
	})
}

// Text renders s HTML-escaped.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// TextInputProps configures a text input
type TextInputProps struct {
	Name  string
	Value string
	Class string
}

// TextInput renders an <input type="text">.
func TextInput(props TextInputProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := props.Class
		if class == "" {
			class = "input input-bordered"
		}
		_, err := io.WriteString(w, `<input type="text" name="`+templ.EscapeString(props.Name)+
			`" value="`+templ.EscapeString(props.Value)+
			`" class="`+templ.EscapeString(class)+
			`" inputmode="decimal" autocomplete="off">`)
		return err
	})
}

// ResultID is the element id of the rendered result, targeted by live updates.
const ResultID = "ratio-result"

// Result renders the formatted ratio.
func Result(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<strong id="`+ResultID+`">`+templ.EscapeString(text)+`</strong>`)
		return err
	})
}
