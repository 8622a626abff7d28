// Package pages composes full HTML documents from components.
package pages

import (
	"context"
	"io"

	"brewratio/internal/ratio"
	"brewratio/internal/web/components"

	"github.com/a-h/templ"
)

// Lang is the language tag the page text is written in.
const Lang = "es-CL"

// RatioPageProps is the data needed to render the calculator.
type RatioPageProps struct {
	// Values holds the input values keyed by field name. Missing fields fall
	// back to ratio.Defaults.
	Values map[string]string

	// Result is the formatted ratio
	Result string

	// ShareURL reopens the page with the current values
	ShareURL string
}

func (p RatioPageProps) value(name string) string {
	if v, ok := p.Values[name]; ok {
		return v
	}
	return ratio.Defaults[name]
}

func (p RatioPageProps) input(name string) templ.Component {
	return components.TextInput(components.TextInputProps{Name: name, Value: p.value(name)})
}

// RatioPage renders the complete calculator document.
func RatioPage(props RatioPageProps) templ.Component {
	t := components.Text
	locale := components.Locale(Lang)

	heading := components.Wrap(locale, t("☕️ Calculadora de Ratio"))
	ratioLine := components.Wrap(locale,
		t("Para un ration de "),
		props.input(ratio.FieldCoffeeGram),
		t(" gramos de café por "),
		props.input(ratio.FieldWaterML),
		t(" mililitros de agua."),
	)
	usageLine := components.Wrap(locale,
		t("En tu porción usaras "),
		props.input(ratio.FieldUseWaterML),
		t(" mililitros de agua."),
	)
	resultLine := components.Wrap(locale,
		t("Debes usar "),
		components.Result(props.Result),
		t(" gramos de café."),
	)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []templ.Component{
			raw(`<!DOCTYPE html><html><head><meta charset="utf-8">` +
				`<meta name="viewport" content="width=device-width, initial-scale=1">` +
				`<title>Calculadora de Ratio</title>` +
				`<script src="/static/ratio.js" defer></script></head><body>` +
				`<form id="ratio-form" method="post" action="/change">` +
				`<div class="hero min-h-screen bg-base-200"><div class="hero-content flex-col"><div>` +
				`<header><h1 class="text-5xl font-bold">`),
			heading,
			raw(`</h1></header><div><section><p>`),
			ratioLine,
			raw(`</p><p>`),
			usageLine,
			raw(`</p><div class="divider"></div><p>`),
			resultLine,
			raw(`</p>`),
			shareLink(props.ShareURL),
			raw(`</section></div></div></div></div>` +
				`<noscript><button type="submit" class="btn btn-primary">Calcular</button></noscript>` +
				`</form></body></html>`),
		}
		for _, c := range parts {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func shareLink(url string) templ.Component {
	if url == "" {
		return templ.NopComponent
	}
	return raw(`<p><a id="ratio-share" class="link" href="` + templ.EscapeString(url) + `">Enlace</a></p>`)
}

func raw(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}
