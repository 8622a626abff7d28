package handlers

import (
	"math"
	"net/http"
	"strings"

	"brewratio/internal/form"
	"brewratio/internal/middleware"
	"brewratio/internal/page"
	"brewratio/internal/ratio"
	"brewratio/internal/tracing"
	"brewratio/internal/web/components"
	"brewratio/internal/web/pages"

	"github.com/rs/zerolog/log"
)

func visitorID(r *http.Request) string {
	return middleware.VisitorFromContext(r.Context())
}

// HandleIndex renders the calculator. The form is mounted server side so the
// first paint already shows cached values. Query parameters named after the
// fields are applied as change events, which lets share links reopen a ratio.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	p := page.New(h.local(r))
	defer p.Close()

	query := r.URL.Query()
	for _, name := range ratio.Fields {
		if query.Has(name) {
			p.Change(name, query.Get(name))
		}
	}

	ctx, span := tracing.RatioSpan(r.Context(), "page", p.State().Version())
	view := p.View()
	span.End()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pages.RatioPage(pages.RatioPageProps{
		Values:   view.Values,
		Result:   view.Display,
		ShareURL: strings.TrimSuffix(h.config.PublicURL, "/") + view.ShareURL,
	}).Render(ctx, w)
	if err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		log.Error().Err(err).Msg("Failed to render ratio page")
	}
}

// HandleChange applies change events posted by a form without the live
// connection. A body with name and value is a single change; otherwise every
// posted field is applied in form order. HTMX requests get the result
// fragment back, plain form posts are redirected to the page.
func (h *Handler) HandleChange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	p := page.New(h.local(r))
	defer p.Close()

	if r.PostForm.Has("name") {
		name := r.PostForm.Get("name")
		if !p.Change(name, r.PostForm.Get("value")) {
			http.Error(w, "Unknown field", http.StatusBadRequest)
			return
		}
	} else {
		for _, name := range ratio.Fields {
			if r.PostForm.Has(name) {
				p.Change(name, r.PostForm.Get(name))
			}
		}
	}

	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, span := tracing.RatioSpan(r.Context(), "change", p.State().Version())
	view := p.View()
	span.End()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Result(view.Display).Render(ctx, w); err != nil {
		http.Error(w, "Failed to render result", http.StatusInternalServerError)
		log.Error().Err(err).Msg("Failed to render ratio result")
	}
}

// RatioResponse is the JSON body of GET /api/ratio.
type RatioResponse struct {
	State map[string]string `json:"state"`
	// Result is null when the ratio is not finite
	Result  *float64 `json:"result"`
	Display string   `json:"display"`
	Share   string   `json:"share"`
}

// HandleRatioAPI computes a ratio from query parameters without touching the
// visitor's cache. Missing fields take their default values.
func (h *Handler) HandleRatioAPI(w http.ResponseWriter, r *http.Request) {
	values := make(map[string]string, len(ratio.Fields))
	query := r.URL.Query()
	for _, name := range ratio.Fields {
		if query.Has(name) {
			values[name] = query.Get(name)
		} else {
			values[name] = ratio.Defaults[name]
		}
	}
	state := form.NewState(values)

	_, span := tracing.RatioSpan(r.Context(), "api", state.Version())
	result := ratio.Compute(state)
	span.End()

	share, err := ratio.ShareURL(page.SharePath, state)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to build share link")
	}

	resp := RatioResponse{
		State:   state.Map(),
		Display: ratio.Format(result),
		Share:   share,
	}
	if !math.IsNaN(result) && !math.IsInf(result, 0) {
		resp.Result = &result
	}
	writeJSON(w, resp, "ratio")
}

// HandleLive upgrades to the live page session.
func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	h.hub.Serve(w, r, visitorID(r))
}
