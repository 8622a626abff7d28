package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// VisitorCookieName holds the id that scopes a browser's cached form values.
const VisitorCookieName = "ratio_visitor"

// visitorMaxAge keeps the cookie for a year.
const visitorMaxAge = 365 * 24 * 60 * 60

type contextKey string

const visitorKey contextKey = "visitor"

// VisitorFromContext returns the visitor id set by VisitorMiddleware.
func VisitorFromContext(ctx context.Context) string {
	id, ok := ctx.Value(visitorKey).(string)
	if !ok {
		return ""
	}
	return id
}

// ContextWithVisitor returns a context carrying visitor id.
func ContextWithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey, id)
}

// VisitorMiddleware makes sure every request carries a visitor id, issuing a
// new random one when the cookie is missing or malformed.
func VisitorMiddleware(secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(VisitorCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   visitorMaxAge,
				})
			}

			next.ServeHTTP(w, r.WithContext(ContextWithVisitor(r.Context(), id)))
		})
	}
}
