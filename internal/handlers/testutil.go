package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"brewratio/internal/cache"
	"brewratio/internal/middleware"
)

// TestVisitor is the visitor id attached by NewVisitorRequest.
const TestVisitor = "7d444840-9dc0-11d1-b245-5ffdce74fad2"

// TestContext contains test dependencies
type TestContext struct {
	Handler  *Handler
	Provider *cache.MemoryProvider
}

// NewTestContext creates a handler backed by an in-memory cache
func NewTestContext() *TestContext {
	provider := cache.NewMemoryProvider()
	return &TestContext{
		Handler:  NewHandler(provider, nil, Config{}),
		Provider: provider,
	}
}

// Local returns the cache of the test visitor
func (tc *TestContext) Local() cache.Local {
	return cache.ForVisitor(tc.Provider, TestVisitor)
}

// NewVisitorRequest creates a request carrying the test visitor id, the way
// VisitorMiddleware would
func NewVisitorRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.ContextWithVisitor(req.Context(), TestVisitor))
}

// NewFormRequest creates a url-encoded POST from the test visitor
func NewFormRequest(target, encoded string) *http.Request {
	req := NewVisitorRequest(http.MethodPost, target, strings.NewReader(encoded))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertResponseCode checks if the response has the expected status code
func AssertResponseCode(t interface {
	Errorf(format string, args ...interface{})
}, rec *httptest.ResponseRecorder, expected int) {
	if rec.Code != expected {
		t.Errorf("Expected status code %d, got %d. Body: %s", expected, rec.Code, rec.Body.String())
	}
}
