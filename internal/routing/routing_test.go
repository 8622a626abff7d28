package routing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"brewratio/internal/cache"
	"brewratio/internal/handlers"
	"brewratio/internal/live"
	"brewratio/internal/middleware"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, limits *middleware.RateLimitConfig) (*httptest.Server, *cache.MemoryProvider) {
	t.Helper()
	provider := cache.NewMemoryProvider()
	h := handlers.NewHandler(provider, nil, handlers.Config{})
	srv := httptest.NewServer(SetupRouter(Config{
		Handlers:   h,
		Logger:     zerolog.Nop(),
		RateLimits: limits,
	}))
	t.Cleanup(func() {
		h.Hub().CloseAll()
		srv.Close()
	})
	return srv, provider
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestRouter_IndexIssuesVisitorCookie(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := newClient(t).Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<strong id="ratio-result">16.67</strong>`)
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == middleware.VisitorCookieName {
			found = true
		}
	}
	assert.True(t, found, "visitor cookie is set")
}

func TestRouter_ChangePersistsForVisitor(t *testing.T) {
	srv, provider := newTestServer(t, nil)
	client := newClient(t)

	resp, err := client.PostForm(srv.URL+"/change", url.Values{
		"coffee-gram": {"15"},
		"water-ml":    {"250"},
	})
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, provider.VisitorCount())

	resp, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `<strong id="ratio-result">12</strong>`)

	// A different browser starts from the defaults.
	resp, err = newClient(t).Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `<strong id="ratio-result">16.67</strong>`)
}

func TestRouter_ChangeRejectsCrossOrigin(t *testing.T) {
	srv, provider := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/change", strings.NewReader("coffee-gram=15"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Sec-Fetch-Site", "cross-site")

	resp, err := newClient(t).Do(req)
	require.NoError(t, err)
	readBody(t, resp)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, provider.VisitorCount())
}

func TestRouter_RatioAPI(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/ratio?coffee-gram=15&water-ml=250&use-water-ml=500")
	require.NoError(t, err)

	var body handlers.RatioResponse
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &body))
	require.NotNil(t, body.Result)
	assert.InDelta(t, 30.0, *body.Result, 1e-9)
	assert.Equal(t, "30", body.Display)
}

func TestRouter_Endpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/healthz", http.StatusOK, `"status":"ok"`},
		{"/metrics", http.StatusOK, "brewratio_"},
		{"/static/ratio.js", http.StatusOK, "WebSocket"},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// Touch the index first so the application metrics have samples.
			resp, err := http.Get(srv.URL + "/")
			require.NoError(t, err)
			readBody(t, resp)

			resp, err = http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			body := readBody(t, resp)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestRouter_RateLimitsChanges(t *testing.T) {
	srv, _ := newTestServer(t, &middleware.RateLimitConfig{
		ChangeLimiter: middleware.NewRateLimiter(1, time.Minute),
	})
	client := newClient(t)

	resp, err := client.PostForm(srv.URL+"/change", url.Values{"coffee-gram": {"2"}})
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/change", url.Values{"coffee-gram": {"3"}})
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRouter_LiveSession(t *testing.T) {
	srv, provider := newTestServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/live", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial live.StateMessage
	require.NoError(t, conn.ReadJSON(&initial))
	assert.True(t, initial.Initial)
	assert.Equal(t, "16.67", initial.Result)

	require.NoError(t, conn.WriteJSON(live.ChangeMessage{Name: "water-ml", Value: "0"}))

	var changed live.StateMessage
	require.NoError(t, conn.ReadJSON(&changed))
	assert.Equal(t, "∞", changed.Result)
	assert.Equal(t, "0", changed.State["water-ml"])
	assert.Equal(t, 1, provider.VisitorCount())
}
