package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/observability"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/aretw0/clickpath/pkg/adapters/http"
)

const pageURL = "https://app.example/home"

func testTour() domain.TourDefinition {
	return domain.TourDefinition{
		ID:      "home",
		Version: "1",
		Name:    "Home",
		Trigger: domain.TourTrigger{Mode: domain.TriggerManual},
		Pages: []domain.TourPage{{
			URLPattern:   "/home",
			URLMatchMode: domain.MatchContains,
			Steps: []domain.TourStep{
				{ID: "a", Title: "A", Content: "a"},
				{ID: "b", Title: "B", Content: "b"},
			},
		}},
	}
}

type fixture struct {
	server  *httptest.Server
	engine  *clickpath.Engine
	stream  *observability.Stream
	metrics *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stream := observability.NewStream(observability.WithBuffer(64))
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	engine := clickpath.New(
		memory.NewPage(pageURL, domain.Size{Width: 1024, Height: 768}),
		memory.NewOverlay(domain.Size{Width: 200, Height: 100}),
		clickpath.WithBundled(memory.NewSource(testTour())),
		clickpath.WithLifecycleHooks(domain.MergeHooks(stream.Hooks(), metrics.Hooks())),
	)
	require.NoError(t, engine.Init(context.Background()))

	handler := api.NewHandler(engine,
		api.WithStream(stream),
		api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &fixture{server: srv, engine: engine, stream: stream, metrics: metrics}
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, domain.Response) {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out domain.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestServer_TourLifecycle(t *testing.T) {
	f := newFixture(t)

	code, resp := f.do(t, http.MethodGet, "/tours", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, []any{map[string]any{"id": "home", "name": "Home"}}, resp.Data)

	code, resp = f.do(t, http.MethodPost, "/tour/start", "")
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "home", resp.Data.(map[string]any)["tourId"])

	code, resp = f.do(t, http.MethodPost, "/tour/next", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, resp.Data.(map[string]any)["currentStepIndex"])

	code, _ = f.do(t, http.MethodPost, "/tour/prev", "")
	assert.Equal(t, http.StatusOK, code)

	code, resp = f.do(t, http.MethodGet, "/state", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, resp.Data.(map[string]any)["currentStepIndex"])

	code, _ = f.do(t, http.MethodPost, "/tour/skip", "")
	assert.Equal(t, http.StatusOK, code)

	code, resp = f.do(t, http.MethodPost, "/tour/next", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)
	assert.Equal(t, domain.ErrNoActiveTour.Error(), resp.Error)

	code, resp = f.do(t, http.MethodDelete, "/progress/home", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	code, _ = f.do(t, http.MethodPost, "/tour/stop", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestServer_Errors(t *testing.T) {
	f := newFixture(t)

	code, resp := f.do(t, http.MethodPost, "/tour/start", `{"tourId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, resp.Error, "missing")

	code, _ = f.do(t, http.MethodPost, "/tour/start", `{bad`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = f.do(t, http.MethodPut, "/theme", `{"colors":{"nope":"#fff"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, resp.Success)
}

func TestServer_Commands(t *testing.T) {
	f := newFixture(t)

	code, resp := f.do(t, http.MethodPost, "/commands", `{"type":"PING"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"installed": true}, resp.Data)

	code, resp = f.do(t, http.MethodPost, "/commands", `{"type":"EXPLODE"}`)
	assert.Equal(t, http.StatusOK, code, "command failures are in-band")
	assert.False(t, resp.Success)
	assert.Equal(t, "unknown command type", resp.Error)

	code, _ = f.do(t, http.MethodPost, "/commands", `nope`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_Theme(t *testing.T) {
	f := newFixture(t)

	code, resp := f.do(t, http.MethodPut, "/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "dark", resp.Data.(map[string]any)["name"])

	code, resp = f.do(t, http.MethodGet, "/theme", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "dark", resp.Data.(map[string]any)["name"])
}

func TestServer_HealthAndCORS(t *testing.T) {
	f := newFixture(t)

	resp, err := f.server.Client().Get(f.server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodOptions, f.server.URL+"/tour/start", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err = f.server.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/tour/start", `{"tourId":"home"}`)

	resp, err := f.server.Client().Get(f.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), `clickpath_tours_started_total{tour="home"} 1`)
}

func TestServer_SSE(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, f.server.URL+"/events", nil)
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	require.Eventually(t, func() bool { return f.stream.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, f.engine.StartTour(context.Background(), "home"))

	found := false
	for lines.Scan() {
		if strings.Contains(lines.Text(), `"type":"tour_start"`) {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestServer_WebSocket(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.stream.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.WriteJSON(domain.Command{Type: domain.CmdStartTour, TourID: "home"}))

	var sawEvent, sawReply bool
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for !(sawEvent && sawReply) {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		if msg["type"] == "tour_start" {
			sawEvent = true
		}
		if success, ok := msg["success"]; ok {
			assert.Equal(t, true, success)
			sawReply = true
		}
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("garbage")))
	var reply domain.Response
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		if _, ok := msg["success"]; ok {
			raw, _ := json.Marshal(msg)
			require.NoError(t, json.Unmarshal(raw, &reply))
			break
		}
	}
	assert.Equal(t, "invalid command", reply.Error)
}

func TestServer_WebSocketOrigins(t *testing.T) {
	engine := clickpath.New(
		memory.NewPage(pageURL, domain.Size{Width: 1024, Height: 768}),
		memory.NewOverlay(domain.Size{Width: 200, Height: 100}),
		clickpath.WithBundled(memory.NewSource(testTour())),
	)
	require.NoError(t, engine.Init(context.Background()))

	srv := httptest.NewServer(api.NewHandler(engine,
		api.WithStream(observability.NewStream()),
		api.WithAllowedOrigins("https://app.example", "https://*.corp.example"),
	))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"No Origin", "", true},
		{"Same Origin", srv.URL, true},
		{"Listed", "https://app.example", true},
		{"Wildcard", "https://intranet.corp.example", true},
		{"Foreign", "https://evil.example", false},
		{"Wildcard Needs Subdomain", "https://corp.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			if tt.allowed {
				require.NoError(t, err)
				conn.Close()
				return
			}
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}
