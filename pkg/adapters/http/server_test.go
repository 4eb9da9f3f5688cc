package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *abacus.Calculator) {
	t.Helper()
	calc := abacus.New()
	srv, err := NewServer(calc, opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts, calc
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServer_HealthAndInfo(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = do(t, http.MethodGet, ts.URL+"/info", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]string
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "abacus-http", info["app"])
	assert.Equal(t, abacus.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	resp, body = do(t, http.MethodGet, ts.URL+"/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Abacus Calculator API")
}

func TestServer_PressKeysLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/sessions/s1/keys", `{"keys":"12×3"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var state domain.State
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "12×3", state.Equation)
	assert.Equal(t, "36", state.Result)

	resp, body = do(t, http.MethodPost, ts.URL+"/sessions/s1/keys", `{"token":"="}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "36", state.Equation)

	resp, body = do(t, http.MethodGet, ts.URL+"/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["s1"]`, string(body))

	resp, body = do(t, http.MethodGet, ts.URL+"/sessions/s1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "36", state.LastResult)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_PressTokenIsSanitized(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/sessions/bell/keys", `{"token":"7\u0007"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var state domain.State
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "7", state.Equation)
}

func TestServer_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t, WithMaxInputSize(8))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown token", http.MethodPost, "/sessions/s1/keys", `{"token":"foo"}`, http.StatusBadRequest},
		{"unsplittable keys", http.MethodPost, "/sessions/s1/keys", `{"keys":"1#2"}`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/sessions/s1/keys", `{}`, http.StatusBadRequest},
		{"keys too long", http.MethodPost, "/sessions/s1/keys", `{"keys":"123456789"}`, http.StatusBadRequest},
		{"token too long", http.MethodPost, "/sessions/s1/keys", `{"token":"123456789"}`, http.StatusBadRequest},
		{"session id pattern", http.MethodGet, "/sessions/bad!id", "", http.StatusBadRequest},
		{"angle mode enum", http.MethodPost, "/evaluate?angle_mode=GRAD", `{"expression":"1"}`, http.StatusBadRequest},
		{"missing expression", http.MethodPost, "/evaluate", `{}`, http.StatusBadRequest},
		{"syntax error", http.MethodPost, "/evaluate", `{"expression":"2+*3"}`, http.StatusBadRequest},
		{"division by zero", http.MethodPost, "/evaluate", `{"expression":"1÷0"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			var e map[string]string
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e["error"])
		})
	}
}

func TestServer_Evaluate(t *testing.T) {
	ts, calc := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/evaluate?angle_mode=DEG", `{"expression":"sin(90)"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"result":"1","canonical":"sin(degToRad(90)"}`, string(body))

	resp, body = do(t, http.MethodPost, ts.URL+"/evaluate", `{"expression":"2^3^2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"result":"512","canonical":"2**3**2"}`, string(body))

	ids, err := calc.Sessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	calc := abacus.New(abacus.WithLifecycleHooks(metrics.Hooks()))
	srv, err := NewServer(calc, WithMetrics(reg))
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Close()

	resp, _ := do(t, http.MethodPost, ts.URL+"/sessions/m/keys", `{"keys":"2+2="}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `abacus_keys_total{kind="digit"} 2`)
	assert.Contains(t, string(body), `abacus_keys_total{kind="equals"} 1`)
}

func TestServer_SubscribeEvents(t *testing.T) {
	ts, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/live/events?watch=result", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	// The ping is flushed after the subscription is registered.
	// "RAD/DEG" changes only the angle mode and is filtered out.
	presses, _ := do(t, http.MethodPost, ts.URL+"/sessions/live/keys", `{"token":"RAD/DEG"}`)
	require.Equal(t, http.StatusOK, presses.StatusCode)
	presses, _ = do(t, http.MethodPost, ts.URL+"/sessions/live/keys", `{"token":"7"}`)
	require.Equal(t, http.StatusOK, presses.StatusCode)

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}
	require.NotEmpty(t, data)

	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, "live", diff.SessionID)
	assert.Nil(t, diff.AngleMode)
	require.NotNil(t, diff.Result)
	assert.Equal(t, "7", *diff.Result)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("s")
	defer cancel()

	for i := 0; i < 20; i++ {
		sm.Broadcast("s", "x")
	}
	assert.Len(t, ch, cap(ch))

	cancel()
	cancel()
	_, open := <-drain(ch)
	assert.False(t, open)
}

func drain(ch chan string) chan string {
	for len(ch) > 0 {
		<-ch
	}
	return ch
}
