package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/providers"
	"github.com/dshills/ccw/internal/review"
)

type stubChatter struct {
	calls  int
	last   providers.ChatRequest
	result providers.ChatResult
	err    error
}

func (s *stubChatter) Chat(_ context.Context, req providers.ChatRequest) (providers.ChatResult, error) {
	s.calls++
	s.last = req
	return s.result, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(client *stubChatter, pinger Pinger) http.Handler {
	engine := review.New(review.Options{Model: "test-model"}, client)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(engine, modes.Builtin(), pinger, logger).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
		wantField  string
	}{
		{"no pinger", nil, http.StatusOK, "ok"},
		{"reachable", stubPinger{}, http.StatusOK, "ok"},
		{"unreachable", stubPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(&stubChatter{}, tt.pinger), http.MethodGet, "/health", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["status"] != tt.wantField {
				t.Errorf("status field = %q, want %q", resp["status"], tt.wantField)
			}
		})
	}
}

func TestListModes(t *testing.T) {
	w := do(t, newTestServer(&stubChatter{}, nil), http.MethodGet, "/v1/modes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Modes []modes.Definition `json:"modes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Modes) != len(modes.Builtin().List()) {
		t.Errorf("got %d modes, want %d", len(resp.Modes), len(modes.Builtin().List()))
	}
	if strings.Contains(w.Body.String(), "prompts") {
		t.Error("mode listing should not include prompts")
	}
}

func TestAnalyze_Succeeded(t *testing.T) {
	client := &stubChatter{result: providers.ChatResult{Content: "No issues.", Attempts: 1}}
	h := newTestServer(client, nil)

	w := do(t, h, http.MethodPost, "/v1/analyze", `{"mode":"explain","body":"package main","question":"what is this?","source":"main.go"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res review.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != review.StatusSucceeded {
		t.Errorf("status = %q", res.Status)
	}
	if res.Mode != "explain" || res.Source != "main.go" {
		t.Errorf("mode/source = %q/%q", res.Mode, res.Source)
	}
	if !strings.HasPrefix(res.Text, "No issues.\n\n") || !strings.HasSuffix(res.Text, "/test-model") {
		t.Errorf("text = %q", res.Text)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
	last := client.last.Messages[len(client.last.Messages)-1]
	if last.Content != "Here is the code: package main" {
		t.Errorf("last message = %q", last.Content)
	}
}

func TestAnalyze_UnknownModeFallsBack(t *testing.T) {
	client := &stubChatter{result: providers.ChatResult{Content: "ok", Attempts: 1}}
	w := do(t, newTestServer(client, nil), http.MethodPost, "/v1/analyze", `{"mode":"nonsense","body":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res review.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Mode != modes.DefaultID {
		t.Errorf("mode = %q, want %q", res.Mode, modes.DefaultID)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		client     *stubChatter
		wantStatus int
		wantCalls  int
	}{
		{"bad json", `{"mode":`, &stubChatter{}, http.StatusBadRequest, 0},
		{"unknown field", `{"mode":"checker","code":"x"}`, &stubChatter{}, http.StatusBadRequest, 0},
		{"missing question", `{"mode":"ask"}`, &stubChatter{}, http.StatusBadRequest, 0},
		{"missing criteria", `{"mode":"criteria_verify","body":"diff"}`, &stubChatter{}, http.StatusBadRequest, 0},
		{
			"server rejected",
			`{"mode":"checker","body":"x"}`,
			&stubChatter{err: &providers.StatusError{StatusCode: 404, Body: "model not found"}, result: providers.ChatResult{Attempts: 1}},
			http.StatusBadGateway, 1,
		},
		{
			"malformed reply",
			`{"mode":"checker","body":"x"}`,
			&stubChatter{err: providers.ErrMalformedResponse, result: providers.ChatResult{Attempts: 1}},
			http.StatusBadGateway, 1,
		},
		{
			"unexpected",
			`{"mode":"checker","body":"x"}`,
			&stubChatter{err: context.Canceled},
			http.StatusInternalServerError, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(tt.client, nil), http.MethodPost, "/v1/analyze", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.client.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", tt.client.calls, tt.wantCalls)
			}
		})
	}
}

func TestAnalyze_BadGatewayCarriesResult(t *testing.T) {
	client := &stubChatter{err: &providers.StatusError{StatusCode: 500, Body: "boom"}, result: providers.ChatResult{Attempts: 1}}
	w := do(t, newTestServer(client, nil), http.MethodPost, "/v1/analyze", `{"body":"x"}`)
	var res review.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != review.StatusFailed || res.Error == "" {
		t.Errorf("result = %+v", res)
	}
}

func TestAnalyze_Exhausted(t *testing.T) {
	client := &stubChatter{result: providers.ChatResult{Attempts: 3, Exhausted: true}}
	w := do(t, newTestServer(client, nil), http.MethodPost, "/v1/analyze", `{"body":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res review.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != review.StatusExhausted || res.Text != "" || res.Attempts != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	w := do(t, newTestServer(&stubChatter{}, nil), http.MethodGet, "/v1/analyze", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), time.Second)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
