package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/fractaldraw/pkg/cache"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/observability"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, nil, log.New(io.Discard))
	srv := httptest.NewServer(New(runner, Config{
		Defaults: pipeline.Options{LevelLimit: 8},
		Timeout:  10 * time.Second,
	}))
	t.Cleanup(func() {
		srv.Close()
		runner.Close()
	})
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if got := resp.Header.Get("Server"); !strings.HasPrefix(got, "fractaldraw/") {
		t.Errorf("Server = %q", got)
	}
}

func TestListCurves(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/curves")

	var curves []CurveSummary
	if err := json.NewDecoder(resp.Body).Decode(&curves); err != nil {
		t.Fatal(err)
	}
	if len(curves) != 16 {
		t.Fatalf("got %d curves, want 16", len(curves))
	}
	want := CurveSummary{Index: 1, Name: "The Koch snowflake", Slug: "koch-snowflake", Angle: 60, Axiom: "F++F++F++"}
	if diff := cmp.Diff(want, curves[0]); diff != "" {
		t.Errorf("first curve (-want +got):\n%s", diff)
	}
	if curves[15].Index != 16 {
		t.Errorf("last index = %d", curves[15].Index)
	}
}

func TestGetCurve(t *testing.T) {
	srv := newTestServer(t)

	for _, key := range []string{"1", "koch-snowflake", "The%20Koch%20snowflake"} {
		t.Run(key, func(t *testing.T) {
			resp := get(t, srv, "/curves/"+key)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var d CurveDetail
			if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
				t.Fatal(err)
			}
			if d.Index != 1 || d.Rules["F"] != "F-F++F-F" {
				t.Errorf("detail = %+v", d)
			}
		})
	}
}

func TestGetLevel(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/curves/hilbert-curve/levels/3.svg", "image/svg+xml", "<svg"},
		{"/curves/hilbert-curve/levels/3.png", "image/png", "\x89PNG"},
		{"/curves/hilbert-curve/levels/3.json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if got := resp.Header.Get("X-Cache"); got != "miss" {
				t.Errorf("first X-Cache = %q, want miss", got)
			}
			body := strings.TrimSpace(readAll(t, resp))
			if !strings.HasPrefix(body, tt.prefix) {
				t.Errorf("body starts %q, want prefix %q", body[:min(8, len(body))], tt.prefix)
			}

			again := get(t, srv, tt.path)
			if got := again.Header.Get("X-Cache"); got != "hit" {
				t.Errorf("second X-Cache = %q, want hit", got)
			}
			refreshed := get(t, srv, tt.path+"?refresh")
			if got := refreshed.Header.Get("X-Cache"); got != "miss" {
				t.Errorf("refresh X-Cache = %q, want miss", got)
			}
		})
	}
}

func TestGetLevelErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"unknown curve", "/curves/nope/levels/2.svg", http.StatusNotFound, errors.ErrCodeNotFound},
		{"index out of range", "/curves/99/levels/2.svg", http.StatusNotFound, errors.ErrCodeNotFound},
		{"level zero", "/curves/1/levels/0.svg", http.StatusBadRequest, errors.ErrCodeInvalidLevel},
		{"level above limit", "/curves/1/levels/9.svg", http.StatusBadRequest, errors.ErrCodeInvalidLevel},
		{"level not a number", "/curves/1/levels/two.svg", http.StatusBadRequest, errors.ErrCodeInvalidLevel},
		{"format", "/curves/1/levels/2.gif", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"palette", "/curves/1/levels/2.svg?palette=sepia", http.StatusBadRequest, errors.ErrCodeInvalidPalette},
		{"size", "/curves/1/levels/2.png?size=0", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"fit", "/curves/1/levels/2.svg?fit=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"stroke", "/curves/1/levels/2.svg?stroke=-1", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"background", "/curves/1/levels/2.png?background=mauve", http.StatusBadRequest, errors.ErrCodeInvalidPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body ErrorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestGetGrammar(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/curves/hilbert-curve/grammar.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q", got)
	}
	if !strings.Contains(readAll(t, resp), "<svg") {
		t.Error("grammar body is not svg")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidLevel, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidFormat, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{&errors.LevelError{Curve: "c", Level: 9, Err: errors.New(errors.ErrCodeResourceExhausted, "x")}, http.StatusRequestEntityTooLarge},
		{errors.New(errors.ErrCodeMalformedGrammar, "x"), http.StatusInternalServerError},
		{fmt.Errorf("render: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHooks struct {
	observability.Noop
	mu     sync.Mutex
	events []observability.RequestEvent
}

func (h *recordingHooks) RequestServed(_ context.Context, ev observability.RequestEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.Register(observability.Hooks{HTTP: hooks})
	t.Cleanup(observability.Reset)

	srv := newTestServer(t)
	get(t, srv, "/curves/1")
	get(t, srv, "/curves/nope")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	var statuses []int
	for _, ev := range hooks.events {
		if !strings.HasPrefix(ev.Route, "/curves/{curve}") {
			t.Errorf("route = %q, want the matched pattern", ev.Route)
		}
		if ev.RequestID == "" || ev.Bytes == 0 {
			t.Errorf("incomplete event %+v", ev)
		}
		statuses = append(statuses, ev.Status)
	}
	if diff := cmp.Diff([]int{200, 404}, statuses); diff != "" {
		t.Errorf("statuses (-want +got):\n%s", diff)
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
