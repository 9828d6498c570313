// Package observability lets callers watch the renderer without the renderer
// depending on a metrics backend.
//
// Three hook interfaces cover the three places work happens: [PipelineHooks]
// sees every level that is expanded and drawn, [CacheHooks] every artifact
// cache lookup and write, and [HTTPHooks] every request the API serves. The
// registry starts out with [Noop] for all three.
//
// Hooks are registered by main, not by libraries:
//
//	observability.Register(observability.Hooks{
//	    Pipeline: myMetrics,
//	    HTTP:     myMetrics,
//	})
//
// [LogHooks] is the built-in implementation; fractaldraw installs it with
// --verbose so every event shows up as a debug log line.
package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// LevelEvent describes one level of one curve going through the pipeline.
type LevelEvent struct {
	Curve    string // catalog slug
	Level    int
	Stream   bool
	Symbols  int // symbols interpreted
	Segments int
	Expand   time.Duration // zero in stream mode, where expansion and drawing overlap
	Draw     time.Duration
	Err      error
}

// CacheOutcome is what happened to a cache access.
type CacheOutcome string

const (
	CacheHit   CacheOutcome = "hit"
	CacheMiss  CacheOutcome = "miss"
	CacheStore CacheOutcome = "store"
)

// CacheEvent describes one cache access. Kind is "artifact" or "grammar".
type CacheEvent struct {
	Kind    string
	Outcome CacheOutcome
	Bytes   int
}

// RequestEvent describes one served HTTP request. Route is the matched chi
// pattern, or the raw path when nothing matched.
type RequestEvent struct {
	RequestID string
	Method    string
	Route     string
	Status    int
	Bytes     int
	Duration  time.Duration
}

// PipelineHooks receives level events from the render pipeline.
type PipelineHooks interface {
	LevelStarted(ctx context.Context, curve string, level int)
	LevelFinished(ctx context.Context, ev LevelEvent)
	// LevelSkipped fires when an animation moves past a failed level.
	LevelSkipped(ctx context.Context, curve string, level int, err error)
}

// CacheHooks receives artifact cache events.
type CacheHooks interface {
	CacheAccessed(ctx context.Context, ev CacheEvent)
}

// HTTPHooks receives HTTP API events.
type HTTPHooks interface {
	RequestServed(ctx context.Context, ev RequestEvent)
}

// Noop implements every hook interface and does nothing. Embed it to
// implement only the methods you need.
type Noop struct{}

func (Noop) LevelStarted(context.Context, string, int)        {}
func (Noop) LevelFinished(context.Context, LevelEvent)        {}
func (Noop) LevelSkipped(context.Context, string, int, error) {}
func (Noop) CacheAccessed(context.Context, CacheEvent)        {}
func (Noop) RequestServed(context.Context, RequestEvent)      {}

// Hooks is a set of hook implementations. Nil fields leave the registered
// implementation unchanged in [Register].
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var defaults = Hooks{Pipeline: Noop{}, Cache: Noop{}, HTTP: Noop{}}

var current atomic.Pointer[Hooks]

func init() { Reset() }

// Register installs h. Call it at startup, before rendering or serving.
func Register(h Hooks) {
	next := *current.Load()
	if h.Pipeline != nil {
		next.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	current.Store(&next)
}

// Reset restores the no-op hooks.
func Reset() {
	h := defaults
	current.Store(&h)
}

func Pipeline() PipelineHooks { return current.Load().Pipeline }
func Cache() CacheHooks       { return current.Load().Cache }
func HTTP() HTTPHooks         { return current.Load().HTTP }

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// Logging returns hooks that log through logger.
func Logging(logger *log.Logger) Hooks {
	h := LogHooks{Logger: logger}
	return Hooks{Pipeline: h, Cache: h, HTTP: h}
}

func (h LogHooks) LevelStarted(_ context.Context, curve string, level int) {
	h.Logger.Debug("level started", "curve", curve, "level", level)
}

func (h LogHooks) LevelFinished(_ context.Context, ev LevelEvent) {
	kv := []any{
		"curve", ev.Curve,
		"level", ev.Level,
		"symbols", ev.Symbols,
		"segments", ev.Segments,
		"draw", ev.Draw,
	}
	if !ev.Stream {
		kv = append(kv, "expand", ev.Expand)
	}
	if ev.Err != nil {
		h.Logger.Debug("level failed", append(kv, "err", ev.Err)...)
		return
	}
	h.Logger.Debug("level finished", kv...)
}

func (h LogHooks) LevelSkipped(_ context.Context, curve string, level int, err error) {
	h.Logger.Debug("level skipped", "curve", curve, "level", level, "err", err)
}

func (h LogHooks) CacheAccessed(_ context.Context, ev CacheEvent) {
	if ev.Outcome == CacheStore {
		h.Logger.Debug("cache store", "kind", ev.Kind, "bytes", ev.Bytes)
		return
	}
	h.Logger.Debug("cache "+string(ev.Outcome), "kind", ev.Kind)
}

func (h LogHooks) RequestServed(_ context.Context, ev RequestEvent) {
	h.Logger.Debug("request",
		"request_id", ev.RequestID,
		"method", ev.Method,
		"route", ev.Route,
		"status", ev.Status,
		"bytes", ev.Bytes,
		"duration", ev.Duration)
}
