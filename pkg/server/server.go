// Package server exposes the curve catalog and renderer over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /curves
//	GET /curves/{curve}
//	GET /curves/{curve}/levels/{level}.{format}   svg, png or json
//	GET /curves/{curve}/grammar.svg
//
// {curve} accepts a 1-based index, a slug or a name. Level artifacts take
// optional palette, fit, size and refresh query parameters and report cache
// use in the X-Cache header. Errors are JSON objects of the form
// {"code": "...", "message": "..."}.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/fractaldraw/pkg/buildinfo"
	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/observability"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
)

// RequestIDHeader carries the per-request uuid.
const RequestIDHeader = "X-Request-Id"

// DefaultTimeout bounds a request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// Config configures a Server.
type Config struct {
	// Defaults seeds the options of every render; query parameters
	// override Palette, Fit, Size and Refresh.
	Defaults pipeline.Options
	Timeout  time.Duration
	Logger   *log.Logger
}

// Server serves curves rendered by a pipeline.Runner.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. The runner is shared by all requests.
func New(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = runner.Logger
	}
	s := &Server{
		runner:   runner,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	r.Get("/healthz", s.health)
	r.Route("/curves", func(r chi.Router) {
		r.Get("/", s.listCurves)
		r.Route("/{curve}", func(r chi.Router) {
			r.Get("/", s.getCurve)
			r.Get("/grammar.svg", s.getGrammar)
			r.Get("/levels/{level}.{format}", s.getLevel)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

// CurveSummary is one entry of GET /curves.
type CurveSummary struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Angle float64 `json:"angle"`
	Axiom string  `json:"axiom"`
}

// CurveDetail is the body of GET /curves/{curve}.
type CurveDetail struct {
	CurveSummary
	Rules map[string]string `json:"rules"`
	Draw  string            `json:"draw,omitempty"`
	Move  string            `json:"move,omitempty"`
	Stamp string            `json:"stamp,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Resolved()})
}

func (s *Server) listCurves(w http.ResponseWriter, _ *http.Request) {
	all := s.runner.Catalog.All()
	out := make([]CurveSummary, len(all))
	for i, d := range all {
		out[i] = summary(i+1, d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCurve(w http.ResponseWriter, r *http.Request) {
	d, index, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rules := make(map[string]string, len(d.Rules))
	for _, k := range d.Rules.Keys() {
		rules[string(k)] = d.Rules[k]
	}
	writeJSON(w, http.StatusOK, CurveDetail{
		CurveSummary: summary(index, d),
		Rules:        rules,
		Draw:         d.Draw,
		Move:         d.Move,
		Stamp:        d.Stamp,
	})
}

func (s *Server) getGrammar(w http.ResponseWriter, r *http.Request) {
	d, _, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, hit, err := s.runner.Grammar(r.Context(), d, pipeline.FormatSVG, r.URL.Query().Has("detailed"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, pipeline.FormatSVG, data, hit)
}

func (s *Server) getLevel(w http.ResponseWriter, r *http.Request) {
	d, _, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidLevel, "level must be an integer, got %q", chi.URLParam(r, "level")))
		return
	}
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, hit, err := s.runner.Artifacts(r.Context(), d, level, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format], hit)
}

// lookup resolves the {curve} parameter and its 1-based catalog index.
func (s *Server) lookup(r *http.Request) (*curve.Descriptor, int, error) {
	d, err := s.runner.Lookup(chi.URLParam(r, "curve"))
	if err != nil {
		return nil, 0, err
	}
	for i, c := range s.runner.Catalog.All() {
		if c == d {
			return d, i + 1, nil
		}
	}
	return d, 0, nil
}

// options applies query parameters over the server defaults.
func (s *Server) options(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	q := r.URL.Query()
	if v := q.Get("palette"); v != "" {
		opts.Palette = v
	}
	if v := q.Get("fit"); v != "" {
		fit, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "fit must be a boolean, got %q", v)
		}
		opts.Fit = fit
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > maxSize {
			return opts, errors.New(errors.ErrCodeInvalidInput, "size must be between 1 and %d, got %q", maxSize, v)
		}
		opts.Size = size
	}
	if v := q.Get("stroke"); v != "" {
		stroke, err := strconv.ParseFloat(v, 64)
		if err != nil || stroke <= 0 || stroke > maxStroke {
			return opts, errors.New(errors.ErrCodeInvalidInput, "stroke must be in (0, %d], got %q", maxStroke, v)
		}
		opts.Stroke = stroke
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	opts.Refresh = q.Has("refresh")
	return opts, nil
}

const (
	maxSize   = 4096
	maxStroke = 64
)

func summary(index int, d *curve.Descriptor) CurveSummary {
	return CurveSummary{
		Index: index,
		Name:  d.Name,
		Slug:  d.Slug(),
		Angle: d.Angle,
		Axiom: d.Axiom,
	}
}

// =============================================================================
// Responses
// =============================================================================

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidLevel, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPalette:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeResourceExhausted:
		return http.StatusRequestEntityTooLarge
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, ErrorBody{Code: code, Message: msg})
}

func writeArtifact(w http.ResponseWriter, format string, data []byte, hit bool) {
	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestID tags each request with a fresh uuid, echoed in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// observe reports every request to the HTTP hooks once it is answered.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// The route pattern is only known once chi has matched.
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().RequestServed(r.Context(), observability.RequestEvent{
			RequestID: RequestID(r.Context()),
			Method:    r.Method,
			Route:     route,
			Status:    status,
			Bytes:     ww.BytesWritten(),
			Duration:  time.Since(start),
		})
	})
}
