package demoserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/raysh454/smoke/internal/logging"
)

// DemoServer is the local server the smoke sequence runs against. It serves
// an HTML index at / and answers every unknown path with a JSON 404. No
// request changes its state.
type DemoServer struct {
	cfg    Config
	logger logging.Logger
	router chi.Router

	mu  sync.Mutex
	srv *http.Server
}

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config, logger logging.Logger) *DemoServer {
	def := DefaultConfig()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.Title == "" {
		cfg.Title = def.Title
	}
	if cfg.NotFoundContentType == "" {
		cfg.NotFoundContentType = def.NotFoundContentType
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	s := &DemoServer{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "demoserver"}),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.indexHandler)
	r.Get("/healthz", s.healthHandler)
	r.NotFound(s.notFoundHandler)
	r.MethodNotAllowed(s.methodNotAllowedHandler)

	s.router = r
	return s
}

// Handler returns the router, for use with httptest or a custom server.
func (s *DemoServer) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *DemoServer) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Port)
}

// Start listens on the configured port and blocks until Shutdown.
func (s *DemoServer) Start() error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.New("demo server already started")
	}
	s.srv = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.srv
	s.mu.Unlock()

	s.logger.Info("demo server starting", logging.Field{Key: "addr", Value: "http://localhost" + s.Addr()})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops a started server.
func (s *DemoServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *DemoServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = indexTmpl.Execute(w, struct{ Title string }{Title: s.cfg.Title})
}

func (s *DemoServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "application/json; charset=utf-8", http.StatusOK, map[string]string{"status": "ok"})
}

// notFoundHandler answers every unmatched path with {"description","error"}.
func (s *DemoServer) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.cfg.NotFoundContentType, http.StatusNotFound, errorBody{
		Description: fmt.Sprintf("%s %s not found", r.Method, r.URL.Path),
		Error:       "NotFound",
	})
}

func (s *DemoServer) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "application/json; charset=utf-8", http.StatusMethodNotAllowed, errorBody{
		Description: fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path),
		Error:       "MethodNotAllowed",
	})
}

func (s *DemoServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served",
			logging.Field{Key: "request_id", Value: middleware.GetReqID(r.Context())},
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: "status", Value: ww.Status()},
			logging.Field{Key: "duration", Value: time.Since(start).String()})
	})
}

type errorBody struct {
	Description string `json:"description"`
	Error       string `json:"error"`
}

func writeJSON(w http.ResponseWriter, contentType string, status int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>Demo server for the smoke sequence. Unknown paths such as <a href="/zapp">/zapp</a> return a JSON 404.</p>
</body>
</html>
`
