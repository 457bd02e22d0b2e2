package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/pkg/catalog"
	"github.com/vango-dev/noorform/pkg/form"
	"github.com/vango-dev/noorform/pkg/sink"
	"github.com/vango-dev/noorform/pkg/telemetry"
)

// Config configures a Server.
type Config struct {
	// Address is the listen address of Run (default ":8080").
	Address string

	// Registry holds the served forms (default catalog.Default()).
	Registry *catalog.Registry

	// Locale is used when a request negotiates none (default English).
	Locale catalog.Locale

	// DevMode accepts cross-origin WebSocket connections and logs
	// submission failures.
	DevMode bool

	// Submit returns the submit handler of a form. If nil, submissions
	// are written to a LogSink.
	Submit func(formName string) form.SubmitFunc

	// Metrics records form activity. Optional.
	Metrics *telemetry.Metrics

	// MetricsPath is the route serving Metrics (default "/metrics").
	MetricsPath string

	// Tracing wraps every submit handler in an OpenTelemetry span.
	Tracing bool

	// TracerName names the tracer used when Tracing is set.
	TracerName string

	// IdleTimeout closes a live connection with no client traffic.
	IdleTimeout time.Duration

	// WriteTimeout bounds a single WebSocket write.
	WriteTimeout time.Duration

	// MaxMessageBytes limits the size of a live client message.
	MaxMessageBytes int64

	// MaxBodyBytes limits the size of a submit request body.
	MaxBodyBytes int64

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// Logger receives request and connection logs.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.Registry == nil {
		c.Registry = catalog.Default()
	}
	if c.Locale == "" {
		c.Locale = catalog.English
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 4096
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server serves catalog forms.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu         sync.Mutex
	sessions   map[*liveSession]struct{}
	httpServer *http.Server
}

// New creates a Server.
func New(config Config) *Server {
	config.applyDefaults()
	if config.Submit == nil {
		config.Submit = sink.NewLogSink(config.Logger).For
	}

	checkOrigin := SameOriginCheck
	if config.DevMode {
		checkOrigin = func(*http.Request) bool { return true }
	}

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		logger:   config.Logger.With("component", "server"),
		sessions: make(map[*liveSession]struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	r.Route("/api/forms", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Post("/submit", s.handleSubmit)
			r.Get("/live", s.handleLive)
		})
	})

	if s.config.Metrics != nil {
		r.Handle(s.config.MetricsPath, s.config.Metrics.Handler())
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on Address until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown closes every live connection and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*liveSession, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	srv := s.httpServer
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.closeWith(websocket.CloseGoingAway, "server shutting down")
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// LiveSessions returns the number of open live connections.
func (s *Server) LiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ----------------------------------------------------------------------------
// HTTP handlers
// ----------------------------------------------------------------------------

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	locale := s.locale(r)
	defs := s.config.Registry.Definitions()
	forms := make([]catalog.View, 0, len(defs))
	for _, def := range defs {
		forms = append(forms, def.Summary(locale))
	}
	writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	def, ok := s.definition(w, r)
	if !ok {
		return
	}
	locale := s.locale(r)
	view := def.View(locale)
	state := def.Mount(locale, catalog.MountOptions{}).State()
	writeJSON(w, http.StatusOK, map[string]any{"form": view, "state": state})
}

// submitResponse is the body of a submit reply.
type submitResponse struct {
	Form     string     `json:"form"`
	Accepted bool       `json:"accepted"`
	State    form.State `json:"state"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	def, ok := s.definition(w, r)
	if !ok {
		return
	}
	locale := s.locale(r)

	values, err := decodeValues(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes), r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	f := s.mount(def, locale)
	for _, name := range def.FieldNames() {
		if v, ok := values[name]; ok {
			p := f.Field(name)
			p.OnChange(v)
			p.OnBlur()
		}
	}

	accepted := f.Submit(sink.WithLocale(r.Context(), string(locale)))
	status := http.StatusOK
	if !accepted {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, submitResponse{
		Form:     def.Name,
		Accepted: accepted,
		State:    f.State(),
	})
}

// definition resolves the {name} route parameter, writing a 404 when the
// form is unknown.
func (s *Server) definition(w http.ResponseWriter, r *http.Request) (*catalog.Definition, bool) {
	def, err := s.config.Registry.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return def, true
}

// locale picks the ?locale= parameter, then Accept-Language.
func (s *Server) locale(r *http.Request) catalog.Locale {
	if q := r.URL.Query().Get("locale"); q != "" {
		if l, err := catalog.ParseLocale(q); err == nil {
			return l
		}
	}
	return catalog.Negotiate(r.Header.Get("Accept-Language"), s.config.Locale)
}

// mount creates a fresh form of def wired to the submit handler, metrics
// and logger.
func (s *Server) mount(def *catalog.Definition, locale catalog.Locale) *form.Form {
	submit := s.config.Submit(def.Name)
	if s.config.Tracing {
		var opts []telemetry.TraceOption
		if s.config.TracerName != "" {
			opts = append(opts, telemetry.WithTracerName(s.config.TracerName))
		}
		submit = telemetry.TraceSubmit(def.Name, submit, opts...)
	}
	return def.Mount(locale, catalog.MountOptions{
		OnSubmit:   submit,
		Logger:     s.logger.With("form", def.Name),
		Production: !s.config.DevMode,
		Observer:   s.config.Metrics.Observer(def.Name),
	})
}

// ----------------------------------------------------------------------------
// Encoding
// ----------------------------------------------------------------------------

// decodeValues reads a JSON object or a urlencoded body.
func decodeValues(body io.Reader, contentType string) (form.Values, error) {
	if isJSON(contentType) {
		var values form.Values
		if err := json.NewDecoder(body).Decode(&values); err != nil {
			return nil, ferrors.New("F204").
				WithDetail("Body must be a JSON object of field values").
				Wrap(err)
		}
		if values == nil {
			values = form.Values{}
		}
		return values, nil
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, ferrors.New("F204").Wrap(err)
	}
	parsed, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, ferrors.New("F204").
			WithDetail("Body must be urlencoded field values").
			Wrap(err)
	}
	values := make(form.Values, len(parsed))
	for name, vs := range parsed {
		if len(vs) > 0 {
			values[name] = vs[0]
		}
	}
	return values, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": errorPayload(err)})
}
