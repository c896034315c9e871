// Package server provides the HTTP server for the Mergington activity signup
// service.
//
// # Endpoints
//
//   - GET / - Redirects to /activities
//   - GET /activities - All activities keyed by name
//   - POST /activities/{activity_name}/signup?email= - Sign a student up
//   - DELETE /activities/{activity_name}/signup?email= - Unregister a student
//   - GET /health - Simple health check, returns "ok"
//   - GET /api/status - Build info, roster totals and report schedule
//   - GET /config - Returns current configuration as YAML
//   - POST /reload - Reloads configuration from disk
//   - GET /metrics - Prometheus metrics
//
// # Architecture
//
// The activity catalog is built once in New and owned by the Server for its
// whole lifetime; a config reload never rebuilds it. Reload swaps the
// config atomically and applies the new log level. Listener, catalog and
// report settings take effect on the next start.
//
// # Example
//
//	srv, err := server.New("/etc/mergington/server.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/nomis52/mergington/buildinfo"
	"github.com/nomis52/mergington/catalog"
	"github.com/nomis52/mergington/logging"
	"github.com/nomis52/mergington/metrics"
	"github.com/nomis52/mergington/server/config"
	"github.com/nomis52/mergington/server/cron"
	"github.com/nomis52/mergington/server/handlers"
	"github.com/nomis52/mergington/server/report"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	reportJobName          = "enrollment_report"
)

// Server is the HTTP server for the signup service.
type Server struct {
	configPath string
	listenAddr string
	logOutput  io.Writer
	catalog    *catalog.Catalog
	startedAt  time.Time

	logger        *logging.Logger
	cfg           atomic.Pointer[config.ServerConfig]
	scrape        *metrics.ScrapeRegistry
	signupMetrics *metrics.SignupMetrics
	reporter      *report.Reporter
	reportTrigger *cron.Trigger
	httpServer    *http.Server
}

// Option configures a Server.
type Option func(*Server) error

// WithListenAddr overrides the listen address from the config file.
func WithListenAddr(addr string) Option {
	return func(s *Server) error {
		s.listenAddr = addr
		return nil
	}
}

// WithLogOutput sends logs to w instead of the configured output.
func WithLogOutput(w io.Writer) Option {
	return func(s *Server) error {
		s.logOutput = w
		return nil
	}
}

// WithCatalog uses c instead of building a catalog from the config.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) error {
		if c == nil {
			return fmt.Errorf("catalog must not be nil")
		}
		s.catalog = c
		return nil
	}
}

// New creates a new Server with the given config path and options.
// It loads the configuration and initializes all dependencies.
func New(configPath string, opts ...Option) (*Server, error) {
	s := &Server{
		configPath: configPath,
		startedAt:  time.Now(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	s.cfg.Store(cfg)
	if s.listenAddr == "" {
		s.listenAddr = cfg.Listener.Addr
	}

	if s.logOutput != nil {
		s.logger, err = logging.NewWithWriter(cfg.Logging, s.logOutput)
	} else {
		s.logger, err = logging.New(cfg.Logging)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if s.catalog == nil {
		if s.catalog, err = buildCatalog(cfg.CatalogFile); err != nil {
			return nil, err
		}
	}
	s.logger.Info("activity catalog loaded",
		"activities", s.catalog.Len(),
		"catalog_file", cfg.CatalogFile,
	)

	if err := s.initMetrics(cfg); err != nil {
		return nil, err
	}
	if err := s.initReport(cfg); err != nil {
		return nil, err
	}

	return s, nil
}

func buildCatalog(path string) (*catalog.Catalog, error) {
	activities := catalog.DefaultActivities()
	if path != "" {
		var err error
		if activities, err = catalog.LoadSeed(path); err != nil {
			return nil, err
		}
	}
	c, err := catalog.New(activities)
	if err != nil {
		return nil, fmt.Errorf("building activity catalog: %w", err)
	}
	return c, nil
}

func (s *Server) initMetrics(cfg *config.ServerConfig) error {
	scrape, err := metrics.NewScrapeRegistry(cfg.MetricsPrefix)
	if err != nil {
		return fmt.Errorf("creating metrics registry: %w", err)
	}
	signupMetrics, err := metrics.NewSignupMetrics(scrape)
	if err != nil {
		return err
	}
	for _, a := range s.catalog.List() {
		signupMetrics.SetEnrollment(a.Name, len(a.Participants), a.MaxParticipants)
	}

	s.scrape = scrape
	s.signupMetrics = signupMetrics
	return nil
}

func (s *Server) initReport(cfg *config.ServerConfig) error {
	if !cfg.Report.Enabled() {
		return nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("getting hostname: %w", err)
	}

	push := metrics.NewPushRegistry(metrics.PushConfig{
		URL:      cfg.Report.RemoteWriteURL,
		Prefix:   cfg.MetricsPrefix,
		Job:      cfg.Report.Job,
		Instance: hostname,
	})
	reporter, err := report.New(s.catalog, push, s.logger.Logger)
	if err != nil {
		return err
	}
	trigger, err := cron.NewTrigger(cfg.Report.Schedule, reportJobName, reporter, s.logger.Logger)
	if err != nil {
		return fmt.Errorf("creating report trigger: %w", err)
	}

	s.reporter = reporter
	s.reportTrigger = trigger
	return nil
}

// Logger returns the server's logger.
func (s *Server) Logger() *logging.Logger {
	return s.logger
}

// Catalog returns the activity catalog served by s.
func (s *Server) Catalog() *catalog.Catalog {
	return s.catalog
}

// Config returns the current configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.cfg.Load()
}

// Reload reads the config from disk and applies the new log level.
func (s *Server) Reload() error {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	if err := s.logger.SetLevel(level); err != nil {
		return fmt.Errorf("applying log level: %w", err)
	}

	old := s.cfg.Swap(cfg)
	if old.Listener != cfg.Listener || old.CatalogFile != cfg.CatalogFile || old.Report != cfg.Report {
		s.logger.Warn("listener, catalog and report changes take effect after restart")
	}
	s.logger.Info("configuration loaded", "config_path", s.configPath, "log_level", level)
	return nil
}

// BuildInfo returns the build properties of the running binary.
func (s *Server) BuildInfo() buildinfo.Properties {
	return buildinfo.Get()
}

// StartedAt returns when the server was created.
func (s *Server) StartedAt() time.Time {
	return s.startedAt
}

// NextReport returns the next scheduled report time, or nil if no report is configured.
func (s *Server) NextReport() *time.Time {
	if s.reportTrigger == nil {
		return nil
	}
	next := s.reportTrigger.NextRun()
	return &next
}

// LastReport returns when the last report was pushed, or nil if none has been.
func (s *Server) LastReport() *time.Time {
	if s.reporter == nil {
		return nil
	}
	return s.reporter.LastRun()
}

// Handler returns the server's routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return logging.Middleware(s.logger.Logger, mux)
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It performs a graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	cfg := s.Config()

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	if cfg.Listener.TLSEnabled() {
		loader, err := NewCertLoader(cfg.Listener.TLSCert, cfg.Listener.TLSKey, s.logger.Logger)
		if err != nil {
			ln.Close()
			return err
		}
		s.httpServer.TLSConfig = &tls.Config{
			MinVersion:     tls.VersionTLS12,
			GetCertificate: loader.GetCertificate,
		}
		ln = tls.NewListener(ln, s.httpServer.TLSConfig)
	}

	if s.reportTrigger != nil {
		s.logger.Info("starting enrollment report",
			"schedule", s.reportTrigger.Spec(),
			"next_run", s.reportTrigger.NextRun(),
		)
		s.reportTrigger.Start(ctx)
		defer s.reportTrigger.Wait()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"addr", ln.Addr().String(),
			"tls", cfg.Listener.TLSEnabled(),
			"config_path", s.configPath,
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	logger := s.logger.Logger

	mux.Handle("GET /{$}", http.RedirectHandler("/activities", http.StatusTemporaryRedirect))
	mux.Handle("GET /activities", handlers.NewActivitiesHandler(s.catalog))
	mux.Handle("POST /activities/{activity_name}/signup", handlers.NewSignupHandler(logger, s.catalog, s.signupMetrics))
	mux.Handle("DELETE /activities/{activity_name}/signup", handlers.NewUnregisterHandler(logger, s.catalog, s.signupMetrics))

	mux.HandleFunc("GET /health", handlers.HandleHealth)
	mux.Handle("GET /api/status", handlers.NewAPIStatusHandler(s.catalog, s))
	mux.Handle("GET /config", handlers.NewConfigHandler(logger, s))
	mux.Handle("POST /reload", handlers.NewReloadHandler(logger, s))
	mux.Handle("GET /metrics", s.scrape.Handler())
}
