// Package server serves the VacuumAssist page, accepts contact form posts and,
// in development, pushes live reload events to connected browsers.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/conneroisu/vacuumassist/internal/config"
	"github.com/conneroisu/vacuumassist/internal/contact"
	"github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/livereload"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/renderer"
	"github.com/conneroisu/vacuumassist/internal/session"
	"github.com/conneroisu/vacuumassist/internal/validation"
	"github.com/conneroisu/vacuumassist/internal/watcher"
)

// Server is the marketing site HTTP server.
type Server struct {
	config   *config.Config
	logger   logging.Logger
	sessions *session.Store
	renderer *renderer.PageRenderer
	notifier contact.Notifier
	limiter  *RateLimiter
	hub      *livereload.Hub
	watcher  *watcher.FileWatcher
	router   chi.Router

	httpServer   *http.Server
	addr         net.Addr
	serverMutex  sync.RWMutex // protects httpServer and addr
	shutdownOnce sync.Once
	started      time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithNotifier replaces the notifier built from the contact configuration.
func WithNotifier(n contact.Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// New creates a server for cfg. Nothing listens until Start is called.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "configuration is required")
	}

	s := &Server{config: cfg, started: time.Now()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger(cfg.LoggerConfig())
	}
	s.logger = s.logger.WithComponent("server")

	if s.notifier == nil {
		n, err := defaultNotifier(cfg.Contact, s.logger)
		if err != nil {
			return nil, err
		}
		s.notifier = n
	}

	notifier, logger := s.notifier, s.logger
	s.sessions = session.NewStore(cfg.Contact.SessionTTL, cfg.Contact.MaxSessions,
		session.WithFormFactory(func() *contact.Form {
			return contact.NewForm(contact.WithNotifier(notifier), contact.WithLogger(logger))
		}))

	s.renderer = renderer.NewPageRenderer(cfg.Site, renderer.WithLiveReload(cfg.Development.HotReload))
	s.limiter = NewRateLimiter(cfg.Server.RateLimit, s.logger)

	if cfg.Development.HotReload {
		fw, err := watcher.NewFileWatcher(cfg.Development.Debounce, s.logger)
		if err != nil {
			s.limiter.Stop()
			s.sessions.Close()
			return nil, err
		}
		s.watcher = fw
		s.hub = livereload.NewHub(s.logger, originPatterns(cfg.Server.AllowedOrigins))
	}

	s.router = s.routes()
	return s, nil
}

// defaultNotifier logs requests, posts them to the configured webhook, or both.
func defaultNotifier(cfg config.ContactConfig, logger logging.Logger) (contact.Notifier, error) {
	var notifiers []contact.Notifier
	if cfg.LogRequests {
		notifiers = append(notifiers, contact.NewLogNotifier(logger))
	}
	if cfg.WebhookURL != "" {
		webhook, err := contact.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, webhook)
	}

	switch len(notifiers) {
	case 0:
		return contact.NopNotifier{}, nil
	case 1:
		return notifiers[0], nil
	default:
		return contact.NewMultiNotifier(notifiers...), nil
	}
}

// originPatterns turns allowed origins into the host patterns the websocket
// handshake checks.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	return s.addr
}

// Start listens on the configured address and serves until ctx is cancelled
// or the server fails. Cancelling ctx shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.watcher != nil {
		s.setupFileWatcher(ctx)
	}

	listener, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return errors.WrapNetwork(err, "SERVER_LISTEN", "failed to listen on "+s.config.Address())
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.addr = listener.Addr()
	server := s.httpServer
	s.serverMutex.Unlock()

	pageURL := "http://" + listener.Addr().String()
	s.logger.Info(ctx, "Server listening",
		"url", pageURL,
		"environment", s.config.Server.Environment,
		"live_reload", s.hub != nil)

	if s.config.Server.Open {
		go s.openBrowser(ctx, pageURL)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- errors.WrapNetwork(err, "SERVER_SERVE", "server error")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		_ = s.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

func (s *Server) setupFileWatcher(ctx context.Context) {
	s.watcher.AddFilter(watcher.AssetFilter)
	s.watcher.AddFilter(watcher.NoEditorTempFilter)
	s.watcher.AddFilter(watcher.NoGitFilter)
	s.watcher.AddHandler(s.hub.HandleChanges)

	for _, path := range s.config.Development.WatchPaths {
		if err := s.watcher.AddRecursive(path); err != nil {
			s.logger.Warn(ctx, err, "Failed to watch path", "path", path)
		}
	}

	if err := s.watcher.Start(ctx); err != nil {
		s.logger.Error(ctx, err, "Failed to start file watcher")
	}
}

func (s *Server) openBrowser(ctx context.Context, pageURL string) {
	time.Sleep(100 * time.Millisecond)

	if err := validation.ValidateURL(pageURL); err != nil {
		s.logger.Warn(ctx, err, "Browser open failed due to invalid URL", "url", pageURL)
		return
	}

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", pageURL).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", pageURL).Start()
	case "darwin":
		err = exec.Command("open", pageURL).Start()
	default:
		err = fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}

	if err != nil {
		s.logger.Warn(ctx, err, "Failed to open browser")
	}
}

// Shutdown stops the watcher, disconnects live reload clients, drains HTTP
// connections and releases the session store. Only the first call does work.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}

		if s.hub != nil {
			_ = s.hub.Close()
		}

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}

		s.limiter.Stop()
		s.sessions.Close()
	})

	return shutdownErr
}
