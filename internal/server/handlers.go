package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/vacuumassist/internal/components"
	"github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/livereload"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/session"
	"github.com/conneroisu/vacuumassist/internal/validation"
	"github.com/conneroisu/vacuumassist/internal/version"
)

// maxFormBytes caps the contact form body.
const maxFormBytes = 4 << 10

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityMiddleware(SecurityConfigFromAppConfig(s.config, s.logger)))

	r.Get("/", s.handleIndex)
	r.Get(components.ContactPath, s.handleContactFragment)
	r.With(RateLimitMiddleware(s.limiter)).Post(components.ContactPath, s.handleContact)
	r.Get("/health", s.handleHealth)

	if s.hub != nil {
		r.Handle(livereload.Path, s.hub)
		r.Handle(components.LiveReloadScriptPath, livereload.ScriptHandler())
	}

	r.NotFound(s.handleAssets)

	return r
}

// requestLogger writes one access log line per request.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info(r.Context(), "HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// sessionFor returns the visitor's session, creating one and (re)issuing the
// cookie so it slides with the session's idle timeout.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(s.config.Contact.CookieName); err == nil {
		id = c.Value
	}

	sess, created := s.sessions.GetOrCreate(id)
	if created {
		s.logger.Debug(r.Context(), "Session created", "request_id", middleware.GetReqID(r.Context()))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Contact.CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.config.Contact.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	return sess
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	s.render(w, r, s.renderer.Page(sess.Form.Snapshot()))
}

func (s *Server) handleContactFragment(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	s.render(w, r, s.renderer.Fragment(sess.Form.Snapshot()))
}

// render writes a per-visitor component. Render failures become a 500 and
// are logged by templ.Handler's error handler.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(c,
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			s.logger.Error(r.Context(),
				errors.NewInternalError(errors.ErrCodeRenderFailed, "failed to render page", err),
				"Failed to render page",
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()))
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

// handleContact applies the posted email to the visitor's form and redirects
// back to the contact section whatever the outcome.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := r.PostForm.Get("email")
	sess.Form.SetEmail(email)

	switch submitted, err := sess.Form.Submit(r.Context()); {
	case err == nil && submitted:
		s.logger.Info(r.Context(), "Contact form submitted",
			"email", logging.MaskEmail(validation.SanitizeEmail(email)),
			"request_id", middleware.GetReqID(r.Context()))
	case err == nil:
		// already submitted; later posts leave the form untouched
	case errors.IsValidationError(err):
		s.logger.Debug(r.Context(), "Contact form rejected invalid email",
			"request_id", middleware.GetReqID(r.Context()))
	default:
		s.logger.Error(r.Context(), err, "Contact form submission failed")
	}

	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

// handleHealth returns the server health status for health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.sessions.Stats()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version.GetShortVersion(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"sessions":  stats.Active,
		"checks": map[string]interface{}{
			"sessions":   stats,
			"rate_limit": s.limiter.GetStats(),
		},
	}
	if s.hub != nil {
		health["live_reload_clients"] = s.hub.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to encode health response")
	}
}

// handleAssets serves files from the assets directory for any unrouted
// GET or HEAD request.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.FileServer(assetFS{http.Dir(s.config.Site.AssetsDir)}).ServeHTTP(w, r)
}

// assetFS hides directories and dotfiles.
type assetFS struct {
	fs http.FileSystem
}

func (a assetFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(path.Clean(name), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return nil, os.ErrNotExist
		}
	}

	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}

	return f, nil
}
