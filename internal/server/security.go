package server

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/conneroisu/vacuumassist/internal/config"
	"github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/validation"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	CSP                 *CSPConfig
	HSTS                *HSTSConfig
	XFrameOptions       string
	XContentTypeNoSniff bool
	ReferrerPolicy      string
	PermissionsPolicy   map[string][]string
	AllowedOrigins      []string
	Logger              logging.Logger
}

// CSPConfig holds Content Security Policy configuration
type CSPConfig struct {
	DefaultSrc              []string
	ScriptSrc               []string
	StyleSrc                []string
	ImgSrc                  []string
	ConnectSrc              []string
	FontSrc                 []string
	ObjectSrc               []string
	FrameAncestors          []string
	BaseURI                 []string
	FormAction              []string
	UpgradeInsecureRequests bool
}

// HSTSConfig holds HTTP Strict Transport Security configuration
type HSTSConfig struct {
	MaxAge            int
	IncludeSubDomains bool
	Preload           bool
}

// DefaultSecurityConfig returns the policy for a page made of same-origin
// markup, stylesheets and images.
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		CSP: &CSPConfig{
			DefaultSrc:     []string{"'self'"},
			ScriptSrc:      []string{"'self'"},
			StyleSrc:       []string{"'self'", "'unsafe-inline'"},
			ImgSrc:         []string{"'self'", "data:"},
			ConnectSrc:     []string{"'self'"},
			FontSrc:        []string{"'self'"},
			ObjectSrc:      []string{"'none'"},
			FrameAncestors: []string{"'none'"},
			BaseURI:        []string{"'self'"},
			FormAction:     []string{"'self'"},
		},
		XFrameOptions:       "DENY",
		XContentTypeNoSniff: true,
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy: map[string][]string{
			"camera":      {},
			"geolocation": {},
			"microphone":  {},
			"payment":     {},
			"usb":         {},
		},
	}
}

// DevelopmentSecurityConfig allows the live reload websocket.
func DevelopmentSecurityConfig() *SecurityConfig {
	cfg := DefaultSecurityConfig()
	cfg.CSP.ConnectSrc = append(cfg.CSP.ConnectSrc, "ws:", "wss:")
	return cfg
}

// ProductionSecurityConfig adds HSTS and upgrades insecure requests.
func ProductionSecurityConfig() *SecurityConfig {
	cfg := DefaultSecurityConfig()
	cfg.CSP.UpgradeInsecureRequests = true
	cfg.HSTS = &HSTSConfig{
		MaxAge:            31536000,
		IncludeSubDomains: true,
	}
	return cfg
}

// SecurityConfigFromAppConfig creates security config from application config
func SecurityConfigFromAppConfig(cfg *config.Config, logger logging.Logger) *SecurityConfig {
	var sec *SecurityConfig
	switch {
	case cfg.IsProduction():
		sec = ProductionSecurityConfig()
	case cfg.Development.HotReload:
		sec = DevelopmentSecurityConfig()
	default:
		sec = DefaultSecurityConfig()
	}
	sec.AllowedOrigins = cfg.Server.AllowedOrigins
	sec.Logger = logger
	return sec
}

// SecurityMiddleware applies security headers and rejects cross-origin
// state-changing requests.
func SecurityMiddleware(secConfig *SecurityConfig) func(http.Handler) http.Handler {
	if secConfig == nil {
		secConfig = DefaultSecurityConfig()
	}
	csp := ""
	if secConfig.CSP != nil {
		csp = buildCSPHeader(secConfig.CSP)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applySecurityHeaders(w, r, secConfig, csp)

			if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions {
				if !isAllowedOrigin(r, secConfig.AllowedOrigins) {
					if secConfig.Logger != nil {
						secConfig.Logger.Warn(r.Context(),
							errors.NewSecurityError("INVALID_ORIGIN", "cross-origin request rejected"),
							"Security: invalid origin",
							"origin", r.Header.Get("Origin"),
							"path", r.URL.Path,
							"ip", clientIP(r))
					}
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func applySecurityHeaders(w http.ResponseWriter, r *http.Request, config *SecurityConfig, csp string) {
	h := w.Header()

	if csp != "" {
		h.Set("Content-Security-Policy", csp)
	}

	// Browsers ignore HSTS over plain HTTP
	if config.HSTS != nil && (r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https") {
		h.Set("Strict-Transport-Security", buildHSTSHeader(config.HSTS))
	}

	if config.XFrameOptions != "" {
		h.Set("X-Frame-Options", config.XFrameOptions)
	}

	if config.XContentTypeNoSniff {
		h.Set("X-Content-Type-Options", "nosniff")
	}

	if config.ReferrerPolicy != "" {
		h.Set("Referrer-Policy", config.ReferrerPolicy)
	}

	if policy := buildPermissionsPolicyHeader(config.PermissionsPolicy); policy != "" {
		h.Set("Permissions-Policy", policy)
	}

	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Resource-Policy", "same-origin")
}

// buildCSPHeader constructs the Content-Security-Policy header value
func buildCSPHeader(csp *CSPConfig) string {
	var directives []string

	addDirective := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, fmt.Sprintf("%s %s", name, strings.Join(values, " ")))
		}
	}

	addDirective("default-src", csp.DefaultSrc)
	addDirective("script-src", csp.ScriptSrc)
	addDirective("style-src", csp.StyleSrc)
	addDirective("img-src", csp.ImgSrc)
	addDirective("connect-src", csp.ConnectSrc)
	addDirective("font-src", csp.FontSrc)
	addDirective("object-src", csp.ObjectSrc)
	addDirective("frame-ancestors", csp.FrameAncestors)
	addDirective("base-uri", csp.BaseURI)
	addDirective("form-action", csp.FormAction)

	if csp.UpgradeInsecureRequests {
		directives = append(directives, "upgrade-insecure-requests")
	}

	return strings.Join(directives, "; ")
}

// buildHSTSHeader constructs the Strict-Transport-Security header value
func buildHSTSHeader(hsts *HSTSConfig) string {
	header := fmt.Sprintf("max-age=%d", hsts.MaxAge)

	if hsts.IncludeSubDomains {
		header += "; includeSubDomains"
	}

	if hsts.Preload {
		header += "; preload"
	}

	return header
}

func buildPermissionsPolicyHeader(pp map[string][]string) string {
	if len(pp) == 0 {
		return ""
	}

	names := make([]string, 0, len(pp))
	for name := range pp {
		names = append(names, name)
	}
	sort.Strings(names)

	policies := make([]string, 0, len(names))
	for _, name := range names {
		policies = append(policies, fmt.Sprintf("%s=(%s)", name, strings.Join(pp[name], " ")))
	}
	return strings.Join(policies, ", ")
}

// isAllowedOrigin accepts same-origin requests, requests from configured
// origins and requests that carry neither Origin nor Referer.
func isAllowedOrigin(r *http.Request, allowedOrigins []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "null" {
		referer := r.Header.Get("Referer")
		if referer == "" {
			return origin == ""
		}
		refererURL, err := url.Parse(referer)
		if err != nil {
			return false
		}
		origin = refererURL.Scheme + "://" + refererURL.Host
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Host == r.Host {
		return true
	}

	return validation.ValidateOrigin(origin, allowedOrigins) == nil
}
