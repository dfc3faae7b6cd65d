// Package validation provides input checks shared by the CLI, the config
// loader and the HTTP handlers: email syntax, URLs, origins and paths.
package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode"
)

// systemDirs may never be used as an assets or export directory.
var systemDirs = []string{"/etc", "/proc", "/sys", "/dev", "/boot"}

// ValidatePath checks a directory taken from config or flags, such as the
// assets directory or an export target. Relative paths, parents included,
// are resolved against the working directory before the system directory
// check.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if i := strings.IndexAny(path, ";&|$`<>"); i >= 0 {
		return fmt.Errorf("path contains disallowed character %q", path[i])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	lower := strings.ToLower(filepath.ToSlash(abs))
	for _, dir := range systemDirs {
		if lower == dir || strings.HasPrefix(lower, dir+"/") {
			return fmt.Errorf("access to system directory denied: %s", path)
		}
	}

	return nil
}

// ValidateOrigin matches a browser Origin header against an allowlist whose
// entries are full origins ("http://localhost:8080") or bare hosts.
func ValidateOrigin(origin string, allowedOrigins []string) error {
	if origin == "" {
		return fmt.Errorf("origin header is required")
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid origin scheme %q", u.Scheme)
	}

	for _, allowed := range allowedOrigins {
		if origin == allowed || u.Host == allowed {
			return nil
		}
	}
	return fmt.Errorf("origin %q is not allowed", origin)
}

// SanitizeInput drops control characters except tab and line breaks.
func SanitizeInput(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, input)
}
