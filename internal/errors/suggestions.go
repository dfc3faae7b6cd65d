package errors

import (
	"fmt"
	"strings"
)

// ErrorSuggestion is one remedy shown under a CLI failure.
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// hint attaches suggestions to errors whose text contains any of match.
type hint struct {
	match   []string
	suggest func(port int, path string) []ErrorSuggestion
}

func (h hint) applies(msg string) bool {
	for _, m := range h.match {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

var serverHints = []hint{
	{
		match: []string{"address already in use", "bind: address"},
		suggest: func(port int, _ string) []ErrorSuggestion {
			return []ErrorSuggestion{
				{
					Title:       "Port already in use",
					Description: fmt.Sprintf("Another process is listening on port %d", port),
					Command:     fmt.Sprintf("lsof -i :%d", port),
				},
				{
					Title:       "Use a different port",
					Description: "Pick a free port with the flag or VACUUMASSIST_SERVER_PORT",
					Command:     fmt.Sprintf("vacuumassist serve --port %d", port+1),
				},
			}
		},
	},
	{
		match: []string{"permission denied"},
		suggest: func(port int, _ string) []ErrorSuggestion {
			out := []ErrorSuggestion{{
				Title:       "Permission denied",
				Description: "The process may not bind to this address",
			}}
			if port < 1024 {
				out = append(out, ErrorSuggestion{
					Title:       "Use unprivileged port",
					Description: "Ports below 1024 need elevated privileges; put a proxy in front instead",
					Command:     "vacuumassist serve --port 8080",
				})
			}
			return out
		},
	},
	{
		match: []string{"no such host", "cannot assign requested address"},
		suggest: func(int, string) []ErrorSuggestion {
			return []ErrorSuggestion{{
				Title:       "Check the host",
				Description: "server.host must be an address of this machine",
				Command:     "vacuumassist serve --host 0.0.0.0",
			}}
		},
	},
}

var configHints = []hint{
	{
		match: []string{"yaml", "unmarshal", "While parsing config"},
		suggest: func(int, string) []ErrorSuggestion {
			return []ErrorSuggestion{{
				Title:       "Fix YAML syntax",
				Description: "Indent with spaces and quote values containing ':'",
				Example:     "server:\n  port: 8080",
			}}
		},
	},
	{
		match: []string{"webhook"},
		suggest: func(int, string) []ErrorSuggestion {
			return []ErrorSuggestion{{
				Title:       "Check the webhook URL",
				Description: "contact.webhook_url must be an absolute http or https URL",
				Example:     "VACUUMASSIST_CONTACT_WEBHOOK_URL=https://hooks.example.com/leads",
			}}
		},
	},
	{
		match: []string{"port"},
		suggest: func(int, string) []ErrorSuggestion {
			return []ErrorSuggestion{{
				Title:       "Check the port",
				Description: "server.port must be between 0 and 65535; 0 picks a free port",
			}}
		},
	},
	{
		match: []string{"rate_limit", "rate limit"},
		suggest: func(int, string) []ErrorSuggestion {
			return []ErrorSuggestion{{
				Title:       "Check the rate limit",
				Description: "requests_per_minute and burst_size must be positive when enabled",
			}}
		},
	},
}

func collect(hints []hint, msg string, port int, path string) []ErrorSuggestion {
	var out []ErrorSuggestion
	for _, h := range hints {
		if h.applies(msg) {
			out = append(out, h.suggest(port, path)...)
		}
	}
	return out
}

// ServerStartError suggests fixes for a failure to listen on port.
func ServerStartError(err error, port int) []ErrorSuggestion {
	return collect(serverHints, err.Error(), port, "")
}

// ConfigurationError suggests fixes for a configuration problem. The generic
// checks are always included.
func ConfigurationError(configError string, configPath string) []ErrorSuggestion {
	out := collect(configHints, configError, 0, configPath)
	return append(out,
		ErrorSuggestion{
			Title:       "Check configuration file",
			Description: "Make sure the file exists and is valid YAML",
			Command:     "cat " + configPath,
		},
		ErrorSuggestion{
			Title:       "Print the effective configuration",
			Description: "Shows the values merged from file, .env, VACUUMASSIST_* and flags",
			Command:     "vacuumassist config",
		},
	)
}

// FormatSuggestions renders title followed by a numbered suggestion list.
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\nSuggestions:\n")

	for i, s := range suggestions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Title)
		if s.Description != "" {
			fmt.Fprintf(&b, "     %s\n", s.Description)
		}
		if s.Command != "" {
			fmt.Fprintf(&b, "     Run: %s\n", s.Command)
		}
		if s.Example != "" {
			fmt.Fprintf(&b, "     Example: %s\n", s.Example)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// EnhancedError is an error printed with remedies.
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

func (e *EnhancedError) Error() string {
	return FormatSuggestions(e.Title, e.Suggestions)
}

func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates an EnhancedError.
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}
