package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// shellMeta are characters that change meaning when a value reaches a shell.
const shellMeta = ";&|`$()<>\"'\\\n\r "

// parseHTTPURL parses raw and requires an http or https scheme and a host.
func parseHTTPURL(raw, what string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", what, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("invalid %s scheme %q: only http and https are allowed", what, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s must have a host", what)
	}
	return u, nil
}

// ValidateURL checks a URL that is handed to the platform browser opener.
// Anything a shell could interpret is refused.
func ValidateURL(rawURL string) error {
	if i := strings.IndexAny(rawURL, shellMeta); i >= 0 {
		return fmt.Errorf("URL contains disallowed character %q", rawURL[i])
	}
	_, err := parseHTTPURL(rawURL, "URL")
	return err
}

// ValidateWebhookURL checks the lead webhook endpoint. Query strings are
// fine here since the value only ever reaches the HTTP client.
func ValidateWebhookURL(rawURL string) error {
	u, err := parseHTTPURL(rawURL, "webhook url")
	if err != nil {
		return err
	}
	if u.User != nil {
		return fmt.Errorf("webhook url must not embed credentials")
	}
	return nil
}

// ValidateFormAction checks where a rendered form posts: a root-relative path
// or an absolute http(s) URL.
func ValidateFormAction(action string) error {
	if strings.HasPrefix(action, "/") && !strings.HasPrefix(action, "//") {
		if strings.ContainsAny(action, "\"<> \n\r") {
			return fmt.Errorf("form action %q contains disallowed characters", action)
		}
		return nil
	}
	_, err := parseHTTPURL(action, "form action")
	return err
}
