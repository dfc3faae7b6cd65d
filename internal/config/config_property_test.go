//go:build property
// +build property

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestServerConfigProperties tests server configuration properties
func TestServerConfigProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: Port validation should reject invalid ranges
	properties.Property("port validation", prop.ForAll(
		func(port int) bool {
			cfg := Default()
			cfg.Server.Port = port

			err := validateServerConfig(&cfg.Server)

			if port >= 0 && port <= 65535 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-1000, 70000),
	))

	// Property: Hosts with shell metacharacters are rejected
	properties.Property("host validation", prop.ForAll(
		func(host string) bool {
			cfg := Default()
			cfg.Server.Host = host

			err := validateServerConfig(&cfg.Server)

			if strings.ContainsAny(host, ";|&`$()<>\"'\\ ") {
				return err != nil
			}
			return err == nil
		},
		gen.OneConstOf("localhost", "127.0.0.1", "0.0.0.0", "", "::1", "host;rm -rf /", "a b", "$(id)"),
	))

	properties.TestingRun(t)
}

// TestContactConfigProperties tests session store configuration properties
func TestContactConfigProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: Session limits must be positive
	properties.Property("session limits", prop.ForAll(
		func(maxSessions int, ttlSeconds int) bool {
			cfg := Default()
			cfg.Contact.MaxSessions = maxSessions
			cfg.Contact.SessionTTL = time.Duration(ttlSeconds) * time.Second

			err := validateContactConfig(&cfg.Contact)

			if maxSessions > 0 && ttlSeconds > 0 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-10, 100000),
		gen.IntRange(-10, 7200),
	))

	// Property: Cookie names are limited to token characters
	properties.Property("cookie name alphabet", prop.ForAll(
		func(name string) bool {
			cfg := Default()
			cfg.Contact.CookieName = name
			return validateContactConfig(&cfg.Contact) == nil
		},
		gen.RegexMatch(`^[a-zA-Z0-9_-]{1,32}$`),
	))

	properties.TestingRun(t)
}
