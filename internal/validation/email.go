package validation

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// emailPattern is the "valid e-mail address" production from the HTML
// living standard, i.e. the check a browser runs for <input type="email">.
var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
		"[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?" +
		"(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$",
)

// SanitizeEmail applies the value sanitization algorithm of an email input:
// line breaks are removed, then leading and trailing ASCII whitespace is stripped.
func SanitizeEmail(value string) string {
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	return strings.Trim(value, " \t\f\r\n")
}

// ValidEmail reports whether value would pass a required email field:
// non-empty after sanitization and matching the email syntax. An
// internationalized domain is checked in its punycode form, as browsers do.
func ValidEmail(value string) bool {
	value = SanitizeEmail(value)
	if value == "" {
		return false
	}

	at := strings.LastIndexByte(value, '@')
	if at < 0 {
		return false
	}
	domain, err := idna.ToASCII(value[at+1:])
	if err != nil {
		return false
	}
	return emailPattern.MatchString(value[:at+1] + domain)
}
