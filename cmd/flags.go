package cmd

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// normalizeFlagName accepts --log_level as an alias of --log-level.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// bindFlags binds config keys to flags so an explicitly set flag overrides
// the file and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := flags.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// validateFormat checks an output format flag.
func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return &formatError{format: format, allowed: allowed}
}

type formatError struct {
	format  string
	allowed []string
}

func (e *formatError) Error() string {
	return "unsupported format: " + e.format + " (supported: " + strings.Join(e.allowed, ", ") + ")"
}
