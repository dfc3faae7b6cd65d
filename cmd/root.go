package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/vacuumassist/internal/config"
	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
)

const (
	configFileEnv     = config.EnvPrefix + "_CONFIG_FILE"
	defaultConfigName = ".vacuumassist"
	defaultConfigPath = defaultConfigName + ".yml"
)

// rootOptions is shared by every command of one invocation.
type rootOptions struct {
	v       *viper.Viper
	cfgFile string
	envFile string
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return execute(NewRootCommand())
}

// execute runs root and prints a failure with its type, context and
// suggestions to the command's stderr.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", apperrors.FormatError(err))
	}
	return err
}

// NewRootCommand builds the command tree around a fresh viper instance.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "vacuumassist",
		Short: "Marketing site for the VacuumAssist water-saving toilet",
		Long: `vacuumassist serves the VacuumAssist single page site, including the
demo request form, and can export or audit the rendered page.

Quick Start:
  vacuumassist serve --dev        Start the site with live reload
  vacuumassist render -o dist     Export a static copy
  vacuumassist audit              Check the page for accessibility issues`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig()
		},
	}

	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default is .vacuumassist.yml, can also use "+configFileEnv+" env var)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	bindFlags(opts.v, pf, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	})

	rootCmd.AddCommand(
		newServeCommand(opts),
		newRenderCommand(opts),
		newAuditCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// initConfig wires the config file, dotenv and environment into viper.
//
// Config file priority (highest to lowest):
//  1. --config flag
//  2. VACUUMASSIST_CONFIG_FILE environment variable
//  3. .vacuumassist.yml in the current directory
func (o *rootOptions) initConfig() error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperrors.WrapConfig(err, apperrors.ErrCodeConfigLoad, "failed to load "+o.envFile)
		}
	}

	explicit := true
	switch {
	case o.cfgFile != "":
		o.v.SetConfigFile(o.cfgFile)
	case os.Getenv(configFileEnv) != "":
		o.v.SetConfigFile(os.Getenv(configFileEnv))
	default:
		explicit = false
		o.v.AddConfigPath(".")
		o.v.SetConfigName(defaultConfigName)
	}

	o.v.SetEnvPrefix(config.EnvPrefix)
	o.v.SetEnvKeyReplacer(config.NewEnvKeyReplacer())
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		path := o.v.ConfigFileUsed()
		if path == "" {
			path = defaultConfigPath
		}
		return apperrors.NewEnhancedError(
			fmt.Sprintf("Failed to read config file: %v", err),
			err,
			apperrors.ConfigurationError(err.Error(), path),
		)
	}

	return nil
}

// loadConfig returns the merged configuration.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.v)
	if err != nil {
		path := o.v.ConfigFileUsed()
		if path == "" {
			path = defaultConfigPath
		}
		return nil, apperrors.NewEnhancedError(
			fmt.Sprintf("Failed to load configuration: %v", err),
			err,
			apperrors.ConfigurationError(err.Error(), path),
		)
	}
	return cfg, nil
}

// newLogger creates the command's logger writing to stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) logging.Logger {
	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	return logging.NewLogger(lc)
}
