package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the site",
		Long: `Serve the VacuumAssist page and the demo request form.

With --dev the assets directory is watched and connected browsers reload
when a file changes.

Examples:
  vacuumassist serve                  # Serve on localhost:8080
  vacuumassist serve -p 3000 --dev    # Live reload on port 3000
  vacuumassist serve --assets ./site  # Serve images and styles from ./site`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			bindFlags(opts.v, cmd.Flags(), map[string]string{
				"server.port":            "port",
				"server.host":            "host",
				"development.hot_reload": "dev",
				"site.assets_dir":        "assets",
				"server.open":            "open",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntP("port", "p", 8080, "Port to serve on")
	f.String("host", "localhost", "Host to bind to")
	f.Bool("dev", false, "Enable live reload")
	f.String("assets", "./public", "Directory of static assets")
	f.Bool("open", false, "Open the browser once the server is listening")

	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting VacuumAssist at http://%s\n", cfg.Address())

	if err := srv.Start(ctx); err != nil {
		if strings.Contains(err.Error(), "address already in use") || strings.Contains(err.Error(), "bind") ||
			strings.Contains(err.Error(), "permission denied") {
			return apperrors.NewEnhancedError(
				fmt.Sprintf("Failed to start server on port %d", cfg.Server.Port),
				err,
				apperrors.ServerStartError(err, cfg.Server.Port),
			)
		}
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

