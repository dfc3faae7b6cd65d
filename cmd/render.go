package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vacuumassist/internal/export"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"r"},
		Short:   "Render the page or export a static site",
		Long: `Render the page in its initial state.

Without --output the HTML is written to stdout. With --output the page is
written to <dir>/index.html together with a copy of the assets directory and
a manifest.json listing every file.

A static host does not serve the /contact route, so point the exported form
at the live server with --contact-action (or site.contact_action) and list the
static host's origin in server.allowed_origins.

Examples:
  vacuumassist render > index.html
  vacuumassist render --output dist --contact-action https://app.example.com/contact`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			bindFlags(opts.v, cmd.Flags(), map[string]string{
				"site.assets_dir":     "assets",
				"site.contact_action": "contact-action",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			exporter := export.NewExporter(cfg, newLogger(cmd, cfg))

			if output == "" {
				return exporter.RenderTo(cmd.Context(), cmd.OutOrStdout())
			}

			manifest, err := exporter.Export(cmd.Context(), output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files to %s\n", len(manifest.Files), output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Export directory (default: write HTML to stdout)")
	f.String("assets", "./public", "Directory of static assets")
	f.String("contact-action", "", "URL the exported contact form posts to (default: /contact)")

	return cmd
}
