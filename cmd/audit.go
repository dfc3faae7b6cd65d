package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vacuumassist/internal/accessibility"
	"github.com/conneroisu/vacuumassist/internal/contact"
	"github.com/conneroisu/vacuumassist/internal/renderer"
)

func newAuditCommand(opts *rootOptions) *cobra.Command {
	var (
		format    string
		submitted bool
		level     string
		exclude   []string
	)

	cmd := &cobra.Command{
		Use:     "audit",
		Aliases: []string{"a11y"},
		Short:   "Audit the rendered page for accessibility problems",
		Long: `Render the page and check it for common WCAG failures: missing
language, title, image alternatives and form labels, unnamed buttons and
links, in-page links without a target, duplicate ids and skipped heading
levels.

The command exits with an error when any violation of error severity is
found. Warnings are reported but do not fail the audit.

Examples:
  vacuumassist audit
  vacuumassist audit --submitted
  vacuumassist audit --format json --level A`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, "text", "json"); err != nil {
				return err
			}
			if err := validateFormat(level, string(accessibility.WCAGLevelA), string(accessibility.WCAGLevelAA)); err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			snapshot := contact.Snapshot{}
			target := "page (editing)"
			if submitted {
				snapshot = contact.Snapshot{Email: "ops@example.com", Submitted: true}
				target = "page (submitted)"
			}

			page, err := renderer.NewPageRenderer(cfg.Site).RenderPageString(cmd.Context(), snapshot)
			if err != nil {
				return err
			}

			engine := accessibility.NewEngine(logger,
				accessibility.WithLevel(accessibility.WCAGLevel(level)),
				accessibility.WithExcludedRules(exclude...))
			report, err := engine.Analyze(cmd.Context(), target, page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				err = report.WriteJSON(out)
			} else {
				err = report.WriteText(out)
			}
			if err != nil {
				return err
			}

			if report.HasErrors() {
				return fmt.Errorf("accessibility audit failed with %d errors", report.Summary.ErrorViolations)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	f.BoolVar(&submitted, "submitted", false, "Audit the page after the form was submitted")
	f.StringVar(&level, "level", string(accessibility.WCAGLevelAA), "WCAG level to check (A, AA)")
	f.StringSliceVar(&exclude, "exclude", nil, "Rule IDs to skip")

	return cmd
}
