package accessibility

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human readable report with one table row per violation.
func (r *Report) WriteText(w io.Writer) error {
	title := cases.Title(language.English)

	fmt.Fprintf(w, "Accessibility report for %s\n", r.Target)
	fmt.Fprintf(w, "Rules: %d passed, %d failed (score %.0f%%)\n\n",
		r.Summary.PassedRules, r.Summary.FailedRules, r.Summary.OverallScore)

	if len(r.Violations) == 0 {
		_, err := fmt.Fprintln(w, "No violations found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Severity", "Rule", "WCAG", "Element", "Message")
	for _, v := range r.Violations {
		if err := table.Append(
			title.String(string(v.Severity)),
			v.Rule,
			string(v.WCAG.Criteria)+" "+string(v.WCAG.Level),
			v.Selector,
			v.Message,
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d errors, %d warnings\n",
		r.Summary.ErrorViolations, r.Summary.WarnViolations)
	return err
}
