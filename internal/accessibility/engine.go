// Package accessibility audits rendered HTML documents for common WCAG
// failures.
package accessibility

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
)

// Rule is one accessibility check.
type Rule struct {
	ID          string
	Description string
	Severity    ViolationSeverity
	Impact      ViolationImpact
	WCAG        WCAG
	HelpURL     string
	Suggestion  string

	check func(doc *document) []finding
}

// finding is a rule failure before it is turned into a Violation.
type finding struct {
	node    *html.Node
	message string
}

// Engine runs rules against HTML documents.
type Engine struct {
	rules  []Rule
	logger logging.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithExcludedRules drops the rules with the given IDs.
func WithExcludedRules(ids ...string) Option {
	return func(e *Engine) {
		kept := e.rules[:0]
		for _, r := range e.rules {
			if !contains(ids, r.ID) {
				kept = append(kept, r)
			}
		}
		e.rules = kept
	}
}

// WithLevel keeps only rules at or below level.
func WithLevel(level WCAGLevel) Option {
	return func(e *Engine) {
		if level == WCAGLevelAA {
			return
		}
		kept := e.rules[:0]
		for _, r := range e.rules {
			if r.WCAG.Level == WCAGLevelA {
				kept = append(kept, r)
			}
		}
		e.rules = kept
	}
}

// NewEngine creates an engine loaded with the default rules.
func NewEngine(logger logging.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	e := &Engine{
		rules:  defaultRules(),
		logger: logger.WithComponent("accessibility"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the rules the engine runs.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Analyze parses htmlContent and runs every rule against it. target names
// the document in the report.
func (e *Engine) Analyze(ctx context.Context, target, htmlContent string) (*Report, error) {
	start := e.now()

	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, apperrors.WrapValidation(err, "AUDIT_PARSE", "failed to parse HTML")
	}
	doc := newDocument(root)

	report := &Report{
		Target:     target,
		Timestamp:  start,
		Violations: []Violation{},
		Passed:     []string{},
	}

	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		findings := rule.check(doc)
		if len(findings) == 0 {
			report.Passed = append(report.Passed, rule.ID)
			continue
		}
		for _, f := range findings {
			report.Violations = append(report.Violations, newViolation(rule, f))
		}
	}

	report.Duration = e.now().Sub(start)
	report.Summary = e.generateSummary(report)

	e.logger.Debug(ctx, "Accessibility analysis completed",
		"target", target,
		"violations", len(report.Violations),
		"passed_rules", len(report.Passed),
		"duration", report.Duration)

	return report, nil
}

func newViolation(rule Rule, f finding) Violation {
	return Violation{
		Rule:       rule.ID,
		Severity:   rule.Severity,
		Impact:     rule.Impact,
		WCAG:       rule.WCAG,
		Element:    elementName(f.node),
		Selector:   generateSelector(f.node),
		Message:    f.message,
		Suggestion: rule.Suggestion,
		HelpURL:    rule.HelpURL,
	}
}

func (e *Engine) generateSummary(report *Report) Summary {
	summary := Summary{
		TotalRules:      len(e.rules),
		PassedRules:     len(report.Passed),
		FailedRules:     len(e.rules) - len(report.Passed),
		TotalViolations: len(report.Violations),
	}

	for _, violation := range report.Violations {
		switch violation.Severity {
		case SeverityError:
			summary.ErrorViolations++
		case SeverityWarning:
			summary.WarnViolations++
		case SeverityInfo:
			summary.InfoViolations++
		}

		switch violation.Impact {
		case ImpactCritical:
			summary.CriticalImpact++
		case ImpactSerious:
			summary.SeriousImpact++
		case ImpactModerate:
			summary.ModerateImpact++
		case ImpactMinor:
			summary.MinorImpact++
		}
	}

	if summary.TotalRules > 0 {
		summary.OverallScore = float64(summary.PassedRules) / float64(summary.TotalRules) * 100
	}

	return summary
}

// document indexes a parsed tree for the rules.
type document struct {
	root     *html.Node
	elements []*html.Node
	byTag    map[string][]*html.Node
	ids      map[string][]*html.Node
}

func newDocument(root *html.Node) *document {
	doc := &document{
		root:  root,
		byTag: make(map[string][]*html.Node),
		ids:   make(map[string][]*html.Node),
	}

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			doc.elements = append(doc.elements, n)
			doc.byTag[n.Data] = append(doc.byTag[n.Data], n)
			if id, ok := attr(n, "id"); ok && id != "" {
				doc.ids[id] = append(doc.ids[id], n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)

	return doc
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// accessibleName approximates the accessible name computation: aria
// attributes, visible text, then the alt text of contained images.
func accessibleName(n *html.Node) string {
	if v, ok := attr(n, "aria-label"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := attr(n, "aria-labelledby"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if text := textContent(n); text != "" {
		return text
	}

	var alt string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if alt != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			if v, ok := attr(n, "alt"); ok {
				alt = strings.TrimSpace(v)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return alt
}

func elementName(n *html.Node) string {
	if n == nil {
		return "document"
	}
	return n.Data
}

func generateSelector(n *html.Node) string {
	if n == nil {
		return ""
	}
	if id, ok := attr(n, "id"); ok && id != "" {
		return n.Data + "#" + id
	}
	if class, ok := attr(n, "class"); ok {
		if fields := strings.Fields(class); len(fields) > 0 {
			return n.Data + "." + fields[0]
		}
	}
	if name, ok := attr(n, "name"); ok && name != "" {
		return fmt.Sprintf("%s[name=%q]", n.Data, name)
	}
	return n.Data
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
