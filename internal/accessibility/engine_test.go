package accessibility

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/vacuumassist/internal/contact"
	"github.com/conneroisu/vacuumassist/internal/config"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/renderer"
)

// page wraps body in a document that passes the document-level rules.
func page(body string) string {
	return `<!doctype html><html lang="en"><head><title>Test</title></head><body>` + body + `</body></html>`
}

// violationsFor returns the violations raised by rule.
func violationsFor(r *Report, rule string) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

func analyze(t *testing.T, htmlContent string, opts ...Option) *Report {
	t.Helper()

	report, err := NewEngine(logging.NewNopLogger(), opts...).Analyze(context.Background(), "test", htmlContent)
	require.NoError(t, err)
	return report
}

func TestRenderedPageHasNoErrors(t *testing.T) {
	r := renderer.NewPageRenderer(config.Default().Site)

	for _, snap := range []contact.Snapshot{
		{},
		{Email: "ops@"},
		{Email: "ops@example.com", Submitted: true},
	} {
		out, err := r.RenderPageString(context.Background(), snap)
		require.NoError(t, err)

		report := analyze(t, out)
		assert.False(t, report.HasErrors(), "violations: %+v", report.Violations)
		assert.Empty(t, report.Violations)
		assert.Equal(t, float64(100), report.Summary.OverallScore)
	}
}

func TestDocumentRules(t *testing.T) {
	report := analyze(t, `<html><head></head><body><h1>Hi</h1></body></html>`)

	require.Len(t, violationsFor(report, "html-lang"), 1)
	require.Len(t, violationsFor(report, "page-title"), 1)
	assert.Equal(t, "document", violationsFor(report, "page-title")[0].Element)

	report = analyze(t, `<html lang=" "><head><title> </title></head><body></body></html>`)
	assert.Len(t, violationsFor(report, "html-lang"), 1)
	assert.Equal(t, "<title> is empty", violationsFor(report, "page-title")[0].Message)
}

func TestImgAlt(t *testing.T) {
	report := analyze(t, page(`
		<img src="/a.png" alt="Diagram">
		<img src="/spacer.gif" alt="">
		<img src="/icon.svg" role="presentation">
		<img src="/missing.png" class="hero shadow">`))

	violations := violationsFor(report, "img-alt")
	require.Len(t, violations, 1)
	assert.Equal(t, "img.hero", violations[0].Selector)
	assert.Equal(t, ImpactCritical, violations[0].Impact)
	assert.Equal(t, Criteria1_1_1, violations[0].WCAG.Criteria)
	assert.Contains(t, violations[0].Message, "/missing.png")
}

func TestInputLabel(t *testing.T) {
	report := analyze(t, page(`
		<form>
			<label for="email">Email</label><input id="email" type="email">
			<label>Name <input type="text"></label>
			<input type="search" aria-label="Search">
			<input type="hidden" name="csrf">
			<input type="submit" value="Go">
			<label for="empty"></label><input id="empty" type="text">
			<input type="tel" name="phone">
			<textarea></textarea>
		</form>`))

	violations := violationsFor(report, "input-label")
	require.Len(t, violations, 3)
	assert.Equal(t, "input#empty", violations[0].Selector)
	assert.Equal(t, `input[name="phone"]`, violations[1].Selector)
	assert.Equal(t, "textarea", violations[2].Element)
}

func TestButtonAndLinkNames(t *testing.T) {
	report := analyze(t, page(`
		<h1 id="top">Top</h1>
		<button>Send</button>
		<button aria-label="Close"></button>
		<button><span> </span></button>
		<a href="#top">Back</a>
		<a href="/home"><img src="/logo.png" alt="Home"></a>
		<a href="/empty"></a>
		<a name="legacy"></a>`))

	assert.Len(t, violationsFor(report, "button-name"), 1)
	links := violationsFor(report, "link-name")
	require.Len(t, links, 1)
	assert.Contains(t, links[0].Message, "/empty")
}

func TestAnchorTarget(t *testing.T) {
	report := analyze(t, page(`
		<section id="how"><h1>How</h1></section>
		<a href="#how">How</a>
		<a href="#specs">Specs</a>
		<a href="#">Nowhere</a>
		<a href="https://example.com/#specs">External</a>`))

	violations := violationsFor(report, "anchor-target")
	require.Len(t, violations, 2)
	assert.Equal(t, `no element with id "specs"`, violations[0].Message)
	assert.Contains(t, violations[1].Message, `"#"`)
}

func TestDuplicateID(t *testing.T) {
	report := analyze(t, page(`<div id="a"></div><p id="a"></p><span id="a"></span><div id="b"></div>`))

	violations := violationsFor(report, "duplicate-id")
	require.Len(t, violations, 1)
	assert.Equal(t, `id "a" is used by 3 elements`, violations[0].Message)
	assert.Equal(t, "p#a", violations[0].Selector)
}

func TestHeadingOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "logical", body: "<h1>a</h1><h2>b</h2><h3>c</h3><h2>d</h2><h3>e</h3>", want: 0},
		{name: "skip", body: "<h1>a</h1><h3>b</h3>", want: 1},
		{name: "no h1 first", body: "<h2>a</h2><h3>b</h3>", want: 1},
		{name: "no headings", body: "<p>text</p>", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := analyze(t, page(tt.body))
			violations := violationsFor(report, "heading-order")
			assert.Len(t, violations, tt.want)
			for _, v := range violations {
				assert.Equal(t, SeverityWarning, v.Severity)
			}
			assert.False(t, report.HasErrors())
		})
	}
}

func TestEngineOptions(t *testing.T) {
	all := NewEngine(nil)
	levelA := NewEngine(nil, WithLevel(WCAGLevelA))
	excluded := NewEngine(nil, WithExcludedRules("img-alt", "duplicate-id"))

	assert.Len(t, all.Rules(), 9)
	assert.Len(t, levelA.Rules(), 8)
	assert.Len(t, excluded.Rules(), 7)

	report, err := excluded.Analyze(context.Background(), "x", page(`<img src="/a.png">`))
	require.NoError(t, err)
	assert.Empty(t, violationsFor(report, "img-alt"))
}

func TestAnalyzeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(nil).Analyze(ctx, "x", page(""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummaryCounts(t *testing.T) {
	report := analyze(t, `<html><body><h2>a</h2><img src="/x.png"></body></html>`)

	s := report.Summary
	assert.Equal(t, 9, s.TotalRules)
	assert.Equal(t, 5, s.PassedRules)
	assert.Equal(t, 4, s.FailedRules)
	assert.Equal(t, 3, s.ErrorViolations)
	assert.Equal(t, 1, s.WarnViolations)
	assert.Equal(t, 1, s.CriticalImpact)
	assert.Equal(t, 2, s.SeriousImpact)
	assert.Equal(t, 1, s.ModerateImpact)
	assert.InDelta(t, 55.55, s.OverallScore, 0.01)
}

func TestWriteText(t *testing.T) {
	report := analyze(t, page(`<h1>a</h1><h3>b</h3><img src="/x.png">`))

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Accessibility report for test")
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "Warning")
	assert.Contains(t, out, "img-alt")
	assert.Contains(t, out, "1 errors, 1 warnings")
	assert.Contains(t, strings.ToUpper(out), "SEVERITY")

	var imgRow string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "img-alt") {
			imgRow = line
		}
	}
	require.NotEmpty(t, imgRow)
	assert.Contains(t, imgRow, "1.1.1 A")
	assert.Contains(t, imgRow, "Error")

	buf.Reset()
	clean := analyze(t, page("<h1>ok</h1>"))
	require.NoError(t, clean.WriteText(&buf))
	assert.Contains(t, buf.String(), "No violations found.")
}

func TestWriteJSON(t *testing.T) {
	report := analyze(t, page(`<img src="/x.png">`))

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Violations, 1)
	assert.Equal(t, "img-alt", decoded.Violations[0].Rule)
	assert.Equal(t, SeverityError, decoded.Violations[0].Severity)
}

func BenchmarkAnalyzePage(b *testing.B) {
	r := renderer.NewPageRenderer(config.Default().Site,
		renderer.WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }))
	out, err := r.RenderPageString(context.Background(), contact.Snapshot{})
	require.NoError(b, err)

	engine := NewEngine(nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Analyze(context.Background(), "page", out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAnalyzeLargeDocument(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("<h1>Catalogue</h1>")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, `<section id="s%d"><h2>Item %d</h2><img src="/%d.png" alt="Item %d"><a href="#s%d">Link</a></section>`, i, i, i, i, i)
	}
	doc := page(sb.String())
	engine := NewEngine(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Analyze(context.Background(), "large", doc); err != nil {
			b.Fatal(err)
		}
	}
}
