package components

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	g "maragu.dev/gomponents"

	"github.com/conneroisu/vacuumassist/internal/contact"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func parse(t *testing.T, doc string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for _, t := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		b.WriteString(t.Data)
	}
	return b.String()
}

func editingPage(t *testing.T) string {
	return render(t, Page(PageMeta{Year: 2026}, contact.Snapshot{}))
}

func TestPageContainsHeadlineFigures(t *testing.T) {
	text := textOf(parse(t, editingPage(t)))

	for _, figure := range []string{"0.5 L", "~80%", "≤ 45 dB", "−35 kPa", "51 mm", "≈ 12,000 L"} {
		assert.Contains(t, text, figure)
	}
}

func TestPageSectionOrder(t *testing.T) {
	root := parse(t, editingPage(t))

	sections := findAll(root, byTag("section"))
	var ids []string
	for _, s := range sections {
		id, _ := attr(s, "id")
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"home", "how", "features", "specs", "impact", "contact"}, ids)

	require.Len(t, findAll(root, byTag("header")), 1)
	require.Len(t, findAll(root, byTag("main")), 1)
	require.Len(t, findAll(root, byTag("footer")), 1)
}

func TestEditingFormMarkup(t *testing.T) {
	root := parse(t, render(t, ContactForm(contact.Snapshot{Email: "ops@exa"})))

	forms := findAll(root, byTag("form"))
	require.Len(t, forms, 1)
	method, _ := attr(forms[0], "method")
	action, _ := attr(forms[0], "action")
	assert.Equal(t, "post", method)
	assert.Equal(t, ContactPath, action)

	inputs := findAll(root, byTag("input"))
	require.Len(t, inputs, 1)
	for key, want := range map[string]string{
		"id":          "email",
		"name":        "email",
		"type":        "email",
		"placeholder": "you@company.com",
		"value":       "ops@exa",
	} {
		got, ok := attr(inputs[0], key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, required := attr(inputs[0], "required")
	assert.True(t, required)

	labels := findAll(root, byTag("label"))
	require.Len(t, labels, 1)
	forAttr, _ := attr(labels[0], "for")
	assert.Equal(t, "email", forAttr)
	assert.Equal(t, "Email", textOf(labels[0]))

	buttons := findAll(root, byTag("button"))
	require.Len(t, buttons, 1)
	assert.Equal(t, "Request demo", textOf(buttons[0]))
}

func TestContactFormPostingTo(t *testing.T) {
	const remote = "https://app.vacuumassist.example/contact"

	root := parse(t, render(t, CTAPostingTo(remote, contact.Snapshot{})))
	forms := findAll(root, byTag("form"))
	require.Len(t, forms, 1)
	action, _ := attr(forms[0], "action")
	assert.Equal(t, remote, action)

	forms = findAll(parse(t, render(t, ContactFormPostingTo("", contact.Snapshot{}))), byTag("form"))
	require.Len(t, forms, 1)
	action, _ = attr(forms[0], "action")
	assert.Equal(t, ContactPath, action)

	forms = findAll(parse(t, render(t, Page(PageMeta{ContactAction: remote}, contact.Snapshot{}))), byTag("form"))
	require.Len(t, forms, 1)
	action, _ = attr(forms[0], "action")
	assert.Equal(t, remote, action)
}

func TestEditingFormKeepsValueVerbatim(t *testing.T) {
	typed := `"><script>alert(1)</script> & more`
	out := render(t, ContactForm(contact.Snapshot{Email: typed}))

	assert.NotContains(t, out, "<script>")

	inputs := findAll(parse(t, out), byTag("input"))
	require.Len(t, inputs, 1)
	value, _ := attr(inputs[0], "value")
	assert.Equal(t, typed, value)
}

func TestSubmittedFormHasNoControls(t *testing.T) {
	root := parse(t, render(t, CTA(contact.Snapshot{Email: "ops@example.com", Submitted: true})))

	assert.Contains(t, textOf(root), "Thanks! We’ll be in touch shortly.")
	assert.Empty(t, findAll(root, byTag("form")))
	assert.Empty(t, findAll(root, byTag("input")))
	assert.Empty(t, findAll(root, byTag("button")))
}

func TestFooterYear(t *testing.T) {
	out := render(t, PageFooter(2031))
	assert.Contains(t, out, "© 2031 VacuumAssist. All rights reserved.")
}

func TestHowItWorksNumbersSteps(t *testing.T) {
	root := parse(t, render(t, HowItWorks()))

	headings := findAll(root, byTag("h3"))
	require.Len(t, headings, 4)
	assert.Equal(t, "Pre-charge vacuum chamber", textOf(headings[0]))
	assert.Equal(t, "Smart refill", textOf(headings[3]))
	assert.Contains(t, textOf(root), "4")
}

func TestFlushStep(t *testing.T) {
	root := parse(t, render(t, FlushStep(3, "Efficient transport", "Smooth trapway.")))

	spans := findAll(root, byTag("span"))
	require.Len(t, spans, 1)
	assert.Equal(t, "3", textOf(spans[0]))

	headings := findAll(root, byTag("h3"))
	require.Len(t, headings, 1)
	assert.Equal(t, "Efficient transport", textOf(headings[0]))

	paragraphs := findAll(root, byTag("p"))
	require.Len(t, paragraphs, 1)
	assert.Equal(t, "Smooth trapway.", textOf(paragraphs[0]))
}

func TestFeaturesHasSixCards(t *testing.T) {
	root := parse(t, render(t, Features()))
	assert.Len(t, findAll(root, byTag("h3")), 6)
}

func TestLayoutMeta(t *testing.T) {
	out := render(t, Layout(PageMeta{Title: "T", Stylesheet: "/s.css", LiveReload: true}))
	root := parse(t, out)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))

	htmlEl := findAll(root, byTag("html"))
	require.Len(t, htmlEl, 1)
	lang, _ := attr(htmlEl[0], "lang")
	assert.Equal(t, "en", lang)

	titles := findAll(root, byTag("title"))
	require.Len(t, titles, 1)
	assert.Equal(t, "T", textOf(titles[0]))

	assert.Contains(t, out, `href="/s.css"`)
	assert.Contains(t, out, LiveReloadScriptPath)
}

func TestLayoutDefaults(t *testing.T) {
	out := render(t, Layout(PageMeta{}))

	assert.Contains(t, out, defaultTitle)
	assert.NotContains(t, out, LiveReloadScriptPath)
	assert.NotContains(t, out, "stylesheet")
}

func TestImagesHaveAlt(t *testing.T) {
	root := parse(t, editingPage(t))

	imgs := findAll(root, byTag("img"))
	require.Len(t, imgs, 3)
	for _, img := range imgs {
		alt, ok := attr(img, "alt")
		assert.True(t, ok)
		assert.NotEmpty(t, alt)
	}
}
