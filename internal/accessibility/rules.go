package accessibility

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

func defaultRules() []Rule {
	return []Rule{
		{
			ID:          "html-lang",
			Description: "HTML element must have a lang attribute",
			Severity:    SeverityError,
			Impact:      ImpactSerious,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria3_1_1},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/html-has-lang",
			Suggestion:  `Add lang="en" to the <html> element`,
			check:       checkHTMLLang,
		},
		{
			ID:          "page-title",
			Description: "Documents must contain a non-empty title element",
			Severity:    SeverityError,
			Impact:      ImpactSerious,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria2_4_2},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/document-title",
			Suggestion:  "Add a <title> describing the page to <head>",
			check:       checkPageTitle,
		},
		{
			ID:          "img-alt",
			Description: "Images must have alternative text",
			Severity:    SeverityError,
			Impact:      ImpactCritical,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria1_1_1},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/image-alt",
			Suggestion:  `Describe the image in alt, or use alt="" for decorative images`,
			check:       checkImgAlt,
		},
		{
			ID:          "input-label",
			Description: "Form controls must have labels",
			Severity:    SeverityError,
			Impact:      ImpactCritical,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria3_3_2},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/label",
			Suggestion:  "Associate a <label for=...> with the control, or set aria-label",
			check:       checkInputLabel,
		},
		{
			ID:          "button-name",
			Description: "Buttons must have accessible names",
			Severity:    SeverityError,
			Impact:      ImpactCritical,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria4_1_2},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/button-name",
			Suggestion:  "Give the button visible text or an aria-label",
			check:       checkButtonName,
		},
		{
			ID:          "link-name",
			Description: "Links must have discernible text",
			Severity:    SeverityError,
			Impact:      ImpactSerious,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria2_4_4},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/link-name",
			Suggestion:  "Put text inside the link or describe it with aria-label",
			check:       checkLinkName,
		},
		{
			ID:          "anchor-target",
			Description: "In-page links must point at an existing element",
			Severity:    SeverityError,
			Impact:      ImpactModerate,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria2_4_1},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/skip-link",
			Suggestion:  "Add the missing id to the target section or fix the href",
			check:       checkAnchorTarget,
		},
		{
			ID:          "duplicate-id",
			Description: "IDs must be unique",
			Severity:    SeverityError,
			Impact:      ImpactSerious,
			WCAG:        WCAG{Level: WCAGLevelA, Criteria: Criteria4_1_1},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/duplicate-id",
			Suggestion:  "Rename one of the elements so every id is unique",
			check:       checkDuplicateID,
		},
		{
			ID:          "heading-order",
			Description: "Heading levels should only increase by one",
			Severity:    SeverityWarning,
			Impact:      ImpactModerate,
			WCAG:        WCAG{Level: WCAGLevelAA, Criteria: Criteria1_3_1},
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/heading-order",
			Suggestion:  "Start with a single <h1> and do not skip levels",
			check:       checkHeadingOrder,
		},
	}
}

func checkHTMLLang(doc *document) []finding {
	for _, n := range doc.byTag["html"] {
		if lang, ok := attr(n, "lang"); !ok || strings.TrimSpace(lang) == "" {
			return []finding{{node: n, message: "<html> has no lang attribute"}}
		}
	}
	return nil
}

func checkPageTitle(doc *document) []finding {
	titles := doc.byTag["title"]
	if len(titles) == 0 {
		return []finding{{message: "document has no <title>"}}
	}
	if textContent(titles[0]) == "" {
		return []finding{{node: titles[0], message: "<title> is empty"}}
	}
	return nil
}

func checkImgAlt(doc *document) []finding {
	var out []finding
	for _, n := range doc.byTag["img"] {
		if _, ok := attr(n, "alt"); ok {
			continue
		}
		if role, _ := attr(n, "role"); role == "presentation" || role == "none" {
			continue
		}
		src, _ := attr(n, "src")
		out = append(out, finding{node: n, message: fmt.Sprintf("image %q has no alt attribute", src)})
	}
	return out
}

// unlabelledInputTypes never need a label.
var unlabelledInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"reset":  true,
	"button": true,
	"image":  true,
}

func checkInputLabel(doc *document) []finding {
	labelled := make(map[string]bool)
	for _, l := range doc.byTag["label"] {
		if f, ok := attr(l, "for"); ok && f != "" && textContent(l) != "" {
			labelled[f] = true
		}
	}

	var out []finding
	for _, n := range doc.elements {
		switch n.Data {
		case "input":
			t, _ := attr(n, "type")
			if unlabelledInputTypes[strings.ToLower(t)] {
				continue
			}
		case "select", "textarea":
		default:
			continue
		}

		if hasLabel(n, labelled) {
			continue
		}
		out = append(out, finding{node: n, message: fmt.Sprintf("<%s> has no associated label", n.Data)})
	}
	return out
}

func hasLabel(n *html.Node, labelled map[string]bool) bool {
	if v, ok := attr(n, "aria-label"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if v, ok := attr(n, "aria-labelledby"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if id, ok := attr(n, "id"); ok && labelled[id] {
		return true
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "label" {
			return true
		}
	}
	return false
}

func checkButtonName(doc *document) []finding {
	var out []finding
	for _, n := range doc.byTag["button"] {
		if accessibleName(n) == "" {
			out = append(out, finding{node: n, message: "button has no accessible name"})
		}
	}
	return out
}

func checkLinkName(doc *document) []finding {
	var out []finding
	for _, n := range doc.byTag["a"] {
		href, ok := attr(n, "href")
		if !ok {
			continue
		}
		if accessibleName(n) == "" {
			out = append(out, finding{node: n, message: fmt.Sprintf("link to %q has no text", href)})
		}
	}
	return out
}

func checkAnchorTarget(doc *document) []finding {
	var out []finding
	for _, n := range doc.byTag["a"] {
		href, _ := attr(n, "href")
		if !strings.HasPrefix(href, "#") {
			continue
		}
		target := strings.TrimPrefix(href, "#")
		if target == "" {
			out = append(out, finding{node: n, message: `link points at "#" and goes nowhere`})
			continue
		}
		if len(doc.ids[target]) == 0 {
			out = append(out, finding{node: n, message: fmt.Sprintf("no element with id %q", target)})
		}
	}
	return out
}

func checkDuplicateID(doc *document) []finding {
	ids := make([]string, 0, len(doc.ids))
	for id, nodes := range doc.ids {
		if len(nodes) > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]finding, 0, len(ids))
	for _, id := range ids {
		nodes := doc.ids[id]
		out = append(out, finding{
			node:    nodes[1],
			message: fmt.Sprintf("id %q is used by %d elements", id, len(nodes)),
		})
	}
	return out
}

func checkHeadingOrder(doc *document) []finding {
	var out []finding
	prev := 0
	for _, n := range doc.elements {
		level := headingLevel(n.Data)
		if level == 0 {
			continue
		}
		switch {
		case prev == 0 && level != 1:
			out = append(out, finding{node: n, message: fmt.Sprintf("first heading is <%s>, expected <h1>", n.Data)})
		case prev != 0 && level > prev+1:
			out = append(out, finding{node: n, message: fmt.Sprintf("<%s> follows <h%d>", n.Data, prev)})
		}
		prev = level
	}
	return out
}

func headingLevel(tagName string) int {
	if len(tagName) == 2 && tagName[0] == 'h' && tagName[1] >= '1' && tagName[1] <= '6' {
		return int(tagName[1] - '0')
	}
	return 0
}
