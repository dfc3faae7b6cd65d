// Package components renders the VacuumAssist page sections as gomponents
// nodes. Every section is a pure function of literal copy; the only dynamic
// inputs are the contact form snapshot and the layout metadata.
package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/conneroisu/vacuumassist/internal/contact"
)

// PageMeta carries the document level settings of a render.
type PageMeta struct {
	Title       string
	Description string
	Stylesheet  string
	Year        int
	// LiveReload injects the development reload client.
	LiveReload bool
	// ContactAction overrides where the contact form posts.
	ContactAction string
}

const (
	defaultTitle       = "VacuumAssist | Vacuum-assisted water-saving toilet"
	defaultDescription = "A vacuum-assisted toilet that saves up to 80% water per flush."

	// LiveReloadScriptPath is where the server exposes the reload client.
	LiveReloadScriptPath = "/livereload.js"
)

func Layout(meta PageMeta, content ...g.Node) g.Node {
	if meta.Title == "" {
		meta.Title = defaultTitle
	}

	if meta.Description == "" {
		meta.Description = defaultDescription
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(meta.Title)),
				Meta(Name("description"), Content(meta.Description)),
				Meta(g.Attr("property", "og:title"), Content(meta.Title)),
				Meta(g.Attr("property", "og:description"), Content(meta.Description)),
				Meta(g.Attr("property", "og:type"), Content("website")),
				g.If(meta.Stylesheet != "", Link(Rel("stylesheet"), Href(meta.Stylesheet))),
			),
			Body(
				g.Group(content),
				g.If(meta.LiveReload, Script(Src(LiveReloadScriptPath), g.Attr("defer"))),
			),
		),
	})
}

// Page assembles the full document in its fixed section order.
func Page(meta PageMeta, form contact.Snapshot) g.Node {
	return Layout(meta,
		Div(
			Class("font-sans text-slate-800"),
			PageHeader(),
			Main(
				Hero(),
				HowItWorks(),
				Features(),
				Specs(),
				Impact(),
				CTAPostingTo(meta.ContactAction, form),
			),
			PageFooter(meta.Year),
		),
	)
}
