package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type navLink struct {
	Label  string
	Anchor string
}

var headerLinks = []navLink{
	{"How it works", "#how"},
	{"Features", "#features"},
	{"Specs", "#specs"},
	{"Impact", "#impact"},
}

// PageHeader is the sticky top bar with brand, section nav and demo link.
func PageHeader() g.Node {
	return Header(
		Class("sticky top-0 z-40 bg-white/90 backdrop-blur border-b"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-3 flex items-center justify-between"),
			A(
				Href("#home"),
				Class("flex items-center gap-2"),
				Span(
					Class("inline-flex h-8 w-8 items-center justify-center rounded-md bg-teal-600 text-white font-semibold"),
					g.Text("VA"),
				),
				Span(Class("font-semibold text-slate-900"), g.Text("VacuumAssist")),
			),
			Nav(
				Class("hidden md:flex items-center gap-6 text-sm text-slate-700"),
				g.Group(g.Map(headerLinks, func(l navLink) g.Node {
					return A(Class("hover:text-teal-700"), Href(l.Anchor), g.Text(l.Label))
				})),
			),
			A(
				Href("#contact"),
				Class("hidden md:inline-flex rounded-md bg-teal-600 px-4 py-2 text-white font-medium hover:bg-teal-700"),
				g.Text("Request demo"),
			),
		),
	)
}
