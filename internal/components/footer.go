package components

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

var footerLinks = []navLink{
	{"Specs", "#specs"},
	{"Impact", "#impact"},
	{"Contact", "#contact"},
}

// PageFooter renders the copyright line for year and the closing links.
func PageFooter(year int) g.Node {
	return Footer(
		Class("border-t bg-white"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-8 flex flex-col md:flex-row items-center justify-between gap-4"),
			P(Class("text-sm text-slate-600"), g.Text(fmt.Sprintf("© %d VacuumAssist. All rights reserved.", year))),
			Div(
				Class("flex items-center gap-4 text-sm text-slate-600"),
				g.Group(g.Map(footerLinks, func(l navLink) g.Node {
					return A(Href(l.Anchor), Class("hover:text-teal-700"), g.Text(l.Label))
				})),
			),
		),
	)
}
