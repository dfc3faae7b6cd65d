package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

var specRows = []Stat{
	{"Nominal flush volume", "0.5 L"},
	{"Peak negative pressure", "−35 kPa"},
	{"Noise level", "≤ 45 dB"},
	{"Power (standby/peak)", "1 W / 120 W"},
	{"Trapway diameter", "51 mm"},
}

func Specs() g.Node {
	return Section(
		ID("specs"),
		Class("bg-white"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-16"),
			H2(Class("text-2xl md:text-3xl font-semibold text-slate-900"), g.Text("Technical specifications")),
			Div(
				Class("mt-6 grid md:grid-cols-2 gap-6"),
				Ul(
					Class("rounded-xl border bg-white p-6 shadow-sm space-y-3 text-sm text-slate-700"),
					g.Group(g.Map(specRows, func(s Stat) g.Node {
						return Li(
							Class("flex justify-between gap-4"),
							Span(g.Text(s.Label)),
							Span(Class("font-medium text-slate-900"), g.Text(s.Value)),
						)
					})),
				),
				Div(
					Class("rounded-xl border bg-white p-6 shadow-sm"),
					Img(
						Src("/dimensioned-technical-drawing-toilet.jpg"),
						Alt("Dimensioned drawing of the toilet with height, depth, and rough-in measurements"),
						Class("w-full rounded-lg border"),
					),
					P(Class("mt-3 text-xs text-slate-500"), g.Text("Dimensions and installation clearances")),
				),
			),
		),
	)
}
