package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

var impactFigures = []Stat{
	{"Annual water saved per unit", "≈ 12,000 L"},
	{"CO₂e avoided (water treatment)", "≈ 18 kg"},
	{"Payback period (typical)", "12–18 months"},
}

func Impact() g.Node {
	return Section(
		ID("impact"),
		Class("bg-slate-50"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-16"),
			H2(Class("text-2xl md:text-3xl font-semibold text-slate-900"), g.Text("Sustainability impact")),
			Div(
				Class("mt-6 grid md:grid-cols-3 gap-6"),
				g.Group(g.Map(impactFigures, func(s Stat) g.Node {
					return Div(
						Class("rounded-xl border bg-white p-6 shadow-sm"),
						P(Class("text-sm text-slate-600"), g.Text(s.Label)),
						P(Class("mt-2 text-2xl font-semibold text-slate-900"), g.Text(s.Value)),
					)
				})),
			),
			Div(
				Class("mt-8 rounded-xl border bg-white p-6 shadow-sm"),
				P(
					Class("text-sm text-slate-600"),
					g.Text("Estimates based on 5 flushes per person per day at 1.6 gpf baseline and regional utility rates. Actual results vary by installation and usage."),
				),
			),
		),
	)
}
