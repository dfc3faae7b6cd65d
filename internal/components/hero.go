package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Stat is a labelled headline figure.
type Stat struct {
	Label string
	Value string
}

var heroStats = []Stat{
	{"Water per flush", "0.5 L"},
	{"Savings vs. std.", "~80%"},
	{"Noise rating", "≤ 45 dB"},
}

func Hero() g.Node {
	return Section(
		ID("home"),
		Class("bg-slate-50"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-16 md:py-24 grid md:grid-cols-2 gap-10 items-center"),
			Div(
				H1(
					Class("text-pretty text-3xl md:text-5xl font-semibold text-slate-900"),
					g.Text("Vacuum‑assisted toilet that saves up to 80% water per flush"),
				),
				P(
					Class("mt-4 text-slate-600 leading-relaxed"),
					g.Text("Our vacuum-assisted system uses targeted suction and a high‑efficiency trapway to move waste with as little as 0.5 L per flush—without sacrificing performance."),
				),
				Div(
					Class("mt-6 flex flex-wrap items-center gap-3"),
					A(
						Href("#contact"),
						Class("rounded-md bg-teal-600 px-5 py-3 text-white font-medium hover:bg-teal-700"),
						g.Text("Get a quote"),
					),
					A(
						Href("#how"),
						Class("rounded-md border px-5 py-3 text-slate-800 hover:bg-white"),
						g.Text("See how it works"),
					),
				),
				Dl(
					Class("mt-8 grid grid-cols-3 gap-4 text-center"),
					g.Group(g.Map(heroStats, func(s Stat) g.Node {
						return Div(
							Class("rounded-lg bg-white shadow-sm border p-4"),
							Dt(Class("text-xs text-slate-500"), g.Text(s.Label)),
							Dd(Class("text-xl md:text-2xl font-semibold text-slate-900"), g.Text(s.Value)),
						)
					})),
				),
			),
			Div(
				Class("relative"),
				Img(
					Src("/vacuum-assisted-toilet-system-cutaway.jpg"),
					Alt("Cutaway diagram of the vacuum-assisted water-saving toilet system"),
					Class("w-full rounded-xl border shadow-sm"),
				),
				P(
					Class("mt-3 text-xs text-slate-500 text-center"),
					g.Text("Illustration of vacuum chamber, seal, and high‑efficiency trapway"),
				),
			),
		),
	)
}
