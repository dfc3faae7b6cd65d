package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type featureCard struct {
	Icon        string
	Title       string
	Description string
}

var featureCards = []featureCard{
	{"💧", "Ultra‑low water", "Delivers industry‑leading water savings with 0.5 L nominal flush volume."},
	{"🔇", "Quiet operation", "Acoustic dampening and optimized airflow keep noise below 45 dB."},
	{"🛠️", "Easy maintenance", "Modular components and self‑diagnostics reduce downtime and service costs."},
	{"🧪", "Hygienic design", "Anti‑microbial glazing and splash‑minimizing geometry improve cleanliness."},
	{"⚡", "Smart controls", "Adaptive cycles, leak detection, and remote insights via optional IoT module."},
	{"♻️", "Sustainable materials", "Durable ceramics and recyclable parts minimize life‑cycle impact."},
}

// Feature renders a single benefit card. The icon is decorative.
func Feature(icon, title, description string) g.Node {
	return Div(
		Class("rounded-xl border bg-white p-5 shadow-sm"),
		Div(
			Class("flex items-center gap-3"),
			Span(
				Class("inline-flex h-9 w-9 items-center justify-center rounded-md bg-lime-500/20 text-teal-700"),
				g.Attr("aria-hidden", "true"),
				g.Text(icon),
			),
			H3(Class("font-semibold text-slate-900"), g.Text(title)),
		),
		P(Class("mt-2 text-sm text-slate-600 leading-relaxed"), g.Text(description)),
	)
}

func Features() g.Node {
	return Section(
		ID("features"),
		Class("bg-slate-50"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-16"),
			H2(Class("text-2xl md:text-3xl font-semibold text-slate-900"), g.Text("Built for performance and sustainability")),
			Div(
				Class("mt-8 grid md:grid-cols-3 gap-6"),
				g.Group(g.Map(featureCards, func(f featureCard) g.Node {
					return Feature(f.Icon, f.Title, f.Description)
				})),
			),
		),
	)
}
