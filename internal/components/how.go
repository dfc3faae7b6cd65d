package components

import (
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type howStep struct {
	Title       string
	Description string
}

var flushSteps = []howStep{
	{"Pre-charge vacuum chamber", "A compact, insulated chamber holds a controlled vacuum ready for each flush with minimal standby energy."},
	{"Seal + accelerate", "A quick-close seal creates a pressure differential that accelerates flow, reducing required water volume."},
	{"Efficient transport", "A smooth trapway and optimized venting maintain momentum while preventing clogs and odors."},
	{"Smart refill", "Sensors verify a clean cycle and refill only as needed, adapting to usage and conserving water."},
}

// FlushStep renders one numbered stage of the flush cycle.
func FlushStep(index int, title, description string) g.Node {
	return Div(
		Class("flex items-start gap-4"),
		Span(
			Class("mt-1 inline-flex h-6 w-6 items-center justify-center rounded-full bg-teal-600 text-white text-sm"),
			g.Text(strconv.Itoa(index)),
		),
		Div(
			H3(Class("font-semibold text-slate-900"), g.Text(title)),
			P(Class("text-sm text-slate-600 leading-relaxed mt-1"), g.Text(description)),
		),
	)
}

func HowItWorks() g.Node {
	steps := make([]g.Node, 0, len(flushSteps))
	for i, s := range flushSteps {
		steps = append(steps, FlushStep(i+1, s.Title, s.Description))
	}

	return Section(
		ID("how"),
		Class("bg-white"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-16"),
			H2(
				Class("text-2xl md:text-3xl font-semibold text-slate-900 text-balance"),
				g.Text("How the vacuum-assisted system works"),
			),
			Div(
				Class("mt-8 grid md:grid-cols-2 gap-10"),
				Div(Class("space-y-6"), g.Group(steps)),
				Div(
					Img(
						Src("/sequence-diagram-vacuum-flush-steps.jpg"),
						Alt("Sequence diagram showing the four steps of a vacuum-assisted flush"),
						Class("w-full rounded-xl border shadow-sm"),
					),
				),
			),
		),
	)
}
