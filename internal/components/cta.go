package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/conneroisu/vacuumassist/internal/contact"
)

const (
	// ContactPath is where the form posts.
	ContactPath = "/contact"
	// ContactFormID identifies the form container for partial refreshes.
	ContactFormID = "contact-form"

	thankYouText = "Thanks! We’ll be in touch shortly."
)

func CTA(form contact.Snapshot) g.Node {
	return CTAPostingTo(ContactPath, form)
}

// CTAPostingTo renders the contact section with a form that posts to action.
func CTAPostingTo(action string, form contact.Snapshot) g.Node {
	return Section(
		ID("contact"),
		Class("bg-teal-600"),
		Div(
			Class("mx-auto max-w-6xl px-4 py-16 text-white"),
			Div(
				Class("grid md:grid-cols-2 gap-8 items-center"),
				Div(
					H2(
						Class("text-2xl md:text-3xl font-semibold text-balance"),
						g.Text("Ready to cut water usage without compromise?"),
					),
					P(
						Class("mt-2 text-white/80 leading-relaxed"),
						g.Text("Talk to our team about pilots, pricing, and facility‑wide rollouts."),
					),
				),
				ContactFormPostingTo(action, form),
			),
		),
	)
}

// ContactForm renders the email capture form, or the acknowledgement once
// the visitor has submitted.
func ContactForm(form contact.Snapshot) g.Node {
	return ContactFormPostingTo(ContactPath, form)
}

// ContactFormPostingTo is ContactForm with the form posting to action. An
// empty action falls back to ContactPath.
func ContactFormPostingTo(action string, form contact.Snapshot) g.Node {
	if action == "" {
		action = ContactPath
	}
	if form.Submitted {
		return Div(
			ID(ContactFormID),
			Class("rounded-lg bg-white text-slate-900 p-4"),
			g.Attr("role", "status"),
			P(Class("font-medium"), g.Text(thankYouText)),
		)
	}

	return Form(
		ID(ContactFormID),
		Method("post"),
		Action(action),
		Class("rounded-lg bg-white p-4 text-slate-900 flex items-center gap-3"),
		Label(For("email"), Class("sr-only"), g.Text("Email")),
		Input(
			ID("email"),
			Name("email"),
			Type("email"),
			Required(),
			Value(form.Email),
			Placeholder("you@company.com"),
			g.Attr("autocomplete", "email"),
			Class("flex-1 rounded-md border px-3 py-2 outline-none focus:ring-2 focus:ring-teal-600"),
		),
		Button(
			Type("submit"),
			Class("rounded-md bg-teal-600 px-4 py-2 text-white font-medium hover:bg-teal-700"),
			g.Text("Request demo"),
		),
	)
}
