// Package renderer turns the gomponents page tree into templ components so
// the HTTP layer, the static exporter and the audit command share one
// rendering path.
//
// Rendering is pure: the output depends only on the site metadata, the
// clock's current year and the visitor's contact form snapshot.
package renderer

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"

	"github.com/conneroisu/vacuumassist/internal/components"
	"github.com/conneroisu/vacuumassist/internal/config"
	"github.com/conneroisu/vacuumassist/internal/contact"
	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
)

// Component adapts a gomponents node to templ.Component.
func Component(node g.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return node.Render(w)
	})
}

// PageRenderer builds page and fragment components for a site.
type PageRenderer struct {
	site          config.SiteConfig
	liveReload    bool
	contactAction string
	now           func() time.Time
}

// Option configures a PageRenderer.
type Option func(*PageRenderer)

// WithLiveReload injects the development reload client into full pages.
func WithLiveReload(enabled bool) Option {
	return func(r *PageRenderer) { r.liveReload = enabled }
}

// WithContactAction makes full pages post the contact form to action instead
// of the server's own route.
func WithContactAction(action string) Option {
	return func(r *PageRenderer) { r.contactAction = action }
}

// WithClock replaces the clock used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(r *PageRenderer) { r.now = now }
}

// NewPageRenderer creates a renderer for site.
func NewPageRenderer(site config.SiteConfig, opts ...Option) *PageRenderer {
	r := &PageRenderer{
		site: site,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Meta returns the layout metadata for a render happening now.
func (r *PageRenderer) Meta() components.PageMeta {
	return components.PageMeta{
		Title:         r.site.Title,
		Description:   r.site.Description,
		Stylesheet:    r.site.Stylesheet,
		Year:          r.now().Year(),
		LiveReload:    r.liveReload,
		ContactAction: r.contactAction,
	}
}

// Page returns the full document for a visitor whose form is in form.
func (r *PageRenderer) Page(form contact.Snapshot) templ.Component {
	return Component(components.Page(r.Meta(), form))
}

// Fragment returns only the contact form markup.
func (r *PageRenderer) Fragment(form contact.Snapshot) templ.Component {
	return Component(components.ContactForm(form))
}

// RenderPage writes the full document to w.
func (r *PageRenderer) RenderPage(ctx context.Context, w io.Writer, form contact.Snapshot) error {
	if err := r.Page(form).Render(ctx, w); err != nil {
		return apperrors.WrapInternal(err, apperrors.ErrCodeRenderFailed, "failed to render page")
	}
	return nil
}

// RenderPageString renders the full document into a string.
func (r *PageRenderer) RenderPageString(ctx context.Context, form contact.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderPage(ctx, &buf, form); err != nil {
		return "", err
	}
	return buf.String(), nil
}
