package renderer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/conneroisu/vacuumassist/internal/config"
	"github.com/conneroisu/vacuumassist/internal/contact"
	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
)

func newTestRenderer(opts ...Option) *PageRenderer {
	fixed := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return NewPageRenderer(config.Default().Site, opts...)
}

func TestComponentAdapter(t *testing.T) {
	var buf bytes.Buffer
	err := Component(g.Text("a < b")).Render(context.Background(), &buf)

	require.NoError(t, err)
	assert.Equal(t, "a &lt; b", buf.String())
}

func TestComponentAdapterHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Component(g.Text("x")).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestRenderPageString(t *testing.T) {
	r := newTestRenderer()

	out, err := r.RenderPageString(context.Background(), contact.Snapshot{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, config.Default().Site.Title)
	assert.Contains(t, out, "© 2027 VacuumAssist. All rights reserved.")
	assert.Contains(t, out, `name="email"`)
	assert.NotContains(t, out, "/livereload.js")
}

func TestRenderPageSubmitted(t *testing.T) {
	r := newTestRenderer()

	out, err := r.RenderPageString(context.Background(), contact.Snapshot{Email: "ops@example.com", Submitted: true})
	require.NoError(t, err)

	assert.Contains(t, out, "Thanks! We’ll be in touch shortly.")
	assert.NotContains(t, out, "<input")
	assert.NotContains(t, out, "<button")
}

func TestRenderPageFailureIsWrapped(t *testing.T) {
	r := newTestRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.RenderPage(ctx, &bytes.Buffer{}, contact.Snapshot{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetErrorType(err))
}

func TestLiveReloadOption(t *testing.T) {
	r := newTestRenderer(WithLiveReload(true))

	out, err := r.RenderPageString(context.Background(), contact.Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, out, "/livereload.js")
}

func TestContactActionOption(t *testing.T) {
	out, err := newTestRenderer().RenderPageString(context.Background(), contact.Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, out, `action="/contact"`)

	r := newTestRenderer(WithContactAction("https://app.vacuumassist.example/contact"))
	out, err = r.RenderPageString(context.Background(), contact.Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, out, `action="https://app.vacuumassist.example/contact"`)
	assert.NotContains(t, out, `action="/contact"`)
}

func TestFragmentServedThroughTemplHandler(t *testing.T) {
	r := newTestRenderer()

	rec := httptest.NewRecorder()
	templ.Handler(r.Fragment(contact.Snapshot{Email: "ops@"})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<form id="contact-form"`))
	assert.Contains(t, body, `value="ops@"`)
	assert.NotContains(t, body, "<html")
}
