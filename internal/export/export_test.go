package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/vacuumassist/internal/config"
	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
)

var fixedNow = func() time.Time { return time.Date(2027, 6, 1, 9, 0, 0, 0, time.UTC) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newExporter(t *testing.T, assets string) *Exporter {
	t.Helper()
	cfg := config.Default()
	cfg.Site.AssetsDir = assets
	return NewExporter(cfg, logging.NewNopLogger(), WithClock(fixedNow))
}

func TestExportWritesPageAndAssets(t *testing.T) {
	assets := t.TempDir()
	writeFile(t, filepath.Join(assets, "styles.css"), "body{}")
	writeFile(t, filepath.Join(assets, "images", "hero.png"), "png")
	writeFile(t, filepath.Join(assets, ".DS_Store"), "junk")
	writeFile(t, filepath.Join(assets, ".git", "config"), "junk")

	out := filepath.Join(t.TempDir(), "site")
	manifest, err := newExporter(t, assets).Export(context.Background(), out)
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<!DOCTYPE html>")
	assert.Contains(t, string(page), `name="email"`)
	assert.Contains(t, string(page), "© 2027 VacuumAssist. All rights reserved.")
	assert.NotContains(t, string(page), "livereload")

	css, err := os.ReadFile(filepath.Join(out, "styles.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
	assert.FileExists(t, filepath.Join(out, "images", "hero.png"))
	assert.NoFileExists(t, filepath.Join(out, ".DS_Store"))
	assert.NoDirExists(t, filepath.Join(out, ".git"))

	var paths []string
	for _, f := range manifest.Files {
		paths = append(paths, f.Path)
		assert.Len(t, f.Hash, 12)
	}
	assert.Equal(t, []string{"images/hero.png", "index.html", "styles.css"}, paths)
	assert.Equal(t, int64(len(page)), manifest.Files[1].Size)
	assert.Equal(t, fixedNow(), manifest.BuildTime)

	raw, err := os.ReadFile(filepath.Join(out, ManifestName))
	require.NoError(t, err)
	var decoded Manifest
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, manifest.Files, decoded.Files)
}

func TestExportWithoutAssetsDir(t *testing.T) {
	out := t.TempDir()
	manifest, err := newExporter(t, filepath.Join(t.TempDir(), "missing")).Export(context.Background(), out)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "index.html", manifest.Files[0].Path)
}

func TestExportPageOverridesAssetIndex(t *testing.T) {
	assets := t.TempDir()
	writeFile(t, filepath.Join(assets, "index.html"), "stale")

	out := t.TempDir()
	manifest, err := newExporter(t, assets).Export(context.Background(), out)
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(page))

	count := 0
	for _, f := range manifest.Files {
		if f.Path == "index.html" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExportRejectsOutputInsideAssets(t *testing.T) {
	assets := t.TempDir()

	_, err := newExporter(t, assets).Export(context.Background(), filepath.Join(assets, "dist"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestExportRejectsSystemDirectory(t *testing.T) {
	_, err := newExporter(t, t.TempDir()).Export(context.Background(), "/etc/vacuumassist")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "/etc/vacuumassist", apperrors.GetErrorContext(err)["path"])
}

func TestExportToParentRelativeDirectory(t *testing.T) {
	root := t.TempDir()
	work := filepath.Join(root, "site")
	require.NoError(t, os.MkdirAll(work, 0o755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	manifest, err := newExporter(t, "").Export(context.Background(), "../dist")
	require.NoError(t, err)
	require.Len(t, manifest.Files, 1)
	assert.FileExists(t, filepath.Join(root, "dist", "index.html"))
}

func TestExportUnreadableAssetsDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	writeFile(t, file, "x")

	_, err := newExporter(t, filepath.Join(file, "public")).Export(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeIO, apperrors.GetErrorType(err))
	assert.Contains(t, apperrors.FormatError(err), "path="+filepath.Join(file, "public"))
}

func TestExportContactAction(t *testing.T) {
	const remote = "https://app.vacuumassist.example/contact"

	exportWith := func(action string) (string, string) {
		var logs bytes.Buffer
		cfg := config.Default()
		cfg.Site.AssetsDir = ""
		cfg.Site.ContactAction = action
		logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelInfo, Format: "json", Output: &logs})

		out := t.TempDir()
		_, err := NewExporter(cfg, logger, WithClock(fixedNow)).Export(context.Background(), out)
		require.NoError(t, err)

		page, err := os.ReadFile(filepath.Join(out, "index.html"))
		require.NoError(t, err)
		return string(page), logs.String()
	}

	page, logs := exportWith("")
	assert.Contains(t, page, `action="/contact"`)
	assert.Contains(t, logs, `"level":"WARN"`)
	assert.Contains(t, logs, "site.contact_action")

	page, logs = exportWith(remote)
	assert.Contains(t, page, `action="`+remote+`"`)
	assert.NotContains(t, logs, "site.contact_action")
}

func TestExportHonoursCancellation(t *testing.T) {
	assets := t.TempDir()
	writeFile(t, filepath.Join(assets, "styles.css"), "body{}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newExporter(t, assets).Export(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, "").RenderTo(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Request demo")
}

func TestIsWithin(t *testing.T) {
	assert.True(t, isWithin("/srv/public", "/srv/public"))
	assert.True(t, isWithin("/srv/public/dist", "/srv/public"))
	assert.False(t, isWithin("/srv/publicity", "/srv/public"))
	assert.False(t, isWithin("/srv", "/srv/public"))
}
