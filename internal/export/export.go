// Package export writes the page as a static site: index.html in its initial
// Editing state plus a copy of the assets directory.
package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/conneroisu/vacuumassist/internal/components"
	"github.com/conneroisu/vacuumassist/internal/config"
	"github.com/conneroisu/vacuumassist/internal/contact"
	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/renderer"
	"github.com/conneroisu/vacuumassist/internal/validation"
	"github.com/conneroisu/vacuumassist/internal/version"
)

// ManifestName is the file listing everything an export wrote.
const ManifestName = "manifest.json"

// FileEntry describes one exported file.
type FileEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Hash string `json:"hash"`
}

// Manifest records an export for deployment tooling.
type Manifest struct {
	Version   string      `json:"version"`
	BuildTime time.Time   `json:"build_time"`
	Files     []FileEntry `json:"files"`
}

// Exporter renders the page and copies assets into an output directory.
type Exporter struct {
	renderer      *renderer.PageRenderer
	assetsDir     string
	contactAction string
	logger        logging.Logger
	now           func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock replaces the time source used for the footer year and manifest.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// NewExporter creates an exporter for the site described by cfg.
func NewExporter(cfg *config.Config, logger logging.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	e := &Exporter{
		assetsDir:     cfg.Site.AssetsDir,
		contactAction: cfg.Site.ContactAction,
		logger:        logger.WithComponent("export"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.renderer = renderer.NewPageRenderer(cfg.Site,
		renderer.WithClock(e.now),
		renderer.WithContactAction(e.contactAction))
	return e
}

// RenderTo writes the initial page to w.
func (e *Exporter) RenderTo(ctx context.Context, w io.Writer) error {
	return e.renderer.RenderPage(ctx, w, contact.Snapshot{})
}

// Export writes index.html, the assets and a manifest into outputDir.
func (e *Exporter) Export(ctx context.Context, outputDir string) (*Manifest, error) {
	if err := validation.ValidatePath(outputDir); err != nil {
		return nil, apperrors.ErrInvalidPath(outputDir, err)
	}
	if e.assetsDir != "" && isWithin(outputDir, e.assetsDir) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidPath,
			"output directory must not be inside the assets directory").
			WithContext("output", outputDir).
			WithContext("assets", e.assetsDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, exportError(err, "failed to create output directory", outputDir)
	}
	if e.contactAction == "" {
		e.logger.Warn(ctx, nil, "Exported contact form posts to "+components.ContactPath+
			", which a static host does not serve; set site.contact_action to the live server's contact URL",
			"output", outputDir)
	}

	manifest := &Manifest{
		Version:   version.GetVersion(),
		BuildTime: e.now().UTC(),
	}

	if err := e.copyAssets(ctx, outputDir, manifest); err != nil {
		return nil, err
	}

	entry, err := e.writePage(ctx, outputDir)
	if err != nil {
		return nil, err
	}
	manifest.Files = append(manifest.Files, entry)

	sort.Slice(manifest.Files, func(i, j int) bool { return manifest.Files[i].Path < manifest.Files[j].Path })

	if err := writeManifest(outputDir, manifest); err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "Static export complete",
		"output", outputDir,
		"files", len(manifest.Files))

	return manifest, nil
}

func (e *Exporter) writePage(ctx context.Context, outputDir string) (FileEntry, error) {
	path := filepath.Join(outputDir, "index.html")

	f, err := os.Create(path)
	if err != nil {
		return FileEntry{}, exportError(err, "failed to create index.html", path)
	}
	defer f.Close()

	hash := sha256.New()
	counter := &countingWriter{}
	if err := e.RenderTo(ctx, io.MultiWriter(f, hash, counter)); err != nil {
		return FileEntry{}, err
	}
	if err := f.Close(); err != nil {
		return FileEntry{}, exportError(err, "failed to write index.html", path)
	}

	return FileEntry{
		Path: "index.html",
		Size: counter.n,
		Hash: shortHash(hash.Sum(nil)),
	}, nil
}

// copyAssets mirrors the assets directory, skipping dotfiles and any
// index.html that would shadow the page. A missing assets directory is not
// an error.
func (e *Exporter) copyAssets(ctx context.Context, outputDir string, manifest *Manifest) error {
	if e.assetsDir == "" {
		return nil
	}
	if _, err := os.Stat(e.assetsDir); err != nil {
		if os.IsNotExist(err) {
			e.logger.Debug(ctx, "Assets directory not found, exporting page only", "assets", e.assetsDir)
			return nil
		}
		return apperrors.NewIOError(apperrors.ErrCodeExportFailed, "cannot access assets directory", err).
			WithContext("path", e.assetsDir)
	}

	return filepath.WalkDir(e.assetsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return exportError(err, "failed to read assets", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(e.assetsDir, path)
		if err != nil {
			return exportError(err, "failed to resolve asset path", path)
		}
		if rel == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if rel == "index.html" {
			e.logger.Warn(ctx, nil, "Skipping index.html in assets directory", "path", path)
			return nil
		}

		dest := filepath.Join(outputDir, rel)
		if d.IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return exportError(err, "failed to create asset directory", dest)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		entry, err := copyFile(path, dest)
		if err != nil {
			return err
		}
		entry.Path = filepath.ToSlash(rel)
		manifest.Files = append(manifest.Files, entry)
		return nil
	})
}

func copyFile(src, dst string) (FileEntry, error) {
	in, err := os.Open(src)
	if err != nil {
		return FileEntry{}, exportError(err, "failed to open asset", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return FileEntry{}, exportError(err, "failed to create asset", dst)
	}
	defer out.Close()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(out, hash), in)
	if err != nil {
		return FileEntry{}, exportError(err, "failed to copy asset", src)
	}
	if err := out.Close(); err != nil {
		return FileEntry{}, exportError(err, "failed to write asset", dst)
	}

	return FileEntry{Size: n, Hash: shortHash(hash.Sum(nil))}, nil
}

func writeManifest(outputDir string, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return apperrors.WrapInternal(err, apperrors.ErrCodeExportFailed, "failed to encode manifest")
	}
	path := filepath.Join(outputDir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return exportError(err, "failed to write manifest", path)
	}
	return nil
}

func exportError(err error, msg, path string) error {
	return apperrors.WrapIO(err, apperrors.ErrCodeExportFailed, msg).WithContext("path", path)
}

// shortHash keeps the first 12 hex characters of a digest.
func shortHash(sum []byte) string {
	return hex.EncodeToString(sum)[:12]
}

// isWithin reports whether path equals root or lies below it.
func isWithin(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
