// Package filesystem writes artifacts into an output directory.
package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/output"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
	tmpSuffix       = ".tmp"
)

// Writer stores each artifact at Dir/<name>. A previous artifact with the
// same name is replaced only once the new bytes are fully on disk.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter returns a Writer rooted at dir. The directory is created on the
// first Load.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Load writes doc to a temp file next to its target and renames it into place.
func (w *Writer) Load(ctx context.Context, doc output.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, dirPermissions); err != nil {
		return fmt.Errorf("create output dir %s: %w: %w", w.dir, domain.ErrEmitterWrite, err)
	}

	target := filepath.Join(w.dir, doc.Name())
	tmp := target + tmpSuffix
	if err := os.WriteFile(tmp, doc.Bytes(), filePermissions); err != nil {
		return fmt.Errorf("write %s: %w: %w", tmp, domain.ErrEmitterWrite, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			w.logger.Warn("failed to remove temp artifact", "path", tmp, "error", rmErr)
		}
		return fmt.Errorf("rename %s: %w: %w", target, domain.ErrEmitterWrite, err)
	}

	w.logger.Debug("artifact written", "path", target, "bytes", len(doc.Bytes()))
	return nil
}
