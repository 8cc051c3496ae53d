// Package bundle merges static web assets into a build output directory,
// producing the final deployable bundle.
//
// The merge only accepts a build.Artifact, so it cannot run before a
// successful compile. Files are copied non-recursively with
// overwrite-by-name semantics; the destination is never created here, since
// a missing destination means the build did not actually run.
package bundle

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wasmkit/wasmbundle/build"
	"github.com/wasmkit/wasmbundle/errors"
)

// DefaultAssetDir is the conventional directory of web-facing files
// merged into the bundle.
const DefaultAssetDir = "web"

// Merger copies static assets into build artifacts.
type Merger struct {
	log *zap.Logger
}

// NewMerger creates a merger. A nil logger disables logging.
func NewMerger(log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{log: log}
}

// Merge copies every regular file in assetDir into the artifact directory,
// overwriting same-named files. Subdirectories are skipped. It returns the
// names of the files copied; an empty asset directory copies nothing and is
// not an error.
func (m *Merger) Merge(ctx context.Context, art *build.Artifact, assetDir string) ([]string, error) {
	info, err := os.Stat(assetDir)
	if err != nil || !info.IsDir() {
		return nil, errors.MissingDir(errors.PhaseMerge, assetDir)
	}

	// The artifact dir was produced by the build step, but guard against
	// it having been removed between steps; creating it here would mask a
	// failed build.
	if info, err = os.Stat(art.Dir); err != nil || !info.IsDir() {
		return nil, errors.NotCreated(errors.PhaseMerge, art.Dir)
	}

	entries, err := os.ReadDir(assetDir)
	if err != nil {
		return nil, errors.IO(errors.PhaseMerge, assetDir, err)
	}

	var copied []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return copied, errors.Canceled(errors.PhaseMerge, err)
		}

		name := e.Name()
		src := filepath.Join(assetDir, name)
		dst := filepath.Join(art.Dir, name)
		if err := copyFile(src, dst); err != nil {
			return copied, err
		}
		copied = append(copied, name)
		m.log.Debug("asset merged", zap.String("file", name))
	}

	m.log.Info("assets merged",
		zap.Int("count", len(copied)),
		zap.String("dest", art.Dir))
	return copied, nil
}

func copyFile(src, dst string) error {
	s, err := os.Open(src)
	if err != nil {
		return errors.IO(errors.PhaseMerge, src, err)
	}
	defer s.Close()

	d, err := os.Create(dst)
	if err != nil {
		return errors.IO(errors.PhaseMerge, dst, err)
	}

	if _, err := io.Copy(d, s); err != nil {
		d.Close()
		return errors.IO(errors.PhaseMerge, dst, err)
	}
	if err := d.Close(); err != nil {
		return errors.IO(errors.PhaseMerge, dst, err)
	}
	return nil
}
