package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pinspire/backend/internal/logger"
)

const (
	imagesSubdir = "images"
	videosSubdir = "videos"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Filesystem stores uploads on the local disk under a root directory,
// split into per-kind subdirectories. References are path-style URLs
// beginning with a fixed public prefix, suitable for serving as static
// files.
type Filesystem struct {
	root         string
	publicPrefix string
}

// NewFilesystem creates the backend rooted at root, creating the per-kind
// subdirectories if needed.
func NewFilesystem(root, publicPrefix string) (*Filesystem, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	for _, sub := range []string{imagesSubdir, videosSubdir} {
		if err := os.MkdirAll(filepath.Join(absRoot, sub), 0o750); err != nil {
			return nil, fmt.Errorf("create upload dir %q: %w", sub, err)
		}
	}
	return &Filesystem{
		root:         absRoot,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}, nil
}

func (f *Filesystem) Configured() bool { return true }

// sanitizeFilename strips directory components and any character outside
// a conservative safe set.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.FromSlash(name))
	name = unsafeNameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	return name
}

// abs resolves a root-relative path and verifies it stays under the root.
func (f *Filesystem) abs(rel string) (string, error) {
	joined := filepath.Join(f.root, filepath.Clean(filepath.FromSlash(rel)))
	r, err := filepath.Rel(f.root, joined)
	if err != nil || strings.HasPrefix(r, "..") {
		return "", fmt.Errorf("path %q escapes upload root", rel)
	}
	return joined, nil
}

// Store writes data under images/ or videos/ depending on the detected
// kind, using a temp-file + rename so a crashed write never leaves a
// partial file behind.
func (f *Filesystem) Store(ctx context.Context, data []byte, filename string, opts StoreOptions) (string, FileKind, error) {
	kind := Classify(filename)
	if kind == KindNone {
		return "", KindNone, fmt.Errorf("%w: file type not allowed: %q", ErrProviderRejected, filename)
	}

	name := sanitizeFilename(filename)
	if opts.UniqueID != "" {
		name = opts.UniqueID + "." + extension(filename)
	}
	if name == "" {
		return "", KindNone, fmt.Errorf("%w: empty filename after sanitizing", ErrProviderRejected)
	}

	sub := imagesSubdir
	if kind == KindVideo {
		sub = videosSubdir
	}

	dest, err := f.abs(filepath.Join(sub, name))
	if err != nil {
		return "", KindNone, err
	}

	// A per-store temp name keeps concurrent writes of the same
	// sanitized filename from interleaving.
	tmp, err := os.CreateTemp(filepath.Dir(dest), name+".*.tmp")
	if err != nil {
		return "", KindNone, fmt.Errorf("write upload: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", KindNone, fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", KindNone, fmt.Errorf("write upload: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o640); err != nil {
		os.Remove(tmp.Name())
		return "", KindNone, fmt.Errorf("write upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", KindNone, fmt.Errorf("finalize upload: %w", err)
	}

	logger.Log.Infow("file saved", "path", dest)
	return f.publicPrefix + "/" + sub + "/" + name, kind, nil
}

// Remove deletes the file behind a reference returned by Store. A missing
// file is logged and reported as an error, but callers treat that as
// non-fatal.
func (f *Filesystem) Remove(ctx context.Context, ref string) error {
	rel := strings.TrimPrefix(ref, f.publicPrefix)
	rel = strings.TrimPrefix(rel, "/")

	abs, err := f.abs(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if os.IsNotExist(err) {
			logger.Log.Warnw("file does not exist", "path", abs)
		}
		return fmt.Errorf("remove %q: %w", rel, err)
	}
	logger.Log.Infow("file deleted", "path", abs)
	return nil
}
