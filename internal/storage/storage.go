// Package storage defines the pluggable backend for persisting uploaded
// binary content, independent of the relational store. Swap
// implementations by changing the concrete type injected at startup:
// Filesystem writes under a local directory, S3 targets any S3-compatible
// provider, Cloudinary targets the Cloudinary media API.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// FileKind classifies uploaded content by filename extension.
type FileKind string

const (
	KindImage FileKind = "image"
	KindVideo FileKind = "video"
	// KindNone means the extension is missing or not in the allow-set;
	// callers must treat it as rejection.
	KindNone FileKind = ""
)

var (
	// ErrUnconfigured indicates the backend lacks required credentials or
	// paths. Callers should check Configured() first and degrade the
	// upload feature rather than attempt a Store.
	ErrUnconfigured = errors.New("storage backend not configured")

	// ErrTransport indicates a network-level failure talking to a remote
	// provider, after the single raw-HTTP fallback attempt.
	ErrTransport = errors.New("storage transport failure")

	// ErrProviderRejected indicates the provider answered but refused the
	// operation.
	ErrProviderRejected = errors.New("storage provider rejected request")
)

// StoreOptions carries optional parameters for Store.
type StoreOptions struct {
	// UniqueID, when set, is preferred over the original filename for
	// deriving the stored object's name, avoiding collisions between
	// uploads that share a filename.
	UniqueID string
}

// Backend is the capability interface for blob persistence.
type Backend interface {
	// Configured reports whether the backend has everything it needs to
	// accept uploads.
	Configured() bool

	// Store persists data under a name derived from filename and opts and
	// returns a caller-resolvable reference (URL or path) together with
	// the detected file kind.
	Store(ctx context.Context, data []byte, filename string, opts StoreOptions) (string, FileKind, error)

	// Remove deletes the object behind a reference previously returned by
	// Store.
	Remove(ctx context.Context, ref string) error
}

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

var videoExtensions = map[string]bool{
	"mp4":  true,
	"mov":  true,
	"webm": true,
}

// extension returns the lowercased extension of filename without the dot,
// or "" if there is none.
func extension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedFile reports whether the filename carries an extension from
// the fixed allow-set.
func IsAllowedFile(filename string) bool {
	ext := extension(filename)
	return imageExtensions[ext] || videoExtensions[ext]
}

// Classify maps a filename to its FileKind, KindNone when the extension
// is missing or not allowed.
func Classify(filename string) FileKind {
	ext := extension(filename)
	switch {
	case imageExtensions[ext]:
		return KindImage
	case videoExtensions[ext]:
		return KindVideo
	default:
		return KindNone
	}
}

// Unconfigured is the inert backend used when the selected backend's
// credentials are absent: it refuses every operation with ErrUnconfigured
// so the upload feature degrades instead of crashing.
type Unconfigured struct{}

func (Unconfigured) Configured() bool { return false }

func (Unconfigured) Store(context.Context, []byte, string, StoreOptions) (string, FileKind, error) {
	return "", KindNone, ErrUnconfigured
}

func (Unconfigured) Remove(context.Context, string) error {
	return ErrUnconfigured
}
