// Package fsio reads and writes editor files on the local filesystem.
package fsio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// DefaultMaxFileBytes caps how much a single tab may load.
const DefaultMaxFileBytes int64 = 4 << 20

// Options configures a Store.
type Options struct {
	MaxFileBytes int64
	Logger       pslog.Logger
}

// Store implements the session's file collaborator over the local disk.
type Store struct {
	maxBytes int64
	log      pslog.Logger
}

// New constructs a Store.
func New(opts Options) *Store {
	maxBytes := opts.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	return &Store{maxBytes: maxBytes, log: opts.Logger}
}

// ReadFile loads a text file. Directories, oversized files and binary
// content are refused.
func (s *Store) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", schema.ErrNotFound, path)
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", schema.ErrNotRegularFile, path)
	}
	if info.Size() > s.maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes (max %d)", schema.ErrFileTooLarge, path, info.Size(), s.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > 0 {
		if mtype := mimetype.Detect(data); !isText(mtype) {
			return "", fmt.Errorf("%w: %s (%s)", schema.ErrBinaryContent, path, mtype.String())
		}
	}
	if s.log != nil {
		s.log.Trace("fsio read ok", "path", path, "bytes", len(data))
	}
	return string(data), nil
}

// WriteFile atomically replaces path with content, keeping the existing
// file mode. The parent directory must exist.
func (s *Store) WriteFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%w: %s", schema.ErrNotRegularFile, path)
		}
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if s.log != nil {
		s.log.Trace("fsio write ok", "path", path, "bytes", len(content))
	}
	return nil
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") || strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return false
}
