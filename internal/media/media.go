// Package media stores accepted profile pictures in a flat directory and
// serves them back over HTTP.
//
// ATOMIC WRITES:
// Save writes into a hidden temp file in the same directory and renames it
// into place. rename(2) within one directory is atomic, so a reader of
// /media/<name> sees either nothing or the complete file, never a prefix.
// Every final name is unique (see package upload), so writes never need to
// coordinate with each other.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// ErrInvalidName is returned for names that would escape the media directory.
var ErrInvalidName = errors.New("media: invalid file name")

// Store is a media directory on the local filesystem.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New returns a Store rooted at dir, creating the directory if it is absent.
// Calling New on an existing directory is a no-op.
func New(dir string, logger *slog.Logger) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("media: resolving %s: %w", dir, err)
	}
	// 0755 = owner can read/write/execute, others can read/execute.
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("media: creating %s: %w", abs, err)
	}
	return &Store{dir: abs, logger: logger}, nil
}

// Dir returns the absolute directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under name. An existing file with the same name is replaced.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// O_EXCL: the xid name is unique, and a collision must fail rather than
	// share a file with another writer.
	tmpName := filepath.Join(s.dir, "."+xid.New().String()+".tmp")
	tmp, err := os.OpenFile(tmpName, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("media: creating temp file: %w", err)
	}

	// Remove the temp file on any failure path; after a successful rename
	// there is nothing left at tmpName and Remove just returns ENOENT.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("media: writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("media: closing %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("media: publishing %s: %w", name, err)
	}

	s.logger.Debug("media file saved",
		slog.String("name", name),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// Open reads a stored file back.
func (s *Store) Open(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, name))
}

// Handler serves the directory's files. Mount it with the URL prefix stripped:
//
//	r.Handle("/media/*", http.StripPrefix("/media/", store.Handler()))
//
// Hidden temp files (leading dot) are never served.
func (s *Store) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" || strings.HasPrefix(name, ".") || strings.Contains(name, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
