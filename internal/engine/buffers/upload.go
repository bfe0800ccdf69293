package buffers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Uploader receives encoded buffers. Ownership of Data passes to it.
type Uploader interface {
	Upload(b Buffer) error
}

// UploadAll uploads buffers in order and joins any failures.
func UploadAll(u Uploader, bufs ...Buffer) error {
	var errs []error
	for _, b := range bufs {
		if err := u.Upload(b); err != nil {
			errs = append(errs, fmt.Errorf("uploading %s: %w", b.Name, err))
		}
	}
	return errors.Join(errs...)
}

// DirWriter is a headless Uploader that writes each buffer to
// <dir>/<name>.bin.
type DirWriter struct {
	dir string
}

// NewDirWriter creates dir if needed. A leading ~ is expanded.
func NewDirWriter(dir string) (*DirWriter, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("expanding output dir: %w", err)
	}
	if err := os.MkdirAll(expanded, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	return &DirWriter{dir: expanded}, nil
}

// Path returns the file a buffer with the given name is written to.
func (w *DirWriter) Path(name string) string {
	return filepath.Join(w.dir, name+".bin")
}

// Upload implements Uploader.
func (w *DirWriter) Upload(b Buffer) error {
	return os.WriteFile(w.Path(b.Name), b.Data, 0644)
}
