// ABOUTME: Copies selected files flat into an export directory under their resolved names
// ABOUTME: Each copy lands via a temp .part file and rename; the first failure aborts the export

// Package export prepares a portable copy of a playlist's files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"playlist-maker/logging"
)

// DirPermissions is used when creating the export directory
const DirPermissions = 0o755

// DirectoryCreateError is returned when the export directory cannot be created
type DirectoryCreateError struct {
	Dir string
	Err error
}

func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryCreateError) Unwrap() error { return e.Err }

// FileCopyError is returned when copying one file fails
type FileCopyError struct {
	Source string // Absolute source path
	Dest   string // Destination filename
	Err    error
}

func (e *FileCopyError) Error() string {
	return fmt.Sprintf("failed to copy %s -> %s: %v", e.Source, e.Dest, e.Err)
}

func (e *FileCopyError) Unwrap() error { return e.Err }

// Observer is told about each copy. Either method may be a no-op.
type Observer interface {
	CopyStarted(index, total int, a Assignment)
	CopyFinished(index, total int, a Assignment, bytes int64)
}

// Exporter copies mapped files into a directory
type Exporter struct {
	observer Observer
}

// New returns an Exporter reporting to obs, which may be nil
func New(obs Observer) *Exporter {
	return &Exporter{observer: obs}
}

// CreateDir creates dir and its parents. An existing directory is fine.
func CreateDir(dir string) error {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return &DirectoryCreateError{Dir: dir, Err: err}
	}

	return nil
}

// Export creates destDir if needed and copies every assignment into it.
// Files copied before a failure are left in place.
func (e *Exporter) Export(m *Mapping, destDir string) error {
	if err := CreateDir(destDir); err != nil {
		return err
	}

	total := m.Len()

	for i, a := range m.Assignments {
		if e.observer != nil {
			e.observer.CopyStarted(i+1, total, a)
		}

		n, err := copyFile(a.File.Path, destDir, a.Name)
		if err != nil {
			return &FileCopyError{Source: a.File.Path, Dest: a.Name, Err: err}
		}

		logging.Debug("Copied %s -> %s (%d bytes)", a.File.Path, a.Name, n)

		if e.observer != nil {
			e.observer.CopyFinished(i+1, total, a, n)
		}
	}

	return nil
}

// copyFile copies src to destDir/name through a uniquely named temp file
func copyFile(src, destDir, name string) (written int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	tmpPath := filepath.Join(destDir, "."+name+"."+uuid.NewString()+".part")

	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	written, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return 0, err
	}

	dest := filepath.Join(destDir, name)
	if err = os.Rename(tmpPath, dest); err != nil {
		return 0, err
	}

	if err := os.Chtimes(dest, time.Now(), info.ModTime()); err != nil {
		logging.Warn("Could not keep modification time on %s: %v", dest, err)
	}

	return written, nil
}

// IsCopyError reports whether err came from a failed copy or directory creation
func IsCopyError(err error) bool {
	var dirErr *DirectoryCreateError
	var copyErr *FileCopyError

	return errors.As(err, &dirErr) || errors.As(err, &copyErr)
}
