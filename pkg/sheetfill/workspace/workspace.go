// Package workspace manages the per-run scratch directory that a document
// bundle is unpacked into.
package workspace

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Directory permissions
const (
	DefaultDirPerm  = 0o750
	DefaultFilePerm = 0o640
)

// ErrUnsafePath indicates an archive entry that would escape the workspace.
var ErrUnsafePath = errors.New("archive entry escapes workspace")

// Workspace is an isolated directory owned by a single run.
type Workspace struct {
	RunID string
	dir   string
	roots []string
}

// New creates a fresh workspace under base (os.TempDir() when empty).
// Concurrent runs never share a directory.
func New(base string) (*Workspace, error) {
	runID := uuid.NewString()
	dir, err := os.MkdirTemp(base, "sheetfill-"+runID[:8]+"-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{RunID: runID, dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// Close removes the workspace and everything extracted into it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.dir)
}

// AddBundle makes a document bundle available to the run. A .zip archive is
// extracted into the workspace; a directory is used in place.
func (w *Workspace) AddBundle(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("bundle: %w", err)
	}
	if info.IsDir() {
		w.roots = append(w.roots, path)
		return nil
	}
	dest := filepath.Join(w.dir, fmt.Sprintf("bundle-%d", len(w.roots)))
	if err := Extract(path, dest); err != nil {
		return err
	}
	w.roots = append(w.roots, dest)
	return nil
}

// Files lists every regular file of the added bundles, recursively, in
// directory traversal order.
func (w *Workspace) Files() ([]string, error) {
	var files []string
	for _, root := range w.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list bundle files: %w", err)
		}
	}
	return files, nil
}

// Extract unpacks a zip archive into dest.
func Extract(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		r.Close()
		return fmt.Errorf("%w: %v", ErrUnsafePath, err)
	}
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(dest, DefaultDirPerm); err != nil {
		return err
	}
	for _, f := range r.File {
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	target, err := safeJoin(dest, f.Name)
	if err != nil {
		return err
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, DefaultDirPerm)
	}
	if !f.Mode().IsRegular() {
		// Symlinks and devices are never followed.
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), DefaultDirPerm); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, DefaultFilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}

// safeJoin joins an archive entry name to dest, rejecting names that
// resolve outside dest.
func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	cleanDest := filepath.Clean(dest)
	target := filepath.Join(cleanDest, name)
	rel, err := filepath.Rel(cleanDest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}
