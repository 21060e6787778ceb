// Package assets provides AssetStore implementations backed by file systems,
// including assets embedded with go:embed.
package assets

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/reglet-dev/facemesh/domain/ports"
)

var _ ports.AssetStore = (*FSStore)(nil)

// FSStore serves bundled assets from an fs.FS.
type FSStore struct {
	fsys fs.FS
}

// NewFSStore creates a store over fsys.
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// NewDirStore creates a store over a directory on disk.
func NewDirStore(dir string) *FSStore {
	return NewFSStore(os.DirFS(dir))
}

// Sub returns a store rooted at dir inside the current one.
func (s *FSStore) Sub(dir string) (*FSStore, error) {
	sub, err := fs.Sub(s.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset directory %s: %w", dir, err)
	}
	return NewFSStore(sub), nil
}

// Open returns the named asset. Names are slash-separated and relative to
// the store root. Directories and invalid names report fs.ErrNotExist.
func (s *FSStore) Open(name string) (io.ReadCloser, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}
