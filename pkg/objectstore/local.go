package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

var ErrOutsideRoot = errors.New("object path escapes store root")

// LocalStore serves objects from a directory on disk. It mirrors the layout
// the upload side writes under UPLOADS_PATH.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := filepath.Join(s.root, filepath.Clean("/"+path))
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return nil, errors.Wrap(err, "resolve store root")
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return nil, errors.Wrap(err, "resolve object path")
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return nil, ErrOutsideRoot
	}

	data, err := os.ReadFile(fullAbs)
	if err != nil {
		return nil, errors.Wrap(err, "read object")
	}
	return data, nil
}
