package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes images under Dir and hands out references of the form
// "uploads/<file>", which the server exposes at /uploads.
type LocalStore struct {
	Dir    string
	Prefix string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{Dir: dir, Prefix: "uploads"}, nil
}

func (s *LocalStore) Save(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	name := objectName(filename)
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path.Join(s.Prefix, name), nil
}

// Delete removes the file behind ref. Unknown or foreign references are ignored.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, s.Prefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// objectName keeps the upload's extension and replaces the rest with a random id.
func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
