// Package store persists named scene documents.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/quasilyte/gdata/v2"
)

var (
	ErrNotFound    = errors.New("stored data not found")
	ErrInvalidName = errors.New("invalid store name")
)

var validName = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Store loads and saves whole documents by name. A name that was never
// saved loads as ErrNotFound.
type Store interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
}

func checkName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// FileStore keeps each document as <dir>/<name>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func (s *FileStore) Load(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path(name))
	}
	return data, err
}

// Save writes through a temporary file so a crash never leaves a truncated
// document behind.
func (s *FileStore) Save(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

const gdataProperty = "json"

// GdataStore keeps documents in the per-user application data directory
// managed by gdata, one object per name.
type GdataStore struct {
	m *gdata.Manager
}

func NewGdataStore(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return &GdataStore{m: m}, nil
}

func (s *GdataStore) Load(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if !s.m.ObjectPropExists(name, gdataProperty) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	data, err := s.m.LoadObjectProp(name, gdataProperty)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

func (s *GdataStore) Save(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.m.SaveObjectProp(name, gdataProperty, data); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
