package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// FileKV persists each key as its own JSON document under dir. It backs
// the per-provider rate budgets so they survive process restarts.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{dir: dir}, nil
}

func (s *FileKV) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileKV) Get(key string, dst any) (bool, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileKV) Put(key string, v any) error {
	return writeJSONAtomic(s.path(key), v)
}
