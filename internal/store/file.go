package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"nifty-signals/internal/model"
)

// FileStore keeps the portfolio as a single JSON document. Writes go through
// a temp file and rename so a crash mid-save leaves the prior state intact.
type FileStore struct {
	path        string
	initialCash float64
}

func NewFileStore(path string, initialCash float64) *FileStore {
	return &FileStore{path: path, initialCash: initialCash}
}

func (s *FileStore) Load() (*model.Portfolio, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.NewPortfolio(s.initialCash), nil
		}
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	var p model.Portfolio
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	if p.Holdings == nil {
		p.Holdings = map[string]model.Holding{}
	}
	return &p, nil
}

func (s *FileStore) Save(p *model.Portfolio) error {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".portfolio-*.json")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
