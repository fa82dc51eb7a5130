// Package store persists the paper portfolio between scheduled runs.
// Single-writer, load-then-store: the runner loads at start, saves at end,
// and never writes partial state.
package store

import (
	"fmt"

	"nifty-signals/internal/model"
)

// Store is the persistence contract for the paper portfolio. Load returns a
// fresh portfolio when no prior state exists; Save must be all-or-nothing.
type Store interface {
	Load() (*model.Portfolio, error)
	Save(p *model.Portfolio) error
	Close() error
}

// PersistenceError wraps any state load/save failure. Fatal for the
// invocation: the caller must abort before mutating stored state.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("portfolio %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
