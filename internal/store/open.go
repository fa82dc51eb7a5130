package store

import "fmt"

// Open constructs the persistence backend named by kind ("file" or
// "sqlite"). The caller owns the returned store and must Close it.
func Open(kind, path string, initialCash float64) (Store, error) {
	switch kind {
	case "file":
		return NewFileStore(path, initialCash), nil
	case "sqlite":
		return NewSQLiteStore(path, initialCash)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
