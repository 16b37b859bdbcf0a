package store

import "fmt"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates the KV backend named by backend at path. An empty path uses
// the backend's default location under ~/.nebula.
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", BackendFile:
		kv, err := NewFileKV(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendSQLite:
		kv, err := NewSQLiteKV(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendFile, BackendSQLite)
	}
}
