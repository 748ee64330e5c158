package store

import (
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendSQLite, BackendFile, BackendMemory}
}

// Open returns the backend named by backend rooted at dir.
// The memory backend ignores dir.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSQLite, "":
		return OpenSQLite(dir, DefaultOptions())
	case BackendFile:
		return OpenFileStore(dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
	}
}
