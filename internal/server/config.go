package server

import (
	"log/slog"
	"time"

	"github.com/cypherswwayinc/phishguardlite/internal/scoring"
	"github.com/cypherswwayinc/phishguardlite/internal/store"
)

const (
	// DefaultListenAddr is the address used when Config.ListenAddr is empty.
	DefaultListenAddr = "127.0.0.1:8080"

	// DefaultMaxBodyBytes caps request bodies.
	DefaultMaxBodyBytes int64 = 1 << 20

	// DefaultListLimit is the page size of the admin list endpoints.
	DefaultListLimit = 200
)

// Config configures a Server.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string

	// Store keeps reports and serves digests. Required.
	Store store.Store

	// Scorer scores submitted URLs. Nil uses scoring.NewScorer().
	Scorer *scoring.Scorer

	// Concurrency bounds the links scored at once by /scan.
	Concurrency int

	// MaxBodyBytes caps request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Logger receives request and error logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Now stamps intake and health responses. Nil uses time.Now.
	Now func() time.Time
}
