package ukv

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/backend/badgerdb"
	"github.com/ukvdb/ukv/backend/memory"
	"github.com/ukvdb/ukv/backend/remote"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/internal/metrics"
	"github.com/ukvdb/ukv/internal/ukvlog"
	"github.com/ukvdb/ukv/txn"
)

// tracer emits spans around the batch operations (write, read, scan,
// size). Transaction commits are not traced.
var tracer = otel.Tracer("github.com/ukvdb/ukv")

// DB is one opened engine instance: a backend, its collection registry,
// and its transaction manager, bound together.
type DB struct {
	backend  backend.Backend
	registry *collection.Registry
	txns     *txn.Manager
	log      ukvlog.Logger
	metrics  *metrics.Metrics
	closed   atomic.Bool
}

// Open opens a DB from a JSON configuration string. An empty string opens
// an in-memory store with defaults.
func Open(configJSON string) (*DB, error) {
	cfg, err := parseConfig(configJSON)
	if err != nil {
		return nil, newError(KindUsage, "Open", err)
	}

	m := metrics.New()
	log := newLogger(cfg.LogLevel)

	var be backend.Backend
	switch cfg.Engine {
	case "", "memory":
		opts := []memory.Opt{memory.WithLogger(log)}
		if cfg.Cache > 0 {
			opts = append(opts, memory.WithCache(cfg.Cache))
		}
		be = memory.New(opts...)

	case "badger", "badgerdb":
		if cfg.Path == "" {
			return nil, newError(KindUsage, "Open", errMissingPath)
		}
		store, err := badgerdb.New(context.Background(), log, m.Registerer(), badgerdb.Options{
			Dir:       cfg.Path,
			CacheSize: cfg.Cache,
		})
		if err != nil {
			return nil, newError(KindIO, "Open", err)
		}
		be = store

	case "remote":
		if cfg.Path == "" {
			return nil, newError(KindUsage, "Open", errMissingPath)
		}
		client, err := remote.Dial(cfg.Path, remote.Options{})
		if err != nil {
			return nil, newError(KindIO, "Open", err)
		}
		be = client

	default:
		return nil, newError(KindUsage, "Open", errUnknownEngine(cfg.Engine))
	}

	return &DB{
		backend:  be,
		registry: collection.New(),
		txns:     txn.NewManager(be),
		log:      log,
		metrics:  m,
	}, nil
}

// Close releases the backend. Calling Close more than once is safe; only
// the first call does any work.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	return db.backend.Close()
}

// newLogger builds the ukvlog.Logger Open wires into every backend
// variant. An empty level keeps logging a no-op; any recognized level
// builds a real logrus.Logger at that severity instead.
func newLogger(level string) ukvlog.Logger {
	if level == "" {
		return ukvlog.NoOp()
	}
	l := logrus.New()
	switch level {
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return ukvlog.New(l)
}
