// Package badgerstore persists the engine snapshot in an embedded Badger
// database under a fixed key.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/ohrn/loghive-go/internal/telemetry/logger"
)

// stateKey is the single key the snapshot lives under.
var stateKey = []byte("loghive/state")

// Config configures the Badger store.
type Config struct {
	// Dir is the database directory.
	Dir string

	// SyncWrites forces fsync on every save.
	SyncWrites bool

	// Logger receives Badger's internal log output.
	Logger logger.Logger
}

// Store is a Badger-backed snapshot store.
type Store struct {
	db *badger.DB
}

// New opens (or creates) the database.
func New(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badgerstore: dir is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = &badgerLogger{logger: cfg.Logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open db: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the stored snapshot, or (nil, nil) when none exists.
func (s *Store) Load(_ context.Context) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badgerstore: load: %w", err)
	}
	return value, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(_ context.Context, state []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey, state)
	})
	if err != nil {
		return fmt.Errorf("badgerstore: save: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger adapts logger.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
