package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/getsentry/sentry-go"
	"github.com/omiri/backend/internal/infrastructure/logger"
	log "github.com/sirupsen/logrus"
)

// maxValueSize bounds a single preference record
const maxValueSize = 1 << 20

// ErrClosed is returned when the database is used after Close
var ErrClosed = errors.New("preference database is closed")

// BadgerBackend is a Backend persisted in BadgerDB
type BadgerBackend struct {
	db       *badger.DB
	path     string
	hub      *sentry.Hub
	closed   bool
	mutex    sync.RWMutex
	cancelGC context.CancelFunc
}

// NewBadgerBackend creates a backend for the database at path. Call Open before use.
func NewBadgerBackend(path string, hub *sentry.Hub) *BadgerBackend {
	return &BadgerBackend{path: path, hub: hub}
}

// Open opens the database and starts value-log garbage collection
func (b *BadgerBackend) Open() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.db != nil {
		return nil
	}

	opts := badger.DefaultOptions(b.path)
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20
	opts.MemTableSize = 4 << 20
	// Badger rejects thresholds above 15% of MemTableSize.
	opts.ValueThreshold = 64 << 10
	opts.NumMemtables = 2
	opts.NumLevelZeroTables = 2
	opts.NumLevelZeroTablesStall = 3
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		logger.LogAndCapture(b.hub, err, "Failed to open preference database", map[string]interface{}{
			"path": b.path,
		})
		return err
	}
	b.db = db
	b.closed = false

	ctx, cancel := context.WithCancel(context.Background())
	b.cancelGC = cancel
	go b.valueLogGCWorker(ctx)

	log.WithField("path", b.path).Info("Preference database opened")
	return nil
}

func (b *BadgerBackend) valueLogGCWorker(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.mutex.RLock()
			if b.closed || b.db == nil {
				b.mutex.RUnlock()
				return
			}
			err := b.db.RunValueLogGC(0.7)
			b.mutex.RUnlock()

			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
				log.Warnf("Preference value log GC failed: %v", err)
			}
		}
	}
}

// Get reads the value stored under key
func (b *BadgerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if b.closed || b.db == nil {
		return nil, ErrClosed
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.LogAndCapture(b.hub, err, "Failed to read preference", map[string]interface{}{
			"key": key,
		})
		return nil, err
	}

	return value, nil
}

// Put writes value under key
func (b *BadgerBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(value) > maxValueSize {
		return fmt.Errorf("preference %s too large: %d bytes", key, len(value))
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if b.closed || b.db == nil {
		return ErrClosed
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		logger.LogAndCapture(b.hub, err, "Failed to write preference", map[string]interface{}{
			"key":  key,
			"size": len(value),
		})
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}

	return nil
}

// Close stops garbage collection and closes the database
func (b *BadgerBackend) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.db == nil {
		return nil
	}

	b.closed = true
	if b.cancelGC != nil {
		b.cancelGC()
	}

	err := b.db.Close()
	b.db = nil

	if err != nil {
		logger.LogAndCapture(b.hub, err, "Failed to close preference database", nil)
		return err
	}

	log.Info("Preference database closed")
	return nil
}
