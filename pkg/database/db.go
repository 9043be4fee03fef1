package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/metrics"
)

// SeedFunc builds the default document written on first run and on reset.
type SeedFunc[T any] func() (*T, error)

// DB guards a Store with a single in-process write lock so concurrent
// read-modify-write cycles cannot lose each other's updates.
type DB[T any] struct {
	store Store[T]
	seed  SeedFunc[T]
	mu    sync.Mutex
}

// New wraps store. seed is called whenever no document exists yet.
func New[T any](store Store[T], seed SeedFunc[T]) *DB[T] {
	return &DB[T]{store: store, seed: seed}
}

// Init makes sure a readable document exists. A missing document is seeded;
// a corrupt one is quarantined (when the driver supports it) and then seeded.
func (db *DB[T]) Init(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	log := logger.Component("database")

	_, err := db.load(ctx)
	switch {
	case err == nil:
		log.Info("document loaded")
		return nil
	case errors.Is(err, ErrNoDocument):
		log.Info("no document found, writing seed")
	case errors.Is(err, ErrCorrupt):
		log.Warn("document is corrupt, re-initialising", "error", err)
		if q, ok := db.store.(Quarantiner); ok {
			moved, qerr := q.Quarantine(ctx)
			if qerr != nil {
				return storageErr("quarantine", qerr)
			}
			log.Warn("corrupt document moved aside", "path", moved)
		}
	default:
		return storageErr("load", err)
	}

	doc, err := db.seed()
	if err != nil {
		return storageErr("seed", err)
	}
	return db.save(ctx, doc)
}

// View loads the current document and passes it to fn. fn must not retain
// or mutate the document. A missing document reads as the seed; it is only
// persisted by the next Update.
func (db *DB[T]) View(ctx context.Context, fn func(doc *T) error) error {
	doc, err := db.load(ctx)
	if errors.Is(err, ErrNoDocument) {
		doc, err = db.seed()
	}
	if err != nil {
		return storageErr("load", err)
	}
	return fn(doc)
}

// Update loads the document, applies fn and saves the result while holding
// the write lock. If fn returns an error nothing is written.
func (db *DB[T]) Update(ctx context.Context, fn func(doc *T) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	doc, err := db.load(ctx)
	if errors.Is(err, ErrNoDocument) {
		doc, err = db.seed()
	}
	if err != nil {
		return storageErr("load", err)
	}

	if err := fn(doc); err != nil {
		return err
	}

	return db.save(ctx, doc)
}

// Reset replaces the stored document with a fresh seed. It returns the
// document that was replaced (nil if there was none or it was unreadable)
// and the seed that was written.
func (db *DB[T]) Reset(ctx context.Context) (previous, current *T, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	previous, err = db.load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoDocument) && !errors.Is(err, ErrCorrupt) {
			return nil, nil, storageErr("load", err)
		}
		previous = nil
	}

	current, err = db.seed()
	if err != nil {
		return nil, nil, storageErr("seed", err)
	}
	if err := db.save(ctx, current); err != nil {
		return nil, nil, err
	}
	return previous, current, nil
}

// Close closes the underlying driver.
func (db *DB[T]) Close() error {
	return db.store.Close()
}

func (db *DB[T]) load(ctx context.Context) (*T, error) {
	defer metrics.ObserveStoreOp("load", time.Now())
	return db.store.Load(ctx)
}

func (db *DB[T]) save(ctx context.Context, doc *T) error {
	defer metrics.ObserveStoreOp("save", time.Now())
	if err := db.store.Save(ctx, doc); err != nil {
		return storageErr("save", err)
	}
	return nil
}
