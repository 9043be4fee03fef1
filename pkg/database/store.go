// Package database persists the storefront document.
//
// The whole document is read before and written after every mutation; there
// are no partial updates. A Store driver knows how to load and save one
// document, and DB serialises read-modify-write cycles on top of it:
//
//	db := database.New(store, models.Seed)
//	err := db.Update(ctx, func(doc *models.Document) error {
//	    doc.Analytics.Visitors++
//	    return nil
//	})
package database

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoDocument is returned by Store.Load when nothing has been saved yet.
	ErrNoDocument = errors.New("database: no document")

	// ErrCorrupt is returned by Store.Load when the stored bytes do not decode.
	ErrCorrupt = errors.New("database: corrupt document")

	// ErrStorage wraps every load/save failure surfaced to callers.
	ErrStorage = errors.New("database: storage failure")
)

// Store is the persistence driver interface for a single document of type T.
type Store[T any] interface {
	// Load reads the full document. Returns ErrNoDocument or ErrCorrupt
	// (possibly wrapped) for the two recoverable failure modes.
	Load(ctx context.Context) (*T, error)

	// Save replaces the full document.
	Save(ctx context.Context, doc *T) error

	// Close releases driver resources.
	Close() error
}

// Quarantiner is implemented by drivers that can move an undecodable
// document aside before it is replaced by a seed.
type Quarantiner interface {
	Quarantine(ctx context.Context) (string, error)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
