package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Collection names in the document store.
const (
	CollectionMenu     = "menu"
	CollectionReviews  = "reviews"
	CollectionGallery  = "gallery"
	CollectionMessages = "messages"
)

type fieldSentinel int

const (
	// ServerTimestamp asks the store to fill the field with its commit time.
	ServerTimestamp fieldSentinel = iota + 1
	// DeleteField removes the field on update.
	DeleteField
)

// Document is one raw document: its id plus whatever fields the store returned.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// RawSnapshot is one complete, point-in-time view of a collection.
type RawSnapshot struct {
	Collection string
	Documents  []Document
	ReadTime   time.Time
}

// SnapshotIterator yields whole-collection snapshots until stopped or failed.
type SnapshotIterator interface {
	Next() (*RawSnapshot, error)
	Stop()
}

// DocumentStore is the remote document database the content layer mirrors.
type DocumentStore interface {
	Watch(ctx context.Context, collection string) SnapshotIterator
	// Create writes a new document. An empty id lets the store generate one.
	// A non-empty id fails with ErrAlreadyExists when taken.
	Create(ctx context.Context, collection, id string, data map[string]interface{}) (string, error)
	// Update overwrites the given fields of an existing document.
	Update(ctx context.Context, collection, id string, data map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	// Query returns documents ordered by one field, newest first when desc is set.
	Query(ctx context.Context, collection, orderBy string, desc bool, limit int) ([]Document, error)
	Close() error
}

var (
	ErrNotFound         = errors.New("document not found")
	ErrAlreadyExists    = errors.New("document already exists")
	ErrPermissionDenied = errors.New("permission denied")
)

// StoreError wraps any document store failure with the operation that caused it.
type StoreError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeError(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Collection: collection, ID: id, Err: err}
}
