// Package kv is rexyz's local persistent key-value storage.
//
// It plays the role a browser's localStorage plays for a web editor: a
// handful of named slots, each holding one string (JSON in practice), that
// outlive the process. Two backends exist: one file per slot, written
// atomically through fsops, and a single SQLite table.
package kv

import (
	"context"
	"errors"
)

// Slot names used by rexyz.
const (
	GallerySlot = "rexyzGallery"
	SessionSlot = "rexyzSession"
)

// ErrClosed is returned by operations on a closed storage.
var ErrClosed = errors.New("storage closed")

// Storage is a string-valued key-value store.
type Storage interface {
	// Get returns the value of key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the storage.
	Close() error
}
