// Package hash fingerprints gallery artifacts.
//
// Gallery entries have no metadata of their own; a content hash gives each
// one a stable identity that survives reordering and the removal of its
// neighbours. The package provides a SHA-256 implementation and a fake for
// tests.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortLen is the number of hex digits shown for a fingerprint.
const ShortLen = 12

// Hasher provides an abstraction for content hashing.
type Hasher interface {
	// Sum returns the hex digest of data.
	Sum(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Sum computes the SHA-256 hex digest of data.
func (h *SHA256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short truncates a digest for display.
func Short(digest string) string {
	if len(digest) <= ShortLen {
		return digest
	}
	return digest[:ShortLen]
}

// FakeHasher implements Hasher with predetermined digests for testing.
type FakeHasher struct {
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
	}
}

// SetHash sets the digest returned for specific content.
func (h *FakeHasher) SetHash(data, hash string) {
	h.hashes[data] = hash
}

// Sum returns the predetermined digest for data.
func (h *FakeHasher) Sum(data []byte) string {
	if hash, ok := h.hashes[string(data)]; ok {
		return hash
	}
	return "fakehash"
}
