// Package models holds the records persisted by the evidence store server.
package models

import "time"

// StoredObject is one encrypted evidence package held for a collection.
// The ciphertext lives in the blob store under StorageKey; the row keeps
// what is needed to answer lookups without touching the blob.
type StoredObject struct {
	ID           string
	CollectionID string
	PackageID    string
	StorageKey   string
	ContentHash  string
	Algorithm    string
	Nonce        []byte
	Size         int64
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
