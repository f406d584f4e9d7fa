// Package remote is the vault's view of the remote evidence store.
package remote

import (
	"context"
	"errors"
)

var (
	ErrUnavailable  = errors.New("evidence store unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("rejected by evidence store")
)

// Package is an encrypted evidence package as sent over the wire. Metadata
// carries only non-sensitive descriptor fields.
type Package struct {
	PackageID  string
	Nonce      []byte
	Ciphertext []byte
	Hash       string
	Algorithm  string
	Metadata   map[string]string
}

type UploadResult struct {
	RemoteID string
	// Created is false when the store already held the package.
	Created bool
}

// Store is the remote evidence store. Upload is idempotent on
// (collection, package id).
type Store interface {
	Ping(ctx context.Context) error
	Upload(ctx context.Context, collectionID string, pkg Package) (*UploadResult, error)
	// Lookup returns the remote id of a stored package, or found=false.
	Lookup(ctx context.Context, collectionID, packageID string) (remoteID string, found bool, err error)
	UpdateMetadata(ctx context.Context, collectionID, packageID string, md map[string]string) (string, error)
	Delete(ctx context.Context, collectionID, packageID string) error
}
