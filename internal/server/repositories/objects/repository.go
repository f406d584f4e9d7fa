// Package objects persists the index of stored evidence packages.
package objects

import (
	"context"

	"github.com/dmitrijs2005/evidencevault/internal/server/models"
)

// Repository indexes stored objects by (collection_id, package_id).
type Repository interface {
	// Insert stores o unless the pair already exists; created reports which.
	Insert(ctx context.Context, o *models.StoredObject) (created bool, err error)
	GetByPackage(ctx context.Context, collectionID, packageID string) (*models.StoredObject, error)
	// UpdateMetadata replaces the metadata and returns the object id.
	UpdateMetadata(ctx context.Context, collectionID, packageID string, metadata map[string]string) (string, error)
	// Delete removes the row and returns its storage key.
	Delete(ctx context.Context, collectionID, packageID string) (string, error)
}
