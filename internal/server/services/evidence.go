// Package services holds the evidence store's business logic: idempotent
// uploads keyed by (collection, package id), lookups, metadata updates and
// deletes over the object index and the blob store.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
	"github.com/dmitrijs2005/evidencevault/internal/server/blobstore"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/objects"
	"github.com/google/uuid"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrHashConflict is returned when a package id is re-uploaded with
	// different content.
	ErrHashConflict = fmt.Errorf("content hash conflict: %w", common.ErrAlreadyExists)
)

// UploadInput is one encrypted package as received from a vault.
type UploadInput struct {
	CollectionID string
	PackageID    string
	Nonce        []byte
	Ciphertext   []byte
	ContentHash  string
	Algorithm    string
	Metadata     map[string]string
}

type EvidenceService struct {
	objects objects.Repository
	blobs   blobstore.Store
	metrics *metrics.Server
	logger  logging.Logger
	now     func() time.Time
}

func NewEvidenceService(repo objects.Repository, blobs blobstore.Store, m *metrics.Server, l logging.Logger) *EvidenceService {
	return &EvidenceService{
		objects: repo,
		blobs:   blobs,
		metrics: m,
		logger:  l.With("module", "evidence_service"),
		now:     time.Now,
	}
}

// StorageKey lays objects out by collection and upload day.
func StorageKey(collectionID string, d time.Time, id string) string {
	d = d.UTC()
	return fmt.Sprintf("collections/%s/%d/%02d/%02d/%s", collectionID, d.Year(), d.Month(), d.Day(), id)
}

func (in UploadInput) validate() error {
	switch {
	case in.CollectionID == "":
		return fmt.Errorf("%w: collection id is required", ErrInvalidArgument)
	case in.PackageID == "":
		return fmt.Errorf("%w: package id is required", ErrInvalidArgument)
	case len(in.Ciphertext) == 0:
		return fmt.Errorf("%w: empty ciphertext", ErrInvalidArgument)
	case len(in.Nonce) == 0:
		return fmt.Errorf("%w: missing nonce", ErrInvalidArgument)
	case in.ContentHash == "":
		return fmt.Errorf("%w: missing content hash", ErrInvalidArgument)
	}
	return nil
}

// Upload stores the package once. Re-uploading the same package id with the
// same hash returns the existing object with created=false; a different
// hash yields ErrHashConflict.
func (s *EvidenceService) Upload(ctx context.Context, in UploadInput) (*models.StoredObject, bool, error) {
	if err := in.validate(); err != nil {
		s.metrics.Upload("error")
		return nil, false, err
	}

	existing, err := s.objects.GetByPackage(ctx, in.CollectionID, in.PackageID)
	switch {
	case err == nil:
		return s.duplicate(ctx, existing, in)
	case !errors.Is(err, common.ErrorNotFound):
		s.metrics.Upload("error")
		return nil, false, err
	}

	id := uuid.NewString()
	obj := &models.StoredObject{
		ID:           id,
		CollectionID: in.CollectionID,
		PackageID:    in.PackageID,
		StorageKey:   StorageKey(in.CollectionID, s.now(), id),
		ContentHash:  in.ContentHash,
		Algorithm:    in.Algorithm,
		Nonce:        in.Nonce,
		Size:         int64(len(in.Ciphertext)),
		Metadata:     in.Metadata,
	}

	if err := s.blobs.Put(ctx, obj.StorageKey, in.Ciphertext); err != nil {
		s.metrics.Upload("error")
		return nil, false, err
	}

	created, err := s.objects.Insert(ctx, obj)
	if err != nil || !created {
		if derr := s.blobs.Delete(ctx, obj.StorageKey); derr != nil {
			s.logger.Warn(ctx, "orphaned blob", "key", obj.StorageKey, "error", derr)
		}
	}
	if err != nil {
		s.metrics.Upload("error")
		return nil, false, err
	}
	if !created {
		// lost a race with a concurrent upload of the same package
		existing, err := s.objects.GetByPackage(ctx, in.CollectionID, in.PackageID)
		if err != nil {
			s.metrics.Upload("error")
			return nil, false, err
		}
		return s.duplicate(ctx, existing, in)
	}

	s.metrics.Upload("created")
	s.logger.Info(ctx, "package stored", "collection", in.CollectionID, "package_id", in.PackageID, "remote_id", id, "size", obj.Size)
	return obj, true, nil
}

func (s *EvidenceService) duplicate(ctx context.Context, existing *models.StoredObject, in UploadInput) (*models.StoredObject, bool, error) {
	if existing.ContentHash != in.ContentHash {
		s.metrics.Upload("conflict")
		s.logger.Warn(ctx, "package re-uploaded with different content", "collection", in.CollectionID, "package_id", in.PackageID)
		return nil, false, ErrHashConflict
	}
	s.metrics.Upload("duplicate")
	return existing, false, nil
}

// Lookup returns the stored object or common.ErrorNotFound.
func (s *EvidenceService) Lookup(ctx context.Context, collectionID, packageID string) (*models.StoredObject, error) {
	return s.objects.GetByPackage(ctx, collectionID, packageID)
}

func (s *EvidenceService) UpdateMetadata(ctx context.Context, collectionID, packageID string, md map[string]string) (string, error) {
	return s.objects.UpdateMetadata(ctx, collectionID, packageID, md)
}

// Delete removes the package. Deleting an unknown package succeeds.
func (s *EvidenceService) Delete(ctx context.Context, collectionID, packageID string) error {
	key, err := s.objects.Delete(ctx, collectionID, packageID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "blob delete failed", "key", key, "error", err)
	}
	return nil
}
