package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/client/codec"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
)

// record is the stored form of an entry. Content holds the bundle's canonical
// binary encoding, so names and texts that are not valid UTF-8 come back
// byte for byte and the package hash stays reproducible.
type record struct {
	ID         string            `json:"id"`
	Content    []byte            `json:"content"`
	Descriptor models.Descriptor `json:"descriptor"`
	Local      models.LocalInfo  `json:"local"`
}

func encodeEntry(e *models.EvidenceEntry) ([]byte, error) {
	return json.Marshal(record{
		ID:         e.ID,
		Content:    codec.Marshal(e.Content),
		Descriptor: e.Descriptor,
		Local:      e.Local,
	})
}

func decodeEntry(key string, data []byte, e *models.EvidenceEntry) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	bundle, err := codec.Unmarshal(rec.Content)
	if err != nil {
		return fmt.Errorf("decode %s content: %w", key, err)
	}
	*e = models.EvidenceEntry{ID: rec.ID, Content: bundle, Descriptor: rec.Descriptor, Local: rec.Local}
	return nil
}

func getEntry(ctx context.Context, r storage.Reader, id string, e *models.EvidenceEntry) error {
	data, err := r.Get(ctx, storage.BucketRegistry, id)
	if err != nil {
		return err
	}
	return decodeEntry(id, data, e)
}

func putEntry(ctx context.Context, w storage.Writer, e *models.EvidenceEntry) error {
	data, err := encodeEntry(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.ID, err)
	}
	return w.Put(ctx, storage.BucketRegistry, e.ID, data)
}
