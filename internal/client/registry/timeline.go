package registry

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
)

const DefaultPageLimit = 20

// TimelineQuery filters the timeline. Zero-valued fields do not filter.
// From and To are inclusive target dates (YYYY-MM-DD). Page is 1-based.
type TimelineQuery struct {
	Page         int
	Limit        int
	ContentType  models.ContentType
	From         string
	To           string
	UploadStatus models.UploadStatus
}

type TimelinePage struct {
	Entries    []models.TimelineEntry
	TotalCount int
	HasMore    bool
}

func putTimeline(ctx context.Context, tx storage.Writer, e *models.EvidenceEntry) error {
	te := models.NewTimelineEntry(e)
	return storage.PutJSON(ctx, tx, storage.BucketTimeline, te.ID, te)
}

func (q TimelineQuery) match(te *models.TimelineEntry) bool {
	if q.ContentType != "" && te.ContentType != q.ContentType {
		return false
	}
	if q.UploadStatus != "" && te.UploadStatus != q.UploadStatus {
		return false
	}
	if q.From != "" && te.TargetDate < q.From {
		return false
	}
	if q.To != "" && te.TargetDate > q.To {
		return false
	}
	return true
}

// QueryTimeline reads only the timeline projection. Results are ordered by
// target date descending; entries sharing a date are ordered by package time
// descending and are never merged.
func (r *Registry) QueryTimeline(ctx context.Context, q TimelineQuery) (*TimelinePage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}

	prefix := ""
	if q.From != "" && q.From == q.To {
		prefix = q.From + "#"
	}

	kvs, err := r.store.Scan(ctx, storage.BucketTimeline, prefix)
	if err != nil {
		return nil, err
	}

	matched := make([]models.TimelineEntry, 0, len(kvs))
	for _, kv := range kvs {
		var te models.TimelineEntry
		if err := unmarshal(kv, &te); err != nil {
			return nil, err
		}
		if q.match(&te) {
			matched = append(matched, te)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.TargetDate != b.TargetDate {
			return a.TargetDate > b.TargetDate
		}
		if !a.PackageTime.Equal(b.PackageTime) {
			return a.PackageTime.After(b.PackageTime)
		}
		return a.EvidenceID > b.EvidenceID
	})

	page := &TimelinePage{TotalCount: len(matched)}
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return page, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	page.Entries = matched[start:end]
	page.HasMore = end < len(matched)
	return page, nil
}

// RebuildTimeline regenerates every projection from its source entry and
// removes projections whose source is gone.
func (r *Registry) RebuildTimeline(ctx context.Context) (int, error) {
	n := 0
	err := r.store.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		old, err := tx.Scan(ctx, storage.BucketTimeline, "")
		if err != nil {
			return err
		}
		for _, kv := range old {
			if err := tx.Delete(ctx, storage.BucketTimeline, kv.Key); err != nil {
				return err
			}
		}

		entries, err := tx.Scan(ctx, storage.BucketRegistry, "")
		if err != nil {
			return err
		}
		for _, kv := range entries {
			var e models.EvidenceEntry
			if err := decodeEntry(kv.Key, kv.Value, &e); err != nil {
				return err
			}
			if err := putTimeline(ctx, tx, &e); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}
