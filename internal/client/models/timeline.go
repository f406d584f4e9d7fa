package models

import (
	"fmt"
	"time"
)

// TimelineEntry is the denormalized, read-optimized projection of exactly one
// EvidenceEntry. It is regenerated from its source, never edited directly.
type TimelineEntry struct {
	ID           string       `json:"id"`
	EvidenceID   string       `json:"evidence_id"`
	TargetDate   string       `json:"target_date"`
	PackageTime  time.Time    `json:"package_time"`
	ContentType  ContentType  `json:"content_type"`
	ItemCount    int          `json:"item_count"`
	ByteSize     int64        `json:"byte_size"`
	HasPhoto     bool         `json:"has_photo"`
	MessageCount int          `json:"message_count"`
	Title        string       `json:"title"`
	Subtitle     string       `json:"subtitle"`
	Preview      string       `json:"preview,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Category     string       `json:"category"`
	Priority     int          `json:"priority"`
	UploadStatus UploadStatus `json:"upload_status"`
	RemoteID     string       `json:"remote_id,omitempty"`
	UploadedAt   *time.Time   `json:"uploaded_at,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TimelineKey is the storage key of an entry's projection; it sorts by date.
func TimelineKey(targetDate, evidenceID string) string {
	return fmt.Sprintf("%s#%s", targetDate, evidenceID)
}

// NewTimelineEntry derives the projection of e.
func NewTimelineEntry(e *EvidenceEntry) TimelineEntry {
	d := e.Descriptor
	msgs := 0
	if d.Messages != nil {
		msgs = d.Messages.Count
	}
	return TimelineEntry{
		ID:           TimelineKey(d.Temporal.TargetDate, e.ID),
		EvidenceID:   e.ID,
		TargetDate:   d.Temporal.TargetDate,
		PackageTime:  d.Temporal.PackageTime,
		ContentType:  d.Content.Type,
		ItemCount:    d.Content.ItemCount,
		ByteSize:     d.Content.ByteSize,
		HasPhoto:     d.Photo != nil,
		MessageCount: msgs,
		Title:        d.Display.Title,
		Subtitle:     d.Display.Subtitle,
		Preview:      d.Display.Preview,
		Tags:         append([]string(nil), d.Display.Tags...),
		Category:     d.Display.Category,
		Priority:     d.Display.Priority,
		UploadStatus: d.Upload.Status,
		RemoteID:     d.Upload.RemoteID,
		UploadedAt:   d.Temporal.UploadTime,
		UpdatedAt:    d.Temporal.LastModified,
	}
}
