// Package models defines the evidence vault's records: the raw evidence
// bundle, its descriptor, the registry entry and its derived projections.
package models

import "time"

// ContentType classifies what an evidence bundle carries.
type ContentType string

const (
	ContentPhoto     ContentType = "photo"
	ContentMessages  ContentType = "messages"
	ContentDocuments ContentType = "documents"
	ContentMixed     ContentType = "mixed"
	ContentUnknown   ContentType = "unknown"
)

// Location is an optional capture location.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// Photo is a captured image with its EXIF-like attributes.
type Photo struct {
	Name     string            `json:"name"`
	MimeType string            `json:"mime_type,omitempty"`
	Data     []byte            `json:"data,omitempty"`
	TakenAt  time.Time         `json:"taken_at"`
	Width    int               `json:"width,omitempty"`
	Height   int               `json:"height,omitempty"`
	Exif     map[string]string `json:"exif,omitempty"`
	Location *Location         `json:"location,omitempty"`
}

// Message is a single captured message.
type Message struct {
	ID       string    `json:"id,omitempty"`
	Sender   string    `json:"sender,omitempty"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
	Platform string    `json:"platform,omitempty"`
}

// Document is an attached document blob.
type Document struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// EvidenceBundle is the raw, unencrypted material collected for one target date.
type EvidenceBundle struct {
	TargetDate string     `json:"target_date"`
	Photo      *Photo     `json:"photo,omitempty"`
	Messages   []Message  `json:"messages,omitempty"`
	Documents  []Document `json:"documents,omitempty"`
}

// IsEmpty reports whether the bundle holds no content at all.
func (b EvidenceBundle) IsEmpty() bool {
	return b.Photo == nil && len(b.Messages) == 0 && len(b.Documents) == 0
}

// ItemCount is the number of content items (photo counts as one).
func (b EvidenceBundle) ItemCount() int {
	n := len(b.Messages) + len(b.Documents)
	if b.Photo != nil {
		n++
	}
	return n
}

// ByteSize is the aggregate payload size: photo and document bytes plus
// message text bytes.
func (b EvidenceBundle) ByteSize() int64 {
	var n int64
	if b.Photo != nil {
		n += int64(len(b.Photo.Data))
	}
	for _, m := range b.Messages {
		n += int64(len(m.Text))
	}
	for _, d := range b.Documents {
		n += int64(len(d.Data))
	}
	return n
}

// LocalInfo is device-local bookkeeping that never leaves the vault.
type LocalInfo struct {
	AddedAt        time.Time    `json:"added_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	AccessCount    int          `json:"access_count"`
	SyncStatus     UploadStatus `json:"sync_status"`
}

// EvidenceEntry is the unit of record in the registry.
type EvidenceEntry struct {
	ID         string         `json:"id"`
	Content    EvidenceBundle `json:"content"`
	Descriptor Descriptor     `json:"descriptor"`
	Local      LocalInfo      `json:"local"`
}
