package models

import "time"

// UploadStatus is the remote-sync state of an evidence entry.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadCompleted UploadStatus = "completed"
	UploadFailed    UploadStatus = "failed"
)

// CanTransition reports whether the upload state machine allows from → to.
// Status only moves forward; failed → pending is reserved for manual retry.
func CanTransition(from, to UploadStatus) bool {
	switch from {
	case UploadPending:
		return to == UploadUploading
	case UploadUploading:
		return to == UploadUploading || to == UploadCompleted || to == UploadFailed
	case UploadFailed:
		return to == UploadPending
	}
	return false
}

// Descriptor is the structured, displayable and verifiable metadata of a bundle.
type Descriptor struct {
	PackageID    string           `json:"package_id"`
	Version      string           `json:"version"`
	Temporal     Temporal         `json:"temporal"`
	Content      ContentSummary   `json:"content"`
	Photo        *PhotoDetails    `json:"photo,omitempty"`
	Messages     *MessageDetails  `json:"messages,omitempty"`
	Documents    *DocumentDetails `json:"documents,omitempty"`
	Location     *Location        `json:"location,omitempty"`
	Processing   Processing       `json:"processing"`
	Upload       UploadInfo       `json:"upload"`
	Verification Verification     `json:"verification"`
	Display      Display          `json:"display"`
}

type Temporal struct {
	TargetDate   string     `json:"target_date"`
	PackageTime  time.Time  `json:"package_time"`
	UploadTime   *time.Time `json:"upload_time,omitempty"`
	LastModified time.Time  `json:"last_modified"`
}

type ContentSummary struct {
	Type      ContentType `json:"type"`
	ItemCount int         `json:"item_count"`
	ByteSize  int64       `json:"byte_size"`
}

type PhotoDetails struct {
	Name     string            `json:"name"`
	MimeType string            `json:"mime_type,omitempty"`
	Size     int64             `json:"size"`
	Width    int               `json:"width,omitempty"`
	Height   int               `json:"height,omitempty"`
	TakenAt  time.Time         `json:"taken_at"`
	Exif     map[string]string `json:"exif,omitempty"`
}

type MessageDetails struct {
	Count           int       `json:"count"`
	TotalCharacters int       `json:"total_characters"`
	Senders         []string  `json:"senders,omitempty"`
	Platforms       []string  `json:"platforms,omitempty"`
	FirstAt         time.Time `json:"first_at"`
	LastAt          time.Time `json:"last_at"`
}

type DocumentDetails struct {
	Count     int      `json:"count"`
	Names     []string `json:"names,omitempty"`
	TotalSize int64    `json:"total_size"`
}

// Processing records how the bundle was collected and vetted.
type Processing struct {
	CollectionMethod string   `json:"collection_method"`
	FilterApproved   bool     `json:"filter_approved"`
	FilterScore      float64  `json:"filter_score,omitempty"`
	ManualOverride   bool     `json:"manual_override"`
	Warnings         []string `json:"warnings,omitempty"`
}

// UploadInfo tracks remote synchronization.
type UploadInfo struct {
	Status      UploadStatus `json:"status"`
	Attempts    int          `json:"attempts"`
	LastAttempt *time.Time   `json:"last_attempt,omitempty"`
	RemoteID    string       `json:"remote_id,omitempty"`
	ContentHash string       `json:"content_hash,omitempty"`
	LastError   string       `json:"last_error,omitempty"`
}

// Verification holds plaintext integrity hashes computed once at packaging time.
type Verification struct {
	Algorithm     string `json:"algorithm,omitempty"`
	PackageHash   string `json:"package_hash,omitempty"`
	PhotoHash     string `json:"photo_hash,omitempty"`
	MessagesHash  string `json:"messages_hash,omitempty"`
	DocumentsHash string `json:"documents_hash,omitempty"`
}

// IsSet reports whether packaging already stamped the hashes.
func (v Verification) IsSet() bool {
	return v.PackageHash != ""
}

// Display holds presentation-ready projections.
type Display struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Preview  string   `json:"preview,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category"`
	Priority int      `json:"priority"`
}
