package models

import "time"

// TaskKind is the remote obligation a sync task represents.
type TaskKind string

const (
	TaskUpload       TaskKind = "upload"
	TaskStatusUpdate TaskKind = "status-update"
	TaskDelete       TaskKind = "delete"
)

// TaskStatus is the state of an outstanding sync task.
type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskFailed  TaskStatus = "failed"
)

// SyncTask is one outstanding obligation to move an entry to the remote store.
type SyncTask struct {
	ID          string     `json:"id"`
	EvidenceID  string     `json:"evidence_id"`
	Kind        TaskKind   `json:"kind"`
	Status      TaskStatus `json:"status"`
	Attempts    int        `json:"attempts"`
	LastError   string     `json:"last_error,omitempty"`
	NextRetryAt time.Time  `json:"next_retry_at"`
	EnqueuedAt  time.Time  `json:"enqueued_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Due reports whether the task is pending and eligible at now.
func (t SyncTask) Due(now time.Time) bool {
	return t.Status == TaskPending && !t.NextRetryAt.After(now)
}

// VaultStatistics is a rebuildable cache of aggregate counters.
type VaultStatistics struct {
	TotalEntries  int                 `json:"total_entries"`
	ByContentType map[ContentType]int `json:"by_content_type"`
	PhotoCount    int                 `json:"photo_count"`
	MessageCount  int                 `json:"message_count"`
	DocumentCount int                 `json:"document_count"`
	TotalBytes    int64               `json:"total_bytes"`
	LastUpdated   time.Time           `json:"last_updated"`
}

// Apply folds one newly added entry into the counters.
func (s *VaultStatistics) Apply(e *EvidenceEntry, now time.Time) {
	if s.ByContentType == nil {
		s.ByContentType = make(map[ContentType]int)
	}
	s.TotalEntries++
	s.ByContentType[e.Descriptor.Content.Type]++
	if e.Content.Photo != nil {
		s.PhotoCount++
	}
	s.MessageCount += len(e.Content.Messages)
	s.DocumentCount += len(e.Content.Documents)
	s.TotalBytes += e.Descriptor.Content.ByteSize
	s.LastUpdated = now
}
