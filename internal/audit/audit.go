// Package audit keeps an append-only JSONL log of cryptographic and sync
// operations for forensic debugging.
//
// Writers never block: records go through a bounded buffer drained by a
// background goroutine, and a record that does not fit is dropped and counted.
package audit

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Record is one audit line.
type Record struct {
	Time       time.Time `json:"time"`
	Op         string    `json:"op"`
	EvidenceID string    `json:"evidence_id,omitempty"`
	TaskID     string    `json:"task_id,omitempty"`
	SizeBefore int       `json:"size_before,omitempty"`
	SizeAfter  int       `json:"size_after,omitempty"`
	Hash       string    `json:"hash,omitempty"`
	Attempt    int       `json:"attempt,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// Recorder accepts audit records. Implementations must not block or fail
// the caller.
type Recorder interface {
	Record(r Record)
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(Record) {}

// Log writes records as JSON lines to an io.Writer.
type Log struct {
	ch      chan Record
	w       io.Writer
	closer  io.Closer
	dropped atomic.Int64
	onDrop  func()
	done    chan struct{}
	once    sync.Once
}

// Option customizes a Log.
type Option func(*Log)

// WithDropHook registers a callback invoked for every dropped record.
func WithDropHook(fn func()) Option {
	return func(l *Log) { l.onDrop = fn }
}

// New starts a Log writing to w with the given buffer size.
func New(w io.Writer, buffer int, opts ...Option) *Log {
	if buffer <= 0 {
		buffer = 256
	}
	l := &Log{ch: make(chan Record, buffer), w: w, done: make(chan struct{})}
	for _, o := range opts {
		o(l)
	}
	go l.drain()
	return l
}

// Open appends to the file at path, creating it with 0600 permissions.
func Open(path string, buffer int, opts ...Option) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	l := New(f, buffer, opts...)
	l.closer = f
	return l, nil
}

func (l *Log) Record(r Record) {
	if r.Time.IsZero() {
		r.Time = time.Now().UTC()
	}
	defer func() {
		// Record after Close must not panic the caller.
		if recover() != nil {
			l.drop()
		}
	}()
	select {
	case l.ch <- r:
	default:
		l.drop()
	}
}

func (l *Log) drop() {
	l.dropped.Add(1)
	if l.onDrop != nil {
		l.onDrop()
	}
}

// Dropped reports how many records were discarded.
func (l *Log) Dropped() int64 {
	return l.dropped.Load()
}

func (l *Log) drain() {
	defer close(l.done)
	enc := json.NewEncoder(l.w)
	for r := range l.ch {
		// write errors are ignored: auditing never fails an operation
		_ = enc.Encode(r)
	}
}

// Close flushes pending records and closes the underlying file, if any.
func (l *Log) Close() error {
	var err error
	l.once.Do(func() {
		close(l.ch)
		<-l.done
		if l.closer != nil {
			err = l.closer.Close()
		}
	})
	return err
}

// Memory keeps records in memory.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

func (m *Memory) Record(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

// Records returns a copy of everything recorded so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...)
}

// Filter returns records with the given op.
func (m *Memory) Filter(op string) []Record {
	var out []Record
	for _, r := range m.Records() {
		if r.Op == op {
			out = append(out, r)
		}
	}
	return out
}
