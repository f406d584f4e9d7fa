package registry

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/logging"
)

// EventType names a registry change.
type EventType string

const (
	EventEntryAdded   EventType = "entry_added"
	EventEntryUpdated EventType = "entry_updated"
	EventCleared      EventType = "cleared"
)

// Event is published to subscribers after a change is committed.
type Event struct {
	Type       EventType
	EvidenceID string
	TargetDate string
	At         time.Time
}

type subscribers struct {
	mu     sync.RWMutex
	next   int
	chans  map[int]chan Event
	logger logging.Logger
}

func newSubscribers(l logging.Logger) *subscribers {
	return &subscribers{chans: make(map[int]chan Event), logger: l}
}

func (s *subscribers) subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.next
	s.next++
	s.chans[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.chans, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// publish never blocks: a subscriber whose buffer is full misses the event.
func (s *subscribers) publish(ctx context.Context, ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, ch := range s.chans {
		select {
		case ch <- ev:
		default:
			s.logger.Warn(ctx, "subscriber is full, event dropped", "subscriber", id, "event", ev.Type, "evidence_id", ev.EvidenceID)
		}
	}
}
