package syncer

import (
	"container/heap"
	"time"
)

type scheduled struct {
	taskID string
	at     time.Time
	index  int
}

type taskHeap []*scheduled

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	return h[i].taskID < h[j].taskID
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	it := x.(*scheduled)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// schedule is a priority queue of task ids keyed by next eligible time.
// It is not safe for concurrent use.
type schedule struct {
	h    taskHeap
	byID map[string]*scheduled
}

func newSchedule() *schedule {
	return &schedule{byID: make(map[string]*scheduled)}
}

// set inserts the task or moves it to a new eligible time.
func (s *schedule) set(taskID string, at time.Time) {
	if it, ok := s.byID[taskID]; ok {
		it.at = at
		heap.Fix(&s.h, it.index)
		return
	}
	it := &scheduled{taskID: taskID, at: at}
	heap.Push(&s.h, it)
	s.byID[taskID] = it
}

// next returns the earliest eligible time.
func (s *schedule) next() (time.Time, bool) {
	if len(s.h) == 0 {
		return time.Time{}, false
	}
	return s.h[0].at, true
}

func (s *schedule) reset() {
	s.h = s.h[:0]
	s.byID = make(map[string]*scheduled)
}
