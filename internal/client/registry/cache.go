package registry

import (
	"container/list"
	"sync"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

// lru is a bounded cache of entries; the least recently used entry is
// evicted on overflow.
type lru struct {
	mu    sync.Mutex
	size  int
	ll    *list.List
	items map[string]*list.Element
}

type lruItem struct {
	id    string
	entry models.EvidenceEntry
}

func newLRU(size int) *lru {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &lru{size: size, ll: list.New(), items: make(map[string]*list.Element)}
}

func (c *lru) get(id string) (*models.EvidenceEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	e := el.Value.(*lruItem).entry
	return &e, true
}

func (c *lru) put(e *models.EvidenceEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[e.ID]; ok {
		el.Value.(*lruItem).entry = *e
		c.ll.MoveToFront(el)
		return
	}

	c.items[e.ID] = c.ll.PushFront(&lruItem{id: e.ID, entry: *e})
	for c.ll.Len() > c.size {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*lruItem).id)
	}
}

func (c *lru) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[id]; ok {
		c.ll.Remove(el)
		delete(c.items, id)
	}
}

func (c *lru) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element)
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
