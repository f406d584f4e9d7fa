package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

// MemoryStore is an in-process Store. Fail, when set, is called before each
// operation and its error returned, letting tests script outages.
type MemoryStore struct {
	mu       sync.Mutex
	packages map[string]Package
	seq      int
	ids      map[string]string
	calls    []string

	Fail func(op string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{packages: map[string]Package{}, ids: map[string]string{}}
}

func key(collectionID, packageID string) string { return collectionID + "/" + packageID }

func (m *MemoryStore) begin(op string) error {
	m.calls = append(m.calls, op)
	if m.Fail != nil {
		return m.Fail(op)
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begin("ping")
}

func (m *MemoryStore) Upload(_ context.Context, collectionID string, pkg Package) (*UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("upload"); err != nil {
		return nil, err
	}

	k := key(collectionID, pkg.PackageID)
	if id, ok := m.ids[k]; ok {
		return &UploadResult{RemoteID: id}, nil
	}
	m.seq++
	m.ids[k] = fmt.Sprintf("remote-%d", m.seq)
	m.packages[k] = pkg
	return &UploadResult{RemoteID: m.ids[k], Created: true}, nil
}

func (m *MemoryStore) Lookup(_ context.Context, collectionID, packageID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("lookup"); err != nil {
		return "", false, err
	}
	id, ok := m.ids[key(collectionID, packageID)]
	return id, ok, nil
}

func (m *MemoryStore) UpdateMetadata(_ context.Context, collectionID, packageID string, md map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("update_metadata"); err != nil {
		return "", err
	}
	k := key(collectionID, packageID)
	pkg, ok := m.packages[k]
	if !ok {
		return "", common.ErrorNotFound
	}
	if pkg.Metadata == nil {
		pkg.Metadata = map[string]string{}
	}
	for mk, mv := range md {
		pkg.Metadata[mk] = mv
	}
	m.packages[k] = pkg
	return m.ids[k], nil
}

func (m *MemoryStore) Delete(_ context.Context, collectionID, packageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete"); err != nil {
		return err
	}
	k := key(collectionID, packageID)
	if _, ok := m.ids[k]; !ok {
		return common.ErrorNotFound
	}
	delete(m.ids, k)
	delete(m.packages, k)
	return nil
}

// Package returns a stored package.
func (m *MemoryStore) Package(collectionID, packageID string) (Package, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packages[key(collectionID, packageID)]
	return p, ok
}

// Calls returns the operations attempted so far, in order.
func (m *MemoryStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Len reports the number of stored packages.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.packages)
}
