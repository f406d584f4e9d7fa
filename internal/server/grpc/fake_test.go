package grpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
	"github.com/dmitrijs2005/evidencevault/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

const testSecret = "secret"

type fakeService struct {
	mu   sync.Mutex
	objs map[string]*models.StoredObject
	err  error
}

func newFakeService() *fakeService {
	return &fakeService{objs: map[string]*models.StoredObject{}}
}

func (f *fakeService) Upload(_ context.Context, in services.UploadInput) (*models.StoredObject, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	k := in.CollectionID + "/" + in.PackageID
	if o, ok := f.objs[k]; ok {
		return o, false, nil
	}
	o := &models.StoredObject{
		ID:           fmt.Sprintf("remote-%d", len(f.objs)+1),
		CollectionID: in.CollectionID,
		PackageID:    in.PackageID,
		ContentHash:  in.ContentHash,
		CreatedAt:    time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.objs[k] = o
	return o, true, nil
}

func (f *fakeService) Lookup(_ context.Context, c, p string) (*models.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.objs[c+"/"+p]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return o, nil
}

func (f *fakeService) UpdateMetadata(_ context.Context, c, p string, _ map[string]string) (string, error) {
	o, err := f.Lookup(context.Background(), c, p)
	if err != nil {
		return "", err
	}
	return o.ID, nil
}

func (f *fakeService) Delete(_ context.Context, c, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.objs, c+"/"+p)
	return nil
}

func newTestServer(svc EvidenceService) (*GRPCServer, *metrics.Server) {
	m := metrics.NewServer(prometheus.NewRegistry())
	return NewGRPCServer("127.0.0.1:0", logging.Discard(), svc, m, testSecret), m
}

func withCollection(ctx context.Context, c string) context.Context {
	return context.WithValue(ctx, collectionKey, c)
}
