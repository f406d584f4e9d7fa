package remote

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	pb "github.com/dmitrijs2005/evidencevault/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeServer struct {
	pb.UnimplementedEvidenceStoreServer

	tokens []string
	err    error
	store  *MemoryStore
}

func (f *fakeServer) token(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	f.tokens = append(f.tokens, md.Get(common.AccessTokenHeaderName)...)
}

func (f *fakeServer) Ping(ctx context.Context, _ *pb.PingRequest) (*pb.PingResponse, error) {
	f.token(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &pb.PingResponse{Status: "OK"}, nil
}

func (f *fakeServer) Upload(ctx context.Context, in *pb.UploadRequest) (*pb.UploadResponse, error) {
	f.token(ctx)
	if f.err != nil {
		return nil, f.err
	}
	res, err := f.store.Upload(ctx, in.GetCollectionId(), Package{PackageID: in.GetPackageId(), Ciphertext: in.GetCiphertext(), Metadata: in.GetMetadata()})
	if err != nil {
		return nil, err
	}
	return &pb.UploadResponse{RemoteId: res.RemoteID, Created: res.Created}, nil
}

func (f *fakeServer) Lookup(ctx context.Context, in *pb.LookupRequest) (*pb.LookupResponse, error) {
	id, ok, _ := f.store.Lookup(ctx, in.GetCollectionId(), in.GetPackageId())
	return &pb.LookupResponse{Found: ok, RemoteId: id}, nil
}

func (f *fakeServer) UpdateMetadata(ctx context.Context, in *pb.UpdateMetadataRequest) (*pb.UpdateMetadataResponse, error) {
	id, err := f.store.UpdateMetadata(ctx, in.GetCollectionId(), in.GetPackageId(), in.GetMetadata())
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &pb.UpdateMetadataResponse{RemoteId: id}, nil
}

func (f *fakeServer) Delete(ctx context.Context, in *pb.DeleteRequest) (*pb.DeleteResponse, error) {
	if err := f.store.Delete(ctx, in.GetCollectionId(), in.GetPackageId()); err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &pb.DeleteResponse{}, nil
}

func newClient(t *testing.T, srv *fakeServer) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	pb.RegisterEvidenceStoreServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", "device-token",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_Operations(t *testing.T) {
	srv := &fakeServer{store: NewMemoryStore()}
	c := newClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, found, err := c.Lookup(ctx, "col", "pkg-1")
	require.NoError(t, err)
	assert.False(t, found)

	res, err := c.Upload(ctx, "col", Package{PackageID: "pkg-1", Ciphertext: []byte("ct"), Metadata: map[string]string{"content_type": "photo"}})
	require.NoError(t, err)
	assert.True(t, res.Created)
	stored, ok := srv.store.Package("col", "pkg-1")
	require.True(t, ok)
	assert.Equal(t, []byte("ct"), stored.Ciphertext)
	assert.Equal(t, "photo", stored.Metadata["content_type"])

	again, err := c.Upload(ctx, "col", Package{PackageID: "pkg-1", Ciphertext: []byte("ct")})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.RemoteID, again.RemoteID)

	id, found, err := c.Lookup(ctx, "col", "pkg-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, res.RemoteID, id)

	id, err = c.UpdateMetadata(ctx, "col", "pkg-1", map[string]string{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, res.RemoteID, id)

	require.NoError(t, c.Delete(ctx, "col", "pkg-1"))
	require.ErrorIs(t, c.Delete(ctx, "col", "pkg-1"), common.ErrorNotFound)

	require.NotEmpty(t, srv.tokens)
	for _, tok := range srv.tokens {
		assert.Equal(t, "device-token", tok)
	}
}

func TestGRPCClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad token"), ErrUnauthorized},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrUnavailable},
		{"invalid", status.Error(codes.InvalidArgument, "no package id"), ErrRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, &fakeServer{store: NewMemoryStore(), err: tt.err})
			err := c.Ping(context.Background())
			require.ErrorIs(t, err, tt.want)

			_, err = c.Upload(context.Background(), "col", Package{PackageID: "p"})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	plain := errors.New("boom")
	assert.ErrorIs(t, mapError(plain), plain)
	assert.ErrorIs(t, mapError(status.Error(codes.NotFound, "x")), common.ErrorNotFound)
}

func TestMemoryStore_FailHook(t *testing.T) {
	m := NewMemoryStore()
	m.Fail = func(op string) error {
		if op == "upload" {
			return ErrUnavailable
		}
		return nil
	}
	_, err := m.Upload(context.Background(), "c", Package{PackageID: "p"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, []string{"upload"}, m.Calls())
	assert.Zero(t, m.Len())
}
