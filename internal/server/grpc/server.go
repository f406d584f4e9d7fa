// Package grpc exposes the evidence store over gRPC: the EvidenceStore
// service, the device token interceptor and per-method request metrics.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
	pb "github.com/dmitrijs2005/evidencevault/internal/proto"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
	"github.com/dmitrijs2005/evidencevault/internal/server/services"
	"google.golang.org/grpc"
)

// EvidenceService is the business logic behind the RPC handlers.
type EvidenceService interface {
	Upload(ctx context.Context, in services.UploadInput) (*models.StoredObject, bool, error)
	Lookup(ctx context.Context, collectionID, packageID string) (*models.StoredObject, error)
	UpdateMetadata(ctx context.Context, collectionID, packageID string, md map[string]string) (string, error)
	Delete(ctx context.Context, collectionID, packageID string) error
}

type GRPCServer struct {
	pb.UnimplementedEvidenceStoreServer

	address   string
	evidence  EvidenceService
	logger    logging.Logger
	metrics   *metrics.Server
	jwtSecret []byte
}

var _ pb.EvidenceStoreServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, es EvidenceService, m *metrics.Server, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		evidence:  es,
		metrics:   m,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	pb.RegisterEvidenceStoreServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
