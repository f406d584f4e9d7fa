package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	pb "github.com/dmitrijs2005/evidencevault/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const callTimeout = 30 * time.Second

// GRPCClient talks to the evidence store over gRPC.
type GRPCClient struct {
	conn        *grpc.ClientConn
	client      pb.EvidenceStoreClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.accessToken != "" {
		ctx = withAccessToken(ctx, c.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a lazily connecting client for endpoint.
func NewGRPCClient(endpoint, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewEvidenceStoreClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := c.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Upload(ctx context.Context, collectionID string, pkg Package) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := c.client.Upload(ctx, &pb.UploadRequest{
		CollectionId: collectionID,
		PackageId:    pkg.PackageID,
		Nonce:        pkg.Nonce,
		Ciphertext:   pkg.Ciphertext,
		ContentHash:  pkg.Hash,
		Algorithm:    pkg.Algorithm,
		Metadata:     pkg.Metadata,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &UploadResult{RemoteID: resp.GetRemoteId(), Created: resp.GetCreated()}, nil
}

func (c *GRPCClient) Lookup(ctx context.Context, collectionID, packageID string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := c.client.Lookup(ctx, &pb.LookupRequest{CollectionId: collectionID, PackageId: packageID})
	if err != nil {
		return "", false, mapError(err)
	}
	return resp.GetRemoteId(), resp.GetFound(), nil
}

func (c *GRPCClient) UpdateMetadata(ctx context.Context, collectionID, packageID string, md map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := c.client.UpdateMetadata(ctx, &pb.UpdateMetadataRequest{CollectionId: collectionID, PackageId: packageID, Metadata: md})
	if err != nil {
		return "", mapError(err)
	}
	return resp.GetRemoteId(), nil
}

func (c *GRPCClient) Delete(ctx context.Context, collectionID, packageID string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.client.Delete(ctx, &pb.DeleteRequest{CollectionId: collectionID, PackageId: packageID})
	return mapError(err)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
