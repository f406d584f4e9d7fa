package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	pb "github.com/dmitrijs2005/evidencevault/internal/proto"
	"github.com/dmitrijs2005/evidencevault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// authorize checks that the caller's token is bound to collectionID.
func (s *GRPCServer) authorize(ctx context.Context, collectionID string) error {
	c, ok := collectionFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "unauthenticated")
	}
	if c != collectionID {
		return status.Error(codes.PermissionDenied, "token is not valid for this collection")
	}
	return nil
}

func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Upload(ctx context.Context, req *pb.UploadRequest) (*pb.UploadResponse, error) {
	if err := s.authorize(ctx, req.GetCollectionId()); err != nil {
		return nil, err
	}

	obj, created, err := s.evidence.Upload(ctx, services.UploadInput{
		CollectionID: req.GetCollectionId(),
		PackageID:    req.GetPackageId(),
		Nonce:        req.GetNonce(),
		Ciphertext:   req.GetCiphertext(),
		ContentHash:  req.GetContentHash(),
		Algorithm:    req.GetAlgorithm(),
		Metadata:     req.GetMetadata(),
	})
	if err != nil {
		return nil, s.toStatus(ctx, "upload", err)
	}

	return &pb.UploadResponse{RemoteId: obj.ID, Created: created}, nil
}

func (s *GRPCServer) Lookup(ctx context.Context, req *pb.LookupRequest) (*pb.LookupResponse, error) {
	if err := s.authorize(ctx, req.GetCollectionId()); err != nil {
		return nil, err
	}

	obj, err := s.evidence.Lookup(ctx, req.GetCollectionId(), req.GetPackageId())
	if errors.Is(err, common.ErrorNotFound) {
		return &pb.LookupResponse{Found: false}, nil
	}
	if err != nil {
		return nil, s.toStatus(ctx, "lookup", err)
	}

	return &pb.LookupResponse{Found: true, RemoteId: obj.ID, ContentHash: obj.ContentHash, StoredAt: timestamppb.New(obj.CreatedAt)}, nil
}

func (s *GRPCServer) UpdateMetadata(ctx context.Context, req *pb.UpdateMetadataRequest) (*pb.UpdateMetadataResponse, error) {
	if err := s.authorize(ctx, req.GetCollectionId()); err != nil {
		return nil, err
	}

	id, err := s.evidence.UpdateMetadata(ctx, req.GetCollectionId(), req.GetPackageId(), req.GetMetadata())
	if err != nil {
		return nil, s.toStatus(ctx, "update metadata", err)
	}
	return &pb.UpdateMetadataResponse{RemoteId: id}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *pb.DeleteRequest) (*pb.DeleteResponse, error) {
	if err := s.authorize(ctx, req.GetCollectionId()); err != nil {
		return nil, err
	}

	if err := s.evidence.Delete(ctx, req.GetCollectionId(), req.GetPackageId()); err != nil {
		return nil, s.toStatus(ctx, "delete", err)
	}
	return &pb.DeleteResponse{}, nil
}
