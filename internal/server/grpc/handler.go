package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) List(ctx context.Context, req *rpc.ListRequest) (*rpc.ListResponse, error) {
	docs, err := s.documents.List(ctx, ownerFromContext(ctx), req.OwnerID, string(req.Kind))
	if err != nil {
		return nil, s.toStatus(ctx, "list", err)
	}
	return &rpc.ListResponse{Documents: docs}, nil
}

func (s *GRPCServer) Add(ctx context.Context, req *rpc.AddRequest) (*rpc.Empty, error) {
	if err := s.documents.Add(ctx, ownerFromContext(ctx), req.Document); err != nil {
		return nil, s.toStatus(ctx, "add", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) Update(ctx context.Context, req *rpc.UpdateRequest) (*rpc.Empty, error) {
	if err := s.documents.Update(ctx, ownerFromContext(ctx), req.Document); err != nil {
		return nil, s.toStatus(ctx, "update", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) SoftDelete(ctx context.Context, req *rpc.SoftDeleteRequest) (*rpc.Empty, error) {
	err := s.documents.SoftDelete(ctx, ownerFromContext(ctx), req.OwnerID, string(req.Kind), req.ID, req.DeletedAt)
	if err != nil {
		return nil, s.toStatus(ctx, "soft delete", err)
	}
	return &rpc.Empty{}, nil
}

// toStatus maps service errors to gRPC codes. Unexpected errors are logged
// and hidden behind codes.Internal.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrOwnerMismatch):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "op", op, "error", err)
	return status.Error(codes.Internal, "internal error")
}
