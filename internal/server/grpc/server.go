// Package grpc exposes the document store over gRPC: handlers, the access
// token interceptor and the server lifecycle.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/rpc"
	"google.golang.org/grpc"
)

// DocumentService is the business layer the handlers delegate to.
type DocumentService interface {
	List(ctx context.Context, caller, ownerID, kind string) ([]models.Document, error)
	Add(ctx context.Context, caller string, doc models.Document) error
	Update(ctx context.Context, caller string, doc models.Document) error
	SoftDelete(ctx context.Context, caller, ownerID, kind, id string, at time.Time) error
}

type GRPCServer struct {
	address   string
	documents DocumentService
	logger    logging.Logger
	jwtSecret []byte
}

var _ rpc.DocumentsServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, ds DocumentService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		documents: ds,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	rpc.RegisterDocumentsServer(srv, s)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
