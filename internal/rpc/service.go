package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "gophbudget.v1.Documents"

const (
	MethodPing       = "/" + ServiceName + "/Ping"
	MethodList       = "/" + ServiceName + "/List"
	MethodAdd        = "/" + ServiceName + "/Add"
	MethodUpdate     = "/" + ServiceName + "/Update"
	MethodSoftDelete = "/" + ServiceName + "/SoftDelete"
)

// DocumentsServer is implemented by the server's gRPC handlers.
type DocumentsServer interface {
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
	List(ctx context.Context, req *ListRequest) (*ListResponse, error)
	Add(ctx context.Context, req *AddRequest) (*Empty, error)
	Update(ctx context.Context, req *UpdateRequest) (*Empty, error)
	SoftDelete(ctx context.Context, req *SoftDeleteRequest) (*Empty, error)
}

func unary[Req, Resp any](method string, call func(DocumentsServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DocumentsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DocumentsServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, DocumentsServer.Ping)},
		{MethodName: "List", Handler: unary(MethodList, DocumentsServer.List)},
		{MethodName: "Add", Handler: unary(MethodAdd, DocumentsServer.Add)},
		{MethodName: "Update", Handler: unary(MethodUpdate, DocumentsServer.Update)},
		{MethodName: "SoftDelete", Handler: unary(MethodSoftDelete, DocumentsServer.SoftDelete)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophbudget/documents",
}

func RegisterDocumentsServer(s grpc.ServiceRegistrar, srv DocumentsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// DocumentsClient is the typed client side of the service.
type DocumentsClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error)
	Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*Empty, error)
	Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*Empty, error)
	SoftDelete(ctx context.Context, in *SoftDeleteRequest, opts ...grpc.CallOption) (*Empty, error)
}

type documentsClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentsClient(cc grpc.ClientConnInterface) DocumentsClient {
	return &documentsClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentsClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *documentsClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	return invoke[ListResponse](ctx, c.cc, MethodList, in, opts)
}

func (c *documentsClient) Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodAdd, in, opts)
}

func (c *documentsClient) Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdate, in, opts)
}

func (c *documentsClient) SoftDelete(ctx context.Context, in *SoftDeleteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodSoftDelete, in, opts)
}
