package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "candlechart.control.v1.ChartControl"

// ChartControlServer is the control plane. Requests and responses use the
// protobuf well-known Struct and Empty types, so no generated code is needed.
type ChartControlServer interface {
	ListSeries(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ImportSeries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSeries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshSymbol(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// -----------------------------------------------------------------------------

// unary builds the method handler for one RPC.
func unary[Req any](method string, call func(ChartControlServer, context.Context, *Req) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ChartControlServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ChartControlServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ChartControlServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChartControlServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListSeries", ChartControlServer.ListSeries),
		unary("ImportSeries", ChartControlServer.ImportSeries),
		unary("DeleteSeries", ChartControlServer.DeleteSeries),
		unary("RefreshSymbol", ChartControlServer.RefreshSymbol),
		unary("GetStatus", ChartControlServer.GetStatus),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "candlechart/control/v1/control.proto",
}

// RegisterChartControlServer registers srv on s.
func RegisterChartControlServer(s grpc.ServiceRegistrar, srv ChartControlServer) {
	s.RegisterService(&ChartControlServiceDesc, srv)
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type ChartControlClient struct {
	cc grpc.ClientConnInterface
}

func NewChartControlClient(cc grpc.ClientConnInterface) *ChartControlClient {
	return &ChartControlClient{cc: cc}
}

func (c *ChartControlClient) invoke(ctx context.Context, method string, in interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChartControlClient) ListSeries(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListSeries", &emptypb.Empty{}, opts...)
}

func (c *ChartControlClient) ImportSeries(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ImportSeries", in, opts...)
}

func (c *ChartControlClient) DeleteSeries(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "DeleteSeries", in, opts...)
}

func (c *ChartControlClient) RefreshSymbol(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "RefreshSymbol", in, opts...)
}

func (c *ChartControlClient) GetStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetStatus", &emptypb.Empty{}, opts...)
}
