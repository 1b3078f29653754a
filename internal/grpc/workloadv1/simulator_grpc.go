// Package workloadv1 declares the workload.v1.Simulator gRPC service. Messages are
// google.protobuf.Struct values so the service needs no generated code.
package workloadv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "workload.v1.Simulator"
	// SimulateWorkloadMethod is the full method path used by clients.
	SimulateWorkloadMethod = "/" + ServiceName + "/SimulateWorkload"
	// TrafficMethod is the full method path of the traffic report RPC.
	TrafficMethod = "/" + ServiceName + "/Traffic"
)

// SimulatorServer is the server API for the Simulator service.
type SimulatorServer interface {
	SimulateWorkload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Traffic(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedSimulatorServer can be embedded to satisfy SimulatorServer.
type UnimplementedSimulatorServer struct{}

func (UnimplementedSimulatorServer) SimulateWorkload(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SimulateWorkload not implemented")
}

func (UnimplementedSimulatorServer) Traffic(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Traffic not implemented")
}

// RegisterSimulatorServer attaches srv to the registrar.
func RegisterSimulatorServer(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&simulatorServiceDesc, srv)
}

func unaryHandler(fullMethod string, call func(SimulatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SimulatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var simulatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SimulateWorkload",
			Handler: unaryHandler(SimulateWorkloadMethod, func(s SimulatorServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.SimulateWorkload(ctx, in)
			}),
		},
		{
			MethodName: "Traffic",
			Handler: unaryHandler(TrafficMethod, func(s SimulatorServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.Traffic(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "workload/v1/simulator.proto",
}

// SimulatorClient is the client API for the Simulator service.
type SimulatorClient struct {
	cc grpc.ClientConnInterface
}

// NewSimulatorClient wraps a client connection.
func NewSimulatorClient(cc grpc.ClientConnInterface) *SimulatorClient {
	return &SimulatorClient{cc: cc}
}

// SimulateWorkload invokes the SimulateWorkload RPC.
func (c *SimulatorClient) SimulateWorkload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SimulateWorkloadMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Traffic invokes the Traffic RPC.
func (c *SimulatorClient) Traffic(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, TrafficMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
