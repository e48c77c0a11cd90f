package lrm

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gmpls.TeService"

// TeServiceServer is the server API of the TE service. Requests carry their
// arguments as Struct fields named by the Field constants.
type TeServiceServer interface {
	AddNode(context.Context, *structpb.Struct) (*empty.Empty, error)
	DelNode(context.Context, *structpb.Struct) (*empty.Empty, error)
	AddTNA(context.Context, *structpb.Struct) (*empty.Empty, error)
	DelTNA(context.Context, *structpb.Struct) (*empty.Empty, error)
	AddTELink(context.Context, *structpb.Struct) (*empty.Empty, error)
	DelTELink(context.Context, *structpb.Struct) (*empty.Empty, error)
	UpdateTELink(context.Context, *structpb.Struct) (*empty.Empty, error)
	GetSRLGs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AppendSRLGs(context.Context, *structpb.Struct) (*empty.Empty, error)
	RemoveSRLGs(context.Context, *structpb.Struct) (*empty.Empty, error)
	GetCalendar(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AppendCalendar(context.Context, *structpb.Struct) (*empty.Empty, error)
	RemoveCalendar(context.Context, *structpb.Struct) (*empty.Empty, error)
	GetISCs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AppendISC(context.Context, *structpb.Struct) (*empty.Empty, error)
	RemoveISC(context.Context, *structpb.Struct) (*empty.Empty, error)
	UpdateResource(context.Context, *structpb.Struct) (*empty.Empty, error)
	GetResource(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCall(context.Context, *structpb.Struct) (*empty.Empty, error)
	GetCalls(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLinks(context.Context, *empty.Empty) (*structpb.Struct, error)
	GetNodes(context.Context, *empty.Empty) (*structpb.Struct, error)
}

// unary builds the method descriptor of one RPC. Req is the message type
// pointed to by the request.
func unary[Req any, Resp proto.Message, PReq interface {
	*Req
	proto.Message
}](name string, call func(TeServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(TeServiceServer), ctx, req.(PReq))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type structReq = structpb.Struct

var TeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary[structReq]("AddNode", TeServiceServer.AddNode),
		unary[structReq]("DelNode", TeServiceServer.DelNode),
		unary[structReq]("AddTNA", TeServiceServer.AddTNA),
		unary[structReq]("DelTNA", TeServiceServer.DelTNA),
		unary[structReq]("AddTELink", TeServiceServer.AddTELink),
		unary[structReq]("DelTELink", TeServiceServer.DelTELink),
		unary[structReq]("UpdateTELink", TeServiceServer.UpdateTELink),
		unary[structReq]("GetSRLGs", TeServiceServer.GetSRLGs),
		unary[structReq]("AppendSRLGs", TeServiceServer.AppendSRLGs),
		unary[structReq]("RemoveSRLGs", TeServiceServer.RemoveSRLGs),
		unary[structReq]("GetCalendar", TeServiceServer.GetCalendar),
		unary[structReq]("AppendCalendar", TeServiceServer.AppendCalendar),
		unary[structReq]("RemoveCalendar", TeServiceServer.RemoveCalendar),
		unary[structReq]("GetISCs", TeServiceServer.GetISCs),
		unary[structReq]("AppendISC", TeServiceServer.AppendISC),
		unary[structReq]("RemoveISC", TeServiceServer.RemoveISC),
		unary[structReq]("UpdateResource", TeServiceServer.UpdateResource),
		unary[structReq]("GetResource", TeServiceServer.GetResource),
		unary[structReq]("UpdateCall", TeServiceServer.UpdateCall),
		unary[structReq]("GetCalls", TeServiceServer.GetCalls),
		unary[empty.Empty]("GetLinks", TeServiceServer.GetLinks),
		unary[empty.Empty]("GetNodes", TeServiceServer.GetNodes),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gmpls/te_service",
}

func RegisterTeServiceServer(s grpc.ServiceRegistrar, srv TeServiceServer) {
	s.RegisterService(&TeServiceDesc, srv)
}
