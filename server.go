package main

import (
	"context"

	"github.com/golang/glog"
	"github.com/golang/protobuf/ptypes/empty"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/lrm"
)

// TeServer exposes the link resource manager over gRPC.
type TeServer struct {
	table *lrm.Table
}

func NewTeServer(table *lrm.Table) *TeServer {
	return &TeServer{table: table}
}

// toStatus maps a table error to its gRPC status.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var lerr *lrm.Error
	if !errors.As(err, &lerr) {
		return status.Error(codes.Internal, err.Error())
	}
	switch lerr.Code {
	case lrm.NotFound:
		return status.Error(codes.NotFound, lerr.Error())
	case lrm.AlreadyExists:
		return status.Error(codes.AlreadyExists, lerr.Error())
	case lrm.Invalid:
		return status.Error(codes.InvalidArgument, lerr.Error())
	}
	return status.Error(codes.Internal, lerr.Error())
}

func reply(err error) (*empty.Empty, error) {
	if err != nil {
		glog.V(2).Infof("Request failed: %v", err)
		return nil, toStatus(err)
	}
	return &empty.Empty{}, nil
}

func replyStruct(m map[string]interface{}, err error) (*structpb.Struct, error) {
	if err != nil {
		glog.V(2).Infof("Request failed: %v", err)
		return nil, toStatus(err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

// AddNode creates a TE node
func (s *TeServer) AddNode(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	routerID, nodeID, err := lrm.NodeFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.AddNode(routerID, nodeID))
}

// DelNode removes a TE node and all its links
func (s *TeServer) DelNode(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	routerID, _, err := lrm.NodeFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.DelNode(routerID))
}

func (s *TeServer) AddTNA(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	routerID, tna, err := lrm.TNAFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.AddTNA(routerID, tna))
}

func (s *TeServer) DelTNA(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	routerID, tna, err := lrm.TNAFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.DelTNA(routerID, tna))
}

// AddTELink creates a TE link with the attributes in the attrs field
func (s *TeServer) AddTELink(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, attrs, err := lrm.LinkFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.AddTELink(k, attrs))
}

func (s *TeServer) DelTELink(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.DelTELink(k))
}

// UpdateTELink merges the attributes in the attrs field into a TE link
func (s *TeServer) UpdateTELink(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, attrs, err := lrm.LinkFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.UpdateTELink(k, attrs))
}

func (s *TeServer) GetSRLGs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return replyStruct(nil, err)
	}
	srlgs, err := s.table.GetSRLGs(k)
	if err != nil {
		return replyStruct(nil, err)
	}
	out := make([]interface{}, len(srlgs))
	for i, v := range srlgs {
		out[i] = float64(v)
	}
	return replyStruct(map[string]interface{}{lrm.FieldSRLGs: out}, nil)
}

func (s *TeServer) AppendSRLGs(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return reply(err)
	}
	srlgs, err := lrm.SRLGsFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.AppendSRLGs(k, srlgs))
}

func (s *TeServer) RemoveSRLGs(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return reply(err)
	}
	srlgs, err := lrm.SRLGsFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.RemoveSRLGs(k, srlgs))
}

// GetCalendar returns the calendar events in [from, to) of a TE link
func (s *TeServer) GetCalendar(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return replyStruct(nil, err)
	}
	from, to, err := lrm.RangeFromStruct(req)
	if err != nil {
		return replyStruct(nil, err)
	}
	events, err := s.table.GetCalendar(k, from, to)
	if err != nil {
		return replyStruct(nil, err)
	}
	return replyStruct(map[string]interface{}{lrm.FieldEvents: lrm.EventsToList(events)}, nil)
}

func (s *TeServer) AppendCalendar(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return reply(err)
	}
	events, err := lrm.EventsFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.AppendCalendar(k, events))
}

func (s *TeServer) RemoveCalendar(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return reply(err)
	}
	events, err := lrm.EventsFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.RemoveCalendar(k, events))
}

func (s *TeServer) GetISCs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	k, err := lrm.LinkKeyFromStruct(req)
	if err != nil {
		return replyStruct(nil, err)
	}
	iscs, err := s.table.GetISCs(k)
	if err != nil {
		return replyStruct(nil, err)
	}
	out := make([]interface{}, len(iscs))
	for i, d := range iscs {
		out[i] = lrm.ISCDToMap(d)
	}
	return replyStruct(map[string]interface{}{lrm.FieldISCs: out}, nil)
}

func (s *TeServer) AppendISC(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, d, err := lrm.ISCDRequestFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.AppendISC(k, d))
}

func (s *TeServer) RemoveISC(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	k, d, err := lrm.ISCDRequestFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.RemoveISC(k, d))
}

// UpdateResource merges the resource field into the node's registered resource
func (s *TeServer) UpdateResource(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	routerID, d, err := lrm.ResourceFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.UpdateResource(routerID, d))
}

func (s *TeServer) GetResource(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	routerID, _, err := lrm.NodeFromStruct(req)
	if err != nil {
		return replyStruct(nil, err)
	}
	d, err := s.table.Resource(routerID)
	if err != nil {
		return replyStruct(nil, err)
	}
	return replyStruct(lrm.DescriptorToMap(d), nil)
}

// UpdateCall merges the call field into the node's call with the same identity
func (s *TeServer) UpdateCall(ctx context.Context, req *structpb.Struct) (*empty.Empty, error) {
	routerID, role, info, err := lrm.CallFromStruct(req)
	if err != nil {
		return reply(err)
	}
	return reply(s.table.UpdateCall(routerID, role, info))
}

func (s *TeServer) GetCalls(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	routerID, _, err := lrm.NodeFromStruct(req)
	if err != nil {
		return replyStruct(nil, err)
	}
	calls, err := s.table.Calls(routerID)
	if err != nil {
		return replyStruct(nil, err)
	}
	return replyStruct(map[string]interface{}{lrm.FieldCalls: lrm.CallsToList(calls)}, nil)
}

// GetLinks returns a dump of every TE link
func (s *TeServer) GetLinks(ctx context.Context, none *empty.Empty) (*structpb.Struct, error) {
	links := s.table.Links()
	out := make([]interface{}, len(links))
	for i, l := range links {
		out[i] = lrm.LinkInfoToMap(l)
	}
	return replyStruct(map[string]interface{}{lrm.FieldLinks: out}, nil)
}

// GetNodes returns a dump of every TE node
func (s *TeServer) GetNodes(ctx context.Context, none *empty.Empty) (*structpb.Struct, error) {
	nodes := s.table.Nodes()
	out := make([]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = lrm.NodeInfoToMap(n)
	}
	return replyStruct(map[string]interface{}{lrm.FieldNodes: out}, nil)
}
