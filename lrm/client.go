package lrm

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/resource"
	"github.com/mayuresh82/go-gmpls-te/telink"
)

// TeServiceClient is the client API of the TE service. The typed methods
// build the request messages and decode the replies; Call and Query send
// prebuilt messages.
type TeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTeServiceClient(cc grpc.ClientConnInterface) *TeServiceClient {
	return &TeServiceClient{cc: cc}
}

func (c *TeServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

// Call invokes a method answering with an empty message.
func (c *TeServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.invoke(ctx, method, in, new(empty.Empty), opts...)
}

// Query invokes a method answering with a Struct.
func (c *TeServiceClient) Query(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TeServiceClient) call(ctx context.Context, method string, m map[string]interface{}, opts ...grpc.CallOption) error {
	in, err := structpb.NewStruct(m)
	if err != nil {
		return err
	}
	return c.Call(ctx, method, in, opts...)
}

func (c *TeServiceClient) query(ctx context.Context, method string, m map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return c.Query(ctx, method, in, opts...)
}

// linkMsg returns the fields naming k plus extra.
func linkMsg(k LinkKey, extra map[string]interface{}) map[string]interface{} {
	m := LinkKeyFields(k)
	for f, v := range extra {
		m[f] = v
	}
	return m
}

func (c *TeServiceClient) AddNode(ctx context.Context, routerID, nodeID addr.Addr, opts ...grpc.CallOption) error {
	m := map[string]interface{}{FieldRouterID: routerID.String()}
	if !nodeID.IsNull() {
		m[FieldNodeID] = nodeID.String()
	}
	return c.call(ctx, "AddNode", m, opts...)
}

func (c *TeServiceClient) DelNode(ctx context.Context, routerID addr.Addr, opts ...grpc.CallOption) error {
	return c.call(ctx, "DelNode", map[string]interface{}{FieldRouterID: routerID.String()}, opts...)
}

func (c *TeServiceClient) AddTNA(ctx context.Context, routerID, tna addr.Addr, opts ...grpc.CallOption) error {
	return c.call(ctx, "AddTNA", map[string]interface{}{
		FieldRouterID: routerID.String(), FieldTNA: tna.String(),
	}, opts...)
}

func (c *TeServiceClient) DelTNA(ctx context.Context, routerID, tna addr.Addr, opts ...grpc.CallOption) error {
	return c.call(ctx, "DelTNA", map[string]interface{}{
		FieldRouterID: routerID.String(), FieldTNA: tna.String(),
	}, opts...)
}

func (c *TeServiceClient) AddTELink(ctx context.Context, k LinkKey, attrs telink.LinkAttrs, opts ...grpc.CallOption) error {
	return c.call(ctx, "AddTELink", linkMsg(k, map[string]interface{}{FieldAttrs: LinkAttrsToMap(attrs)}), opts...)
}

func (c *TeServiceClient) DelTELink(ctx context.Context, k LinkKey, opts ...grpc.CallOption) error {
	return c.call(ctx, "DelTELink", linkMsg(k, nil), opts...)
}

func (c *TeServiceClient) UpdateTELink(ctx context.Context, k LinkKey, attrs telink.LinkAttrs, opts ...grpc.CallOption) error {
	return c.call(ctx, "UpdateTELink", linkMsg(k, map[string]interface{}{FieldAttrs: LinkAttrsToMap(attrs)}), opts...)
}

func (c *TeServiceClient) GetSRLGs(ctx context.Context, k LinkKey, opts ...grpc.CallOption) ([]uint32, error) {
	out, err := c.query(ctx, "GetSRLGs", linkMsg(k, nil), opts...)
	if err != nil {
		return nil, err
	}
	return SRLGsFromStruct(out)
}

func (c *TeServiceClient) AppendSRLGs(ctx context.Context, k LinkKey, srlgs []uint32, opts ...grpc.CallOption) error {
	return c.call(ctx, "AppendSRLGs", linkMsg(k, map[string]interface{}{FieldSRLGs: u32List(srlgs)}), opts...)
}

func (c *TeServiceClient) RemoveSRLGs(ctx context.Context, k LinkKey, srlgs []uint32, opts ...grpc.CallOption) error {
	return c.call(ctx, "RemoveSRLGs", linkMsg(k, map[string]interface{}{FieldSRLGs: u32List(srlgs)}), opts...)
}

// GetCalendar returns the link's events from from on, up to to unless to is
// zero.
func (c *TeServiceClient) GetCalendar(ctx context.Context, k LinkKey, from, to uint32, opts ...grpc.CallOption) ([]telink.CalendarEvent, error) {
	out, err := c.query(ctx, "GetCalendar", linkMsg(k, map[string]interface{}{
		FieldFrom: float64(from), FieldTo: float64(to),
	}), opts...)
	if err != nil {
		return nil, err
	}
	return EventsFromStruct(out)
}

func (c *TeServiceClient) AppendCalendar(ctx context.Context, k LinkKey, events []telink.CalendarEvent, opts ...grpc.CallOption) error {
	return c.call(ctx, "AppendCalendar", linkMsg(k, map[string]interface{}{FieldEvents: EventsToList(events)}), opts...)
}

func (c *TeServiceClient) RemoveCalendar(ctx context.Context, k LinkKey, events []telink.CalendarEvent, opts ...grpc.CallOption) error {
	return c.call(ctx, "RemoveCalendar", linkMsg(k, map[string]interface{}{FieldEvents: EventsToList(events)}), opts...)
}

func (c *TeServiceClient) GetISCs(ctx context.Context, k LinkKey, opts ...grpc.CallOption) ([]telink.ISCD, error) {
	out, err := c.query(ctx, "GetISCs", linkMsg(k, nil), opts...)
	if err != nil {
		return nil, err
	}
	return ISCsFromStruct(out)
}

func (c *TeServiceClient) AppendISC(ctx context.Context, k LinkKey, d telink.ISCD, opts ...grpc.CallOption) error {
	return c.call(ctx, "AppendISC", linkMsg(k, map[string]interface{}{FieldISCD: ISCDToMap(d)}), opts...)
}

func (c *TeServiceClient) RemoveISC(ctx context.Context, k LinkKey, d telink.ISCD, opts ...grpc.CallOption) error {
	return c.call(ctx, "RemoveISC", linkMsg(k, map[string]interface{}{FieldISCD: ISCDToMap(d)}), opts...)
}

func (c *TeServiceClient) UpdateResource(ctx context.Context, routerID addr.Addr, d resource.Descriptor, opts ...grpc.CallOption) error {
	return c.call(ctx, "UpdateResource", map[string]interface{}{
		FieldRouterID: routerID.String(), FieldResource: DescriptorToMap(d),
	}, opts...)
}

func (c *TeServiceClient) GetResource(ctx context.Context, routerID addr.Addr, opts ...grpc.CallOption) (resource.Descriptor, error) {
	out, err := c.query(ctx, "GetResource", map[string]interface{}{FieldRouterID: routerID.String()}, opts...)
	if err != nil {
		return resource.Descriptor{}, err
	}
	return DescriptorFromStruct(out)
}

func (c *TeServiceClient) UpdateCall(ctx context.Context, routerID addr.Addr, role resource.Role, info resource.CallInfo, opts ...grpc.CallOption) error {
	return c.call(ctx, "UpdateCall", map[string]interface{}{
		FieldRouterID: routerID.String(), FieldRole: role.String(), FieldCall: CallToMap(info),
	}, opts...)
}

func (c *TeServiceClient) GetCalls(ctx context.Context, routerID addr.Addr, opts ...grpc.CallOption) ([]resource.CallInfo, error) {
	out, err := c.query(ctx, "GetCalls", map[string]interface{}{FieldRouterID: routerID.String()}, opts...)
	if err != nil {
		return nil, err
	}
	return CallsFromStruct(out)
}

// GetLinks returns the link dump in the form LinkInfoToMap writes.
func (c *TeServiceClient) GetLinks(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "GetLinks", new(empty.Empty), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNodes returns the node dump in the form NodeInfoToMap writes.
func (c *TeServiceClient) GetNodes(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "GetNodes", new(empty.Empty), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
