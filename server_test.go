package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/lrm"
	"github.com/mayuresh82/go-gmpls-te/resource"
	"github.com/mayuresh82/go-gmpls-te/telink"
)

func startServer(t *testing.T) (*lrm.TeServiceClient, func()) {
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	lrm.RegisterTeServiceServer(srv, NewTeServer(lrm.NewTable(nil, nil)))
	go func() { srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	return lrm.NewTeServiceClient(conn), func() {
		conn.Close()
		srv.Stop()
	}
}

func msg(t *testing.T, m map[string]interface{}) *structpb.Struct {
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestTeServer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	client, stop := startServer(t)
	defer stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rtr := addr.MustParse("10.0.0.1")
	tna := addr.MustParse("192.168.0.0/16")
	k := lrm.NewLinkKey(rtr, addr.MustParse("10.1.1.1"))
	psc := telink.ISCD{SwCap: telink.SwCapPSC1, Encoding: telink.EncPacket, MaxLSPBw: [telink.NumPriorities]float32{1e9}, MTU: 1500}
	lsc := telink.ISCD{SwCap: telink.SwCapLSC, Encoding: telink.EncLambda, MaxLSPBw: [telink.NumPriorities]float32{1, 1, 1, 1, 1, 1, 1, 1}}
	event := telink.CalendarEvent{Time: 100, Bw: [telink.NumPriorities]float32{1, 1, 1, 1, 1, 1, 1, 1}}

	require.NoError(t, client.AddNode(ctx, rtr, addr.Addr{}))
	require.NoError(t, client.AddTNA(ctx, rtr, tna))
	require.NoError(t, client.AddTELink(ctx, k, telink.LinkAttrs{
		Mask:     telink.AttrLinkType | telink.AttrLinkID | telink.AttrMetric,
		LinkType: telink.LinkPointToPoint,
		LinkID:   addr.MustParse("10.0.0.2"),
		Metric:   10,
	}))
	require.NoError(t, client.UpdateTELink(ctx, k, telink.LinkAttrs{Mask: telink.AttrMaxBw, MaxBw: 1e9}))
	require.NoError(t, client.AppendSRLGs(ctx, k, []uint32{7, 8}))
	require.NoError(t, client.AppendCalendar(ctx, k, []telink.CalendarEvent{event}))
	require.NoError(t, client.AppendISC(ctx, k, psc))
	require.NoError(t, client.AppendISC(ctx, k, lsc))

	srlgs, err := client.GetSRLGs(ctx, k)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{7, 8}, srlgs)

	events, err := client.GetCalendar(ctx, k, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, []telink.CalendarEvent{event}, events)
	events, err = client.GetCalendar(ctx, k, 101, 0)
	require.NoError(t, err)
	assert.Empty(t, events)

	iscs, err := client.GetISCs(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, []telink.ISCD{psc, lsc}, iscs)

	require.NoError(t, client.RemoveISC(ctx, k, lsc))
	require.NoError(t, client.RemoveSRLGs(ctx, k, []uint32{8}))
	require.NoError(t, client.RemoveCalendar(ctx, k, []telink.CalendarEvent{event}))

	links, err := client.GetLinks(ctx)
	require.NoError(t, err)
	linkList := links.GetFields()[lrm.FieldLinks].GetListValue().GetValues()
	require.Len(t, linkList, 1)
	got := linkList[0].GetStructValue().AsMap()
	assert.Equal(t, "ADVERTISED", got[lrm.FieldState])
	attrs := got[lrm.FieldAttrs].(map[string]interface{})
	assert.Equal(t, 10.0, attrs["metric"])
	assert.Equal(t, 1e9, attrs["max_bw"])
	assert.Equal(t, []interface{}{7.0}, attrs[lrm.FieldSRLGs])

	nodes, err := client.GetNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes.GetFields()[lrm.FieldNodes].GetListValue().GetValues(), 1)

	require.NoError(t, client.DelTELink(ctx, k))
	require.NoError(t, client.DelTNA(ctx, rtr, tna))
	require.NoError(t, client.DelNode(ctx, rtr))
}

func TestTeServerResources(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	client, stop := startServer(t)
	defer stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rtr := addr.MustParse("10.0.0.1")
	tna := addr.MustParse("192.168.0.0/16")
	require.NoError(t, client.AddNode(ctx, rtr, addr.Addr{}))
	require.NoError(t, client.AddTNA(ctx, rtr, tna))

	d := resource.Descriptor{
		Net: &resource.NetResSpec{Mask: resource.NetResTNA, TNA: tna},
		Grid: &resource.GridResSpec{
			Mask:   resource.GridApp | resource.GridSiteID,
			App:    resource.AppDescriptor{Name: "sim"},
			SiteID: 3,
		},
	}
	require.NoError(t, client.UpdateResource(ctx, rtr, d))
	got, err := client.GetResource(ctx, rtr)
	require.NoError(t, err)
	assert.True(t, d.Equal(got))

	err = client.UpdateResource(ctx, rtr, resource.Descriptor{
		Net: &resource.NetResSpec{Mask: resource.NetResDataLink, DataLink: addr.Unnumbered(9)},
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
	got, err = client.GetResource(ctx, rtr)
	require.NoError(t, err)
	assert.True(t, d.Equal(got))

	call := resource.CallInfo{
		Mask:   resource.CallIdentBit | resource.CallSrcTNA,
		Ident:  resource.CallIdent{Type: resource.CallOperatorSpecific, Src: rtr, LocalID: 1},
		SrcTNA: tna,
	}
	require.NoError(t, client.UpdateCall(ctx, rtr, resource.RoleUNI, call))
	err = client.UpdateCall(ctx, rtr, resource.RoleUNI, resource.CallInfo{Mask: resource.CallIdentBit})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	calls, err := client.GetCalls(ctx, rtr)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, call.Equal(calls[0]))

	err = client.DelTNA(ctx, rtr, tna)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestTeServerStatus(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	client, stop := startServer(t)
	defer stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	node := msg(t, map[string]interface{}{lrm.FieldRouterID: "10.0.0.1"})
	require.NoError(t, client.Call(ctx, "AddNode", node))

	tests := []struct {
		name   string
		method string
		in     *structpb.Struct
		code   codes.Code
	}{
		{"duplicate node", "AddNode", node, codes.AlreadyExists},
		{"missing node", "DelNode", msg(t, map[string]interface{}{lrm.FieldRouterID: "10.9.9.9"}), codes.NotFound},
		{"missing router id", "AddNode", msg(t, map[string]interface{}{}), codes.InvalidArgument},
		{"bad address", "AddNode", msg(t, map[string]interface{}{lrm.FieldRouterID: "10.0"}), codes.InvalidArgument},
		{"missing link", "DelTELink", msg(t, map[string]interface{}{
			lrm.FieldRouterID: "10.0.0.1", lrm.FieldLocal: "0x00000001",
		}), codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Call(ctx, tt.method, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	_, err := client.Query(ctx, "GetSRLGs", msg(t, map[string]interface{}{
		lrm.FieldRouterID: "10.0.0.1", lrm.FieldLocal: "0x00000001",
	}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestToStatus(t *testing.T) {
	assert.Nil(t, toStatus(nil))
	assert.Equal(t, codes.Internal, status.Code(toStatus(assert.AnError)))
}
