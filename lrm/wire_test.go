package lrm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/resource"
	"github.com/mayuresh82/go-gmpls-te/telink"
)

func TestLinkAttrsStructRoundTrip(t *testing.T) {
	lambdas := telink.NewLambdaBitmap(0x24000000, 40)
	require.NoError(t, lambdas.SetAvailable(0, true))
	require.NoError(t, lambdas.SetAvailable(39, true))
	attrs := telink.LinkAttrs{
		Mask:        telink.AttrLambdas<<1 - 1,
		LinkType:    telink.LinkPointToPoint,
		LinkID:      rtr2,
		LocalAddrs:  []addr.Addr{addr.MustParse("10.1.1.1"), addr.MustParse("10.1.2.1")},
		RemoteAddrs: []addr.Addr{addr.MustParse("10.1.1.2")},
		Metric:      10,
		MaxBw:       1.25e9,
		MaxResvBw:   1e9,
		UnresvBw:    [telink.NumPriorities]float32{1e9, 1e9, 1e9, 1e9, 5e8, 5e8, 5e8, 5e8},
		Color:       3,
		LocalID:     7,
		RemoteID:    8,
		Protection:  telink.ProtDedicated1P1,
		ISCs: []telink.ISCD{
			{SwCap: telink.SwCapPSC1, Encoding: telink.EncPacket, MaxLSPBw: [telink.NumPriorities]float32{1e9}, MinLSPBw: 1, MTU: 1500},
			{SwCap: telink.SwCapTDM, Encoding: telink.EncSDH, MaxLSPBw: [telink.NumPriorities]float32{155e6}, MinLSPBw: 2e6, Indication: 1},
		},
		SRLGs:      []uint32{5, 6},
		Calendar:   []telink.CalendarEvent{{Time: 100, Bw: [telink.NumPriorities]float32{1e9}}},
		Amplifiers: []telink.Amplifier{{GainDB: 20, NoiseFigureDB: 4.5}},
		Lambdas:    lambdas,
	}
	s, err := structpb.NewStruct(LinkAttrsToMap(attrs))
	require.NoError(t, err)
	got, err := LinkAttrsFromStruct(s)
	require.NoError(t, err)
	assert.True(t, attrs.Equal(got), "got %s", got)
	if diff := cmp.Diff(attrs.ISCs, got.ISCs); diff != "" {
		t.Errorf("ISCs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(attrs.Calendar, got.Calendar); diff != "" {
		t.Errorf("calendar mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkAttrsStructPartial(t *testing.T) {
	s, err := structpb.NewStruct(map[string]interface{}{"metric": 5, "srlgs": []interface{}{1, 2}})
	require.NoError(t, err)
	got, err := LinkAttrsFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, telink.AttrMetric|telink.AttrSRLGs, got.Mask)
	assert.Equal(t, []uint32{1, 2}, got.SRLGs)
}

func TestLinkAttrsStructRepeats(t *testing.T) {
	psc := map[string]interface{}{"swcap": 1, "encoding": 1, "max_lsp_bw": []interface{}{1, 1, 1, 1, 1, 1, 1, 1}}
	jumbo := map[string]interface{}{"swcap": 1, "encoding": 1, "max_lsp_bw": []interface{}{1, 1, 1, 1, 1, 1, 1, 1}, "mtu": 9000}
	s, err := structpb.NewStruct(map[string]interface{}{
		"srlgs": []interface{}{4, 1, 4},
		"iscs":  []interface{}{psc, psc, jumbo},
	})
	require.NoError(t, err)
	got, err := LinkAttrsFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, []uint32{4, 1}, got.SRLGs)
	require.Len(t, got.ISCs, 1)
	assert.Equal(t, uint16(9000), got.ISCs[0].MTU)
}

func TestStructErrors(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]interface{}
	}{
		{"negative metric", map[string]interface{}{"metric": -1}},
		{"fractional metric", map[string]interface{}{"metric": 1.5}},
		{"metric as string", map[string]interface{}{"metric": "10"}},
		{"short unresv bw", map[string]interface{}{"unresv_bw": []interface{}{1, 2}}},
		{"bad link id", map[string]interface{}{"link_id": "10.0.0"}},
		{"bad swcap", map[string]interface{}{"iscs": []interface{}{
			map[string]interface{}{"swcap": 7, "encoding": 1, "max_lsp_bw": []interface{}{0, 0, 0, 0, 0, 0, 0, 0}},
		}}},
		{"event without time", map[string]interface{}{"calendar": []interface{}{
			map[string]interface{}{"bw": []interface{}{0, 0, 0, 0, 0, 0, 0, 0}},
		}}},
		{"lambda out of range", map[string]interface{}{"lambdas": map[string]interface{}{
			"base": 0, "count": 4, "available": []interface{}{4},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structpb.NewStruct(tt.in)
			require.NoError(t, err)
			_, err = LinkAttrsFromStruct(s)
			require.Error(t, err)
			assert.Equal(t, Invalid, CodeOf(err))
		})
	}
}

func TestRequestStructs(t *testing.T) {
	s, err := structpb.NewStruct(map[string]interface{}{
		FieldRouterID: "10.0.0.1",
		FieldLocal:    "0x00000005",
		FieldAttrs:    map[string]interface{}{"metric": 3},
		FieldFrom:     10,
		FieldISCD: map[string]interface{}{
			"swcap": 150, "encoding": 8, "max_lsp_bw": []interface{}{1, 1, 1, 1, 1, 1, 1, 1},
		},
	})
	require.NoError(t, err)

	k, attrs, err := LinkFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, NewLinkKey(rtr1, addr.Unnumbered(5)), k)
	assert.Equal(t, telink.AttrMetric, attrs.Mask)

	from, to, err := RangeFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), from)
	assert.Equal(t, uint32(0), to)

	_, d, err := ISCDRequestFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, telink.SwCapLSC, d.SwCap)

	routerID, nodeID, err := NodeFromStruct(s)
	require.NoError(t, err)
	assert.True(t, routerID.Equal(rtr1))
	assert.True(t, nodeID.IsNull())

	_, _, err = TNAFromStruct(s)
	assert.Equal(t, Invalid, CodeOf(err))
}

func TestResourceStructRoundTrip(t *testing.T) {
	grid := &resource.GridResSpec{
		Mask: resource.GridApp | resource.GridCandidateHost | resource.GridFileSystems |
			resource.GridCapabilities | resource.GridStaging | resource.GridSiteID |
			resource.RangeBit(resource.IndividualCPUCount) | resource.RangeBit(resource.TotalDiskSpace),
		App:           resource.AppDescriptor{Name: "sim", Version: "2.1", Args: []string{"-n", "4"}},
		CandidateHost: addr.MustParse("10.9.0.1"),
		FileSystems: []resource.FileSystem{
			{Name: "scratch", Type: resource.FSTemporary, MountPoint: "/tmp", DiskSpace: resource.Range{Lower: 1, Upper: 10}},
		},
		Caps:    resource.SystemCaps{OSName: "linux", CPUArch: "x86_64"},
		Staging: []resource.DataStaging{{FileName: "in.dat", Creation: resource.CreateAppend, DeleteOnTermination: true, Source: "gsiftp://a/in.dat"}},
		SiteID:  42,
	}
	grid.Ranges[resource.IndividualCPUCount] = resource.Range{Lower: 2, Upper: 8}
	grid.Ranges[resource.TotalDiskSpace] = resource.Range{Lower: 0, Upper: 1e12}
	d := resource.Descriptor{
		Net: &resource.NetResSpec{
			Mask:     resource.NetResTNA | resource.NetResDataLink | resource.NetResLabel,
			TNA:      addr.MustParse("192.168.1.0/24"),
			DataLink: addr.Unnumbered(3),
			Label:    addr.NewLabel32(100),
		},
		Grid: grid,
	}

	s, err := structpb.NewStruct(map[string]interface{}{
		FieldRouterID: "10.0.0.1",
		FieldResource: DescriptorToMap(d),
	})
	require.NoError(t, err)
	routerID, got, err := ResourceFromStruct(s)
	require.NoError(t, err)
	assert.True(t, routerID.Equal(rtr1))
	assert.True(t, d.Equal(got))

	reply, err := structpb.NewStruct(DescriptorToMap(d))
	require.NoError(t, err)
	got, err = DescriptorFromStruct(reply)
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
}

func TestCallStructRoundTrip(t *testing.T) {
	c := resource.CallInfo{
		Mask: resource.CallIdentBit | resource.CallSrcTNA | resource.CallDstTNA | resource.CallBandwidth | resource.CallConnType,
		Ident: resource.CallIdent{
			Type: resource.CallGloballyUnique, Src: rtr1, LocalID: 1 << 40,
			Country: "ITA", Carrier: "NXW", UniqueAP: "ap1",
		},
		SrcTNA:    addr.MustParse("192.168.1.0/24"),
		DstTNA:    addr.MustParse("2001:db8::/32"),
		Bandwidth: 2.5e9,
		ConnType:  resource.ConnSoftPermanent,
	}
	s, err := structpb.NewStruct(map[string]interface{}{
		FieldRouterID: "10.0.0.1",
		FieldRole:     "ENNI",
		FieldCall:     CallToMap(c),
	})
	require.NoError(t, err)
	_, role, got, err := CallFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, resource.RoleENNI, role)
	assert.True(t, c.Equal(got))

	reply, err := structpb.NewStruct(map[string]interface{}{FieldCalls: CallsToList([]resource.CallInfo{c, c})})
	require.NoError(t, err)
	calls, err := CallsFromStruct(reply)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.True(t, c.Equal(calls[1]))
}

func TestResourceStructErrors(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]interface{}
	}{
		{"missing resource", map[string]interface{}{FieldRouterID: "10.0.0.1"}},
		{"label as string", map[string]interface{}{FieldRouterID: "10.0.0.1", FieldResource: map[string]interface{}{
			FieldNet: map[string]interface{}{"label": "17"},
		}}},
		{"unknown range", map[string]interface{}{FieldRouterID: "10.0.0.1", FieldResource: map[string]interface{}{
			FieldGrid: map[string]interface{}{"ranges": map[string]interface{}{"Bogus": map[string]interface{}{"lower": 0, "upper": 1}}},
		}}},
		{"inverted range", map[string]interface{}{FieldRouterID: "10.0.0.1", FieldResource: map[string]interface{}{
			FieldGrid: map[string]interface{}{"ranges": map[string]interface{}{"TotalCPUTime": map[string]interface{}{"lower": 5, "upper": 1}}},
		}}},
		{"app without name", map[string]interface{}{FieldRouterID: "10.0.0.1", FieldResource: map[string]interface{}{
			FieldGrid: map[string]interface{}{"app": map[string]interface{}{"version": "1"}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structpb.NewStruct(tt.in)
			require.NoError(t, err)
			_, _, err = ResourceFromStruct(s)
			require.Error(t, err)
			assert.Equal(t, Invalid, CodeOf(err))
		})
	}

	s, err := structpb.NewStruct(map[string]interface{}{
		FieldRouterID: "10.0.0.1", FieldRole: "NNI", FieldCall: map[string]interface{}{},
	})
	require.NoError(t, err)
	_, _, _, err = CallFromStruct(s)
	assert.Equal(t, Invalid, CodeOf(err))
}
