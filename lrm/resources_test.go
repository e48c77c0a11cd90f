package lrm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/resource"
)

var tna1 = addr.MustParse("192.168.1.0/24")

func netRes(mask resource.NetResMask, tna, dl addr.Addr, label uint32) *resource.NetResSpec {
	return &resource.NetResSpec{Mask: mask, TNA: tna, DataLink: dl, Label: addr.NewLabel32(label)}
}

func TestTableResource(t *testing.T) {
	table, rec, _ := newTestTable(t)
	require.NoError(t, table.AddTNA(rtr1, tna1))
	rec.ads = nil

	good := resource.Descriptor{Net: netRes(resource.NetResTNA, tna1, addr.Addr{}, 0)}
	require.NoError(t, table.UpdateResource(rtr1, good))
	require.NoError(t, table.UpdateResource(rtr1, resource.Descriptor{
		Net: netRes(resource.NetResDataLink|resource.NetResLabel, addr.Addr{}, addr.MustParse("10.1.1.1"), 17),
	}))
	assert.Empty(t, rec.ads)

	want, err := table.Resource(rtr1)
	require.NoError(t, err)
	require.NotNil(t, want.Net)
	assert.True(t, want.Net.TNA.Equal(tna1))
	assert.Equal(t, uint32(17), want.Net.Label.ID())

	tests := []struct {
		name string
		d    resource.Descriptor
		code Code
	}{
		{"nothing declared", resource.Descriptor{}, Invalid},
		{"null tna", resource.Descriptor{Net: netRes(resource.NetResTNA, addr.MustParse("0.0.0.0"), addr.Addr{}, 0)}, Invalid},
		{"null label", resource.Descriptor{Net: netRes(resource.NetResLabel, addr.Addr{}, addr.Addr{}, 0)}, Invalid},
		{"tna not served", resource.Descriptor{Net: netRes(resource.NetResTNA, addr.MustParse("172.16.0.0/12"), addr.Addr{}, 0)}, Invalid},
		{"unknown data link", resource.Descriptor{Net: netRes(resource.NetResDataLink, addr.Addr{}, addr.Unnumbered(99), 0)}, NotFound},
		{"grid without app", resource.Descriptor{
			Net:  netRes(resource.NetResLabel, addr.Addr{}, addr.Addr{}, 0),
			Grid: &resource.GridResSpec{Mask: resource.GridSiteID, SiteID: 4},
		}, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := table.UpdateResource(rtr1, tt.d)
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err))

			got, err := table.Resource(rtr1)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "resource changed to %v", got.Net)
		})
	}

	err = table.DelTNA(rtr1, tna1)
	assert.Equal(t, Invalid, CodeOf(err))

	_, err = table.Resource(rtr2)
	assert.True(t, IsNotFound(err))
}

func TestTableCalls(t *testing.T) {
	table, _, _ := newTestTable(t)
	require.NoError(t, table.AddTNA(rtr1, tna1))
	ident := resource.CallIdent{Type: resource.CallOperatorSpecific, Src: rtr1, LocalID: 7}

	require.NoError(t, table.UpdateCall(rtr1, resource.RoleUNI, resource.CallInfo{
		Mask:   resource.CallIdentBit | resource.CallSrcTNA,
		Ident:  ident,
		SrcTNA: tna1,
	}))
	require.NoError(t, table.UpdateCall(rtr1, resource.RoleUNI, resource.CallInfo{
		Mask:      resource.CallIdentBit | resource.CallBandwidth,
		Ident:     ident,
		Bandwidth: 1e9,
	}))
	calls, err := table.Calls(rtr1)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, resource.CallIdentBit|resource.CallSrcTNA|resource.CallBandwidth, calls[0].Mask)
	assert.Equal(t, float32(1e9), calls[0].Bandwidth)

	tests := []struct {
		name string
		role resource.Role
		info resource.CallInfo
	}{
		{"no identity", resource.RoleUNI, resource.CallInfo{Mask: resource.CallBandwidth, Bandwidth: 1}},
		{"negative bandwidth", resource.RoleUNI, resource.CallInfo{
			Mask: resource.CallIdentBit | resource.CallBandwidth, Ident: ident, Bandwidth: -1,
		}},
		{"null identity on uni", resource.RoleUNI, resource.CallInfo{Mask: resource.CallIdentBit}},
		{"source tna not served", resource.RoleINNI, resource.CallInfo{
			Mask: resource.CallIdentBit | resource.CallSrcTNA, Ident: ident, SrcTNA: addr.MustParse("172.16.0.0/12"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := table.UpdateCall(rtr1, tt.role, tt.info)
			assert.Equal(t, Invalid, CodeOf(err))
			got, err := table.Calls(rtr1)
			require.NoError(t, err)
			assert.Equal(t, calls, got)
		})
	}
}
