package resource_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/resource"
)

var cmpAddr = cmp.AllowUnexported(addr.Addr{}, addr.Label{})

func fullNetRes() resource.NetResSpec {
	return resource.NetResSpec{
		Mask:     resource.NetResTNA | resource.NetResDataLink | resource.NetResLabel,
		TNA:      addr.MustParse("10.0.0.1"),
		DataLink: addr.Unnumbered(7),
		Label:    addr.NewLabel32(0x80000001),
	}
}

func fullGridRes() resource.GridResSpec {
	g := resource.GridResSpec{
		Mask: resource.GridApp | resource.GridCandidateHost | resource.GridFileSystems |
			resource.GridCapabilities | resource.GridStaging | resource.GridSiteID |
			resource.RangeBit(resource.TotalCPUCount),
		App:           resource.AppDescriptor{Name: "blast", Version: "2.1", Args: []string{"-n", "4"}},
		CandidateHost: addr.MustParse("192.0.2.10"),
		FileSystems:   []resource.FileSystem{{Name: "scratch", MountPoint: "/scratch"}},
		Caps:          resource.SystemCaps{OSName: "linux", CPUArch: "x86_64"},
		Staging:       []resource.DataStaging{{FileName: "in.dat", Source: "gsiftp://a/in.dat"}},
		SiteID:        12,
	}
	g.Ranges[resource.TotalCPUCount] = resource.Range{Lower: 4, Upper: 16}
	return g
}

func TestNetResValidate(t *testing.T) {
	testCases := map[string]struct {
		Spec      resource.NetResSpec
		Assertion assert.ErrorAssertionFunc
	}{
		"tna only": {
			resource.NetResSpec{Mask: resource.NetResTNA, TNA: addr.MustParse("10.0.0.1")},
			assert.NoError,
		},
		"full": {fullNetRes(), assert.NoError},
		"no tna": {
			resource.NetResSpec{Mask: resource.NetResDataLink, DataLink: addr.Unnumbered(1)},
			assert.Error,
		},
		"null tna": {
			resource.NetResSpec{Mask: resource.NetResTNA, TNA: addr.MustParse("0.0.0.0")},
			assert.Error,
		},
		"label without data link": {
			resource.NetResSpec{
				Mask:  resource.NetResTNA | resource.NetResLabel,
				TNA:   addr.MustParse("10.0.0.1"),
				Label: addr.NewLabel32(5),
			},
			assert.Error,
		},
		"label with null data link": {
			resource.NetResSpec{
				Mask:  resource.NetResTNA | resource.NetResDataLink | resource.NetResLabel,
				TNA:   addr.MustParse("10.0.0.1"),
				Label: addr.NewLabel32(5),
			},
			assert.Error,
		},
		"null label": {
			resource.NetResSpec{
				Mask:     resource.NetResTNA | resource.NetResDataLink | resource.NetResLabel,
				TNA:      addr.MustParse("10.0.0.1"),
				DataLink: addr.Unnumbered(3),
			},
			assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			tc.Assertion(t, tc.Spec.Validate())
		})
	}
}

func TestNetResIsNull(t *testing.T) {
	assert.True(t, resource.NetResSpec{}.IsNull())
	// the mask is not consulted
	assert.False(t, resource.NetResSpec{TNA: addr.MustParse("10.0.0.1")}.IsNull())
	assert.True(t, resource.NetResSpec{Mask: resource.NetResTNA, TNA: addr.MustParse("0.0.0.0")}.IsNull())
}

func TestNetResMerge(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		d := resource.NetResSpec{Mask: resource.NetResTNA, TNA: addr.MustParse("10.9.9.9")}
		s := fullNetRes()
		once := d
		once.Merge(s)
		twice := once
		twice.Merge(s)
		assert.True(t, once.Equal(twice))
		assert.Empty(t, cmp.Diff(once, twice, cmpAddr))
	})
	t.Run("non interference", func(t *testing.T) {
		d := fullNetRes()
		before := d
		d.Merge(resource.NetResSpec{Mask: resource.NetResLabel, Label: addr.NewLabel32(9)})
		assert.Equal(t, addr.NewLabel32(9), d.Label)
		assert.Equal(t, before.TNA, d.TNA)
		assert.Equal(t, before.DataLink, d.DataLink)
		assert.Equal(t, before.Mask, d.Mask)
	})
	t.Run("rejected merge leaves state", func(t *testing.T) {
		d := resource.NetResSpec{Mask: resource.NetResTNA, TNA: addr.MustParse("10.0.0.1")}
		before := d
		err := d.MergeValid(resource.NetResSpec{Mask: resource.NetResLabel, Label: addr.NewLabel32(9)})
		require.Error(t, err)
		var verr resource.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "data_link", verr.Field)
		assert.Empty(t, cmp.Diff(before, d, cmpAddr))
	})
}

func TestNetResEqual(t *testing.T) {
	a := fullNetRes()
	b := fullNetRes()
	assert.True(t, a.Equal(b))
	b.Mask &^= resource.NetResLabel
	assert.False(t, a.Equal(b))

	// undeclared fields are not compared
	c := resource.NetResSpec{Mask: resource.NetResTNA, TNA: a.TNA, Label: addr.NewLabel32(1)}
	d := resource.NetResSpec{Mask: resource.NetResTNA, TNA: a.TNA, Label: addr.NewLabel32(2)}
	assert.True(t, c.Equal(d))
}

func TestGridValidate(t *testing.T) {
	assert.NoError(t, fullGridRes().Validate())
	assert.Error(t, resource.GridResSpec{}.Validate())

	g := fullGridRes()
	g.CandidateHost = addr.MustParse("0.0.0.0")
	assert.Error(t, g.Validate())

	g.Mask &^= resource.GridCandidateHost
	assert.NoError(t, g.Validate())
}

func TestGridMerge(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		var d resource.GridResSpec
		s := fullGridRes()
		d.Merge(s)
		once := d.Clone()
		d.Merge(s)
		assert.True(t, once.Equal(d))
		assert.True(t, s.Equal(d))
	})
	t.Run("no aliasing", func(t *testing.T) {
		var d resource.GridResSpec
		s := fullGridRes()
		d.Merge(s)
		s.App.Args[0] = "changed"
		s.FileSystems[0].Name = "changed"
		s.Staging[0].FileName = "changed"
		assert.Equal(t, "-n", d.App.Args[0])
		assert.Equal(t, "scratch", d.FileSystems[0].Name)
		assert.Equal(t, "in.dat", d.Staging[0].FileName)
	})
	t.Run("non interference", func(t *testing.T) {
		d := fullGridRes()
		before := d.Clone()
		src := resource.GridResSpec{Mask: resource.RangeBit(resource.IndividualDiskSpace)}
		src.Ranges[resource.IndividualDiskSpace] = resource.Range{Lower: 1, Upper: 2}
		d.Merge(src)

		assert.Equal(t, before.Mask|resource.RangeBit(resource.IndividualDiskSpace), d.Mask)
		d.Mask = before.Mask
		d.Ranges[resource.IndividualDiskSpace] = resource.Range{}
		assert.Empty(t, cmp.Diff(before, d, cmpAddr))
	})
	t.Run("rejected", func(t *testing.T) {
		d := fullGridRes()
		before := d.Clone()
		err := d.MergeValid(resource.GridResSpec{Mask: resource.GridCandidateHost})
		assert.Error(t, err)
		assert.True(t, before.Equal(d))
	})
}

func TestGridEqual(t *testing.T) {
	a, b := fullGridRes(), fullGridRes()
	assert.True(t, a.Equal(b))

	b.App.Args = append(b.App.Args, "-v")
	assert.False(t, a.Equal(b))

	b = fullGridRes()
	b.FileSystems = nil
	assert.False(t, a.Equal(b))

	b = fullGridRes()
	b.FileSystems[0].DiskSpace.Upper = 1
	assert.False(t, a.Equal(b))

	b = fullGridRes()
	b.Staging[0].DeleteOnTermination = true
	assert.False(t, a.Equal(b))

	b = fullGridRes()
	b.Ranges[resource.TotalCPUCount].Upper = 8
	assert.False(t, a.Equal(b))

	// an undeclared range differs but is ignored
	b = fullGridRes()
	b.Ranges[resource.TotalDiskSpace].Upper = 8
	assert.True(t, a.Equal(b))
}

func TestValidateCallIdent(t *testing.T) {
	src := addr.MustParse("10.0.0.1")
	gu := resource.CallIdent{
		Type: resource.CallGloballyUnique, Src: src, LocalID: 1,
		Country: "ITA", Carrier: "NXW", UniqueAP: "ap1",
	}
	testCases := map[string]struct {
		Ident     resource.CallIdent
		Role      resource.Role
		Assertion assert.ErrorAssertionFunc
	}{
		"uni null":            {resource.CallIdent{}, resource.RoleUNI, assert.Error},
		"enni null":           {resource.CallIdent{}, resource.RoleENNI, assert.Error},
		"uni operator":        {resource.CallIdent{Type: resource.CallOperatorSpecific, Src: src, LocalID: 4}, resource.RoleUNI, assert.NoError},
		"enni globally":       {gu, resource.RoleENNI, assert.NoError},
		"inni null":           {resource.CallIdent{}, resource.RoleINNI, assert.NoError},
		"inni payload null":   {resource.CallIdent{Src: src}, resource.RoleINNI, assert.Error},
		"inni typed no value": {resource.CallIdent{Type: resource.CallOperatorSpecific}, resource.RoleINNI, assert.NoError},
		"bad country": {
			resource.CallIdent{Type: resource.CallGloballyUnique, Src: src, Country: "I", Carrier: "X"},
			resource.RoleUNI, assert.Error,
		},
		"unknown type": {resource.CallIdent{Type: 9, Src: src}, resource.RoleUNI, assert.Error},
		"unknown role": {gu, resource.Role(7), assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			tc.Assertion(t, resource.ValidateCallIdent(tc.Ident, tc.Role))
		})
	}
}

func TestCallInfo(t *testing.T) {
	ident := resource.CallIdent{Type: resource.CallOperatorSpecific, Src: addr.MustParse("10.0.0.1"), LocalID: 3}
	var c resource.CallInfo
	err := c.MergeValid(resource.CallInfo{Mask: resource.CallBandwidth, Bandwidth: 10}, resource.RoleUNI)
	assert.Error(t, err)
	assert.Equal(t, resource.CallMask(0), c.Mask)

	require.NoError(t, c.MergeValid(resource.CallInfo{
		Mask: resource.CallIdentBit | resource.CallBandwidth, Ident: ident, Bandwidth: 10,
	}, resource.RoleUNI))
	assert.Equal(t, float32(10), c.Bandwidth)

	other := c
	other.Merge(resource.CallInfo{Mask: resource.CallConnType, ConnType: resource.ConnSoftPermanent})
	assert.False(t, c.Equal(other))
	assert.Equal(t, ident, other.Ident)
}

func TestDescriptor(t *testing.T) {
	net := fullNetRes()
	grid := fullGridRes()
	badNet := resource.NetResSpec{Mask: resource.NetResLabel, Label: addr.NewLabel32(1)}

	assert.Error(t, resource.Descriptor{}.Validate())
	assert.Error(t, resource.Descriptor{Net: &resource.NetResSpec{}}.Validate())
	assert.NoError(t, resource.Descriptor{Net: &net}.Validate())
	assert.NoError(t, resource.Descriptor{Grid: &grid}.Validate())
	assert.NoError(t, resource.Descriptor{Net: &badNet, Grid: &grid}.Validate())
	assert.Error(t, resource.Descriptor{Net: &badNet}.Validate())

	var d resource.Descriptor
	require.NoError(t, d.MergeValid(resource.Descriptor{Net: &net}))
	require.NotNil(t, d.Net)
	assert.NotSame(t, &net, d.Net)
	assert.True(t, d.Equal(resource.Descriptor{Net: &net}))
	assert.False(t, d.Equal(resource.Descriptor{Net: &net, Grid: &grid}))

	before := d.Clone()
	assert.Error(t, d.MergeValid(resource.Descriptor{Net: &resource.NetResSpec{
		Mask: resource.NetResTNA, TNA: addr.MustParse("0.0.0.0"),
	}}))
	assert.True(t, before.Equal(d))
}
