package addr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayuresh82/go-gmpls-te/addr"
)

func TestLabel60RoundTrip(t *testing.T) {
	mac := [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	l, err := addr.NewLabel60(mac, 100)
	require.NoError(t, err)

	wire := l.Bytes()
	require.Len(t, wire, 8)
	assert.Equal(t, []byte{0x00, 0x64, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, wire)

	got, err := addr.DecodeLabel(addr.Label60, wire)
	require.NoError(t, err)
	assert.Equal(t, mac, got.MAC())
	assert.Equal(t, uint16(100), got.VLAN())
	assert.True(t, l.Equal(got))
	assert.Equal(t, "aa:bb:cc:dd:ee:ff/100", got.String())
}

func TestPack60(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 6}
	v := addr.Pack60(mac, 0xfff)
	assert.Equal(t, uint64(0x0fff010203040506), v)
	m, vlan := addr.Unpack60(v)
	assert.Equal(t, mac, m)
	assert.Equal(t, uint16(0xfff), vlan)
}

func TestLabelValidation(t *testing.T) {
	_, err := addr.NewLabel60([6]byte{}, 4096)
	assert.Error(t, err)

	_, err = addr.DecodeLabel(addr.Label60, []byte{0x10, 0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err, "reserved bits")
	_, err = addr.DecodeLabel(addr.Label32, []byte{1, 2, 3})
	assert.Error(t, err)
	_, err = addr.DecodeLabel(addr.LabelType(7), []byte{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestLabelEqualNull(t *testing.T) {
	l60, _ := addr.NewLabel60([6]byte{0, 0, 0, 0, 0, 1}, 0)
	l60vlan, _ := addr.NewLabel60([6]byte{0, 0, 0, 0, 0, 1}, 1)
	testCases := map[string]struct {
		A, B  addr.Label
		Equal bool
	}{
		"same 32":       {addr.NewLabel32(5), addr.NewLabel32(5), true},
		"diff 32":       {addr.NewLabel32(5), addr.NewLabel32(6), false},
		"type mismatch": {addr.NewLabel32(0), addr.Label{}, false},
		"vlan differs":  {l60, l60vlan, false},
		"same 60":       {l60, l60, true},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.Equal, tc.A.Equal(tc.B))
			assert.Equal(t, tc.Equal, tc.B.Equal(tc.A))
		})
	}

	assert.True(t, addr.Label{}.IsNull())
	assert.True(t, addr.NewLabel32(0).IsNull())
	assert.False(t, addr.NewLabel32(1).IsNull())
	zero60, _ := addr.NewLabel60([6]byte{}, 0)
	assert.True(t, zero60.IsNull())
	assert.False(t, l60.IsNull())
}

func TestParseLabel(t *testing.T) {
	l, err := addr.ParseLabel("0x00010002")
	require.NoError(t, err)
	assert.Equal(t, addr.NewLabel32(0x10002), l)
	assert.Equal(t, "0x00010002", l.String())

	l, err = addr.ParseLabel("aa:bb:cc:dd:ee:ff/100")
	require.NoError(t, err)
	assert.Equal(t, addr.Label60, l.Type())
	assert.Equal(t, uint16(100), l.VLAN())

	for _, bad := range []string{"xyz", "aa:bb/1", "aa:bb:cc:dd:ee:ff/5000"} {
		_, err := addr.ParseLabel(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "<unknown label type 0>", addr.Label{}.String())
}
