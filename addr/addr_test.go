package addr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayuresh82/go-gmpls-te/addr"
)

func TestMake(t *testing.T) {
	testCases := map[string]struct {
		Type      addr.Type
		Bytes     []byte
		Prefix    uint8
		Assertion assert.ErrorAssertionFunc
	}{
		"ipv4":        {addr.TypeIPv4, []byte{10, 0, 0, 1}, 32, assert.NoError},
		"ipv6":        {addr.TypeIPv6, make([]byte, 16), 128, assert.NoError},
		"unnumbered":  {addr.TypeUnnumbered, []byte{0, 0, 0, 7}, 0, assert.NoError},
		"nsap":        {addr.TypeNSAP, make([]byte, 20), 160, assert.NoError},
		"unknown":     {addr.Type(9), []byte{1, 2, 3, 4}, 0, assert.Error},
		"short ipv6":  {addr.TypeIPv6, []byte{1, 2, 3, 4}, 0, assert.Error},
		"type none":   {addr.TypeNone, nil, 0, assert.Error},
		"long ipv4":   {addr.TypeIPv4, make([]byte, 5), 0, assert.Error},
		"short nsap":  {addr.TypeNSAP, make([]byte, 16), 0, assert.Error},
		"unnum bytes": {addr.TypeUnnumbered, make([]byte, 8), 0, assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			a, err := addr.Make(tc.Type, tc.Bytes)
			tc.Assertion(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.Type, a.Type())
			assert.Equal(t, tc.Prefix, a.PrefixLen())
			assert.Equal(t, tc.Bytes, a.Bytes())
		})
	}
}

func TestEqual(t *testing.T) {
	all := []addr.Addr{
		addr.MustParse("10.0.0.1"),
		addr.MustParse("2001:db8::1"),
		addr.Unnumbered(42),
		addr.MustParse("49000102.03040506.0708090a.0b0c0d0e.0f101112"),
		{},
	}
	for _, a := range all {
		assert.True(t, addr.Equal(a, a), a.String())
		for _, b := range all {
			assert.Equal(t, addr.Equal(a, b), addr.Equal(b, a), "%s vs %s", a, b)
		}
	}

	t.Run("prefix ignored", func(t *testing.T) {
		assert.True(t, addr.Equal(addr.MustParse("10.0.0.0/8"), addr.MustParse("10.0.0.0/32")))
	})
	t.Run("family mismatch", func(t *testing.T) {
		v4 := addr.MustParse("0.0.0.7")
		assert.False(t, addr.Equal(v4, addr.Unnumbered(7)))
	})
	t.Run("payload mismatch", func(t *testing.T) {
		assert.False(t, addr.MustParse("2001:db8::1").Equal(addr.MustParse("2001:db8::2")))
	})
}

func TestIsNull(t *testing.T) {
	for _, typ := range []addr.Type{addr.TypeIPv4, addr.TypeIPv6, addr.TypeUnnumbered, addr.TypeNSAP} {
		zero, err := addr.Make(typ, make([]byte, typ.ByteLen()))
		require.NoError(t, err)
		assert.True(t, zero.IsNull(), typ.String())

		b := make([]byte, typ.ByteLen())
		b[len(b)-1] = 1
		a, err := addr.Make(typ, b)
		require.NoError(t, err)
		assert.False(t, a.IsNull(), typ.String())
	}
	assert.True(t, addr.Addr{}.IsNull())
}

func TestInNetwork(t *testing.T) {
	testCases := map[string]struct {
		Net, Addr addr.Addr
		Want      bool
	}{
		"ipv4 contained": {
			addr.MustParse("10.0.0.0/8"), addr.MustParse("10.1.2.3/32"), true,
		},
		"ipv4 outside": {
			addr.MustParse("10.0.0.0/8"), addr.MustParse("11.0.0.0/8"), false,
		},
		"ipv4 partial word": {
			addr.MustParse("192.168.0.0/23"), addr.MustParse("192.168.1.200"), true,
		},
		"ipv4 partial word outside": {
			addr.MustParse("192.168.0.0/23"), addr.MustParse("192.168.2.1"), false,
		},
		"net longer than addr": {
			addr.MustParse("10.1.0.0/16"), addr.MustParse("10.0.0.0/8"), false,
		},
		"zero prefix": {
			addr.MustParse("0.0.0.0/0"), addr.MustParse("172.16.0.1"), true,
		},
		"ipv6 contained": {
			addr.MustParse("2001:db8::/32"), addr.MustParse("2001:db8:1:2::5"), true,
		},
		"ipv6 second word": {
			addr.MustParse("2001:db8:ff00::/40"), addr.MustParse("2001:db8:fe00::1"), false,
		},
		"nsap contained": {
			addr.MustParse("49000100.00000000.00000000.00000000.00000000/24"),
			addr.MustParse("490001aa.bbccddee.00000000.00000000.00000001"),
			true,
		},
		"family mismatch": {
			addr.MustParse("10.0.0.0/8"), addr.MustParse("::a00:1"), false,
		},
		"unnumbered never": {
			addr.Unnumbered(1), addr.Unnumbered(1), false,
		},
		"untyped": {addr.Addr{}, addr.Addr{}, false},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.Want, addr.InNetwork(tc.Net, tc.Addr))
		})
	}
}

func TestGreaterThan(t *testing.T) {
	assert.True(t, addr.GreaterThan(addr.MustParse("10.0.0.2"), addr.MustParse("10.0.0.1")))
	assert.False(t, addr.GreaterThan(addr.MustParse("10.0.0.1"), addr.MustParse("10.0.0.1")))
	assert.True(t, addr.GreaterThan(addr.Unnumbered(3), addr.Unnumbered(2)))
	assert.False(t, addr.GreaterThan(addr.Unnumbered(3), addr.MustParse("0.0.0.2")))

	// every word must be larger, lexicographic order is not enough
	assert.False(t, addr.GreaterThan(addr.MustParse("2::"), addr.MustParse("1::")))
	assert.True(t, addr.GreaterThan(
		addr.MustParse("2:0:2:0:2:0:2:2"), addr.MustParse("1:0:1:0:1:0:1:1")))
	assert.True(t, addr.GreaterThan(
		addr.MustParse("00000002.00000002.00000002.00000002.00000002"),
		addr.MustParse("00000001.00000001.00000001.00000001.00000001")))
}

func TestStringParse(t *testing.T) {
	testCases := []string{
		"10.1.2.3/32",
		"10.0.0.0/8",
		"2001:db8::1/128",
		"0x0000002a",
		"49000102.03040506.0708090a.0b0c0d0e.0f101112/160",
	}
	for _, s := range testCases {
		t.Run(s, func(t *testing.T) {
			a, err := addr.Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, a.String())
		})
	}
	assert.Equal(t, "<unknown addr type 0>", addr.Addr{}.String())

	for _, bad := range []string{"", "10.0.0.0/33", "0xzz", "1.2.3", "nope/8", "::1/129"} {
		_, err := addr.Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestWithPrefix(t *testing.T) {
	a, err := addr.Unnumbered(5).WithPrefix(1)
	assert.Error(t, err)
	assert.Equal(t, uint8(0), a.PrefixLen())

	_, err = addr.Addr{}.WithPrefix(0)
	assert.Error(t, err)
}
