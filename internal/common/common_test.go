package common

import (
	"testing"
	"time"

	"blagbl/internal/blag"

	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *blag.Index {
	t.Helper()
	ix, err := blag.Load(
		"10.0.0.5,m1,m2\n2001:db8::1,m1",
		"\"ASN:111,OwnerX,US,167772160-167772161\",m1\nalienvault,m2",
	)
	require.NoError(t, err)
	return ix
}

func TestCommon_LookupAddress(t *testing.T) {
	t.Parallel()

	rows, ok := LookupAddress(testIndex(t), "10.0.0.5")
	require.True(t, ok)
	require.Len(t, rows, 2)
	require.Equal(t, AddressRow{
		Address: "10.0.0.5",
		Numeric: "167772165",
		ASN:     "ASN:111",
		Owner:   "OwnerX",
		Country: "US",
		IPRange: "167772160-167772161",
		Raw:     "ASN:111,OwnerX,US,167772160-167772161",
	}, rows[0])
	require.Equal(t, []string{"10.0.0.5", "167772165", "", "alienvault", "", ""}, rows[1].Values())

	_, ok = LookupAddress(testIndex(t), "10.0.0.6")
	require.False(t, ok)
}

func TestCommon_RowsAppendTo(t *testing.T) {
	t.Parallel()

	rows, ok := LookupAddress(testIndex(t), "10.0.0.5")
	require.True(t, ok)
	require.Equal(t,
		[]string{"key", "10.0.0.5", "167772165", "ASN:111", "OwnerX", "US", "167772160-167772161"},
		rows[0].AppendTo([]string{"key", "10.0.0.5"}),
	)

	asn := LookupASN(testIndex(t), "ASN:111", 1)
	require.Len(t, asn, 1)
	require.Equal(t, []string{"ASN:111", "OwnerX", "US", "167772160-167772161"}, asn[0].AppendTo([]string{"ASN:111"}))
	require.Equal(t, []string{"-", "-", "-"}, Filler(3))
}

func TestCommon_Filter(t *testing.T) {
	t.Parallel()

	expr, ok, err := Filter(testIndex(t), "ASN:111", 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "( net 10.0.0.0/31 or net 10.0.0.0/31 )", expr)

	_, ok, err = Filter(testIndex(t), "ASN:404", 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCommon_IsBogon(t *testing.T) {
	t.Parallel()

	require.True(t, IsBogon("10.0.0.5"))
	require.True(t, IsBogon("::ffff:192.168.1.1"))
	require.True(t, IsBogon("2001:db8::1"))
	require.False(t, IsBogon("8.8.8.8"))
	require.False(t, IsBogon("not-an-ip"))
}

func TestCommon_Cache(t *testing.T) {
	t.Parallel()

	c := NewCache(time.Minute)
	c.Set("AS1", "( net 1.0.0.0/24 )")
	v, ok := c.Get("AS1")
	require.True(t, ok)
	require.Equal(t, "( net 1.0.0.0/24 )", v)

	c.Purge()
	_, ok = c.Get("AS1")
	require.False(t, ok)
	require.Zero(t, c.Len())
}
