package dnsbl

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"strings"
	"testing"
	"time"

	"blagbl/internal/blag"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

const zone = "bl.example."

type staticSource struct{ ix *blag.Index }

func (s staticSource) Index() *blag.Index { return s.ix }

func testIndex(t *testing.T) *blag.Index {
	t.Helper()
	ix, err := blag.Load(
		"192.0.2.7,m1,m2\n2001:db8::1,m1\n",
		"\"ASN:111,OwnerX,US,192.0.2.0-192.0.2.255\",m1\nalienvault,m2\n",
	)
	require.NoError(t, err)
	return ix
}

func TestDNSBL_QueryName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "7.2.0.192.bl.example.", QueryName(netip.MustParseAddr("192.0.2.7"), zone))
	require.Equal(t,
		"1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2.bl.example.",
		QueryName(netip.MustParseAddr("2001:db8::1"), "bl.example"))
	require.Equal(t, "1.0.0.127.", QueryName(netip.MustParseAddr("127.0.0.1"), "."))
}

func TestDNSBL_ParseQueryName(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"192.0.2.7", "2001:db8::1", "::", "255.255.255.255", "fe80::abcd:1"} {
		addr := netip.MustParseAddr(s)
		got, ok := ParseQueryName(QueryName(addr, zone), zone)
		require.True(t, ok, s)
		require.Equal(t, addr, got)
	}

	got, ok := ParseQueryName("7.2.0.192.BL.Example", zone)
	require.True(t, ok, "names are case-insensitive")
	require.Equal(t, "192.0.2.7", got.String())

	for _, name := range []string{
		"bl.example.",
		"2.0.192.bl.example.",
		"256.2.0.192.bl.example.",
		"07.2.0.192.bl.example.",
		"x.2.0.192.bl.example.",
		"7.2.0.192.other.example.",
		strings.Repeat("g.", 32) + zone,
	} {
		_, ok := ParseQueryName(name, zone)
		require.False(t, ok, name)
	}
}

func TestDNSBL_SplitTXT(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"short"}, splitTXT("short"))
	parts := splitTXT(strings.Repeat("a", 600))
	require.Len(t, parts, 3)
	require.Len(t, parts[0], 255)
	require.Len(t, parts[2], 90)
}

func startServer(t *testing.T, src IndexSource) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() { done <- ServeConns(ctx, pc, nil, NewResponder(zone, src, log), log) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("dnsbl server did not stop")
		}
	})
	return pc.LocalAddr().String()
}

func exchange(t *testing.T, addr, name string, qtype uint16) *dns.Msg {
	t.Helper()
	c := &dns.Client{Net: "udp", Timeout: time.Second}
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)

	var resp *dns.Msg
	require.Eventually(t, func() bool {
		var err error
		resp, _, err = c.Exchange(m, addr)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	return resp
}

func TestDNSBL_Responder(t *testing.T) {
	t.Parallel()

	addr := startServer(t, staticSource{ix: testIndex(t)})
	listed := QueryName(netip.MustParseAddr("192.0.2.7"), zone)

	resp := exchange(t, addr, listed, dns.TypeA)
	require.Equal(t, dns.RcodeSuccess, resp.Rcode)
	require.True(t, resp.Authoritative)
	require.Len(t, resp.Answer, 1)
	a, ok := resp.Answer[0].(*dns.A)
	require.True(t, ok)
	require.True(t, a.A.Equal(ListedAnswer))

	resp = exchange(t, addr, listed, dns.TypeTXT)
	require.Equal(t, dns.RcodeSuccess, resp.Rcode)
	require.Len(t, resp.Answer, 2)
	require.Equal(t, []string{"ASN:111,OwnerX,US,192.0.2.0-192.0.2.255"}, resp.Answer[0].(*dns.TXT).Txt)
	require.Equal(t, []string{"alienvault"}, resp.Answer[1].(*dns.TXT).Txt)

	resp = exchange(t, addr, QueryName(netip.MustParseAddr("2001:db8::1"), zone), dns.TypeA)
	require.Equal(t, dns.RcodeSuccess, resp.Rcode)
	require.Len(t, resp.Answer, 1)

	resp = exchange(t, addr, listed, dns.TypeMX)
	require.Equal(t, dns.RcodeSuccess, resp.Rcode)
	require.Empty(t, resp.Answer)

	resp = exchange(t, addr, QueryName(netip.MustParseAddr("192.0.2.8"), zone), dns.TypeA)
	require.Equal(t, dns.RcodeNameError, resp.Rcode)

	resp = exchange(t, addr, "junk."+zone, dns.TypeA)
	require.Equal(t, dns.RcodeNameError, resp.Rcode)

	resp = exchange(t, addr, "7.2.0.192.elsewhere.example.", dns.TypeA)
	require.Equal(t, dns.RcodeRefused, resp.Rcode)
}

func TestDNSBL_ResponderWithoutIndex(t *testing.T) {
	t.Parallel()

	addr := startServer(t, staticSource{})
	resp := exchange(t, addr, QueryName(netip.MustParseAddr("192.0.2.7"), zone), dns.TypeA)
	require.Equal(t, dns.RcodeServerFailure, resp.Rcode)
}
