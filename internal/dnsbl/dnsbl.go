// Package dnsbl answers DNS blocklist queries against the loaded index.
//
// A query for <reversed address>.<zone> answers A 127.0.0.2 and the listing's
// descriptors as TXT when the address is listed, and NXDOMAIN otherwise.
// IPv4 addresses use reversed octets, IPv6 addresses reversed nibbles.
package dnsbl

import (
	"log/slog"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"blagbl/internal/blag"
	"blagbl/internal/metrics"

	"github.com/miekg/dns"
)

const (
	ttl        = 300
	maxTXTPart = 255
)

// ListedAnswer is the A record returned for listed addresses.
var ListedAnswer = net.IPv4(127, 0, 0, 2)

// IndexSource supplies the current index.
type IndexSource interface {
	Index() *blag.Index
}

// Responder is a dns.Handler for one zone.
type Responder struct {
	zone   string
	source IndexSource
	log    *slog.Logger
}

// NewResponder creates a responder for zone.
func NewResponder(zone string, source IndexSource, log *slog.Logger) *Responder {
	if log == nil {
		log = slog.Default()
	}
	return &Responder{zone: dns.CanonicalName(zone), source: source, log: log}
}

// ServeDNS implements dns.Handler.
func (r *Responder) ServeDNS(w dns.ResponseWriter, req *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(req)
	m.Authoritative = true

	qtype, result := "-", "formerr"
	defer func() {
		metrics.DNSQueries.WithLabelValues(qtype, result).Inc()
		if err := w.WriteMsg(m); err != nil {
			r.log.Warn("failed to write dns response", "err", err)
		}
	}()

	if len(req.Question) != 1 {
		m.SetRcode(req, dns.RcodeFormatError)
		return
	}
	q := req.Question[0]
	qtype = dns.TypeToString[q.Qtype]

	if !dns.IsSubDomain(r.zone, dns.CanonicalName(q.Name)) {
		m.SetRcode(req, dns.RcodeRefused)
		result = "refused"
		return
	}

	addr, ok := ParseQueryName(q.Name, r.zone)
	if !ok {
		m.SetRcode(req, dns.RcodeNameError)
		result = "invalid"
		return
	}

	ix := r.source.Index()
	if ix == nil {
		m.SetRcode(req, dns.RcodeServerFailure)
		result = "unavailable"
		return
	}

	entry, listed := ix.LookupAddress(addr.String())
	if !listed {
		m.SetRcode(req, dns.RcodeNameError)
		result = "miss"
		return
	}
	result = "hit"

	hdr := dns.RR_Header{Name: q.Name, Class: dns.ClassINET, Ttl: ttl}
	switch q.Qtype {
	case dns.TypeA, dns.TypeANY:
		hdr.Rrtype = dns.TypeA
		m.Answer = append(m.Answer, &dns.A{Hdr: hdr, A: ListedAnswer})
	}
	switch q.Qtype {
	case dns.TypeTXT, dns.TypeANY:
		hdr.Rrtype = dns.TypeTXT
		for _, d := range entry.Descriptors {
			m.Answer = append(m.Answer, &dns.TXT{Hdr: hdr, Txt: splitTXT(d.Raw)})
		}
	}
	r.log.Debug("dnsbl hit", "address", entry.Address, "qtype", qtype)
}

// ParseQueryName extracts the address encoded in a query name under zone.
func ParseQueryName(name, zone string) (netip.Addr, bool) {
	name, zone = dns.CanonicalName(name), dns.CanonicalName(zone)
	if !dns.IsSubDomain(zone, name) || name == zone {
		return netip.Addr{}, false
	}
	prefix := strings.TrimSuffix(name, zone)
	if zone == "." {
		prefix = name
	}
	labels := dns.SplitDomainName(prefix)

	switch len(labels) {
	case 4:
		var b [4]byte
		for i, l := range labels {
			n, err := strconv.ParseUint(l, 10, 8)
			if err != nil || (len(l) > 1 && l[0] == '0') {
				return netip.Addr{}, false
			}
			b[3-i] = byte(n)
		}
		return netip.AddrFrom4(b), true
	case 32:
		var b [16]byte
		for i, l := range labels {
			if len(l) != 1 {
				return netip.Addr{}, false
			}
			n, err := strconv.ParseUint(l, 16, 4)
			if err != nil {
				return netip.Addr{}, false
			}
			pos := 31 - i
			if pos%2 == 0 {
				b[pos/2] |= byte(n) << 4
			} else {
				b[pos/2] |= byte(n)
			}
		}
		return netip.AddrFrom16(b), true
	}
	return netip.Addr{}, false
}

// QueryName builds the name to query for addr under zone.
func QueryName(addr netip.Addr, zone string) string {
	var labels []string
	if addr.Is4() {
		b := addr.As4()
		for i := len(b) - 1; i >= 0; i-- {
			labels = append(labels, strconv.Itoa(int(b[i])))
		}
	} else {
		b := addr.As16()
		for i := len(b) - 1; i >= 0; i-- {
			labels = append(labels, strconv.FormatUint(uint64(b[i]&0x0f), 16), strconv.FormatUint(uint64(b[i]>>4), 16))
		}
	}
	zone = dns.CanonicalName(zone)
	if zone == "." {
		return strings.Join(labels, ".") + "."
	}
	return strings.Join(labels, ".") + "." + zone
}

// splitTXT cuts s into character-strings of at most 255 bytes.
func splitTXT(s string) []string {
	if s == "" {
		return []string{""}
	}
	var parts []string
	for len(s) > maxTXTPart {
		parts = append(parts, s[:maxTXTPart])
		s = s[maxTXTPart:]
	}
	return append(parts, s)
}
