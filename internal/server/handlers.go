package server

import (
	"fmt"
	"net/http"
	"strings"

	"blagbl/internal/blag"
	"blagbl/internal/common"
	"blagbl/utils"
)

const favicon = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16"></svg>`

// faviconHandler handles requests for the favicon.
func faviconHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(favicon))
}

// index returns the current index or answers 503 when none is loaded.
func (s *Server) index(w http.ResponseWriter) (*blag.Index, bool) {
	ix := s.source.Index()
	if ix == nil {
		sendJSONError(w, "The blocklist index is not loaded yet.", http.StatusServiceUnavailable)
		return nil, false
	}
	return ix, true
}

// handleAddressLookup looks up the address in the path, or the caller's address for "/".
func (s *Server) handleAddressLookup(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.PathValue("address"))
	if address == "" {
		address = GetRealIP(r)
	}

	ix, ok := s.index(w)
	if !ok {
		return
	}

	rows, listed := common.LookupAddress(ix, address)
	resp := addressResponse{
		Address: address,
		Numeric: blag.NumericAddress(address),
		Listed:  listed,
		Results: rows,
	}
	if !listed {
		resp.Bogon = common.IsBogon(address)
		sendJSONResponse(w, resp, http.StatusNotFound)
		return
	}
	sendJSONResponse(w, resp, http.StatusOK)
}

// handleASNLookup lists the flagged addresses' descriptors for an ASN.
func (s *Server) handleASNLookup(w http.ResponseWriter, r *http.Request) {
	asn := r.PathValue("asn")
	limit, ok := parseLimit(r)
	if !ok {
		sendJSONError(w, "Invalid limit: must be a non-negative number.", http.StatusBadRequest)
		return
	}

	ix, ok := s.index(w)
	if !ok {
		return
	}

	rows := common.LookupASN(ix, asn, limit)
	status := http.StatusOK
	if len(rows) == 0 {
		status = http.StatusNotFound
	}
	sendJSONResponse(w, asnResponse{ASN: asn, Count: len(rows), Results: rows}, status)
}

// filterKey scopes a cached filter to the index it was built from, so a request
// racing a reload can never store an expression for the replaced index under a live key.
func filterKey(ix *blag.Index, asn string, limit int) string {
	return fmt.Sprintf("%p|%s|%d", ix, asn, limit)
}

// handleFilter returns the pcap filter covering an ASN's ranges. Results are cached until reload.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	asn := r.PathValue("asn")
	limit, ok := parseLimit(r)
	if !ok {
		sendJSONError(w, "Invalid limit: must be a non-negative number.", http.StatusBadRequest)
		return
	}

	ix, ok := s.index(w)
	if !ok {
		return
	}

	key := filterKey(ix, asn, limit)
	if expr, ok := s.cache.Get(key); ok {
		sendText(w, expr, http.StatusOK)
		return
	}

	expr, found, err := common.Filter(ix, asn, limit)
	switch {
	case err != nil:
		s.log.Warn("failed to build filter", "asn", asn, "err", err)
		sendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case !found:
		sendJSONError(w, fmt.Sprintf("No blocklist entries found for %s.", asn), http.StatusNotFound)
	default:
		s.cache.Set(key, expr)
		sendText(w, expr, http.StatusOK)
	}
}

func (s *Server) healthHandler() http.Handler {
	return utils.HealthCheck(s.source.Ready)
}
