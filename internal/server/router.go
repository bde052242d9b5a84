package server

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter creates the request router and applies middleware.
func (s *Server) newRouter() (http.Handler, error) {
	mux := http.NewServeMux()

	mux.Handle("GET /health", s.healthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /favicon.ico", faviconHandler)
	mux.HandleFunc("GET /asn/{asn}", s.handleASNLookup)
	mux.HandleFunc("GET /filter/{asn}", s.handleFilter)
	mux.HandleFunc("GET /{address}", s.handleAddressLookup)
	mux.HandleFunc("GET /{$}", s.handleAddressLookup)

	gzip, err := gzhttp.NewWrapper(gzhttp.MinSize(0))
	if err != nil {
		return nil, err
	}
	return loggingMiddleware(s.log, gzip(mux)), nil
}
