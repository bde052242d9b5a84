package server

import (
	"blagbl/internal/blag"
	"blagbl/internal/common"
)

// IndexSource supplies the current index and announces replacements.
type IndexSource interface {
	Index() *blag.Index
	Ready() bool
	OnReload(fn func(*blag.Index))
}

// addressResponse is the body of an address lookup, listed or not.
type addressResponse struct {
	Address string              `json:"address"`
	Numeric string              `json:"ip_numeric,omitempty"`
	Listed  bool                `json:"listed"`
	Bogon   bool                `json:"bogon,omitempty"`
	Results []common.AddressRow `json:"results,omitempty"`
}

// asnResponse is the body of an ASN lookup.
type asnResponse struct {
	ASN     string          `json:"asn"`
	Count   int             `json:"count"`
	Results []common.ASNRow `json:"results"`
}
