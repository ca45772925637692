// Package model defines shared types for the relay.
package model

import (
	"context"
	"net/http"
)

// RelayRequest is an inbound request as seen by the relay, independent of the
// surface (HTTP server or Lambda) that received it.
type RelayRequest struct {
	Ctx    context.Context
	Method string
	// Path is the route parameter naming the blob, appended verbatim to the
	// blobs API base URL.
	Path   string
	Header http.Header
	Body   []byte
}

// RelayResponse is the upstream answer, captured in full before it is relayed.
type RelayResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
