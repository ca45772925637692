// Package service implements the core relay logic.
package service

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"blobs-proxy/internal/client"
	"blobs-proxy/internal/config"
	"blobs-proxy/internal/model"
)

// ResponseContentType labels every relayed response, whatever the upstream sent.
const ResponseContentType = "application/json"

// defaultRequestContentType is sent upstream when the caller gave none.
const defaultRequestContentType = "application/json"

// bodylessMethods never carry a body upstream, even if the caller sent one.
var bodylessMethods = map[string]bool{
	http.MethodGet:  true,
	http.MethodHead: true,
}

// RelayService translates inbound requests into blobs API calls.
type RelayService struct {
	client  *client.BlobsClient
	baseURL string
	token   string
	logger  *slog.Logger
}

// NewRelayService creates a RelayService. The bearer token is captured here
// once; request handling never consults the environment.
func NewRelayService(c *client.BlobsClient, cfg *config.Config, logger *slog.Logger) *RelayService {
	return &RelayService{
		client:  c,
		baseURL: cfg.Blobs.BaseURL,
		token:   cfg.Blobs.Token,
		logger:  logger.With("component", "relay_service"),
	}
}

// Forward issues exactly one upstream call for rr and returns the upstream
// status and body. Upstream error statuses are not errors here; only transport
// failures are returned.
func (s *RelayService) Forward(rr *model.RelayRequest) (*model.RelayResponse, error) {
	var body io.Reader
	if HasBody(rr.Method) {
		body = bytes.NewReader(rr.Body)
	}

	s.logger.Debug("relaying request",
		"method", rr.Method,
		"path", rr.Path,
		"body_bytes", len(rr.Body),
	)

	resp, err := s.client.Send(rr.Ctx, rr.Method, s.UpstreamURL(rr.Path), s.upstreamHeaders(rr.Header), body)
	if err != nil {
		return nil, fmt.Errorf("relay %s %s: %w", rr.Method, rr.Path, err)
	}

	return &model.RelayResponse{
		StatusCode: resp.StatusCode,
		Header:     http.Header{"Content-Type": {ResponseContentType}},
		Body:       resp.Body,
	}, nil
}

// UpstreamURL appends the route parameter to the base URL without escaping it.
func (s *RelayService) UpstreamURL(path string) string {
	return s.baseURL + path
}

// HasBody reports whether a request with the given method forwards its body.
func HasBody(method string) bool {
	return !bodylessMethods[method]
}

// upstreamHeaders builds the full upstream header set. Only Content-Type is
// taken from the caller; Authorization always comes from configuration.
func (s *RelayService) upstreamHeaders(src http.Header) http.Header {
	contentType := src.Get("Content-Type")
	if contentType == "" {
		contentType = defaultRequestContentType
	}
	return http.Header{
		"Content-Type":  {contentType},
		"Authorization": {"Bearer " + s.token},
	}
}
