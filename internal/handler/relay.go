package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"blobs-proxy/internal/config"
	"blobs-proxy/internal/model"
	"blobs-proxy/internal/service"
)

// RelayHandler forwards blob requests to the upstream blobs API.
type RelayHandler struct {
	service *service.RelayService
	prefix  string
	logger  *slog.Logger
}

// NewRelayHandler creates a RelayHandler.
func NewRelayHandler(svc *service.RelayService, cfg *config.Config, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		service: svc,
		prefix:  cfg.Server.RoutePrefix + "/",
		logger:  logger.With("component", "relay_handler"),
	}
}

// Handle relays the request to the blobs API. Everything after the route
// prefix is the blob path, kept in its escaped form. Transport failures are
// returned to Echo's error handler unchanged; no response is synthesized here.
//
// The response set here carries only Content-Type. Headers such as
// X-Request-Id or X-Content-Type-Options come from server middleware, not from
// the relay.
func (h *RelayHandler) Handle(c echo.Context) error {
	req := c.Request()

	rr := &model.RelayRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		Path:   h.blobPath(req.URL),
		Header: req.Header,
	}

	if service.HasBody(req.Method) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("read request body: %w", err)
		}
		rr.Body = body
	}

	resp, err := h.service.Forward(rr)
	if err != nil {
		h.logger.Error("relay failed",
			"err", err,
			"method", rr.Method,
			"path", rr.Path,
		)
		return err
	}

	return c.Blob(resp.StatusCode, service.ResponseContentType, resp.Body)
}

// blobPath returns the request path after the route prefix, still escaped.
// Echo's wildcard is decoded whenever URL.RawPath is empty, which turns %3F
// and %23 into ? and # and would change the upstream key.
func (h *RelayHandler) blobPath(u *url.URL) string {
	return strings.TrimPrefix(u.EscapedPath(), h.prefix)
}
