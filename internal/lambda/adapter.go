// Package lambda exposes the relay as an AWS Lambda handler. Handle serves API
// Gateway REST proxy integrations (payload 1.0) and HandleV2 serves HTTP APIs
// and function URLs (payload 2.0). Either way the gateway route must bind the
// blob path as {path+}.
package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"blobs-proxy/internal/model"
	"blobs-proxy/internal/service"
)

// PathParameter is the API Gateway path parameter holding the blob path.
const PathParameter = "path"

// Adapter translates API Gateway proxy events to relay requests and back.
type Adapter struct {
	service *service.RelayService
	logger  *slog.Logger
}

// NewAdapter creates an Adapter.
func NewAdapter(svc *service.RelayService, logger *slog.Logger) *Adapter {
	return &Adapter{
		service: svc,
		logger:  logger.With("component", "lambda_adapter"),
	}
}

// Handle relays one API Gateway REST (payload 1.0) event. A transport failure
// is returned as the invocation error and the Lambda runtime reports it; no
// response is built.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	status, body, err := a.relay(ctx, inbound{
		method:    event.HTTPMethod,
		path:      event.PathParameters[PathParameter],
		header:    eventHeader(event),
		body:      event.Body,
		base64:    event.IsBase64Encoded,
		requestID: event.RequestContext.RequestID,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": service.ResponseContentType},
		Body:       body,
	}, nil
}

// HandleV2 relays one HTTP API or function URL (payload 2.0) event. Cookies
// arrive outside the header map in this format and are not forwarded, the
// same as every other caller header except Content-Type.
func (a *Adapter) HandleV2(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	header := make(http.Header, len(event.Headers))
	for k, v := range event.Headers {
		header.Set(k, v)
	}

	status, body, err := a.relay(ctx, inbound{
		method:    event.RequestContext.HTTP.Method,
		path:      event.PathParameters[PathParameter],
		header:    header,
		body:      event.Body,
		base64:    event.IsBase64Encoded,
		requestID: event.RequestContext.RequestID,
	})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": service.ResponseContentType},
		Body:       body,
	}, nil
}

// inbound is the part of a gateway event the relay needs, whatever the
// payload version.
type inbound struct {
	method    string
	path      string
	header    http.Header
	body      string
	base64    bool
	requestID string
}

func (a *Adapter) relay(ctx context.Context, in inbound) (int, string, error) {
	rr := &model.RelayRequest{
		Ctx:    ctx,
		Method: in.method,
		Path:   in.path,
		Header: in.header,
	}

	if service.HasBody(in.method) {
		body, err := decodeBody(in.body, in.base64)
		if err != nil {
			return 0, "", err
		}
		rr.Body = body
	}

	resp, err := a.service.Forward(rr)
	if err != nil {
		a.logger.Error("relay failed",
			"err", err,
			"method", rr.Method,
			"path", rr.Path,
			"request_id", in.requestID,
		)
		return 0, "", err
	}

	a.logger.Info("request",
		"method", rr.Method,
		"path", rr.Path,
		"status", resp.StatusCode,
		"request_id", in.requestID,
		"bytes_out", len(resp.Body),
	)

	return resp.StatusCode, string(resp.Body), nil
}

// eventHeader merges single- and multi-value headers into a canonical
// http.Header so lookups are case-insensitive.
func eventHeader(event events.APIGatewayProxyRequest) http.Header {
	h := make(http.Header, len(event.Headers))
	for k, vals := range event.MultiValueHeaders {
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	for k, v := range event.Headers {
		if h.Get(k) == "" {
			h.Set(k, v)
		}
	}
	return h
}

func decodeBody(body string, encoded bool) ([]byte, error) {
	if !encoded {
		return []byte(body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return decoded, nil
}
