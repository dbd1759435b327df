package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/config"
	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/validation"
)

const (
	httpErrorPrefix  = "HTTP request failed"
	maxResponseBytes = 10 << 20
	maxRetries       = 10
)

// HTTPConfig is the validated configuration of an http-request node.
type HTTPConfig struct {
	URL     string            `json:"url" validate:"required,url"`
	Method  string            `json:"method" validate:"oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
	Timeout time.Duration     `json:"timeout" validate:"gt=0"`
	Retries int               `json:"retries" validate:"gte=0,lte=10"`
}

// HTTPRequest performs the configured request and outputs
// {status, statusText, data, headers, url, method}.
type HTTPRequest struct {
	opts options
}

// Execute implements circuitcraft.Handler.
func (h *HTTPRequest) Execute(ctx circuitcraft.Context, node circuitcraft.Node, _ any) (any, error) {
	cfg, err := h.parseConfig(node)
	if err != nil {
		return nil, err
	}

	call := func(ctx context.Context) (map[string]any, error) {
		return h.do(ctx, cfg)
	}

	if cfg.Retries == 0 {
		out, err := call(ctx)
		if err != nil {
			return nil, h.wrap(err)
		}
		return out, nil
	}

	policy := h.opts.retry
	policy.MaxAttempts = cfg.Retries + 1
	res := ccerrors.WithRetryContext(ctx, policy, call)
	if res.Err != nil {
		ctx.Logger().Debug("http request gave up",
			"url", cfg.URL,
			"attempts", res.Attempts,
			"duration_ms", float64(res.Duration.Microseconds())/1000.0,
		)
		return nil, h.wrap(res.Err)
	}
	return res.Value, nil
}

// wrap attaches the connector prefix, except for connection failures whose
// message already names the problem.
func (h *HTTPRequest) wrap(err error) error {
	var netErr *ccerrors.NetworkError
	if errors.As(err, &netErr) && netErr.StatusCode == 0 {
		return fail("", err)
	}
	return fail(httpErrorPrefix, err)
}

// parseConfig reads and validates the node config.
func (h *HTTPRequest) parseConfig(node circuitcraft.Node) (HTTPConfig, error) {
	c := config.New(node.Config)

	cfg := HTTPConfig{
		URL:     strings.TrimSpace(c.String("url", "")),
		Method:  strings.ToUpper(strings.TrimSpace(c.String("method", ""))),
		Body:    c.Any("body", nil),
		Timeout: c.Millis("timeout", h.opts.httpTimeout),
		Retries: c.Int("retries", 0),
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}

	headers, err := c.StringMap("headers")
	if err != nil {
		return cfg, invalid(httpErrorPrefix, "headers", "Invalid headers format. Must be valid JSON.")
	}
	cfg.Headers = headers

	for _, v := range validation.Violations(cfg) {
		switch v.Field {
		case "url":
			if v.Tag == "required" {
				return cfg, invalid(httpErrorPrefix, "url", "URL is required for HTTP Request")
			}
			return cfg, invalid(httpErrorPrefix, "url", "Invalid URL format: %s", cfg.URL)
		case "method":
			return cfg, invalid(httpErrorPrefix, "method", "Unsupported HTTP method: %s", cfg.Method)
		case "timeout":
			return cfg, invalid(httpErrorPrefix, "timeout", "Timeout must be greater than 0")
		case "retries":
			return cfg, invalid(httpErrorPrefix, "retries", "Retries must be between 0 and %d", maxRetries)
		default:
			return cfg, fail(httpErrorPrefix, validation.Validate(cfg))
		}
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return cfg, invalid(httpErrorPrefix, "url", "Invalid URL format: %s", cfg.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return cfg, invalid(httpErrorPrefix, "url",
			"Unsupported protocol: %s:. Only HTTP and HTTPS are allowed.", u.Scheme)
	}
	if u.Host == "" {
		return cfg, invalid(httpErrorPrefix, "url", "Invalid URL format: %s", cfg.URL)
	}
	return cfg, nil
}

// do performs a single attempt.
func (h *HTTPRequest) do(ctx context.Context, cfg HTTPConfig) (map[string]any, error) {
	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	body, hasBody, err := encodeBody(cfg)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(reqCtx, cfg.Method, cfg.URL, body)
	if err != nil {
		return nil, ccerrors.Validation("url", "Invalid URL format: %s", cfg.URL)
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.opts.client.Do(req)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
			return nil, &ccerrors.TimeoutError{
				Operation: cfg.Method + " " + cfg.URL,
				Duration:  cfg.Timeout,
			}
		default:
			return nil, &ccerrors.NetworkError{
				Endpoint: cfg.URL,
				Message: fmt.Sprintf("Could not connect to %s. Check if the server is running and the URL is correct.",
					cfg.URL),
				Err: err,
			}
		}
	}
	defer func() { _ = resp.Body.Close() }()

	statusText := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if statusText == "" {
		statusText = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ccerrors.NetworkError{
			StatusCode: resp.StatusCode,
			Status:     statusText,
			Endpoint:   cfg.URL,
			Message:    "Request failed",
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ccerrors.NetworkError{
			Endpoint: cfg.URL,
			Message:  "Could not read response from " + cfg.URL,
			Err:      err,
		}
	}

	var data any = string(raw)
	if isJSON(resp.Header.Get("Content-Type")) {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, &ccerrors.NetworkError{
				StatusCode: resp.StatusCode,
				Endpoint:   cfg.URL,
				Message:    "Response is not valid JSON despite Content-Type header",
				Err:        err,
			}
		}
	}

	return map[string]any{
		"status":     resp.StatusCode,
		"statusText": statusText,
		"data":       data,
		"headers":    flattenHeaders(resp.Header),
		"url":        cfg.URL,
		"method":     cfg.Method,
	}, nil
}

// encodeBody returns the request body for methods that carry one.
func encodeBody(cfg HTTPConfig) (io.Reader, bool, error) {
	switch cfg.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, false, nil
	}

	switch b := cfg.Body.(type) {
	case nil:
		return nil, false, nil
	case string:
		if b == "" {
			return nil, false, nil
		}
		return strings.NewReader(b), true, nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, false, ccerrors.Validation("body", "Invalid body format: %v", err)
		}
		return bytes.NewReader(encoded), true, nil
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// flattenHeaders lowercases names and joins repeated values.
func flattenHeaders(h http.Header) map[string]any {
	out := make(map[string]any, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}
