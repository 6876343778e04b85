package lucygen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"lucy_nodes/logging"

	"go.uber.org/zap"
)

// fileFieldName is the multipart field the provider expects the media
// payload under.
const fileFieldName = "data"

// apiKeyHeader carries the raw API key, never prefixed.
const apiKeyHeader = "X-API-KEY"

// GenerationResult is the raw outcome of a successful provider call.
type GenerationResult struct {
	Bytes               []byte
	DeclaredContentType string
}

// ClientConfig holds configuration for the provider client.
type ClientConfig struct {
	// BaseURL is the endpoint prefix model names are appended to.
	// Must end in a slash.
	BaseURL string

	// Timeout bounds the full round trip. Zero means no timeout: the
	// provider sets none of its own and generations routinely take tens
	// of seconds, so the absence of a deadline is the deliberate default
	// rather than an omission. Callers wanting one set it here or pass a
	// context with a deadline.
	Timeout time.Duration

	// HTTPClient overrides the transport; when nil a client honoring
	// Timeout is created.
	HTTPClient *http.Client
}

// Client performs synchronous generation submissions to the provider.
//
// The call model is one blocking round trip per submission: either the full
// response body comes back as opaque bytes, or the call fails. There is no
// polling, no streaming, and no automatic retry.
//
// Thread Safety: Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

// NewClient creates a provider client.
func NewClient(cfg ClientConfig, logger *logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("lucygen: base URL is required")
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		return nil, fmt.Errorf("lucygen: base URL %q must end in a slash", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		logger:     logger.Named("client"),
	}, nil
}

// Submit performs one generation call against POST {baseURL}{model}.
//
// When filePart is non-nil the request body is multipart form data with the
// media under the "data" field and every entry of fields as a form field;
// otherwise the body is URL-encoded form fields. The API key is sent raw in
// the X-API-KEY header.
//
// Failure modes: TRANSPORT for network-level errors, *ProviderError for
// non-2xx responses (status and body retained for diagnostics). A 2xx
// response returns the full body as opaque bytes; emptiness is the
// decoder's concern, not the client's.
func (c *Client) Submit(ctx context.Context, model, apiKey string, fields map[string]string, filePart *FilePart) (*GenerationResult, error) {
	if model == "" {
		return nil, fmt.Errorf("lucygen: model name is required")
	}

	body, contentType, err := buildRequestBody(fields, filePart)
	if err != nil {
		return nil, fmt.Errorf("lucygen: failed to build request body: %w", err)
	}

	endpoint := c.baseURL + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("lucygen: failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, apiKey)
	req.Header.Set("Content-Type", contentType)

	log := c.logger.With(zap.String("model", model))
	log.Debug("submitting generation request",
		zap.String("endpoint", endpoint),
		zap.Any("fields", fields),
		zap.Bool("has_file", filePart != nil))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(CodeTransport, model, "provider request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(CodeTransport, model, "failed to read provider response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("provider rejected request",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_size", len(respBody)))
		return nil, &ProviderError{Op: model, StatusCode: resp.StatusCode, Body: respBody}
	}

	log.Info("generation response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("size", len(respBody)),
		zap.String("content_type", resp.Header.Get("Content-Type")))

	return &GenerationResult{
		Bytes:               respBody,
		DeclaredContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// buildRequestBody assembles the request body: multipart when a file part
// is present, URL-encoded form otherwise. Fields are written in sorted
// order so request bodies are deterministic.
func buildRequestBody(fields map[string]string, filePart *FilePart) (io.Reader, string, error) {
	if filePart == nil {
		values := url.Values{}
		for key, value := range fields {
			values.Set(key, value)
		}
		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := writer.WriteField(key, fields[key]); err != nil {
			return nil, "", err
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileFieldName, filePart.Filename))
	header.Set("Content-Type", filePart.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(filePart.Content); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
