package docai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds one processing call end to end.
const DefaultTimeout = 120 * time.Second

// RESTClient calls the document-understanding service over its JSON REST
// surface. One call per document; retries are the caller's concern.
type RESTClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a RESTClient.
type Option func(*RESTClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *RESTClient) { c.token = token }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *RESTClient) { c.logger = logger }
}

// NewRESTClient returns a client for the given processor endpoint, e.g.
// "https://documentai.example.com/v1/projects/p/locations/us/processors/x".
func NewRESTClient(endpoint string, opts ...Option) (*RESTClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("docai: endpoint is required")
	}
	c := &RESTClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Process submits the document and decodes the structured response.
func (c *RESTClient) Process(ctx context.Context, document []byte, mimeType string) (*Response, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("docai: empty document")
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	body, err := json.Marshal(processRequest{
		RawDocument: rawDocument{
			Content:  encodeDocument(document),
			MimeType: mimeType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("docai: encoding request: %w", err)
	}

	url := c.endpoint + ":process"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("docai: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("docai: processing request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("docai: reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("docai: service returned %d: %s", httpResp.StatusCode, truncate(raw, 512))
	}

	resp, err := decodeResponse(raw, httpResp.Header.Get("X-Processor-Version"))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("document processed",
		slog.Int("document_bytes", len(document)),
		slog.Int("entities", len(resp.Entities)),
		slog.Int("pages", len(resp.Pages)),
		slog.Duration("duration", time.Since(start)))
	return resp, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
