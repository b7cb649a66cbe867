package daemon

import (
	"context"
	"net/http"
	"time"

	"github.com/rstfmt/rstfmt/pkg/config"
	"github.com/rstfmt/rstfmt/pkg/httputil"
	"github.com/rstfmt/rstfmt/pkg/pipeline"
)

// Client talks to a running daemon. Editor integrations and the CLI's
// --daemon mode use it instead of formatting in-process.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the daemon at baseURL,
// e.g. "http://127.0.0.1:7628".
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Format sends a batch to the daemon. A non-nil cfg overrides the
// daemon's configuration for this request. Transient failures are
// retried with backoff before giving up.
func (c *Client) Format(ctx context.Context, units []pipeline.Unit, cfg *config.Config) ([]UnitResult, error) {
	var resp FormatResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		return httputil.PostJSON(ctx, c.HTTPClient, c.BaseURL+"/v1/format",
			FormatRequest{Units: units, Config: cfg}, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Healthy reports whether the daemon answers its liveness probe.
func (c *Client) Healthy(ctx context.Context) bool {
	err := httputil.GetJSON(ctx, c.HTTPClient, c.BaseURL+"/healthz", nil)
	return err == nil
}
