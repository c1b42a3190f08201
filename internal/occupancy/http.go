package occupancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// ErrUnexpectedStatus is returned for non-2xx HTTP replies.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// HTTP reads the count from a JSON endpoint.
type HTTP struct {
	// client performs the requests.
	client *resty.Client
	// url is the endpoint queried with GET.
	url string
	// field is the JSON field holding the count.
	field string
}

// NewHTTP creates an HTTP source. A zero timeout leaves requests bounded only by the context.
func NewHTTP(cfg *config.HTTPSource, timeout time.Duration) *HTTP {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "crowd-alarm")

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	field := cfg.Field
	if field == "" {
		field = config.DefaultCountField
	}

	return &HTTP{
		client: client,
		url:    cfg.URL,
		field:  field,
	}
}

// Count performs one GET request.
func (h *HTTP) Count(ctx context.Context) (int, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(h.url)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", h.url, err)
	}

	if resp.IsError() {
		return 0, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status(), h.url)
	}

	return parseJSONField(resp.Body(), h.field)
}

// Close drops idle connections.
func (h *HTTP) Close() error {
	h.client.GetClient().CloseIdleConnections()

	return nil
}
