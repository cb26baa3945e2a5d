package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelofallars/rentbill/internal/header"
)

// TokenField is the form field holding the CSRF token.
const TokenField = "csrfmiddlewaretoken"

type Client struct {
	httpClient *http.Client
}

// NewClient wraps httpClient. A nil client uses [http.DefaultClient].
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

var ErrMalformedResponse = errors.New("status update response is not valid JSON")

// Response is the body of a status update reply. Success replies carry
// NewStatus, failures carry Error.
type Response struct {
	Success   bool   `json:"success"`
	NewStatus string `json:"new_status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// UpdateStatus posts values form-encoded to action. The CSRF token in
// values is forwarded as a header as well.
//
// The reply body is decoded whatever the status code; servers report
// rejected updates as a JSON body with Success unset.
func (c *Client) UpdateStatus(ctx context.Context, action string, values url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building status update request: %w", err)
	}
	req.Header.Set(header.ContentType, "application/x-www-form-urlencoded")
	req.Header.Set(header.RequestedWith, header.XMLHttpRequest)
	req.Header.Set(header.CSRFToken, values.Get(TokenField))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w (HTTP %d): %w", ErrMalformedResponse, resp.StatusCode, err)
	}

	return &out, nil
}
