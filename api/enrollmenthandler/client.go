package enrollmenthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ruteri/maci-signup/api"
	"github.com/ruteri/maci-signup/enrollment"
	"github.com/ruteri/maci-signup/interfaces"
)

// Client talks to a sign-up relayer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the relayer at baseURL (e.g. "https://relayer.example.com").
// A nil httpClient means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SignUp relays a sign-up and blocks until the relayer reports its outcome.
// Enrollment failures are returned as *enrollment.Error.
func (c *Client) SignUp(ctx context.Context, registry interfaces.ContractAddress, req api.SignUpRequest) (*api.SignUpResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not encode sign-up request: %w", err)
	}

	var resp api.SignUpResponse
	if err := c.do(ctx, http.MethodPost, "/api/signup/"+registry.String(), bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Lookup checks whether the serialized key is signed up to the registry.
func (c *Client) Lookup(ctx context.Context, registry interfaces.ContractAddress, pubKey string) (*interfaces.LookupResult, error) {
	var resp interfaces.LookupResult
	path := fmt.Sprintf("/api/signup/%s/%s", registry.String(), url.PathEscape(pubKey))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Receipt fetches an archived receipt.
func (c *Client) Receipt(ctx context.Context, id interfaces.ContentID) (*interfaces.SignUpReceipt, error) {
	var resp interfaces.SignUpReceipt
	if err := c.do(ctx, http.MethodGet, "/api/receipts/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach relayer: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read relayer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("could not parse relayer response: %w", err)
	}
	return nil
}

// RemoteError is a failure reported by the relayer.
type RemoteError struct {
	StatusCode int
	Response   api.ErrorResponse
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("relayer returned %d: %s", e.StatusCode, e.Response.Error)
}

// decodeError rebuilds an *enrollment.Error when the relayer reported a kind,
// so callers can match it with errors.Is.
func decodeError(status int, body []byte) error {
	remote := &RemoteError{StatusCode: status}
	if err := json.Unmarshal(body, &remote.Response); err != nil || remote.Response.Error == "" {
		remote.Response.Error = strings.TrimSpace(string(body))
	}

	if remote.Response.Kind == "" {
		return remote
	}
	return &enrollment.Error{
		Kind:    enrollment.Kind(remote.Response.Kind),
		Message: remote.Response.Error,
		Err:     remote,
	}
}
