package dexcom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// VendorTimeFormat is the whole-second timestamp format the vendor contract
// requires for window parameters. No sub-second component.
const VendorTimeFormat = "2006-01-02T15:04:05"

// StatusError is a non-2xx vendor response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vendor API returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// httpClient builds a bearer-authenticated client for one call.
func (c *Client) httpClient(ctx context.Context, accessToken string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = c.timeout
	return client
}

func (c *Client) get(ctx context.Context, accessToken, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient(ctx, accessToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read vendor response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 500)}
	}
	return body, nil
}

// Probe performs the lightweight identity call used to confirm the token is
// live server-side. Any non-2xx means the credential is unusable even if
// the stored expiry looked valid.
func (c *Client) Probe(ctx context.Context, accessToken string) error {
	_, err := c.get(ctx, accessToken, "/users/self", nil)
	return err
}

// ListEGVs fetches glucose values for the window [start, end].
func (c *Client) ListEGVs(ctx context.Context, accessToken string, start, end time.Time) ([]EGV, []error, error) {
	query := url.Values{}
	query.Set("startDate", start.UTC().Format(VendorTimeFormat))
	query.Set("endDate", end.UTC().Format(VendorTimeFormat))

	body, err := c.get(ctx, accessToken, "/users/self/egvs", query)
	if err != nil {
		return nil, nil, err
	}

	egvs, recordErrs := NormalizeEGVs(body)
	return egvs, recordErrs, nil
}

// ListDevices fetches the user's device list.
func (c *Client) ListDevices(ctx context.Context, accessToken string) ([]Device, error) {
	body, err := c.get(ctx, accessToken, "/users/self/devices", nil)
	if err != nil {
		return nil, err
	}
	return NormalizeDevices(body)
}

// ListSessions fetches sensor session data for the window [start, end].
func (c *Client) ListSessions(ctx context.Context, accessToken string, start, end time.Time) ([]SensorSession, error) {
	query := url.Values{}
	query.Set("startDate", start.UTC().Format(VendorTimeFormat))
	query.Set("endDate", end.UTC().Format(VendorTimeFormat))

	body, err := c.get(ctx, accessToken, "/users/self/dataRange", query)
	if err != nil {
		return nil, err
	}
	return NormalizeSessions(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
