package vehicle

import (
	"context"
	"fmt"
	"hivemind-service/internal/domain"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// HTTPClient implements VehicleClient over the vehicles' form-encoded HTTP
// protocol. Each call is a single attempt; callers bound it with ctx.
//
// The client is safe for concurrent use.
type HTTPClient struct {
	session *http.Client
}

// NewHTTPClient returns a client whose transport-level timeout is timeout.
// Zero leaves only the per-call context as a bound.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{session: &http.Client{Timeout: timeout}}
}

// SendCommand posts cmd to <baseURL>/command.
func (c *HTTPClient) SendCommand(ctx context.Context, baseURL string, cmd domain.Command) error {
	body := strings.NewReader(cmd.Values().Encode())

	req, err := c.newRequest(ctx, http.MethodPost, endpoint(baseURL, "/command"), body)
	if err != nil {
		return fmt.Errorf("send %s command: %w", cmd.Type, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("send %s command: %w", cmd.Type, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Position fetches <baseURL>/position and decodes its "x=..&y=.." body.
func (c *HTTPClient) Position(ctx context.Context, baseURL string) (domain.Point, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint(baseURL, "/position"), nil)
	if err != nil {
		return domain.Point{}, fmt.Errorf("poll position: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return domain.Point{}, fmt.Errorf("poll position: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return domain.Point{}, fmt.Errorf("poll position: read body: %w", err)
	}

	p, err := ParsePosition(string(b))
	if err != nil {
		return domain.Point{}, fmt.Errorf("poll position: %w", err)
	}
	return p, nil
}

// ParsePosition decodes a position body such as "x=12.50&y=-3.00".
func ParsePosition(body string) (domain.Point, error) {
	vals, err := url.ParseQuery(strings.TrimSpace(body))
	if err != nil {
		return domain.Point{}, fmt.Errorf("parse position %q: %w", body, err)
	}

	x, err := strconv.ParseFloat(vals.Get("x"), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("parse position %q: x: %w", body, err)
	}
	y, err := strconv.ParseFloat(vals.Get("y"), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("parse position %q: y: %w", body, err)
	}

	return domain.Point{X: x, Y: y}, nil
}

// FormatPosition is the inverse of ParsePosition.
func FormatPosition(p domain.Point) string {
	return fmt.Sprintf("x=%.2f&y=%.2f", p.X, p.Y)
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

func (c *HTTPClient) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return req, nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}
