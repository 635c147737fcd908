package emulator

import (
	"context"
	"fmt"
	"hivemind-service/internal/domain"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RegisterWithCoordinator announces the car and its trip to the coordinator
// at baseURL. It returns the coordinator's text reply on success.
func RegisterWithCoordinator(
	ctx context.Context,
	client *http.Client,
	baseURL string,
	c *Car,
	selfURL string,
	dest domain.Point,
) (string, error) {
	start := c.Position()
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

	form := url.Values{}
	form.Set("license", c.License())
	form.Set("url", selfURL)
	form.Set("start_x", f(start.X))
	form.Set("start_y", f(start.Y))
	form.Set("dest_x", f(dest.X))
	form.Set("dest_y", f(dest.Y))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		strings.TrimRight(baseURL, "/")+"/register-car",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("register car: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("register car: %w", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	reply := strings.TrimSpace(string(b))
	if resp.StatusCode != http.StatusOK {
		return reply, fmt.Errorf("register car: status %d: %s", resp.StatusCode, reply)
	}

	return reply, nil
}
