package registry

import (
	"context"
	"fmt"
	"hivemind-service/internal/domain"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPNotifier tells the external fleet registry about each registration by
// posting the license and control URL to <host>/car-registered.
type HTTPNotifier struct {
	session *http.Client
	host    string
}

func NewHTTPNotifier(host string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		session: &http.Client{Timeout: timeout},
		host:    strings.TrimRight(host, "/"),
	}
}

func (n *HTTPNotifier) NotifyRegistered(ctx context.Context, v domain.Vehicle) error {
	form := url.Values{}
	form.Set("license", v.License)
	form.Set("url", v.URL)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		n.host+"/car-registered",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("notify registry: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.session.Do(req)
	if err != nil {
		return fmt.Errorf("notify registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notify registry: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
