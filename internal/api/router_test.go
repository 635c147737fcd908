package api

import (
	"context"
	"encoding/json"
	"hivemind-service/internal/adapters/vehicle"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/clock"
	"hivemind-service/internal/roadnet"
	"hivemind-service/internal/services"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, policy domain.AdmissionPolicy) (*httptest.Server, *services.Coordinator) {
	t.Helper()

	g := roadnet.Build([]roadnet.Segment{
		{Points: []domain.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}}},
	}, roadnet.DefaultEpsilon)

	clk := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	client := &vehicle.MockVehicleClient{Positions: []domain.Point{{X: 200, Y: 0}}}

	coord := &services.Coordinator{
		Planner:    &services.Planner{Graph: g},
		Registry:   domain.NewFleetRegistry(policy),
		Dispatcher: services.NewDispatcher(context.Background(), client, clk, services.DefaultDriveConfig()),
		Clock:      clk,
		Speed:      services.DefaultSpeed,
	}

	srv := httptest.NewServer(NewRouter(coord))
	t.Cleanup(func() {
		srv.Close()
		coord.Dispatcher.Wait()
	})
	return srv, coord
}

func postForm(t *testing.T, u string, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(u, form)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func get(t *testing.T, u string) (int, string) {
	t.Helper()
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func carForm(license string, destX string) url.Values {
	return url.Values{
		"license": {license},
		"url":     {"http://10.0.0.9:7000"},
		"start_x": {"0"},
		"start_y": {"0"},
		"dest_x":  {destX},
		"dest_y":  {"0"},
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(b) != "OK" {
		t.Fatalf("health = %d %q", resp.StatusCode, b)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestRegisterCar(t *testing.T) {
	srv, coord := newTestServer(t, nil)

	status, body := postForm(t, srv.URL+"/register-car", carForm("ABC123", "200"))
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %q", status, body)
	}
	if want := "Car registered: ABC123 url=http://10.0.0.9:7000"; body != want {
		t.Fatalf("body = %q, want %q", body, want)
	}

	status, body = get(t, srv.URL+"/car-count")
	if status != http.StatusOK || body != "Total cars registered: 1" {
		t.Fatalf("car-count = %d %q", status, body)
	}

	coord.Dispatcher.Wait()

	status, body = get(t, srv.URL+"/drives")
	if status != http.StatusOK {
		t.Fatalf("drives status = %d", status)
	}
	var drives struct {
		Drives []services.DriveStatus `json:"drives"`
	}
	if err := json.Unmarshal([]byte(body), &drives); err != nil {
		t.Fatalf("decode drives: %v", err)
	}
	if len(drives.Drives) != 1 || drives.Drives[0].License != "ABC123" || drives.Drives[0].State != services.StateStopped {
		t.Fatalf("drives = %+v", drives.Drives)
	}

	status, body = get(t, srv.URL+"/vehicles")
	if status != http.StatusOK || !strings.Contains(body, `"license":"ABC123"`) {
		t.Fatalf("vehicles = %d %s", status, body)
	}
}

func TestRegisterCarNoPath(t *testing.T) {
	srv, coord := newTestServer(t, nil)

	// Start and destination both snap to the first node.
	status, body := postForm(t, srv.URL+"/register-car", carForm("LOST", "3"))
	if status != http.StatusBadRequest || body != "No path found for car LOST" {
		t.Fatalf("register = %d %q", status, body)
	}
	if coord.Registry.Count() != 0 {
		t.Fatal("rejected car was registered")
	}
}

func TestRegisterCarDenied(t *testing.T) {
	srv, coord := newTestServer(t, func(domain.Vehicle) bool { return false })

	status, body := postForm(t, srv.URL+"/register-car", carForm("BLOCKED", "200"))
	if status != http.StatusForbidden || body != "Car BLOCKED not allowed to enter roadway" {
		t.Fatalf("register = %d %q", status, body)
	}
	if coord.Registry.Count() != 0 {
		t.Fatal("denied car was registered")
	}
}

func TestRegisterCarUnparsableNumbersDefaultToZero(t *testing.T) {
	srv, coord := newTestServer(t, nil)

	form := carForm("FUZZY", "200")
	form.Set("start_x", "east")
	form.Set("start_y", "")

	status, body := postForm(t, srv.URL+"/register-car", form)
	if status != http.StatusOK {
		t.Fatalf("register = %d %q", status, body)
	}

	v := coord.Registry.Snapshot()[0]
	if v.Start != (domain.Point{}) {
		t.Fatalf("start = %+v, want origin", v.Start)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	status, _ := get(t, srv.URL+"/register-car")
	if status != http.StatusMethodNotAllowed {
		t.Fatalf("GET /register-car = %d, want 405", status)
	}

	status, _ = postForm(t, srv.URL+"/car-count", url.Values{})
	if status != http.StatusMethodNotAllowed {
		t.Fatalf("POST /car-count = %d, want 405", status)
	}
}
