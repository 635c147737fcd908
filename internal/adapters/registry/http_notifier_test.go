package registry

import (
	"context"
	"hivemind-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPNotifierPostsForm(t *testing.T) {
	var path, license, carURL string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		r.ParseForm()
		license = r.PostForm.Get("license")
		carURL = r.PostForm.Get("url")
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL+"/", time.Second)
	v := domain.Vehicle{License: "CAR-1", URL: "http://10.0.0.5:7000"}

	if err := n.NotifyRegistered(context.Background(), v); err != nil {
		t.Fatalf("NotifyRegistered: %v", err)
	}
	if path != "/car-registered" {
		t.Fatalf("path = %q", path)
	}
	if license != "CAR-1" || carURL != "http://10.0.0.5:7000" {
		t.Fatalf("form = license=%q url=%q", license, carURL)
	}
}

func TestHTTPNotifierStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTPNotifier(srv.URL, time.Second).NotifyRegistered(context.Background(), domain.Vehicle{License: "X"})
	if err == nil {
		t.Fatal("expected error for 503")
	}
}
