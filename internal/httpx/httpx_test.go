package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDo_ReturnsBodyAndHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing accept header")
		}
		_, _ = fmt.Fprint(w, `{"value":42}`)
	}))
	defer server.Close()

	got, err := Do(context.Background(), http.MethodGet, server.URL, map[string]string{"Accept": "application/json"}, nil, time.Second)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(got) != `{"value":42}` {
		t.Fatalf("body = %q", got)
	}
}

func TestDo_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, strings.Repeat("x", 300), http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := Do(context.Background(), http.MethodGet, server.URL, nil, nil, time.Second)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 status error, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "…") {
		t.Fatalf("long bodies should be truncated: %q", err.Error())
	}
}

func TestDo_RequestFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := Do(context.Background(), http.MethodGet, url, nil, nil, time.Second)
	var statusErr *StatusError
	if err == nil || errors.As(err, &statusErr) {
		t.Fatalf("expected a transport error, got %v", err)
	}
}
