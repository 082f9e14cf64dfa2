package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(url, 20*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestErrorExtractionJoinsCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "errors": [{"code": 81057, "message": "record already exists"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListRecords(context.Background(), "tok", "zone1")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if got := apiErr.Error(); got != "[81057] record already exists" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestErrorExtractionMultipleEntries(t *testing.T) {
	e := &APIError{Errors: []ErrorInfo{
		{Code: 1003, Message: "invalid token"},
		{Code: 9109, Message: "access denied"},
	}}
	want := "[1003] invalid token; [9109] access denied"
	if got := e.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorExtractionFallbacks(t *testing.T) {
	if got := (&APIError{Message: "boom"}).Error(); got != "boom" {
		t.Fatalf("message fallback: got %q", got)
	}
	if got := (&APIError{}).Error(); got != "unknown error" {
		t.Fatalf("generic fallback: got %q", got)
	}
}

func TestSuccessFalseIsAnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// 200 with success=false still counts as a provider failure.
		w.Write([]byte(`{"success": false, "errors": [{"code": 10000, "message": "auth error"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListZones(context.Background(), "tok")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
}

func TestTransportErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListZones(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("unparseable body must not become an APIError: %v", err)
	}
	if !strings.Contains(err.Error(), "provider request failed") {
		t.Fatalf("expected generic wrap, got %q", err.Error())
	}
}

func TestBearerHeaderAndContentType(t *testing.T) {
	var gotAuth, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "result": {}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.CreateRecord(context.Background(), "  my-token  ", "z1", testPayload())
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if gotAuth != "Bearer my-token" {
		t.Fatalf("authorization header %q", gotAuth)
	}
	if gotCT != "application/json" {
		t.Fatalf("content type %q", gotCT)
	}
}
