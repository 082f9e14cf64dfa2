package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListZonesWalksAllPages(t *testing.T) {
	var pagesSeen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/zones" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		page := r.URL.Query().Get("page")
		if got := r.URL.Query().Get("per_page"); got != "50" {
			t.Fatalf("per_page %q", got)
		}
		pagesSeen = append(pagesSeen, page)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"success": true,
			"result": [{"id": "z%s", "name": "zone%s.example", "status": "active"}],
			"result_info": {"page": %s, "total_pages": 3}
		}`, page, page, page)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	zones, err := c.ListZones(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListZones: %v", err)
	}

	if len(pagesSeen) != 3 {
		t.Fatalf("expected exactly 3 page requests, got %v", pagesSeen)
	}
	for i, p := range pagesSeen {
		if want := fmt.Sprintf("%d", i+1); p != want {
			t.Fatalf("page order %v", pagesSeen)
		}
	}
	if len(zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(zones))
	}
	for i, z := range zones {
		if want := fmt.Sprintf("z%d", i+1); z.ID != want {
			t.Fatalf("zones out of page order: %+v", zones)
		}
	}
}

func TestListZonesSinglePageWithoutResultInfo(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "result": [{"id": "z1", "name": "a.example", "status": "active"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	zones, err := c.ListZones(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListZones: %v", err)
	}
	if calls != 1 || len(zones) != 1 {
		t.Fatalf("calls=%d zones=%d", calls, len(zones))
	}
}

func TestListZonesAbortsOnFirstFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success": false, "errors": [{"code": 9109, "message": "access denied"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.ListZones(context.Background(), "tok"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}
