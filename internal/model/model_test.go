package model

import (
	"reflect"
	"testing"
)

func sampleRecords() []DNSRecord {
	return []DNSRecord{
		{ID: "1", Type: "A", Name: "www.example.com", Content: "1.2.3.4", TTL: 1, Proxied: true},
		{ID: "2", Type: "A", Name: "api.example.com", Content: "1.2.3.5", TTL: 300, Proxied: false},
		{ID: "3", Type: "TXT", Name: "example.com", Content: "v=spf1 include:mail.example.com ~all", TTL: 3600, Proxied: false},
		{ID: "4", Type: "CNAME", Name: "blog.example.com", Content: "hosting.provider.net", TTL: 1, Proxied: true},
	}
}

func ids(records []DNSRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterRecordsKeyword(t *testing.T) {
	got := FilterRecords(sampleRecords(), "API", false)
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("keyword filter: %v", ids(got))
	}

	// Content matches too.
	got = FilterRecords(sampleRecords(), "provider.net", false)
	if !reflect.DeepEqual(ids(got), []string{"4"}) {
		t.Fatalf("content filter: %v", ids(got))
	}
}

func TestFilterRecordsProxiedOnly(t *testing.T) {
	got := FilterRecords(sampleRecords(), "", true)
	if !reflect.DeepEqual(ids(got), []string{"1", "4"}) {
		t.Fatalf("proxied filter: %v", ids(got))
	}
}

func TestFilterOrderDoesNotMatter(t *testing.T) {
	records := sampleRecords()

	// proxied-then-keyword vs keyword-then-proxied vs both at once.
	a := FilterRecords(FilterRecords(records, "", true), "example", false)
	b := FilterRecords(FilterRecords(records, "example", false), "", true)
	c := FilterRecords(records, "example", true)

	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(b, c) {
		t.Fatalf("filters do not commute:\n%v\n%v\n%v", ids(a), ids(b), ids(c))
	}
}

func TestFilterRecordsIsPure(t *testing.T) {
	records := sampleRecords()
	before := make([]DNSRecord, len(records))
	copy(before, records)

	_ = FilterRecords(records, "www", true)

	if !reflect.DeepEqual(records, before) {
		t.Fatal("input slice was modified")
	}
}

func TestNormalizeTTL(t *testing.T) {
	for _, v := range TTLOptions {
		if got := NormalizeTTL(v); got != v {
			t.Fatalf("NormalizeTTL(%d) = %d", v, got)
		}
	}
	// Anything outside the set snaps to automatic.
	for _, v := range []int{0, 2, 347, 90, 100000} {
		if got := NormalizeTTL(v); got != 1 {
			t.Fatalf("NormalizeTTL(%d) = %d, want 1", v, got)
		}
	}
}

func TestIsValidRecordType(t *testing.T) {
	for _, rt := range RecordTypes {
		if !IsValidRecordType(rt) {
			t.Fatalf("type %s should be valid", rt)
		}
	}
	for _, rt := range []string{"PTR", "a", "", "SOA"} {
		if IsValidRecordType(rt) {
			t.Fatalf("type %q should not be valid", rt)
		}
	}
}
