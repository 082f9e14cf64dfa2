package model

import (
	"strings"
	"time"
)

// Zone is a domain managed under the provider account.
type Zone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// DNSRecord is a single typed entry within a zone. A TTL of 1 means the
// provider picks the value ("automatic").
type DNSRecord struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// RecordPayload is the body sent to the provider on create and update.
type RecordPayload struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// RecordTypes enumerates the record types the panel can manage.
var RecordTypes = []string{"A", "AAAA", "CNAME", "TXT", "MX", "NS", "SRV", "CAA"}

func IsValidRecordType(recordType string) bool {
	for _, t := range RecordTypes {
		if t == recordType {
			return true
		}
	}
	return false
}

// TTLOptions is the fixed set offered by the TTL selector. 1 is "automatic".
var TTLOptions = []int{1, 60, 120, 300, 600, 1800, 3600, 7200, 86400}

// NormalizeTTL maps a provider-reported TTL onto the selector options,
// falling back to automatic when the value is not in the set. The record
// itself is left untouched until the user explicitly saves.
func NormalizeTTL(ttl int) int {
	for _, v := range TTLOptions {
		if v == ttl {
			return ttl
		}
	}
	return 1
}

// FilterRecords narrows records to those matching the keyword
// (case-insensitive substring over name and content) and, when proxiedOnly
// is set, to proxied records. Pure: the input slice is never modified, and
// the two filters form an intersection so their order does not matter.
func FilterRecords(records []DNSRecord, keyword string, proxiedOnly bool) []DNSRecord {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	var out []DNSRecord
	for _, r := range records {
		if proxiedOnly && !r.Proxied {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(r.Name), keyword) &&
			!strings.Contains(strings.ToLower(r.Content), keyword) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type User struct {
	ID         int64
	Username   string
	PassHash   string
	Role       string
	Active     bool
	AuthSource string // "local" or "ldap"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AuditEntry struct {
	ID         int64
	Username   string
	Action     string
	ZoneID     string
	ZoneName   string
	RecordName string
	RecordType string
	Detail     string
	IPAddress  string
	CreatedAt  time.Time
}
