package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"cfpanel/internal/model"
)

const recordsPerPage = 100

// ListRecords returns the records of a zone. A single page of 100 is
// fetched; zones beyond that size are truncated. Documented behavior, kept
// until the provider default changes.
func (c *Client) ListRecords(ctx context.Context, token, zoneID string) ([]model.DNSRecord, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("per_page", fmt.Sprintf("%d", recordsPerPage))

	path := fmt.Sprintf("/zones/%s/dns_records", url.PathEscape(zoneID))
	req, err := c.newRequest(ctx, http.MethodGet, path, token, query, nil)
	if err != nil {
		return nil, err
	}
	env, err := c.do("list_records", req)
	if err != nil {
		return nil, err
	}

	var records []model.DNSRecord
	if err := json.Unmarshal(env.Result, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord adds a record to the zone.
func (c *Client) CreateRecord(ctx context.Context, token, zoneID string, payload model.RecordPayload) error {
	path := fmt.Sprintf("/zones/%s/dns_records", url.PathEscape(zoneID))
	req, err := c.newRequest(ctx, http.MethodPost, path, token, nil, payload)
	if err != nil {
		return err
	}
	_, err = c.do("create_record", req)
	return err
}

// UpdateRecord replaces an existing record.
func (c *Client) UpdateRecord(ctx context.Context, token, zoneID, recordID string, payload model.RecordPayload) error {
	path := fmt.Sprintf("/zones/%s/dns_records/%s", url.PathEscape(zoneID), url.PathEscape(recordID))
	req, err := c.newRequest(ctx, http.MethodPut, path, token, nil, payload)
	if err != nil {
		return err
	}
	_, err = c.do("update_record", req)
	return err
}

// DeleteRecord removes a record from the zone.
func (c *Client) DeleteRecord(ctx context.Context, token, zoneID, recordID string) error {
	path := fmt.Sprintf("/zones/%s/dns_records/%s", url.PathEscape(zoneID), url.PathEscape(recordID))
	req, err := c.newRequest(ctx, http.MethodDelete, path, token, nil, nil)
	if err != nil {
		return err
	}
	_, err = c.do("delete_record", req)
	return err
}
