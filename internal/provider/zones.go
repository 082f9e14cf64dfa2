package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"cfpanel/internal/model"
)

const zonesPerPage = 50

// ListZones returns every zone visible to the token, walking the paged
// /zones endpoint until the reported total page count is reached. The first
// failing page aborts the whole listing.
func (c *Client) ListZones(ctx context.Context, token string) ([]model.Zone, error) {
	var zones []model.Zone
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(zonesPerPage))

		req, err := c.newRequest(ctx, http.MethodGet, "/zones", token, query, nil)
		if err != nil {
			return nil, err
		}
		env, err := c.do("list_zones", req)
		if err != nil {
			return nil, err
		}

		var batch []model.Zone
		if err := json.Unmarshal(env.Result, &batch); err != nil {
			return nil, err
		}
		zones = append(zones, batch...)

		totalPages := 1
		if env.ResultInfo != nil && env.ResultInfo.TotalPages > 0 {
			totalPages = env.ResultInfo.TotalPages
		}
		if page >= totalPages {
			return zones, nil
		}
	}
}
