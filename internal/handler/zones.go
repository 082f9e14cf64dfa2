package handler

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"cfpanel/internal/database"
	"cfpanel/internal/model"
	"cfpanel/internal/provider"
	"cfpanel/internal/session"
)

type ZoneHandler struct {
	client     *provider.Client
	sessionMgr *session.Manager
	db         *database.DB
	tmpl       *template.Template
}

func NewZoneHandler(client *provider.Client, sm *session.Manager, db *database.DB, tmpl *template.Template) *ZoneHandler {
	return &ZoneHandler{client: client, sessionMgr: sm, db: db, tmpl: tmpl}
}

// List renders the zone picker. Without a credential it renders the token
// prompt; with one it serves the session's cached zone list or fetches a
// fresh one.
func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	data := baseData(h.sessionMgr, h.db, r, "Zones")
	data["Flash"] = r.URL.Query().Get("msg")

	s, ok := h.sessionMgr.FromRequest(r)
	if !ok || !s.HasCredential() {
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	zones, err := fetchZones(r.Context(), h.client, s)
	if err != nil {
		data["Error"] = "Failed to load zones: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	if len(zones) == 0 {
		data["Warning"] = "No zones found. Check the token permissions (Zone:Read + DNS:Edit)."
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	sorted := make([]model.Zone, len(zones))
	copy(sorted, zones)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	data["Zones"] = sorted
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

// Refresh drops the session zone cache so the next listing is live.
func (h *ZoneHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.sessionMgr.FromRequest(r); ok {
		s.InvalidateZones()
	}
	http.Redirect(w, r, "/zones", http.StatusSeeOther)
}

// fetchZones serves the zone list through the session cache: a hit inside
// the freshness window skips the provider call, anything else goes live and
// restores the cache.
func fetchZones(ctx context.Context, client *provider.Client, s *session.Session) ([]model.Zone, error) {
	if zones, ok := s.CachedZones(); ok {
		return zones, nil
	}
	zones, err := client.ListZones(ctx, s.Credential())
	if err != nil {
		return nil, err
	}
	s.StoreZones(zones)
	return zones, nil
}

// zoneByID resolves a zone through the same cached listing used by the
// picker.
func zoneByID(ctx context.Context, client *provider.Client, s *session.Session, zoneID string) (model.Zone, error) {
	zones, err := fetchZones(ctx, client, s)
	if err != nil {
		return model.Zone{}, err
	}
	for _, z := range zones {
		if z.ID == zoneID {
			return z, nil
		}
	}
	return model.Zone{}, fmt.Errorf("zone %s not found for this token", zoneID)
}
