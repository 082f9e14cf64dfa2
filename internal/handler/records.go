package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"cfpanel/internal/database"
	"cfpanel/internal/model"
	"cfpanel/internal/provider"
	"cfpanel/internal/session"
	"cfpanel/internal/util"
)

type RecordHandler struct {
	client     *provider.Client
	sessionMgr *session.Manager
	db         *database.DB
	tmpl       *template.Template
}

func NewRecordHandler(client *provider.Client, sm *session.Manager, db *database.DB, tmpl *template.Template) *RecordHandler {
	return &RecordHandler{client: client, sessionMgr: sm, db: db, tmpl: tmpl}
}

// List renders the record table for a zone. The keyword and proxied-only
// filters are applied server-side over the full fetched list on every
// render; the list itself is always fetched live.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	data := baseData(h.sessionMgr, h.db, r, "Records")
	data["ZoneID"] = zoneID
	data["Flash"] = r.URL.Query().Get("msg")

	s, ok := h.sessionMgr.FromRequest(r)
	if !ok || !s.HasCredential() {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
		return
	}

	zone, err := zoneByID(r.Context(), h.client, s, zoneID)
	if err != nil {
		data["Error"] = "Failed to load zone: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	data["Title"] = zone.Name
	data["ZoneName"] = zone.Name

	records, err := h.client.ListRecords(r.Context(), s.Credential(), zoneID)
	if err != nil {
		data["Error"] = "Failed to load records: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	keyword := r.URL.Query().Get("q")
	proxiedOnly := r.URL.Query().Get("proxied") == "1"
	filtered := model.FilterRecords(records, keyword, proxiedOnly)

	data["Records"] = filtered
	data["Total"] = len(records)
	data["Shown"] = len(filtered)
	data["Keyword"] = keyword
	data["ProxiedOnly"] = proxiedOnly
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	s, ok := h.sessionMgr.FromRequest(r)
	if !ok || !s.HasCredential() {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
		return
	}
	_ = r.ParseForm()

	payload := model.RecordPayload{
		Type:    r.FormValue("type"),
		Name:    strings.TrimSpace(r.FormValue("name")),
		Content: strings.TrimSpace(r.FormValue("content")),
		TTL:     parseTTL(r.FormValue("ttl")),
		Proxied: r.FormValue("proxied") == "on",
	}
	if !model.IsValidRecordType(payload.Type) {
		h.redirect(w, r, zoneID, "Error: unsupported record type "+payload.Type)
		return
	}

	msg := "Record created"
	if err := h.client.CreateRecord(r.Context(), s.Credential(), zoneID, payload); err != nil {
		msg = "Create failed: " + err.Error()
	} else {
		h.audit(r, s, "create_record", zoneID, payload)
	}
	h.redirect(w, r, zoneID, msg)
}

func (h *RecordHandler) Edit(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	s, ok := h.sessionMgr.FromRequest(r)
	if !ok || !s.HasCredential() {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
		return
	}
	_ = r.ParseForm()

	recordID := r.FormValue("record_id")
	if recordID == "" {
		h.redirect(w, r, zoneID, "Error: missing record id")
		return
	}
	payload := model.RecordPayload{
		Type:    r.FormValue("type"),
		Name:    strings.TrimSpace(r.FormValue("name")),
		Content: strings.TrimSpace(r.FormValue("content")),
		TTL:     parseTTL(r.FormValue("ttl")),
		Proxied: r.FormValue("proxied") == "on",
	}

	msg := "Record saved"
	if err := h.client.UpdateRecord(r.Context(), s.Credential(), zoneID, recordID, payload); err != nil {
		msg = "Save failed: " + err.Error()
	} else {
		h.audit(r, s, "edit_record", zoneID, payload)
	}
	h.redirect(w, r, zoneID, msg)
}

// Delete removes a record, but only when the per-record confirmation box
// was ticked. An unconfirmed delete never reaches the provider.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	s, ok := h.sessionMgr.FromRequest(r)
	if !ok || !s.HasCredential() {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
		return
	}
	_ = r.ParseForm()

	if r.FormValue("confirm") != "on" {
		h.redirect(w, r, zoneID, "Delete needs the confirmation box ticked")
		return
	}
	recordID := r.FormValue("record_id")
	if recordID == "" {
		h.redirect(w, r, zoneID, "Error: missing record id")
		return
	}

	msg := "Record deleted"
	if err := h.client.DeleteRecord(r.Context(), s.Credential(), zoneID, recordID); err != nil {
		msg = "Delete failed: " + err.Error()
	} else {
		h.audit(r, s, "delete_record", zoneID, model.RecordPayload{
			Type: r.FormValue("type"),
			Name: r.FormValue("name"),
		})
	}
	h.redirect(w, r, zoneID, msg)
}

func (h *RecordHandler) redirect(w http.ResponseWriter, r *http.Request, zoneID, msg string) {
	http.Redirect(w, r, fmt.Sprintf("/zones/%s/records?msg=%s", url.PathEscape(zoneID), url.QueryEscape(msg)), http.StatusSeeOther)
}

func (h *RecordHandler) audit(r *http.Request, s *session.Session, action, zoneID string, payload model.RecordPayload) {
	zoneName := ""
	if zones, ok := s.CachedZones(); ok {
		for _, z := range zones {
			if z.ID == zoneID {
				zoneName = z.Name
			}
		}
	}
	detail := ""
	if action != "delete_record" {
		detail = fmt.Sprintf("content=%s ttl=%d proxied=%t", payload.Content, payload.TTL, payload.Proxied)
	}
	_ = h.db.LogAudit(model.AuditEntry{
		Username:   auditName(s),
		Action:     action,
		ZoneID:     zoneID,
		ZoneName:   zoneName,
		RecordName: payload.Name,
		RecordType: payload.Type,
		Detail:     detail,
		IPAddress:  util.ClientIP(r),
	})
}
