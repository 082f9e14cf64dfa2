package handler

import (
	"html/template"
	"net/http"

	"cfpanel/internal/database"
	"cfpanel/internal/lookup"
	"cfpanel/internal/model"
	"cfpanel/internal/session"
)

// LookupHandler shows what the public DNS currently serves for a record,
// next to the provider-side content. Read-only.
type LookupHandler struct {
	resolver   *lookup.Resolver
	sessionMgr *session.Manager
	db         *database.DB
	tmpl       *template.Template
}

func NewLookupHandler(resolver *lookup.Resolver, sm *session.Manager, db *database.DB, tmpl *template.Template) *LookupHandler {
	return &LookupHandler{resolver: resolver, sessionMgr: sm, db: db, tmpl: tmpl}
}

func (h *LookupHandler) Show(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	name := r.URL.Query().Get("name")
	recordType := r.URL.Query().Get("type")
	content := r.URL.Query().Get("content")

	data := baseData(h.sessionMgr, h.db, r, "Resolution check")
	data["ZoneID"] = zoneID
	data["Name"] = name
	data["Type"] = recordType
	data["Content"] = content

	if name == "" || !model.IsValidRecordType(recordType) {
		data["Error"] = "lookup needs a record name and a supported type"
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	answers, err := h.resolver.Query(r.Context(), name, recordType)
	if err != nil {
		data["Error"] = "Lookup failed: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	data["Answers"] = answers
	h.tmpl.ExecuteTemplate(w, "layout", data)
}
