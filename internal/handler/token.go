package handler

import (
	"net/http"
	"strings"

	"cfpanel/internal/database"
	"cfpanel/internal/model"
	"cfpanel/internal/session"
	"cfpanel/internal/util"
)

// TokenHandler manages the provider API credential for the current browser
// session. The token is held only in session memory, never persisted.
type TokenHandler struct {
	sessionMgr *session.Manager
	db         *database.DB
}

func NewTokenHandler(sm *session.Manager, db *database.DB) *TokenHandler {
	return &TokenHandler{sessionMgr: sm, db: db}
}

// Apply stores the submitted token in the session. Any cached zone list
// fetched under a previous token is invalidated at the same time.
func (h *TokenHandler) Apply(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionMgr.FromRequest(r)
	if !ok {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
		return
	}
	_ = r.ParseForm()
	token := strings.TrimSpace(r.FormValue("token"))
	if token == "" {
		http.Redirect(w, r, "/zones?msg=Token+must+not+be+empty", http.StatusSeeOther)
		return
	}

	s.SetCredential(token)

	_ = h.db.LogAudit(model.AuditEntry{
		Username:  auditName(s),
		Action:    "token_apply",
		IPAddress: util.ClientIP(r),
	})

	http.Redirect(w, r, "/zones", http.StatusSeeOther)
}

// Clear drops the token and the zone cache.
func (h *TokenHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionMgr.FromRequest(r)
	if ok {
		s.ClearCredential()
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  auditName(s),
			Action:    "token_clear",
			IPAddress: util.ClientIP(r),
		})
	}
	http.Redirect(w, r, "/zones?msg=Token+cleared", http.StatusSeeOther)
}

func auditName(s *session.Session) string {
	if s.Username != "" {
		return s.Username
	}
	return "anonymous"
}
