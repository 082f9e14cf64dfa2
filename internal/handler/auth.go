package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"cfpanel/internal/auth"
	"cfpanel/internal/database"
	"cfpanel/internal/model"
	"cfpanel/internal/session"
	"cfpanel/internal/util"
)

// AuthHandler implements the optional operator sign-in gate in front of the
// panel.
type AuthHandler struct {
	db         *database.DB
	sessionMgr *session.Manager
	ldap       *auth.LDAPClient
	tmpl       *template.Template
}

func NewAuthHandler(db *database.DB, sm *session.Manager, ldap *auth.LDAPClient, tmpl *template.Template) *AuthHandler {
	return &AuthHandler{db: db, sessionMgr: sm, ldap: ldap, tmpl: tmpl}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.sessionMgr.FromRequest(r); ok && s.Username != "" {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
		return
	}
	h.tmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
		"LDAPEnabled": h.ldap != nil,
	})
}

func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username := r.FormValue("username")
	password := r.FormValue("password")

	var user *model.User
	var authMethod string

	if h.ldap != nil {
		result, err := h.ldap.Authenticate(username, password)
		if err == nil && result != nil {
			role, allowed := h.ldap.ResolveRole(result.Groups)
			if !allowed {
				h.loginError(w, "Access denied: you are not in an authorized group")
				return
			}
			_ = h.db.UpsertLDAPUser(result.Username, role)
			user, _ = h.db.GetUserByUsername(result.Username)
			authMethod = "ldap"
		}
	}

	// Local fallback; restricted to admins while LDAP is on.
	if user == nil {
		u, err := h.db.AuthenticateUser(username, password)
		if err == nil && u != nil {
			if h.ldap != nil && u.Role != "admin" {
				h.loginError(w, "Local login is disabled. Use LDAP credentials.")
				return
			}
			user = u
			authMethod = "local"
		}
	}

	if user == nil {
		h.loginError(w, "Invalid credentials")
		return
	}

	h.sessionMgr.Create(w, user.Username)

	_ = h.db.LogAudit(model.AuditEntry{
		Username:  user.Username,
		Action:    "login",
		Detail:    fmt.Sprintf("auth=%s", authMethod),
		IPAddress: util.ClientIP(r),
	})

	http.Redirect(w, r, "/zones", http.StatusSeeOther)
}

// Logout tears the whole session down: operator identity, API token and
// zone cache all go at once.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username := ""
	if s, ok := h.sessionMgr.FromRequest(r); ok {
		username = auditName(s)
		s.ClearCredential()
	}
	h.sessionMgr.Destroy(w, r)

	if username != "" {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  username,
			Action:    "logout",
			IPAddress: util.ClientIP(r),
		})
	}

	if h.sessionMgr.AuthRequired() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/zones", http.StatusSeeOther)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, msg string) {
	h.tmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
		"Error":       msg,
		"LDAPEnabled": h.ldap != nil,
	})
}
