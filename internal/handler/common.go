package handler

import (
	"net/http"
	"strconv"

	"cfpanel/internal/database"
	"cfpanel/internal/model"
	"cfpanel/internal/session"
)

func roleOf(u *model.User) string {
	if u != nil {
		return u.Role
	}
	return ""
}

// parseTTL reads a TTL form value, snapping anything outside the selector
// options back to automatic.
func parseTTL(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return model.NormalizeTTL(v)
}

// baseData assembles the template fields every page under the layout needs.
func baseData(sm *session.Manager, db *database.DB, r *http.Request, title string) map[string]interface{} {
	data := map[string]interface{}{
		"Title":       title,
		"AuthEnabled": sm.AuthRequired(),
		"Username":    "",
		"Role":        "",
		"CSRFToken":   "",
		"HasToken":    false,
	}
	s, ok := sm.FromRequest(r)
	if !ok {
		return data
	}
	data["Username"] = s.Username
	data["CSRFToken"] = s.CSRFToken
	data["HasToken"] = s.HasCredential()
	if s.Username != "" {
		user, _ := db.GetUserByUsername(s.Username)
		data["Role"] = roleOf(user)
	}
	return data
}

// RequireAdmin gates admin pages on the operator's role.
func RequireAdmin(sm *session.Manager, db *database.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sm.FromRequest(r)
		if !ok || s.Username == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		user, _ := db.GetUserByUsername(s.Username)
		if user == nil || user.Role != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
