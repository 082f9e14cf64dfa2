package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"cfpanel/internal/database"
	"cfpanel/internal/model"
	"cfpanel/internal/session"
	"cfpanel/internal/util"
)

type AdminHandler struct {
	db         *database.DB
	sessionMgr *session.Manager
	tmpl       *template.Template
}

func NewAdminHandler(db *database.DB, sm *session.Manager, tmpl *template.Template) *AdminHandler {
	return &AdminHandler{db: db, sessionMgr: sm, tmpl: tmpl}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	data := baseData(h.sessionMgr, h.db, r, "Users")
	data["Flash"] = r.URL.Query().Get("msg")

	users, err := h.db.ListUsers()
	if err != nil {
		data["Error"] = "Failed to load users: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	data["Users"] = users
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s, _ := h.sessionMgr.FromRequest(r)
	newUsername := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")

	if role != "admin" && role != "operator" {
		role = "operator"
	}

	msg := fmt.Sprintf("User %q created", newUsername)
	if err := h.db.CreateUser(newUsername, password, role); err != nil {
		msg = "Error: " + err.Error()
	} else if s != nil {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  s.Username,
			Action:    "create_user",
			Detail:    fmt.Sprintf("created user=%s role=%s", newUsername, role),
			IPAddress: util.ClientIP(r),
		})
	}

	http.Redirect(w, r, "/admin/users?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s, _ := h.sessionMgr.FromRequest(r)
	targetUser := r.FormValue("username")

	if s != nil && targetUser == s.Username {
		http.Redirect(w, r, "/admin/users?msg=Cannot+delete+yourself", http.StatusSeeOther)
		return
	}

	msg := fmt.Sprintf("User %q deleted", targetUser)
	if err := h.db.DeleteUser(targetUser); err != nil {
		msg = "Error: " + err.Error()
	} else if s != nil {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  s.Username,
			Action:    "delete_user",
			Detail:    fmt.Sprintf("deleted user=%s", targetUser),
			IPAddress: util.ClientIP(r),
		})
	}

	http.Redirect(w, r, "/admin/users?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	data := baseData(h.sessionMgr, h.db, r, "Audit Log")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 50
	offset := (page - 1) * limit

	entries, total, err := h.db.ListAuditLog(limit, offset)
	if err != nil {
		data["Error"] = "Failed to load audit log: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	data["Entries"] = entries
	data["Page"] = page
	data["TotalPages"] = (total + limit - 1) / limit
	data["Total"] = total
	h.tmpl.ExecuteTemplate(w, "layout", data)
}
