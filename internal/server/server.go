package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"cfpanel/internal/auth"
	"cfpanel/internal/config"
	"cfpanel/internal/database"
	"cfpanel/internal/handler"
	"cfpanel/internal/logging"
	"cfpanel/internal/lookup"
	"cfpanel/internal/metrics"
	"cfpanel/internal/model"
	"cfpanel/internal/provider"
	"cfpanel/internal/session"
	"cfpanel/web"
)

func mustParseTemplates(fsys fs.FS, funcMap template.FuncMap, log *slog.Logger, files ...string) *template.Template {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(fsys, files...)
	if err != nil {
		log.Error("failed to parse templates", "files", files, "err", err)
		panic(err)
	}
	return tmpl
}

func Start(cfg *config.Config, version string) error {
	log := logging.New("server")

	db, err := database.Open(cfg.Database.DSN, web.MigrationsFS())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	client, err := provider.NewClient(cfg.Provider.APIBase, time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
	if err != nil {
		return fmt.Errorf("failed to init provider client: %w", err)
	}

	sessionMgr := session.NewManager(cfg.Auth.Enabled)
	resolver := lookup.NewResolver(cfg.Lookup.Resolver)

	funcMap := template.FuncMap{
		"version":      func() string { return version },
		"formatDate":   func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
		"add":          func(a, b int) int { return a + b },
		"subtract":     func(a, b int) int { return a - b },
		"ttlLabel":     ttlLabel,
		"normalizeTTL": normalizeTTL,
		"ttlOptions":   func() []int { return model.TTLOptions },
		"recordTypes":  func() []string { return model.RecordTypes },
	}

	tmplFS := web.TemplateFS()
	loginTmpl := mustParseTemplates(tmplFS, funcMap, log, "templates/login.html")
	setupTmpl := mustParseTemplates(tmplFS, funcMap, log, "templates/setup.html")
	zonesTmpl := mustParseTemplates(tmplFS, funcMap, log, "templates/layout.html", "templates/zones.html")
	recordsTmpl := mustParseTemplates(tmplFS, funcMap, log, "templates/layout.html", "templates/records.html")
	lookupTmpl := mustParseTemplates(tmplFS, funcMap, log, "templates/layout.html", "templates/lookup.html")
	adminUsersTmpl := mustParseTemplates(tmplFS, funcMap, log, "templates/layout.html", "templates/admin_users.html")
	adminAuditTmpl := mustParseTemplates(tmplFS, funcMap, log, "templates/layout.html", "templates/admin_audit.html")

	var ldapClient *auth.LDAPClient
	if cfg.LDAP.Enabled {
		ldapClient = auth.NewLDAPClient(cfg.LDAP)
		log.Info("LDAP authentication enabled", "url", cfg.LDAP.URL, "roles", len(cfg.LDAP.GroupMapping))
	}
	if cfg.Cleartext() {
		log.Warn("LDAP uses ldap:// without StartTLS; credentials travel in cleartext")
	}

	tokenH := handler.NewTokenHandler(sessionMgr, db)
	zoneH := handler.NewZoneHandler(client, sessionMgr, db, zonesTmpl)
	recH := handler.NewRecordHandler(client, sessionMgr, db, recordsTmpl)
	lookupH := handler.NewLookupHandler(resolver, sessionMgr, db, lookupTmpl)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", web.StaticHandler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("GET /metrics", metrics.Handler())

	appMux := http.NewServeMux()

	appMux.HandleFunc("GET /zones", sessionMgr.RequireSession(zoneH.List))
	appMux.HandleFunc("POST /zones/refresh", sessionMgr.RequireSession(sessionMgr.ValidateCSRF(zoneH.Refresh)))
	appMux.HandleFunc("POST /token/apply", sessionMgr.RequireSession(sessionMgr.ValidateCSRF(tokenH.Apply)))
	appMux.HandleFunc("POST /token/clear", sessionMgr.RequireSession(sessionMgr.ValidateCSRF(tokenH.Clear)))

	appMux.HandleFunc("GET /zones/{zoneID}/records", sessionMgr.RequireSession(recH.List))
	appMux.HandleFunc("POST /zones/{zoneID}/records/create", sessionMgr.RequireSession(sessionMgr.ValidateCSRF(recH.Create)))
	appMux.HandleFunc("POST /zones/{zoneID}/records/edit", sessionMgr.RequireSession(sessionMgr.ValidateCSRF(recH.Edit)))
	appMux.HandleFunc("POST /zones/{zoneID}/records/delete", sessionMgr.RequireSession(sessionMgr.ValidateCSRF(recH.Delete)))
	appMux.HandleFunc("GET /zones/{zoneID}/lookup", sessionMgr.RequireSession(lookupH.Show))

	appMux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
	})

	if cfg.Auth.Enabled {
		setupH := handler.NewSetupHandler(db, setupTmpl)
		authH := handler.NewAuthHandler(db, sessionMgr, ldapClient, loginTmpl)
		adminH := handler.NewAdminHandler(db, sessionMgr, adminUsersTmpl)
		adminAuditH := handler.NewAdminHandler(db, sessionMgr, adminAuditTmpl)

		mux.HandleFunc("GET /setup", setupH.SetupPage)
		mux.HandleFunc("POST /setup", setupH.SetupSubmit)

		appMux.HandleFunc("GET /login", authH.LoginPage)
		appMux.HandleFunc("POST /login", authH.LoginSubmit)
		appMux.HandleFunc("POST /logout", authH.Logout)

		appMux.HandleFunc("GET /admin/users", handler.RequireAdmin(sessionMgr, db, adminH.ListUsers))
		appMux.HandleFunc("POST /admin/users/create", handler.RequireAdmin(sessionMgr, db, sessionMgr.ValidateCSRF(adminH.CreateUser)))
		appMux.HandleFunc("POST /admin/users/delete", handler.RequireAdmin(sessionMgr, db, sessionMgr.ValidateCSRF(adminH.DeleteUser)))
		appMux.HandleFunc("GET /admin/audit", handler.RequireAdmin(sessionMgr, db, adminAuditH.AuditLog))

		mux.Handle("/", handler.RequireSetupComplete(db, appMux))
	} else {
		mux.Handle("/", appMux)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("cfpanel listening", "addr", addr)
	return http.ListenAndServe(addr, withAccessLog(log, metrics.Instrument(mux)))
}

func ttlLabel(v int) string {
	if v == 1 {
		return "Automatic"
	}
	return fmt.Sprintf("%d s", v)
}

func normalizeTTL(v int) int {
	return model.NormalizeTTL(v)
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.code = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// withAccessLog logs method, path, status and duration per request.
func withAccessLog(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		log.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.code,
			"remote", r.RemoteAddr,
			"duration", time.Since(start).String())
	})
}
