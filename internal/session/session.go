// Package session keeps per-browser-session state in process memory: the
// operator identity (when the sign-in gate is on), the provider API token
// and a short-lived zone list cache. Nothing in here is ever written to
// disk; a process restart ends every session.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/rs/xid"

	"cfpanel/internal/model"
)

const (
	cookieName    = "cfpanel_session"
	sessionMaxAge = 24 * time.Hour

	// zoneCacheTTL bounds how stale the cached zone list may get.
	zoneCacheTTL = 60 * time.Second
)

// Session is the state of one browser session.
type Session struct {
	ID        string
	CSRFToken string
	Username  string
	ExpiresAt time.Time

	mu         sync.Mutex
	credential string
	zones      []model.Zone
	zonesAt    time.Time
}

// SetCredential stores the API token for this session. Applying a
// credential always invalidates the cached zone list, so a token swap can
// never serve zones fetched under the previous token.
func (s *Session) SetCredential(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = token
	s.zones = nil
	s.zonesAt = time.Time{}
}

// ClearCredential drops the token and the zone cache unconditionally.
func (s *Session) ClearCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.zones = nil
	s.zonesAt = time.Time{}
}

func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

func (s *Session) HasCredential() bool {
	return s.Credential() != ""
}

// CachedZones returns the zone list while it is inside the freshness
// window.
func (s *Session) CachedZones() ([]model.Zone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.zones == nil || time.Since(s.zonesAt) > zoneCacheTTL {
		return nil, false
	}
	return s.zones, true
}

// StoreZones refreshes the cached zone list.
func (s *Session) StoreZones(zones []model.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = zones
	s.zonesAt = time.Now()
}

// InvalidateZones drops the cache so the next listing is a live call.
func (s *Session) InvalidateZones() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = nil
	s.zonesAt = time.Time{}
}

// Manager tracks sessions in memory.
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	authRequired bool
}

// NewManager creates a session manager. When authRequired is set, requests
// without a session are sent to the login page instead of getting an
// anonymous session.
func NewManager(authRequired bool) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		authRequired: authRequired,
	}
}

func (m *Manager) AuthRequired() bool { return m.authRequired }

// Create registers a session for the given operator (empty username for an
// anonymous session) and sets the session cookie.
func (m *Manager) Create(w http.ResponseWriter, username string) *Session {
	s := &Session{
		ID:        xid.New().String(),
		CSRFToken: randomToken(),
		Username:  username,
		ExpiresAt: time.Now().Add(sessionMaxAge),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
	return s
}

// FromRequest resolves the request's session, if any. Expired sessions are
// dropped on sight.
func (m *Manager) FromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, false
	}
	m.mu.RLock()
	s, ok := m.sessions[cookie.Value]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(s.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, s.ID)
		m.mu.Unlock()
		return nil, false
	}
	return s, true
}

// Destroy removes the session and clears the cookie. This is the only way
// to remove a stored credential short of ending the process.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieName); err == nil {
		m.mu.Lock()
		delete(m.sessions, cookie.Value)
		m.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:   cookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// PurgeExpired drops sessions past their expiry.
func (m *Manager) PurgeExpired() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
}

// RequireSession hands the handler a live session. Without the sign-in
// gate an anonymous session is created on first contact; with it, the
// visitor is sent to the login page.
func (m *Manager) RequireSession(next func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.FromRequest(r); !ok {
			if m.authRequired {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			s := m.Create(w, "")
			// Replace any stale cookie so the handler resolves the
			// fresh session on this same request.
			r.Header.Del("Cookie")
			r.AddCookie(&http.Cookie{Name: cookieName, Value: s.ID})
		}
		next(w, r)
	}
}

// ValidateCSRF rejects mutating requests whose csrf_token form field (or
// X-CSRF-Token header) does not match the session's token.
func (m *Manager) ValidateCSRF(next func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			s, ok := m.FromRequest(r)
			if !ok {
				http.Error(w, "Forbidden: no session", http.StatusForbidden)
				return
			}
			submitted := r.FormValue("csrf_token")
			if submitted == "" {
				submitted = r.Header.Get("X-CSRF-Token")
			}
			if submitted == "" || submitted != s.CSRFToken {
				http.Error(w, "Forbidden: invalid CSRF token", http.StatusForbidden)
				return
			}
		}
		next(w, r)
	}
}

func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
