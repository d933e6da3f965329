// Package session issues the per-browser identifier attached to feedback.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultCookieName is used when the manager is built without one.
const DefaultCookieName = "bean_session"

// Session identifies one browser session. It is created on the first
// request and the same ID is reused for every later request from that
// browser.
type Session struct {
	ID  uuid.UUID
	New bool
}

// Manager loads sessions from, and writes them to, a cookie.
type Manager struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// NewManager returns a Manager with defaults filled in.
func NewManager(cookieName string, secure bool) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{CookieName: cookieName, Secure: secure, MaxAge: 24 * time.Hour}
}

// Load returns the request's session, issuing a new one and setting the
// cookie when the request carries none or an unreadable one.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(m.CookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return &Session{ID: id}
		}
	}

	s := &Session{ID: uuid.New(), New: true}
	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    s.ID.String(),
		Path:     "/",
		MaxAge:   int(m.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}
