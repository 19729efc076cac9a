package auth

import (
	"encoding/gob"
	"net/http"

	"go.uber.org/zap"
)

// Flash kinds map onto the alert styles in the layout template.
const (
	FlashDanger  = "danger"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// NewFlash is shorthand for &Flash{kind, msg}, used with SignIn/SignOut.
func NewFlash(kind, msg string) *Flash {
	return &Flash{Kind: kind, Message: msg}
}

// AddFlash queues a message for the next page render. A failed save is
// logged; the redirect that usually follows still happens.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess := m.session(r)
	sess.AddFlash(Flash{Kind: kind, Message: msg})
	if err := sess.Save(r, w); err != nil {
		m.log.Warn("flash save failed", zap.Error(err))
	}
}

// Flashes pops every queued message. It writes the emptied session back, so
// call it before anything is written to the response body.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := m.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	if err := sess.Save(r, w); err != nil {
		m.log.Warn("flash clear failed", zap.Error(err))
	}
	return out
}
