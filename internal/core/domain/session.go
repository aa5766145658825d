package domain

import "time"

// SessionStatus is the lifecycle state of the process-wide session.
type SessionStatus string

const (
	SessionNone    SessionStatus = "none"
	SessionPending SessionStatus = "pending"
	SessionActive  SessionStatus = "active"
)

// Session is the currently signed-in actor, if any. Account is nil unless
// Status is SessionActive.
type Session struct {
	ID        string         `json:"id,omitempty"`
	Status    SessionStatus  `json:"status"`
	Account   *PublicAccount `json:"account,omitempty"`
	StartedAt time.Time      `json:"started_at,omitzero"`
}

// Active reports whether the session is bound to an account.
func (s Session) Active() bool {
	return s.Status == SessionActive && s.Account != nil
}
