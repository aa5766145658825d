package ports

import "github.com/finanzapp/finance-api/internal/core/domain"

// AccountDirectory owns the registered accounts and the single process-wide
// session.
type AccountDirectory interface {
	Register(name, email, secret string) (domain.Session, error)
	Authenticate(email, secret string) (domain.Session, error)
	// EndSession clears the session and reports whether one was active.
	EndSession() bool
	Session() domain.Session
	CurrentAccount() (domain.PublicAccount, bool)
}
