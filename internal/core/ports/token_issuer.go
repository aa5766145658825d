package ports

import "github.com/finanzapp/finance-api/internal/core/domain"

// TokenIssuer mints bearer tokens bound to a session.
type TokenIssuer interface {
	Issue(session domain.Session) (string, error)
}
