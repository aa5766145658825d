package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/finanzapp/finance-api/internal/core/domain"
	"github.com/finanzapp/finance-api/internal/core/service"
)

// Context keys set by Auth.
const (
	CtxSessionID = "session_id"
	CtxAccount   = "account"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(raw string) (service.TokenClaims, error)
}

// SessionReader exposes the live session.
type SessionReader interface {
	Session() domain.Session
}

// Auth validates the bearer token and requires it to belong to the session
// that is currently active. Tokens from an ended or replaced session are
// rejected even when their signature is still valid.
func Auth(tokens TokenParser, sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			live, err := resolve(c, tokens, sessions)
			if err != nil {
				return err
			}
			bind(c, live)
			return next(c)
		}
	}
}

// OptionalAuth binds the account like Auth when the request carries a token
// for the live session, and lets every other request through anonymously.
func OptionalAuth(tokens TokenParser, sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if live, err := resolve(c, tokens, sessions); err == nil {
				bind(c, live)
			}
			return next(c)
		}
	}
}

func resolve(c echo.Context, tokens TokenParser, sessions SessionReader) (domain.Session, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := tokens.Parse(parts[1])
	if err != nil {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	live := sessions.Session()
	if !live.Active() {
		return domain.Session{}, domain.ErrNoSession
	}
	if live.ID != claims.SessionID || live.Account.ID != claims.AccountID {
		return domain.Session{}, domain.ErrSessionMismatch
	}
	return live, nil
}

func bind(c echo.Context, live domain.Session) {
	c.Set(CtxSessionID, live.ID)
	c.Set(CtxAccount, *live.Account)
}
