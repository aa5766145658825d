package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finanzapp/finance-api/internal/core/domain"
	"github.com/finanzapp/finance-api/internal/core/service"
)

type stubSessions struct {
	session domain.Session
}

func (s *stubSessions) Session() domain.Session { return s.session }

func activeSession(id string) domain.Session {
	return domain.Session{
		ID:      id,
		Status:  domain.SessionActive,
		Account: &domain.PublicAccount{ID: 1, Name: "Ana", Email: "ana@example.com"},
	}
}

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	sessions := &stubSessions{session: activeSession("sess-1")}

	signed, err := tokens.Issue(sessions.session)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c, rec := newAuthContext("Bearer " + signed)

	called := false
	handler := Auth(tokens, sessions)(func(c echo.Context) error {
		called = true
		if c.Get(CtxSessionID) != "sess-1" {
			t.Fatalf("session id not set")
		}
		acct, ok := c.Get(CtxAccount).(domain.PublicAccount)
		if !ok || acct.Email != "ana@example.com" {
			t.Fatalf("account not set: %+v", c.Get(CtxAccount))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsHeaders(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	sessions := &stubSessions{session: activeSession("sess-1")}

	for name, header := range map[string]string{
		"missing":       "",
		"wrong scheme":  "Token abc",
		"invalid token": "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := newAuthContext(header)
			handler := Auth(tokens, sessions)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_EndedSession(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	sessions := &stubSessions{session: activeSession("sess-1")}

	signed, err := tokens.Issue(sessions.session)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	sessions.session = domain.Session{Status: domain.SessionNone}

	c, _ := newAuthContext("Bearer " + signed)
	err = Auth(tokens, sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestAuthMiddleware_ReplacedSession(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	sessions := &stubSessions{session: activeSession("sess-1")}

	signed, err := tokens.Issue(sessions.session)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	sessions.session = activeSession("sess-2")

	c, _ := newAuthContext("Bearer " + signed)
	err = Auth(tokens, sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected ErrSessionMismatch, got %v", err)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	sessions := &stubSessions{session: activeSession("sess-1")}

	signed, err := tokens.Issue(sessions.session)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tests := []struct {
		name      string
		header    string
		wantBound bool
	}{
		{name: "live token", header: "Bearer " + signed, wantBound: true},
		{name: "no header"},
		{name: "garbage", header: "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthContext(tt.header)
			err := OptionalAuth(tokens, sessions)(func(c echo.Context) error {
				_, bound := c.Get(CtxAccount).(domain.PublicAccount)
				if bound != tt.wantBound {
					t.Fatalf("bound = %v, want %v", bound, tt.wantBound)
				}
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil || rec.Code != http.StatusOK {
				t.Fatalf("expected pass-through, got %d / %v", rec.Code, err)
			}
		})
	}

	// a token for a replaced session is treated as anonymous
	sessions.session = activeSession("sess-2")
	c, _ := newAuthContext("Bearer " + signed)
	_ = OptionalAuth(tokens, sessions)(func(c echo.Context) error {
		if c.Get(CtxAccount) != nil {
			t.Fatalf("stale token bound an account")
		}
		return nil
	})(c)
}
