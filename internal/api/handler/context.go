package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/finanzapp/finance-api/internal/api/middleware"
	"github.com/finanzapp/finance-api/internal/core/domain"
)

// ctxAccount returns the account the Auth middleware bound to the request.
// Its absence means the route was mounted without Auth.
func ctxAccount(c echo.Context) (domain.PublicAccount, error) {
	acct, ok := c.Get(middleware.CtxAccount).(domain.PublicAccount)
	if !ok {
		return domain.PublicAccount{}, domain.ErrNoSession
	}
	return acct, nil
}
