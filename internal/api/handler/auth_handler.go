package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finanzapp/finance-api/internal/api/metrics"
	"github.com/finanzapp/finance-api/internal/core/domain"
	"github.com/finanzapp/finance-api/internal/core/ports"
)

// AuthHandler exposes the account directory and session over HTTP.
type AuthHandler struct {
	directory ports.AccountDirectory
	tokens    ports.TokenIssuer
	log       zerolog.Logger
}

func NewAuthHandler(directory ports.AccountDirectory, tokens ports.TokenIssuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{directory: directory, tokens: tokens, log: log}
}

// Register creates an account and signs it in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	session, err := h.directory.Register(req.Name, req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", resultLabel(err)).Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	metrics.AccountsRegisteredTotal.Inc()

	return h.respondWithToken(c, http.StatusCreated, session)
}

// Login signs in an existing account and returns a session token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "invalid_input").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	session, err := h.directory.Authenticate(req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("authenticate", resultLabel(err)).Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "ok").Inc()

	return h.respondWithToken(c, http.StatusOK, session)
}

// Logout ends the current session. The route is mounted behind Auth.
//
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.directory.EndSession()
	metrics.SessionActive.Set(0)
	return c.NoContent(http.StatusNoContent)
}

// Session reports the current session state. The account is included only
// for a caller whose token belongs to the live session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	resp := sessionResponse{Status: h.directory.Session().Status}
	if acct, err := ctxAccount(c); err == nil {
		resp.Account = &acct
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, session domain.Session) error {
	metrics.SessionActive.Set(1)

	token, err := h.tokens.Issue(session)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", session.ID).Msg("token issue failed")
		return err
	}
	return c.JSON(status, authResponse{Token: token, Account: session.Account})
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateAccount):
		return "duplicate_account"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	default:
		return "error"
	}
}
