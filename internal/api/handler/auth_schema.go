package handler

import "github.com/finanzapp/finance-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string                `json:"token"`
	Account *domain.PublicAccount `json:"account"`
}

type sessionResponse struct {
	Status  domain.SessionStatus  `json:"status"`
	Account *domain.PublicAccount `json:"account,omitempty"`
}
