package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

const (
	claimSessionID = "sid"
	claimEmail     = "email"
)

// TokenClaims is what a verified bearer token says about its session.
type TokenClaims struct {
	SessionID string
	AccountID int64
	Email     string
}

// TokenService issues and verifies HS256 bearer tokens tied to a session ID.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for an active session.
func (s *TokenService) Issue(session domain.Session) (string, error) {
	if !session.Active() {
		return "", domain.ErrNoSession
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":          strconv.FormatInt(session.Account.ID, 10),
		claimSessionID: session.ID,
		claimEmail:     session.Account.Email,
		"iat":          now.Unix(),
		"exp":          now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse verifies the signature and expiry of raw and extracts its claims.
func (s *TokenService) Parse(raw string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return TokenClaims{}, fmt.Errorf("parse token: %w", err)
	}
	if !tkn.Valid {
		return TokenClaims{}, errors.New("parse token: invalid")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("parse token: %w", err)
	}
	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("parse token: bad subject %q", sub)
	}
	sid, _ := claims[claimSessionID].(string)
	if sid == "" {
		return TokenClaims{}, errors.New("parse token: missing session id")
	}
	email, _ := claims[claimEmail].(string)

	return TokenClaims{SessionID: sid, AccountID: accountID, Email: email}, nil
}
