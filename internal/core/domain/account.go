package domain

import (
	"strings"
	"time"
)

// Account is a registered user. It never leaves the directory; callers only
// ever see its PublicAccount projection.
type Account struct {
	ID        int64
	Name      string
	Email     string
	Secret    string
	CreatedAt time.Time
}

// PublicAccount is the part of an Account that may be shown to consumers.
type PublicAccount struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the secret-free projection of the account.
func (a Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Name: a.Name, Email: a.Email}
}

// NormalizeEmail trims and lowercases an email so it can be used as the
// directory key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
