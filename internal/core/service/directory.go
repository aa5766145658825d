package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finanzapp/finance-api/internal/core/domain"
	"github.com/finanzapp/finance-api/internal/core/ports"
)

// Directory implements ports.AccountDirectory in memory. Accounts are keyed
// by normalized email; at most one session is active at a time.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	nextID   int64
	session  domain.Session

	recorder ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewDirectory returns an empty directory with no session. recorder may be nil.
func NewDirectory(recorder ports.ActivityRecorder, log zerolog.Logger) *Directory {
	return &Directory{
		accounts: make(map[string]domain.Account),
		session:  domain.Session{Status: domain.SessionNone},
		recorder: recorder,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account and signs it in. The directory is left
// untouched when the normalized email is already on file.
func (d *Directory) Register(name, email, secret string) (domain.Session, error) {
	key := domain.NormalizeEmail(email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[key]; exists {
		d.log.Debug().Str("email", key).Msg("registration rejected, email on file")
		return domain.Session{}, domain.ErrDuplicateAccount
	}

	d.nextID++
	acct := domain.Account{
		ID:        d.nextID,
		Name:      strings.TrimSpace(name),
		Email:     key,
		Secret:    secret,
		CreatedAt: d.now(),
	}
	d.accounts[key] = acct

	s := d.startSession(acct)
	d.log.Info().Int64("account_id", acct.ID).Str("session_id", s.ID).Msg("account registered")
	d.record(domain.Activity{
		Kind:      domain.ActivityAccountRegistered,
		AccountID: acct.ID,
		Email:     key,
		SessionID: s.ID,
	})
	return s, nil
}

// Authenticate signs in an existing account, replacing any current session.
// On failure the session is left as it was.
func (d *Directory) Authenticate(email, secret string) (domain.Session, error) {
	key := domain.NormalizeEmail(email)

	d.mu.Lock()
	defer d.mu.Unlock()

	acct, ok := d.accounts[key]
	if !ok {
		d.record(domain.Activity{Kind: domain.ActivitySignInFailed, Email: key, Subject: "account_not_found"})
		return domain.Session{}, domain.ErrAccountNotFound
	}
	if acct.Secret != secret {
		d.record(domain.Activity{Kind: domain.ActivitySignInFailed, AccountID: acct.ID, Email: key, Subject: "invalid_credential"})
		return domain.Session{}, domain.ErrInvalidCredential
	}

	if d.session.Active() {
		d.log.Debug().Str("replaced_session_id", d.session.ID).Msg("active session replaced by new sign-in")
	}
	s := d.startSession(acct)
	d.log.Info().Int64("account_id", acct.ID).Str("session_id", s.ID).Msg("signed in")
	d.record(domain.Activity{
		Kind:      domain.ActivitySignInSucceeded,
		AccountID: acct.ID,
		Email:     key,
		SessionID: s.ID,
	})
	return s, nil
}

// EndSession resets the session. It is safe to call with no active session.
func (d *Directory) EndSession() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.session
	d.session = domain.Session{Status: domain.SessionNone}
	if !prev.Active() {
		return false
	}

	d.log.Info().Int64("account_id", prev.Account.ID).Str("session_id", prev.ID).Msg("signed out")
	d.record(domain.Activity{
		Kind:      domain.ActivitySessionEnded,
		AccountID: prev.Account.ID,
		Email:     prev.Account.Email,
		SessionID: prev.ID,
	})
	return true
}

// Session returns a copy of the current session.
func (d *Directory) Session() domain.Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneSession(d.session)
}

// CurrentAccount returns the signed-in account, if any.
func (d *Directory) CurrentAccount() (domain.PublicAccount, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.session.Active() {
		return domain.PublicAccount{}, false
	}
	return *d.session.Account, true
}

// Size returns the number of registered accounts.
func (d *Directory) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

// startSession must be called with d.mu held.
func (d *Directory) startSession(acct domain.Account) domain.Session {
	pub := acct.Public()
	d.session = domain.Session{
		ID:        uuid.NewString(),
		Status:    domain.SessionActive,
		Account:   &pub,
		StartedAt: d.now(),
	}
	return cloneSession(d.session)
}

func (d *Directory) record(a domain.Activity) {
	if d.recorder == nil {
		return
	}
	if a.At.IsZero() {
		a.At = d.now()
	}
	d.recorder.Record(a)
}

func cloneSession(s domain.Session) domain.Session {
	if s.Account != nil {
		acct := *s.Account
		s.Account = &acct
	}
	return s
}
