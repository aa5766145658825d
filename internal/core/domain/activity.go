package domain

import "time"

// ActivityKind names an auditable state change.
type ActivityKind string

const (
	ActivityAccountRegistered ActivityKind = "account_registered"
	ActivitySignInSucceeded   ActivityKind = "sign_in_succeeded"
	ActivitySignInFailed      ActivityKind = "sign_in_failed"
	ActivitySessionEnded      ActivityKind = "session_ended"
	ActivityTransactionAdded  ActivityKind = "transaction_added"
)

// Activity is an audit record. It is written for operators and never read
// back to rebuild state.
type Activity struct {
	Kind      ActivityKind
	AccountID int64  // zero when no account is involved
	Email     string // normalized; empty for ledger activity
	SessionID string
	Subject   string // transaction ID, failure reason, ...
	At        time.Time
}
