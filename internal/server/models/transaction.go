package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/common"
)

type TransactionKind string

const (
	KindSessionBooking  TransactionKind = "session-booking"
	KindSessionReversal TransactionKind = "session-reversal"
	KindAdminAdjust     TransactionKind = "admin-adjust"
)

// RequiresSession reports whether rows of this kind must reference a session.
func (k TransactionKind) RequiresSession() bool {
	return k == KindSessionBooking || k == KindSessionReversal
}

func (k TransactionKind) Valid() bool {
	switch k {
	case KindSessionBooking, KindSessionReversal, KindAdminAdjust:
		return true
	}
	return false
}

// Transaction is an immutable ledger row.
type Transaction struct {
	ID          string
	FromUserID  string
	ToUserID    string
	Amount      int64
	Kind        TransactionKind
	SessionID   *string
	Description string
	CreatedAt   time.Time
}

// TransferRequest describes one ledger movement.
type TransferRequest struct {
	From        string
	To          string
	Amount      int64
	Kind        TransactionKind
	SessionID   *string
	Description string
}

// Validate checks the request shape; balances are checked by the ledger.
func (r TransferRequest) Validate() error {
	switch {
	case r.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	case r.From == "" || r.To == "":
		return fmt.Errorf("%w: both parties are required", common.ErrValidation)
	case r.From == r.To:
		return fmt.Errorf("%w: transfer to self", common.ErrValidation)
	case !r.Kind.Valid():
		return fmt.Errorf("%w: unknown transaction kind %q", common.ErrValidation, r.Kind)
	case r.Kind.RequiresSession() && (r.SessionID == nil || *r.SessionID == ""):
		return fmt.Errorf("%w: %s requires a session id", common.ErrValidation, r.Kind)
	}
	return nil
}

// Wallet summarizes a user's ledger position.
type Wallet struct {
	UserID       string
	Balance      int64
	TotalEarned  int64
	TotalSpent   int64
	Transactions []*Transaction
}

// Direction tells whether a row moved coins into or out of userID.
func (t *Transaction) Direction(userID string) string {
	if t.ToUserID == userID {
		return "in"
	}
	return "out"
}

// Counterparty returns the other side of the row from userID's perspective.
func (t *Transaction) Counterparty(userID string) string {
	if t.ToUserID == userID {
		return t.FromUserID
	}
	return t.ToUserID
}
