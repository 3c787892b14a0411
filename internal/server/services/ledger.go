package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/server/metrics"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/repomanager"
)

// LedgerService is the only component that changes a coin balance. Every
// movement is a debit, a credit and one appended transaction row, all in
// the caller's database transaction.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *LedgerService {
	return &LedgerService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "ledger"),
	}
}

// Transfer moves coins in a transaction of its own.
func (s *LedgerService) Transfer(ctx context.Context, req models.TransferRequest) (_ *models.Transaction, err error) {
	ctx, span := startSpan(ctx, "Ledger.Transfer")
	defer func() { endSpan(span, err) }()
	req.From, req.To = models.CanonicalID(req.From), models.CanonicalID(req.To)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Transaction, error) {
		return s.transferTx(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, t)
	return t, nil
}

// transferTx performs the movement inside an existing transaction. Both
// user rows are locked in ascending id order before either is touched, so
// two transfers over the same pair queue up instead of deadlocking.
func (s *LedgerService) transferTx(ctx context.Context, tx dbx.DBTX, req models.TransferRequest) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	users := s.repomanager.Users(tx)

	locked, err := users.LockPair(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}
	if len(locked) != 2 {
		return nil, fmt.Errorf("%w: transfer party does not exist", common.ErrorNotFound)
	}

	ok, err := users.Debit(ctx, req.From, req.Amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInsufficientBalance
	}

	if err := users.Credit(ctx, req.To, req.Amount); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:          uuid.NewString(),
		FromUserID:  req.From,
		ToUserID:    req.To,
		Amount:      req.Amount,
		Kind:        req.Kind,
		SessionID:   req.SessionID,
		Description: req.Description,
	}
	if err := s.repomanager.Transactions(tx).Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// AdminAdjust credits (delta > 0) or debits (delta < 0) a user against the
// treasury. A debit larger than the balance is rejected as invalid input.
func (s *LedgerService) AdminAdjust(ctx context.Context, userID string, delta int64, reason string) (_ *models.Transaction, err error) {
	ctx, span := startSpan(ctx, "Ledger.AdminAdjust")
	defer func() { endSpan(span, err) }()
	userID = models.CanonicalID(userID)

	t, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Transaction, error) {
		return s.adminAdjustTx(ctx, tx, userID, delta, reason)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "balance adjusted", "user_id", userID, "delta", delta, "transaction_id", t.ID)
	s.committed(ctx, t)
	return t, nil
}

func (s *LedgerService) adminAdjustTx(ctx context.Context, tx dbx.DBTX, userID string, delta int64, reason string) (*models.Transaction, error) {
	switch {
	case delta == 0:
		return nil, fmt.Errorf("%w: adjustment must not be zero", common.ErrValidation)
	case userID == models.TreasuryID:
		return nil, fmt.Errorf("%w: treasury cannot be adjusted", common.ErrValidation)
	}

	req := models.TransferRequest{
		From:        models.TreasuryID,
		To:          userID,
		Amount:      delta,
		Kind:        models.KindAdminAdjust,
		Description: strings.TrimSpace(reason),
	}
	if delta < 0 {
		req.From, req.To, req.Amount = userID, models.TreasuryID, -delta
	}

	t, err := s.transferTx(ctx, tx, req)
	if errors.Is(err, common.ErrInsufficientBalance) {
		return nil, fmt.Errorf("%w: adjustment exceeds balance", common.ErrValidation)
	}
	return t, err
}

func (s *LedgerService) committed(ctx context.Context, t *models.Transaction) {
	metrics.RecordTransfer(t)
	s.logger.Debug(ctx, "transfer committed",
		"transaction_id", t.ID, "kind", t.Kind, "from", t.FromUserID, "to", t.ToUserID, "amount", t.Amount)
}
