package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/server/config"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/repomanager"
)

// WalletService is the read side of the ledger: balances, totals,
// history and exported statements.
type WalletService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	config      *config.Config
}

func NewWalletService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, cfg *config.Config) *WalletService {
	return &WalletService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "wallet"),
		config:      cfg,
	}
}

var snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// GetWallet reads balance, totals and recent rows from one snapshot, so the
// totals always agree with the listed history.
func (s *WalletService) GetWallet(ctx context.Context, userID string, limit int) (_ *models.Wallet, err error) {
	ctx, span := startSpan(ctx, "Wallet.GetWallet")
	defer func() { endSpan(span, err) }()
	userID = models.CanonicalID(userID)

	if limit, err = normalizeLimit(limit); err != nil {
		return nil, err
	}

	return dbx.InTx(ctx, s.db, snapshotTx, func(ctx context.Context, tx dbx.DBTX) (*models.Wallet, error) {
		u, err := s.repomanager.Users(tx).Get(ctx, userID)
		if err != nil {
			return nil, err
		}

		txs := s.repomanager.Transactions(tx)

		earned, spent, err := txs.Totals(ctx, userID)
		if err != nil {
			return nil, err
		}

		recent, err := txs.ListByUser(ctx, userID, limit)
		if err != nil {
			return nil, err
		}

		return &models.Wallet{
			UserID:       u.ID,
			Balance:      u.CoinBalance,
			TotalEarned:  earned,
			TotalSpent:   spent,
			Transactions: recent,
		}, nil
	})
}
