package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/server/config"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/repomanager"
)

// DirectoryService is the core's view of the identity directory. Sync
// writes profile fields only; balances, ratings and counters are owned by
// the ledger, reviews and sessions.
type DirectoryService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	ledger       *LedgerService
	logger       logging.Logger
	initialGrant int64
}

func NewDirectoryService(db *sql.DB, m repomanager.RepositoryManager, ledger *LedgerService,
	logger logging.Logger, cfg *config.Config) *DirectoryService {
	return &DirectoryService{
		db:           db,
		repomanager:  m,
		ledger:       ledger,
		logger:       logger.With("module", "directory"),
		initialGrant: cfg.InitialGrant,
	}
}

func (s *DirectoryService) GetUser(ctx context.Context, id string) (_ *models.User, err error) {
	ctx, span := startSpan(ctx, "Directory.GetUser")
	defer func() { endSpan(span, err) }()
	id = models.CanonicalID(id)

	return s.repomanager.Users(s.db).Get(ctx, id)
}

// SyncUser upserts a directory snapshot. A user seen for the first time
// receives the initial grant in the same transaction.
func (s *DirectoryService) SyncUser(ctx context.Context, snap *models.UserSnapshot) (_ *models.User, err error) {
	ctx, span := startSpan(ctx, "Directory.SyncUser")
	defer func() { endSpan(span, err) }()

	if snap == nil || strings.TrimSpace(snap.ID) == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	snap.ID = models.CanonicalID(snap.ID)
	offered, err := models.ParseSkillSet(snap.SkillsOffered)
	if err != nil {
		return nil, err
	}
	wanted, err := models.ParseSkillSet(snap.SkillsWanted)
	if err != nil {
		return nil, err
	}
	snap.DisplayName = strings.TrimSpace(snap.DisplayName)

	var grant *models.Transaction
	u, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		users := s.repomanager.Users(tx)

		created, err := users.Upsert(ctx, snap, offered, wanted)
		if err != nil {
			return nil, err
		}

		if created && s.initialGrant > 0 {
			grant, err = s.ledger.adminAdjustTx(ctx, tx, snap.ID, s.initialGrant, "initial grant")
			if err != nil {
				return nil, err
			}
		}

		return users.Get(ctx, snap.ID)
	})
	if err != nil {
		return nil, err
	}

	if grant != nil {
		s.ledger.committed(ctx, grant)
		s.logger.Info(ctx, "user created", "user_id", u.ID, "initial_grant", s.initialGrant)
	} else {
		s.logger.Debug(ctx, "user synced", "user_id", u.ID, "blocked", u.Blocked)
	}

	return u, nil
}
