package users

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

// Repository is the storage view of directory users. Balance mutations are
// only reachable through LockPair, Debit and Credit, which the ledger drives.
type Repository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, snap *models.UserSnapshot, offered, wanted []models.Skill) (created bool, err error)
	LockPair(ctx context.Context, a, b string) ([]string, error)
	Debit(ctx context.Context, id string, amount int64) (bool, error)
	Credit(ctx context.Context, id string, amount int64) error
	IncrementTotalSessions(ctx context.Context, mentorID, learnerID string) error
	FoldRating(ctx context.Context, mentorID string, rating int) error
}
