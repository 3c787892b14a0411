package transactions

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

// Repository is insert-only; rows are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, t *models.Transaction) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
	Totals(ctx context.Context, userID string) (earned, spent int64, err error)
}
