package reviews

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rv *models.Review) error
	ListByMentor(ctx context.Context, mentorID string, limit int) ([]*models.Review, error)
}
