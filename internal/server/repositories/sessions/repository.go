package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	GetForUpdate(ctx context.Context, id string) (*models.Session, error)
	SaveConfirmation(ctx context.Context, s *models.Session) error
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, f models.SessionFilter) ([]*models.Session, error)
}
