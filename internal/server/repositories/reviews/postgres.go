package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the review unless one already exists for the session, in
// which case it returns common.ErrDuplicateReview. The unique index decides;
// there is no prior existence check.
func (r *PostgresRepository) Create(ctx context.Context, rv *models.Review) error {
	query :=
		`INSERT INTO reviews (id, session_id, mentor_id, learner_id, rating, comment)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (session_id) DO NOTHING
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, rv.ID, rv.SessionID, rv.MentorID, rv.LearnerID,
		rv.Rating, rv.Comment).Scan(&rv.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrDuplicateReview
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrDuplicateReview
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListByMentor(ctx context.Context, mentorID string, limit int) ([]*models.Review, error) {
	query :=
		`SELECT id, session_id, mentor_id, learner_id, rating, comment, created_at
		 FROM reviews
		 WHERE mentor_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, mentorID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		rv := &models.Review{}
		if err := rows.Scan(&rv.ID, &rv.SessionID, &rv.MentorID, &rv.LearnerID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
