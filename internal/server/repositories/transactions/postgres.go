package transactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) error {
	query :=
		`INSERT INTO transactions (id, from_user_id, to_user_id, amount, kind, session_id, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	var sessionID sql.NullString
	if t.SessionID != nil {
		sessionID = sql.NullString{String: *t.SessionID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, t.ID, t.FromUserID, t.ToUserID, t.Amount, t.Kind,
		sessionID, t.Description).Scan(&t.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListByUser returns rows where the user is on either side, newest first.
// A non-positive limit returns the full history.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	query :=
		`SELECT id, from_user_id, to_user_id, amount, kind, session_id, description, created_at
		 FROM transactions
		 WHERE from_user_id = $1 OR to_user_id = $1
		 ORDER BY created_at DESC, id
		 `

	args := []any{userID}
	if limit > 0 {
		query += `LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		var sessionID sql.NullString
		if err := rows.Scan(&t.ID, &t.FromUserID, &t.ToUserID, &t.Amount, &t.Kind,
			&sessionID, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if sessionID.Valid {
			t.SessionID = &sessionID.String
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

// Totals sums incoming (earned) and outgoing (spent) amounts for the user.
func (r *PostgresRepository) Totals(ctx context.Context, userID string) (int64, int64, error) {
	query :=
		`SELECT COALESCE(SUM(amount) FILTER (WHERE to_user_id = $1), 0),
		        COALESCE(SUM(amount) FILTER (WHERE from_user_id = $1), 0)
		 FROM transactions
		 WHERE from_user_id = $1 OR to_user_id = $1
		 `

	var earned, spent int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&earned, &spent); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}

	return earned, spent, nil
}
