package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, display_name, skills_offered, skills_wanted, coin_balance, blocked,
		        rating, review_count, total_sessions, is_system, created_at, updated_at
		 FROM users
		 WHERE id = $1
		 `

	var offered, wanted []string
	types := pgtype.NewMap()

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.DisplayName, types.SQLScanner(&offered), types.SQLScanner(&wanted),
		&u.CoinBalance, &u.Blocked, &u.Rating, &u.ReviewCount, &u.TotalSessions,
		&u.IsSystem, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.SkillsOffered = toSkills(offered)
	u.SkillsWanted = toSkills(wanted)

	return u, nil
}

// Upsert writes the directory-owned columns only. created reports whether
// the row did not exist before.
func (r *PostgresRepository) Upsert(ctx context.Context, snap *models.UserSnapshot, offered, wanted []models.Skill) (bool, error) {
	query :=
		`INSERT INTO users (id, display_name, skills_offered, skills_wanted, blocked)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET display_name = EXCLUDED.display_name,
		     skills_offered = EXCLUDED.skills_offered,
		     skills_wanted = EXCLUDED.skills_wanted,
		     blocked = EXCLUDED.blocked,
		     updated_at = now()
		 WHERE NOT users.is_system
		 RETURNING (xmax = 0) AS inserted
		 `

	var created bool
	err := r.db.QueryRowContext(ctx, query, snap.ID, snap.DisplayName,
		models.SkillStrings(offered), models.SkillStrings(wanted), snap.Blocked).Scan(&created)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%w: system account cannot be synced", common.ErrForbidden)
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

// LockPair takes row locks on both users in ascending id order and returns
// the ids that exist.
func (r *PostgresRepository) LockPair(ctx context.Context, a, b string) ([]string, error) {
	query :=
		`SELECT id FROM users
		 WHERE id IN ($1, $2)
		 ORDER BY id
		 FOR UPDATE
		 `

	rows, err := r.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

// Debit subtracts amount when the balance covers it. It reports false when
// no row was changed.
func (r *PostgresRepository) Debit(ctx context.Context, id string, amount int64) (bool, error) {
	query :=
		`UPDATE users SET coin_balance = coin_balance - $2, updated_at = now()
		 WHERE id = $1 AND (coin_balance >= $2 OR is_system)
		 `

	res, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n == 1, nil
}

func (r *PostgresRepository) Credit(ctx context.Context, id string, amount int64) error {
	query :=
		`UPDATE users SET coin_balance = coin_balance + $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) IncrementTotalSessions(ctx context.Context, mentorID, learnerID string) error {
	query :=
		`UPDATE users SET total_sessions = total_sessions + 1, updated_at = now()
		 WHERE id IN ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, mentorID, learnerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// FoldRating adds one rating to the running mean in a single statement.
func (r *PostgresRepository) FoldRating(ctx context.Context, mentorID string, rating int) error {
	query :=
		`UPDATE users
		 SET rating = (rating * review_count + $2) / (review_count + 1),
		     review_count = review_count + 1,
		     updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, mentorID, rating)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func toSkills(in []string) []models.Skill {
	out := make([]models.Skill, len(in))
	for i, s := range in {
		out[i] = models.Skill(s)
	}
	return out
}
