package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

const selectColumns = `SELECT id, mentor_id, learner_id, skill, status, otp, mentor_confirmed, learner_confirmed,
		        created_at, completed_at, cancelled_at
		 FROM sessions`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	s := &models.Session{}
	var completedAt, cancelledAt sql.NullTime
	if err := row.Scan(&s.ID, &s.MentorID, &s.LearnerID, &s.Skill, &s.Status, &s.OTP,
		&s.MentorConfirmed, &s.LearnerConfirmed, &s.CreatedAt, &completedAt, &cancelledAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	if cancelledAt.Valid {
		s.CancelledAt = &cancelledAt.Time
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) error {
	query :=
		`INSERT INTO sessions (id, mentor_id, learner_id, skill, status, otp, mentor_confirmed, learner_confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, s.ID, s.MentorID, s.LearnerID, s.Skill, s.Status, s.OTP,
		s.MentorConfirmed, s.LearnerConfirmed).Scan(&s.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) get(ctx context.Context, id string, lock bool) (*models.Session, error) {
	query := selectColumns + `
		 WHERE id = $1`
	if lock {
		query += `
		 FOR UPDATE`
	}

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate loads the session and holds its row lock until the
// surrounding transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Session, error) {
	return r.get(ctx, id, true)
}

// SaveConfirmation persists both flags and, when the session completed,
// its status and completion time. Only pending rows are updated.
func (r *PostgresRepository) SaveConfirmation(ctx context.Context, s *models.Session) error {
	query :=
		`UPDATE sessions
		 SET mentor_confirmed = $2, learner_confirmed = $3, status = $4, completed_at = $5
		 WHERE id = $1 AND status = 'pending'
		 `

	var completedAt sql.NullTime
	if s.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *s.CompletedAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, s.ID, s.MentorConfirmed, s.LearnerConfirmed, s.Status, completedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

func (r *PostgresRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	query :=
		`UPDATE sessions
		 SET status = 'cancelled', cancelled_at = $2
		 WHERE id = $1 AND status = 'pending'
		 `

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

// List returns the user's sessions newest first.
func (r *PostgresRepository) List(ctx context.Context, f models.SessionFilter) ([]*models.Session, error) {
	var (
		where []string
		args  = []any{f.UserID}
	)

	switch f.Role {
	case models.RoleMentor:
		where = append(where, "mentor_id = $1")
	case models.RoleLearner:
		where = append(where, "learner_id = $1")
	default:
		where = append(where, "(mentor_id = $1 OR learner_id = $1)")
	}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	args = append(args, f.Limit)
	query := fmt.Sprintf(`%s
		 WHERE %s
		 ORDER BY created_at DESC, id
		 LIMIT $%d`, selectColumns, strings.Join(where, " AND "), len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%w: session is no longer pending", common.ErrConflict)
	}
	return nil
}
