package sessions

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var sessionColumns = []string{"id", "mentor_id", "learner_id", "skill", "status", "otp",
	"mentor_confirmed", "learner_confirmed", "created_at", "completed_at", "cancelled_at"}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	q := `(?s)^INSERT\s+INTO\s+sessions\s*\(id,\s*mentor_id,\s*learner_id,\s*skill,\s*status,\s*otp,.*RETURNING\s+created_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("s-1", "m", "l", "go", "pending", "004200", false, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	s := &models.Session{ID: "s-1", MentorID: "m", LearnerID: "l", Skill: "go", Status: models.SessionPending, OTP: "004200"}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, created, s.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO sessions`).WillReturnError(errors.New("fk violation"))

	err := repo.Create(context.Background(), &models.Session{ID: "s-1"})
	require.ErrorContains(t, err, "db error: fk violation")
}

func TestGetForUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^SELECT\s+id,\s*mentor_id,.*FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE\s*$`
	mock.ExpectQuery(q).WithArgs("s-1").WillReturnRows(sqlmock.NewRows(sessionColumns).
		AddRow("s-1", "m", "l", "go", "completed", "000001", true, true, now, now, nil))

	s, err := repo.GetForUpdate(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, s.Status)
	assert.Equal(t, models.OTP("000001"), s.OTP)
	require.NotNil(t, s.CompletedAt)
	assert.Nil(t, s.CancelledAt)
}

func TestGet_NoLockAndNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*mentor_id,.*FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSaveConfirmation(t *testing.T) {
	q := `(?s)^UPDATE\s+sessions\s+SET\s+mentor_confirmed\s*=\s*\$2,\s*learner_confirmed\s*=\s*\$3,\s*status\s*=\s*\$4,\s*completed_at\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$1\s+AND\s+status\s*=\s*'pending'\s*$`

	t.Run("updated", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).
			WithArgs("s-1", true, false, "pending", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := &models.Session{ID: "s-1", MentorConfirmed: true, Status: models.SessionPending}
		require.NoError(t, repo.SaveConfirmation(context.Background(), s))
	})

	t.Run("no longer pending", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

		now := time.Now()
		s := &models.Session{ID: "s-1", MentorConfirmed: true, LearnerConfirmed: true, Status: models.SessionCompleted, CompletedAt: &now}
		require.ErrorIs(t, repo.SaveConfirmation(context.Background(), s), common.ErrConflict)
	})
}

func TestMarkCancelled(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	q := `(?s)^UPDATE\s+sessions\s+SET\s+status\s*=\s*'cancelled',\s*cancelled_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s+AND\s+status\s*=\s*'pending'\s*$`
	mock.ExpectExec(q).WithArgs("s-1", at).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkCancelled(context.Background(), "s-1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		filter models.SessionFilter
		query  string
		args   []driver.Value
	}{
		{
			name:   "any role",
			filter: models.SessionFilter{UserID: "u", Limit: 50},
			query:  `(?s)WHERE\s+\(mentor_id\s*=\s*\$1\s+OR\s+learner_id\s*=\s*\$1\)\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+LIMIT\s+\$2$`,
			args:   []driver.Value{"u", 50},
		},
		{
			name:   "mentor with status",
			filter: models.SessionFilter{UserID: "u", Role: models.RoleMentor, Status: models.SessionPending, Limit: 10},
			query:  `(?s)WHERE\s+mentor_id\s*=\s*\$1\s+AND\s+status\s*=\s*\$2\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+LIMIT\s+\$3$`,
			args:   []driver.Value{"u", "pending", 10},
		},
		{
			name:   "learner",
			filter: models.SessionFilter{UserID: "u", Role: models.RoleLearner, Limit: 1},
			query:  `(?s)WHERE\s+learner_id\s*=\s*\$1\s+ORDER`,
			args:   []driver.Value{"u", 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(tt.query).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(sessionColumns).
					AddRow("s-2", "u", "l", "go", "pending", "111111", false, false, now, nil, nil).
					AddRow("s-1", "u", "l", "go", "pending", "222222", false, false, now.Add(-time.Hour), nil, nil))

			got, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "s-2", got[0].ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
