package migrations

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T) string {
	t.Helper()
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	var b strings.Builder
	for _, n := range names {
		data, err := fs.ReadFile(Migrations, n)
		require.NoError(t, err)
		b.Write(data)
	}
	return b.String()
}

func TestMigrations_HaveGooseSections(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)

	for _, n := range names {
		data, err := fs.ReadFile(Migrations, n)
		require.NoError(t, err)
		assert.Contains(t, string(data), "-- +goose Up", n)
		assert.Contains(t, string(data), "-- +goose Down", n)
	}
}

func TestMigrations_SingleBalanceColumn(t *testing.T) {
	sql := readAll(t)

	cols := regexp.MustCompile(`(?m)^\s+(\w*balance\w*)\s+\w+`).FindAllStringSubmatch(sql, -1)
	require.Len(t, cols, 1, "exactly one balance column may exist in the schema")
	assert.Equal(t, "coin_balance", cols[0][1])
}

func TestMigrations_ReviewUniquenessAndTreasury(t *testing.T) {
	sql := readAll(t)

	assert.Contains(t, sql, "CREATE UNIQUE INDEX reviews_session_uidx ON reviews (session_id)")
	assert.Contains(t, sql, "'00000000-0000-0000-0000-000000000001'")
	assert.Contains(t, sql, "CHECK (coin_balance >= 0 OR is_system)")
}
