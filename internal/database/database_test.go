package database

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "app.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	require.NoError(t, Migrate(ctx, db, quietLogger()))
	require.NoError(t, Migrate(ctx, db, quietLogger()))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)

	for _, table := range []string{"users", "categories", "products", "orders", "order_items", "favorites", "user_profiles", "hero_images", "sessions"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	require.NoError(t, Migrate(ctx, db, quietLogger()))

	_, err := db.Exec(
		"INSERT INTO products (productName, price, categoryId, publishingDate) VALUES ('Ghost', 1, 999, '2024-01-01')",
	)
	assert.Error(t, err)
}

func TestSeedAndDefaultCategory(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	require.NoError(t, Migrate(ctx, db, quietLogger()))

	n, err := SeedCategories(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = SeedCategories(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)

	first, err := EnsureDefaultCategory(ctx, db)
	require.NoError(t, err)
	second, err := EnsureDefaultCategory(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProfileTriggerTouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	require.NoError(t, Migrate(ctx, db, quietLogger()))

	_, err := db.Exec("INSERT INTO users (username, password) VALUES ('u', 'p')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO user_profiles (user_id, firstName, updated_at) VALUES (1, 'A', '2000-01-01 00:00:00')")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE user_profiles SET firstName = 'B' WHERE user_id = 1")
	require.NoError(t, err)

	var updatedAt string
	require.NoError(t, db.QueryRow("SELECT updated_at FROM user_profiles WHERE user_id = 1").Scan(&updatedAt))
	assert.NotEqual(t, "2000-01-01 00:00:00", updatedAt)
}

func TestEnsureDefaultCategoryWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM categories WHERE categoryName").
		WithArgs("Uncategorized").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Uncategorized").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := EnsureDefaultCategory(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateReportsCreateFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnError(assert.AnError)

	err = Migrate(context.Background(), db, quietLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
