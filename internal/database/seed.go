package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// SeedCategories inserts the starter categories when the table is empty.
// It returns the number of rows inserted.
func SeedCategories(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, name := range models.SeedCategoryNames {
		if _, err := tx.ExecContext(ctx, "INSERT INTO categories (categoryName) VALUES (?)", name); err != nil {
			return 0, fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(models.SeedCategoryNames), nil
}

// EnsureDefaultCategory returns the id of the Uncategorized category,
// creating it if missing.
func EnsureDefaultCategory(ctx context.Context, db *sql.DB) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		"SELECT id FROM categories WHERE categoryName = ?", models.UncategorizedName,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find default category: %w", err)
	}

	result, err := db.ExecContext(ctx,
		"INSERT INTO categories (categoryName) VALUES (?)", models.UncategorizedName,
	)
	if err != nil {
		return 0, fmt.Errorf("create default category: %w", err)
	}
	return result.LastInsertId()
}
