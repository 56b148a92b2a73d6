package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/01moynul/storefront-golang/internal/models"
)

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	Name     string
	ImageURL *string
}

func scanCategories(rows *sql.Rows, withCount bool) ([]models.Category, error) {
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var (
			cat   models.Category
			image sql.NullString
			count int
		)
		dest := []any{&cat.ID, &cat.Name, &image}
		if withCount {
			dest = append(dest, &count)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		cat.ImageURL = nullString(image)
		cat.Slug = slug.Make(cat.Name)
		if withCount {
			c := count
			cat.ProductCount = &c
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// ListCategoriesWithCounts is the admin listing, including the sentinel.
func (s *Store) ListCategoriesWithCounts(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.id, c.categoryName, c.image_url, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.categoryId = c.id
		GROUP BY c.id
		ORDER BY c.categoryName`)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows, true)
}

// ListPublicCategories hides the Uncategorized sentinel.
func (s *Store) ListPublicCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, categoryName, image_url
		FROM categories
		WHERE categoryName <> ?
		ORDER BY categoryName`, models.UncategorizedName)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows, false)
}

func (s *Store) CategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var (
		cat   models.Category
		image sql.NullString
	)
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, categoryName, image_url FROM categories WHERE id = ?", id,
	).Scan(&cat.ID, &cat.Name, &image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cat.ImageURL = nullString(image)
	cat.Slug = slug.Make(cat.Name)
	return &cat, nil
}

func (s *Store) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO categories (categoryName, image_url) VALUES (?, ?)", in.Name, in.ImageURL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: in.Name, Slug: slug.Make(in.Name), ImageURL: in.ImageURL}, nil
}

// UpdateCategory renames a category and replaces its image when one is given.
func (s *Store) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*models.Category, error) {
	current, err := s.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsProtected() && in.Name != current.Name {
		return nil, ErrProtectedCategory
	}

	image := current.ImageURL
	if in.ImageURL != nil {
		image = in.ImageURL
	}

	_, err = s.DB.ExecContext(ctx,
		"UPDATE categories SET categoryName = ?, image_url = ? WHERE id = ?", in.Name, image, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &models.Category{ID: id, Name: in.Name, Slug: slug.Make(in.Name), ImageURL: image}, nil
}

// DeleteCategory removes a category. With products attached it fails with
// *CategoryInUseError unless force is set, in which case the products move
// to Uncategorized first. It returns how many products were moved.
func (s *Store) DeleteCategory(ctx context.Context, id int64, force bool) (int, error) {
	moved := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var name string
		err := tx.QueryRowContext(ctx, "SELECT categoryName FROM categories WHERE id = ?", id).Scan(&name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if name == models.UncategorizedName {
			return ErrProtectedCategory
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM products WHERE categoryId = ?", id,
		).Scan(&count); err != nil {
			return err
		}

		if count > 0 {
			if !force {
				return &CategoryInUseError{ProductCount: count}
			}

			fallbackID, err := defaultCategoryID(ctx, tx)
			if err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx,
				"UPDATE products SET categoryId = ? WHERE categoryId = ?", fallbackID, id,
			)
			if err != nil {
				return fmt.Errorf("move products: %w", err)
			}
			n, _ := result.RowsAffected()
			moved = int(n)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

func defaultCategoryID(ctx context.Context, q Querier) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		"SELECT id FROM categories WHERE categoryName = ?", models.UncategorizedName,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	result, err := q.ExecContext(ctx, "INSERT INTO categories (categoryName) VALUES (?)", models.UncategorizedName)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
