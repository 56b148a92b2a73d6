package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/01moynul/storefront-golang/internal/models"
)

const productColumns = `
	p.id, p.productName, p.price, p.image, p.secondaryImage1, p.secondaryImage2,
	p.secondaryImage3, p.brand, p.productDescription, p.isTrending, p.categoryId,
	p.publishingDate, COALESCE(c.categoryName, '')`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.categoryId`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p                        models.Product
		image, s1, s2, s3, brand sql.NullString
		description              sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &image, &s1, &s2, &s3, &brand, &description,
		&p.IsTrending, &p.CategoryID, &p.PublishingDate, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	p.Image = nullString(image)
	p.SecondaryImage1 = nullString(s1)
	p.SecondaryImage2 = nullString(s2)
	p.SecondaryImage3 = nullString(s3)
	p.Brand = nullString(brand)
	p.ProductDescription = nullString(description)
	p.Slug = slug.Make(p.Name)
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// ListProducts returns the catalog, newest first, narrowed by filter.
func (s *Store) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		where = append(where, "(p.productName LIKE ? OR p.brand LIKE ? OR p.productDescription LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.CategoryID > 0 {
		where = append(where, "p.categoryId = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.TrendingOnly {
		where = append(where, "p.isTrending = 1")
	}

	query := "SELECT" + productColumns + productFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.id DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (s *Store) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(s.DB.QueryRowContext(ctx, "SELECT"+productColumns+productFrom+" WHERE p.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ProductsByIDs returns the products that still exist, in the order of ids.
func (s *Store) ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	rows, err := s.DB.QueryContext(ctx,
		"SELECT"+productColumns+productFrom+" WHERE p.id IN ("+placeholders(len(ids))+")",
		int64Args(ids)...,
	)
	if err != nil {
		return nil, err
	}
	found, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (s *Store) ProductExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", id).Scan(&exists)
	return exists, err
}

func (s *Store) categoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)", id).Scan(&exists)
	return exists, err
}

// CreateProduct inserts p and fills its id. The category must exist.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	ok, err := s.categoryExists(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}

	result, err := s.DB.ExecContext(ctx, `
		INSERT INTO products (
			productName, price, image, secondaryImage1, secondaryImage2, secondaryImage3,
			brand, productDescription, isTrending, categoryId, publishingDate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Price, p.Image, p.SecondaryImage1, p.SecondaryImage2, p.SecondaryImage3,
		p.Brand, p.ProductDescription, p.IsTrending, p.CategoryID, p.PublishingDate,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID, err = result.LastInsertId()
	p.Slug = slug.Make(p.Name)
	return err
}

// UpdateProduct replaces every writable column of product p.ID.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	ok, err := s.categoryExists(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}

	result, err := s.DB.ExecContext(ctx, `
		UPDATE products SET
			productName = ?, price = ?, image = ?, secondaryImage1 = ?, secondaryImage2 = ?,
			secondaryImage3 = ?, brand = ?, productDescription = ?, isTrending = ?,
			categoryId = ?, publishingDate = ?
		WHERE id = ?`,
		p.Name, p.Price, p.Image, p.SecondaryImage1, p.SecondaryImage2, p.SecondaryImage3,
		p.Brand, p.ProductDescription, p.IsTrending, p.CategoryID, p.PublishingDate, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	p.Slug = slug.Make(p.Name)
	return nil
}

// DeleteProduct removes a product. Products referenced by order lines
// (including open carts) are kept and ErrProductInOrders is returned.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductInOrders
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
