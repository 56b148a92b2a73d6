package store

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// ListFavorites returns the user's favorite products.
func (s *Store) ListFavorites(ctx context.Context, userID int64) ([]models.Product, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT"+productColumns+productFrom+`
		JOIN favorites f ON f.product_id = p.id
		WHERE f.user_id = ?
		ORDER BY p.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// AddFavorite is idempotent. Unknown products yield ErrProductNotFound.
func (s *Store) AddFavorite(ctx context.Context, userID, productID int64) error {
	ok, err := s.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	_, err = s.DB.ExecContext(ctx,
		"INSERT OR IGNORE INTO favorites (user_id, product_id) VALUES (?, ?)", userID, productID)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes the pair if present.
func (s *Store) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	_, err := s.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND product_id = ?", userID, productID)
	return err
}
