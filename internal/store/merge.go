package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// MergeGuestFavorites copies guest favorite ids onto the user. Duplicates
// are ignored and ids of deleted products are skipped.
func (s *Store) MergeGuestFavorites(ctx context.Context, userID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range productIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO favorites (user_id, product_id) SELECT ?, id FROM products WHERE id = ?",
				userID, id,
			)
			if err != nil {
				return fmt.Errorf("merge favorite %d: %w", id, err)
			}
		}
		return nil
	})
}

// MergeGuestCart folds guest cart lines into the user's cart order. On a
// product already in the cart the quantities are summed and the snapshot is
// refreshed, capped at MaxCartQuantity. Lines for deleted products or with a
// non-positive quantity are skipped.
func (s *Store) MergeGuestCart(ctx context.Context, userID int64, lines []models.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		orderID, err := getOrCreateCartOrderID(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if l.Quantity <= 0 {
				continue
			}
			snap, err := snapshotProduct(ctx, tx, l.ProductID)
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			qty := min(l.Quantity, models.MaxCartQuantity)
			err = addCartLine(ctx, tx, orderID, l.ProductID, qty, snap)
			if errors.Is(err, ErrQuantityLimit) {
				err = setCartLine(ctx, tx, orderID, l.ProductID, models.MaxCartQuantity, snap)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// MergeGuestData runs both merges independently; a failure in one does not
// undo the other. The returned error joins whatever failed.
func (s *Store) MergeGuestData(ctx context.Context, userID int64, favorites []int64, lines []models.CartLine) error {
	favErr := s.MergeGuestFavorites(ctx, userID, favorites)
	if favErr != nil {
		favErr = fmt.Errorf("favorites: %w", favErr)
	}
	cartErr := s.MergeGuestCart(ctx, userID, lines)
	if cartErr != nil {
		cartErr = fmt.Errorf("cart: %w", cartErr)
	}
	return errors.Join(favErr, cartErr)
}
