package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// findCartOrderID looks up the user's open cart order without creating it.
func findCartOrderID(ctx context.Context, q Querier, userID int64) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		"SELECT id FROM orders WHERE user_id = ? AND status = ? ORDER BY id LIMIT 1",
		userID, models.OrderStatusCart,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// getOrCreateCartOrderID finds the user's open cart order or creates one.
// Call it inside a write transaction so two requests cannot both insert.
func getOrCreateCartOrderID(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	id, found, err := findCartOrderID(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, status) VALUES (?, ?)", userID, models.OrderStatusCart,
	)
	if err != nil {
		return 0, fmt.Errorf("create cart order: %w", err)
	}
	return result.LastInsertId()
}

type productSnapshot struct {
	Name  string
	Price float64
}

func snapshotProduct(ctx context.Context, q Querier, productID int64) (*productSnapshot, error) {
	var snap productSnapshot
	err := q.QueryRowContext(ctx,
		"SELECT productName, price FROM products WHERE id = ?", productID,
	).Scan(&snap.Name, &snap.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// addCartLine adds qty to the line, creating it if needed, and refreshes the
// price and name snapshot from the current product. A sum over
// MaxCartQuantity leaves the line untouched and returns ErrQuantityLimit.
func addCartLine(ctx context.Context, q Querier, orderID, productID int64, qty int, snap *productSnapshot) error {
	if qty <= 0 || qty > models.MaxCartQuantity {
		return ErrQuantityLimit
	}
	result, err := q.ExecContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, product_name, line_total)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_id, product_id) DO UPDATE SET
			quantity = order_items.quantity + excluded.quantity,
			unit_price = excluded.unit_price,
			product_name = excluded.product_name,
			line_total = (order_items.quantity + excluded.quantity) * excluded.unit_price
		WHERE order_items.quantity + excluded.quantity <= ?`,
		orderID, productID, qty, snap.Price, snap.Name, float64(qty)*snap.Price, models.MaxCartQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrQuantityLimit
	}
	return nil
}

// setCartLine sets the line to exactly qty (> 0).
func setCartLine(ctx context.Context, q Querier, orderID, productID int64, qty int, snap *productSnapshot) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, product_name, line_total)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_id, product_id) DO UPDATE SET
			quantity = excluded.quantity,
			unit_price = excluded.unit_price,
			product_name = excluded.product_name,
			line_total = excluded.line_total`,
		orderID, productID, qty, snap.Price, snap.Name, float64(qty)*snap.Price,
	)
	if err != nil {
		return fmt.Errorf("set cart line: %w", err)
	}
	return nil
}

// UserCart renders the user's open cart. A user without a cart order gets
// an empty cart; reading never creates one.
func (s *Store) UserCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cart := &models.Cart{LoggedIn: true, Items: []models.CartItem{}}

	orderID, found, err := findCartOrderID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return cart, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT oi.product_id, oi.product_name, oi.unit_price, oi.quantity, oi.line_total, p.image, p.brand
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id DESC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item         models.CartItem
			image, brand sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.LineTotal, &image, &brand); err != nil {
			return nil, err
		}
		item.Image = nullString(image)
		item.Brand = nullString(brand)
		cart.Total += item.LineTotal
		cart.Items = append(cart.Items, item)
	}
	return cart, rows.Err()
}

// GuestCart renders session lines against current product rows. Lines for
// products that no longer exist are skipped.
func (s *Store) GuestCart(ctx context.Context, lines []models.CartLine) (*models.Cart, error) {
	cart := &models.Cart{LoggedIn: false, Items: []models.CartItem{}}
	if len(lines) == 0 {
		return cart, nil
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok || l.Quantity <= 0 {
			continue
		}
		item := models.CartItem{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
			LineTotal: p.Price * float64(l.Quantity),
			Image:     p.Image,
			Brand:     p.Brand,
		}
		cart.Total += item.LineTotal
		cart.Items = append(cart.Items, item)
	}
	return cart, nil
}

// AddToUserCart adds qty of a product to the user's cart, creating the cart
// order on first write.
func (s *Store) AddToUserCart(ctx context.Context, userID, productID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidInput
	}
	if qty > models.MaxCartQuantity {
		return ErrQuantityLimit
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		snap, err := snapshotProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		orderID, err := getOrCreateCartOrderID(ctx, tx, userID)
		if err != nil {
			return err
		}
		return addCartLine(ctx, tx, orderID, productID, qty, snap)
	})
}

// SetUserCartQuantity sets the line to qty; 0 removes it.
func (s *Store) SetUserCartQuantity(ctx context.Context, userID, productID int64, qty int) error {
	if qty < 0 {
		return ErrInvalidInput
	}
	if qty > models.MaxCartQuantity {
		return ErrQuantityLimit
	}
	if qty == 0 {
		return s.RemoveFromUserCart(ctx, userID, productID)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		snap, err := snapshotProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		orderID, err := getOrCreateCartOrderID(ctx, tx, userID)
		if err != nil {
			return err
		}
		return setCartLine(ctx, tx, orderID, productID, qty, snap)
	})
}

// RemoveFromUserCart deletes the line if present. A missing cart or line is
// not an error.
func (s *Store) RemoveFromUserCart(ctx context.Context, userID, productID int64) error {
	_, err := s.DB.ExecContext(ctx, `
		DELETE FROM order_items
		WHERE product_id = ?
		  AND order_id IN (SELECT id FROM orders WHERE user_id = ? AND status = ?)`,
		productID, userID, models.OrderStatusCart,
	)
	return err
}
