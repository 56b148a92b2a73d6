package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// CheckoutInput carries the optional buyer details sent at checkout.
type CheckoutInput struct {
	PaymentMethod *string
	Buyer         models.BuyerDetails
}

// CheckoutResult identifies the created order. AlreadyCreated is set when
// there was no open cart and the most recent created order was returned.
type CheckoutResult struct {
	OrderID        int64
	AlreadyCreated bool
}

// Checkout turns the user's open cart into a created order, stamping the
// creation time, payment method and buyer snapshot. Explicit buyer fields
// win over the stored profile; anything still missing stays NULL.
func (s *Store) Checkout(ctx context.Context, userID int64, in CheckoutInput) (*CheckoutResult, error) {
	var res CheckoutResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// 1. --- Find the open cart ---
		cartID, found, err := findCartOrderID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !found {
			var lastID int64
			err := tx.QueryRowContext(ctx, `
				SELECT id FROM orders
				WHERE user_id = ? AND status = ?
				ORDER BY created_at DESC, id DESC
				LIMIT 1`, userID, models.OrderStatusCreated,
			).Scan(&lastID)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoCart
			}
			if err != nil {
				return err
			}
			res = CheckoutResult{OrderID: lastID, AlreadyCreated: true}
			return nil
		}

		// 2. --- Reject an empty cart ---
		var lines int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM order_items WHERE order_id = ?", cartID,
		).Scan(&lines); err != nil {
			return err
		}
		if lines == 0 {
			return ErrEmptyCart
		}

		// 3. --- Build the buyer snapshot ---
		prof, err := profile(ctx, tx, userID)
		if err != nil {
			return err
		}
		buyer := in.Buyer.FillFrom(prof)

		// 4. --- Promote the cart ---
		_, err = tx.ExecContext(ctx, `
			UPDATE orders SET
				status = ?,
				created_at = datetime('now'),
				payment_method = COALESCE(?, payment_method),
				buyer_firstName = COALESCE(?, buyer_firstName),
				buyer_lastName = COALESCE(?, buyer_lastName),
				buyer_email = COALESCE(?, buyer_email),
				buyer_mobilePhone = COALESCE(?, buyer_mobilePhone),
				buyer_address = COALESCE(?, buyer_address),
				buyer_city = COALESCE(?, buyer_city),
				buyer_postalCode = COALESCE(?, buyer_postalCode)
			WHERE id = ? AND status = ?`,
			models.OrderStatusCreated, in.PaymentMethod,
			buyer.FirstName, buyer.LastName, buyer.Email, buyer.MobilePhone,
			buyer.Address, buyer.City, buyer.PostalCode,
			cartID, models.OrderStatusCart,
		)
		if err != nil {
			return fmt.Errorf("promote cart %d: %w", cartID, err)
		}
		res = CheckoutResult{OrderID: cartID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GuestCheckout creates an order without a user from session cart lines.
// Every line must have a positive quantity and an existing product;
// otherwise nothing is written.
func (s *Store) GuestCheckout(ctx context.Context, lines []models.CartLine, in CheckoutInput) (int64, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}
	return s.insertOrder(ctx, nil, lines, in)
}

// CreateOrder creates a created order for userID straight from lines, with
// server-side prices.
func (s *Store) CreateOrder(ctx context.Context, userID int64, lines []models.CartLine) (int64, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}
	var in CheckoutInput
	prof, err := s.Profile(ctx, userID)
	if err != nil {
		return 0, err
	}
	in.Buyer = in.Buyer.FillFrom(prof)
	return s.insertOrder(ctx, &userID, lines, in)
}

func (s *Store) insertOrder(ctx context.Context, userID *int64, lines []models.CartLine, in CheckoutInput) (int64, error) {
	var orderID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		b := in.Buyer
		result, err := tx.ExecContext(ctx, `
			INSERT INTO orders (
				user_id, status, created_at, payment_method,
				buyer_firstName, buyer_lastName, buyer_email, buyer_mobilePhone,
				buyer_address, buyer_city, buyer_postalCode
			) VALUES (?, ?, datetime('now'), ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, models.OrderStatusCreated, in.PaymentMethod,
			b.FirstName, b.LastName, b.Email, b.MobilePhone, b.Address, b.City, b.PostalCode,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		orderID, err = result.LastInsertId()
		if err != nil {
			return err
		}

		for _, l := range lines {
			if l.Quantity <= 0 || l.Quantity > models.MaxCartQuantity {
				return &InvalidLineError{ProductID: l.ProductID, Reason: fmt.Sprintf("quantity must be between 1 and %d", models.MaxCartQuantity)}
			}
			snap, err := snapshotProduct(ctx, tx, l.ProductID)
			if errors.Is(err, ErrProductNotFound) {
				return &InvalidLineError{ProductID: l.ProductID, Reason: "product not found"}
			}
			if err != nil {
				return err
			}
			err = addCartLine(ctx, tx, orderID, l.ProductID, l.Quantity, snap)
			if errors.Is(err, ErrQuantityLimit) {
				return &InvalidLineError{ProductID: l.ProductID, Reason: fmt.Sprintf("total quantity exceeds %d", models.MaxCartQuantity)}
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// loadOrderItems fetches the lines of every order in ids, keyed by order id.
func loadOrderItems(ctx context.Context, q Querier, ids []int64) (map[int64][]models.OrderItem, error) {
	items := make(map[int64][]models.OrderItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, oi.product_name, oi.unit_price, oi.quantity, oi.line_total, p.image
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id IN (`+placeholders(len(ids))+`)
		ORDER BY oi.order_id, oi.id`, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			item    models.OrderItem
			image   sql.NullString
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity, &item.LineTotal, &image); err != nil {
			return nil, err
		}
		item.Image = nullString(image)
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

func sumItems(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal
	}
	return total
}

const userOrderColumns = `
	id, status, created_at, payment_method, buyer_firstName, buyer_lastName, buyer_email,
	buyer_mobilePhone, buyer_address, buyer_city, buyer_postalCode`

func scanUserOrder(row rowScanner) (*models.Order, error) {
	var (
		o                                  models.Order
		payment, first, last, email, phone sql.NullString
		address, city, postal              sql.NullString
	)
	if err := row.Scan(&o.ID, &o.Status, &o.CreatedAt, &payment, &first, &last, &email, &phone, &address, &city, &postal); err != nil {
		return nil, err
	}
	o.PaymentMethod = nullString(payment)
	o.Buyer = models.BuyerDetails{
		FirstName:   nullString(first),
		LastName:    nullString(last),
		Email:       nullString(email),
		MobilePhone: nullString(phone),
		Address:     nullString(address),
		City:        nullString(city),
		PostalCode:  nullString(postal),
	}
	return &o, nil
}

// ListUserOrders returns the user's created orders, newest first.
func (s *Store) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT"+userOrderColumns+`
		FROM orders
		WHERE user_id = ? AND status = ?
		ORDER BY created_at DESC, id DESC`, userID, models.OrderStatusCreated)
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	var ids []int64
	for rows.Next() {
		o, err := scanUserOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := loadOrderItems(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
		orders[i].Total = sumItems(orders[i].Items)
	}
	return orders, nil
}

// UserOrder returns one created order owned by userID.
func (s *Store) UserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	o, err := scanUserOrder(s.DB.QueryRowContext(ctx, "SELECT"+userOrderColumns+`
		FROM orders
		WHERE id = ? AND user_id = ? AND status = ?`, orderID, userID, models.OrderStatusCreated))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := loadOrderItems(ctx, s.DB, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	o.Total = sumItems(o.Items)
	return o, nil
}
