package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/storefront-golang/internal/models"
)

// The buyer snapshot wins over the live profile so history stays stable.
const adminOrderSelect = `
	SELECT
		o.id, o.user_id, o.status, o.created_at, o.payment_method,
		u.username,
		COALESCE(o.buyer_firstName, up.firstName, ''),
		COALESCE(o.buyer_lastName, up.lastName, ''),
		COALESCE(o.buyer_email, up.email, ''),
		COALESCE(o.buyer_mobilePhone, up.mobilePhone, ''),
		COALESCE(o.buyer_address, up.address, ''),
		COALESCE(o.buyer_city, up.city, ''),
		COALESCE(o.buyer_postalCode, up.postalCode, '')
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id
	LEFT JOIN user_profiles up ON up.user_id = o.user_id`

func scanAdminOrder(row rowScanner) (*models.AdminOrder, error) {
	var (
		o                 models.AdminOrder
		userID            sql.NullInt64
		payment, username sql.NullString
	)
	cust := &o.Customer
	err := row.Scan(
		&o.ID, &userID, &o.Status, &o.CreatedAt, &payment, &username,
		&cust.FirstName, &cust.LastName, &cust.Email, &cust.MobilePhone,
		&cust.Address, &cust.City, &cust.PostalCode,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		id := userID.Int64
		o.UserID = &id
	}
	o.PaymentMethod = nullString(payment)
	cust.Username = nullString(username)
	return &o, nil
}

// buildAdminOrderQuery assembles the filtered listing query.
func buildAdminOrderQuery(f models.AdminOrderFilter) (string, []any) {
	where := []string{"o.status = ?"}
	args := []any{models.OrderStatusCreated}

	if f.From != "" {
		where = append(where, "date(o.created_at) >= date(?)")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "date(o.created_at) <= date(?)")
		args = append(args, f.To)
	}
	if c := strings.TrimSpace(f.Customer); c != "" {
		like := "%" + c + "%"
		where = append(where, `(
			up.firstName LIKE ? OR up.lastName LIKE ? OR up.email LIKE ? OR
			o.buyer_firstName LIKE ? OR o.buyer_lastName LIKE ? OR o.buyer_email LIKE ? OR
			u.username LIKE ? OR
			(COALESCE(o.buyer_firstName, up.firstName, '') || ' ' || COALESCE(o.buyer_lastName, up.lastName, '')) LIKE ?
		)`)
		for i := 0; i < 8; i++ {
			args = append(args, like)
		}
	}

	query := adminOrderSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY o.created_at DESC, o.id DESC"
	return query, args
}

// ListAdminOrders returns created orders matching f with their items.
func (s *Store) ListAdminOrders(ctx context.Context, f models.AdminOrderFilter) ([]models.AdminOrder, error) {
	query, args := buildAdminOrderQuery(f)
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := []models.AdminOrder{}
	var ids []int64
	for rows.Next() {
		o, err := scanAdminOrder(rows)
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

// AdminOrder returns any non-cart order by id.
func (s *Store) AdminOrder(ctx context.Context, id int64) (*models.AdminOrder, error) {
	o, err := scanAdminOrder(s.DB.QueryRowContext(ctx,
		adminOrderSelect+" WHERE o.id = ? AND o.status = ?", id, models.OrderStatusCreated))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	items, err := loadOrderItems(ctx, s.DB, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	o.Total = sumItems(o.Items)
	return o, nil
}

// DeleteOrder removes an order; its lines go with it.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
