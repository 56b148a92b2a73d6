package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// Profile returns the user's profile; a missing row yields empty fields.
func (s *Store) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return profile(ctx, s.DB, userID)
}

func profile(ctx context.Context, q Querier, userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(firstName, ''), COALESCE(lastName, ''), COALESCE(email, ''),
		       COALESCE(mobilePhone, ''), COALESCE(address, ''), COALESCE(city, ''),
		       COALESCE(postalCode, ''), updated_at
		FROM user_profiles WHERE user_id = ?`, userID,
	).Scan(&p.FirstName, &p.LastName, &p.Email, &p.MobilePhone, &p.Address, &p.City, &p.PostalCode, &p.UpdatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return &p, nil
}

// SaveProfile inserts or fully replaces the profile row.
func (s *Store) SaveProfile(ctx context.Context, userID int64, p models.UserProfile) (*models.UserProfile, error) {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, firstName, lastName, email, mobilePhone, address, city, postalCode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			firstName = excluded.firstName,
			lastName = excluded.lastName,
			email = excluded.email,
			mobilePhone = excluded.mobilePhone,
			address = excluded.address,
			city = excluded.city,
			postalCode = excluded.postalCode`,
		userID, p.FirstName, p.LastName, p.Email, p.MobilePhone, p.Address, p.City, p.PostalCode,
	)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return s.Profile(ctx, userID)
}
