package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/models"
)

// CreateUser hashes password and inserts the account.
func (s *Store) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	if role != models.RoleAdmin {
		role = models.RoleCustomer
	}

	var pw auth.Password
	if err := pw.Set(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
		username, pw.Hash, role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, PasswordHash: pw.Hash, Role: role}, nil
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.DB.QueryRowContext(ctx,
		"SELECT id, username, password, role FROM users WHERE username = ?", username))
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanUser(s.DB.QueryRowContext(ctx,
		"SELECT id, username, password, role FROM users WHERE id = ?", id))
}

// Authenticate checks credentials and transparently upgrades a legacy
// plaintext password to bcrypt. upgraded reports whether that happened.
// Unknown users and wrong passwords both yield ErrNotFound.
func (s *Store) Authenticate(ctx context.Context, username, password string) (user *models.User, upgraded bool, err error) {
	user, err = s.UserByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}

	pw := auth.Password{Hash: user.PasswordHash}
	ok, err := pw.Matches(password)
	if err != nil {
		return nil, false, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, false, ErrNotFound
	}

	if pw.NeedsUpgrade() {
		if err := s.SetPassword(ctx, user.ID, password); err != nil {
			return nil, false, err
		}
		upgraded = true
	}
	return user, upgraded, nil
}

// CheckPassword reports whether password matches the user's stored credential.
func (s *Store) CheckPassword(ctx context.Context, userID int64, password string) (bool, error) {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	pw := auth.Password{Hash: user.PasswordHash}
	return pw.Matches(password)
}

func (s *Store) SetPassword(ctx context.Context, userID int64, password string) error {
	var pw auth.Password
	if err := pw.Set(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	result, err := s.DB.ExecContext(ctx, "UPDATE users SET password = ? WHERE id = ?", pw.Hash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUsername renames a user. Taking another user's name yields ErrDuplicate.
func (s *Store) SetUsername(ctx context.Context, userID int64, username string) error {
	var takenBy int64
	err := s.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", username).Scan(&takenBy)
	switch {
	case err == nil && takenBy != userID:
		return ErrDuplicate
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	result, err := s.DB.ExecContext(ctx, "UPDATE users SET username = ? WHERE id = ?", username, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update username: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, username, role FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// EnsureAdmin creates an admin account when username is not taken yet.
// It returns true if a user was created.
func (s *Store) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.UserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if _, err := s.CreateUser(ctx, username, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
