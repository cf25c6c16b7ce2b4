package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")

// User is a registered account. ID is an opaque string; only the username is
// ever exposed through playlist views.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
}

// CreateUser registers a new user and returns its id.
func (s *Store) CreateUser(ctx context.Context, username, password, fullname string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id := newID("user")
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password, fullname)
		VALUES ($1, $2, $3, $4)
	`, id, username, hash, fullname); err != nil {
		if isUniqueViolation(err) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

// Authenticate validates credentials and returns the user id on success.
func (s *Store) Authenticate(ctx context.Context, username, password string) (string, error) {
	var (
		id   string
		hash []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, password
		FROM users
		WHERE username = $1
	`, username).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a comparison so unknown usernames cost the same as bad passwords.
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return id, nil
}
