package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden indicates the requester does not own the resource.
	ErrForbidden = errors.New("not authorized to access this resource")

	ErrAlbumNotFound        = errors.New("album not found")
	ErrSongNotFound         = errors.New("song not found")
	ErrPlaylistNotFound     = errors.New("playlist not found")
	ErrPlaylistSongNotFound = errors.New("song not found in playlist")
	ErrSongAlreadyListed    = errors.New("song already in playlist")
)

// Store provides persistence backed by Postgres. A single *sql.DB pool is
// constructed at process start and shared by every component.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by *sql.DB and *sql.Tx so ownership and existence
// checks can run on the same transaction as the mutation they guard.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// newID returns a prefixed opaque identifier, e.g. "playlist-4cc1...".
func newID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
