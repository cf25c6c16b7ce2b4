package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Song is a track in the catalogue. Duration and AlbumID are optional.
type Song struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Performer string `json:"performer"`
	Genre     string `json:"genre"`
	Duration  int    `json:"duration,omitempty"`
	AlbumID   string `json:"albumId,omitempty"`
}

// SongSummary is the short form used in album and playlist views.
type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

// SongFilter narrows ListSongs results. Empty fields match everything.
type SongFilter struct {
	Title     string
	Performer string
}

// CreateSong persists a new song and returns its id.
func (s *Store) CreateSong(ctx context.Context, song Song) (string, error) {
	id := newID("song")

	var duration any
	if song.Duration > 0 {
		duration = song.Duration
	}

	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (id, title, year, performer, genre, duration, album_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, id, song.Title, song.Year, song.Performer, song.Genre, duration, nullIfEmpty(song.AlbumID)).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert song: %w", err)
	}

	return returned, nil
}

// ListSongs returns song summaries matching the filter, title/performer
// matched case-insensitively as substrings. An empty result surfaces as
// ErrSongNotFound.
func (s *Store) ListSongs(ctx context.Context, filter SongFilter) ([]SongSummary, error) {
	query := `SELECT id, title, performer FROM songs`
	var (
		conditions []string
		args       []any
	)
	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.Performer != "" {
		args = append(args, "%"+filter.Performer+"%")
		conditions = append(conditions, fmt.Sprintf("performer ILIKE $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY title ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []SongSummary
	for rows.Next() {
		var song SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	if len(songs) == 0 {
		return nil, ErrSongNotFound
	}
	return songs, nil
}

// GetSong returns one song by id.
func (s *Store) GetSong(ctx context.Context, id string) (Song, error) {
	var (
		song     Song
		duration sql.NullInt32
		albumID  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, year, performer, genre, duration, album_id
		FROM songs
		WHERE id = $1
	`, id).Scan(&song.ID, &song.Title, &song.Year, &song.Performer, &song.Genre, &duration, &albumID)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	if duration.Valid {
		song.Duration = int(duration.Int32)
	}
	song.AlbumID = albumID.String
	return song, nil
}

// UpdateSong replaces a song's attributes.
func (s *Store) UpdateSong(ctx context.Context, id string, song Song) error {
	var duration any
	if song.Duration > 0 {
		duration = song.Duration
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE songs
		SET title = $1, year = $2, performer = $3, genre = $4, duration = $5, album_id = $6
		WHERE id = $7
	`, song.Title, song.Year, song.Performer, song.Genre, duration, nullIfEmpty(song.AlbumID), id)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// DeleteSong removes a song.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// songExists confirms a song id references an existing row. It runs on the
// caller's querier so membership adds can check inside their transaction.
func songExists(ctx context.Context, q querier, id string) error {
	var found string
	err := q.QueryRowContext(ctx, `SELECT id FROM songs WHERE id = $1`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSongNotFound
	}
	if err != nil {
		return fmt.Errorf("check song: %w", err)
	}
	return nil
}
