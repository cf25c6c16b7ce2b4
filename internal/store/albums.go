package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Album is a record album grouping songs.
type Album struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Year  int           `json:"year"`
	Songs []SongSummary `json:"songs,omitempty"`
}

// CreateAlbum persists a new album and returns its id.
func (s *Store) CreateAlbum(ctx context.Context, name string, year int) (string, error) {
	id := newID("album")

	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO albums (id, name, year)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, name, year).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert album: %w", err)
	}

	return returned, nil
}

// ListAlbums returns every album. An empty catalogue surfaces as
// ErrAlbumNotFound, matching the song list convention.
func (s *Store) ListAlbums(ctx context.Context) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, year
		FROM albums
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var album Album
		if err := rows.Scan(&album.ID, &album.Name, &album.Year); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	if len(albums) == 0 {
		return nil, ErrAlbumNotFound
	}
	return albums, nil
}

// GetAlbum returns one album together with the songs attached to it.
func (s *Store) GetAlbum(ctx context.Context, id string) (Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT albums.id, albums.name, albums.year, songs.id, songs.title, songs.performer
		FROM albums
		LEFT JOIN songs ON songs.album_id = albums.id
		WHERE albums.id = $1
		ORDER BY songs.title ASC
	`, id)
	if err != nil {
		return Album{}, fmt.Errorf("get album: %w", err)
	}
	defer rows.Close()

	var (
		album Album
		found bool
	)
	album.Songs = make([]SongSummary, 0)
	for rows.Next() {
		var (
			songID        sql.NullString
			songTitle     sql.NullString
			songPerformer sql.NullString
		)
		if err := rows.Scan(&album.ID, &album.Name, &album.Year, &songID, &songTitle, &songPerformer); err != nil {
			return Album{}, fmt.Errorf("scan album: %w", err)
		}
		found = true
		if songID.Valid {
			album.Songs = append(album.Songs, SongSummary{
				ID:        songID.String,
				Title:     songTitle.String,
				Performer: songPerformer.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return Album{}, fmt.Errorf("iterate album songs: %w", err)
	}
	if !found {
		return Album{}, ErrAlbumNotFound
	}
	return album, nil
}

// UpdateAlbum replaces an album's name and year.
func (s *Store) UpdateAlbum(ctx context.Context, id, name string, year int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE albums
		SET name = $1, year = $2
		WHERE id = $3
	`, name, year, id)
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// DeleteAlbum removes an album.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}
