package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AccessLevel ranks what a user may do with a playlist. Collaborator exists
// so that granting read access to non-owners is a variant addition, not a
// rewrite; nothing grants it yet, so effective levels are None and Owner.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessCollaborator
	AccessOwner
)

// Playlist is the owned aggregate; Owner never changes after creation.
type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// PlaylistSummary is the listing view: playlist joined with its owner's
// username.
type PlaylistSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PlaylistDetail is the denormalized read view of a playlist and its songs.
type PlaylistDetail struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Username string        `json:"username"`
	Songs    []SongSummary `json:"songs"`
}

// playlistAccessLevel resolves the requester's level for a playlist, loading
// the owner row on the supplied querier. A missing playlist is
// ErrPlaylistNotFound regardless of who asks.
func playlistAccessLevel(ctx context.Context, q querier, playlistID, userID string) (AccessLevel, error) {
	var owner string
	err := q.QueryRowContext(ctx, `SELECT owner FROM playlists WHERE id = $1`, playlistID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return AccessNone, ErrPlaylistNotFound
	}
	if err != nil {
		return AccessNone, fmt.Errorf("lookup playlist owner: %w", err)
	}
	if owner == userID {
		return AccessOwner, nil
	}
	return AccessNone, nil
}

// verifyPlaylistAccess fails with ErrForbidden when the requester's level is
// below required. Ownership is immutable but re-verified on every call; a
// check from an earlier request never stands in for this one.
func verifyPlaylistAccess(ctx context.Context, q querier, playlistID, userID string, required AccessLevel) error {
	level, err := playlistAccessLevel(ctx, q, playlistID, userID)
	if err != nil {
		return err
	}
	if level < required {
		return ErrForbidden
	}
	return nil
}

// VerifyPlaylistAccess confirms the playlist exists and the requester holds
// at least the required access level.
func (s *Store) VerifyPlaylistAccess(ctx context.Context, playlistID, userID string, required AccessLevel) error {
	return verifyPlaylistAccess(ctx, s.db, playlistID, userID, required)
}

// CreatePlaylist persists a new playlist owned by ownerID and returns its id.
func (s *Store) CreatePlaylist(ctx context.Context, name, ownerID string) (string, error) {
	id := newID("playlist")

	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (id, name, owner)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, name, ownerID).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert playlist: %w", err)
	}

	return returned, nil
}

// ListPlaylists returns every playlist owned by ownerID with the owner's
// username. No playlists is an empty slice, not an error.
func (s *Store) ListPlaylists(ctx context.Context, ownerID string) ([]PlaylistSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT playlists.id, playlists.name, users.username
		FROM playlists
		JOIN users ON playlists.owner = users.id
		WHERE playlists.owner = $1
		ORDER BY playlists.name ASC, playlists.id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]PlaylistSummary, 0)
	for rows.Next() {
		var playlist PlaylistSummary
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Username); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// DeletePlaylist removes a playlist; membership and activity rows go with it
// via the schema's cascades. Ownership is verified by the caller.
func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// GetPlaylistSongs returns the playlist with its member songs. The playlist
// row is checked on its own first, so a playlist with zero songs comes back
// with an empty song list instead of being mistaken for a missing one.
func (s *Store) GetPlaylistSongs(ctx context.Context, playlistID string) (PlaylistDetail, error) {
	var detail PlaylistDetail
	err := s.db.QueryRowContext(ctx, `
		SELECT playlists.id, playlists.name, users.username
		FROM playlists
		JOIN users ON playlists.owner = users.id
		WHERE playlists.id = $1
	`, playlistID).Scan(&detail.ID, &detail.Name, &detail.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return PlaylistDetail{}, ErrPlaylistNotFound
	}
	if err != nil {
		return PlaylistDetail{}, fmt.Errorf("get playlist: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT songs.id, songs.title, songs.performer
		FROM playlist_songs
		JOIN songs ON playlist_songs.song_id = songs.id
		WHERE playlist_songs.playlist_id = $1
		ORDER BY songs.title ASC, songs.id ASC
	`, playlistID)
	if err != nil {
		return PlaylistDetail{}, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	detail.Songs = make([]SongSummary, 0)
	for rows.Next() {
		var song SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return PlaylistDetail{}, fmt.Errorf("scan playlist song: %w", err)
		}
		detail.Songs = append(detail.Songs, song)
	}
	if err := rows.Err(); err != nil {
		return PlaylistDetail{}, fmt.Errorf("iterate playlist songs: %w", err)
	}
	return detail, nil
}

// AddPlaylistSong attaches a song to a playlist on behalf of userID and
// returns the new membership id. The song existence check, the ownership
// check, the membership insert and the activity append share one transaction:
// either the membership and its audit row both commit, or neither does.
func (s *Store) AddPlaylistSong(ctx context.Context, playlistID, songID, userID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := songExists(ctx, tx, songID); err != nil {
		return "", err
	}
	if err := verifyPlaylistAccess(ctx, tx, playlistID, userID, AccessOwner); err != nil {
		return "", err
	}

	id := newID("playlist_songs")
	var returned string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO playlist_songs (id, playlist_id, song_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, playlistID, songID).Scan(&returned)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrSongAlreadyListed
		}
		return "", fmt.Errorf("insert playlist song: %w", err)
	}

	if err := appendActivity(ctx, tx, playlistID, songID, userID, ActionAdd); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit playlist song add: %w", err)
	}
	tx = nil

	return returned, nil
}

// RemovePlaylistSong detaches a song from a playlist on behalf of userID.
// The ownership check runs against the playlist regardless of which song is
// removed; delete and activity append share one transaction.
func (s *Store) RemovePlaylistSong(ctx context.Context, playlistID, songID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := verifyPlaylistAccess(ctx, tx, playlistID, userID, AccessOwner); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistSongNotFound
	}

	if err := appendActivity(ctx, tx, playlistID, songID, userID, ActionDelete); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit playlist song remove: %w", err)
	}
	tx = nil

	return nil
}
