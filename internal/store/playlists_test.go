package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return New(db), mock, func() { db.Close() }
}

func expectSongExists(mock sqlmock.Sqlmock, songID string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM songs WHERE id = $1`)).
		WithArgs(songID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(songID))
}

func expectOwnerLookup(mock sqlmock.Sqlmock, playlistID, owner string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT owner FROM playlists WHERE id = $1`)).
		WithArgs(playlistID).
		WillReturnRows(sqlmock.NewRows([]string{"owner"}).AddRow(owner))
}

func TestAddPlaylistSongSuccess(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectSongExists(mock, "song-1")
	expectOwnerLookup(mock, "playlist-1", "user-1")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO playlist_songs`)).
		WithArgs(sqlmock.AnyArg(), "playlist-1", "song-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("playlist_songs-abc"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO playlist_song_activities`)).
		WithArgs(sqlmock.AnyArg(), "playlist-1", "song-1", "user-1", ActionAdd, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := s.AddPlaylistSong(context.Background(), "playlist-1", "song-1", "user-1")
	if err != nil {
		t.Fatalf("AddPlaylistSong error: %v", err)
	}
	if id != "playlist_songs-abc" {
		t.Fatalf("expected membership id playlist_songs-abc, got %q", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPlaylistSongMissingSong(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM songs WHERE id = $1`)).
		WithArgs("song-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.AddPlaylistSong(context.Background(), "playlist-1", "song-missing", "user-1")
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPlaylistSongMissingPlaylist(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectSongExists(mock, "song-1")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT owner FROM playlists WHERE id = $1`)).
		WithArgs("playlist-missing").
		WillReturnRows(sqlmock.NewRows([]string{"owner"}))
	mock.ExpectRollback()

	_, err := s.AddPlaylistSong(context.Background(), "playlist-missing", "song-1", "user-1")
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPlaylistSongForbidden(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectSongExists(mock, "song-1")
	expectOwnerLookup(mock, "playlist-1", "user-1")
	mock.ExpectRollback()

	_, err := s.AddPlaylistSong(context.Background(), "playlist-1", "song-1", "user-2")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPlaylistSongDuplicate(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectSongExists(mock, "song-1")
	expectOwnerLookup(mock, "playlist-1", "user-1")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO playlist_songs`)).
		WithArgs(sqlmock.AnyArg(), "playlist-1", "song-1").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := s.AddPlaylistSong(context.Background(), "playlist-1", "song-1", "user-1")
	if !errors.Is(err, ErrSongAlreadyListed) {
		t.Fatalf("expected ErrSongAlreadyListed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPlaylistSongActivityFailureRollsBack(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectSongExists(mock, "song-1")
	expectOwnerLookup(mock, "playlist-1", "user-1")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO playlist_songs`)).
		WithArgs(sqlmock.AnyArg(), "playlist-1", "song-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("playlist_songs-abc"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO playlist_song_activities`)).
		WithArgs(sqlmock.AnyArg(), "playlist-1", "song-1", "user-1", ActionAdd, sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.AddPlaylistSong(context.Background(), "playlist-1", "song-1", "user-1")
	if err == nil {
		t.Fatal("expected error when activity append fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemovePlaylistSongSuccess(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectOwnerLookup(mock, "playlist-1", "user-1")
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_songs`)).
		WithArgs("playlist-1", "song-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO playlist_song_activities`)).
		WithArgs(sqlmock.AnyArg(), "playlist-1", "song-1", "user-1", ActionDelete, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.RemovePlaylistSong(context.Background(), "playlist-1", "song-1", "user-1"); err != nil {
		t.Fatalf("RemovePlaylistSong error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemovePlaylistSongMissingMembership(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectOwnerLookup(mock, "playlist-1", "user-1")
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_songs`)).
		WithArgs("playlist-1", "song-9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.RemovePlaylistSong(context.Background(), "playlist-1", "song-9", "user-1")
	if !errors.Is(err, ErrPlaylistSongNotFound) {
		t.Fatalf("expected ErrPlaylistSongNotFound, got %v", err)
	}

	// No activity insert was expected: a failed removal leaves the log alone.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemovePlaylistSongForbidden(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectOwnerLookup(mock, "playlist-1", "user-1")
	mock.ExpectRollback()

	err := s.RemovePlaylistSong(context.Background(), "playlist-1", "song-1", "user-2")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyPlaylistAccess(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		found    bool
		user     string
		required AccessLevel
		wantErr  error
	}{
		{name: "owner may write", owner: "user-1", found: true, user: "user-1", required: AccessOwner},
		{name: "stranger may not write", owner: "user-1", found: true, user: "user-2", required: AccessOwner, wantErr: ErrForbidden},
		{name: "stranger may not read", owner: "user-1", found: true, user: "user-2", required: AccessOwner, wantErr: ErrForbidden},
		{name: "missing playlist", found: false, user: "user-1", required: AccessOwner, wantErr: ErrPlaylistNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, mock, done := newMock(t)
			defer done()

			rows := sqlmock.NewRows([]string{"owner"})
			if tc.found {
				rows.AddRow(tc.owner)
			}
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT owner FROM playlists WHERE id = $1`)).
				WithArgs("playlist-1").
				WillReturnRows(rows)

			err := s.VerifyPlaylistAccess(context.Background(), "playlist-1", tc.user, tc.required)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestCreatePlaylist(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO playlists`)).
		WithArgs(sqlmock.AnyArg(), "Road Trip", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("playlist-xyz"))

	id, err := s.CreatePlaylist(context.Background(), "Road Trip", "user-1")
	if err != nil {
		t.Fatalf("CreatePlaylist error: %v", err)
	}
	if id != "playlist-xyz" {
		t.Fatalf("expected playlist-xyz, got %q", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListPlaylistsEmpty(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM playlists`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username"}))

	playlists, err := s.ListPlaylists(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListPlaylists error: %v", err)
	}
	if playlists == nil || len(playlists) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", playlists)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeletePlaylistNotFound(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).
		WithArgs("playlist-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeletePlaylist(context.Background(), "playlist-missing")
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPlaylistSongs(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users ON playlists.owner = users.id`)).
		WithArgs("playlist-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username"}).
			AddRow("playlist-1", "Road Trip", "dian"))
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN songs ON playlist_songs.song_id = songs.id`)).
		WithArgs("playlist-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "performer"}).
			AddRow("song-1", "Highway Star", "Deep Purple"))

	detail, err := s.GetPlaylistSongs(context.Background(), "playlist-1")
	if err != nil {
		t.Fatalf("GetPlaylistSongs error: %v", err)
	}
	if detail.ID != "playlist-1" || detail.Name != "Road Trip" || detail.Username != "dian" {
		t.Fatalf("unexpected detail header: %#v", detail)
	}
	if len(detail.Songs) != 1 || detail.Songs[0].Title != "Highway Star" {
		t.Fatalf("unexpected songs: %#v", detail.Songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPlaylistSongsEmptyPlaylist(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users ON playlists.owner = users.id`)).
		WithArgs("playlist-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username"}).
			AddRow("playlist-1", "Road Trip", "dian"))
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN songs ON playlist_songs.song_id = songs.id`)).
		WithArgs("playlist-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "performer"}))

	detail, err := s.GetPlaylistSongs(context.Background(), "playlist-1")
	if err != nil {
		t.Fatalf("expected empty playlist to resolve, got %v", err)
	}
	if len(detail.Songs) != 0 || detail.Songs == nil {
		t.Fatalf("expected empty non-nil songs, got %#v", detail.Songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPlaylistSongsMissingPlaylist(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users ON playlists.owner = users.id`)).
		WithArgs("playlist-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username"}))

	_, err := s.GetPlaylistSongs(context.Background(), "playlist-missing")
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
