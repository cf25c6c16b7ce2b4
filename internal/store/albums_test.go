package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateAlbumSuccess(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO albums`)).
		WithArgs(sqlmock.AnyArg(), "Machine Head", 1972).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("album-abc"))

	id, err := s.CreateAlbum(context.Background(), "Machine Head", 1972)
	if err != nil {
		t.Fatalf("CreateAlbum error: %v", err)
	}
	if id != "album-abc" {
		t.Fatalf("expected album-abc, got %q", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetAlbumWithSongs(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN songs ON songs.album_id = albums.id`)).
		WithArgs("album-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "song_id", "title", "performer"}).
			AddRow("album-1", "Machine Head", 1972, "song-1", "Highway Star", "Deep Purple").
			AddRow("album-1", "Machine Head", 1972, "song-2", "Smoke on the Water", "Deep Purple"))

	album, err := s.GetAlbum(context.Background(), "album-1")
	if err != nil {
		t.Fatalf("GetAlbum error: %v", err)
	}
	if album.Name != "Machine Head" || album.Year != 1972 {
		t.Fatalf("unexpected album: %#v", album)
	}
	if len(album.Songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(album.Songs))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetAlbumNoSongs(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN songs ON songs.album_id = albums.id`)).
		WithArgs("album-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "song_id", "title", "performer"}).
			AddRow("album-1", "Machine Head", 1972, nil, nil, nil))

	album, err := s.GetAlbum(context.Background(), "album-1")
	if err != nil {
		t.Fatalf("GetAlbum error: %v", err)
	}
	if len(album.Songs) != 0 {
		t.Fatalf("expected no songs, got %#v", album.Songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetAlbumNotFound(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN songs ON songs.album_id = albums.id`)).
		WithArgs("album-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "song_id", "title", "performer"}))

	_, err := s.GetAlbum(context.Background(), "album-missing")
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAlbumsEmpty(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM albums`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year"}))

	_, err := s.ListAlbums(context.Background())
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound for empty catalogue, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateAlbumNotFound(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE albums`)).
		WithArgs("New Name", 2001, "album-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateAlbum(context.Background(), "album-missing", "New Name", 2001)
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
