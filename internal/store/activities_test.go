package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestListPlaylistActivitiesAscending(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM playlist_song_activities`)).
		WithArgs("playlist-1").
		WillReturnRows(sqlmock.NewRows([]string{"title", "username", "action", "time"}).
			AddRow("Highway Star", "dian", ActionAdd, t0).
			AddRow("Highway Star", "dian", ActionDelete, t1))

	activities, err := s.ListPlaylistActivities(context.Background(), "playlist-1")
	if err != nil {
		t.Fatalf("ListPlaylistActivities error: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].Action != ActionAdd || activities[1].Action != ActionDelete {
		t.Fatalf("expected add then delete, got %q then %q", activities[0].Action, activities[1].Action)
	}
	if !activities[0].Time.Before(activities[1].Time) {
		t.Fatalf("expected ascending timestamps, got %v then %v", activities[0].Time, activities[1].Time)
	}
	if activities[0].SongTitle != "Highway Star" || activities[0].Username != "dian" {
		t.Fatalf("unexpected first record: %#v", activities[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListPlaylistActivitiesEmpty(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM playlist_song_activities`)).
		WithArgs("playlist-1").
		WillReturnRows(sqlmock.NewRows([]string{"title", "username", "action", "time"}))

	activities, err := s.ListPlaylistActivities(context.Background(), "playlist-1")
	if err != nil {
		t.Fatalf("expected empty timeline to resolve, got %v", err)
	}
	if activities == nil || len(activities) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", activities)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
