package store

import (
	"context"
	"fmt"
	"time"
)

// Membership mutation actions recorded in the activity log.
const (
	ActionAdd    = "add"
	ActionDelete = "delete"
)

// Activity is one immutable audit entry in a playlist's timeline.
type Activity struct {
	SongTitle string    `json:"title"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Time      time.Time `json:"time"`
}

// appendActivity records one membership mutation. It runs on the caller's
// querier so the audit row commits atomically with the mutation it logs.
// Rows are never updated or deleted afterwards.
func appendActivity(ctx context.Context, q querier, playlistID, songID, userID, action string) error {
	id := newID("activity")
	now := time.Now().UTC()

	res, err := q.ExecContext(ctx, `
		INSERT INTO playlist_song_activities (id, playlist_id, song_id, user_id, action, time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, playlistID, songID, userID, action, now)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insert activity: no rows affected")
	}
	return nil
}

// ListPlaylistActivities returns the playlist's timeline ascending by
// timestamp, one row per recorded mutation. A playlist with no activity
// yields an empty slice.
func (s *Store) ListPlaylistActivities(ctx context.Context, playlistID string) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT songs.title, users.username, playlist_song_activities.action, playlist_song_activities.time
		FROM playlist_song_activities
		JOIN songs ON playlist_song_activities.song_id = songs.id
		JOIN users ON playlist_song_activities.user_id = users.id
		WHERE playlist_song_activities.playlist_id = $1
		ORDER BY playlist_song_activities.time ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		var activity Activity
		if err := rows.Scan(&activity.SongTitle, &activity.Username, &activity.Action, &activity.Time); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}
