package playlists

import (
	"context"

	"openmelody/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	CreatePlaylist(ctx context.Context, name, ownerID string) (string, error)
	ListPlaylists(ctx context.Context, ownerID string) ([]store.PlaylistSummary, error)
	DeletePlaylist(ctx context.Context, id string) error
	VerifyPlaylistAccess(ctx context.Context, playlistID, userID string, required store.AccessLevel) error
	GetPlaylistSongs(ctx context.Context, playlistID string) (store.PlaylistDetail, error)
	AddPlaylistSong(ctx context.Context, playlistID, songID, userID string) (string, error)
	RemovePlaylistSong(ctx context.Context, playlistID, songID, userID string) error
	ListPlaylistActivities(ctx context.Context, playlistID string) ([]store.Activity, error)
}

// Service coordinates playlist-related operations. Every operation receives
// the already-authenticated requester id; credential checks happen upstream.
type Service interface {
	Create(ctx context.Context, name, requesterID string) (string, error)
	List(ctx context.Context, requesterID string) ([]store.PlaylistSummary, error)
	Delete(ctx context.Context, playlistID, requesterID string) error
	Songs(ctx context.Context, playlistID, requesterID string) (store.PlaylistDetail, error)
	AddSong(ctx context.Context, playlistID, songID, requesterID string) (string, error)
	RemoveSong(ctx context.Context, playlistID, songID, requesterID string) error
	Activities(ctx context.Context, playlistID, requesterID string) ([]store.Activity, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, name, requesterID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.CreatePlaylist(ctx, name, requesterID)
}

func (s *service) List(ctx context.Context, requesterID string) ([]store.PlaylistSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylists(ctx, requesterID)
}

func (s *service) Delete(ctx context.Context, playlistID, requesterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.VerifyPlaylistAccess(ctx, playlistID, requesterID, store.AccessOwner); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, playlistID)
}

// Songs gates reads with the same predicate as writes: until collaborator
// grants exist, reading a playlist requires full ownership.
func (s *service) Songs(ctx context.Context, playlistID, requesterID string) (store.PlaylistDetail, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistDetail{}, err
	}
	if err := s.store.VerifyPlaylistAccess(ctx, playlistID, requesterID, store.AccessOwner); err != nil {
		return store.PlaylistDetail{}, err
	}
	return s.store.GetPlaylistSongs(ctx, playlistID)
}

func (s *service) AddSong(ctx context.Context, playlistID, songID, requesterID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.AddPlaylistSong(ctx, playlistID, songID, requesterID)
}

func (s *service) RemoveSong(ctx context.Context, playlistID, songID, requesterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemovePlaylistSong(ctx, playlistID, songID, requesterID)
}

func (s *service) Activities(ctx context.Context, playlistID, requesterID string) ([]store.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.store.VerifyPlaylistAccess(ctx, playlistID, requesterID, store.AccessOwner); err != nil {
		return nil, err
	}
	return s.store.ListPlaylistActivities(ctx, playlistID)
}
