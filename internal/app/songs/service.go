package songs

import (
	"context"

	"openmelody/internal/store"
)

// Store captures the persistence needs for song workflows.
type Store interface {
	CreateSong(ctx context.Context, song store.Song) (string, error)
	ListSongs(ctx context.Context, filter store.SongFilter) ([]store.SongSummary, error)
	GetSong(ctx context.Context, id string) (store.Song, error)
	UpdateSong(ctx context.Context, id string, song store.Song) error
	DeleteSong(ctx context.Context, id string) error
}

// Service coordinates track-level operations.
type Service interface {
	Create(ctx context.Context, song store.Song) (string, error)
	List(ctx context.Context, filter store.SongFilter) ([]store.SongSummary, error)
	Get(ctx context.Context, id string) (store.Song, error)
	Update(ctx context.Context, id string, song store.Song) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, song store.Song) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.CreateSong(ctx, song)
}

func (s *service) List(ctx context.Context, filter store.SongFilter) ([]store.SongSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx, filter)
}

func (s *service) Get(ctx context.Context, id string) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.GetSong(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, song store.Song) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.UpdateSong(ctx, id, song)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, id)
}
