package albums

import (
	"context"

	"openmelody/internal/store"
)

// Store captures the persistence needs for album workflows.
type Store interface {
	CreateAlbum(ctx context.Context, name string, year int) (string, error)
	ListAlbums(ctx context.Context) ([]store.Album, error)
	GetAlbum(ctx context.Context, id string) (store.Album, error)
	UpdateAlbum(ctx context.Context, id, name string, year int) error
	DeleteAlbum(ctx context.Context, id string) error
}

// Service exposes album CRUD.
type Service interface {
	Create(ctx context.Context, name string, year int) (string, error)
	List(ctx context.Context) ([]store.Album, error)
	Get(ctx context.Context, id string) (store.Album, error)
	Update(ctx context.Context, id, name string, year int) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, name string, year int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.CreateAlbum(ctx, name, year)
}

func (s *service) List(ctx context.Context) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAlbums(ctx)
}

func (s *service) Get(ctx context.Context, id string) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	return s.store.GetAlbum(ctx, id)
}

func (s *service) Update(ctx context.Context, id, name string, year int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.UpdateAlbum(ctx, id, name, year)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteAlbum(ctx, id)
}
