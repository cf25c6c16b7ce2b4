package main

import (
	"net/http"

	"openmelody/internal/app/albums"
	"openmelody/internal/app/playlists"
	"openmelody/internal/app/songs"
	"openmelody/internal/app/users"
	"openmelody/internal/auth"
	"openmelody/internal/http/middleware"
	"openmelody/internal/httpapi"
	"openmelody/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenAge)

	userSvc := users.New(dataStore, tokens)
	albumSvc := albums.New(dataStore)
	songSvc := songs.New(dataStore)
	playlistSvc := playlists.New(dataStore)

	handler := httpapi.New(userSvc, albumSvc, songSvc, playlistSvc, tokens).Routes()

	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler
}
