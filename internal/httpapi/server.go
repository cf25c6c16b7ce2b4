package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"openmelody/internal/auth"
	"openmelody/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, username, password, fullname string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// AlbumService exposes album CRUD workflows.
type AlbumService interface {
	Create(ctx context.Context, name string, year int) (string, error)
	List(ctx context.Context) ([]store.Album, error)
	Get(ctx context.Context, id string) (store.Album, error)
	Update(ctx context.Context, id, name string, year int) error
	Delete(ctx context.Context, id string) error
}

// SongService coordinates track-level operations.
type SongService interface {
	Create(ctx context.Context, song store.Song) (string, error)
	List(ctx context.Context, filter store.SongFilter) ([]store.SongSummary, error)
	Get(ctx context.Context, id string) (store.Song, error)
	Update(ctx context.Context, id string, song store.Song) error
	Delete(ctx context.Context, id string) error
}

// PlaylistService coordinates playlist, membership and activity operations.
type PlaylistService interface {
	Create(ctx context.Context, name, requesterID string) (string, error)
	List(ctx context.Context, requesterID string) ([]store.PlaylistSummary, error)
	Delete(ctx context.Context, playlistID, requesterID string) error
	Songs(ctx context.Context, playlistID, requesterID string) (store.PlaylistDetail, error)
	AddSong(ctx context.Context, playlistID, songID, requesterID string) (string, error)
	RemoveSong(ctx context.Context, playlistID, songID, requesterID string) error
	Activities(ctx context.Context, playlistID, requesterID string) ([]store.Activity, error)
}

// TokenParser resolves a bearer token to the authenticated user id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	albums    AlbumService
	songs     SongService
	playlists PlaylistService
	tokens    TokenParser
}

// New configures a Server with the given services.
func New(users UserService, albums AlbumService, songs SongService, playlists PlaylistService, tokens TokenParser) *Server {
	return &Server{
		users:     users,
		albums:    albums,
		songs:     songs,
		playlists: playlists,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /users", s.handleSignup)
	mux.HandleFunc("POST /authentications", s.handleLogin)

	mux.HandleFunc("POST /albums", s.handleCreateAlbum)
	mux.HandleFunc("GET /albums", s.handleListAlbums)
	mux.HandleFunc("GET /albums/{id}", s.handleGetAlbum)
	mux.HandleFunc("PUT /albums/{id}", s.handleUpdateAlbum)
	mux.HandleFunc("DELETE /albums/{id}", s.handleDeleteAlbum)

	mux.HandleFunc("POST /songs", s.handleCreateSong)
	mux.HandleFunc("GET /songs", s.handleListSongs)
	mux.HandleFunc("GET /songs/{id}", s.handleGetSong)
	mux.HandleFunc("PUT /songs/{id}", s.handleUpdateSong)
	mux.HandleFunc("DELETE /songs/{id}", s.handleDeleteSong)

	mux.HandleFunc("POST /playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /playlists", s.handleListPlaylists)
	mux.HandleFunc("DELETE /playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("POST /playlists/{id}/songs", s.handleAddPlaylistSong)
	mux.HandleFunc("GET /playlists/{id}/songs", s.handleGetPlaylistSongs)
	mux.HandleFunc("DELETE /playlists/{id}/songs", s.handleRemovePlaylistSong)
	mux.HandleFunc("GET /playlists/{id}/activities", s.handlePlaylistActivities)

	return mux
}

// envelope is the uniform response shape: status success|fail|error with an
// optional message and data object.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Status: "success", Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: "fail", Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: err.Error()})
}

// writeServiceError maps domain errors to transport statuses: not-found
// sentinels to 404, authorization failures to 403, credential problems to
// 401, referential or uniqueness breaches to 400, the rest to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrAlbumNotFound),
		errors.Is(err, store.ErrSongNotFound),
		errors.Is(err, store.ErrPlaylistNotFound),
		errors.Is(err, store.ErrPlaylistSongNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrForbidden):
		writeFail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeFail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrUserExists), errors.Is(err, store.ErrSongAlreadyListed):
		writeFail(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, err)
	}
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// credential resolves the request's bearer token to a user id. A missing or
// invalid token writes the 401 response and reports false.
func (s *Server) credential(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeFail(w, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}
	userID, err := s.tokens.Parse(token)
	if err != nil {
		writeFail(w, http.StatusUnauthorized, "invalid access token")
		return "", false
	}
	return userID, true
}
