package httpapi

import (
	"encoding/json"
	"net/http"
)

type playlistRequest struct {
	Name string `json:"name"`
}

type playlistSongRequest struct {
	SongID string `json:"songId"`
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.credential(w, r)
	if !ok {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Name == "" {
		writeFail(w, http.StatusBadRequest, "name is required")
		return
	}

	playlistID, err := s.playlists.Create(r.Context(), req.Name, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "playlist added", map[string]string{"playlistId": playlistID})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.credential(w, r)
	if !ok {
		return
	}

	playlists, err := s.playlists.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"playlists": playlists})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.credential(w, r)
	if !ok {
		return
	}

	if err := s.playlists.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "playlist deleted", nil)
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.credential(w, r)
	if !ok {
		return
	}

	var req playlistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.SongID == "" {
		writeFail(w, http.StatusBadRequest, "songId is required")
		return
	}

	playlistSongID, err := s.playlists.AddSong(r.Context(), r.PathValue("id"), req.SongID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "song added to playlist", map[string]string{"playlistSongId": playlistSongID})
}

func (s *Server) handleGetPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.credential(w, r)
	if !ok {
		return
	}

	detail, err := s.playlists.Songs(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"playlist": detail})
}

func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.credential(w, r)
	if !ok {
		return
	}

	var req playlistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.SongID == "" {
		writeFail(w, http.StatusBadRequest, "songId is required")
		return
	}

	if err := s.playlists.RemoveSong(r.Context(), r.PathValue("id"), req.SongID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "song removed from playlist", nil)
}

func (s *Server) handlePlaylistActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.credential(w, r)
	if !ok {
		return
	}

	playlistID := r.PathValue("id")
	activities, err := s.playlists.Activities(r.Context(), playlistID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"playlistId": playlistID,
		"activities": activities,
	})
}
