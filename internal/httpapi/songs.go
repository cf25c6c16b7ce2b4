package httpapi

import (
	"encoding/json"
	"net/http"

	"openmelody/internal/store"
)

type songRequest struct {
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Performer string `json:"performer"`
	Genre     string `json:"genre"`
	Duration  int    `json:"duration"`
	AlbumID   string `json:"albumId"`
}

func (r songRequest) validate() string {
	switch {
	case r.Title == "":
		return "title is required"
	case r.Year == 0:
		return "year is required"
	case r.Performer == "":
		return "performer is required"
	case r.Genre == "":
		return "genre is required"
	}
	return ""
}

func (r songRequest) song() store.Song {
	return store.Song{
		Title:     r.Title,
		Year:      r.Year,
		Performer: r.Performer,
		Genre:     r.Genre,
		Duration:  r.Duration,
		AlbumID:   r.AlbumID,
	}
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeFail(w, http.StatusBadRequest, msg)
		return
	}

	songID, err := s.songs.Create(r.Context(), req.song())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "song added", map[string]string{"songId": songID})
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.SongFilter{
		Title:     query.Get("title"),
		Performer: query.Get("performer"),
	}

	songs, err := s.songs.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"songs": songs})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.songs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"song": song})
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeFail(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.songs.Update(r.Context(), r.PathValue("id"), req.song()); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "song updated", nil)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := s.songs.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "song deleted", nil)
}
