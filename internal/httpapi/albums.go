package httpapi

import (
	"encoding/json"
	"net/http"
)

type albumRequest struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

func (r albumRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.Year == 0 {
		return "year is required"
	}
	return ""
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeFail(w, http.StatusBadRequest, msg)
		return
	}

	albumID, err := s.albums.Create(r.Context(), req.Name, req.Year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "album added", map[string]string{"albumId": albumID})
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.albums.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"albums": albums})
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.albums.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"album": album})
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeFail(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.albums.Update(r.Context(), r.PathValue("id"), req.Name, req.Year); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "album updated", nil)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := s.albums.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "album deleted", nil)
}
