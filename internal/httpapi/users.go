package httpapi

import (
	"encoding/json"
	"net/http"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	userID, err := s.users.Signup(r.Context(), req.Username, req.Password, req.FullName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "user registered", map[string]string{"userId": userID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "authentication added", map[string]string{"accessToken": token})
}
