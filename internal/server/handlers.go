package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/audio"
	"codeberg.org/snonux/theni/internal/auth"
	"codeberg.org/snonux/theni/internal/session"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form := !isJSON(r)

	var passphrase string
	if form {
		passphrase = r.FormValue("passphrase")
	} else {
		var body struct {
			Passphrase string `json:"passphrase"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid login request")
			return
		}
		passphrase = body.Passphrase
	}

	token, err := s.gate.Login(passphrase)
	if err != nil {
		s.logger.Info("login rejected", zap.String("remote", r.RemoteAddr))
		if form {
			http.Redirect(w, r, "/?login=failed", http.StatusSeeOther)
			return
		}
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	auth.SetCookie(w, r, token)
	if form {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.driver.Snapshot(r.Context())
	if err != nil {
		s.writeDriverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid start request")
			return
		}
	}

	if body.Mode == "" {
		snap, err := s.driver.Snapshot(r.Context())
		if err != nil {
			s.writeDriverError(w, err)
			return
		}
		body.Mode = snap.DefaultMode
	}
	mode, err := session.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.driver.Start(r.Context(), mode); err != nil {
		switch {
		case errors.Is(err, session.ErrTooFewWords), errors.Is(err, session.ErrSessionActive):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, session.ErrNoGenerator):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.writeDriverError(w, err)
		}
		return
	}
	s.handleState(w, r)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var err error
	switch r.PathValue("action") {
	case "pause":
		err = s.driver.Pause(r.Context())
	case "resume":
		err = s.driver.Resume(r.Context())
	case "stop":
		err = s.driver.Stop(r.Context())
	case "skip":
		err = s.driver.Skip(r.Context())
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.writeDriverError(w, err)
		return
	}
	s.handleState(w, r)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.driver.Audio(r.Context())
	if err != nil {
		s.writeDriverError(w, err)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", audio.ContentType(data))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// handleImage only serves files the library maps a valid word to.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	path, ok := s.lib.ImagePath(r.PathValue("word"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) writeDriverError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrDriverStopped) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.logger.Error("session command failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func isJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
