package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/lapbot/internal/catalog"
	"github.com/hyperjump/lapbot/internal/chat"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	chat.Rendered
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session, ok := s.existingSession(r)
	if !ok {
		session = chat.NewSession("")
	}
	out := s.bot.Render(session)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		Transcript: template.HTML(out.HTML),
		ScrollTo:   out.ScrollTo,
	})
	if err != nil {
		s.logger.Error("render page failed", zap.Error(err))
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session := s.session(w, r)
	s.logger.Debug("chat request", zap.String("session", session.ID()), zap.String("query", req.Query))
	out := s.bot.Submit(session, req.Query)
	s.respondJSON(w, http.StatusOK, chatResponse{SessionID: session.ID(), Rendered: out})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session, ok := s.existingSession(r)
	if !ok {
		session = chat.NewSession("")
	}
	s.logger.Debug("reset request", zap.String("session", session.ID()))
	out := s.bot.Reset(session)
	s.respondJSON(w, http.StatusOK, chatResponse{SessionID: session.ID(), Rendered: out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status describes the listing table and the live sessions.
type Status struct {
	catalog.Summary
	Sessions int `json:"sessions"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, Status{
		Summary:  s.bot.Store().Summary(),
		Sessions: s.sessions.Len(),
	})
}

// existingSession returns the session named by the request cookie, if it is still held.
func (s *Server) existingSession(r *http.Request) (*chat.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	return s.sessions.Get(c.Value)
}

// session returns the caller's session, creating it and setting the cookie when needed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *chat.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	session, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    session.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.metrics.SetSessions(s.sessions.Len())
	}
	return session
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
