package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/chat"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/stats"
	"github.com/julianstephens/companion/internal/storage"
)

func (s *Server) routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.startSession)
		r.Get("/messages", s.listMessages)
		r.Post("/messages", s.submitMessage)
		r.Post("/messages/{id}/reactions", s.toggleReaction)
		r.Get("/stats", s.getStats)
		r.Get("/achievements", s.listAchievements)
		r.Get("/challenge", s.getChallenge)
		r.Post("/challenge/complete", s.completeChallenge)
		r.Get("/credential", s.getCredential)
		r.Put("/credential", s.putCredential)
		r.Delete("/credential", s.deleteCredential)
		r.Get("/models", s.listModels)
		r.Get("/events", s.streamEvents)
	})
}

// startSession seeds the welcome message on first use and returns the history.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	g, err := s.chat.Bootstrap()
	if err != nil {
		logger.Error("failed to start session", "err", err)
		Error(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	JSON(w, http.StatusOK, g)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"messages": s.store.Messages()})
}

type submitRequest struct {
	Content string `json:"content"`
}

func (s *Server) submitMessage(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.chat.Submit(r.Context(), req.Content)
	switch {
	case err == nil:
		JSON(w, http.StatusCreated, res)
	case errors.Is(err, chat.ErrEmptyInput):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chat.ErrBusy):
		Error(w, http.StatusConflict, err.Error())
	default:
		logger.Error("turn failed", "err", err)
		Error(w, http.StatusInternalServerError, "failed to process message")
	}
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

func (s *Server) toggleReaction(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if err := decode(w, r, &req); err != nil || req.Emoji == "" {
		Error(w, http.StatusBadRequest, "emoji is required")
		return
	}

	msg, err := s.chat.React(chi.URLParam(r, "id"), req.Emoji)
	switch {
	case err == nil:
		JSON(w, http.StatusOK, msg)
	case errors.Is(err, storage.ErrMessageNotFound):
		Error(w, http.StatusNotFound, "message not found")
	default:
		Error(w, http.StatusBadRequest, err.Error())
	}
}

type statsResponse struct {
	Stats         models.UserStats `json:"stats"`
	LevelProgress int              `json:"levelProgress"`
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	st := s.store.Stats()
	JSON(w, http.StatusOK, statsResponse{Stats: st, LevelProgress: stats.LevelProgress(st)})
}

func (s *Server) listAchievements(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"achievements": achievements.Statuses(s.store.Stats())})
}

func (s *Server) getChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := s.chat.Challenge()
	if err != nil {
		logger.Error("failed to load challenge", "err", err)
		Error(w, http.StatusInternalServerError, "failed to load challenge")
		return
	}
	JSON(w, http.StatusOK, c)
}

func (s *Server) completeChallenge(w http.ResponseWriter, r *http.Request) {
	res, err := s.chat.CompleteChallenge(r.Context())
	if err != nil {
		logger.Error("failed to complete challenge", "err", err)
		Error(w, http.StatusInternalServerError, "failed to complete challenge")
		return
	}
	JSON(w, http.StatusOK, res)
}

func (s *Server) getCredential(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"configured":   s.store.APIKey() != "",
		"prompted":     s.store.Prompted(),
		"collaborator": s.chat.Collaborator().Name(),
	})
}

type credentialRequest struct {
	APIKey string `json:"apiKey"`
}

func (s *Server) putCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SaveAPIKey(req.APIKey); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	s.refreshCollaborator(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearAPIKey(); err != nil {
		logger.Error("failed to clear credential", "err", err)
		Error(w, http.StatusInternalServerError, "failed to clear credential")
		return
	}
	s.refreshCollaborator(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) refreshCollaborator(r *http.Request) {
	if s.rebuild == nil {
		return
	}
	c, err := s.rebuild(r.Context())
	if err != nil {
		logger.Warn("failed to rebuild collaborator", "err", err)
		return
	}
	s.chat.SetCollaborator(c)
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"models": ai.Models()})
}
