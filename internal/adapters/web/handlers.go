package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mikey/inbox-labeler/internal/auth"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

type saveDomainRequest struct {
	Domain string `json:"domain"`
	Label  string `json:"label"`
}

func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []core.DomainLabelRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSaveDomain(w http.ResponseWriter, r *http.Request) {
	var req saveDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	if err := s.store.Put(r.Context(), req.Domain, req.Label, core.SourceManual); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDomain(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "domain")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.login == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("login is not configured"))
		return
	}

	url, err := s.login.AuthURL()
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.login == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("login is not configured"))
		return
	}

	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		writeJSON(w, http.StatusBadRequest, errorBody(errParam))
		return
	}
	if err := s.login.Exchange(r.Context(), q.Get("state"), q.Get("code")); err != nil {
		s.writeError(w, err)
		return
	}

	s.handleLabel(w, r)
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	mail, err := s.sessions.Open(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.labeler.LabelRecent(r.Context(), mail)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	mail, err := s.sessions.Open(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	msg, err := mail.GetMessage(r.Context(), chi.URLParam(r, "messageID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.drafter.DraftReply(r.Context(), mail, msg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDraftAll(w http.ResponseWriter, r *http.Request) {
	mail, err := s.sessions.Open(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.drafter.DraftRecent(r.Context(), mail)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrReauthRequired):
		writeJSON(w, http.StatusUnauthorized, errorBody("login again"))
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, auth.ErrStateMismatch):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	default:
		s.logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
