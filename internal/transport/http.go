package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/feedback-widget/internal/domain/activity"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
)

// FeedbackService is the record surface served over HTTP.
type FeedbackService interface {
	Create(ctx context.Context, req feedback.CreateRequest) (*feedback.Feedback, error)
	Update(ctx context.Context, id string, req feedback.UpdateRequest) (*feedback.Feedback, error)
	Get(ctx context.Context, id string) (*feedback.Feedback, error)
	ListByRun(ctx context.Context, runID string) ([]feedback.Feedback, error)
}

// ActivityService exposes the feedback event log.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Server wires HTTP handlers.
type Server struct {
	feedback   FeedbackService
	activities ActivityService
	logger     *slog.Logger
}

// NewServer creates the feedback service router. activities may be nil.
func NewServer(fb FeedbackService, activities ActivityService, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{feedback: fb, activities: activities, logger: logger}

	r := chi.NewRouter()
	r.Use(CORSMiddleware())

	r.Get("/health", srv.handleHealth)
	r.Route("/public/v1/feedback", func(r chi.Router) {
		r.Post("/", srv.handleCreate)
		r.Get("/", srv.handleList)
		r.Get("/{id}", srv.handleGet)
		r.Patch("/{id}", srv.handleUpdate)
		r.Get("/{id}/activity", srv.handleActivity)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req feedback.CreateRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		WriteError(w, decodeStatus(err), err.Error())
		return
	}

	fb, err := s.feedback.Create(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, feedback.CreateResponse{
		ID:      fb.ID,
		Message: feedback.CreatedMessage,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req feedback.UpdateRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		WriteError(w, decodeStatus(err), err.Error())
		return
	}

	if _, err := s.feedback.Update(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	fb, err := s.feedback.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, fb)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.URL.Query().Get("runId"))
	if runID == "" {
		WriteError(w, http.StatusBadRequest, "runId query parameter is required")
		return
	}

	list, err := s.feedback.ListByRun(r.Context(), runID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.activities == nil {
		WriteError(w, http.StatusNotFound, "activity log disabled")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.feedback.Get(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	entries, err := s.activities.GetRecentActivity(r.Context(), activity.ListOptions{FeedbackID: &id})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	WriteJSON(w, http.StatusOK, entries)
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, feedback.ErrFeedbackNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, feedback.ErrInvalidInput), errors.Is(err, feedback.ErrEmptyUpdate):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeStatus(err error) int {
	if errors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func isSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
