package server

import (
	"net/http"

	"github.com/jonathan/smarthire/internal/types"
)

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.Dashboard())
}

// handleSearch matches jobs by title and candidates by name or email
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.Search(r.URL.Query().Get("q")))
}

// NotificationsResponse represents the notification log
type NotificationsResponse struct {
	Notifications []types.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	n := s.svc.Notifier()
	s.jsonResponse(w, http.StatusOK, NotificationsResponse{
		Notifications: n.Notifications(),
		Unread:        n.UnreadCount(),
	})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, _ *http.Request) {
	s.svc.Notifier().MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListToasts(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]types.Toast{"toasts": s.svc.Notifier().Toasts()})
}

// handleDismissToast removes a toast before it expires
func (s *Server) handleDismissToast(w http.ResponseWriter, r *http.Request) {
	if !s.svc.Notifier().RemoveToast(r.PathValue("id")) {
		s.errorResponse(w, http.StatusNotFound, "toast not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOnboarding(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.Onboarding())
}

func (s *Server) handleSetOnboarding(w http.ResponseWriter, r *http.Request) {
	var req types.OnboardingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.svc.SetOnboardingStep(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, st)
}

func (s *Server) handleNextOnboarding(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.NextOnboardingStep())
}

func (s *Server) handleSkipOnboarding(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.SkipOnboarding())
}

func (s *Server) handleGetUsage(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.Usage())
}

func (s *Server) handleResetUsage(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.ResetUsage())
}

// DemoResponse reports how many demo records were added
type DemoResponse struct {
	JobsAdded       int `json:"jobs_added"`
	CandidatesAdded int `json:"candidates_added"`
}

func (s *Server) handleLoadDemo(w http.ResponseWriter, _ *http.Request) {
	jobs, candidates := s.svc.LoadDemo()
	s.jsonResponse(w, http.StatusOK, DemoResponse{JobsAdded: jobs, CandidatesAdded: candidates})
}
