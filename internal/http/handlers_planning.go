package http

import (
	"net/http"

	"moneymanager/internal/core"
)

func (s *Server) handleAddReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	due, err := core.ParseDate(req.Date)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	index, err := s.api.AddReminder(r.Context(), usernameFrom(r.Context()), due, sanitizeInput(req.Note), amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"index": index})
}

func (s *Server) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.api.CompleteReminder(r.Context(), usernameFrom(r.Context()), index); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.api.DeleteReminder(r.Context(), usernameFrom(r.Context()), index); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.TargetDate)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	g, err := s.api.AddGoal(r.Context(), usernameFrom(r.Context()), sanitizeInput(req.Name), target, date)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goalView{
		ID: g.ID, Name: g.Name, TargetAmount: g.TargetAmount, TargetDate: g.TargetDate, CurrentAmount: g.CurrentAmount,
	})
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ok, err := s.api.Contribute(r.Context(), usernameFrom(r.Context()), sanitizeInput(req.Name), amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !ok {
		s.respondError(w, r, errGoalNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
