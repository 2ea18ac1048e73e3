package http

import (
	"net/http"
)

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.api.SetBaseIncome(r.Context(), usernameFrom(r.Context()), amount); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"base_income": amount})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	tx, err := req.toTransaction()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	index, err := s.api.AddTransaction(r.Context(), usernameFrom(r.Context()), tx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"index": index})
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	tx, err := req.toTransaction()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.api.EditTransaction(r.Context(), usernameFrom(r.Context()), index, tx); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.api.DeleteTransaction(r.Context(), usernameFrom(r.Context()), index); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
