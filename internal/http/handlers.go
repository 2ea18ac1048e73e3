package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/report"
)

type (
	reminderView struct {
		DueDate   core.Date  `json:"due_date"`
		Note      string     `json:"note"`
		Amount    core.Money `json:"amount"`
		Completed bool       `json:"completed"`
	}

	goalView struct {
		ID            string     `json:"id"`
		Name          string     `json:"name"`
		TargetAmount  core.Money `json:"target_amount"`
		TargetDate    core.Date  `json:"target_date"`
		CurrentAmount core.Money `json:"current_amount"`
	}

	stateView struct {
		BaseIncome   core.Money               `json:"base_income"`
		Transactions []report.TransactionLine `json:"transactions"`
		Reminders    []reminderView           `json:"reminders"`
		Goals        []goalView               `json:"goals"`
	}
)

func newStateView(st core.UserLedgerState) stateView {
	v := stateView{
		BaseIncome:   st.BaseIncome,
		Transactions: make([]report.TransactionLine, 0, len(st.Transactions)),
		Reminders:    make([]reminderView, 0, len(st.Reminders)),
		Goals:        make([]goalView, 0, len(st.Goals)),
	}
	for _, tx := range st.Transactions {
		v.Transactions = append(v.Transactions, report.TransactionLine{
			Date: tx.Date, Category: tx.Category, Amount: tx.Amount, Description: tx.Description, Type: tx.Kind,
		})
	}
	for _, r := range st.Reminders {
		v.Reminders = append(v.Reminders, reminderView{DueDate: r.DueDate, Note: r.Note, Amount: r.Amount, Completed: r.Completed})
	}
	for _, g := range st.Goals {
		v.Goals = append(v.Goals, goalView{
			ID: g.ID, Name: g.Name, TargetAmount: g.TargetAmount, TargetDate: g.TargetDate, CurrentAmount: g.CurrentAmount,
		})
	}
	return v
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.api.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": strings.TrimSpace(req.Username)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	token, err := s.api.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "User logged in",
		log.FieldUsername, req.Username,
		log.FieldOperation, log.OpLogin)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.api.State(r.Context(), usernameFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(st))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	asOf, err := s.parseAsOf(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	snap, err := s.api.Snapshot(r.Context(), usernameFrom(r.Context()), asOf)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())
	asOf, err := s.parseAsOf(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	st, err := s.api.State(r.Context(), username)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	snap := report.Assemble(st, asOf)

	// Render into a buffer so a failure can still produce an error status.
	var buf bytes.Buffer
	if err := s.csv.Render(&buf, snap, st.Transactions); err != nil {
		s.respondError(w, r, fmt.Errorf("render csv: %w", err))
		return
	}
	w.Header().Set("Content-Type", s.csv.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.csv"`, asOf))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
