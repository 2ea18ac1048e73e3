package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"moneymanager/internal/core"
)

const maxBodyBytes = 1 << 20

type (
	registerRequest struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	incomeRequest struct {
		Amount json.Number `json:"amount"`
	}

	transactionRequest struct {
		Date        string      `json:"date"`
		Category    string      `json:"category"`
		Amount      json.Number `json:"amount"`
		Description string      `json:"description"`
		Type        string      `json:"type"`
	}

	reminderRequest struct {
		Date   string      `json:"date"`
		Note   string      `json:"note"`
		Amount json.Number `json:"amount"`
	}

	goalRequest struct {
		Name         string      `json:"name"`
		TargetAmount json.Number `json:"target_amount"`
		TargetDate   string      `json:"target_date"`
	}

	contributeRequest struct {
		Name   string      `json:"name"`
		Amount json.Number `json:"amount"`
	}
)

// decodeJSON reads one JSON object from the body into dst. Amounts are
// decoded as json.Number so no precision is lost before parsing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", core.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON: %v", core.ErrInvalidInput, err)
	}
	return nil
}

// parseAmount accepts a JSON number or a quoted one. A missing amount is
// invalid.
func parseAmount(n json.Number) (core.Money, error) {
	return core.ParseMoney(string(n))
}

func (t transactionRequest) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(t.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	category, err := core.ParseCategory(t.Category)
	if err != nil {
		return core.Transaction{}, err
	}
	kind := core.Expense
	if strings.TrimSpace(t.Type) != "" {
		if kind, err = core.ParseKind(t.Type); err != nil {
			return core.Transaction{}, err
		}
	}
	amount, err := parseAmount(t.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: sanitizeInput(t.Description),
		Kind:        kind,
	}, nil
}

// parseIndex reads the {index} path value. Non-numeric values are reported
// as out of range.
func parseIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, core.ErrIndexOutOfRange
	}
	return i, nil
}

// parseAsOf reads the as_of query parameter, defaulting to today.
func (s *Server) parseAsOf(r *http.Request) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if v == "" {
		return core.DateOf(s.now()), nil
	}
	return core.ParseDate(v)
}

// sanitizeInput drops control characters other than tab and newlines and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
