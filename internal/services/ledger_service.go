// Package services orchestrates ledger operations across storage, auth,
// change events and the snapshot cache.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"moneymanager/internal/amqp"
	"moneymanager/internal/auth"
	"moneymanager/internal/cache"
	"moneymanager/internal/core"
	"moneymanager/internal/goals"
	"moneymanager/internal/ledger"
	"moneymanager/internal/log"
	"moneymanager/internal/reminders"
	"moneymanager/internal/report"
	"moneymanager/internal/storage"
)

const (
	// MinPasswordLength is the shortest password Register accepts.
	MinPasswordLength = 6
	// MaxPasswordLength is the longest password bcrypt can hash, in bytes.
	MaxPasswordLength = 72

	// DefaultPublishTimeout bounds how long a saved change waits on the broker.
	DefaultPublishTimeout = 5 * time.Second
)

var (
	ErrEmptyUsername    = fmt.Errorf("%w: username is required", core.ErrInvalidInput)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", core.ErrInvalidInput)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", core.ErrInvalidInput, MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must be at most %d bytes", core.ErrInvalidInput, MaxPasswordLength)
	ErrTokensDisabled   = errors.New("token issuing is not configured")
)

// ChangePublisher announces persisted ledger changes.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// LedgerService runs every user operation as load, apply, save. Operations
// for the same user are serialized; different users proceed in parallel.
type LedgerService struct {
	store      storage.Store
	provider   auth.Provider
	tokens     *auth.TokenIssuer
	publisher  ChangePublisher
	pubTimeout time.Duration
	snapshots  cache.Cache[report.Snapshot]
	logger     *log.Logger
	events     *log.StructuredLogger
	locks      userLocks
}

type Option func(*LedgerService)

func WithTokenIssuer(t *auth.TokenIssuer) Option {
	return func(s *LedgerService) { s.tokens = t }
}

// WithPublisher enables change events. A nil publisher disables them.
func WithPublisher(p ChangePublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithPublishTimeout bounds each change-event publish. Zero or less keeps
// DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *LedgerService) {
		if d > 0 {
			s.pubTimeout = d
		}
	}
}

func WithSnapshotCache(c cache.Cache[report.Snapshot]) Option {
	return func(s *LedgerService) { s.snapshots = c }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l }
}

func NewLedgerService(store storage.Store, provider auth.Provider, opts ...Option) *LedgerService {
	s := &LedgerService{store: store, provider: provider, pubTimeout: DefaultPublishTimeout}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

// Register creates an account. The password must be confirmed and at least
// MinPasswordLength characters long.
func (s *LedgerService) Register(ctx context.Context, username, password, confirm string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if err := storage.ValidateUsername(username); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	created, err := s.provider.CreateUser(ctx, username, password)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if !created {
		return auth.ErrUserExists
	}
	s.logger.InfoContext(ctx, "User registered", log.FieldUsername, username, log.FieldOperation, log.OpRegister)
	return nil
}

// Login verifies credentials and returns a signed session token.
func (s *LedgerService) Login(ctx context.Context, username, password string) (string, error) {
	if s.tokens == nil {
		return "", ErrTokensDisabled
	}
	ok, err := s.provider.Authenticate(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "Login failed", log.FieldUsername, username)
		return "", auth.ErrInvalidCredentials
	}
	return s.tokens.Issue(strings.TrimSpace(username))
}

// Authenticate checks credentials without issuing a token.
func (s *LedgerService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	return s.provider.Authenticate(ctx, username, password)
}

// VerifyToken returns the username a session token was issued to.
func (s *LedgerService) VerifyToken(token string) (string, error) {
	if s.tokens == nil {
		return "", ErrTokensDisabled
	}
	return s.tokens.Verify(token)
}

// State returns a copy of everything stored for username.
func (s *LedgerService) State(ctx context.Context, username string) (core.UserLedgerState, error) {
	unlock := s.locks.lock(username)
	defer unlock()

	state, err := s.store.Load(ctx, username)
	if err != nil {
		return core.UserLedgerState{}, fmt.Errorf("load ledger: %w", err)
	}
	return state, nil
}

// Snapshot returns the report of username's ledger as of asOf.
func (s *LedgerService) Snapshot(ctx context.Context, username string, asOf core.Date) (report.Snapshot, error) {
	// The cache is read and filled under the user lock so a concurrent
	// mutation cannot leave a stale entry behind.
	unlock := s.locks.lock(username)
	defer unlock()

	key := username + "|" + asOf.String()
	if s.snapshots != nil {
		if snap, ok := s.snapshots.Get(key); ok {
			return snap.Clone(), nil
		}
	}

	state, err := s.store.Load(ctx, username)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("load ledger: %w", err)
	}
	snap := report.Assemble(state, asOf)
	if s.snapshots != nil {
		s.snapshots.Set(key, snap.Clone())
	}
	return snap, nil
}

func (s *LedgerService) SetBaseIncome(ctx context.Context, username string, amount core.Money) error {
	return s.mutate(ctx, username, log.OpSetBaseIncome, log.NewFields().With(log.FieldAmount, amount.String()),
		func(st *core.UserLedgerState) error {
			return ledger.New(st).SetBaseIncome(amount)
		})
}

// AddTransaction appends tx and returns its index.
func (s *LedgerService) AddTransaction(ctx context.Context, username string, tx core.Transaction) (int, error) {
	idx := -1
	err := s.mutate(ctx, username, log.OpAddTransaction, transactionFields(tx),
		func(st *core.UserLedgerState) error {
			var err error
			idx, err = ledger.New(st).Add(tx)
			return err
		})
	return idx, err
}

func (s *LedgerService) EditTransaction(ctx context.Context, username string, index int, tx core.Transaction) error {
	return s.mutate(ctx, username, log.OpEditTransaction, transactionFields(tx).With(log.FieldIndex, index),
		func(st *core.UserLedgerState) error {
			return ledger.New(st).Edit(index, tx)
		})
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, username string, index int) error {
	return s.mutate(ctx, username, log.OpDeleteTransaction, log.NewFields().With(log.FieldIndex, index),
		func(st *core.UserLedgerState) error {
			_, err := ledger.New(st).Delete(index)
			return err
		})
}

// AddReminder appends an open reminder and returns its index.
func (s *LedgerService) AddReminder(ctx context.Context, username string, due core.Date, note string, amount core.Money) (int, error) {
	idx := -1
	err := s.mutate(ctx, username, log.OpAddReminder, log.NewFields().With(log.FieldAmount, amount.String()),
		func(st *core.UserLedgerState) error {
			var err error
			idx, err = reminders.New(st).Add(due, note, amount)
			return err
		})
	return idx, err
}

func (s *LedgerService) CompleteReminder(ctx context.Context, username string, index int) error {
	return s.mutate(ctx, username, log.OpCompleteReminder, log.NewFields().With(log.FieldIndex, index),
		func(st *core.UserLedgerState) error {
			return reminders.New(st).Complete(index)
		})
}

func (s *LedgerService) DeleteReminder(ctx context.Context, username string, index int) error {
	return s.mutate(ctx, username, log.OpDeleteReminder, log.NewFields().With(log.FieldIndex, index),
		func(st *core.UserLedgerState) error {
			return reminders.New(st).Delete(index)
		})
}

func (s *LedgerService) AddGoal(ctx context.Context, username, name string, target core.Money, targetDate core.Date) (core.SavingsGoal, error) {
	var added core.SavingsGoal
	err := s.mutate(ctx, username, log.OpAddGoal, log.NewFields().With(log.FieldGoal, name),
		func(st *core.UserLedgerState) error {
			var err error
			added, err = goals.New(st).Add(name, target, targetDate)
			return err
		})
	return added, err
}

// Contribute adds amount to the first goal named name. It reports false,
// and saves nothing, when no goal matches or amount is negative.
func (s *LedgerService) Contribute(ctx context.Context, username, name string, amount core.Money) (bool, error) {
	err := s.mutate(ctx, username, log.OpContribute, log.NewFields().With(log.FieldGoal, name).With(log.FieldAmount, amount.String()),
		func(st *core.UserLedgerState) error {
			if !goals.New(st).Contribute(name, amount) {
				return errNoChange
			}
			return nil
		})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	return err == nil, err
}

// errNoChange aborts a mutation without saving.
var errNoChange = errors.New("no change")

// mutate saves under the user's lock and publishes after releasing it.
func (s *LedgerService) mutate(ctx context.Context, username, op string, fields log.LogFields, apply func(*core.UserLedgerState) error) error {
	if err := s.save(ctx, username, op, fields, apply); err != nil {
		return err
	}
	s.publish(ctx, username, op)
	return nil
}

func (s *LedgerService) save(ctx context.Context, username, op string, fields log.LogFields, apply func(*core.UserLedgerState) error) error {
	unlock := s.locks.lock(username)
	defer unlock()

	state, err := s.store.Load(ctx, username)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	// Load hands out a private copy, so a failed apply leaves nothing behind.
	if err := apply(&state); err != nil {
		return err
	}
	if err := s.store.Save(ctx, username, state); err != nil {
		s.events.LogError(ctx, "Failed to save ledger", err, log.ComponentStorage, op, log.NewFields().WithUser(username))
		return fmt.Errorf("save ledger: %w", err)
	}

	if s.snapshots != nil {
		s.snapshots.DeletePrefix(username + "|")
	}
	s.events.LogLedgerChange(ctx, username, op, fields)
	return nil
}

// publish never fails the operation; the change is already saved. It runs
// on a detached context so a cancelled request still announces its change,
// and gives up after the publish timeout.
func (s *LedgerService) publish(ctx context.Context, username, op string) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.pubTimeout)
	defer cancel()
	if err := s.publisher.PublishLedgerChanged(ctx, amqp.NewLedgerChangedMessage(username, op)); err != nil {
		s.events.LogError(ctx, "Failed to publish ledger change", err, log.ComponentAMQP, op, log.NewFields().WithUser(username))
	}
}

func transactionFields(tx core.Transaction) log.LogFields {
	return log.NewFields().WithTransaction(string(tx.Category), string(tx.Kind), tx.Amount.String())
}

type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *userLocks) lock(username string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[username]
	if !ok {
		m = &sync.Mutex{}
		l.locks[username] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
