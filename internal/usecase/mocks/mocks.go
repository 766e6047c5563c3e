// Package mocks provides hand-written test doubles for the usecase
// interfaces. Every mock has sensible map-backed default behavior and
// per-method Func overrides.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/kinko-ledger/internal/domain"
	"github.com/iho/kinko-ledger/internal/usecase"
)

type storedAccount struct {
	currency string
	entries  []domain.LedgerEntry
}

// MockAccountStore is a mock implementation of AccountStore backed by
// an in-memory map.
type MockAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*storedAccount

	SaveCalls int

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	LoadFunc          func(ctx context.Context, id string) (*domain.Account, error)
	LoadForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	SaveFunc          func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[string]*storedAccount),
	}
}

// Seed registers an account with the given persisted entries.
func (m *MockAccountStore) Seed(id, currency string, entries ...domain.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id] = &storedAccount{currency: currency, entries: entries}
}

func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID()] = &storedAccount{currency: account.Currency()}
	return nil
}

func (m *MockAccountStore) Load(ctx context.Context, id string) (*domain.Account, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load(id)
}

func (m *MockAccountStore) LoadForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.LoadForUpdateFunc != nil {
		return m.LoadForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if _, ok := m.accounts[id]; !ok {
			continue
		}
		acc, err := m.load(id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountStore) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[account.ID()]
	if !ok {
		return domain.ErrAccountNotFound
	}
	stored.entries = append(stored.entries, account.NewEntries()...)
	return nil
}

func (m *MockAccountStore) load(id string) (*domain.Account, error) {
	stored, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	entries := make([]domain.LedgerEntry, len(stored.entries))
	copy(entries, stored.entries)
	return domain.NewAccount(id, stored.currency, entries), nil
}

// Entries returns the persisted entries of an account for assertions.
func (m *MockAccountStore) Entries(id string) []domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.accounts[id]
	if !ok {
		return nil
	}
	entries := make([]domain.LedgerEntry, len(stored.entries))
	copy(entries, stored.entries)
	return entries
}

// Balance returns the persisted balance of an account for assertions.
func (m *MockAccountStore) Balance(id string) int64 {
	var total int64
	for _, e := range m.Entries(id) {
		total += e.AmountCents
	}
	return total
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	Commits   int
	Rollbacks int

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Commits++
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.Rollbacks++
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager is a mock implementation of
// TransactionManager. It records every transaction it hands out.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.Transactions = append(m.Transactions, tx)
	m.mu.Unlock()
	return tx, nil
}

// MockRetrier is a mock implementation of Retrier that runs the
// operation exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockWebhookEventStore is a mock implementation of WebhookEventStore.
// Its default ProcessOnce is safe under concurrent calls.
type MockWebhookEventStore struct {
	mu     sync.Mutex
	events map[string]string

	ProcessOnceFunc func(ctx context.Context, eventID string) (bool, error)
	MarkDoneFunc    func(ctx context.Context, eventID string) error
}

func NewMockWebhookEventStore() *MockWebhookEventStore {
	return &MockWebhookEventStore{
		events: make(map[string]string),
	}
}

func (m *MockWebhookEventStore) ProcessOnce(ctx context.Context, eventID string) (bool, error) {
	if m.ProcessOnceFunc != nil {
		return m.ProcessOnceFunc(ctx, eventID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID]; ok {
		return false, nil
	}
	m.events[eventID] = "processing"
	return true, nil
}

func (m *MockWebhookEventStore) MarkDone(ctx context.Context, eventID string) error {
	if m.MarkDoneFunc != nil {
		return m.MarkDoneFunc(ctx, eventID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[eventID] = "done"
	return nil
}

// Status returns the recorded status of an event id for assertions.
func (m *MockWebhookEventStore) Status(eventID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[eventID]
}
