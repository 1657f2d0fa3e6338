package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/usecase"
)

// MockLedgerStore is a mock implementation of LedgerStore backed by an
// in-memory transaction table. Sessions load a fresh ledger on Begin
// and write back on Commit, so uncommitted mutations are discarded the
// way a real store discards a rolled-back transaction.
type MockLedgerStore struct {
	mu   sync.Mutex
	txns map[string]*domain.Transaction

	BeginFunc    func(ctx context.Context) (usecase.LedgerSession, error)
	SnapshotFunc func(ctx context.Context) (*domain.Ledger, error)

	Commits int
}

func NewMockLedgerStore() *MockLedgerStore {
	return &MockLedgerStore{
		txns: make(map[string]*domain.Transaction),
	}
}

// Seed inserts transactions directly into the backing table, bypassing
// session change tracking.
func (m *MockLedgerStore) Seed(txns ...*domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range txns {
		cp := *t
		m.txns[t.ID] = &cp
	}
}

func (m *MockLedgerStore) Begin(ctx context.Context) (usecase.LedgerSession, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockLedgerSession{store: m, ledger: domain.NewLedger(m.rows())}, nil
}

func (m *MockLedgerStore) Snapshot(ctx context.Context) (*domain.Ledger, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx)
	}
	return domain.NewLedger(m.rows()), nil
}

func (m *MockLedgerStore) rows() []*domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Transaction, 0, len(m.txns))
	for _, t := range m.txns {
		cp := *t
		out = append(out, &cp)
	}
	return out
}

func (m *MockLedgerStore) apply(l *domain.Ledger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range l.Added() {
		cp := *t
		m.txns[t.ID] = &cp
	}
	for _, t := range l.Updated() {
		cp := *t
		m.txns[t.ID] = &cp
	}
	for _, t := range l.Removed() {
		delete(m.txns, t.ID)
	}
	m.Commits++
}

// MockLedgerSession is the session type handed out by MockLedgerStore.
type MockLedgerSession struct {
	store     *MockLedgerStore
	ledger    *domain.Ledger
	committed bool
	closed    bool

	CommitFunc func(ctx context.Context) error
	CloseFunc  func(ctx context.Context) error
}

func (s *MockLedgerSession) Ledger() *domain.Ledger {
	return s.ledger
}

func (s *MockLedgerSession) Commit(ctx context.Context) error {
	if s.CommitFunc != nil {
		return s.CommitFunc(ctx)
	}
	s.store.apply(s.ledger)
	s.committed = true
	return nil
}

func (s *MockLedgerSession) Close(ctx context.Context) error {
	if s.CloseFunc != nil {
		return s.CloseFunc(ctx)
	}
	s.closed = true
	return nil
}

// MockAccountStore is a mock implementation of AccountStore.
type MockAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc  func(ctx context.Context, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Account, error)
	ListFunc    func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Name == account.Name {
			return domain.ErrDuplicateAccount
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountStore) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MockCategoryStore is a mock implementation of CategoryStore.
type MockCategoryStore struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category

	CreateFunc  func(ctx context.Context, category *domain.Category) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Category, error)
	ListFunc    func(ctx context.Context) ([]*domain.Category, error)
	UpdateFunc  func(ctx context.Context, category *domain.Category) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{
		categories: make(map[string]*domain.Category),
	}
}

func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, category.Name) {
			return domain.ErrDuplicateCategory
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryStore) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

// MockRuleStore is a mock implementation of RuleStore.
type MockRuleStore struct {
	mu    sync.RWMutex
	rules map[string]*domain.Rule

	CreateFunc           func(ctx context.Context, rule *domain.Rule) error
	ListFunc             func(ctx context.Context) ([]*domain.Rule, error)
	DeleteFunc           func(ctx context.Context, id string) error
	DeleteByCategoryFunc func(ctx context.Context, categoryID string) error
}

func NewMockRuleStore() *MockRuleStore {
	return &MockRuleStore{
		rules: make(map[string]*domain.Rule),
	}
}

func (m *MockRuleStore) Create(ctx context.Context, rule *domain.Rule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockRuleStore) List(ctx context.Context) ([]*domain.Rule, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Rule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockRuleStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return domain.ErrRuleNotFound
	}
	delete(m.rules, id)
	return nil
}

func (m *MockRuleStore) DeleteByCategory(ctx context.Context, categoryID string) error {
	if m.DeleteByCategoryFunc != nil {
		return m.DeleteByCategoryFunc(ctx, categoryID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rules {
		if r.CategoryID == categoryID {
			delete(m.rules, id)
		}
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator. Generated
// ids are sortable in generation order.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
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
	return fmt.Sprintf("id-%06d", m.counter)
}

// MockReportCache is a mock implementation of ReportCache. TTLs are
// ignored.
type MockReportCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc              func(ctx context.Context, key string) ([]byte, error)
	SetFunc              func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateMonthsFunc func(ctx context.Context, months []domain.Month) error
	InvalidateAllFunc    func(ctx context.Context) error

	Invalidated    []domain.Month
	InvalidatedAll int
}

func NewMockReportCache() *MockReportCache {
	return &MockReportCache{
		data: make(map[string][]byte),
	}
}

func (m *MockReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockReportCache) InvalidateMonths(ctx context.Context, months []domain.Month) error {
	if m.InvalidateMonthsFunc != nil {
		return m.InvalidateMonthsFunc(ctx, months)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, months...)
	for _, month := range months {
		prefix := fmt.Sprintf("report:%s:", month)
		for k := range m.data {
			if strings.HasPrefix(k, prefix) {
				delete(m.data, k)
			}
		}
	}
	return nil
}

func (m *MockReportCache) InvalidateAll(ctx context.Context) error {
	if m.InvalidateAllFunc != nil {
		return m.InvalidateAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidatedAll++
	for k := range m.data {
		delete(m.data, k)
	}
	return nil
}

// Len returns the number of cached entries.
func (m *MockReportCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
