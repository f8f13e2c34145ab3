package service_test

import (
	"context"
	"strings"
	"sync"

	"github.com/gnr-surgicals/inventory/internal/account/domain"
	accountrepo "github.com/gnr-surgicals/inventory/internal/account/repository"
)

type mockAccountRepo struct {
	createFunc           func(ctx context.Context, account domain.Account) error
	findByUsernameFunc   func(ctx context.Context, username string) (domain.Account, error)
	existsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	deleteByUsernameFunc func(ctx context.Context, username string) (bool, error)
}

func (m *mockAccountRepo) Create(ctx context.Context, account domain.Account) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, account)
	}
	return nil
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.Account{}, accountrepo.ErrAccountNotFound
}

func (m *mockAccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFunc != nil {
		return m.existsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *mockAccountRepo) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	if m.deleteByUsernameFunc != nil {
		return m.deleteByUsernameFunc(ctx, username)
	}
	return false, nil
}

// memoryAccountRepo enforces username uniqueness like the unique index.
type memoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[string]domain.Account)}
}

func (m *memoryAccountRepo) Create(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Username]; ok {
		return accountrepo.ErrUsernameAlreadyExists
	}
	m.accounts[account.Username] = account
	return nil
}

func (m *memoryAccountRepo) FindByUsername(_ context.Context, username string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[username]
	if !ok {
		return domain.Account{}, accountrepo.ErrAccountNotFound
	}
	return a, nil
}

func (m *memoryAccountRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[username]
	return ok, nil
}

func (m *memoryAccountRepo) DeleteByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[username]
	delete(m.accounts, username)
	return ok, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if strings.TrimPrefix(hash, "hashed:") != password {
		return errMismatch
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
	n         int
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	m.n++
	return "acc-" + strings.Repeat("x", m.n), nil
}
