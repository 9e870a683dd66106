// Package session tracks the single active account. The session is one
// persisted pointer under store.KeyCurrentUser; empty string means no
// one is logged in.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbank/pocketbank/internal/models"
	"github.com/pocketbank/pocketbank/internal/repository"
	"github.com/pocketbank/pocketbank/internal/store"
)

// Verifier checks a supplied password against the stored credential.
type Verifier interface {
	Verify(stored, supplied string) bool
}

// PlaintextVerifier compares passwords verbatim. This reproduces the
// system being ported and is a known security defect; swapping in a
// hashing strategy only requires replacing this implementation.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, supplied string) bool {
	return stored == supplied
}

// Manager resolves and mutates the current-session pointer.
type Manager struct {
	kv       store.Store
	repo     repository.AccountRepository
	verifier Verifier
}

func NewManager(kv store.Store, repo repository.AccountRepository, verifier Verifier) *Manager {
	return &Manager{kv: kv, repo: repo, verifier: verifier}
}

// Login authenticates by account ID and records the session on success.
func (m *Manager) Login(ctx context.Context, accountID, password string) (*models.Account, error) {
	account, err := m.repo.Find(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !m.verifier.Verify(account.Password, password) {
		return nil, models.ErrIncorrectPassword
	}
	if err := m.kv.Set(ctx, store.KeyCurrentUser, accountID); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return account, nil
}

// Logout clears the session pointer.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Set(ctx, store.KeyCurrentUser, ""); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current resolves the session pointer through the registry. Returns
// (nil, nil) when no one is logged in or the pointer is dangling.
func (m *Manager) Current(ctx context.Context) (*models.Account, error) {
	accountID, err := m.kv.Get(ctx, store.KeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if accountID == "" {
		return nil, nil
	}
	account, err := m.repo.Find(ctx, accountID)
	if errors.Is(err, models.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// IsLoggedIn reports whether a session pointer is set. It deliberately
// does not resolve the account: a dangling pointer still counts.
func (m *Manager) IsLoggedIn(ctx context.Context) (bool, error) {
	accountID, err := m.kv.Get(ctx, store.KeyCurrentUser)
	if err != nil {
		return false, fmt.Errorf("read session: %w", err)
	}
	return accountID != "", nil
}
