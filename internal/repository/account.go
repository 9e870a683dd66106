// Package repository owns the account registry: the full mapping of
// accountID -> Account serialized under one key in the Store. Every
// write re-serializes the whole mapping (last writer wins), matching
// the single-client assumption of the storage model.
package repository

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/pocketbank/pocketbank/internal/models"
	"github.com/pocketbank/pocketbank/internal/store"
)

// AccountRepository defines the data-access interface for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	Find(ctx context.Context, accountID string) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
	List(ctx context.Context) (map[string]*models.Account, error)
}

// KVRepository implements AccountRepository on top of a key-value Store.
type KVRepository struct {
	kv store.Store
}

func NewKVRepository(kv store.Store) *KVRepository {
	return &KVRepository{kv: kv}
}

// Create assigns a fresh account ID, checks the email is not already
// registered (exact match, case-sensitive), and persists the registry.
// The generated ID is not re-checked against the registry; uniqueness
// rests on the randomness of the generator. Known weakness, kept as-is.
func (r *KVRepository) Create(ctx context.Context, account *models.Account) error {
	accounts, err := r.List(ctx)
	if err != nil {
		return err
	}

	for _, existing := range accounts {
		if existing.Email == account.Email {
			return models.ErrDuplicateEmail
		}
	}

	account.AccountID = newAccountID()
	accounts[account.AccountID] = account

	return r.save(ctx, accounts)
}

// Find returns the account for the given ID, or ErrAccountNotFound.
func (r *KVRepository) Find(ctx context.Context, accountID string) (*models.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	account, ok := accounts[accountID]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	return account, nil
}

// Save replaces the stored record for account.AccountID wholesale.
func (r *KVRepository) Save(ctx context.Context, account *models.Account) error {
	accounts, err := r.List(ctx)
	if err != nil {
		return err
	}
	accounts[account.AccountID] = account
	return r.save(ctx, accounts)
}

// List returns the full registry. An unset key yields an empty map.
func (r *KVRepository) List(ctx context.Context) (map[string]*models.Account, error) {
	raw, err := r.kv.Get(ctx, store.KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	accounts := make(map[string]*models.Account)
	if raw == "" {
		return accounts, nil
	}
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return accounts, nil
}

func (r *KVRepository) save(ctx context.Context, accounts map[string]*models.Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := r.kv.Set(ctx, store.KeyUsers, string(raw)); err != nil {
		return fmt.Errorf("persist registry: %w", err)
	}
	return nil
}

// newAccountID returns "US" followed by 9 random digits.
func newAccountID() string {
	b := make([]byte, 9)
	_, _ = rand.Read(b)
	digits := make([]byte, 9)
	for i, v := range b {
		digits[i] = '0' + v%10
	}
	return "US" + string(digits)
}
