// Package bank implements the account state machine: registration,
// deposits, withdrawals, profile edits, and the transaction ledger.
// Every operation validates fully before mutating, so a failed call
// leaves the account untouched.
package bank

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/events"
	"github.com/pocketbank/pocketbank/internal/models"
	"github.com/pocketbank/pocketbank/internal/repository"
)

var (
	// maxWithdrawal caps a single withdrawal. Per transaction, not daily.
	maxWithdrawal = decimal.NewFromInt(1000)
	// minBalance is the floor a withdrawal must leave behind, unless it
	// empties the account to exactly zero.
	minBalance = decimal.NewFromInt(500)
)

// dateLayout is the calendar-date format recorded on ledger entries.
const dateLayout = "01/02/2006"

type Service struct {
	repo repository.AccountRepository
	pub  events.Publisher
	now  func() time.Time
}

func NewService(repo repository.AccountRepository, pub events.Publisher) *Service {
	return &Service{repo: repo, pub: pub, now: time.Now}
}

// Register validates the request and creates a zero-balance account
// with an empty ledger. The first failed check wins; the check order is
// part of the observable behavior.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if req.AadharID == "" {
		return "", models.ErrMissingAadhar
	}
	if req.Password != req.ConfirmPassword {
		return "", models.ErrPasswordMismatch
	}
	if len(req.Password) > 30 {
		return "", models.ErrPasswordTooLong
	}
	if len(req.ContactNumber) != 10 {
		return "", models.ErrInvalidContactNumber
	}
	if len(req.FirstName) > 50 || len(req.LastName) > 50 {
		return "", models.ErrNameTooLong
	}
	if len(req.Address) > 100 {
		return "", models.ErrAddressTooLong
	}

	account := &models.Account{
		AadharID:      req.AadharID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Balance:       decimal.Zero,
		Transactions:  []models.Transaction{},
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return "", err
	}
	return account.AccountID, nil
}

// Deposit adds amount to the balance and appends a ledger entry
// carrying the new running balance.
func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, models.ErrInvalidAmount
	}

	account, err := s.repo.Find(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	account.Balance = account.Balance.Add(amount)
	s.appendTransaction(account, models.TransactionTypeDeposit, amount, description)

	if err := s.repo.Save(ctx, account); err != nil {
		return decimal.Zero, err
	}

	s.publish(ctx, account, models.TransactionTypeDeposit, amount)
	return account.Balance, nil
}

// Withdraw removes amount from the balance subject to the withdrawal
// rules: positive amount, at most 1000 per transaction, covered by the
// balance, and the remainder stays at or above 500. Draining the
// account to exactly zero is the one allowed exception to the floor.
func (s *Service) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, models.ErrInvalidAmount
	}
	if amount.GreaterThan(maxWithdrawal) {
		return decimal.Zero, models.ErrExceedsMaxWithdrawal
	}

	account, err := s.repo.Find(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	if amount.GreaterThan(account.Balance) {
		return decimal.Zero, models.ErrInsufficientFunds
	}
	remaining := account.Balance.Sub(amount)
	if remaining.LessThan(minBalance) && !remaining.IsZero() {
		return decimal.Zero, models.ErrBelowMinimumBalance
	}

	account.Balance = remaining
	s.appendTransaction(account, models.TransactionTypeWithdrawal, amount, description)

	if err := s.repo.Save(ctx, account); err != nil {
		return decimal.Zero, err
	}

	s.publish(ctx, account, models.TransactionTypeWithdrawal, amount)
	return account.Balance, nil
}

// UpdateProfile overwrites the editable profile fields. Only the
// contact number and address are re-validated here; the combined
// customer name is split back into first/last on the first space, and a
// name without a second part repeats the first. Balance and ledger are
// untouched.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, update models.ProfileUpdate) error {
	if len(update.ContactNumber) != 10 {
		return models.ErrInvalidContactNumber
	}
	if len(update.Address) > 100 {
		return models.ErrAddressTooLong
	}

	account, err := s.repo.Find(ctx, accountID)
	if err != nil {
		return err
	}

	first, last := splitCustomerName(update.CustomerName)
	account.FirstName = first
	account.LastName = last
	account.AadharID = update.AadharID
	account.Email = update.Email
	account.Address = update.Address
	account.ContactNumber = update.ContactNumber
	account.MaritalStatus = update.MaritalStatus
	account.DateOfBirth = update.DateOfBirth
	account.Gender = update.Gender
	account.PanCard = update.PanCard

	return s.repo.Save(ctx, account)
}

// Transactions returns the account's ledger most-recent-first.
func (s *Service) Transactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	account, err := s.repo.Find(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, len(account.Transactions))
	for i, txn := range account.Transactions {
		out[len(out)-1-i] = txn
	}
	return out, nil
}

func (s *Service) appendTransaction(account *models.Account, txnType models.TransactionType, amount decimal.Decimal, description string) {
	account.Transactions = append(account.Transactions, models.Transaction{
		Date:        s.now().Format(dateLayout),
		Type:        txnType,
		Amount:      amount,
		Balance:     account.Balance,
		Description: description,
	})
}

func (s *Service) publish(ctx context.Context, account *models.Account, txnType models.TransactionType, amount decimal.Decimal) {
	event := models.TransactionEvent{
		EventID:   uuid.New(),
		AccountID: account.AccountID,
		Type:      txnType,
		Amount:    amount,
		Balance:   account.Balance,
		Timestamp: s.now().UTC(),
	}
	if err := s.pub.TransactionCompleted(ctx, event); err != nil {
		log.Printf("WARN: publish event: %v", err)
	}
}

func splitCustomerName(name string) (first, last string) {
	parts := strings.SplitN(name, " ", 2)
	first = parts[0]
	if len(parts) == 2 && parts[1] != "" {
		last = parts[1]
	} else {
		last = first
	}
	return first, last
}
