package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
)

// Account is a registered customer's full financial and profile record.
// The whole record is persisted as one value; every save replaces it.
type Account struct {
	AccountID     string          `json:"accountId"`
	AadharID      string          `json:"aadharId"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Email         string          `json:"email"`
	Password      string          `json:"password"` // stored and compared in plain text, see session.PlaintextVerifier
	Address       string          `json:"address"`
	ContactNumber string          `json:"contactNumber"`
	Balance       decimal.Decimal `json:"balance"`
	MaritalStatus string          `json:"maritalStatus"`
	DateOfBirth   string          `json:"dateOfBirth"`
	Gender        string          `json:"gender"`
	PanCard       string          `json:"panCard"`
	Transactions  []Transaction   `json:"transactions"`
}

// Transaction is one append-only ledger entry. Balance is the running
// account balance immediately after the entry, not a delta.
type Transaction struct {
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
}

// TransactionEvent is published after a deposit or withdrawal completes.
type TransactionEvent struct {
	EventID   uuid.UUID       `json:"event_id"`
	AccountID string          `json:"account_id"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Timestamp time.Time       `json:"timestamp"`
}

// Request types

type RegisterRequest struct {
	AadharID        string `json:"aadharId"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Address         string `json:"address"`
	ContactNumber   string `json:"contactNumber"`
}

type LoginRequest struct {
	AccountID string `json:"accountId"`
	Password  string `json:"password"`
}

type AmountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ProfileUpdate carries the editable profile fields. CustomerName is the
// combined display name; the engine splits it back into first/last.
type ProfileUpdate struct {
	CustomerName  string `json:"customerName"`
	AadharID      string `json:"aadharId"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber"`
	MaritalStatus string `json:"maritalStatus"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	PanCard       string `json:"panCard"`
}
