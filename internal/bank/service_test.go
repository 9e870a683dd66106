package bank

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/events"
	"github.com/pocketbank/pocketbank/internal/models"
	"github.com/pocketbank/pocketbank/internal/repository"
	"github.com/pocketbank/pocketbank/internal/store"
)

func newService(t *testing.T) (*Service, repository.AccountRepository) {
	t.Helper()
	repo := repository.NewKVRepository(store.NewMemory())
	svc := NewService(repo, events.Nop{})
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func validRegistration(email string) models.RegisterRequest {
	return models.RegisterRequest{
		AadharID:        "123",
		FirstName:       "Asha",
		LastName:        "Rao",
		Email:           email,
		Password:        "p1",
		ConfirmPassword: "p1",
		Address:         "1 Main St",
		ContactNumber:   "1234567890",
	}
}

func register(t *testing.T, svc *Service, email string) string {
	t.Helper()
	id, err := svc.Register(context.Background(), validRegistration(email))
	if err != nil {
		t.Fatalf("Register(%s) err=%v", email, err)
	}
	return id
}

func TestRegisterReturnsFreshAccount(t *testing.T) {
	svc, repo := newService(t)
	id := register(t, svc, "a@x.com")

	if !regexp.MustCompile(`^US\d{9}$`).MatchString(id) {
		t.Fatalf("account id %q does not match US + 9 digits", id)
	}

	account, err := repo.Find(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if !account.Balance.IsZero() {
		t.Fatalf("new account balance = %s, want 0", account.Balance)
	}
	if len(account.Transactions) != 0 {
		t.Fatalf("new account has %d transactions, want 0", len(account.Transactions))
	}
	if account.MaritalStatus != "" || account.DateOfBirth != "" || account.Gender != "" || account.PanCard != "" {
		t.Fatalf("optional profile fields not empty: %+v", account)
	}
}

func TestRegisterValidationOrder(t *testing.T) {
	svc, _ := newService(t)
	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	cases := []struct {
		name   string
		mutate func(*models.RegisterRequest)
		want   error
	}{
		{"missing aadhar", func(r *models.RegisterRequest) { r.AadharID = "" }, models.ErrMissingAadhar},
		{"password mismatch", func(r *models.RegisterRequest) { r.ConfirmPassword = "p2" }, models.ErrPasswordMismatch},
		{"password too long", func(r *models.RegisterRequest) { r.Password = long(31); r.ConfirmPassword = r.Password }, models.ErrPasswordTooLong},
		{"contact too short", func(r *models.RegisterRequest) { r.ContactNumber = "12345" }, models.ErrInvalidContactNumber},
		{"first name too long", func(r *models.RegisterRequest) { r.FirstName = long(51) }, models.ErrNameTooLong},
		{"last name too long", func(r *models.RegisterRequest) { r.LastName = long(51) }, models.ErrNameTooLong},
		{"address too long", func(r *models.RegisterRequest) { r.Address = long(101) }, models.ErrAddressTooLong},
	}

	for _, tc := range cases {
		req := validRegistration("v@x.com")
		tc.mutate(&req)
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// Mismatch is checked before length: an over-long password that also
	// mismatches reports the mismatch.
	req := validRegistration("v@x.com")
	req.Password = long(31)
	req.ConfirmPassword = long(32)
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, models.ErrPasswordMismatch) {
		t.Errorf("order: got %v, want ErrPasswordMismatch", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc, "a@x.com")

	if _, err := svc.Register(context.Background(), validRegistration("a@x.com")); !errors.Is(err, models.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
	register(t, svc, "b@x.com")
}

func TestDepositAppendsLedgerEntry(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	id := register(t, svc, "a@x.com")

	balance, err := svc.Deposit(ctx, id, decimal.NewFromFloat(250.5), "first paycheck")
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.NewFromFloat(250.5)) {
		t.Fatalf("balance = %s, want 250.5", balance)
	}

	account, _ := repo.Find(ctx, id)
	if len(account.Transactions) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(account.Transactions))
	}
	txn := account.Transactions[0]
	if txn.Type != models.TransactionTypeDeposit ||
		!txn.Amount.Equal(decimal.NewFromFloat(250.5)) ||
		!txn.Balance.Equal(decimal.NewFromFloat(250.5)) {
		t.Fatalf("unexpected ledger entry: %+v", txn)
	}
	if txn.Date != "03/15/2024" {
		t.Fatalf("date = %q, want 03/15/2024", txn.Date)
	}
	if txn.Description != "first paycheck" {
		t.Fatalf("description = %q", txn.Description)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	id := register(t, svc, "a@x.com")

	for _, amt := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if _, err := svc.Deposit(ctx, id, amt, ""); !errors.Is(err, models.ErrInvalidAmount) {
			t.Fatalf("amount %s: got %v, want ErrInvalidAmount", amt, err)
		}
	}

	account, _ := repo.Find(ctx, id)
	if !account.Balance.IsZero() || len(account.Transactions) != 0 {
		t.Fatalf("failed deposit mutated state: %+v", account)
	}
}

func TestWithdrawPreconditionChain(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	id := register(t, svc, "a@x.com")
	if _, err := svc.Deposit(ctx, id, decimal.NewFromInt(1000), ""); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		amount decimal.Decimal
		want   error
	}{
		{"zero", decimal.Zero, models.ErrInvalidAmount},
		{"negative", decimal.NewFromInt(-1), models.ErrInvalidAmount},
		{"over cap", decimal.NewFromInt(1001), models.ErrExceedsMaxWithdrawal},
		{"leaves 400", decimal.NewFromInt(600), models.ErrBelowMinimumBalance},
		{"leaves 499.99", decimal.NewFromFloat(500.01), models.ErrBelowMinimumBalance},
	}
	for _, tc := range cases {
		if _, err := svc.Withdraw(ctx, id, tc.amount, ""); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// None of the failures may have touched the account.
	account, _ := repo.Find(ctx, id)
	if !account.Balance.Equal(decimal.NewFromInt(1000)) || len(account.Transactions) != 1 {
		t.Fatalf("failed withdrawals mutated state: balance=%s ledger=%d", account.Balance, len(account.Transactions))
	}
}

// The cap applies per transaction regardless of balance.
func TestWithdrawCapBeatsInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	id := register(t, svc, "a@x.com")

	if _, err := svc.Withdraw(ctx, id, decimal.NewFromInt(2000), ""); !errors.Is(err, models.ErrExceedsMaxWithdrawal) {
		t.Fatalf("got %v, want ErrExceedsMaxWithdrawal", err)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	id := register(t, svc, "a@x.com")
	if _, err := svc.Deposit(ctx, id, decimal.NewFromInt(600), ""); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Withdraw(ctx, id, decimal.NewFromInt(700), ""); !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	account, _ := repo.Find(ctx, id)
	if !account.Balance.Equal(decimal.NewFromInt(600)) || len(account.Transactions) != 1 {
		t.Fatalf("failed withdrawal mutated state: %+v", account)
	}
}

// Draining the balance to exactly zero bypasses the minimum-balance
// floor; anything strictly between 0 and 500 does not.
func TestWithdrawZeroBalanceExemption(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	id := register(t, svc, "a@x.com")
	if _, err := svc.Deposit(ctx, id, decimal.NewFromInt(1000), ""); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Withdraw(ctx, id, decimal.NewFromInt(600), ""); !errors.Is(err, models.ErrBelowMinimumBalance) {
		t.Fatalf("withdraw 600: got %v, want ErrBelowMinimumBalance", err)
	}

	balance, err := svc.Withdraw(ctx, id, decimal.NewFromInt(500), "")
	if err != nil {
		t.Fatalf("withdraw 500: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("balance = %s, want 500", balance)
	}

	balance, err = svc.Withdraw(ctx, id, decimal.NewFromInt(500), "")
	if err != nil {
		t.Fatalf("withdraw to zero: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("balance = %s, want 0", balance)
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	id := register(t, svc, "a@x.com")

	_, _ = svc.Deposit(ctx, id, decimal.NewFromInt(1000), "one")
	_, _ = svc.Withdraw(ctx, id, decimal.NewFromInt(200), "two")
	_, _ = svc.Deposit(ctx, id, decimal.NewFromInt(50), "three")

	txns, err := svc.Transactions(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txns))
	}
	if txns[0].Description != "three" || txns[1].Description != "two" || txns[2].Description != "one" {
		t.Fatalf("not newest-first: %+v", txns)
	}
	// Running balances are snapshots, oldest entry last.
	if !txns[2].Balance.Equal(decimal.NewFromInt(1000)) || !txns[0].Balance.Equal(decimal.NewFromInt(850)) {
		t.Fatalf("running balances wrong: %+v", txns)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	id := register(t, svc, "a@x.com")

	update := models.ProfileUpdate{
		CustomerName:  "Priya Nair Kumar",
		AadharID:      "456",
		Email:         "new@x.com",
		Address:       "9 Hill Rd",
		ContactNumber: "9876543210",
		MaritalStatus: "married",
		DateOfBirth:   "1990-01-02",
		Gender:        "female",
		PanCard:       "ABCDE1234F",
	}
	if err := svc.UpdateProfile(ctx, id, update); err != nil {
		t.Fatal(err)
	}

	account, _ := repo.Find(ctx, id)
	if account.FirstName != "Priya" || account.LastName != "Nair Kumar" {
		t.Fatalf("name split wrong: %q / %q", account.FirstName, account.LastName)
	}
	if account.Email != "new@x.com" || account.PanCard != "ABCDE1234F" || account.MaritalStatus != "married" {
		t.Fatalf("profile not applied: %+v", account)
	}
	if len(account.Transactions) != 0 || !account.Balance.IsZero() {
		t.Fatalf("profile update touched balance or ledger: %+v", account)
	}
}

// Profile updates revalidate only the contact number and address:
// a name part longer than the registration limit passes, and another
// account's email is taken over without a uniqueness recheck.
func TestUpdateProfileSkipsRegistrationChecks(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	idA := register(t, svc, "a@x.com")
	register(t, svc, "b@x.com")

	longFirst := make([]byte, 60)
	for i := range longFirst {
		longFirst[i] = 'n'
	}
	update := models.ProfileUpdate{
		CustomerName:  string(longFirst) + " Rao",
		AadharID:      "123",
		Email:         "b@x.com",
		Address:       "1 Main St",
		ContactNumber: "1234567890",
	}
	if err := svc.UpdateProfile(ctx, idA, update); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	account, err := repo.Find(ctx, idA)
	if err != nil {
		t.Fatal(err)
	}
	if len(account.FirstName) != 60 {
		t.Fatalf("first name length = %d, want 60", len(account.FirstName))
	}
	if account.Email != "b@x.com" {
		t.Fatalf("email = %q, want b@x.com", account.Email)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	id := register(t, svc, "a@x.com")

	bad := models.ProfileUpdate{CustomerName: "A B", ContactNumber: "12345", Address: "ok"}
	if err := svc.UpdateProfile(ctx, id, bad); !errors.Is(err, models.ErrInvalidContactNumber) {
		t.Fatalf("got %v, want ErrInvalidContactNumber", err)
	}

	longAddr := make([]byte, 101)
	for i := range longAddr {
		longAddr[i] = 'a'
	}
	bad = models.ProfileUpdate{CustomerName: "A B", ContactNumber: "1234567890", Address: string(longAddr)}
	if err := svc.UpdateProfile(ctx, id, bad); !errors.Is(err, models.ErrAddressTooLong) {
		t.Fatalf("got %v, want ErrAddressTooLong", err)
	}

	// Failed updates leave the record alone.
	account, _ := repo.Find(ctx, id)
	if account.FirstName != "Asha" {
		t.Fatalf("failed update mutated account: %+v", account)
	}
}

func TestSplitCustomerName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Asha Rao", "Asha", "Rao"},
		{"Asha", "Asha", "Asha"},
		{"Asha ", "Asha", "Asha"},
		{"Asha Rao Iyer", "Asha", "Rao Iyer"},
	}
	for _, tc := range cases {
		first, last := splitCustomerName(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("split %q = %q/%q, want %q/%q", tc.in, first, last, tc.first, tc.last)
		}
	}
}
