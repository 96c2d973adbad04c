// Package bank models a single-holder bank account with deposit, withdraw
// and fee operations.
//
// Amounts are int64 cents. Two policies exist: a simple account allows
// overdraft and charges a flat management fee; a strict account rejects
// non-positive amounts and overdraft and charges a per-transaction fee on
// top of the management fee.
package bank

import (
	"fmt"
	"sync"
)

const (
	// ATMTransactionFee is charged on top of every ATM operation.
	ATMTransactionFee int64 = 100

	// ManagementFee is the flat periodic fee.
	ManagementFee int64 = 500

	// TransactionFee is charged by strict accounts for every transaction
	// since the last management fee.
	TransactionFee int64 = 10
)

// Policy selects the account rules.
type Policy string

const (
	PolicySimple Policy = "simple"
	PolicyStrict Policy = "strict"
)

// AccountHolder identifies the only user allowed to operate an account.
type AccountHolder struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	UserID  int    `json:"user_id"`
}

// Account is a bank account owned by one holder.
// All methods are safe for concurrent use.
type Account struct {
	mu           sync.Mutex
	holder       AccountHolder
	policy       Policy
	balance      int64
	transactions int
}

// NewSimpleAccount opens a simple account with an initial balance.
func NewSimpleAccount(holder AccountHolder, balance int64) *Account {
	return &Account{holder: holder, policy: PolicySimple, balance: balance}
}

// NewStrictAccount opens a strict account with an initial balance.
// Returns an ErrCodeInvalidArgument error if balance is negative.
func NewStrictAccount(holder AccountHolder, balance int64) (*Account, error) {
	if balance < 0 {
		return nil, newError(ErrCodeInvalidArgument, "initial balance %s is negative", FormatCents(balance))
	}
	return &Account{holder: holder, policy: PolicyStrict, balance: balance}, nil
}

// Holder returns the account holder.
func (a *Account) Holder() AccountHolder {
	return a.holder
}

// Policy returns the account policy.
func (a *Account) Policy() Policy {
	return a.policy
}

// Balance returns the current balance in cents.
func (a *Account) Balance() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// TransactionsCount returns the number of transactions since opening or
// since the last strict management fee.
func (a *Account) TransactionsCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transactions
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(userID int, amount int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	return a.apply(userID, amount)
}

// Withdraw removes amount from the balance.
func (a *Account) Withdraw(userID int, amount int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	return a.apply(userID, -amount)
}

// DepositFromATM deposits amount less ATMTransactionFee.
func (a *Account) DepositFromATM(userID int, amount int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	return a.apply(userID, amount-ATMTransactionFee)
}

// WithdrawFromATM withdraws amount plus ATMTransactionFee.
func (a *Account) WithdrawFromATM(userID int, amount int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	return a.apply(userID, -(amount + ATMTransactionFee))
}

// ChargeManagementFees deducts the periodic fee.
//
// Simple accounts pay ManagementFee. Strict accounts pay ManagementFee plus
// TransactionFee per transaction, and their transaction count is reset; a
// strict account that cannot cover the fee is left untouched.
func (a *Account) ChargeManagementFees(userID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkHolder(userID); err != nil {
		return err
	}
	fee := a.managementFee()
	if a.policy == PolicyStrict {
		if a.balance < fee {
			return newError(ErrCodeInvalidArgument, "balance %s cannot cover fees of %s", FormatCents(a.balance), FormatCents(fee))
		}
		a.transactions = 0
	}
	a.balance -= fee
	return nil
}

// managementFee returns the fee ChargeManagementFees would deduct now.
func (a *Account) managementFee() int64 {
	if a.policy == PolicyStrict {
		return ManagementFee + TransactionFee*int64(a.transactions)
	}
	return ManagementFee
}

// apply moves delta into the balance after the holder and policy checks,
// and counts the transaction. Caller holds mu.
func (a *Account) apply(userID int, delta int64) error {
	if err := a.checkHolder(userID); err != nil {
		return err
	}
	if a.policy == PolicyStrict && a.balance+delta < 0 {
		return newError(ErrCodeInvalidArgument, "insufficient balance: %s available, %s requested", FormatCents(a.balance), FormatCents(-delta))
	}
	a.balance += delta
	a.transactions++
	return nil
}

// checkAmount rejects non-positive amounts on strict accounts.
func (a *Account) checkAmount(amount int64) error {
	if a.policy == PolicyStrict && amount <= 0 {
		return newError(ErrCodeInvalidArgument, "amount %s must be positive", FormatCents(amount))
	}
	return nil
}

func (a *Account) checkHolder(userID int) error {
	if userID != a.holder.UserID {
		return newError(ErrCodeUnauthorized, "user %d is not the holder of this account", userID)
	}
	return nil
}

// FormatCents renders cents as a decimal amount, e.g. 9490 -> "94.90".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
