/*
ledger.go - The balance ledger

PURPOSE:
  BalanceLedger is the single authority for a customer's running
  balance. Nothing else reads or writes Customer.Balance: the UI and the
  reporting layer are pure consumers of its results.

RUNNING BALANCE:
  Customer.Balance always equals the BalanceAmount of the customer's
  most recent bill (or zero if none). It is maintained incrementally by
  Commit, never recomputed from bill history.

TRANSACTION ARITHMETIC (ComputeTransaction):
  itemsTotal = sum of valid item amounts

  walk-in:        required = itemsTotal        (no balance in or out)
  balance-only:   required = previousBalance   (no items, prev > 0)
                  newBalance = previousBalance - paid
  normal/mixed:   required = previousBalance + itemsTotal
                  newBalance = required - paid

  Overpayment is permitted: a negative newBalance is an advance credit
  toward future bills. Underpayment carries forward. No cap either way.

ATOMIC COMMIT:
  Commit writes the bill row and the balance update inside a single
  storage transaction. Either both land or neither does.

SEE ALSO:
  - processor.go: Validation and submission on top of this ledger
  - store.go: The TxStore boundary Commit relies on
*/
package billing

import (
	"context"
)

// Breakdown is the result of computing one transaction.
type Breakdown struct {
	ItemsTotal        Money
	TransactionAmount Money // items only; zero for balance-only bills
	RequiredAmount    Money
	NewBalance        Money
	BalanceOnly       bool
}

// BalanceLedger owns balance reads and the atomic bill+balance commit.
type BalanceLedger struct {
	store TxStore
}

// NewBalanceLedger creates a ledger over the given transactional store.
// A TxStore is required: commit atomicity is the principal correctness
// requirement of this subsystem.
func NewBalanceLedger(store TxStore) *BalanceLedger {
	return &BalanceLedger{store: store}
}

// PreviousBalance returns the customer's currently stored balance.
// Unknown customers and walk-in names fall back to zero: walk-ins never
// carry balance across visits.
func (l *BalanceLedger) PreviousBalance(ctx context.Context, businessID, name string) (Money, error) {
	if name == "" || IsWalkInName(name) {
		return ZeroMoney(), nil
	}
	c, err := l.store.GetCustomer(ctx, businessID, name)
	if err != nil {
		return ZeroMoney(), &PersistenceError{Op: "read balance", Err: err}
	}
	if c == nil {
		return ZeroMoney(), nil
	}
	return c.Balance, nil
}

// PreviousBalanceByPhone looks up the balance by phone number, returning
// the matched customer name for auto-fill (empty if no match).
func (l *BalanceLedger) PreviousBalanceByPhone(ctx context.Context, businessID, phone string) (Money, string, error) {
	c, err := l.store.GetCustomerByPhone(ctx, businessID, phone)
	if err != nil {
		return ZeroMoney(), "", &PersistenceError{Op: "read balance", Err: err}
	}
	if c == nil {
		return ZeroMoney(), "", nil
	}
	return c.Balance, c.Name, nil
}

// ComputeTransaction derives the amounts for a prospective bill.
// validItems must already be filtered through ValidItems.
func (l *BalanceLedger) ComputeTransaction(previousBalance Money, validItems []BillItem, paid Money, isWalkIn bool) Breakdown {
	itemsTotal := ItemsTotal(validItems)

	if isWalkIn {
		// Walk-ins never bring a balance in and never carry one out.
		return Breakdown{
			ItemsTotal:        itemsTotal,
			TransactionAmount: itemsTotal,
			RequiredAmount:    itemsTotal,
			NewBalance:        itemsTotal.Sub(paid),
		}
	}

	if len(validItems) == 0 && previousBalance.IsPositive() {
		// Balance-only: a payment against the existing balance.
		return Breakdown{
			ItemsTotal:        ZeroMoney(),
			TransactionAmount: ZeroMoney(),
			RequiredAmount:    previousBalance,
			NewBalance:        previousBalance.Sub(paid),
			BalanceOnly:       true,
		}
	}

	required := previousBalance.Add(itemsTotal)
	return Breakdown{
		ItemsTotal:        itemsTotal,
		TransactionAmount: itemsTotal,
		RequiredAmount:    required,
		NewBalance:        required.Sub(paid),
	}
}

// Commit persists the bill and the updated customer balance atomically.
// For walk-ins only the bill is written: their shortfall is not tracked.
//
// A bill identifier that was already committed is rejected with
// ErrDuplicateBill; the balance delta is never applied twice.
func (l *BalanceLedger) Commit(ctx context.Context, bill Bill, newBalance Money, isWalkIn bool) error {
	err := l.store.WithTx(ctx, func(s Store) error {
		if err := s.InsertBill(ctx, bill); err != nil {
			return err
		}
		if isWalkIn {
			return nil
		}
		return s.UpdateCustomerBalance(ctx, bill.BusinessID, bill.Customer, bill.CustomerPhone, newBalance)
	})
	if err == nil {
		return nil
	}
	if IsDuplicate(err) {
		return err
	}
	return &PersistenceError{Op: "commit bill", Err: err}
}
