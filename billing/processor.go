/*
processor.go - Bill transaction processor

PURPOSE:
  The gatekeeper that turns raw billing-form input into a committed
  bill. It validates fail-fast, delegates amount computation to
  BalanceLedger, commits atomically, and hands back a refreshed
  customer read-model so cached views resynchronize.

VALIDATION ORDER (fail-fast):
  1. A customer must be selected, or walk-in mode must be active with a
     phone number of at least 10 digits.
  2. At least one valid item must exist, unless the customer has a
     positive previous balance and a payment is supplied (balance-only).
  3. A supplied payment must pass its variant's Validate() rules.

CONCURRENCY:
  Balance mutations for a single customer are serialized with a keyed
  mutex: two concurrent submissions for the same customer can never read
  the same previous balance and overwrite each other's update.
  Submissions for different customers proceed independently.

BILL NUMBERS:
  Random 6-digit numeric strings, unique per business. Generation
  retries on collision against the store's uniqueness constraint.

WALK-INS:
  The display name embeds the phone number, and BalanceAmount is forced
  to zero regardless of any shortfall. Underpayment by a walk-in is not
  tracked anywhere. This mirrors the shop's documented behavior.

SEE ALSO:
  - ledger.go: Amount computation and the atomic commit
  - errors.go: The error taxonomy surfaced by Submit
*/
package billing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// balanceTolerance is the drift allowed between a cached balance and the
// ledger's authoritative one before a ConsistencyWarning is raised.
var balanceTolerance = MustParseMoney("0.01")

const billNumberAttempts = 5

var digitsOnly = regexp.MustCompile(`\D`)

// BillInput is the raw form input for a prospective bill.
type BillInput struct {
	BusinessID    string
	CustomerName  string
	CustomerPhone string
	WalkIn        bool
	Date          string // DateLayout; empty means today
	Items         []BillItem
	Payment       PaymentDetail // nil means no payment with this bill
}

// CommitResult is what a successful submission hands back to the caller.
type CommitResult struct {
	Bill      Bill
	Breakdown Breakdown

	// Customer is the refreshed read-model re-read from the store after
	// commit, so cached customer lists can resynchronize. Nil for
	// walk-ins, which are never persisted.
	Customer *Customer
}

// Processor validates, computes, and commits bills.
type Processor struct {
	store  TxStore
	ledger *BalanceLedger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now        func() time.Time
	billNumber func() string
}

func NewProcessor(store TxStore) *Processor {
	return &Processor{
		store:  store,
		ledger: NewBalanceLedger(store),
		locks:  make(map[string]*sync.Mutex),
		now:    time.Now,
		billNumber: func() string {
			return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		},
	}
}

// Ledger exposes the underlying balance ledger for read paths.
func (p *Processor) Ledger() *BalanceLedger { return p.ledger }

// Submit validates the input, computes the transaction, and commits the
// bill atomically. On success the customer read-model is re-read from the
// store. On any error neither the bill nor the balance has changed.
func (p *Processor) Submit(ctx context.Context, in BillInput) (*CommitResult, error) {
	if err := p.validateCustomer(in); err != nil {
		return nil, err
	}

	customer := in.CustomerName
	if in.WalkIn {
		customer = WalkInName(in.CustomerPhone)
	}

	// Serialize per customer so concurrent submissions cannot both read
	// the same previous balance (lost-update race).
	if !in.WalkIn {
		unlock := p.lockCustomer(in.BusinessID, customer)
		defer unlock()
	}

	previous := ZeroMoney()
	if !in.WalkIn {
		var err error
		previous, err = p.ledger.PreviousBalance(ctx, in.BusinessID, customer)
		if err != nil {
			return nil, err
		}
	}

	validItems := ValidItems(in.Items)
	if err := validateItems(in, validItems, previous); err != nil {
		return nil, err
	}

	paid := ZeroMoney()
	payment := in.Payment
	if payment != nil {
		if err := payment.Validate(); err != nil {
			return nil, err
		}
		paid = payment.Paid()
	} else {
		payment = CashPayment{Amount: ZeroMoney()}
	}

	breakdown := p.ledger.ComputeTransaction(previous, validItems, paid, in.WalkIn)

	date := in.Date
	if date == "" {
		date = p.now().Format(DateLayout)
	}

	balanceAmount := breakdown.NewBalance
	if in.WalkIn {
		// Walk-in shortfall is intentionally not tracked.
		balanceAmount = ZeroMoney()
	}

	bill := Bill{
		ID:            uuid.NewString(),
		Customer:      customer,
		CustomerPhone: in.CustomerPhone,
		Date:          date,
		Items:         validItems,
		TotalAmount:   breakdown.TransactionAmount,
		PaidAmount:    paid,
		BalanceAmount: balanceAmount,
		Payment:       payment,
		BusinessID:    in.BusinessID,
		CreatedAt:     p.now(),
	}

	if err := p.commitWithFreshNumber(ctx, &bill, breakdown.NewBalance, in.WalkIn); err != nil {
		return nil, err
	}

	result := &CommitResult{Bill: bill, Breakdown: breakdown}
	if !in.WalkIn {
		// Resynchronize the customer read-model from the source of truth.
		refreshed, err := p.store.GetCustomer(ctx, in.BusinessID, customer)
		if err == nil {
			result.Customer = refreshed
		}
	}
	return result, nil
}

// commitWithFreshNumber assigns a bill number and commits, retrying
// generation when the number collides with an existing bill.
func (p *Processor) commitWithFreshNumber(ctx context.Context, bill *Bill, newBalance Money, walkIn bool) error {
	var err error
	for attempt := 0; attempt < billNumberAttempts; attempt++ {
		bill.BillNumber = p.billNumber()
		err = p.ledger.Commit(ctx, *bill, newBalance, walkIn)
		if err == nil || !errors.Is(err, ErrDuplicateBillNumber) {
			return err
		}
	}
	return &PersistenceError{Op: "assign bill number", Err: err}
}

// FindBill looks up a committed bill by its number.
func (p *Processor) FindBill(ctx context.Context, businessID, billNumber string) (*Bill, error) {
	bill, err := p.store.GetBillByNumber(ctx, businessID, billNumber)
	if err != nil {
		return nil, &PersistenceError{Op: "read bill", Err: err}
	}
	if bill == nil {
		return nil, &NotFoundError{BillNumber: billNumber}
	}
	return bill, nil
}

// CheckBalance compares a cached balance against the ledger's
// authoritative value. Drift beyond the one-cent tolerance yields a
// non-fatal ConsistencyWarning; the returned balance is always the
// authoritative one, so callers resynchronize instead of aborting.
func (p *Processor) CheckBalance(ctx context.Context, businessID, name string, cached Money) (Money, *ConsistencyWarning, error) {
	authoritative, err := p.ledger.PreviousBalance(ctx, businessID, name)
	if err != nil {
		return ZeroMoney(), nil, err
	}
	if cached.Sub(authoritative).Abs().GreaterThan(balanceTolerance) {
		return authoritative, &ConsistencyWarning{
			Customer:      name,
			Cached:        cached,
			Authoritative: authoritative,
		}, nil
	}
	return authoritative, nil, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

func (p *Processor) validateCustomer(in BillInput) error {
	if in.WalkIn {
		if phoneDigits(in.CustomerPhone) < 10 {
			return &ValidationError{Field: "phone", Reason: "walk-in customers need a phone number of at least 10 digits"}
		}
		return nil
	}
	if in.CustomerName == "" {
		return &ValidationError{Field: "customer", Reason: "select a customer or enable walk-in mode"}
	}
	return nil
}

func validateItems(in BillInput, validItems []BillItem, previous Money) error {
	if len(validItems) > 0 {
		return nil
	}
	if in.WalkIn {
		return &ValidationError{Field: "items", Reason: "add at least one item for a walk-in customer"}
	}
	if previous.IsPositive() && in.Payment != nil {
		// Balance-only path: payment against an existing balance.
		return nil
	}
	return &ValidationError{Field: "items", Reason: "add at least one item or enter a payment against the outstanding balance"}
}

func phoneDigits(phone string) int {
	return len(digitsOnly.ReplaceAllString(phone, ""))
}

// lockCustomer acquires the per-customer mutex and returns its release.
func (p *Processor) lockCustomer(businessID, customer string) func() {
	key := businessID + "\x00" + customer
	p.mu.Lock()
	lock, ok := p.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[key] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
