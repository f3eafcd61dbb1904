/*
Package billing provides the balance ledger and bill-transaction engine.

PURPOSE:
  This package contains the core types and algorithms for a retail
  billing ledger: customers carry an outstanding balance across visits,
  each new bill combines newly purchased items with the carried-over
  balance, accepts a payment, and produces an updated balance.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A currency amount backed by decimal.Decimal
  - Customer: The owner of a running balance (single source of truth)
  - BillItem: A weighed line item (amount = weight * rate)
  - Bill: An immutable record of one transaction
  - LoadEntry: A stock purchase event, independent of sales

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Incremental balance: Customer.Balance is maintained by the ledger,
     never recomputed by summing bill history
  3. Immutability: Bills are created once and never edited here

USAGE:
  items := []billing.BillItem{billing.NewBillItem("Chicken Live", "2.5", "180")}
  ledger := billing.NewBalanceLedger(store)
  breakdown := ledger.ComputeTransaction(prev, items, paid, false)

SEE ALSO:
  - ledger.go: Balance computation and atomic commit
  - processor.go: Validation and bill submission
  - payment.go: Payment method variants
*/
package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount with decimal precision
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

// MustParseMoney parses a decimal string, returning zero on failure.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(o Money) Money        { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money        { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Neg() Money               { return Money{Value: m.Value.Neg()} }
func (m Money) Abs() Money               { return Money{Value: m.Value.Abs()} }
func (m Money) IsZero() bool             { return m.Value.IsZero() }
func (m Money) IsNegative() bool         { return m.Value.IsNegative() }
func (m Money) IsPositive() bool         { return m.Value.IsPositive() }
func (m Money) GreaterThan(o Money) bool { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool    { return m.Value.LessThan(o.Value) }
func (m Money) Equal(o Money) bool       { return m.Value.Equal(o.Value) }

// Round2 rounds to two decimal places (currency precision).
func (m Money) Round2() Money { return Money{Value: m.Value.Round(2)} }

// String renders the amount with exactly two decimals, e.g. "123.40".
func (m Money) String() string { return m.Value.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error)  { return m.Value.MarshalJSON() }
func (m *Money) UnmarshalJSON(b []byte) error { return m.Value.UnmarshalJSON(b) }

// =============================================================================
// CUSTOMER - Owner of a running balance
// =============================================================================

// Customer.Balance is the single source of truth for the outstanding
// amount owed. It is maintained incrementally by BalanceLedger and always
// equals the BalanceAmount of the customer's most recent bill (or zero if
// none). Walk-in customers are never persisted and never carry balance.
type Customer struct {
	ID         string
	Name       string
	Phone      string
	Balance    Money
	BusinessID string
}

// walkInPrefix marks synthesized walk-in display names.
const walkInPrefix = "Walk-In Customer"

// WalkInName builds the display name for an ephemeral walk-in customer.
func WalkInName(phone string) string {
	return walkInPrefix + " (" + phone + ")"
}

// IsWalkInName reports whether a customer display name denotes a walk-in.
func IsWalkInName(name string) bool {
	return strings.HasPrefix(name, walkInPrefix)
}

// =============================================================================
// BILL ITEM - Weighed line item
// =============================================================================

// BillItem is one weighed line on a bill. Amount is always the product of
// Weight and Rate rounded to currency precision. Items missing a name or
// with non-positive weight/rate are excluded from totals ("valid items").
type BillItem struct {
	Item   string
	Weight decimal.Decimal
	Rate   decimal.Decimal
	Amount Money
}

// NewBillItem builds an item from raw weight/rate strings as entered on a
// billing form. Unparseable values become zero, which makes the item
// invalid rather than an error.
func NewBillItem(name, weight, rate string) BillItem {
	w, err := decimal.NewFromString(strings.TrimSpace(weight))
	if err != nil {
		w = decimal.Zero
	}
	r, err := decimal.NewFromString(strings.TrimSpace(rate))
	if err != nil {
		r = decimal.Zero
	}
	it := BillItem{Item: strings.TrimSpace(name), Weight: w, Rate: r}
	it.Amount = it.computeAmount()
	return it
}

func (it BillItem) computeAmount() Money {
	return Money{Value: it.Weight.Mul(it.Rate)}.Round2()
}

// Valid reports whether the item participates in totals.
func (it BillItem) Valid() bool {
	return it.Item != "" && it.Weight.IsPositive() && it.Rate.IsPositive()
}

// ValidItems filters a raw item list down to countable items, recomputing
// each amount so the weight*rate invariant holds regardless of input.
func ValidItems(items []BillItem) []BillItem {
	var out []BillItem
	for _, it := range items {
		if !it.Valid() {
			continue
		}
		it.Amount = it.computeAmount()
		out = append(out, it)
	}
	return out
}

// ItemsTotal sums the amounts of the given items.
func ItemsTotal(items []BillItem) Money {
	total := ZeroMoney()
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// =============================================================================
// BILL - Immutable record of one transaction
// =============================================================================

// DateLayout is the civil-date format used on bills and load entries.
const DateLayout = "2006-01-02"

type Bill struct {
	ID            string
	BillNumber    string // 6-digit numeric string, unique per business
	Customer      string
	CustomerPhone string
	Date          string // DateLayout
	Items         []BillItem
	TotalAmount   Money // items only; zero for balance-only bills
	PaidAmount    Money
	BalanceAmount Money // RequiredAmount - PaidAmount; forced to zero for walk-ins
	Payment       PaymentDetail
	BusinessID    string
	CreatedAt     time.Time
}

// PaymentMethod returns the method of the bill's payment detail,
// defaulting to cash when no payment was recorded.
func (b Bill) PaymentMethod() PaymentMethod {
	if b.Payment == nil {
		return PayCash
	}
	return b.Payment.Method()
}

// =============================================================================
// LOAD ENTRY - Stock purchase event
// =============================================================================

type LoadEntry struct {
	ID               int64
	EntryDate        string // DateLayout
	SupplierName     string
	BuyPricePerKg    Money
	QuantityAfterBox decimal.Decimal // kg
	BusinessID       string
}

// BuyCost is the total purchase cost of the entry.
func (e LoadEntry) BuyCost() Money {
	return Money{Value: e.BuyPricePerKg.Value.Mul(e.QuantityAfterBox)}
}

// =============================================================================
// BUSINESS INFO - Tenant metadata for bill headers
// =============================================================================

type BusinessInfo struct {
	BusinessID string
	Name       string
	Address    string
	GSTNumber  string
	Phone      string
	Email      string
}
