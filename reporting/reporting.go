/*
Package reporting derives stock, profit, and sales figures from the ledger.

PURPOSE:
  Everything in this package is a pure read-model: it folds over bills
  and load entries and never writes anything back. The billing engine
  stays the single writer.

REPORTS:
  RemainingStock:
    remaining = sum(load quantities) - sum(weights sold)
    Clipped at zero by default: overselling (estimation error on the
    scale) must not surface as negative inventory.

  DailyProfit:
    profit = revenue(date) - buyCost(date)
    Revenue counts item amounts only; balance-only payments are debt
    collection, not sales. Clipped at zero by default.

  DailySales:
    Total revenue and collections for a date, split by payment method,
    by product, and by customer.

CLIPPING:
  Remaining stock and profit clip negatives to zero for display. Set
  KeepNegative to get the raw signed values for diagnostics; the
  computation is identical either way.

SEE ALSO:
  - billing/types.go: Bill, BillItem, LoadEntry
  - billing/store.go: The read interface this folds over
*/
package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shopbill/billing-engine/billing"
)

// Reporter computes read-only reports over a billing store.
type Reporter struct {
	store billing.Store

	// KeepNegative disables zero-clipping on stock and profit, exposing
	// the raw signed values. Off by default: the display contract is
	// "never show negative stock or profit".
	KeepNegative bool
}

func NewReporter(store billing.Store) *Reporter {
	return &Reporter{store: store}
}

// =============================================================================
// STOCK RECONCILIATION
// =============================================================================

// StockReport is the reconciliation of loaded vs sold quantity.
type StockReport struct {
	LoadedKg    decimal.Decimal
	SoldKg      decimal.Decimal
	RemainingKg decimal.Decimal
}

// RemainingStock reconciles total loaded quantity against total sold
// weight across all history for a business.
func (r *Reporter) RemainingStock(ctx context.Context, businessID string) (StockReport, error) {
	entries, err := r.store.ListLoadEntries(ctx, businessID)
	if err != nil {
		return StockReport{}, &billing.PersistenceError{Op: "read load entries", Err: err}
	}
	bills, err := r.store.ListBills(ctx, businessID)
	if err != nil {
		return StockReport{}, &billing.PersistenceError{Op: "read bills", Err: err}
	}
	return r.reconcileStock(entries, bills), nil
}

// RemainingStockOn reconciles loaded vs sold quantity for a single date.
func (r *Reporter) RemainingStockOn(ctx context.Context, businessID, date string) (StockReport, error) {
	entries, err := r.store.ListLoadEntriesByDate(ctx, businessID, date)
	if err != nil {
		return StockReport{}, &billing.PersistenceError{Op: "read load entries", Err: err}
	}
	bills, err := r.store.ListBillsByDate(ctx, businessID, date)
	if err != nil {
		return StockReport{}, &billing.PersistenceError{Op: "read bills", Err: err}
	}
	return r.reconcileStock(entries, bills), nil
}

func (r *Reporter) reconcileStock(entries []billing.LoadEntry, bills []billing.Bill) StockReport {
	loaded := decimal.Zero
	for _, e := range entries {
		loaded = loaded.Add(e.QuantityAfterBox)
	}

	sold := decimal.Zero
	for _, b := range bills {
		for _, it := range b.Items {
			sold = sold.Add(it.Weight)
		}
	}

	remaining := loaded.Sub(sold)
	if remaining.IsNegative() && !r.KeepNegative {
		remaining = decimal.Zero
	}

	return StockReport{LoadedKg: loaded, SoldKg: sold, RemainingKg: remaining}
}

// =============================================================================
// PROFIT
// =============================================================================

// ProfitReport is revenue vs purchase cost for one date.
type ProfitReport struct {
	Date    string
	Revenue billing.Money
	BuyCost billing.Money
	Profit  billing.Money
}

// DailyProfit computes profit for a date: item revenue minus the buy
// cost of that day's load entries. Collections against old balances are
// excluded from revenue.
func (r *Reporter) DailyProfit(ctx context.Context, businessID, date string) (ProfitReport, error) {
	bills, err := r.store.ListBillsByDate(ctx, businessID, date)
	if err != nil {
		return ProfitReport{}, &billing.PersistenceError{Op: "read bills", Err: err}
	}
	entries, err := r.store.ListLoadEntriesByDate(ctx, businessID, date)
	if err != nil {
		return ProfitReport{}, &billing.PersistenceError{Op: "read load entries", Err: err}
	}

	revenue := billing.ZeroMoney()
	for _, b := range bills {
		revenue = revenue.Add(billing.ItemsTotal(b.Items))
	}

	buyCost := billing.ZeroMoney()
	for _, e := range entries {
		buyCost = buyCost.Add(e.BuyCost())
	}

	profit := revenue.Sub(buyCost)
	if profit.IsNegative() && !r.KeepNegative {
		profit = billing.ZeroMoney()
	}

	return ProfitReport{Date: date, Revenue: revenue, BuyCost: buyCost, Profit: profit}, nil
}

// =============================================================================
// DAILY SALES
// =============================================================================

// ProductSales aggregates one product's movement for a date.
type ProductSales struct {
	Item     string
	WeightKg decimal.Decimal
	Revenue  billing.Money
}

// CustomerSales aggregates one customer's activity for a date.
type CustomerSales struct {
	Customer string
	Billed   billing.Money
	Paid     billing.Money
}

// SalesReport is the full sales picture for one date.
type SalesReport struct {
	Date      string
	BillCount int

	// Revenue is item sales; Collected is money actually received,
	// including payments against old balances.
	Revenue   billing.Money
	Collected billing.Money

	// Collections split by payment method.
	ByMethod map[billing.PaymentMethod]billing.Money

	ByProduct  []ProductSales
	ByCustomer []CustomerSales
}

// DailySales aggregates the bills of one date into totals, a payment
// method split, and per-product and per-customer breakdowns.
func (r *Reporter) DailySales(ctx context.Context, businessID, date string) (SalesReport, error) {
	bills, err := r.store.ListBillsByDate(ctx, businessID, date)
	if err != nil {
		return SalesReport{}, &billing.PersistenceError{Op: "read bills", Err: err}
	}

	report := SalesReport{
		Date:      date,
		BillCount: len(bills),
		Revenue:   billing.ZeroMoney(),
		Collected: billing.ZeroMoney(),
		ByMethod:  make(map[billing.PaymentMethod]billing.Money),
	}

	products := make(map[string]*ProductSales)
	var productOrder []string
	customers := make(map[string]*CustomerSales)
	var customerOrder []string

	for _, b := range bills {
		itemsTotal := billing.ItemsTotal(b.Items)
		report.Revenue = report.Revenue.Add(itemsTotal)
		report.Collected = report.Collected.Add(b.PaidAmount)

		if b.PaidAmount.IsPositive() {
			addMethodSplit(report.ByMethod, b)
		}

		for _, it := range b.Items {
			p, ok := products[it.Item]
			if !ok {
				p = &ProductSales{Item: it.Item, Revenue: billing.ZeroMoney()}
				products[it.Item] = p
				productOrder = append(productOrder, it.Item)
			}
			p.WeightKg = p.WeightKg.Add(it.Weight)
			p.Revenue = p.Revenue.Add(it.Amount)
		}

		c, ok := customers[b.Customer]
		if !ok {
			c = &CustomerSales{Customer: b.Customer, Billed: billing.ZeroMoney(), Paid: billing.ZeroMoney()}
			customers[b.Customer] = c
			customerOrder = append(customerOrder, b.Customer)
		}
		c.Billed = c.Billed.Add(itemsTotal)
		c.Paid = c.Paid.Add(b.PaidAmount)
	}

	for _, name := range productOrder {
		report.ByProduct = append(report.ByProduct, *products[name])
	}
	for _, name := range customerOrder {
		report.ByCustomer = append(report.ByCustomer, *customers[name])
	}

	return report, nil
}

// addMethodSplit attributes a bill's collection to payment methods.
// Split cash+gpay payments are divided between the two buckets.
func addMethodSplit(byMethod map[billing.PaymentMethod]billing.Money, b billing.Bill) {
	add := func(m billing.PaymentMethod, amount billing.Money) {
		cur, ok := byMethod[m]
		if !ok {
			cur = billing.ZeroMoney()
		}
		byMethod[m] = cur.Add(amount)
	}

	if split, ok := b.Payment.(billing.CashGPayPayment); ok {
		if split.Cash.IsPositive() {
			add(billing.PayCash, split.Cash)
		}
		if split.GPay.IsPositive() {
			add(billing.PayCashGPay, split.GPay)
		}
		return
	}
	add(b.PaymentMethod(), b.PaidAmount)
}
