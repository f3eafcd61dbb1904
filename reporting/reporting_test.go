package reporting_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbill/billing-engine/billing"
	memstore "github.com/shopbill/billing-engine/billing/store"
	"github.com/shopbill/billing-engine/reporting"
)

const (
	biz   = "biz"
	today = "2026-08-28"
)

func money(s string) billing.Money { return billing.MustParseMoney(s) }

func seedLoad(t *testing.T, store *memstore.Memory, date, qty, price string) {
	t.Helper()
	q, err := decimal.NewFromString(qty)
	require.NoError(t, err)
	_, err = store.InsertLoadEntry(context.Background(), billing.LoadEntry{
		EntryDate:        date,
		SupplierName:     "City Poultry Farm",
		BuyPricePerKg:    money(price),
		QuantityAfterBox: q,
		BusinessID:       biz,
	})
	require.NoError(t, err)
}

func seedBill(t *testing.T, store *memstore.Memory, id, customer string, items []billing.BillItem, paid billing.Money, payment billing.PaymentDetail) {
	t.Helper()
	err := store.InsertBill(context.Background(), billing.Bill{
		ID:          id,
		BillNumber:  id,
		Customer:    customer,
		Date:        today,
		Items:       billing.ValidItems(items),
		TotalAmount: billing.ItemsTotal(billing.ValidItems(items)),
		PaidAmount:  paid,
		Payment:     payment,
		BusinessID:  biz,
	})
	require.NoError(t, err)
}

func soldItem(name, weight, rate string) billing.BillItem {
	return billing.NewBillItem(name, weight, rate)
}

// =============================================================================
// STOCK RECONCILIATION
// =============================================================================

func TestRemainingStock_LoadedMinusSold(t *testing.T) {
	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	seedLoad(t, store, today, "250", "145")
	seedBill(t, store, "100001", "Hotel Annapurna",
		[]billing.BillItem{soldItem("Chicken Live", "25", "180")}, money("4500"), nil)
	seedBill(t, store, "100002", "Sagar Mess",
		[]billing.BillItem{soldItem("Chicken Live", "12.5", "180")}, money("2250"), nil)

	report, err := r.RemainingStock(context.Background(), biz)
	require.NoError(t, err)

	assert.Equal(t, "250", report.LoadedKg.String())
	assert.Equal(t, "37.5", report.SoldKg.String())
	assert.Equal(t, "212.5", report.RemainingKg.String())
}

func TestRemainingStock_OversellingClipsToZero(t *testing.T) {
	// GIVEN: 1000kg loaded but 1200kg sold (scale estimation error)
	// THEN: Remaining reports 0, never negative

	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	seedLoad(t, store, today, "1000", "145")
	seedBill(t, store, "100001", "Hotel Annapurna",
		[]billing.BillItem{soldItem("Chicken Live", "1200", "180")}, billing.ZeroMoney(), nil)

	report, err := r.RemainingStock(context.Background(), biz)
	require.NoError(t, err)
	assert.True(t, report.RemainingKg.IsZero())
}

func TestRemainingStock_KeepNegative_ExposesRawValue(t *testing.T) {
	store := memstore.NewMemory()
	r := reporting.NewReporter(store)
	r.KeepNegative = true

	seedLoad(t, store, today, "1000", "145")
	seedBill(t, store, "100001", "Hotel Annapurna",
		[]billing.BillItem{soldItem("Chicken Live", "1200", "180")}, billing.ZeroMoney(), nil)

	report, err := r.RemainingStock(context.Background(), biz)
	require.NoError(t, err)
	assert.Equal(t, "-200", report.RemainingKg.String())
}

func TestRemainingStockOn_FiltersByDate(t *testing.T) {
	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	seedLoad(t, store, today, "100", "145")
	seedLoad(t, store, "2026-08-27", "500", "140")

	report, err := r.RemainingStockOn(context.Background(), biz, today)
	require.NoError(t, err)
	assert.Equal(t, "100", report.LoadedKg.String())
}

// =============================================================================
// PROFIT
// =============================================================================

func TestDailyProfit_RevenueMinusBuyCost(t *testing.T) {
	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	// Cost: 10kg * 145 = 1450. Revenue: 10kg * 180 = 1800.
	seedLoad(t, store, today, "10", "145")
	seedBill(t, store, "100001", "Hotel Annapurna",
		[]billing.BillItem{soldItem("Chicken Live", "10", "180")}, money("1800"), nil)

	report, err := r.DailyProfit(context.Background(), biz, today)
	require.NoError(t, err)

	assert.True(t, report.Revenue.Equal(money("1800")))
	assert.True(t, report.BuyCost.Equal(money("1450")))
	assert.True(t, report.Profit.Equal(money("350")))
}

func TestDailyProfit_LossClipsToZero(t *testing.T) {
	// Revenue 400, cost 500: the display contract is profit >= 0.

	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	seedLoad(t, store, today, "100", "5")
	seedBill(t, store, "100001", "Hotel Annapurna",
		[]billing.BillItem{soldItem("Chicken Live", "4", "100")}, money("400"), nil)

	report, err := r.DailyProfit(context.Background(), biz, today)
	require.NoError(t, err)
	assert.True(t, report.Profit.IsZero())

	r.KeepNegative = true
	report, err = r.DailyProfit(context.Background(), biz, today)
	require.NoError(t, err)
	assert.True(t, report.Profit.Equal(money("-100")))
}

func TestDailyProfit_BalanceCollectionIsNotRevenue(t *testing.T) {
	// A payment-only bill collects old debt; it must not count as the
	// day's sales revenue.

	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	seedBill(t, store, "100001", "Ravi Caterers", nil, money("500"),
		billing.CashPayment{Amount: money("500")})

	report, err := r.DailyProfit(context.Background(), biz, today)
	require.NoError(t, err)
	assert.True(t, report.Revenue.IsZero())
}

// =============================================================================
// DAILY SALES
// =============================================================================

func TestDailySales_SplitsByMethodProductCustomer(t *testing.T) {
	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	seedBill(t, store, "100001", "Hotel Annapurna",
		[]billing.BillItem{soldItem("Chicken Live", "10", "180")},
		money("1800"), billing.CashPayment{Amount: money("1800")})
	seedBill(t, store, "100002", "Sagar Mess",
		[]billing.BillItem{soldItem("Chicken Dressed", "5", "240")},
		money("1200"), billing.UPIPayment{Provider: "GPay", Amount: money("1200")})
	seedBill(t, store, "100003", "Hotel Annapurna",
		[]billing.BillItem{soldItem("Chicken Live", "2", "180")},
		money("100"), billing.CashGPayPayment{Cash: money("60"), GPay: money("40")})

	report, err := r.DailySales(context.Background(), biz, today)
	require.NoError(t, err)

	assert.Equal(t, 3, report.BillCount)
	assert.True(t, report.Revenue.Equal(money("3360")))
	assert.True(t, report.Collected.Equal(money("3100")))

	// Split payments divide into their parts.
	assert.True(t, report.ByMethod[billing.PayCash].Equal(money("1860")))
	assert.True(t, report.ByMethod[billing.PayUPI].Equal(money("1200")))
	assert.True(t, report.ByMethod[billing.PayCashGPay].Equal(money("40")))

	require.Len(t, report.ByProduct, 2)
	assert.Equal(t, "Chicken Live", report.ByProduct[0].Item)
	assert.Equal(t, "12", report.ByProduct[0].WeightKg.String())
	assert.True(t, report.ByProduct[0].Revenue.Equal(money("2160")))

	require.Len(t, report.ByCustomer, 2)
	assert.Equal(t, "Hotel Annapurna", report.ByCustomer[0].Customer)
	assert.True(t, report.ByCustomer[0].Billed.Equal(money("2160")))
	assert.True(t, report.ByCustomer[0].Paid.Equal(money("1900")))
}

func TestDailySales_UnpaidBillNotInMethodSplit(t *testing.T) {
	store := memstore.NewMemory()
	r := reporting.NewReporter(store)

	seedBill(t, store, "100001", "Ravi Caterers",
		[]billing.BillItem{soldItem("Chicken Dressed", "8", "240")},
		billing.ZeroMoney(), nil)

	report, err := r.DailySales(context.Background(), biz, today)
	require.NoError(t, err)

	assert.True(t, report.Revenue.Equal(money("1920")))
	assert.True(t, report.Collected.IsZero())
	assert.Empty(t, report.ByMethod)
}
