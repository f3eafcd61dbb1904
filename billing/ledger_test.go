package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbill/billing-engine/billing"
	memstore "github.com/shopbill/billing-engine/billing/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) (*billing.BalanceLedger, *memstore.Memory) {
	t.Helper()
	store := memstore.NewMemory()
	return billing.NewBalanceLedger(store), store
}

func item(name, weight, rate string) billing.BillItem {
	return billing.NewBillItem(name, weight, rate)
}

func money(s string) billing.Money {
	return billing.MustParseMoney(s)
}

// =============================================================================
// TRANSACTION ARITHMETIC
// =============================================================================

func TestComputeTransaction_NormalBill_FoldsPreviousBalance(t *testing.T) {
	// GIVEN: A customer owing 200 buys items worth 450
	// WHEN: They pay 300
	// THEN: required = 650, new balance = 350

	ledger, _ := newTestLedger(t)

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "2.5", "180")})
	bd := ledger.ComputeTransaction(money("200"), items, money("300"), false)

	assert.True(t, bd.ItemsTotal.Equal(money("450")), "items total should be 450, got %s", bd.ItemsTotal)
	assert.True(t, bd.TransactionAmount.Equal(money("450")))
	assert.True(t, bd.RequiredAmount.Equal(money("650")))
	assert.True(t, bd.NewBalance.Equal(money("350")))
	assert.False(t, bd.BalanceOnly)
}

func TestComputeTransaction_BalanceOnly_PaymentAgainstDebt(t *testing.T) {
	// GIVEN: A customer owing 100 and no items on the bill
	// WHEN: They pay 40
	// THEN: Balance-only transaction, new balance = 60, no sale recorded

	ledger, _ := newTestLedger(t)

	bd := ledger.ComputeTransaction(money("100"), nil, money("40"), false)

	assert.True(t, bd.BalanceOnly)
	assert.True(t, bd.TransactionAmount.IsZero(), "balance-only bills record no sale amount")
	assert.True(t, bd.RequiredAmount.Equal(money("100")))
	assert.True(t, bd.NewBalance.Equal(money("60")))
}

func TestComputeTransaction_Overpayment_BecomesAdvanceCredit(t *testing.T) {
	// GIVEN: A bill of 450 with no previous balance
	// WHEN: The customer pays 500
	// THEN: New balance is -50, carried as advance credit

	ledger, _ := newTestLedger(t)

	items := billing.ValidItems([]billing.BillItem{item("Chicken Dressed", "2.5", "180")})
	bd := ledger.ComputeTransaction(billing.ZeroMoney(), items, money("500"), false)

	assert.True(t, bd.NewBalance.Equal(money("-50")), "overpayment should go negative, got %s", bd.NewBalance)
	assert.True(t, bd.NewBalance.IsNegative())
}

func TestComputeTransaction_WalkIn_IgnoresPreviousBalance(t *testing.T) {
	// GIVEN: A walk-in purchase (walk-ins never carry balance)
	// WHEN: Computing with a nonzero "previous" balance
	// THEN: Only the items count

	ledger, _ := newTestLedger(t)

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "2", "185")})
	bd := ledger.ComputeTransaction(money("999"), items, money("370"), true)

	assert.True(t, bd.RequiredAmount.Equal(money("370")))
	assert.True(t, bd.NewBalance.IsZero())
}

func TestComputeTransaction_NoItems_ZeroBalance_NotBalanceOnly(t *testing.T) {
	// GIVEN: No items and no outstanding balance
	// THEN: The balance-only path must not trigger; everything is zero

	ledger, _ := newTestLedger(t)

	bd := ledger.ComputeTransaction(billing.ZeroMoney(), nil, billing.ZeroMoney(), false)

	assert.False(t, bd.BalanceOnly)
	assert.True(t, bd.RequiredAmount.IsZero())
	assert.True(t, bd.NewBalance.IsZero())
}

func TestComputeTransaction_AdvanceCredit_ReducesNextBill(t *testing.T) {
	// GIVEN: A customer holding 50 advance credit (balance -50)
	// WHEN: They buy 100 worth and pay nothing
	// THEN: New balance is 50, the credit was consumed

	ledger, _ := newTestLedger(t)

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "1", "100")})
	bd := ledger.ComputeTransaction(money("-50"), items, billing.ZeroMoney(), false)

	assert.True(t, bd.RequiredAmount.Equal(money("50")))
	assert.True(t, bd.NewBalance.Equal(money("50")))
}

// =============================================================================
// BALANCE READS
// =============================================================================

func TestPreviousBalance_UnknownCustomer_Zero(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	balance, err := ledger.PreviousBalance(ctx, "biz", "Nobody")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestPreviousBalance_WalkInName_AlwaysZero(t *testing.T) {
	// Walk-in names never resolve to a stored balance, even if a row
	// with that name somehow exists.

	ledger, store := newTestLedger(t)
	ctx := context.Background()

	name := billing.WalkInName("9000011111")
	require.NoError(t, store.UpdateCustomerBalance(ctx, "biz", name, "9000011111", money("500")))

	balance, err := ledger.PreviousBalance(ctx, "biz", name)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestPreviousBalanceByPhone_ReturnsMatchedName(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, store.UpdateCustomerBalance(ctx, "biz", "Hotel Annapurna", "9876501234", money("1200")))

	balance, name, err := ledger.PreviousBalanceByPhone(ctx, "biz", "9876501234")
	require.NoError(t, err)
	assert.Equal(t, "Hotel Annapurna", name)
	assert.True(t, balance.Equal(money("1200")))
}

// =============================================================================
// ATOMIC COMMIT
// =============================================================================

func testBill(id, number, customer string, items []billing.BillItem, paid, balance billing.Money) billing.Bill {
	return billing.Bill{
		ID:            id,
		BillNumber:    number,
		Customer:      customer,
		Date:          "2026-08-28",
		Items:         items,
		TotalAmount:   billing.ItemsTotal(items),
		PaidAmount:    paid,
		BalanceAmount: balance,
		Payment:       billing.CashPayment{Amount: paid},
		BusinessID:    "biz",
	}
}

func TestCommit_WritesBillAndBalanceTogether(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "2.5", "180")})
	bill := testBill("bill-1", "123456", "Hotel Annapurna", items, money("300"), money("150"))

	require.NoError(t, ledger.Commit(ctx, bill, money("150"), false))

	stored, err := store.GetBillByNumber(ctx, "biz", "123456")
	require.NoError(t, err)
	require.NotNil(t, stored)

	customer, err := store.GetCustomer(ctx, "biz", "Hotel Annapurna")
	require.NoError(t, err)
	require.NotNil(t, customer, "commit should create the customer row")
	assert.True(t, customer.Balance.Equal(money("150")))
}

func TestCommit_DuplicateBillID_RejectedOnce(t *testing.T) {
	// GIVEN: A committed bill
	// WHEN: The same bill identifier is committed again
	// THEN: ErrDuplicateBill, and the balance delta is not applied twice

	ledger, store := newTestLedger(t)
	ctx := context.Background()

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "1", "100")})
	bill := testBill("bill-1", "123456", "Sagar Mess", items, billing.ZeroMoney(), money("100"))

	require.NoError(t, ledger.Commit(ctx, bill, money("100"), false))

	// Resubmission with a fresh number but the same ID
	bill.BillNumber = "654321"
	err := ledger.Commit(ctx, bill, money("200"), false)
	assert.ErrorIs(t, err, billing.ErrDuplicateBill)

	customer, err := store.GetCustomer(ctx, "biz", "Sagar Mess")
	require.NoError(t, err)
	assert.True(t, customer.Balance.Equal(money("100")), "balance must not be applied twice")
}

func TestCommit_DuplicateNumber_RolledBack(t *testing.T) {
	// A colliding bill number aborts the whole commit: no bill row, no
	// balance change.

	ledger, store := newTestLedger(t)
	ctx := context.Background()

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "1", "100")})
	first := testBill("bill-1", "123456", "Sagar Mess", items, billing.ZeroMoney(), money("100"))
	require.NoError(t, ledger.Commit(ctx, first, money("100"), false))

	second := testBill("bill-2", "123456", "Ravi Caterers", items, billing.ZeroMoney(), money("100"))
	err := ledger.Commit(ctx, second, money("100"), false)
	assert.ErrorIs(t, err, billing.ErrDuplicateBillNumber)

	customer, err := store.GetCustomer(ctx, "biz", "Ravi Caterers")
	require.NoError(t, err)
	assert.Nil(t, customer, "failed commit must not create the customer")
}

func TestCommit_WalkIn_NoBalanceWrite(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "2", "185")})
	name := billing.WalkInName("9000011111")
	bill := testBill("bill-1", "123456", name, items, money("370"), billing.ZeroMoney())

	require.NoError(t, ledger.Commit(ctx, bill, billing.ZeroMoney(), true))

	customers, err := store.ListCustomers(ctx, "biz")
	require.NoError(t, err)
	assert.Empty(t, customers, "walk-ins are never persisted as customers")
}
