package billing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbill/billing-engine/billing"
)

var testInfo = billing.BusinessInfo{
	BusinessID: "biz",
	Name:       "FRESH CHICKEN CENTER",
	Address:    "Shop 12, Market Road",
	GSTNumber:  "29ABCDE1234F1Z5",
	Phone:      "9876543210",
}

func textBill(customer string, items []billing.BillItem, paid, balance billing.Money, payment billing.PaymentDetail) billing.Bill {
	return billing.Bill{
		ID:            "bill-1",
		BillNumber:    "123456",
		Customer:      customer,
		CustomerPhone: "9876501234",
		Date:          "2026-08-28",
		Items:         items,
		TotalAmount:   billing.ItemsTotal(items),
		PaidAmount:    paid,
		BalanceAmount: balance,
		Payment:       payment,
		BusinessID:    "biz",
		CreatedAt:     time.Date(2026, time.August, 28, 14, 30, 5, 0, time.UTC),
	}
}

// =============================================================================
// FIELD ORDER CONTRACT
// =============================================================================

func TestRenderBillText_NormalBill_ExactLayout(t *testing.T) {
	// The export is parsed by downstream collaborators; the layout is a
	// contract, so this asserts the full document.

	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "2.5", "180")})
	bill := textBill("Hotel Annapurna", items, money("300"), money("350"),
		billing.CashPayment{Amount: money("300")})

	got := billing.RenderBillText(testInfo, bill, money("200"))

	want := strings.Join([]string{
		"FRESH CHICKEN CENTER",
		"===============",
		"Shop 12, Market Road",
		"GST: 29ABCDE1234F1Z5",
		"Phone: 9876543210",
		"",
		"Invoice No: 123456",
		"Date: 2026-08-28",
		"Time: 2:30:05 PM",
		"Customer: Hotel Annapurna",
		"Phone: 9876501234",
		"Payment Mode: cash",
		"",
		"ITEMS:",
		"------",
		"1. Chicken Live - 2.5kg @ ₹180/kg = ₹450.00",
		"",
		"--------------------------------",
		"Previous Balance: ₹200.00",
		"Current Items: ₹450.00",
		"Total Bill Amount: ₹650.00",
		"Payment Amount: ₹300.00",
		"New Balance: ₹350.00",
		"Payment Method: Cash",
		"================================",
		"",
		"Thank you for your business!",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestRenderBillText_PaymentOnly_ZeroBillAmountQuirk(t *testing.T) {
	// Payment-only bills print "Total Bill Amount: ₹0.00" while the
	// balance math still runs on the previous balance.

	bill := textBill("Ravi Caterers", nil, money("40"), money("60"),
		billing.CashPayment{Amount: money("40")})

	got := billing.RenderBillText(testInfo, bill, money("100"))

	assert.Contains(t, got, "No items - Payment Only Transaction")
	assert.Contains(t, got, "Previous Balance: ₹100.00")
	assert.Contains(t, got, "Total Bill Amount: ₹0.00")
	assert.Contains(t, got, "Payment Amount: ₹40.00")
	assert.Contains(t, got, "New Balance: ₹60.00")
}

func TestRenderBillText_WalkIn_NoBalanceFolding(t *testing.T) {
	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "2", "185")})
	bill := textBill(billing.WalkInName("9000011111"), items, money("370"), billing.ZeroMoney(),
		billing.CashPayment{Amount: money("370")})

	got := billing.RenderBillText(testInfo, bill, billing.ZeroMoney())

	assert.Contains(t, got, "Total Bill Amount: ₹370.00")
	assert.Contains(t, got, "New Balance: ₹0.00")
}

func TestRenderBillText_MissingBusinessFields_Omitted(t *testing.T) {
	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "1", "100")})
	bill := textBill("Sagar Mess", items, billing.ZeroMoney(), money("100"), nil)

	got := billing.RenderBillText(billing.BusinessInfo{}, bill, billing.ZeroMoney())

	assert.True(t, strings.HasPrefix(got, "BILLING SYSTEM\n"), "empty name falls back")
	assert.NotContains(t, got, "GST:")
	assert.NotContains(t, got, "Email:")
}

// =============================================================================
// PAYMENT DETAIL LINES
// =============================================================================

func TestRenderBillText_PaymentDetailLines(t *testing.T) {
	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "1", "100")})

	tests := []struct {
		name    string
		payment billing.PaymentDetail
		want    string
	}{
		{"cash", billing.CashPayment{Amount: money("100")}, "Payment Method: Cash"},
		{"upi", billing.UPIPayment{Provider: "GPay", Amount: money("100")}, "Payment Method: UPI - GPay"},
		{"check", billing.CheckPayment{Bank: "SBI", Number: "004512", Amount: money("100")}, "Payment Method: Check/DD - SBI - 004512"},
		{"cash_gpay", billing.CashGPayPayment{Cash: money("60"), GPay: money("40")}, "Payment Method: Cash: ₹60.00 + GPay: ₹40.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := textBill("Sagar Mess", items, tt.payment.Paid(), billing.ZeroMoney(), tt.payment)
			got := billing.RenderBillText(testInfo, bill, billing.ZeroMoney())
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestRenderBillText_NoPayment_NoDetailLine(t *testing.T) {
	items := billing.ValidItems([]billing.BillItem{item("Chicken Live", "1", "100")})
	bill := textBill("Sagar Mess", items, billing.ZeroMoney(), money("100"), nil)

	got := billing.RenderBillText(testInfo, bill, billing.ZeroMoney())
	assert.NotContains(t, got, "Payment Method:")
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestRenderBillText_SummaryReproducesStoredBalance(t *testing.T) {
	// Re-deriving the new balance from the printed previous balance,
	// items and payment must equal the stored BalanceAmount.

	items := billing.ValidItems([]billing.BillItem{
		item("Chicken Live", "2.5", "180"),
		item("Chicken Dressed", "1.2", "240"),
	})
	prev := money("123.45")
	paid := money("500")
	stored := prev.Add(billing.ItemsTotal(items)).Sub(paid)

	bill := textBill("Hotel Annapurna", items, paid, stored,
		billing.CashPayment{Amount: paid})

	got := billing.RenderBillText(testInfo, bill, prev)

	derived := pick(t, got, "Previous Balance: ₹").
		Add(pick(t, got, "Current Items: ₹")).
		Sub(pick(t, got, "Payment Amount: ₹"))

	assert.True(t, derived.Equal(stored), "derived %s, stored %s", derived, stored)
	assert.True(t, pick(t, got, "New Balance: ₹").Equal(stored))
}

// pick extracts the money value printed after the given label.
func pick(t *testing.T, text, label string) billing.Money {
	t.Helper()
	i := strings.Index(text, label)
	require.GreaterOrEqual(t, i, 0, "label %q not found", label)
	rest := text[i+len(label):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		rest = rest[:j]
	}
	return billing.MustParseMoney(rest)
}
