package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopbill/billing-engine/billing"
)

func TestNewBillItem_ComputesAmountFromStrings(t *testing.T) {
	it := billing.NewBillItem(" Chicken Live ", " 2.5 ", "180")

	assert.Equal(t, "Chicken Live", it.Item)
	assert.True(t, it.Valid())
	assert.True(t, it.Amount.Equal(billing.MustParseMoney("450")))
}

func TestNewBillItem_UnparseableBecomesInvalid(t *testing.T) {
	// Garbage input zeroes the field, which fails Valid() instead of
	// erroring; the form keeps partially filled rows around.

	assert.False(t, billing.NewBillItem("Chicken Live", "abc", "180").Valid())
	assert.False(t, billing.NewBillItem("Chicken Live", "2.5", "").Valid())
	assert.False(t, billing.NewBillItem("", "2.5", "180").Valid())
	assert.False(t, billing.NewBillItem("Chicken Live", "-1", "180").Valid())
}

func TestValidItems_RecomputesAmounts(t *testing.T) {
	// A tampered amount is overwritten by weight*rate.

	it := billing.NewBillItem("Chicken Live", "2", "100")
	it.Amount = billing.MustParseMoney("999")

	out := billing.ValidItems([]billing.BillItem{it})
	assert.Len(t, out, 1)
	assert.True(t, out[0].Amount.Equal(billing.MustParseMoney("200")))
}

func TestItemsTotal_RoundsPerLine(t *testing.T) {
	// 1.335 * 10 = 13.35, 0.333 * 3 = 0.999 -> 1.00 per-line rounding
	items := billing.ValidItems([]billing.BillItem{
		billing.NewBillItem("A", "1.335", "10"),
		billing.NewBillItem("B", "0.333", "3"),
	})

	total := billing.ItemsTotal(items)
	assert.Equal(t, "14.35", total.String())
}

func TestMoney_StringAlwaysTwoDecimals(t *testing.T) {
	assert.Equal(t, "100.00", billing.MustParseMoney("100").String())
	assert.Equal(t, "100.50", billing.MustParseMoney("100.5").String())
	assert.Equal(t, "-0.01", billing.MustParseMoney("-0.01").String())
}

func TestWalkInName_RoundTrip(t *testing.T) {
	name := billing.WalkInName("9000011111")
	assert.Equal(t, "Walk-In Customer (9000011111)", name)
	assert.True(t, billing.IsWalkInName(name))
	assert.False(t, billing.IsWalkInName("Hotel Annapurna"))
}

func TestLoadEntry_BuyCost(t *testing.T) {
	e := billing.LoadEntry{
		BuyPricePerKg:    billing.MustParseMoney("145"),
		QuantityAfterBox: billing.MustParseMoney("2.5").Value,
	}
	assert.True(t, e.BuyCost().Equal(billing.MustParseMoney("362.5")))
}
