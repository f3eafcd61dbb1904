/*
seed.go - Demo data loader

PURPOSE:
  Populates a fresh database with a realistic day of shop activity so
  the API can be exercised immediately: business info, a stock load,
  a few regular customers with history, and a walk-in sale.

  All bills go through the Processor, never straight into the store, so
  the seeded balances obey the same invariants as real traffic.

USAGE:
  POST /api/seed

SEE ALSO:
  - handlers.go: The endpoints the seeded data shows up in
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopbill/billing-engine/billing"
)

// SeedDemoData loads a demo dataset through the normal submission path.
// POST /api/seed
func (h *Handler) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bizID := businessID(r)
	today := time.Now().Format(billing.DateLayout)

	err := h.Store.SaveBusinessInfo(ctx, billing.BusinessInfo{
		BusinessID: bizID,
		Name:       "FRESH CHICKEN CENTER",
		Address:    "Shop 12, Market Road",
		GSTNumber:  "29ABCDE1234F1Z5",
		Phone:      "9876543210",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed business info", err)
		return
	}

	// Morning stock load.
	_, err = h.Store.InsertLoadEntry(ctx, billing.LoadEntry{
		EntryDate:        today,
		SupplierName:     "City Poultry Farm",
		BuyPricePerKg:    billing.MustParseMoney("145"),
		QuantityAfterBox: decimal.NewFromInt(250),
		BusinessID:       bizID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed load entry", err)
		return
	}

	submissions := []billing.BillInput{
		// Regular customer, part payment: balance carries forward.
		{
			BusinessID:   bizID,
			CustomerName: "Hotel Annapurna",
			Items: []billing.BillItem{
				billing.NewBillItem("Chicken Live", "25", "180"),
				billing.NewBillItem("Chicken Dressed", "10", "240"),
			},
			Payment: billing.CashPayment{Amount: billing.MustParseMoney("5000")},
		},
		// Regular customer, full payment by UPI.
		{
			BusinessID:   bizID,
			CustomerName: "Sagar Mess",
			Items: []billing.BillItem{
				billing.NewBillItem("Chicken Live", "12.5", "180"),
			},
			Payment: billing.UPIPayment{Provider: "GPay", Amount: billing.MustParseMoney("2250")},
		},
		// Credit sale: no payment, full amount carried.
		{
			BusinessID:   bizID,
			CustomerName: "Ravi Caterers",
			Items: []billing.BillItem{
				billing.NewBillItem("Chicken Dressed", "8", "240"),
			},
		},
		// Walk-in paying split cash+gpay.
		{
			BusinessID:    bizID,
			CustomerPhone: "9000011111",
			WalkIn:        true,
			Items: []billing.BillItem{
				billing.NewBillItem("Chicken Live", "2", "185"),
			},
			Payment: billing.CashGPayPayment{
				Cash: billing.MustParseMoney("200"),
				GPay: billing.MustParseMoney("170"),
			},
		},
	}

	var billNumbers []string
	for i, in := range submissions {
		result, err := h.Processor.Submit(ctx, in)
		if err != nil {
			writeError(w, http.StatusInternalServerError,
				fmt.Sprintf("Failed to seed bill %d", i+1), err)
			return
		}
		billNumbers = append(billNumbers, result.Bill.BillNumber)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"business_id":  bizID,
		"bill_numbers": billNumbers,
		"message":      "Demo data loaded",
	})
}
