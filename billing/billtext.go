/*
billtext.go - Bill text export

PURPOSE:
  Renders a committed bill as plain text for the print/WhatsApp/SMS
  collaborators. The field order is a contract those collaborators
  parse, so it is bit-exact:

    header block (name / address / tax id)
    Invoice No, Date, Time, Customer, Phone, Payment Mode
    itemized lines (or the payment-only line)
    divider
    Previous Balance, Current Items, Total Bill Amount,
    Payment Amount, New Balance     (currency, 2 decimals)
    payment-method detail line
    closing line

  Re-deriving New Balance from the printed Previous Balance, Current
  Items and Payment Amount reproduces the stored BalanceAmount exactly.
*/
package billing

import (
	"fmt"
	"strings"
)

const (
	currencySign = "₹"

	headerRule  = "==============="
	summaryRule = "--------------------------------"
	closingRule = "================================"

	timeLayout = "3:04:05 PM"
)

// RenderBillText produces the bill-text export for a committed bill.
// previousBalance is the balance before this bill was applied, exactly
// as it was shown on the billing form.
func RenderBillText(info BusinessInfo, bill Bill, previousBalance Money) string {
	itemsTotal := ItemsTotal(bill.Items)

	// Payment-only bills show the remaining balance math without a bill
	// total; walk-ins never fold the previous balance in.
	var totalBill, newBalance Money
	paymentOnly := len(bill.Items) == 0 && bill.PaidAmount.IsPositive()
	switch {
	case paymentOnly:
		totalBill = previousBalance
		newBalance = previousBalance.Sub(bill.PaidAmount)
	case IsWalkInName(bill.Customer):
		totalBill = itemsTotal
		newBalance = totalBill.Sub(bill.PaidAmount)
	default:
		totalBill = previousBalance.Add(itemsTotal)
		newBalance = totalBill.Sub(bill.PaidAmount)
	}

	var b strings.Builder

	// Header block
	name := info.Name
	if name == "" {
		name = "BILLING SYSTEM"
	}
	fmt.Fprintf(&b, "%s\n%s\n", name, headerRule)
	if info.Address != "" {
		fmt.Fprintf(&b, "%s\n", info.Address)
	}
	if info.GSTNumber != "" {
		fmt.Fprintf(&b, "GST: %s\n", info.GSTNumber)
	}
	if info.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", info.Phone)
	}
	if info.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", info.Email)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Invoice No: %s\n", bill.BillNumber)
	fmt.Fprintf(&b, "Date: %s\n", bill.Date)
	fmt.Fprintf(&b, "Time: %s\n", bill.CreatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Customer: %s\n", bill.Customer)
	fmt.Fprintf(&b, "Phone: %s\n", bill.CustomerPhone)
	fmt.Fprintf(&b, "Payment Mode: %s\n\n", bill.PaymentMethod())

	b.WriteString("ITEMS:\n------\n")
	if len(bill.Items) == 0 {
		b.WriteString("No items - Payment Only Transaction\n")
	} else {
		for i, it := range bill.Items {
			fmt.Fprintf(&b, "%d. %s - %skg @ %s%s/kg = %s%s\n",
				i+1, it.Item, it.Weight.String(),
				currencySign, it.Rate.String(),
				currencySign, it.Amount)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", summaryRule)
	fmt.Fprintf(&b, "Previous Balance: %s%s\n", currencySign, previousBalance)
	fmt.Fprintf(&b, "Current Items: %s%s\n", currencySign, itemsTotal)
	if paymentOnly {
		fmt.Fprintf(&b, "Total Bill Amount: %s0.00\n", currencySign)
	} else {
		fmt.Fprintf(&b, "Total Bill Amount: %s%s\n", currencySign, totalBill)
	}
	fmt.Fprintf(&b, "Payment Amount: %s%s\n", currencySign, bill.PaidAmount)
	fmt.Fprintf(&b, "New Balance: %s%s\n", currencySign, newBalance)
	if line := paymentDetailLine(bill); line != "" {
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "%s\n\nThank you for your business!", closingRule)

	return b.String()
}

// paymentDetailLine renders the method-specific line, empty when no
// payment was made with the bill.
func paymentDetailLine(bill Bill) string {
	if !bill.PaidAmount.IsPositive() || bill.Payment == nil {
		return ""
	}
	switch p := bill.Payment.(type) {
	case CashPayment:
		return "Payment Method: Cash"
	case UPIPayment:
		return fmt.Sprintf("Payment Method: UPI - %s", p.Provider)
	case CheckPayment:
		return fmt.Sprintf("Payment Method: Check/DD - %s - %s", p.Bank, p.Number)
	case CashGPayPayment:
		return fmt.Sprintf("Payment Method: Cash: %s%s + GPay: %s%s",
			currencySign, p.Cash, currencySign, p.GPay)
	default:
		return ""
	}
}
