/*
payment.go - Payment method variants

PURPOSE:
  Models the dynamic payment-method shape as a sum type instead of a bag
  of optional fields. Each variant knows its own paid amount and its own
  validation rules:

    Cash               amount > 0
    UPI{provider}      amount > 0
    Check{bank,number} amount > 0
    CashGPay{cash,gpay} neither negative, at least one > 0

  The wire format is a tagged union: {"method": "...", ...variant fields}.
*/
package billing

import (
	"encoding/json"
	"fmt"
)

type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayUPI      PaymentMethod = "upi"
	PayCheck    PaymentMethod = "check"
	PayCashGPay PaymentMethod = "cash_gpay"
)

// PaymentDetail is one concrete way a payment was made.
type PaymentDetail interface {
	Method() PaymentMethod

	// Paid returns the total amount tendered by this payment.
	Paid() Money

	// Validate checks the variant's own rules. It is called by the
	// processor before any amount computation.
	Validate() error
}

// =============================================================================
// VARIANTS
// =============================================================================

type CashPayment struct {
	Amount Money
}

func (p CashPayment) Method() PaymentMethod { return PayCash }
func (p CashPayment) Paid() Money           { return p.Amount }

func (p CashPayment) Validate() error {
	if !p.Amount.IsPositive() {
		return &ValidationError{Field: "payment", Reason: "payment amount must be greater than zero"}
	}
	return nil
}

type UPIPayment struct {
	Provider string
	Amount   Money
}

func (p UPIPayment) Method() PaymentMethod { return PayUPI }
func (p UPIPayment) Paid() Money           { return p.Amount }

func (p UPIPayment) Validate() error {
	if !p.Amount.IsPositive() {
		return &ValidationError{Field: "payment", Reason: "payment amount must be greater than zero"}
	}
	return nil
}

type CheckPayment struct {
	Bank   string
	Number string
	Amount Money
}

func (p CheckPayment) Method() PaymentMethod { return PayCheck }
func (p CheckPayment) Paid() Money           { return p.Amount }

func (p CheckPayment) Validate() error {
	if !p.Amount.IsPositive() {
		return &ValidationError{Field: "payment", Reason: "payment amount must be greater than zero"}
	}
	return nil
}

// CashGPayPayment is a split payment: part cash, part GPay.
type CashGPayPayment struct {
	Cash Money
	GPay Money
}

func (p CashGPayPayment) Method() PaymentMethod { return PayCashGPay }
func (p CashGPayPayment) Paid() Money           { return p.Cash.Add(p.GPay) }

func (p CashGPayPayment) Validate() error {
	if p.Cash.IsNegative() || p.GPay.IsNegative() {
		return &ValidationError{Field: "payment", Reason: "cash and gpay amounts cannot be negative"}
	}
	if p.Cash.IsZero() && p.GPay.IsZero() {
		return &ValidationError{Field: "payment", Reason: "at least one of cash or gpay must be greater than zero"}
	}
	return nil
}

// =============================================================================
// WIRE FORMAT - Tagged union
// =============================================================================

// paymentEnvelope is the flat JSON carrier for all variants.
type paymentEnvelope struct {
	Method      PaymentMethod `json:"method"`
	Amount      *Money        `json:"amount,omitempty"`
	UPIProvider string        `json:"upi_provider,omitempty"`
	BankName    string        `json:"bank_name,omitempty"`
	CheckNumber string        `json:"check_number,omitempty"`
	CashAmount  *Money        `json:"cash_amount,omitempty"`
	GPayAmount  *Money        `json:"gpay_amount,omitempty"`
}

// MarshalPayment encodes a payment detail as a tagged union.
func MarshalPayment(d PaymentDetail) ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	env := paymentEnvelope{Method: d.Method()}
	switch p := d.(type) {
	case CashPayment:
		a := p.Amount
		env.Amount = &a
	case UPIPayment:
		a := p.Amount
		env.Amount = &a
		env.UPIProvider = p.Provider
	case CheckPayment:
		a := p.Amount
		env.Amount = &a
		env.BankName = p.Bank
		env.CheckNumber = p.Number
	case CashGPayPayment:
		c, g := p.Cash, p.GPay
		env.CashAmount = &c
		env.GPayAmount = &g
	default:
		return nil, fmt.Errorf("unknown payment method %q", d.Method())
	}
	return json.Marshal(env)
}

// UnmarshalPayment decodes a tagged union into the concrete variant.
// A null or empty document yields a nil detail (no payment).
func UnmarshalPayment(data []byte) (PaymentDetail, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var env paymentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	amount := ZeroMoney()
	if env.Amount != nil {
		amount = *env.Amount
	}
	switch env.Method {
	case "", PayCash:
		return CashPayment{Amount: amount}, nil
	case PayUPI:
		return UPIPayment{Provider: env.UPIProvider, Amount: amount}, nil
	case PayCheck:
		return CheckPayment{Bank: env.BankName, Number: env.CheckNumber, Amount: amount}, nil
	case PayCashGPay:
		p := CashGPayPayment{}
		if env.CashAmount != nil {
			p.Cash = *env.CashAmount
		}
		if env.GPayAmount != nil {
			p.GPay = *env.GPayAmount
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown payment method %q", env.Method)
	}
}
