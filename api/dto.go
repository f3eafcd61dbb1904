/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Bills:
    BillDTO, BillItemDTO, CreateBillRequest, CommitResultDTO

  Customers:
    CustomerDTO, UpsertCustomerRequest, BalanceCheckRequest/DTO

  Stock and reports:
    LoadEntryDTO, CreateLoadEntryRequest, StockReportDTO,
    ProfitReportDTO, SalesReportDTO

  Business info:
    BusinessInfoDTO

MONEY ON THE WIRE:
  Monetary fields are JSON numbers with decimal semantics (they pass
  through shopspring/decimal, never float64). Weights and rates on
  incoming items are strings, exactly as a billing form produces them.

PAYMENT:
  The payment field is the tagged union defined in billing/payment.go,
  carried as raw JSON on both requests and responses.

SEE ALSO:
  - handlers.go: Uses these types
  - billing/payment.go: The payment wire format
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopbill/billing-engine/billing"
	"github.com/shopbill/billing-engine/reporting"
)

// =============================================================================
// BILLS
// =============================================================================

// BillItemDTO represents one line item in API responses.
type BillItemDTO struct {
	Item   string        `json:"item"`
	Weight string        `json:"weight"`
	Rate   string        `json:"rate"`
	Amount billing.Money `json:"amount"`
}

// BillItemInput is a raw line item from a billing form.
type BillItemInput struct {
	Item   string `json:"item"`
	Weight string `json:"weight"`
	Rate   string `json:"rate"`
}

// CreateBillRequest is the request to submit a bill.
type CreateBillRequest struct {
	BusinessID    string          `json:"business_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	WalkIn        bool            `json:"walk_in"`
	Date          string          `json:"date,omitempty"`
	Items         []BillItemInput `json:"items"`
	Payment       json.RawMessage `json:"payment,omitempty"`
}

// BillDTO represents a committed bill in API responses.
type BillDTO struct {
	ID            string          `json:"id"`
	BillNumber    string          `json:"bill_number"`
	Customer      string          `json:"customer"`
	CustomerPhone string          `json:"customer_phone"`
	Date          string          `json:"date"`
	Items         []BillItemDTO   `json:"items"`
	TotalAmount   billing.Money   `json:"total_amount"`
	PaidAmount    billing.Money   `json:"paid_amount"`
	BalanceAmount billing.Money   `json:"balance_amount"`
	Payment       json.RawMessage `json:"payment,omitempty"`
	BusinessID    string          `json:"business_id"`
	CreatedAt     string          `json:"created_at"`
}

// BreakdownDTO is the computed arithmetic of one transaction.
type BreakdownDTO struct {
	ItemsTotal        billing.Money `json:"items_total"`
	TransactionAmount billing.Money `json:"transaction_amount"`
	RequiredAmount    billing.Money `json:"required_amount"`
	NewBalance        billing.Money `json:"new_balance"`
	BalanceOnly       bool          `json:"balance_only"`
}

// CommitResultDTO is the response to a successful bill submission.
type CommitResultDTO struct {
	Bill      BillDTO       `json:"bill"`
	Breakdown BreakdownDTO  `json:"breakdown"`
	Customer  *CustomerDTO  `json:"customer,omitempty"`
}

func toBillDTO(b billing.Bill) BillDTO {
	items := make([]BillItemDTO, len(b.Items))
	for i, it := range b.Items {
		items[i] = BillItemDTO{
			Item:   it.Item,
			Weight: it.Weight.String(),
			Rate:   it.Rate.String(),
			Amount: it.Amount,
		}
	}
	paymentJSON, _ := billing.MarshalPayment(b.Payment)
	return BillDTO{
		ID:            b.ID,
		BillNumber:    b.BillNumber,
		Customer:      b.Customer,
		CustomerPhone: b.CustomerPhone,
		Date:          b.Date,
		Items:         items,
		TotalAmount:   b.TotalAmount,
		PaidAmount:    b.PaidAmount,
		BalanceAmount: b.BalanceAmount,
		Payment:       paymentJSON,
		BusinessID:    b.BusinessID,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// CUSTOMERS
// =============================================================================

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID         string        `json:"id,omitempty"`
	Name       string        `json:"name"`
	Phone      string        `json:"phone"`
	Balance    billing.Money `json:"balance"`
	BusinessID string        `json:"business_id"`
}

// UpsertCustomerRequest is the request to create or update a customer.
type UpsertCustomerRequest struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

// BalanceCheckRequest asks the ledger to verify a cached balance.
type BalanceCheckRequest struct {
	BusinessID string        `json:"business_id"`
	Name       string        `json:"name"`
	Cached     billing.Money `json:"cached"`
}

// BalanceCheckDTO carries the authoritative balance plus a drift
// warning when the cached value disagreed beyond tolerance.
type BalanceCheckDTO struct {
	Name          string        `json:"name"`
	Authoritative billing.Money `json:"authoritative"`
	Drift         *DriftDTO     `json:"drift,omitempty"`
}

// DriftDTO describes a cached-vs-authoritative disagreement.
type DriftDTO struct {
	Cached        billing.Money `json:"cached"`
	Authoritative billing.Money `json:"authoritative"`
	Amount        billing.Money `json:"amount"`
}

func toCustomerDTO(c billing.Customer) CustomerDTO {
	return CustomerDTO{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Balance:    c.Balance,
		BusinessID: c.BusinessID,
	}
}

// =============================================================================
// STOCK AND REPORTS
// =============================================================================

// LoadEntryDTO represents a stock purchase in API responses.
type LoadEntryDTO struct {
	ID               int64         `json:"id"`
	EntryDate        string        `json:"entry_date"`
	SupplierName     string        `json:"supplier_name"`
	BuyPricePerKg    billing.Money `json:"buy_price_per_kg"`
	QuantityAfterBox string        `json:"quantity_after_box"`
	BusinessID       string        `json:"business_id"`
}

// CreateLoadEntryRequest is the request to record a stock purchase.
type CreateLoadEntryRequest struct {
	BusinessID       string `json:"business_id"`
	EntryDate        string `json:"entry_date"`
	SupplierName     string `json:"supplier_name"`
	BuyPricePerKg    string `json:"buy_price_per_kg"`
	QuantityAfterBox string `json:"quantity_after_box"`
}

func toLoadEntryDTO(e billing.LoadEntry) LoadEntryDTO {
	return LoadEntryDTO{
		ID:               e.ID,
		EntryDate:        e.EntryDate,
		SupplierName:     e.SupplierName,
		BuyPricePerKg:    e.BuyPricePerKg,
		QuantityAfterBox: e.QuantityAfterBox.String(),
		BusinessID:       e.BusinessID,
	}
}

// StockReportDTO is the loaded/sold/remaining reconciliation.
type StockReportDTO struct {
	LoadedKg    string `json:"loaded_kg"`
	SoldKg      string `json:"sold_kg"`
	RemainingKg string `json:"remaining_kg"`
}

func toStockReportDTO(r reporting.StockReport) StockReportDTO {
	return StockReportDTO{
		LoadedKg:    r.LoadedKg.String(),
		SoldKg:      r.SoldKg.String(),
		RemainingKg: r.RemainingKg.String(),
	}
}

// ProfitReportDTO is revenue vs buy cost for one date.
type ProfitReportDTO struct {
	Date    string        `json:"date"`
	Revenue billing.Money `json:"revenue"`
	BuyCost billing.Money `json:"buy_cost"`
	Profit  billing.Money `json:"profit"`
}

// ProductSalesDTO is one product's movement for a date.
type ProductSalesDTO struct {
	Item     string        `json:"item"`
	WeightKg string        `json:"weight_kg"`
	Revenue  billing.Money `json:"revenue"`
}

// CustomerSalesDTO is one customer's activity for a date.
type CustomerSalesDTO struct {
	Customer string        `json:"customer"`
	Billed   billing.Money `json:"billed"`
	Paid     billing.Money `json:"paid"`
}

// SalesReportDTO is the full sales picture for one date.
type SalesReportDTO struct {
	Date       string                   `json:"date"`
	BillCount  int                      `json:"bill_count"`
	Revenue    billing.Money            `json:"revenue"`
	Collected  billing.Money            `json:"collected"`
	ByMethod   map[string]billing.Money `json:"by_method"`
	ByProduct  []ProductSalesDTO        `json:"by_product"`
	ByCustomer []CustomerSalesDTO       `json:"by_customer"`
}

func toSalesReportDTO(r reporting.SalesReport) SalesReportDTO {
	dto := SalesReportDTO{
		Date:      r.Date,
		BillCount: r.BillCount,
		Revenue:   r.Revenue,
		Collected: r.Collected,
		ByMethod:  make(map[string]billing.Money, len(r.ByMethod)),
	}
	for method, amount := range r.ByMethod {
		dto.ByMethod[string(method)] = amount
	}
	for _, p := range r.ByProduct {
		dto.ByProduct = append(dto.ByProduct, ProductSalesDTO{
			Item:     p.Item,
			WeightKg: p.WeightKg.String(),
			Revenue:  p.Revenue,
		})
	}
	for _, c := range r.ByCustomer {
		dto.ByCustomer = append(dto.ByCustomer, CustomerSalesDTO{
			Customer: c.Customer,
			Billed:   c.Billed,
			Paid:     c.Paid,
		})
	}
	return dto
}

// =============================================================================
// BUSINESS INFO
// =============================================================================

// BusinessInfoDTO is the bill-header metadata for a business.
type BusinessInfoDTO struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	GSTNumber  string `json:"gst_number"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
