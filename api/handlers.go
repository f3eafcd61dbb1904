/*
handlers.go - HTTP API handlers for the billing engine

PURPOSE:
  Exposes the billing engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Bills:
    POST   /api/bills                   Submit a bill
    GET    /api/bills                   List bills (?business_id, ?date)
    GET    /api/bills/{number}          Get bill by number
    GET    /api/bills/{number}/text     Bill-text export

  Customers:
    GET    /api/customers               List customers
    POST   /api/customers               Create/update customer
    GET    /api/customers/balance       Balance lookup (?name or ?phone)
    POST   /api/customers/balance/check Verify a cached balance

  Stock:
    GET    /api/load-entries            List load entries (?date)
    POST   /api/load-entries            Record a stock purchase

  Reports:
    GET    /api/reports/stock           Stock reconciliation (?date)
    GET    /api/reports/profit          Daily profit (?date)
    GET    /api/reports/sales           Daily sales (?date)

  Business:
    GET    /api/business-info           Get bill-header metadata
    PUT    /api/business-info           Save bill-header metadata

  Demo:
    POST   /api/seed                    Load demo data

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (processor, reporter)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Domain errors map to HTTP status via writeDomainError:
  - 400: Validation errors, invalid input
  - 404: Bill not found
  - 409: Duplicate bill
  - 500: Persistence errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - seed.go: Demo data loader
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopbill/billing-engine/billing"
	"github.com/shopbill/billing-engine/reporting"
)

// defaultBusinessID is used when a request does not name a tenant.
const defaultBusinessID = "default"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     billing.TxStore
	Processor *billing.Processor
	Reporter  *reporting.Reporter
}

// NewHandler creates a new handler over the given store.
func NewHandler(store billing.TxStore) *Handler {
	return &Handler{
		Store:     store,
		Processor: billing.NewProcessor(store),
		Reporter:  reporting.NewReporter(store),
	}
}

func businessID(r *http.Request) string {
	if id := r.URL.Query().Get("business_id"); id != "" {
		return id
	}
	return defaultBusinessID
}

// =============================================================================
// BILL HANDLERS
// =============================================================================

// CreateBill validates and commits a bill.
// POST /api/bills
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	payment, err := billing.UnmarshalPayment(req.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment", err)
		return
	}

	if req.Date != "" {
		if _, err := time.Parse(billing.DateLayout, req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}

	items := make([]billing.BillItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = billing.NewBillItem(it.Item, it.Weight, it.Rate)
	}

	bizID := req.BusinessID
	if bizID == "" {
		bizID = defaultBusinessID
	}

	result, err := h.Processor.Submit(r.Context(), billing.BillInput{
		BusinessID:    bizID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		WalkIn:        req.WalkIn,
		Date:          req.Date,
		Items:         items,
		Payment:       payment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := CommitResultDTO{
		Bill: toBillDTO(result.Bill),
		Breakdown: BreakdownDTO{
			ItemsTotal:        result.Breakdown.ItemsTotal,
			TransactionAmount: result.Breakdown.TransactionAmount,
			RequiredAmount:    result.Breakdown.RequiredAmount,
			NewBalance:        result.Breakdown.NewBalance,
			BalanceOnly:       result.Breakdown.BalanceOnly,
		},
	}
	if result.Customer != nil {
		c := toCustomerDTO(*result.Customer)
		dto.Customer = &c
	}

	writeJSON(w, http.StatusCreated, dto)
}

// ListBills returns bills for a business, optionally for one date.
// GET /api/bills?business_id=...&date=YYYY-MM-DD
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	bizID := businessID(r)
	date := r.URL.Query().Get("date")

	var bills []billing.Bill
	var err error
	if date != "" {
		bills, err = h.Store.ListBillsByDate(r.Context(), bizID, date)
	} else {
		bills, err = h.Store.ListBills(r.Context(), bizID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bills", err)
		return
	}

	dtos := make([]BillDTO, len(bills))
	for i, b := range bills {
		dtos[i] = toBillDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBill returns one bill by its number.
// GET /api/bills/{number}
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	bill, err := h.Processor.FindBill(r.Context(), businessID(r), number)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillDTO(*bill))
}

// GetBillText returns the plain-text export of a bill.
// GET /api/bills/{number}/text
func (h *Handler) GetBillText(w http.ResponseWriter, r *http.Request) {
	bizID := businessID(r)
	number := chi.URLParam(r, "number")
	ctx := r.Context()

	bill, err := h.Processor.FindBill(ctx, bizID, number)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	info := billing.BusinessInfo{BusinessID: bizID}
	if stored, err := h.Store.GetBusinessInfo(ctx, bizID); err == nil && stored != nil {
		info = *stored
	}

	// The text shows the balance as it stood before this bill; recover
	// it from the stored amounts.
	previous := previousBalanceOf(*bill)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(billing.RenderBillText(info, *bill, previous)))
}

// previousBalanceOf reconstructs the pre-bill balance from a stored
// bill. BalanceAmount = previous + items - paid for tracked customers,
// so previous = BalanceAmount - items + paid. Walk-ins never carry one.
func previousBalanceOf(b billing.Bill) billing.Money {
	if billing.IsWalkInName(b.Customer) {
		return billing.ZeroMoney()
	}
	return b.BalanceAmount.Sub(billing.ItemsTotal(b.Items)).Add(b.PaidAmount)
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers of a business.
// GET /api/customers?business_id=...
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context(), businessID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertCustomer creates or updates a customer record.
// POST /api/customers
func (h *Handler) UpsertCustomer(w http.ResponseWriter, r *http.Request) {
	var req UpsertCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Customer name is required", nil)
		return
	}
	bizID := req.BusinessID
	if bizID == "" {
		bizID = defaultBusinessID
	}

	ctx := r.Context()
	existing, err := h.Store.GetCustomer(ctx, bizID, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read customer", err)
		return
	}

	c := billing.Customer{Name: req.Name, Phone: req.Phone, BusinessID: bizID}
	if existing != nil {
		c.ID = existing.ID
		c.Balance = existing.Balance
	}

	if err := h.Store.UpsertCustomer(ctx, c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save customer", err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(c))
}

// GetCustomerBalance returns the stored balance by name or phone.
// GET /api/customers/balance?name=... | ?phone=...
func (h *Handler) GetCustomerBalance(w http.ResponseWriter, r *http.Request) {
	bizID := businessID(r)
	ctx := r.Context()
	ledger := h.Processor.Ledger()

	if phone := r.URL.Query().Get("phone"); phone != "" {
		balance, name, err := ledger.PreviousBalanceByPhone(ctx, bizID, phone)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, BalanceCheckDTO{Name: name, Authoritative: balance})
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name or phone query parameter is required", nil)
		return
	}
	balance, err := ledger.PreviousBalance(ctx, bizID, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceCheckDTO{Name: name, Authoritative: balance})
}

// CheckCustomerBalance verifies a client-cached balance against the
// ledger. Drift is reported, never fatal.
// POST /api/customers/balance/check
func (h *Handler) CheckCustomerBalance(w http.ResponseWriter, r *http.Request) {
	var req BalanceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	bizID := req.BusinessID
	if bizID == "" {
		bizID = defaultBusinessID
	}

	authoritative, warning, err := h.Processor.CheckBalance(r.Context(), bizID, req.Name, req.Cached)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := BalanceCheckDTO{Name: req.Name, Authoritative: authoritative}
	if warning != nil {
		dto.Drift = &DriftDTO{
			Cached:        warning.Cached,
			Authoritative: warning.Authoritative,
			Amount:        warning.Drift(),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// LOAD ENTRY HANDLERS
// =============================================================================

// ListLoadEntries returns stock purchases, optionally for one date.
// GET /api/load-entries?business_id=...&date=YYYY-MM-DD
func (h *Handler) ListLoadEntries(w http.ResponseWriter, r *http.Request) {
	bizID := businessID(r)
	date := r.URL.Query().Get("date")

	var entries []billing.LoadEntry
	var err error
	if date != "" {
		entries, err = h.Store.ListLoadEntriesByDate(r.Context(), bizID, date)
	} else {
		entries, err = h.Store.ListLoadEntries(r.Context(), bizID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list load entries", err)
		return
	}

	dtos := make([]LoadEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toLoadEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLoadEntry records a stock purchase.
// POST /api/load-entries
func (h *Handler) CreateLoadEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateLoadEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.EntryDate == "" {
		writeError(w, http.StatusBadRequest, "entry_date is required", nil)
		return
	}
	if _, err := time.Parse(billing.DateLayout, req.EntryDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry_date format (use YYYY-MM-DD)", err)
		return
	}

	quantity, err := decimal.NewFromString(req.QuantityAfterBox)
	if err != nil || !quantity.IsPositive() {
		writeError(w, http.StatusBadRequest, "quantity_after_box must be a positive decimal", err)
		return
	}
	buyPrice := billing.MustParseMoney(req.BuyPricePerKg)
	if buyPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "buy_price_per_kg cannot be negative", nil)
		return
	}

	bizID := req.BusinessID
	if bizID == "" {
		bizID = defaultBusinessID
	}

	entry := billing.LoadEntry{
		EntryDate:        req.EntryDate,
		SupplierName:     req.SupplierName,
		BuyPricePerKg:    buyPrice,
		QuantityAfterBox: quantity,
		BusinessID:       bizID,
	}

	id, err := h.Store.InsertLoadEntry(r.Context(), entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save load entry", err)
		return
	}
	entry.ID = id

	writeJSON(w, http.StatusCreated, toLoadEntryDTO(entry))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetStockReport returns the loaded/sold/remaining reconciliation.
// GET /api/reports/stock?business_id=...&date=YYYY-MM-DD
func (h *Handler) GetStockReport(w http.ResponseWriter, r *http.Request) {
	bizID := businessID(r)
	date := r.URL.Query().Get("date")

	var report reporting.StockReport
	var err error
	if date != "" {
		report, err = h.Reporter.RemainingStockOn(r.Context(), bizID, date)
	} else {
		report, err = h.Reporter.RemainingStock(r.Context(), bizID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockReportDTO(report))
}

// GetProfitReport returns the profit for a date (default today).
// GET /api/reports/profit?business_id=...&date=YYYY-MM-DD
func (h *Handler) GetProfitReport(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(billing.DateLayout)
	}

	report, err := h.Reporter.DailyProfit(r.Context(), businessID(r), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfitReportDTO{
		Date:    report.Date,
		Revenue: report.Revenue,
		BuyCost: report.BuyCost,
		Profit:  report.Profit,
	})
}

// GetSalesReport returns the sales aggregation for a date (default today).
// GET /api/reports/sales?business_id=...&date=YYYY-MM-DD
func (h *Handler) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(billing.DateLayout)
	}

	report, err := h.Reporter.DailySales(r.Context(), businessID(r), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSalesReportDTO(report))
}

// =============================================================================
// BUSINESS INFO HANDLERS
// =============================================================================

// GetBusinessInfo returns the bill-header metadata.
// GET /api/business-info?business_id=...
func (h *Handler) GetBusinessInfo(w http.ResponseWriter, r *http.Request) {
	bizID := businessID(r)
	info, err := h.Store.GetBusinessInfo(r.Context(), bizID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read business info", err)
		return
	}
	if info == nil {
		info = &billing.BusinessInfo{BusinessID: bizID}
	}
	writeJSON(w, http.StatusOK, BusinessInfoDTO{
		BusinessID: info.BusinessID,
		Name:       info.Name,
		Address:    info.Address,
		GSTNumber:  info.GSTNumber,
		Phone:      info.Phone,
		Email:      info.Email,
	})
}

// SaveBusinessInfo stores the bill-header metadata.
// PUT /api/business-info
func (h *Handler) SaveBusinessInfo(w http.ResponseWriter, r *http.Request) {
	var req BusinessInfoDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BusinessID == "" {
		req.BusinessID = defaultBusinessID
	}

	err := h.Store.SaveBusinessInfo(r.Context(), billing.BusinessInfo{
		BusinessID: req.BusinessID,
		Name:       req.Name,
		Address:    req.Address,
		GSTNumber:  req.GSTNumber,
		Phone:      req.Phone,
		Email:      req.Email,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save business info", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the billing error taxonomy onto HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case billing.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case billing.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Bill not found", err)
	case billing.IsDuplicate(err):
		writeError(w, http.StatusConflict, "Duplicate bill", err)
	case errors.Is(err, billing.ErrPersistence):
		writeError(w, http.StatusInternalServerError, "Storage failure", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
