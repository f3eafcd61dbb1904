/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/bills/*          Bill submission, lookup, text export
  /api/customers/*      Customer list, upsert, balance checks
  /api/load-entries/*   Stock purchase entries
  /api/reports/*        Stock, profit, and sales reports
  /api/business-info    Bill-header metadata
  /api/seed             Demo data (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Bill routes
		r.Route("/bills", func(r chi.Router) {
			r.Get("/", h.ListBills)
			r.Post("/", h.CreateBill)
			r.Get("/{number}", h.GetBill)
			r.Get("/{number}/text", h.GetBillText)
		})

		// Customer routes
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.UpsertCustomer)
			r.Get("/balance", h.GetCustomerBalance)
			r.Post("/balance/check", h.CheckCustomerBalance)
		})

		// Stock routes
		r.Route("/load-entries", func(r chi.Router) {
			r.Get("/", h.ListLoadEntries)
			r.Post("/", h.CreateLoadEntry)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/stock", h.GetStockReport)
			r.Get("/profit", h.GetProfitReport)
			r.Get("/sales", h.GetSalesReport)
		})

		// Business info routes
		r.Get("/business-info", h.GetBusinessInfo)
		r.Put("/business-info", h.SaveBusinessInfo)

		// Demo data
		r.Post("/seed", h.SeedDemoData)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Billing Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Billing Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/bills">/api/bills</a> - List bills</li>
<li><a href="/api/customers">/api/customers</a> - List customers</li>
<li><a href="/api/load-entries">/api/load-entries</a> - List load entries</li>
<li><a href="/api/reports/stock">/api/reports/stock</a> - Stock reconciliation</li>
<li><a href="/api/reports/sales">/api/reports/sales</a> - Daily sales</li>
</ul>
</body>
</html>`))
	})

	return r
}
