/*
store.go - Persistence interface for the ledger

PURPOSE:
  Defines the boundary between the billing engine and durable storage.
  The engine consumes these primitives; it never talks SQL. Different
  implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  Store:   Table-like read/write primitives, keyed by business ID
  TxStore: Store plus an atomic transaction boundary (WithTx)

ATOMIC COMMIT:
  Committing a bill is a dual write: insert the bill row AND update the
  customer's balance. A partial commit produces a permanently
  inconsistent ledger with no reconciliation path, so BalanceLedger
  requires a TxStore and performs both writes inside WithTx.

IMPLEMENTATIONS:
  - store/sqlite:       Production SQLite (WAL)
  - billing/store:      In-memory for testing/dev
*/
package billing

import "context"

// Store exposes the durable table-like primitives the engine consumes.
// Every operation is scoped to a business (tenant key).
type Store interface {
	// Customers
	GetCustomer(ctx context.Context, businessID, name string) (*Customer, error)
	GetCustomerByPhone(ctx context.Context, businessID, phone string) (*Customer, error)
	ListCustomers(ctx context.Context, businessID string) ([]Customer, error)
	UpsertCustomer(ctx context.Context, c Customer) error

	// UpdateCustomerBalance sets the stored balance, creating the
	// customer row if it does not exist (upsert-by-name semantics).
	UpdateCustomerBalance(ctx context.Context, businessID, name, phone string, balance Money) error

	// Bills
	InsertBill(ctx context.Context, bill Bill) error
	ListBills(ctx context.Context, businessID string) ([]Bill, error)
	ListBillsByDate(ctx context.Context, businessID, date string) ([]Bill, error)
	GetBillByNumber(ctx context.Context, businessID, billNumber string) (*Bill, error)

	// Load entries
	InsertLoadEntry(ctx context.Context, e LoadEntry) (int64, error)
	ListLoadEntries(ctx context.Context, businessID string) ([]LoadEntry, error)
	ListLoadEntriesByDate(ctx context.Context, businessID, date string) ([]LoadEntry, error)

	// Business info
	GetBusinessInfo(ctx context.Context, businessID string) (*BusinessInfo, error)
	SaveBusinessInfo(ctx context.Context, info BusinessInfo) error
}

// TxStore wraps Store with a transaction boundary.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns an error, every write inside it is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
