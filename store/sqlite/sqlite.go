/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements billing.Store and billing.TxStore using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  customers:     One row per (business, name) with the running balance
  bills:         Immutable bill records
  bill_items:    Line items, ordered by position within a bill
  load_entries:  Stock purchase events
  business_info: Tenant metadata for bill headers

UNIQUENESS:
  - bills.id is the primary key: a bill identifier commits at most once,
    surfaced as billing.ErrDuplicateBill
  - UNIQUE(business_id, bill_number) enforces per-business bill numbers,
    surfaced as billing.ErrDuplicateBillNumber so the processor can
    regenerate and retry

MONEY:
  Monetary columns are stored as decimal strings (TEXT), never floats.
  They round-trip through shopspring/decimal without precision loss.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/billing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  processor := billing.NewProcessor(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - billing/store.go: Interface definitions
  - billing/ledger.go: The atomic commit built on WithTx
  - billing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/shopbill/billing-engine/billing"
)

// Store implements billing.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Customers (running balance per business+name)
	CREATE TABLE IF NOT EXISTS customers (
		business_id TEXT NOT NULL,
		name TEXT NOT NULL,
		id TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		balance TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (business_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_customers_phone
		ON customers(business_id, phone);

	-- Bills (immutable once committed)
	CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		bill_number TEXT NOT NULL,
		customer TEXT NOT NULL,
		customer_phone TEXT NOT NULL DEFAULT '',
		bill_date TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		paid_amount TEXT NOT NULL,
		balance_amount TEXT NOT NULL,
		payment_json TEXT,
		created_at TEXT NOT NULL
	);

	-- Bill numbers are unique within a business; the processor retries
	-- generation on collision
	CREATE UNIQUE INDEX IF NOT EXISTS idx_bills_number
		ON bills(business_id, bill_number);

	CREATE INDEX IF NOT EXISTS idx_bills_date
		ON bills(business_id, bill_date);
	CREATE INDEX IF NOT EXISTS idx_bills_customer
		ON bills(business_id, customer);

	-- Bill line items, ordered by position
	CREATE TABLE IF NOT EXISTS bill_items (
		bill_id TEXT NOT NULL,
		pos INTEGER NOT NULL,
		item TEXT NOT NULL,
		weight TEXT NOT NULL,
		rate TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (bill_id, pos),
		FOREIGN KEY (bill_id) REFERENCES bills(id)
	);

	-- Load entries (stock purchases)
	CREATE TABLE IF NOT EXISTS load_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		supplier_name TEXT NOT NULL DEFAULT '',
		buy_price_per_kg TEXT NOT NULL,
		quantity_after_box TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_load_entries_date
		ON load_entries(business_id, entry_date);

	-- Business info (bill header metadata)
	CREATE TABLE IF NOT EXISTS business_info (
		business_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		gst_number TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT ''
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx so the write helpers
// work inside and outside transactions.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (s *Store) GetCustomer(ctx context.Context, businessID, name string) (*billing.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getCustomer(ctx, s.db, businessID, name)
}

func getCustomer(ctx context.Context, db execer, businessID, name string) (*billing.Customer, error) {
	row := db.QueryRowContext(ctx,
		"SELECT id, name, phone, balance, business_id FROM customers WHERE business_id = ? AND name = ?",
		businessID, name,
	)
	return scanCustomer(row)
}

func (s *Store) GetCustomerByPhone(ctx context.Context, businessID, phone string) (*billing.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, balance, business_id FROM customers WHERE business_id = ? AND phone = ? LIMIT 1",
		businessID, phone,
	)
	return scanCustomer(row)
}

func scanCustomer(row *sql.Row) (*billing.Customer, error) {
	var c billing.Customer
	var balance string
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &balance, &c.BusinessID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Balance = billing.MustParseMoney(balance)
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context, businessID string) ([]billing.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, phone, balance, business_id FROM customers WHERE business_id = ? ORDER BY name",
		businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []billing.Customer
	for rows.Next() {
		var c billing.Customer
		var balance string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &balance, &c.BusinessID); err != nil {
			return nil, err
		}
		c.Balance = billing.MustParseMoney(balance)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Store) UpsertCustomer(ctx context.Context, c billing.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertCustomer(ctx, s.db, c)
}

func upsertCustomer(ctx context.Context, db execer, c billing.Customer) error {
	query := `
		INSERT INTO customers (business_id, name, id, phone, balance)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(business_id, name) DO UPDATE SET
			phone = excluded.phone,
			balance = excluded.balance
	`
	_, err := db.ExecContext(ctx, query, c.BusinessID, c.Name, c.ID, c.Phone, c.Balance.String())
	return err
}

func (s *Store) UpdateCustomerBalance(ctx context.Context, businessID, name, phone string, balance billing.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateCustomerBalance(ctx, s.db, businessID, name, phone, balance)
}

func updateCustomerBalance(ctx context.Context, db execer, businessID, name, phone string, balance billing.Money) error {
	// Upsert-by-name: a first bill for a new customer creates the row.
	// The phone only fills in when the row is new, so an existing
	// customer's phone is not clobbered by a bill without one.
	query := `
		INSERT INTO customers (business_id, name, phone, balance)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(business_id, name) DO UPDATE SET
			balance = excluded.balance
	`
	_, err := db.ExecContext(ctx, query, businessID, name, phone, balance.String())
	return err
}

// =============================================================================
// BILLS
// =============================================================================

func (s *Store) InsertBill(ctx context.Context, bill billing.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertBill(ctx, s.db, bill)
}

func insertBill(ctx context.Context, db execer, bill billing.Bill) error {
	paymentJSON, err := billing.MarshalPayment(bill.Payment)
	if err != nil {
		return fmt.Errorf("failed to encode payment: %w", err)
	}

	query := `
		INSERT INTO bills
		(id, business_id, bill_number, customer, customer_phone, bill_date,
		 total_amount, paid_amount, balance_amount, payment_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		bill.ID,
		bill.BusinessID,
		bill.BillNumber,
		bill.Customer,
		bill.CustomerPhone,
		bill.Date,
		bill.TotalAmount.String(),
		bill.PaidAmount.String(),
		bill.BalanceAmount.String(),
		string(paymentJSON),
		bill.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(err.Error(), "bills.id") {
				return billing.ErrDuplicateBill
			}
			return billing.ErrDuplicateBillNumber
		}
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, it := range bill.Items {
		_, err := db.ExecContext(ctx,
			"INSERT INTO bill_items (bill_id, pos, item, weight, rate, amount) VALUES (?, ?, ?, ?, ?, ?)",
			bill.ID, i, it.Item, it.Weight.String(), it.Rate.String(), it.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill item: %w", err)
		}
	}

	return nil
}

func (s *Store) ListBills(ctx context.Context, businessID string) ([]billing.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, business_id, bill_number, customer, customer_phone, bill_date,
		       total_amount, paid_amount, balance_amount, payment_json, created_at
		FROM bills
		WHERE business_id = ?
		ORDER BY created_at ASC
	`
	return queryBills(ctx, s.db, query, businessID)
}

func (s *Store) ListBillsByDate(ctx context.Context, businessID, date string) ([]billing.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, business_id, bill_number, customer, customer_phone, bill_date,
		       total_amount, paid_amount, balance_amount, payment_json, created_at
		FROM bills
		WHERE business_id = ? AND bill_date = ?
		ORDER BY created_at ASC
	`
	return queryBills(ctx, s.db, query, businessID, date)
}

func (s *Store) GetBillByNumber(ctx context.Context, businessID, billNumber string) (*billing.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getBillByNumber(ctx, s.db, businessID, billNumber)
}

func getBillByNumber(ctx context.Context, db execer, businessID, billNumber string) (*billing.Bill, error) {
	query := `
		SELECT id, business_id, bill_number, customer, customer_phone, bill_date,
		       total_amount, paid_amount, balance_amount, payment_json, created_at
		FROM bills
		WHERE business_id = ? AND bill_number = ?
	`
	bills, err := queryBills(ctx, db, query, businessID, billNumber)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, nil
	}
	return &bills[0], nil
}

func queryBills(ctx context.Context, db execer, query string, args ...any) ([]billing.Bill, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []billing.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bills {
		items, err := loadBillItems(ctx, db, bills[i].ID)
		if err != nil {
			return nil, err
		}
		bills[i].Items = items
	}
	return bills, nil
}

func scanBill(rows *sql.Rows) (billing.Bill, error) {
	var (
		b           billing.Bill
		total       string
		paid        string
		balance     string
		paymentJSON sql.NullString
		createdAt   string
	)

	err := rows.Scan(
		&b.ID, &b.BusinessID, &b.BillNumber, &b.Customer, &b.CustomerPhone,
		&b.Date, &total, &paid, &balance, &paymentJSON, &createdAt,
	)
	if err != nil {
		return b, fmt.Errorf("failed to scan bill: %w", err)
	}

	b.TotalAmount = billing.MustParseMoney(total)
	b.PaidAmount = billing.MustParseMoney(paid)
	b.BalanceAmount = billing.MustParseMoney(balance)
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	if paymentJSON.Valid {
		payment, err := billing.UnmarshalPayment([]byte(paymentJSON.String))
		if err != nil {
			return b, fmt.Errorf("failed to decode payment: %w", err)
		}
		b.Payment = payment
	}

	return b, nil
}

func loadBillItems(ctx context.Context, db execer, billID string) ([]billing.BillItem, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT item, weight, rate, amount FROM bill_items WHERE bill_id = ? ORDER BY pos ASC",
		billID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []billing.BillItem
	for rows.Next() {
		var it billing.BillItem
		var weight, rate, amount string
		if err := rows.Scan(&it.Item, &weight, &rate, &amount); err != nil {
			return nil, err
		}
		it.Weight, _ = decimal.NewFromString(weight)
		it.Rate, _ = decimal.NewFromString(rate)
		it.Amount = billing.MustParseMoney(amount)
		items = append(items, it)
	}
	return items, rows.Err()
}

// =============================================================================
// LOAD ENTRIES
// =============================================================================

func (s *Store) InsertLoadEntry(ctx context.Context, e billing.LoadEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertLoadEntry(ctx, s.db, e)
}

func insertLoadEntry(ctx context.Context, db execer, e billing.LoadEntry) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO load_entries (business_id, entry_date, supplier_name, buy_price_per_kg, quantity_after_box)
		 VALUES (?, ?, ?, ?, ?)`,
		e.BusinessID, e.EntryDate, e.SupplierName,
		e.BuyPricePerKg.String(), e.QuantityAfterBox.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert load entry: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListLoadEntries(ctx context.Context, businessID string) ([]billing.LoadEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, business_id, entry_date, supplier_name, buy_price_per_kg, quantity_after_box
		FROM load_entries
		WHERE business_id = ?
		ORDER BY entry_date ASC, id ASC
	`
	return queryLoadEntries(ctx, s.db, query, businessID)
}

func (s *Store) ListLoadEntriesByDate(ctx context.Context, businessID, date string) ([]billing.LoadEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, business_id, entry_date, supplier_name, buy_price_per_kg, quantity_after_box
		FROM load_entries
		WHERE business_id = ? AND entry_date = ?
		ORDER BY id ASC
	`
	return queryLoadEntries(ctx, s.db, query, businessID, date)
}

func queryLoadEntries(ctx context.Context, db execer, query string, args ...any) ([]billing.LoadEntry, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query load entries: %w", err)
	}
	defer rows.Close()

	var entries []billing.LoadEntry
	for rows.Next() {
		var e billing.LoadEntry
		var buyPrice, quantity string
		if err := rows.Scan(&e.ID, &e.BusinessID, &e.EntryDate, &e.SupplierName, &buyPrice, &quantity); err != nil {
			return nil, err
		}
		e.BuyPricePerKg = billing.MustParseMoney(buyPrice)
		e.QuantityAfterBox, _ = decimal.NewFromString(quantity)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// BUSINESS INFO
// =============================================================================

func (s *Store) GetBusinessInfo(ctx context.Context, businessID string) (*billing.BusinessInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info billing.BusinessInfo
	err := s.db.QueryRowContext(ctx,
		"SELECT business_id, name, address, gst_number, phone, email FROM business_info WHERE business_id = ?",
		businessID,
	).Scan(&info.BusinessID, &info.Name, &info.Address, &info.GSTNumber, &info.Phone, &info.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Store) SaveBusinessInfo(ctx context.Context, info billing.BusinessInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO business_info (business_id, name, address, gst_number, phone, email)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(business_id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			gst_number = excluded.gst_number,
			phone = excluded.phone,
			email = excluded.email
	`
	_, err := s.db.ExecContext(ctx, query,
		info.BusinessID, info.Name, info.Address, info.GSTNumber, info.Phone, info.Email,
	)
	return err
}

// =============================================================================
// TRANSACTIONAL STORE (billing.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store billing.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore routes every operation through the open *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) GetCustomer(ctx context.Context, businessID, name string) (*billing.Customer, error) {
	return getCustomer(ctx, ts.tx, businessID, name)
}

func (ts *txStore) GetCustomerByPhone(ctx context.Context, businessID, phone string) (*billing.Customer, error) {
	row := ts.tx.QueryRowContext(ctx,
		"SELECT id, name, phone, balance, business_id FROM customers WHERE business_id = ? AND phone = ? LIMIT 1",
		businessID, phone,
	)
	return scanCustomer(row)
}

func (ts *txStore) ListCustomers(ctx context.Context, businessID string) ([]billing.Customer, error) {
	rows, err := ts.tx.QueryContext(ctx,
		"SELECT id, name, phone, balance, business_id FROM customers WHERE business_id = ? ORDER BY name",
		businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []billing.Customer
	for rows.Next() {
		var c billing.Customer
		var balance string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &balance, &c.BusinessID); err != nil {
			return nil, err
		}
		c.Balance = billing.MustParseMoney(balance)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (ts *txStore) UpsertCustomer(ctx context.Context, c billing.Customer) error {
	return upsertCustomer(ctx, ts.tx, c)
}

func (ts *txStore) UpdateCustomerBalance(ctx context.Context, businessID, name, phone string, balance billing.Money) error {
	return updateCustomerBalance(ctx, ts.tx, businessID, name, phone, balance)
}

func (ts *txStore) InsertBill(ctx context.Context, bill billing.Bill) error {
	return insertBill(ctx, ts.tx, bill)
}

func (ts *txStore) ListBills(ctx context.Context, businessID string) ([]billing.Bill, error) {
	query := `
		SELECT id, business_id, bill_number, customer, customer_phone, bill_date,
		       total_amount, paid_amount, balance_amount, payment_json, created_at
		FROM bills
		WHERE business_id = ?
		ORDER BY created_at ASC
	`
	return queryBills(ctx, ts.tx, query, businessID)
}

func (ts *txStore) ListBillsByDate(ctx context.Context, businessID, date string) ([]billing.Bill, error) {
	query := `
		SELECT id, business_id, bill_number, customer, customer_phone, bill_date,
		       total_amount, paid_amount, balance_amount, payment_json, created_at
		FROM bills
		WHERE business_id = ? AND bill_date = ?
		ORDER BY created_at ASC
	`
	return queryBills(ctx, ts.tx, query, businessID, date)
}

func (ts *txStore) GetBillByNumber(ctx context.Context, businessID, billNumber string) (*billing.Bill, error) {
	return getBillByNumber(ctx, ts.tx, businessID, billNumber)
}

func (ts *txStore) InsertLoadEntry(ctx context.Context, e billing.LoadEntry) (int64, error) {
	return insertLoadEntry(ctx, ts.tx, e)
}

func (ts *txStore) ListLoadEntries(ctx context.Context, businessID string) ([]billing.LoadEntry, error) {
	query := `
		SELECT id, business_id, entry_date, supplier_name, buy_price_per_kg, quantity_after_box
		FROM load_entries
		WHERE business_id = ?
		ORDER BY entry_date ASC, id ASC
	`
	return queryLoadEntries(ctx, ts.tx, query, businessID)
}

func (ts *txStore) ListLoadEntriesByDate(ctx context.Context, businessID, date string) ([]billing.LoadEntry, error) {
	query := `
		SELECT id, business_id, entry_date, supplier_name, buy_price_per_kg, quantity_after_box
		FROM load_entries
		WHERE business_id = ? AND entry_date = ?
		ORDER BY id ASC
	`
	return queryLoadEntries(ctx, ts.tx, query, businessID, date)
}

func (ts *txStore) GetBusinessInfo(ctx context.Context, businessID string) (*billing.BusinessInfo, error) {
	var info billing.BusinessInfo
	err := ts.tx.QueryRowContext(ctx,
		"SELECT business_id, name, address, gst_number, phone, email FROM business_info WHERE business_id = ?",
		businessID,
	).Scan(&info.BusinessID, &info.Name, &info.Address, &info.GSTNumber, &info.Phone, &info.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (ts *txStore) SaveBusinessInfo(ctx context.Context, info billing.BusinessInfo) error {
	query := `
		INSERT INTO business_info (business_id, name, address, gst_number, phone, email)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(business_id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			gst_number = excluded.gst_number,
			phone = excluded.phone,
			email = excluded.email
	`
	_, err := ts.tx.ExecContext(ctx, query,
		info.BusinessID, info.Name, info.Address, info.GSTNumber, info.Phone, info.Email,
	)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"bill_items", "bills", "customers", "load_entries", "business_info"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
