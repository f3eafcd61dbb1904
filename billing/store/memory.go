// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/shopbill/billing-engine/billing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	customers    map[customerKey]billing.Customer
	bills        map[string][]billing.Bill // keyed by business ID, insertion order
	billIDs      map[string]bool
	loadEntries  map[string][]billing.LoadEntry
	nextEntryID  int64
	businessInfo map[string]billing.BusinessInfo
}

type customerKey struct {
	BusinessID string
	Name       string
}

func NewMemory() *Memory {
	return &Memory{
		customers:    make(map[customerKey]billing.Customer),
		bills:        make(map[string][]billing.Bill),
		billIDs:      make(map[string]bool),
		loadEntries:  make(map[string][]billing.LoadEntry),
		businessInfo: make(map[string]billing.BusinessInfo),
	}
}

// Customers

func (m *Memory) GetCustomer(_ context.Context, businessID, name string) (*billing.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCustomerLocked(businessID, name), nil
}

func (m *Memory) getCustomerLocked(businessID, name string) *billing.Customer {
	if c, ok := m.customers[customerKey{businessID, name}]; ok {
		out := c
		return &out
	}
	return nil
}

func (m *Memory) GetCustomerByPhone(_ context.Context, businessID, phone string) (*billing.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, c := range m.customers {
		if k.BusinessID == businessID && c.Phone == phone {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListCustomers(_ context.Context, businessID string) ([]billing.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []billing.Customer
	for k, c := range m.customers {
		if k.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) UpsertCustomer(_ context.Context, c billing.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCustomerLocked(c)
	return nil
}

func (m *Memory) upsertCustomerLocked(c billing.Customer) {
	m.customers[customerKey{c.BusinessID, c.Name}] = c
}

func (m *Memory) UpdateCustomerBalance(_ context.Context, businessID, name, phone string, balance billing.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateBalanceLocked(businessID, name, phone, balance)
}

func (m *Memory) updateBalanceLocked(businessID, name, phone string, balance billing.Money) error {
	k := customerKey{businessID, name}
	c, ok := m.customers[k]
	if !ok {
		c = billing.Customer{Name: name, Phone: phone, BusinessID: businessID}
	}
	c.Balance = balance
	m.customers[k] = c
	return nil
}

// Bills

func (m *Memory) InsertBill(_ context.Context, bill billing.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertBillLocked(bill)
}

func (m *Memory) insertBillLocked(bill billing.Bill) error {
	if m.billIDs[bill.ID] {
		return billing.ErrDuplicateBill
	}
	for _, b := range m.bills[bill.BusinessID] {
		if b.BillNumber == bill.BillNumber {
			return billing.ErrDuplicateBillNumber
		}
	}
	m.billIDs[bill.ID] = true
	m.bills[bill.BusinessID] = append(m.bills[bill.BusinessID], bill)
	return nil
}

func (m *Memory) ListBills(_ context.Context, businessID string) ([]billing.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]billing.Bill, len(m.bills[businessID]))
	copy(out, m.bills[businessID])
	return out, nil
}

func (m *Memory) ListBillsByDate(_ context.Context, businessID, date string) ([]billing.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []billing.Bill
	for _, b := range m.bills[businessID] {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *Memory) GetBillByNumber(_ context.Context, businessID, billNumber string) (*billing.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bills[businessID] {
		if b.BillNumber == billNumber {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

// Load entries

func (m *Memory) InsertLoadEntry(_ context.Context, e billing.LoadEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEntryID++
	e.ID = m.nextEntryID
	m.loadEntries[e.BusinessID] = append(m.loadEntries[e.BusinessID], e)
	return e.ID, nil
}

func (m *Memory) ListLoadEntries(_ context.Context, businessID string) ([]billing.LoadEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]billing.LoadEntry, len(m.loadEntries[businessID]))
	copy(out, m.loadEntries[businessID])
	return out, nil
}

func (m *Memory) ListLoadEntriesByDate(_ context.Context, businessID, date string) ([]billing.LoadEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []billing.LoadEntry
	for _, e := range m.loadEntries[businessID] {
		if e.EntryDate == date {
			out = append(out, e)
		}
	}
	return out, nil
}

// Business info

func (m *Memory) GetBusinessInfo(_ context.Context, businessID string) (*billing.BusinessInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if info, ok := m.businessInfo[businessID]; ok {
		out := info
		return &out, nil
	}
	return nil, nil
}

func (m *Memory) SaveBusinessInfo(_ context.Context, info billing.BusinessInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.businessInfo[info.BusinessID] = info
	return nil
}

// =============================================================================
// TRANSACTION SUPPORT
// =============================================================================

// WithTx executes fn atomically. For the memory store this is simulated
// with a snapshot + rollback on error, under the write lock, which also
// serializes commits the way the SQLite store does.
func (m *Memory) WithTx(ctx context.Context, fn func(billing.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()

	if err := fn(&txView{parent: m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	customers   map[customerKey]billing.Customer
	bills       map[string][]billing.Bill
	billIDs     map[string]bool
	loadEntries map[string][]billing.LoadEntry
	nextEntryID int64
	info        map[string]billing.BusinessInfo
}

func (m *Memory) snapshot() memorySnapshot {
	s := memorySnapshot{
		customers:   make(map[customerKey]billing.Customer, len(m.customers)),
		bills:       make(map[string][]billing.Bill, len(m.bills)),
		billIDs:     make(map[string]bool, len(m.billIDs)),
		loadEntries: make(map[string][]billing.LoadEntry, len(m.loadEntries)),
		nextEntryID: m.nextEntryID,
		info:        make(map[string]billing.BusinessInfo, len(m.businessInfo)),
	}
	for k, v := range m.customers {
		s.customers[k] = v
	}
	for k, v := range m.bills {
		s.bills[k] = append([]billing.Bill{}, v...)
	}
	for k, v := range m.billIDs {
		s.billIDs[k] = v
	}
	for k, v := range m.loadEntries {
		s.loadEntries[k] = append([]billing.LoadEntry{}, v...)
	}
	for k, v := range m.businessInfo {
		s.info[k] = v
	}
	return s
}

func (m *Memory) restore(s memorySnapshot) {
	m.customers = s.customers
	m.bills = s.bills
	m.billIDs = s.billIDs
	m.loadEntries = s.loadEntries
	m.nextEntryID = s.nextEntryID
	m.businessInfo = s.info
}

// txView routes writes to the parent's locked helpers. The parent's
// write lock is already held by WithTx.
type txView struct {
	parent *Memory
}

func (tv *txView) GetCustomer(_ context.Context, businessID, name string) (*billing.Customer, error) {
	return tv.parent.getCustomerLocked(businessID, name), nil
}

func (tv *txView) GetCustomerByPhone(_ context.Context, businessID, phone string) (*billing.Customer, error) {
	for k, c := range tv.parent.customers {
		if k.BusinessID == businessID && c.Phone == phone {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (tv *txView) ListCustomers(_ context.Context, businessID string) ([]billing.Customer, error) {
	var out []billing.Customer
	for k, c := range tv.parent.customers {
		if k.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (tv *txView) UpsertCustomer(_ context.Context, c billing.Customer) error {
	tv.parent.upsertCustomerLocked(c)
	return nil
}

func (tv *txView) UpdateCustomerBalance(_ context.Context, businessID, name, phone string, balance billing.Money) error {
	return tv.parent.updateBalanceLocked(businessID, name, phone, balance)
}

func (tv *txView) InsertBill(_ context.Context, bill billing.Bill) error {
	return tv.parent.insertBillLocked(bill)
}

func (tv *txView) ListBills(_ context.Context, businessID string) ([]billing.Bill, error) {
	return tv.parent.bills[businessID], nil
}

func (tv *txView) ListBillsByDate(_ context.Context, businessID, date string) ([]billing.Bill, error) {
	var out []billing.Bill
	for _, b := range tv.parent.bills[businessID] {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (tv *txView) GetBillByNumber(_ context.Context, businessID, billNumber string) (*billing.Bill, error) {
	for _, b := range tv.parent.bills[businessID] {
		if b.BillNumber == billNumber {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (tv *txView) InsertLoadEntry(_ context.Context, e billing.LoadEntry) (int64, error) {
	tv.parent.nextEntryID++
	e.ID = tv.parent.nextEntryID
	tv.parent.loadEntries[e.BusinessID] = append(tv.parent.loadEntries[e.BusinessID], e)
	return e.ID, nil
}

func (tv *txView) ListLoadEntries(_ context.Context, businessID string) ([]billing.LoadEntry, error) {
	return tv.parent.loadEntries[businessID], nil
}

func (tv *txView) ListLoadEntriesByDate(_ context.Context, businessID, date string) ([]billing.LoadEntry, error) {
	var out []billing.LoadEntry
	for _, e := range tv.parent.loadEntries[businessID] {
		if e.EntryDate == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (tv *txView) GetBusinessInfo(_ context.Context, businessID string) (*billing.BusinessInfo, error) {
	if info, ok := tv.parent.businessInfo[businessID]; ok {
		out := info
		return &out, nil
	}
	return nil, nil
}

func (tv *txView) SaveBusinessInfo(_ context.Context, info billing.BusinessInfo) error {
	tv.parent.businessInfo[info.BusinessID] = info
	return nil
}
