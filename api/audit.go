/*
audit.go - Background balance auditor

PURPOSE:
  Periodically cross-checks every customer's stored balance against the
  BalanceAmount of their most recent bill. The two are maintained
  together inside one transaction, so any drift means external data
  tampering or a storage defect - worth logging loudly, never worth
  crashing over.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Walk-in bills are skipped (no tracked balance to audit)
  - Drift beyond the one-cent tolerance is logged as a warning
  - Read-only: the auditor never repairs, a human decides

USAGE:
  auditor := NewBalanceAuditor(store, "default")
  auditor.Start()
  // ... later
  auditor.Stop()

SEE ALSO:
  - billing/errors.go: ConsistencyWarning
  - billing/ledger.go: The commit that keeps the two values in sync
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopbill/billing-engine/billing"
)

// BalanceAuditor verifies the running-balance invariant in the background.
type BalanceAuditor struct {
	Store         billing.Store
	BusinessID    string
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewBalanceAuditor creates a new auditor for one business.
func NewBalanceAuditor(store billing.Store, businessID string) *BalanceAuditor {
	return &BalanceAuditor{
		Store:         store,
		BusinessID:    businessID,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the auditor.
func (ba *BalanceAuditor) Start() {
	ba.mu.Lock()
	defer ba.mu.Unlock()

	if !ba.Enabled {
		log.Println("[Auditor] Disabled, not starting")
		return
	}

	ba.ticker = time.NewTicker(ba.CheckInterval)
	ba.wg.Add(1)

	go ba.run()

	log.Printf("[Auditor] Started with check interval: %v", ba.CheckInterval)
}

// Stop stops the auditor.
func (ba *BalanceAuditor) Stop() {
	ba.mu.Lock()
	defer ba.mu.Unlock()

	if ba.ticker != nil {
		ba.ticker.Stop()
		close(ba.stop)
		ba.wg.Wait()
		log.Println("[Auditor] Stopped")
	}
}

func (ba *BalanceAuditor) run() {
	defer ba.wg.Done()

	// Run immediately on start
	ba.checkOnce()

	for {
		select {
		case <-ba.ticker.C:
			ba.checkOnce()
		case <-ba.stop:
			return
		}
	}
}

func (ba *BalanceAuditor) checkOnce() {
	warnings, err := ba.Audit(context.Background())
	if err != nil {
		log.Printf("[Auditor] Audit failed: %v", err)
		return
	}
	for _, w := range warnings {
		log.Printf("[Auditor] WARNING: %v (drift %s)", w, w.Drift())
	}
	if len(warnings) == 0 {
		log.Println("[Auditor] All customer balances consistent")
	}
}

// Audit compares each customer's stored balance with the BalanceAmount
// of their latest bill and returns a warning per drifted customer.
func (ba *BalanceAuditor) Audit(ctx context.Context) ([]*billing.ConsistencyWarning, error) {
	customers, err := ba.Store.ListCustomers(ctx, ba.BusinessID)
	if err != nil {
		return nil, &billing.PersistenceError{Op: "read customers", Err: err}
	}
	bills, err := ba.Store.ListBills(ctx, ba.BusinessID)
	if err != nil {
		return nil, &billing.PersistenceError{Op: "read bills", Err: err}
	}

	// Bills come back in commit order, so the last bill per customer wins.
	latest := make(map[string]billing.Bill)
	for _, b := range bills {
		if billing.IsWalkInName(b.Customer) {
			continue
		}
		latest[b.Customer] = b
	}

	tolerance := billing.MustParseMoney("0.01")

	var warnings []*billing.ConsistencyWarning
	for _, c := range customers {
		last, ok := latest[c.Name]
		if !ok {
			// No bills yet: a nonzero balance has no ledger backing.
			if !c.Balance.IsZero() {
				warnings = append(warnings, &billing.ConsistencyWarning{
					Customer:      c.Name,
					Cached:        c.Balance,
					Authoritative: billing.ZeroMoney(),
				})
			}
			continue
		}
		if c.Balance.Sub(last.BalanceAmount).Abs().GreaterThan(tolerance) {
			warnings = append(warnings, &billing.ConsistencyWarning{
				Customer:      c.Name,
				Cached:        c.Balance,
				Authoritative: last.BalanceAmount,
			})
		}
	}
	return warnings, nil
}

// RunNow triggers an immediate check (for testing/admin).
func (ba *BalanceAuditor) RunNow() {
	ba.checkOnce()
}
