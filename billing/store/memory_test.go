package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbill/billing-engine/billing"
)

func money(s string) billing.Money { return billing.MustParseMoney(s) }

func memBill(id, number, businessID string) billing.Bill {
	return billing.Bill{
		ID:         id,
		BillNumber: number,
		Customer:   "Hotel Annapurna",
		Date:       "2026-08-28",
		BusinessID: businessID,
	}
}

func TestMemory_DuplicateDiscrimination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.InsertBill(ctx, memBill("bill-1", "123456", "biz")))

	assert.ErrorIs(t, m.InsertBill(ctx, memBill("bill-1", "654321", "biz")), billing.ErrDuplicateBill)
	assert.ErrorIs(t, m.InsertBill(ctx, memBill("bill-2", "123456", "biz")), billing.ErrDuplicateBillNumber)

	// The same number in another business is fine.
	assert.NoError(t, m.InsertBill(ctx, memBill("bill-3", "123456", "other")))
}

func TestMemory_WithTx_RollbackRestoresEverything(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.InsertBill(ctx, memBill("bill-1", "100001", "biz")))
	require.NoError(t, m.UpdateCustomerBalance(ctx, "biz", "Hotel Annapurna", "", money("100")))

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(s billing.Store) error {
		if err := s.InsertBill(ctx, memBill("bill-2", "100002", "biz")); err != nil {
			return err
		}
		if err := s.UpdateCustomerBalance(ctx, "biz", "Hotel Annapurna", "", money("500")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	bills, err := m.ListBills(ctx, "biz")
	require.NoError(t, err)
	assert.Len(t, bills, 1, "rolled-back bill must not persist")

	c, err := m.GetCustomer(ctx, "biz", "Hotel Annapurna")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.Balance.Equal(money("100")), "balance restored on rollback")

	// The bill ID freed by the rollback is usable again.
	assert.NoError(t, m.InsertBill(ctx, memBill("bill-2", "100002", "biz")))
}

func TestMemory_WithTx_CommitKeepsWrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.WithTx(ctx, func(s billing.Store) error {
		if err := s.InsertBill(ctx, memBill("bill-1", "100001", "biz")); err != nil {
			return err
		}
		return s.UpdateCustomerBalance(ctx, "biz", "Hotel Annapurna", "9876501234", money("250"))
	})
	require.NoError(t, err)

	c, err := m.GetCustomer(ctx, "biz", "Hotel Annapurna")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.Balance.Equal(money("250")))

	got, err := m.GetBillByNumber(ctx, "biz", "100001")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemory_WithTx_ReadsSeeUncommittedWrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.WithTx(ctx, func(s billing.Store) error {
		if err := s.InsertBill(ctx, memBill("bill-1", "100001", "biz")); err != nil {
			return err
		}
		inside, err := s.GetBillByNumber(ctx, "biz", "100001")
		if err != nil {
			return err
		}
		if inside == nil {
			return errors.New("write not visible inside transaction")
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestMemory_LoadEntryIDsAreSequential(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	entry := billing.LoadEntry{EntryDate: "2026-08-28", BuyPricePerKg: money("145"), BusinessID: "biz"}

	id1, err := m.InsertLoadEntry(ctx, entry)
	require.NoError(t, err)
	id2, err := m.InsertLoadEntry(ctx, entry)
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}
