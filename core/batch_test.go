package core

import "testing"

func payInvoice(t *testing.T, s *AccountStore, recipient Principal, id [32]byte, amount uint64, payer Principal, now int64) {
	t.Helper()
	createCtx := NewContext(now, recipient)
	if _, err := CreateInvoice(s, createCtx, recipient, id, amount, "", now+100_000); err != nil {
		t.Fatalf("CreateInvoice(%x) failed: %v", id, err)
	}
	payCtx := NewContext(now+1, payer)
	if _, err := PayInvoice(s, payCtx, payer, id); err != nil {
		t.Fatalf("PayInvoice(%x) failed: %v", id, err)
	}
}

// Scenario 3: batch of three.
func TestSettleBatchOfThree(t *testing.T) {
	s := NewAccountStore()
	now := int64(2_000_000)
	setupTreasury(t, s, alice, now)
	s.Fund([32]byte(bob), 10_000_000)

	ids := [][32]byte{idFrom("batch-inv-1"), idFrom("batch-inv-2"), idFrom("batch-inv-3")}
	amounts := []uint64{100, 200, 300}
	for i, id := range ids {
		payInvoice(t, s, alice, id, amounts[i], bob, now)
	}

	ctx := NewContext(now+10, alice)
	batch, err := SettleBatch(s, ctx, alice, idFrom("batch-settlement-1"), alice, ids, 600)
	if err != nil {
		t.Fatalf("SettleBatch failed: %v", err)
	}
	if batch.TotalAmount != 600 {
		t.Fatalf("expected total 600, got %d", batch.TotalAmount)
	}

	treasury, _, err := loadTreasury(s, alice)
	if err != nil {
		t.Fatalf("loadTreasury failed: %v", err)
	}
	if treasury.TotalSettled != 600 {
		t.Fatalf("expected total_settled=600, got %d", treasury.TotalSettled)
	}
}

func TestSettleBatchSumMismatch(t *testing.T) {
	s := NewAccountStore()
	now := int64(2_000_000)
	setupTreasury(t, s, alice, now)
	s.Fund([32]byte(bob), 10_000_000)

	id := idFrom("batch-mismatch")
	payInvoice(t, s, alice, id, 100, bob, now)

	ctx := NewContext(now+10, alice)
	if _, err := SettleBatch(s, ctx, alice, idFrom("batch-settlement-2"), alice, [][32]byte{id}, 999); err != ErrSumMismatch {
		t.Fatalf("expected ErrSumMismatch, got %v", err)
	}
}

func TestSettleBatchRejectsUnpaidInvoice(t *testing.T) {
	s := NewAccountStore()
	now := int64(2_000_000)
	setupTreasury(t, s, alice, now)

	id := idFrom("batch-unpaid")
	createCtx := NewContext(now, alice)
	if _, err := CreateInvoice(s, createCtx, alice, id, 100, "", now+10_000); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	ctx := NewContext(now+1, alice)
	if _, err := SettleBatch(s, ctx, alice, idFrom("batch-settlement-3"), alice, [][32]byte{id}, 100); err != ErrInvoiceNotPaid {
		t.Fatalf("expected ErrInvoiceNotPaid, got %v", err)
	}
}

func TestSettleBatchRejectsDoubleSettlement(t *testing.T) {
	s := NewAccountStore()
	now := int64(2_000_000)
	setupTreasury(t, s, alice, now)
	s.Fund([32]byte(bob), 10_000_000)

	id := idFrom("batch-double")
	payInvoice(t, s, alice, id, 100, bob, now)

	ctx := NewContext(now+10, alice)
	if _, err := SettleBatch(s, ctx, alice, idFrom("batch-settlement-first"), alice, [][32]byte{id}, 100); err != nil {
		t.Fatalf("first SettleBatch failed: %v", err)
	}

	ctx2 := NewContext(now+20, alice)
	if _, err := SettleBatch(s, ctx2, alice, idFrom("batch-settlement-second"), alice, [][32]byte{id}, 100); err != ErrAlreadySettled {
		t.Fatalf("expected ErrAlreadySettled on re-settlement, got %v", err)
	}

	treasury, _, err := loadTreasury(s, alice)
	if err != nil {
		t.Fatalf("loadTreasury failed: %v", err)
	}
	if treasury.TotalSettled != 100 {
		t.Fatalf("expected total_settled to advance only once (100), got %d", treasury.TotalSettled)
	}
}

// Boundary B2: batch size limits.
func TestSettleBatchSizeBoundaries(t *testing.T) {
	s := NewAccountStore()
	now := int64(2_000_000)
	setupTreasury(t, s, alice, now)
	ctx := NewContext(now, alice)

	if _, err := SettleBatch(s, ctx, alice, idFrom("batch-empty"), alice, nil, 0); err != ErrEmptyBatch {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}

	tooMany := make([][32]byte, MaxBatch+1)
	for i := range tooMany {
		tooMany[i] = idFrom("nonexistent")
	}
	if _, err := SettleBatch(s, ctx, alice, idFrom("batch-toobig"), alice, tooMany, 0); err != ErrBatchTooLarge {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}
