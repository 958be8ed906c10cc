package core

import "testing"

func setupTreasury(t *testing.T, s *AccountStore, owner Principal, now int64) {
	t.Helper()
	ctx := NewContext(now, owner)
	if _, err := InitializeTreasury(s, ctx, owner); err != nil {
		t.Fatalf("InitializeTreasury(%v) failed: %v", owner, err)
	}
}

// Scenario 1: happy-path invoice.
func TestInvoiceHappyPath(t *testing.T) {
	s := NewAccountStore()
	now := int64(1_000_000)
	setupTreasury(t, s, alice, now)
	s.Fund([32]byte(bob), 5_000_000)

	id := idFrom("invoice-0x11")
	createCtx := NewContext(now, alice)
	if _, err := CreateInvoice(s, createCtx, alice, id, 1_000_000, "service fee", now+3600); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	payCtx := NewContext(now+10, bob)
	inv, err := PayInvoice(s, payCtx, bob, id)
	if err != nil {
		t.Fatalf("PayInvoice failed: %v", err)
	}
	if inv.Status != InvoicePaid {
		t.Fatalf("expected Paid, got %v", inv.Status)
	}
	if !inv.HasPayer || inv.Payer != bob {
		t.Fatalf("expected payer=bob, got %+v", inv)
	}

	treasury, _, err := loadTreasury(s, alice)
	if err != nil {
		t.Fatalf("loadTreasury failed: %v", err)
	}
	if treasury.TotalReceived != 1_000_000 {
		t.Fatalf("expected total_received=1000000, got %d", treasury.TotalReceived)
	}
	if treasury.PendingInvoices != 0 {
		t.Fatalf("expected pending_invoices=0, got %d", treasury.PendingInvoices)
	}
	if bal := s.Balance([32]byte(bob)); bal != 4_000_000 {
		t.Fatalf("expected bob balance 4000000, got %d", bal)
	}
	if bal := s.Balance([32]byte(alice)); bal != 1_000_000 {
		t.Fatalf("expected alice balance 1000000, got %d", bal)
	}
}

// Scenario 2: expiry.
func TestInvoiceExpiry(t *testing.T) {
	s := NewAccountStore()
	now := int64(1_000_000)
	setupTreasury(t, s, alice, now)
	s.Fund([32]byte(bob), 5_000_000)

	id := idFrom("invoice-expiring")
	createCtx := NewContext(now, alice)
	if _, err := CreateInvoice(s, createCtx, alice, id, 1_000_000, "", now+3600); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	payCtx := NewContext(now+3601, bob)
	if _, err := PayInvoice(s, payCtx, bob, id); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	treasury, _, err := loadTreasury(s, alice)
	if err != nil {
		t.Fatalf("loadTreasury failed: %v", err)
	}
	if treasury.TotalReceived != 0 {
		t.Fatalf("treasury must be unchanged, got %+v", treasury)
	}
	if bal := s.Balance([32]byte(bob)); bal != 5_000_000 {
		t.Fatalf("bob's balance must be unchanged, got %d", bal)
	}
}

// Concurrent PayInvoice on the same Pending invoice: exactly one Paid.
func TestInvoiceDoublePayRejected(t *testing.T) {
	s := NewAccountStore()
	now := int64(1_000_000)
	setupTreasury(t, s, alice, now)
	s.Fund([32]byte(bob), 5_000_000)

	id := idFrom("invoice-double-pay")
	createCtx := NewContext(now, alice)
	if _, err := CreateInvoice(s, createCtx, alice, id, 100, "", now+3600); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	payCtx := NewContext(now+1, bob)
	if _, err := PayInvoice(s, payCtx, bob, id); err != nil {
		t.Fatalf("first PayInvoice failed: %v", err)
	}
	if _, err := PayInvoice(s, payCtx, bob, id); err != ErrNotPending {
		t.Fatalf("expected ErrNotPending on second pay, got %v", err)
	}
	if bal := s.Balance([32]byte(bob)); bal != 5_000_000-100 {
		t.Fatalf("bob debited once expected, got balance %d", bal)
	}
}

func TestCancelInvoice(t *testing.T) {
	s := NewAccountStore()
	now := int64(1_000_000)
	setupTreasury(t, s, alice, now)

	id := idFrom("invoice-cancel")
	ctx := NewContext(now, alice)
	if _, err := CreateInvoice(s, ctx, alice, id, 500, "", now+3600); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	inv, err := CancelInvoice(s, ctx, alice, id)
	if err != nil {
		t.Fatalf("CancelInvoice failed: %v", err)
	}
	if inv.Status != InvoiceCancelled {
		t.Fatalf("expected Cancelled, got %v", inv.Status)
	}
	treasury, _, _ := loadTreasury(s, alice)
	if treasury.PendingInvoices != 0 {
		t.Fatalf("expected pending_invoices=0 after cancel, got %d", treasury.PendingInvoices)
	}
	if _, err := CancelInvoice(s, ctx, alice, id); err != ErrNotPending {
		t.Fatalf("expected ErrNotPending re-cancelling, got %v", err)
	}
}

// Boundary B1.
func TestCreateInvoiceBoundaries(t *testing.T) {
	s := NewAccountStore()
	now := int64(1_000_000)
	setupTreasury(t, s, alice, now)
	ctx := NewContext(now, alice)

	if _, err := CreateInvoice(s, ctx, alice, idFrom("b1-zero"), 0, "", now+10); err != ErrBadAmount {
		t.Fatalf("expected ErrBadAmount, got %v", err)
	}

	longMemo := make([]byte, 257)
	for i := range longMemo {
		longMemo[i] = 'a'
	}
	if _, err := CreateInvoice(s, ctx, alice, idFrom("b1-memo"), 10, string(longMemo), now+10); err != ErrMemoTooLong {
		t.Fatalf("expected ErrMemoTooLong, got %v", err)
	}

	if _, err := CreateInvoice(s, ctx, alice, idFrom("b1-expiry"), 10, "", now); err != ErrExpiryInPast {
		t.Fatalf("expected ErrExpiryInPast, got %v", err)
	}
}

func TestCreateInvoiceRequiresTreasury(t *testing.T) {
	s := NewAccountStore()
	now := int64(1_000_000)
	ctx := NewContext(now, bob)
	if _, err := CreateInvoice(s, ctx, bob, idFrom("no-treasury"), 10, "", now+10); err != ErrNoTreasury {
		t.Fatalf("expected ErrNoTreasury, got %v", err)
	}
}
