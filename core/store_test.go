package core

import (
	"path/filepath"
	"testing"

	"github.com/tigurius/agentfund-protocol/internal/testutil"
)

func TestAccountStorePersistsAcrossReplay(t *testing.T) {
	sandbox, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sandbox.Cleanup()
	walPath := filepath.Join(sandbox.Root, "agentfund.wal")

	s, err := OpenAccountStore(walPath)
	if err != nil {
		t.Fatalf("OpenAccountStore failed: %v", err)
	}
	s.Fund([32]byte(alice), 1_000)

	now := int64(9_000_000)
	ctx := NewContext(now, alice)
	if _, err := InitializeTreasury(s, ctx, alice); err != nil {
		t.Fatalf("InitializeTreasury failed: %v", err)
	}
	id := idFrom("wal-invoice")
	if _, err := CreateInvoice(s, ctx, alice, id, 100, "replay-check", now+3600); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	reopened, err := OpenAccountStore(walPath)
	if err != nil {
		t.Fatalf("OpenAccountStore (reopen) failed: %v", err)
	}
	defer reopened.Shutdown()

	treasury, _, err := loadTreasury(reopened, alice)
	if err != nil {
		t.Fatalf("loadTreasury after replay failed: %v", err)
	}
	if treasury.PendingInvoices != 1 {
		t.Fatalf("expected pending_invoices=1 after replay, got %d", treasury.PendingInvoices)
	}

	getCtx := NewContext(now+10, alice)
	inv, err := GetInvoice(reopened, getCtx, id)
	if err != nil {
		t.Fatalf("GetInvoice after replay failed: %v", err)
	}
	if inv.Memo != "replay-check" || inv.Amount != 100 {
		t.Fatalf("invoice data did not survive replay: %+v", inv)
	}
}
