package core

import "testing"

func openServiceRequest(t *testing.T, s *AccountStore, requester, provider Principal, reqID [32]byte, amount uint64, now int64, arbiter *Principal) {
	t.Helper()
	ctx := NewContext(now, requester)
	if _, err := RequestService(s, ctx, requester, reqID, provider, "scrape", amount, arbiter); err != nil {
		t.Fatalf("RequestService failed: %v", err)
	}
}

// Scenario 5: dispute then refund, direction-gated authority (no arbiter set).
func TestDisputeThenRefund(t *testing.T) {
	s := NewAccountStore()
	now := int64(4_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	reqID := idFrom("req-dispute-refund")
	openServiceRequest(t, s, alice, bob, reqID, 500, now, nil)

	disputeCtx := NewContext(now+10, alice)
	disp, err := InitiateDispute(s, disputeCtx, alice, reqID)
	if err != nil {
		t.Fatalf("InitiateDispute failed: %v", err)
	}
	if disp.Initiator != alice {
		t.Fatalf("expected initiator=alice, got %v", disp.Initiator)
	}

	// Requester may only refund itself when no arbiter is designated.
	resolveCtx := NewContext(now+20, alice)
	req, resolved, err := ResolveDispute(s, resolveCtx, alice, reqID, Resolution{Kind: ResolutionRefundRequester})
	if err != nil {
		t.Fatalf("ResolveDispute failed: %v", err)
	}
	if req.Status != RequestRefunded {
		t.Fatalf("expected Refunded, got %v", req.Status)
	}
	if resolved.Resolution.Kind != ResolutionRefundRequester {
		t.Fatalf("expected recorded resolution RefundRequester, got %+v", resolved.Resolution)
	}
	if bal := s.Balance([32]byte(alice)); bal != 1_000_000 {
		t.Fatalf("expected requester refunded in full, got %d", bal)
	}
}

func TestDisputeRequesterCannotPayProvider(t *testing.T) {
	s := NewAccountStore()
	now := int64(4_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	reqID := idFrom("req-dispute-unauthorized")
	openServiceRequest(t, s, alice, bob, reqID, 500, now, nil)
	disputeCtx := NewContext(now+10, alice)
	if _, err := InitiateDispute(s, disputeCtx, alice, reqID); err != nil {
		t.Fatalf("InitiateDispute failed: %v", err)
	}

	resolveCtx := NewContext(now+20, alice)
	if _, _, err := ResolveDispute(s, resolveCtx, alice, reqID, Resolution{Kind: ResolutionPayProvider}); err != ErrNotArbiter {
		t.Fatalf("expected ErrNotArbiter, got %v", err)
	}
}

// Designated arbiter overrides direction-gating.
func TestDisputeDesignatedArbiterSplit(t *testing.T) {
	s := NewAccountStore()
	now := int64(4_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)
	arbiter := principalFrom("arbiter-principal-00000000000000")

	reqID := idFrom("req-dispute-arbiter")
	openServiceRequest(t, s, alice, bob, reqID, 501, now, &arbiter)

	disputeCtx := NewContext(now+10, bob)
	if _, err := InitiateDispute(s, disputeCtx, bob, reqID); err != nil {
		t.Fatalf("InitiateDispute failed: %v", err)
	}

	resolveCtx := NewContext(now+20, arbiter)
	req, _, err := ResolveDispute(s, resolveCtx, arbiter, reqID, Resolution{Kind: ResolutionSplit, RatioNum: 1, RatioDen: 2})
	if err != nil {
		t.Fatalf("ResolveDispute failed: %v", err)
	}
	if req.Status != RequestCompleted {
		t.Fatalf("expected Completed after split, got %v", req.Status)
	}
	providerBal := s.Balance([32]byte(bob))
	requesterRefund := s.Balance([32]byte(alice)) - (1_000_000 - 501)
	if providerBal+requesterRefund != 501 {
		t.Fatalf("split payouts must sum exactly to amount: provider=%d requesterRefund=%d", providerBal, requesterRefund)
	}
	if providerBal != 250 {
		t.Fatalf("expected provider payout floor(501/2)=250, got %d", providerBal)
	}
}

// Scenario 6: dispute window expired.
func TestDisputeWindowExpired(t *testing.T) {
	s := NewAccountStore()
	now := int64(4_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	reqID := idFrom("req-dispute-expired")
	openServiceRequest(t, s, alice, bob, reqID, 500, now, nil)

	lateCtx := NewContext(now+DisputeWindow+1, alice)
	if _, err := InitiateDispute(s, lateCtx, alice, reqID); err != ErrWindowExpired {
		t.Fatalf("expected ErrWindowExpired, got %v", err)
	}
}

func TestInitiateDisputeRejectsNonParty(t *testing.T) {
	s := NewAccountStore()
	now := int64(4_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	reqID := idFrom("req-dispute-nonparty")
	openServiceRequest(t, s, alice, bob, reqID, 500, now, nil)

	ctx := NewContext(now+1, principalFrom("outsider"))
	if _, err := InitiateDispute(s, ctx, principalFrom("outsider"), reqID); err != ErrNotParty {
		t.Fatalf("expected ErrNotParty, got %v", err)
	}
}
