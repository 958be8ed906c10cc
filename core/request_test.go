package core

import "testing"

func setupProvider(t *testing.T, s *AccountStore, provider Principal, now int64, capabilities []string, basePrice uint64) {
	t.Helper()
	setupTreasury(t, s, provider, now)
	ctx := NewContext(now, provider)
	if _, err := RegisterAgent(s, ctx, provider, "provider-bot", "", capabilities, basePrice); err != nil {
		t.Fatalf("RegisterAgent failed: %v", err)
	}
}

// Scenario 4: service happy path.
func TestServiceHappyPath(t *testing.T) {
	s := NewAccountStore()
	now := int64(3_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	reqID := idFrom("request-happy")
	reqCtx := NewContext(now, alice)
	req, err := RequestService(s, reqCtx, alice, reqID, bob, "scrape", 500, nil)
	if err != nil {
		t.Fatalf("RequestService failed: %v", err)
	}
	if req.Status != RequestPending {
		t.Fatalf("expected Pending, got %v", req.Status)
	}
	if bal := s.Balance([32]byte(alice)); bal != 1_000_000-500 {
		t.Fatalf("expected requester debited, got %d", bal)
	}

	completeCtx := NewContext(now+10, bob)
	resultHash := idFrom("result-hash")
	done, err := CompleteService(s, completeCtx, bob, reqID, resultHash)
	if err != nil {
		t.Fatalf("CompleteService failed: %v", err)
	}
	if done.Status != RequestCompleted {
		t.Fatalf("expected Completed, got %v", done.Status)
	}
	if !done.HasResultHash || done.ResultHash != resultHash {
		t.Fatalf("expected result hash recorded, got %+v", done)
	}
	if bal := s.Balance([32]byte(bob)); bal != 500 {
		t.Fatalf("expected provider credited 500, got %d", bal)
	}

	profile, err := GetAgentProfile(s, bob)
	if err != nil {
		t.Fatalf("GetAgentProfile failed: %v", err)
	}
	if profile.TotalRequests != 1 || profile.TotalEarnings != 500 {
		t.Fatalf("unexpected profile stats: %+v", profile)
	}
}

func TestRequestServiceRejectsUnknownCapability(t *testing.T) {
	s := NewAccountStore()
	now := int64(3_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	ctx := NewContext(now, alice)
	if _, err := RequestService(s, ctx, alice, idFrom("req-bad-cap"), bob, "summarize", 500, nil); err != ErrUnknownCapability {
		t.Fatalf("expected ErrUnknownCapability, got %v", err)
	}
}

func TestRequestServiceRejectsPriceBelowMinimum(t *testing.T) {
	s := NewAccountStore()
	now := int64(3_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 1000)
	s.Fund([32]byte(alice), 1_000_000)

	ctx := NewContext(now, alice)
	if _, err := RequestService(s, ctx, alice, idFrom("req-low-price"), bob, "scrape", 100, nil); err != ErrPriceBelowMinimum {
		t.Fatalf("expected ErrPriceBelowMinimum, got %v", err)
	}
}

func TestRequestServiceRejectsInactiveProvider(t *testing.T) {
	s := NewAccountStore()
	now := int64(3_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	inactive := false
	updateCtx := NewContext(now, bob)
	if _, err := UpdateProfile(s, updateCtx, bob, ProfileUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	ctx := NewContext(now+1, alice)
	if _, err := RequestService(s, ctx, alice, idFrom("req-inactive"), bob, "scrape", 500, nil); err != ErrProviderInactive {
		t.Fatalf("expected ErrProviderInactive, got %v", err)
	}
}

func TestCompleteServiceRejectsNonProvider(t *testing.T) {
	s := NewAccountStore()
	now := int64(3_000_000)
	setupProvider(t, s, bob, now, []string{"scrape"}, 100)
	s.Fund([32]byte(alice), 1_000_000)

	reqID := idFrom("req-wrong-caller")
	reqCtx := NewContext(now, alice)
	if _, err := RequestService(s, reqCtx, alice, reqID, bob, "scrape", 500, nil); err != nil {
		t.Fatalf("RequestService failed: %v", err)
	}

	completeCtx := NewContext(now+1, alice)
	if _, err := CompleteService(s, completeCtx, alice, reqID, idFrom("hash")); err != ErrNotParty {
		t.Fatalf("expected ErrNotParty, got %v", err)
	}
}
