package core

// RequestStatus is the Service Request lifecycle state (spec §3).
type RequestStatus uint8

const (
	RequestPending RequestStatus = iota
	RequestInProgress
	RequestCompleted
	RequestDisputed
	RequestRefunded
)

// ServiceRequest is the request/escrow/deliver/dispute record of spec §3.
// Arbiter is the designated-arbiter policy decided in SPEC_FULL.md's Open
// Question 2: when set, only Arbiter may resolve a dispute; when unset,
// ResolveDispute falls back to direction-gated authority (requester may
// only refund, provider may only pay/split).
type ServiceRequest struct {
	ID             [32]byte
	Requester      Principal
	Provider       Principal
	Capability     string
	Amount         uint64
	Status         RequestStatus
	CreatedAt      int64
	HasCompletedAt bool
	CompletedAt    int64
	HasResultHash  bool
	ResultHash     [32]byte
	HasArbiter     bool
	Arbiter        Principal
}

func (r *ServiceRequest) encode() []byte {
	e := newEncoder(ClassServiceRequest)
	e.raw32(r.ID)
	e.raw32([32]byte(r.Requester))
	e.raw32([32]byte(r.Provider))
	e.str(r.Capability)
	e.u64(r.Amount)
	e.u8(uint8(r.Status))
	e.i64(r.CreatedAt)
	e.boolFlag(r.HasCompletedAt)
	e.i64(r.CompletedAt)
	e.boolFlag(r.HasResultHash)
	e.raw32(r.ResultHash)
	e.boolFlag(r.HasArbiter)
	e.raw32([32]byte(r.Arbiter))
	return e.bytesOut()
}

func decodeServiceRequest(data []byte) (*ServiceRequest, error) {
	d := newDecoder(data, ClassServiceRequest)
	r := &ServiceRequest{
		ID:         d.raw32(),
		Requester:  Principal(d.raw32()),
		Provider:   Principal(d.raw32()),
		Capability: d.str(),
		Amount:     d.u64(),
		Status:     RequestStatus(d.u8()),
		CreatedAt:  d.i64(),
	}
	r.HasCompletedAt = d.boolFlag()
	r.CompletedAt = d.i64()
	r.HasResultHash = d.boolFlag()
	r.ResultHash = d.raw32()
	r.HasArbiter = d.boolFlag()
	r.Arbiter = Principal(d.raw32())
	if d.fail() {
		return nil, d.err
	}
	return r, nil
}

// Escrow is the program-controlled value-holding record bound to one
// Service Request (spec §3).
type Escrow struct {
	RequestID [32]byte
	Amount    uint64
}

func (e *Escrow) encode() []byte {
	enc := newEncoder(ClassEscrow)
	enc.raw32(e.RequestID)
	enc.u64(e.Amount)
	return enc.bytesOut()
}

func decodeEscrow(data []byte) (*Escrow, error) {
	d := newDecoder(data, ClassEscrow)
	e := &Escrow{RequestID: d.raw32(), Amount: d.u64()}
	if d.fail() {
		return nil, d.err
	}
	return e, nil
}

// RequestService opens a Service Request against an active provider
// offering capability, escrowing amount from requester. arbiter is
// optional (pass nil for none); when set it becomes the sole authority
// ResolveDispute will accept for this request, per SPEC_FULL.md's Open
// Question 2.
func RequestService(s *AccountStore, ctx *Context, requester Principal, requestID [32]byte, provider Principal, capability string, amount uint64, arbiter *Principal) (*ServiceRequest, error) {
	if err := ctx.RequireSigner(requester); err != nil {
		return nil, err
	}
	profile, err := GetAgentProfile(s, provider)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrProviderInactive
	}
	found := false
	for _, c := range profile.Capabilities {
		if c == capability {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnknownCapability
	}
	if amount < profile.BasePrice {
		return nil, ErrPriceBelowMinimum
	}

	reqAddr, _, err := DeriveRequest(requestID)
	if err != nil {
		return nil, err
	}
	escrowAddr, _, err := DeriveEscrow(requestID)
	if err != nil {
		return nil, err
	}

	req := &ServiceRequest{
		ID:         requestID,
		Requester:  requester,
		Provider:   provider,
		Capability: capability,
		Amount:     amount,
		Status:     RequestPending,
		CreatedAt:  ctx.Now,
	}
	if arbiter != nil {
		req.HasArbiter = true
		req.Arbiter = *arbiter
	}
	if err := s.Create(reqAddr, ClassServiceRequest, req.encode(), [32]byte(requester)); err != nil {
		return nil, err
	}

	esc := &Escrow{RequestID: requestID, Amount: amount}
	if err := s.Create(escrowAddr, ClassEscrow, esc.encode(), [32]byte(requester)); err != nil {
		return nil, err
	}
	if err := s.TransferValue([32]byte(requester), [32]byte(escrowAddr), amount); err != nil {
		return nil, err
	}

	ctx.Emit("RequestService", requestID)
	ctx.Log.WithField("request", reqAddr.String()).Debug("service requested")
	return req, nil
}

// CompleteService finalizes a Service Request the provider has delivered
// against, draining its Escrow to the provider.
func CompleteService(s *AccountStore, ctx *Context, provider Principal, requestID [32]byte, resultHash [32]byte) (*ServiceRequest, error) {
	if err := ctx.RequireSigner(provider); err != nil {
		return nil, err
	}
	reqAddr, _, err := DeriveRequest(requestID)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(reqAddr, ClassServiceRequest)
	if err != nil {
		return nil, err
	}
	req, err := decodeServiceRequest(data)
	if err != nil {
		return nil, err
	}
	if req.Provider != provider {
		return nil, ErrNotParty
	}
	if req.Status != RequestPending && req.Status != RequestInProgress {
		return nil, ErrAlreadyTerminal
	}

	escrowAddr, _, err := DeriveEscrow(requestID)
	if err != nil {
		return nil, err
	}
	if err := drainEscrow(s, escrowAddr, req.Requester, 0, provider, req.Amount); err != nil {
		return nil, err
	}

	req.Status = RequestCompleted
	req.HasCompletedAt = true
	req.CompletedAt = ctx.Now
	req.HasResultHash = true
	req.ResultHash = resultHash
	if err := s.Write(reqAddr, ClassServiceRequest, req.encode()); err != nil {
		return nil, err
	}

	if err := creditProviderEarnings(s, ctx, provider, req.Amount); err != nil {
		return nil, err
	}

	ctx.Emit("CompleteService", requestID)
	ctx.Log.WithField("request", reqAddr.String()).Debug("service completed")
	return req, nil
}

// drainEscrow transfers requesterShare to requester and providerShare to
// provider out of the Escrow at escrowAddr, then closes it, refunding its
// rent to requester (who paid it at RequestService time).
func drainEscrow(s *AccountStore, escrowAddr Address, requester Principal, requesterShare uint64, provider Principal, providerShare uint64) error {
	if requesterShare > 0 {
		if err := s.TransferValue([32]byte(escrowAddr), [32]byte(requester), requesterShare); err != nil {
			return err
		}
	}
	if providerShare > 0 {
		if err := s.TransferValue([32]byte(escrowAddr), [32]byte(provider), providerShare); err != nil {
			return err
		}
	}
	return s.Close(escrowAddr, [32]byte(requester))
}

// creditProviderEarnings applies the Treasury/Profile bookkeeping common
// to CompleteService and the PayProvider/Split branches of ResolveDispute.
func creditProviderEarnings(s *AccountStore, ctx *Context, provider Principal, amount uint64) error {
	treasury, treasuryAddr, err := loadTreasury(s, provider)
	if err != nil {
		return err
	}
	treasury.TotalReceived += amount
	if err := writeTreasury(s, treasuryAddr, treasury); err != nil {
		return err
	}

	profileAddr, _, err := DeriveAgent(provider)
	if err != nil {
		return err
	}
	data, err := s.Load(profileAddr, ClassAgentProfile)
	if err != nil {
		return err
	}
	profile, err := decodeAgentProfile(data)
	if err != nil {
		return err
	}
	profile.TotalRequests++
	profile.TotalEarnings += amount
	profile.LastActiveAt = ctx.Now
	return s.Write(profileAddr, ClassAgentProfile, profile.encode())
}
