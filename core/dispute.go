package core

// DisputeWindow is the interval from request creation within which a
// dispute may be opened (spec §4.6). It defaults to the spec's value but
// is a var, not a const, so a deployment's pkg/config
// Limits.DisputeWindow can override it at startup before any entry
// point runs.
var DisputeWindow int64 = 86_400

// ResolutionKind is the outcome an arbiter may choose for a Dispute.
type ResolutionKind uint8

const (
	ResolutionUnresolved ResolutionKind = iota
	ResolutionRefundRequester
	ResolutionPayProvider
	ResolutionSplit
)

// Resolution is the arbiter's chosen outcome. RatioNum/RatioDen describe
// the provider's share for ResolutionSplit, as a fraction in (0,1).
type Resolution struct {
	Kind     ResolutionKind
	RatioNum uint64
	RatioDen uint64
}

// Dispute is the record of spec §3.
type Dispute struct {
	RequestID     [32]byte
	Initiator     Principal
	OpenedAt      int64
	Resolution    Resolution
	HasResolvedAt bool
	ResolvedAt    int64
	WindowSeconds int64
}

func (d *Dispute) encode() []byte {
	e := newEncoder(ClassDispute)
	e.raw32(d.RequestID)
	e.raw32([32]byte(d.Initiator))
	e.i64(d.OpenedAt)
	e.u8(uint8(d.Resolution.Kind))
	e.u64(d.Resolution.RatioNum)
	e.u64(d.Resolution.RatioDen)
	e.boolFlag(d.HasResolvedAt)
	e.i64(d.ResolvedAt)
	e.i64(d.WindowSeconds)
	return e.bytesOut()
}

func decodeDispute(data []byte) (*Dispute, error) {
	dec := newDecoder(data, ClassDispute)
	d := &Dispute{
		RequestID: dec.raw32(),
		Initiator: Principal(dec.raw32()),
		OpenedAt:  dec.i64(),
	}
	d.Resolution.Kind = ResolutionKind(dec.u8())
	d.Resolution.RatioNum = dec.u64()
	d.Resolution.RatioDen = dec.u64()
	d.HasResolvedAt = dec.boolFlag()
	d.ResolvedAt = dec.i64()
	d.WindowSeconds = dec.i64()
	if dec.fail() {
		return nil, dec.err
	}
	return d, nil
}

// InitiateDispute opens a Dispute over a Pending/InProgress request,
// provided the dispute window (measured from the request's creation, not
// the dispute's) has not elapsed.
func InitiateDispute(s *AccountStore, ctx *Context, initiator Principal, requestID [32]byte) (*Dispute, error) {
	if err := ctx.RequireSigner(initiator); err != nil {
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
	if initiator != req.Requester && initiator != req.Provider {
		return nil, ErrNotParty
	}
	switch req.Status {
	case RequestDisputed:
		return nil, ErrAlreadyDisputed
	case RequestCompleted, RequestRefunded:
		return nil, ErrAlreadyTerminal
	}
	if ctx.Now-req.CreatedAt > DisputeWindow {
		return nil, ErrWindowExpired
	}

	disputeAddr, _, err := DeriveDispute(requestID)
	if err != nil {
		return nil, err
	}
	disp := &Dispute{
		RequestID:     requestID,
		Initiator:     initiator,
		OpenedAt:      ctx.Now,
		WindowSeconds: DisputeWindow,
	}
	if err := s.Create(disputeAddr, ClassDispute, disp.encode(), [32]byte(initiator)); err != nil {
		return nil, err
	}

	req.Status = RequestDisputed
	if err := s.Write(reqAddr, ClassServiceRequest, req.encode()); err != nil {
		return nil, err
	}

	ctx.Emit("InitiateDispute", requestID)
	return disp, nil
}

// checkArbiter enforces the designated-arbiter policy of SPEC_FULL.md Open
// Question 2.
func checkArbiter(req *ServiceRequest, arbiter Principal, kind ResolutionKind) error {
	if req.HasArbiter {
		if arbiter != req.Arbiter {
			return ErrNotArbiter
		}
		return nil
	}
	switch kind {
	case ResolutionRefundRequester:
		if arbiter != req.Requester {
			return ErrNotArbiter
		}
	case ResolutionPayProvider, ResolutionSplit:
		if arbiter != req.Provider {
			return ErrNotArbiter
		}
	}
	return nil
}

// ResolveDispute applies resolution to an open Dispute, draining its
// Escrow accordingly and moving the Service Request to a terminal state.
// Split uses integer arithmetic that truncates the provider's share
// downward, in the requester's favor (the requester absorbs any residual
// base unit), so
// providerPayout + requesterPayout == amount exactly.
func ResolveDispute(s *AccountStore, ctx *Context, arbiter Principal, requestID [32]byte, resolution Resolution) (*ServiceRequest, *Dispute, error) {
	if err := ctx.RequireSigner(arbiter); err != nil {
		return nil, nil, err
	}
	reqAddr, _, err := DeriveRequest(requestID)
	if err != nil {
		return nil, nil, err
	}
	reqData, err := s.Load(reqAddr, ClassServiceRequest)
	if err != nil {
		return nil, nil, err
	}
	req, err := decodeServiceRequest(reqData)
	if err != nil {
		return nil, nil, err
	}

	disputeAddr, _, err := DeriveDispute(requestID)
	if err != nil {
		return nil, nil, err
	}
	dData, err := s.Load(disputeAddr, ClassDispute)
	if err != nil {
		return nil, nil, err
	}
	disp, err := decodeDispute(dData)
	if err != nil {
		return nil, nil, err
	}
	if disp.Resolution.Kind != ResolutionUnresolved {
		return nil, nil, ErrAlreadyTerminal
	}
	if req.Status != RequestDisputed {
		return nil, nil, ErrNotDisputed
	}

	if err := checkArbiter(req, arbiter, resolution.Kind); err != nil {
		return nil, nil, err
	}

	var providerPayout, requesterPayout uint64
	switch resolution.Kind {
	case ResolutionRefundRequester:
		requesterPayout = req.Amount
	case ResolutionPayProvider:
		providerPayout = req.Amount
	case ResolutionSplit:
		if resolution.RatioDen == 0 || resolution.RatioNum == 0 || resolution.RatioNum >= resolution.RatioDen {
			return nil, nil, ErrBadAmount
		}
		providerPayout = (req.Amount * resolution.RatioNum) / resolution.RatioDen
		requesterPayout = req.Amount - providerPayout
	default:
		return nil, nil, ErrBadAmount
	}

	escrowAddr, _, err := DeriveEscrow(requestID)
	if err != nil {
		return nil, nil, err
	}
	if err := drainEscrow(s, escrowAddr, req.Requester, requesterPayout, req.Provider, providerPayout); err != nil {
		return nil, nil, err
	}

	if providerPayout > 0 {
		if err := creditProviderEarnings(s, ctx, req.Provider, providerPayout); err != nil {
			return nil, nil, err
		}
	}

	switch resolution.Kind {
	case ResolutionRefundRequester:
		req.Status = RequestRefunded
	default:
		req.Status = RequestCompleted
	}
	if err := s.Write(reqAddr, ClassServiceRequest, req.encode()); err != nil {
		return nil, nil, err
	}

	disp.Resolution = resolution
	disp.HasResolvedAt = true
	disp.ResolvedAt = ctx.Now
	if err := s.Write(disputeAddr, ClassDispute, disp.encode()); err != nil {
		return nil, nil, err
	}

	ctx.Emit("ResolveDispute", requestID)
	return req, disp, nil
}
