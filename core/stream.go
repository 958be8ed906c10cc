package core

// StreamStatus is the lifecycle state of a Payment Stream.
type StreamStatus uint8

const (
	StreamActive StreamStatus = iota
	StreamCancelled
	StreamCompleted
)

// PaymentStream is the linear-rate release record summarized in spec
// §4.6. FrozenAvailable is this implementation's device for honoring
// "Cancel ... available remains claimable by the recipient until a
// follow-up withdrawal": the refund moves out at cancel time, but the
// already-accrued, not-yet-withdrawn balance stays in the stream account
// and FrozenAvailable tracks how much of it the recipient may still pull.
type PaymentStream struct {
	ID              [32]byte
	Sender          Principal
	Recipient       Principal
	TotalAmount     uint64
	StartTime       int64
	EndTime         int64
	WithdrawnAmount uint64
	IsPaused        bool
	HasPausedAt     bool
	PausedAt        int64
	PausedDuration  int64
	Status          StreamStatus
	FrozenAvailable uint64
}

func (p *PaymentStream) encode() []byte {
	e := newEncoder(ClassStream)
	e.raw32(p.ID)
	e.raw32([32]byte(p.Sender))
	e.raw32([32]byte(p.Recipient))
	e.u64(p.TotalAmount)
	e.i64(p.StartTime)
	e.i64(p.EndTime)
	e.u64(p.WithdrawnAmount)
	e.boolFlag(p.IsPaused)
	e.boolFlag(p.HasPausedAt)
	e.i64(p.PausedAt)
	e.i64(p.PausedDuration)
	e.u8(uint8(p.Status))
	e.u64(p.FrozenAvailable)
	return e.bytesOut()
}

func decodeStream(data []byte) (*PaymentStream, error) {
	d := newDecoder(data, ClassStream)
	p := &PaymentStream{
		ID:        d.raw32(),
		Sender:    Principal(d.raw32()),
		Recipient: Principal(d.raw32()),
	}
	p.TotalAmount = d.u64()
	p.StartTime = d.i64()
	p.EndTime = d.i64()
	p.WithdrawnAmount = d.u64()
	p.IsPaused = d.boolFlag()
	p.HasPausedAt = d.boolFlag()
	p.PausedAt = d.i64()
	p.PausedDuration = d.i64()
	p.Status = StreamStatus(d.u8())
	p.FrozenAvailable = d.u64()
	if d.fail() {
		return nil, d.err
	}
	return p, nil
}

// AvailableBalance computes the balance the recipient may withdraw at
// time now, per spec §4.6's rate formula: FrozenAvailable for a Cancelled
// stream, zero whenever the stream is paused or otherwise not Active,
// otherwise the linear accrual to now minus what was already withdrawn. PausedDuration is excluded from elapsed time so
// that resuming continues the schedule from where it was paused rather
// than jumping forward or recomputing the rate over a shifted schedule.
func AvailableBalance(p *PaymentStream, now int64) uint64 {
	if p.Status == StreamCancelled {
		return p.FrozenAvailable
	}
	if p.Status != StreamActive || p.IsPaused {
		return 0
	}
	duration := p.EndTime - p.StartTime
	if duration <= 0 {
		return 0
	}

	elapsed := now - p.StartTime - p.PausedDuration
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > duration {
		elapsed = duration
	}

	rate := p.TotalAmount / uint64(duration)
	var accrued uint64
	if elapsed >= duration {
		accrued = p.TotalAmount
	} else {
		accrued = rate * uint64(elapsed)
	}
	if accrued <= p.WithdrawnAmount {
		return 0
	}
	return accrued - p.WithdrawnAmount
}

// CreateStream opens a linear-release stream, depositing totalAmount from
// sender into the stream's escrow.
func CreateStream(s *AccountStore, ctx *Context, sender Principal, streamID [32]byte, recipient Principal, totalAmount uint64, startTime, endTime int64) (*PaymentStream, error) {
	if err := ctx.RequireSigner(sender); err != nil {
		return nil, err
	}
	if totalAmount == 0 {
		return nil, ErrBadAmount
	}
	if endTime <= startTime {
		return nil, ErrExpiryInPast
	}
	addr, _, err := DeriveStream(streamID)
	if err != nil {
		return nil, err
	}
	p := &PaymentStream{
		ID:          streamID,
		Sender:      sender,
		Recipient:   recipient,
		TotalAmount: totalAmount,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      StreamActive,
	}
	if err := s.Create(addr, ClassStream, p.encode(), [32]byte(sender)); err != nil {
		return nil, err
	}
	if err := s.TransferValue([32]byte(sender), [32]byte(addr), totalAmount); err != nil {
		return nil, err
	}
	ctx.Emit("StreamCreated", streamID)
	return p, nil
}

// WithdrawStream pulls the currently available balance to the recipient.
// Only the recipient may call this.
func WithdrawStream(s *AccountStore, ctx *Context, recipient Principal, streamID [32]byte) (*PaymentStream, uint64, error) {
	if err := ctx.RequireSigner(recipient); err != nil {
		return nil, 0, err
	}
	addr, _, err := DeriveStream(streamID)
	if err != nil {
		return nil, 0, err
	}
	data, err := s.Load(addr, ClassStream)
	if err != nil {
		return nil, 0, err
	}
	p, err := decodeStream(data)
	if err != nil {
		return nil, 0, err
	}
	if p.Recipient != recipient {
		return nil, 0, ErrNotParty
	}

	amount := AvailableBalance(p, ctx.Now)
	if amount > 0 {
		if err := s.TransferValue([32]byte(addr), [32]byte(recipient), amount); err != nil {
			return nil, 0, err
		}
		p.WithdrawnAmount += amount
		if p.Status == StreamCancelled {
			p.FrozenAvailable -= amount
		} else if p.WithdrawnAmount == p.TotalAmount {
			p.Status = StreamCompleted
		}
		if err := s.Write(addr, ClassStream, p.encode()); err != nil {
			return nil, 0, err
		}
	}

	ctx.Emit("StreamWithdrawn", streamID)
	return p, amount, nil
}

// PauseStream halts accrual. Only the sender may call this.
func PauseStream(s *AccountStore, ctx *Context, sender Principal, streamID [32]byte) (*PaymentStream, error) {
	if err := ctx.RequireSigner(sender); err != nil {
		return nil, err
	}
	addr, _, err := DeriveStream(streamID)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassStream)
	if err != nil {
		return nil, err
	}
	p, err := decodeStream(data)
	if err != nil {
		return nil, err
	}
	if p.Sender != sender {
		return nil, ErrNotParty
	}
	if p.Status != StreamActive || p.IsPaused {
		return nil, ErrAlreadyTerminal
	}
	p.IsPaused = true
	p.HasPausedAt = true
	p.PausedAt = ctx.Now
	if err := s.Write(addr, ClassStream, p.encode()); err != nil {
		return nil, err
	}
	ctx.Emit("StreamPaused", streamID)
	return p, nil
}

// ResumeStream resumes accrual, crediting the elapsed pause to
// PausedDuration so it is excluded from AvailableBalance's elapsed-time
// computation and the remaining schedule is preserved exactly.
func ResumeStream(s *AccountStore, ctx *Context, sender Principal, streamID [32]byte) (*PaymentStream, error) {
	if err := ctx.RequireSigner(sender); err != nil {
		return nil, err
	}
	addr, _, err := DeriveStream(streamID)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassStream)
	if err != nil {
		return nil, err
	}
	p, err := decodeStream(data)
	if err != nil {
		return nil, err
	}
	if p.Sender != sender {
		return nil, ErrNotParty
	}
	if !p.IsPaused {
		return nil, ErrAlreadyTerminal
	}
	p.PausedDuration += ctx.Now - p.PausedAt
	p.IsPaused = false
	p.HasPausedAt = false
	if err := s.Write(addr, ClassStream, p.encode()); err != nil {
		return nil, err
	}
	ctx.Emit("StreamResumed", streamID)
	return p, nil
}

// CancelStream refunds the sender everything except the balance
// AvailableBalance reports at cancel time, leaving that balance claimable
// by the recipient. A paused stream reports zero available, so cancelling
// it while paused refunds the sender the whole unwithdrawn amount.
func CancelStream(s *AccountStore, ctx *Context, sender Principal, streamID [32]byte) (*PaymentStream, error) {
	if err := ctx.RequireSigner(sender); err != nil {
		return nil, err
	}
	addr, _, err := DeriveStream(streamID)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassStream)
	if err != nil {
		return nil, err
	}
	p, err := decodeStream(data)
	if err != nil {
		return nil, err
	}
	if p.Sender != sender {
		return nil, ErrNotParty
	}
	if p.Status != StreamActive {
		return nil, ErrAlreadyTerminal
	}

	available := AvailableBalance(p, ctx.Now)
	refund := p.TotalAmount - p.WithdrawnAmount - available
	if refund > 0 {
		if err := s.TransferValue([32]byte(addr), [32]byte(sender), refund); err != nil {
			return nil, err
		}
	}
	p.Status = StreamCancelled
	p.FrozenAvailable = available
	if err := s.Write(addr, ClassStream, p.encode()); err != nil {
		return nil, err
	}
	ctx.Emit("StreamCancelled", streamID)
	return p, nil
}
