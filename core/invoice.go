package core

// InvoiceStatus is the Invoice lifecycle state. Once non-Pending, an
// invoice is terminal: no further mutation is accepted (spec §3, §4.4).
type InvoiceStatus uint8

const (
	InvoicePending InvoiceStatus = iota
	InvoicePaid
	InvoiceExpired
	InvoiceCancelled
)

const maxMemoBytes = 256

// Invoice is the single-obligation record of spec §3.
type Invoice struct {
	ID        [32]byte
	Recipient Principal
	Amount    uint64
	Memo      string
	Status    InvoiceStatus
	CreatedAt int64
	ExpiresAt int64
	HasPaidAt bool
	PaidAt    int64
	HasPayer  bool
	Payer     Principal
	// Settled marks a Paid invoice as consumed by SettleBatch, so a second
	// batch can't claim the same invoice's amount again (spec T1:
	// total_settled <= total_received).
	Settled bool
}

func (inv *Invoice) encode() []byte {
	e := newEncoder(ClassInvoice)
	e.raw32(inv.ID)
	e.raw32([32]byte(inv.Recipient))
	e.u64(inv.Amount)
	e.str(inv.Memo)
	e.u8(uint8(inv.Status))
	e.i64(inv.CreatedAt)
	e.i64(inv.ExpiresAt)
	e.boolFlag(inv.HasPaidAt)
	e.i64(inv.PaidAt)
	e.boolFlag(inv.HasPayer)
	e.raw32([32]byte(inv.Payer))
	e.boolFlag(inv.Settled)
	return e.bytesOut()
}

func decodeInvoice(data []byte) (*Invoice, error) {
	d := newDecoder(data, ClassInvoice)
	inv := &Invoice{
		ID:        d.raw32(),
		Recipient: Principal(d.raw32()),
		Amount:    d.u64(),
		Memo:      d.str(),
		Status:    InvoiceStatus(d.u8()),
		CreatedAt: d.i64(),
		ExpiresAt: d.i64(),
		HasPaidAt: d.boolFlag(),
		PaidAt:    d.i64(),
		HasPayer:  d.boolFlag(),
		Payer:     Principal(d.raw32()),
		Settled:   d.boolFlag(),
	}
	if d.fail() {
		return nil, d.err
	}
	return inv, nil
}

// checkExpiry lazily transitions a Pending invoice to Expired if `now` has
// passed its expiry. It mutates inv in place and reports whether the
// invoice is (now) expired. Per spec §4.4/§9, persistence of this
// transition is optional — callers decide whether to write it back.
func checkExpiry(inv *Invoice, now int64) bool {
	if inv.Status == InvoicePending && now >= inv.ExpiresAt {
		inv.Status = InvoiceExpired
		return true
	}
	return inv.Status == InvoiceExpired
}

// CreateInvoice creates a new Pending invoice owned by recipient.
func CreateInvoice(s *AccountStore, ctx *Context, recipient Principal, id [32]byte, amount uint64, memo string, expiresAt int64) (*Invoice, error) {
	if err := ctx.RequireSigner(recipient); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, ErrBadAmount
	}
	if len(memo) > maxMemoBytes {
		return nil, ErrMemoTooLong
	}
	if expiresAt <= ctx.Now {
		return nil, ErrExpiryInPast
	}
	treasury, treasuryAddr, err := loadTreasury(s, recipient)
	if err != nil {
		return nil, err
	}

	addr, _, err := DeriveInvoice(id)
	if err != nil {
		return nil, err
	}
	inv := &Invoice{
		ID:        id,
		Recipient: recipient,
		Amount:    amount,
		Memo:      memo,
		Status:    InvoicePending,
		CreatedAt: ctx.Now,
		ExpiresAt: expiresAt,
	}
	if err := s.Create(addr, ClassInvoice, inv.encode(), [32]byte(recipient)); err != nil {
		return nil, err
	}

	treasury.PendingInvoices++
	if err := writeTreasury(s, treasuryAddr, treasury); err != nil {
		return nil, err
	}

	ctx.Emit("CreateInvoice", id)
	ctx.Log.WithFields(map[string]interface{}{"invoice": addr.String(), "amount": amount}).Debug("invoice created")
	return inv, nil
}

// PayInvoice pays a Pending, non-expired invoice, moving amount base units
// from payer to the recipient's principal balance.
func PayInvoice(s *AccountStore, ctx *Context, payer Principal, id [32]byte) (*Invoice, error) {
	if err := ctx.RequireSigner(payer); err != nil {
		return nil, err
	}
	addr, _, err := DeriveInvoice(id)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassInvoice)
	if err != nil {
		return nil, err
	}
	inv, err := decodeInvoice(data)
	if err != nil {
		return nil, err
	}

	if checkExpiry(inv, ctx.Now) {
		_ = s.Write(addr, ClassInvoice, inv.encode())
		return nil, ErrExpired
	}
	if inv.Status != InvoicePending {
		return nil, ErrNotPending
	}

	treasury, treasuryAddr, err := loadTreasury(s, inv.Recipient)
	if err != nil {
		return nil, err
	}

	if err := s.TransferValue([32]byte(payer), [32]byte(inv.Recipient), inv.Amount); err != nil {
		return nil, err
	}

	inv.Status = InvoicePaid
	inv.HasPaidAt = true
	inv.PaidAt = ctx.Now
	inv.HasPayer = true
	inv.Payer = payer
	if err := s.Write(addr, ClassInvoice, inv.encode()); err != nil {
		return nil, err
	}

	treasury.TotalReceived += inv.Amount
	treasury.PendingInvoices--
	if err := writeTreasury(s, treasuryAddr, treasury); err != nil {
		return nil, err
	}

	ctx.Emit("PayInvoice", id)
	ctx.Log.WithField("invoice", addr.String()).Debug("invoice paid")
	return inv, nil
}

// CancelInvoice cancels a Pending invoice. Only the recipient may cancel.
func CancelInvoice(s *AccountStore, ctx *Context, recipient Principal, id [32]byte) (*Invoice, error) {
	if err := ctx.RequireSigner(recipient); err != nil {
		return nil, err
	}
	addr, _, err := DeriveInvoice(id)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassInvoice)
	if err != nil {
		return nil, err
	}
	inv, err := decodeInvoice(data)
	if err != nil {
		return nil, err
	}
	if inv.Recipient != recipient {
		return nil, ErrNotParty
	}
	if checkExpiry(inv, ctx.Now) {
		_ = s.Write(addr, ClassInvoice, inv.encode())
		return nil, ErrNotPending
	}
	if inv.Status != InvoicePending {
		return nil, ErrNotPending
	}

	treasury, treasuryAddr, err := loadTreasury(s, recipient)
	if err != nil {
		return nil, err
	}

	inv.Status = InvoiceCancelled
	if err := s.Write(addr, ClassInvoice, inv.encode()); err != nil {
		return nil, err
	}
	treasury.PendingInvoices--
	if err := writeTreasury(s, treasuryAddr, treasury); err != nil {
		return nil, err
	}

	ctx.Emit("CancelInvoice", id)
	return inv, nil
}

// GetInvoice loads an invoice and applies (without persisting) the lazy
// expiry observation of spec §4.4.
func GetInvoice(s *AccountStore, ctx *Context, id [32]byte) (*Invoice, error) {
	addr, _, err := DeriveInvoice(id)
	if err != nil {
		return nil, err
	}
	data, err := s.Load(addr, ClassInvoice)
	if err != nil {
		return nil, err
	}
	inv, err := decodeInvoice(data)
	if err != nil {
		return nil, err
	}
	checkExpiry(inv, ctx.Now)
	return inv, nil
}
