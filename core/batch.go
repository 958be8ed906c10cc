package core

// MaxBatch is the cap on invoices posted in a single settlement batch
// (spec §4.5). It defaults to the spec's value but is a var, not a
// const, so a deployment's pkg/config Limits.MaxBatch can override it at
// startup before any entry point runs.
var MaxBatch = 50

// BatchSettlement is the atomic "these invoices are reconciled" record of
// spec §3. It moves no value itself — value moved during PayInvoice — it
// only advances the recipient's settled-cursor.
type BatchSettlement struct {
	ID          [32]byte
	Settler     Principal
	Recipient   Principal
	InvoiceIDs  [][32]byte
	TotalAmount uint64
	SettledAt   int64
}

func (b *BatchSettlement) encode() []byte {
	e := newEncoder(ClassBatch)
	e.raw32(b.ID)
	e.raw32([32]byte(b.Settler))
	e.raw32([32]byte(b.Recipient))
	e.bytes32Vec(b.InvoiceIDs)
	e.u64(b.TotalAmount)
	e.i64(b.SettledAt)
	return e.bytesOut()
}

func decodeBatch(data []byte) (*BatchSettlement, error) {
	d := newDecoder(data, ClassBatch)
	b := &BatchSettlement{
		ID:         d.raw32(),
		Settler:    Principal(d.raw32()),
		Recipient:  Principal(d.raw32()),
		InvoiceIDs: d.bytes32Vec(),
	}
	b.TotalAmount = d.u64()
	b.SettledAt = d.i64()
	if d.fail() {
		return nil, d.err
	}
	return b, nil
}

// SettleBatch atomically posts a set of already-Paid invoices, all naming
// recipient, as reconciled, and advances recipient's Treasury.TotalSettled
// by their combined amount.
func SettleBatch(s *AccountStore, ctx *Context, settler Principal, batchID [32]byte, recipient Principal, invoiceIDs [][32]byte, claimedTotal uint64) (*BatchSettlement, error) {
	if err := ctx.RequireSigner(settler); err != nil {
		return nil, err
	}
	if len(invoiceIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(invoiceIDs) > MaxBatch {
		return nil, ErrBatchTooLarge
	}

	var sum uint64
	invoiceAddrs := make([]Address, len(invoiceIDs))
	invoices := make([]*Invoice, len(invoiceIDs))
	for i, id := range invoiceIDs {
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
		if inv.Status != InvoicePaid {
			return nil, ErrInvoiceNotPaid
		}
		if inv.Settled {
			return nil, ErrAlreadySettled
		}
		if inv.Recipient != recipient {
			return nil, ErrWrongRecipient
		}
		sum += inv.Amount
		invoiceAddrs[i] = addr
		invoices[i] = inv
	}
	if sum != claimedTotal {
		return nil, ErrSumMismatch
	}

	treasury, treasuryAddr, err := loadTreasury(s, recipient)
	if err != nil {
		return nil, err
	}

	addr, _, err := DeriveBatch(batchID)
	if err != nil {
		return nil, err
	}
	batch := &BatchSettlement{
		ID:          batchID,
		Settler:     settler,
		Recipient:   recipient,
		InvoiceIDs:  invoiceIDs,
		TotalAmount: claimedTotal,
		SettledAt:   ctx.Now,
	}
	if err := s.Create(addr, ClassBatch, batch.encode(), [32]byte(settler)); err != nil {
		return nil, err
	}

	for i, inv := range invoices {
		inv.Settled = true
		if err := s.Write(invoiceAddrs[i], ClassInvoice, inv.encode()); err != nil {
			return nil, err
		}
	}

	treasury.TotalSettled += claimedTotal
	if err := writeTreasury(s, treasuryAddr, treasury); err != nil {
		return nil, err
	}

	ctx.Emit("SettleBatch", batchID)
	ctx.Log.WithFields(map[string]interface{}{"batch": addr.String(), "count": len(invoiceIDs)}).Debug("batch settled")
	return batch, nil
}
