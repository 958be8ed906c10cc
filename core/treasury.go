package core

// Treasury is the per-principal accounting record of spec §3: cumulative
// received/settled totals and the count of Pending invoices naming this
// owner as recipient. It holds no value itself — per the policy decided
// in SPEC_FULL.md's Open Question 1, funds live at the owner's principal
// balance in the AccountStore, and Treasury is pure bookkeeping.
type Treasury struct {
	Owner           Principal
	Bump            uint8
	TotalReceived   uint64
	TotalSettled    uint64
	PendingInvoices uint64
	CreatedAt       int64
}

func (t *Treasury) encode() []byte {
	e := newEncoder(ClassTreasury)
	e.raw32([32]byte(t.Owner))
	e.u8(t.Bump)
	e.u64(t.TotalReceived)
	e.u64(t.TotalSettled)
	e.u64(t.PendingInvoices)
	e.i64(t.CreatedAt)
	return e.bytesOut()
}

func decodeTreasury(data []byte) (*Treasury, error) {
	d := newDecoder(data, ClassTreasury)
	t := &Treasury{
		Owner:           Principal(d.raw32()),
		Bump:            d.u8(),
		TotalReceived:   d.u64(),
		TotalSettled:    d.u64(),
		PendingInvoices: d.u64(),
		CreatedAt:       d.i64(),
	}
	if d.fail() {
		return nil, d.err
	}
	return t, nil
}

// InitializeTreasury creates owner's Treasury record. It fails
// ErrMissingSigner if owner did not sign, and ErrAlreadyExists if the
// treasury already exists.
func InitializeTreasury(s *AccountStore, ctx *Context, owner Principal) (*Treasury, error) {
	if err := ctx.RequireSigner(owner); err != nil {
		return nil, err
	}
	addr, bump, err := DeriveTreasury(owner)
	if err != nil {
		return nil, err
	}
	t := &Treasury{Owner: owner, Bump: bump, CreatedAt: ctx.Now}
	if err := s.Create(addr, ClassTreasury, t.encode(), [32]byte(owner)); err != nil {
		return nil, err
	}
	ctx.Emit("InitializeTreasury", [32]byte(owner))
	ctx.Log.WithField("owner", owner.String()).Debug("treasury initialized")
	return t, nil
}

// loadTreasury loads owner's Treasury record, failing ErrNoTreasury if it
// does not exist (this package's equivalent of the generic ErrNotFound,
// used wherever spec §4 explicitly names the NoTreasury error).
func loadTreasury(s *AccountStore, owner Principal) (*Treasury, Address, error) {
	addr, _, err := DeriveTreasury(owner)
	if err != nil {
		return nil, Address{}, err
	}
	data, err := s.Load(addr, ClassTreasury)
	if err != nil {
		if err == ErrNotFound {
			return nil, Address{}, ErrNoTreasury
		}
		return nil, Address{}, err
	}
	t, err := decodeTreasury(data)
	if err != nil {
		return nil, Address{}, err
	}
	return t, addr, nil
}

func writeTreasury(s *AccountStore, addr Address, t *Treasury) error {
	return s.Write(addr, ClassTreasury, t.encode())
}

// GetTreasury is the exported read-only accessor backing the CLI's
// `treasury get`, wrapping loadTreasury for callers outside this package.
func GetTreasury(s *AccountStore, owner Principal) (*Treasury, Address, error) {
	return loadTreasury(s, owner)
}
