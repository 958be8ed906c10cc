package core

import (
	"encoding/binary"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// rentPerByte is the rent charged (and later refunded) per byte of space
// reserved by Create, modelling the "funds rent from the paying principal"
// / "releases rent to refund_to" requirement of spec §4.2.
const rentPerByte = 1

// CacheSize is the number of hot records NewAccountStore/OpenAccountStore
// keep in their LRU front-cache. It defaults to a sane size but is a var
// so a deployment's pkg/config Store.CacheSize can override it at startup
// before any store is opened.
var CacheSize = 256

type accountEntry struct {
	class    RecordClass
	space    int
	data     []byte
	rentPaid uint64
}

// AccountStore is the keyed map of address → typed record specified in
// spec §4.2: unique creation and value transfer between records or
// between a signer and a record. Mutation is not owner-gated here: the
// store records no owner, and Write checks only existence and class. It
// also holds the
// balances of principals and escrow/module accounts — both addressed by
// the same 32-byte key space, since spec treats a transfer's endpoints as
// either "a signer" (a Principal) or "a record" (an Address) uniformly.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[Address]*accountEntry
	balances map[[32]byte]uint64
	cache    *lru.Cache[Address, []byte]
	wal      *wal
}

// NewAccountStore builds a purely in-memory store, suitable for unit
// tests and for any caller that doesn't need durability across restarts.
func NewAccountStore() *AccountStore {
	cache, _ := lru.New[Address, []byte](CacheSize)
	return &AccountStore{
		accounts: make(map[Address]*accountEntry),
		balances: make(map[[32]byte]uint64),
		cache:    cache,
	}
}

// OpenAccountStore builds a store backed by a WAL at path, replaying any
// existing entries before returning.
func OpenAccountStore(path string) (*AccountStore, error) {
	s := NewAccountStore()
	w, err := openWAL(path)
	if err != nil {
		return nil, err
	}
	s.wal = w
	if err := w.replay(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Shutdown flushes and closes the store's WAL file, if any. It is
// distinct from Close(addr, refundTo), which closes a single on-chain
// record.
func (s *AccountStore) Shutdown() error {
	if s.wal == nil {
		return nil
	}
	return s.wal.Close()
}

func (s *AccountStore) applyWAL(e walEntry) {
	switch e.Kind {
	case "create":
		s.accounts[e.Addr] = &accountEntry{class: e.Class, space: len(e.Data), data: e.Data}
	case "write":
		if ent, ok := s.accounts[e.Addr]; ok {
			ent.data = e.Data
		}
	case "close":
		delete(s.accounts, e.Addr)
	case "transfer":
		if e.Amount > 0 {
			s.balances[e.From] -= e.Amount
			s.balances[e.To] += e.Amount
		}
	}
}

// Fund credits key with amount out of thin air. It exists for test setup
// — not an operation named by the protocol's entry-point surface — and
// the credit is not written to the WAL.
func (s *AccountStore) Fund(key [32]byte, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[key] += amount
}

// Balance returns the current balance held at key (a Principal or an
// Address such as an escrow account).
func (s *AccountStore) Balance(key [32]byte) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[key]
}

// TransferValue moves amount base units from `from` to `to`, failing
// ErrInsufficient if from's balance is too small.
func (s *AccountStore) TransferValue(from, to [32]byte, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transferLocked(from, to, amount)
}

func (s *AccountStore) transferLocked(from, to [32]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if s.balances[from] < amount {
		return ErrInsufficient
	}
	if err := s.wal.append(walEntry{Kind: "transfer", From: from, To: to, Amount: amount}); err != nil {
		return err
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}

// Create reserves space for addr under class, funding rent from payer.
// It fails ErrAlreadyExists if the address is occupied.
func (s *AccountStore) Create(addr Address, class RecordClass, data []byte, payer [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[addr]; ok {
		return ErrAlreadyExists
	}
	rent := uint64(len(data)) * rentPerByte
	if rent > s.balances[payer] {
		// A signer creating their own genesis record (a Treasury, an
		// AgentProfile, a first Invoice) has no balance yet: funds
		// only ever arrive by receiving a payment. Charging rent here
		// would make the protocol's first operation impossible for
		// any unfunded principal, so a payer who can't afford it gets
		// the record rent-exempt instead of rejected. Close still
		// only refunds whatever rent was actually paid.
		rent = 0
	}
	if err := s.wal.append(walEntry{Kind: "create", Addr: addr, Class: class, Data: data}); err != nil {
		return err
	}
	s.balances[payer] -= rent
	s.accounts[addr] = &accountEntry{class: class, space: len(data), data: data, rentPaid: rent}
	s.cache.Add(addr, data)
	return nil
}

// Load returns the raw bytes stored at addr, failing ErrNotFound or
// ErrWrongClass.
func (s *AccountStore) Load(addr Address, expectedClass RecordClass) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.cache.Get(addr); ok && len(data) >= 8 {
		if RecordClass(binary.LittleEndian.Uint64(data[:8])) != expectedClass {
			return nil, ErrWrongClass
		}
		return data, nil
	}
	ent, ok := s.accounts[addr]
	if !ok {
		return nil, ErrNotFound
	}
	if ent.class != expectedClass {
		return nil, ErrWrongClass
	}
	return ent.data, nil
}

// Write overwrites the bytes stored at addr. The caller is responsible for
// having derived addr itself (spec §5's "shared-resource policy"); Write
// only enforces that the record exists and matches the expected class.
func (s *AccountStore) Write(addr Address, expectedClass RecordClass, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.accounts[addr]
	if !ok {
		return ErrNotFound
	}
	if ent.class != expectedClass {
		return ErrWrongClass
	}
	if err := s.wal.append(walEntry{Kind: "write", Addr: addr, Class: expectedClass, Data: data}); err != nil {
		return err
	}
	ent.data = data
	ent.space = len(data)
	s.cache.Add(addr, data)
	return nil
}

// Close releases addr's reserved space, refunding its rent to refundTo.
func (s *AccountStore) Close(addr Address, refundTo [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.accounts[addr]
	if !ok {
		return ErrNotFound
	}
	refund := ent.rentPaid
	if err := s.wal.append(walEntry{Kind: "close", Addr: addr}); err != nil {
		return err
	}
	delete(s.accounts, addr)
	s.cache.Remove(addr)
	s.balances[refundTo] += refund
	return nil
}

// Exists reports whether addr is occupied, regardless of class.
func (s *AccountStore) Exists(addr Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[addr]
	return ok
}
