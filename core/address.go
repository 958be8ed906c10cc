package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Address is an opaque 32-byte identifier produced by Derive. It is never a
// valid secp256k1 public key, so no principal can sign for it directly —
// only the account store, on behalf of the subsystem that owns its
// derivation, may write to it.
type Address [32]byte

// Principal is a 32-byte public key identifying an independent signer.
type Principal [32]byte

func (a Address) String() string   { return hex.EncodeToString(a[:]) }
func (p Principal) String() string { return hex.EncodeToString(p[:]) }

// IsZero reports whether the value is the zero address/principal.
func (a Address) IsZero() bool {
	return a == Address{}
}

// onCurve reports whether b, interpreted as the x-coordinate of a
// compressed secp256k1 point with an even y, decodes to a valid curve
// point. A candidate address is accepted only when this is false, which is
// what keeps it from ever being controllable by a signer: no private key
// can correspond to a point that doesn't exist on the curve.
func onCurve(b [32]byte) bool {
	compressed := make([]byte, 33)
	compressed[0] = 0x02
	copy(compressed[1:], b[:])
	_, err := btcec.ParsePubKey(compressed)
	return err == nil
}

// maxBumpAttempts bounds the off-curve search; with a 256-bit hash space
// the expected number of attempts before finding an off-curve candidate is
// 2, so this is generous headroom, not a realistic failure path.
const maxBumpAttempts = 256

// Derive computes a deterministic, off-curve, collision-resistant address
// from a tag and an ordered list of seeds. It searches bumps from 255 down
// to 0 and returns the first candidate that is not a point on the signing
// curve, along with that bump. Derive is a pure function: identical inputs
// always yield the identical (address, bump) pair.
func Derive(tag string, seeds ...[]byte) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		h.Write([]byte(tag))
		for _, s := range seeds {
			h.Write(s)
		}
		h.Write([]byte{byte(bump)})
		var candidate [32]byte
		copy(candidate[:], h.Sum(nil))
		if !onCurve(candidate) {
			return Address(candidate), uint8(bump), nil
		}
	}
	return Address{}, 0, fmt.Errorf("derive %q: no off-curve address found after %d bumps", tag, maxBumpAttempts)
}

// MustDerive panics if Derive fails. Reserved for call sites deriving from
// fixed, already-validated tags at package init time.
func MustDerive(tag string, seeds ...[]byte) (Address, uint8) {
	addr, bump, err := Derive(tag, seeds...)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// Per-component derivations, matching the seeds specified in spec §3.

func DeriveTreasury(owner Principal) (Address, uint8, error) {
	return Derive("treasury", owner[:])
}

func DeriveInvoice(id [32]byte) (Address, uint8, error) {
	return Derive("invoice", id[:])
}

func DeriveBatch(id [32]byte) (Address, uint8, error) {
	return Derive("batch", id[:])
}

func DeriveAgent(owner Principal) (Address, uint8, error) {
	return Derive("agent", owner[:])
}

func DeriveRequest(id [32]byte) (Address, uint8, error) {
	return Derive("request", id[:])
}

func DeriveEscrow(id [32]byte) (Address, uint8, error) {
	return Derive("request_escrow", id[:])
}

func DeriveDispute(id [32]byte) (Address, uint8, error) {
	return Derive("dispute", id[:])
}

func DeriveStream(id [32]byte) (Address, uint8, error) {
	return Derive("stream", id[:])
}
