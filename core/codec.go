package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// RecordClass is the 8-byte discriminator stored at offset 0 of every
// persistent record, per spec §6. Readers that find a mismatch fail
// ErrWrongClass rather than guessing at the record's shape.
type RecordClass uint64

const (
	ClassTreasury RecordClass = iota + 1
	ClassInvoice
	ClassBatch
	ClassAgentProfile
	ClassServiceRequest
	ClassEscrow
	ClassDispute
	ClassStream
)

// encoder accumulates a record's wire bytes in the normative layout:
// little-endian integers, u32-length-prefixed strings/vectors, an 8-byte
// class discriminator first. This is a bespoke, spec-mandated layout (not
// a general-purpose serialization need), so it is hand-rolled against the
// standard library rather than pulled from a marshaling library — see
// DESIGN.md.
type encoder struct {
	buf bytes.Buffer
}

func newEncoder(class RecordClass) *encoder {
	e := &encoder{}
	var c [8]byte
	binary.LittleEndian.PutUint64(c[:], uint64(class))
	e.buf.Write(c[:])
	return e
}

func (e *encoder) u8(v uint8)   { e.buf.WriteByte(v) }
func (e *encoder) u32(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); e.buf.Write(b[:]) }
func (e *encoder) u64(v uint64) { var b [8]byte; binary.LittleEndian.PutUint64(b[:], v); e.buf.Write(b[:]) }
func (e *encoder) i64(v int64)  { e.u64(uint64(v)) }
func (e *encoder) raw32(v [32]byte) { e.buf.Write(v[:]) }
func (e *encoder) bytes(v []byte) { e.u32(uint32(len(v))); e.buf.Write(v) }
func (e *encoder) str(v string)   { e.bytes([]byte(v)) }
func (e *encoder) boolFlag(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) bytes32Vec(v [][32]byte) {
	e.u32(uint32(len(v)))
	for _, id := range v {
		e.buf.Write(id[:])
	}
}

func (e *encoder) strVec(v []string) {
	e.u32(uint32(len(v)))
	for _, s := range v {
		e.str(s)
	}
}

func (e *encoder) bytesOut() []byte { return e.buf.Bytes() }

// decoder reads a wire record back, verifying the class discriminator
// first so mismatched records fail fast with ErrWrongClass.
type decoder struct {
	r     *bytes.Reader
	err   error
}

func newDecoder(data []byte, want RecordClass) *decoder {
	d := &decoder{r: bytes.NewReader(data)}
	var c [8]byte
	if _, err := d.r.Read(c[:]); err != nil {
		d.err = fmt.Errorf("%w: %v", ErrBadSerialization, err)
		return d
	}
	got := RecordClass(binary.LittleEndian.Uint64(c[:]))
	if got != want {
		d.err = ErrWrongClass
	}
	return d
}

func (d *decoder) fail() bool { return d.err != nil }

func (d *decoder) u8() uint8 {
	if d.fail() {
		return 0
	}
	b, err := d.r.ReadByte()
	if err != nil {
		d.err = fmt.Errorf("%w: %v", ErrBadSerialization, err)
		return 0
	}
	return b
}

func (d *decoder) u32() uint32 {
	if d.fail() {
		return 0
	}
	var b [4]byte
	if _, err := d.r.Read(b[:]); err != nil {
		d.err = fmt.Errorf("%w: %v", ErrBadSerialization, err)
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

func (d *decoder) u64() uint64 {
	if d.fail() {
		return 0
	}
	var b [8]byte
	if _, err := d.r.Read(b[:]); err != nil {
		d.err = fmt.Errorf("%w: %v", ErrBadSerialization, err)
		return 0
	}
	return binary.LittleEndian.Uint64(b[:])
}

func (d *decoder) i64() int64 { return int64(d.u64()) }

func (d *decoder) boolFlag() bool { return d.u8() != 0 }

func (d *decoder) raw32() [32]byte {
	var v [32]byte
	if d.fail() {
		return v
	}
	if _, err := d.r.Read(v[:]); err != nil {
		d.err = fmt.Errorf("%w: %v", ErrBadSerialization, err)
	}
	return v
}

func (d *decoder) bytes() []byte {
	n := d.u32()
	if d.fail() {
		return nil
	}
	v := make([]byte, n)
	if n > 0 {
		if _, err := d.r.Read(v); err != nil {
			d.err = fmt.Errorf("%w: %v", ErrBadSerialization, err)
			return nil
		}
	}
	return v
}

func (d *decoder) str() string { return string(d.bytes()) }

func (d *decoder) bytes32Vec() [][32]byte {
	n := d.u32()
	if d.fail() {
		return nil
	}
	out := make([][32]byte, n)
	for i := range out {
		out[i] = d.raw32()
	}
	return out
}

func (d *decoder) strVec() []string {
	n := d.u32()
	if d.fail() {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = d.str()
	}
	return out
}
