package core

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// walEntry is one durable mutation record. The account store's WAL is an
// append-only log of these, replayed in order on open — the same shape as
// the teacher's block WAL (core/ledger.go's NewLedger), narrowed from
// whole blocks to single account mutations.
type walEntry struct {
	Kind    string  `json:"kind"` // "create" | "write" | "close" | "transfer"
	Addr    Address `json:"addr,omitempty"`
	Class   RecordClass `json:"class,omitempty"`
	Data    []byte  `json:"data,omitempty"`
	From    [32]byte `json:"from,omitempty"`
	To      [32]byte `json:"to,omitempty"`
	Amount  uint64  `json:"amount,omitempty"`
}

// wal is a durability log backing an AccountStore. A nil *wal makes the
// store purely in-memory, which is what every unit test uses; a non-nil
// wal is exercised by the persistence tests and by cmd/agentfundd.
type wal struct {
	f *os.File
	w *bufio.Writer
}

func openWAL(path string) (*wal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open wal: %w", err)
	}
	return &wal{f: f, w: bufio.NewWriter(f)}, nil
}

func (w *wal) append(e walEntry) error {
	if w == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("wal marshal: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("wal write: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// replay reads every entry back and applies it to a fresh AccountStore,
// logging progress the way the teacher's NewLedger logs WAL replay.
func (w *wal) replay(s *AccountStore) error {
	if w == nil {
		return nil
	}
	if _, err := w.f.Seek(0, 0); err != nil {
		return fmt.Errorf("wal seek: %w", err)
	}
	scanner := bufio.NewScanner(w.f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var n int
	for scanner.Scan() {
		var e walEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return fmt.Errorf("wal unmarshal: %w", err)
		}
		s.applyWAL(e)
		n++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wal scan: %w", err)
	}
	if _, err := w.f.Seek(0, 2); err != nil {
		return fmt.Errorf("wal seek end: %w", err)
	}
	logrus.WithField("entries", n).Info("account store: WAL replay complete")
	return nil
}

func (w *wal) Close() error {
	if w == nil {
		return nil
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}
