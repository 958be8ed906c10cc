package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/tigurius/agentfund-protocol/core"
)

var (
	storeOnce sync.Once
	store     *core.AccountStore
	storeErr  error
)

// getStore lazily opens the WAL-backed AccountStore named by the
// STORE_PATH viper key, following the teacher's cmd/cli pattern of a
// package-level sync.Once-guarded handle shared by every subcommand in
// the process.
func getStore() (*core.AccountStore, error) {
	storeOnce.Do(func() {
		path := viper.GetString("STORE_PATH")
		if path == "" {
			storeErr = fmt.Errorf("STORE_PATH not set")
			return
		}
		store, storeErr = core.OpenAccountStore(path)
	})
	return store, storeErr
}

// nowContext builds a Context fixed at the current wall clock, signed by
// signers. The CLI is the one caller in this repo that reads real time;
// core itself never does.
func nowContext(signers ...core.Principal) *core.Context {
	return core.NewContext(time.Now().Unix(), signers...)
}

func parsePrincipal(h string) (core.Principal, error) {
	var p core.Principal
	b, err := hex.DecodeString(strings.TrimPrefix(h, "0x"))
	if err != nil || len(b) != 32 {
		return p, fmt.Errorf("invalid principal %q: want 32 bytes hex", h)
	}
	copy(p[:], b)
	return p, nil
}

func parseID(h string) ([32]byte, error) {
	var id [32]byte
	b, err := hex.DecodeString(strings.TrimPrefix(h, "0x"))
	if err != nil || len(b) != 32 {
		return id, fmt.Errorf("invalid id %q: want 32 bytes hex", h)
	}
	copy(id[:], b)
	return id, nil
}

func parseHash(h string) ([32]byte, error) { return parseID(h) }
