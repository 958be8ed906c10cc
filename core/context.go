package core

import (
	"github.com/sirupsen/logrus"
)

// TxContext carries the fields available to every entry point for the
// duration of one invocation: the fixed clock reading, the set of
// principals that signed the containing request, and the event log the
// invocation appends to. Clock readings within one invocation are a single
// fixed value, per spec §5.
//
// Context is the name used throughout this package, aliasing TxContext,
// matching the teacher's convention of exposing the transaction-scoped
// type under a short name.
type TxContext struct {
	Now     int64
	Signers map[Principal]struct{}
	Events  []Event
	Log     *logrus.Entry
}

type Context = TxContext

// NewContext builds a Context fixed at `now` with the given signers.
func NewContext(now int64, signers ...Principal) *Context {
	set := make(map[Principal]struct{}, len(signers))
	for _, s := range signers {
		set[s] = struct{}{}
	}
	return &Context{
		Now:     now,
		Signers: set,
		Log:     logrus.WithField("component", "core"),
	}
}

// RequireSigner fails ErrMissingSigner unless p is among the signers of
// this invocation.
func (ctx *Context) RequireSigner(p Principal) error {
	if _, ok := ctx.Signers[p]; !ok {
		return ErrMissingSigner
	}
	return nil
}

// Emit appends an event to the invocation's log. It never fails: an event
// record is a side effect of a successful state transition, not a
// precondition of one.
func (ctx *Context) Emit(op string, id [32]byte) {
	ctx.Events = append(ctx.Events, newEvent(op, id, ctx.Now))
}
