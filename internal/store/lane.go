// Package store holds the reactive state containers of the engine. Each
// store exclusively owns its state slice, guards it with a lock, and
// persists a snapshot of the source fields after every successful mutation.
package store

import "context"

// Status is the transient request state of one async lane. Restart-relative,
// never persisted.
type Status struct {
	Loading bool
	Err     string
}

// lane tracks the bookkeeping of one independently schedulable async
// operation. Each lane owns its status pair, so one lane completing cannot
// mask another still being in flight.
//
// seq is a monotonically increasing ticket. A completion applies only while
// it still holds the latest ticket, so a slow response cannot overwrite the
// state written by a newer request (latest request wins, stale responses
// are discarded). Callers hold the store lock around every method.
type lane struct {
	loading bool
	err     string
	seq     uint64
}

// begin opens a new request window and returns its ticket.
func (l *lane) begin() uint64 {
	l.seq++
	l.loading = true
	l.err = ""
	return l.seq
}

// latest reports whether ticket is still the newest issued.
func (l *lane) latest(ticket uint64) bool {
	return l.seq == ticket
}

// supersede invalidates any outstanding ticket without opening a new window.
func (l *lane) supersede() {
	l.seq++
}

func (l *lane) finish(errMsg string) {
	l.loading = false
	l.err = errMsg
}

func (l *lane) status() Status {
	return Status{Loading: l.loading, Err: l.err}
}

// Snapshots is what the stores need from the persistence layer.
type Snapshots interface {
	Save(ctx context.Context, key string, v any) error
	Load(ctx context.Context, key string, v any) (bool, error)
}
