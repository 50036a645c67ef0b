// Package history keeps an in-memory activity log of staking operations.
// The log is session-scoped and never persisted.
package history

import (
	"sync"
	"time"

	"github.com/Reddjoseph/DEMOHZK/internal/observability"
)

// MaxEntries caps the log; when full, the oldest entry is dropped.
const MaxEntries = 30

// Kind labels what an entry records.
type Kind string

const (
	KindStake        Kind = "stake"
	KindStakeError   Kind = "stake-error"
	KindUnstake      Kind = "unstake"
	KindUnstakeError Kind = "unstake-error"
	KindClaim        Kind = "claim"
	KindClaimError   Kind = "claim-error"
)

// Entry is one logged operation.
type Entry struct {
	Kind      Kind      `json:"kind"`
	Amount    float64   `json:"amount"`
	Detail    string    `json:"detail,omitempty"`
	Signature string    `json:"signature,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is a bounded newest-first activity log. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Add prepends an entry, evicting the oldest once MaxEntries is reached.
func (l *Log) Add(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	observability.UpdateActivityLogSize(len(l.entries))
}

// Entries returns a newest-first snapshot.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the current entry count.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
