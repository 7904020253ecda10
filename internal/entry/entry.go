package entry

import (
	"fmt"
	"time"
)

// Entry holds one memoized result together with bookkeeping metadata.
// An entry is owned by exactly one local cache and is never shared.
type Entry struct {
	// Value is the memoized computation result.
	Value any

	// CreatedAt is when the result was computed and stored.
	CreatedAt time.Time

	// AccessedAt is when the entry was last returned by a lookup.
	AccessedAt time.Time
}

// New creates an entry for a freshly computed result.
func New(value any) *Entry {
	now := time.Now()
	return &Entry{
		Value:      value,
		CreatedAt:  now,
		AccessedAt: now,
	}
}

// Touch updates the last access time.
func (e *Entry) Touch() {
	e.AccessedAt = time.Now()
}

// Age returns how long ago the result was computed.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Idle returns how long ago the entry was last looked up.
func (e *Entry) Idle() time.Duration {
	return time.Since(e.AccessedAt)
}

// String returns a short description for debug output.
func (e *Entry) String() string {
	return fmt.Sprintf("Entry{age: %s}", e.Age().Round(time.Millisecond))
}
