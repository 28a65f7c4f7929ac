package model

import (
	"time"

	"github.com/rs/xid"
)

// NewID returns a fresh opaque identifier.
//
// xid IDs are 20 chars, URL-safe and sortable by creation time, e.g.
// "cv37rs3pp9olc6atsptg".
func NewID() string {
	return xid.New().String()
}

// Now returns the current time in UTC. UTC() also strips the monotonic clock
// reading, so values compare the same before and after a storage round trip.
func Now() time.Time {
	return time.Now().UTC()
}
