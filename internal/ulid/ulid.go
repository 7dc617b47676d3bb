// Package ulid generates prefixed ULID identifiers for posts and
// generation batches. ULIDs are lexicographically sortable by creation
// time, which keeps database indexes append-friendly, and the prefix
// makes an ID's kind readable at a glance (e.g. "post-01AN4Z...").
package ulid

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the ID kinds the application stores.
const (
	PrefixPost  = "post"
	PrefixBatch = "batch"

	// PrefixSeparator separates the prefix from the ULID body.
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// ULID wraps ulid.ULID with an optional kind prefix.
type ULID struct {
	ulid.ULID
	prefix string
}

// Generate creates a new ULID with the current timestamp.
func Generate() ULID {
	return NewWithTime(time.Now())
}

// GenerateWithPrefix creates a new ULID with the current timestamp and
// the given kind prefix.
func GenerateWithPrefix(prefix string) ULID {
	id := NewWithTime(time.Now())
	id.prefix = prefix
	return id
}

// NewWithTime creates a new ULID with a specific timestamp.
func NewWithTime(t time.Time) ULID {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	entropyLock.Unlock()
	return ULID{id, ""}
}

// Parse parses a plain or prefixed ULID string
// (e.g. "post-01AN4Z07BY79KA1307SR9X4MV3").
func Parse(id string) (ULID, error) {
	prefix, rawID, found := strings.Cut(id, PrefixSeparator)
	if !found {
		prefix, rawID = "", id
	}

	parsed, err := ulid.Parse(rawID)
	if err != nil {
		return ULID{}, err
	}
	return ULID{parsed, prefix}, nil
}

// Validate reports whether a string is a valid plain or prefixed ULID.
func Validate(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Prefix returns the kind prefix, or "" for a plain ULID.
func (u ULID) Prefix() string {
	return u.prefix
}

// String returns "prefix-ulid" for prefixed IDs and the bare ULID
// otherwise.
func (u ULID) String() string {
	if u.prefix != "" {
		return u.prefix + PrefixSeparator + u.ULID.String()
	}
	return u.ULID.String()
}

// PostID generates a new post identifier.
func PostID() string {
	return GenerateWithPrefix(PrefixPost).String()
}

// BatchID generates a new batch identifier.
func BatchID() string {
	return GenerateWithPrefix(PrefixBatch).String()
}
