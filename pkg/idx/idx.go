// Package idx mints the ULIDs used for every primary key, request id and
// token jti.
package idx

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a canonical 26 character ULID.
type ID string

var ErrInvalid = errors.New("idx: invalid ulid")

// ulid.Monotonic is not safe for concurrent use.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

func New() ID { return NewAt(time.Now()) }

// NewAt stamps the ID with t. IDs minted in the same millisecond still sort
// in mint order.
func NewAt(t time.Time) ID {
	mu.Lock()
	u := ulid.MustNew(ulid.Timestamp(t), entropy)
	mu.Unlock()
	return ID(u.String())
}

// Parse accepts only canonical ULIDs.
func Parse(s string) (ID, error) {
	if _, err := ulid.ParseStrict(s); err != nil {
		return "", ErrInvalid
	}
	return ID(s), nil
}

func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func (id ID) IsZero() bool   { return id == "" }
func (id ID) String() string { return string(id) }
