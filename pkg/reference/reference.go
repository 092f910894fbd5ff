package reference

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefix marks references minted by this service; processor references are
// stored verbatim.
const Prefix = "TXN_"

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a unique, time-sortable ledger reference like TXN_01J9Z3....
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy)
	return Prefix + id.String()
}

// IsInternal reports whether ref was minted by New.
func IsInternal(ref string) bool {
	if !strings.HasPrefix(ref, Prefix) {
		return false
	}
	_, err := ulid.ParseStrict(strings.TrimPrefix(ref, Prefix))
	return err == nil
}
