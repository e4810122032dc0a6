// Package id provides centralized ID generation for the curator.
//
// IDs are ULIDs, optionally prefixed by type:
//   - Lexicographic sortability: pass IDs order by creation time
//   - Prefixed types: pass_*, req_* make logs readable
//   - Type safety: Separate types prevent ID misuse
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// PassID identifies one curation pass
type PassID string

// RequestID identifies an API request
type RequestID string

const (
	PassPrefix    = "pass"
	RequestPrefix = "req"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewPassID generates a new curation pass ID
func NewPassID() PassID {
	return PassID(Default().GenerateWithPrefix(PassPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id PassID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }

// ParsePrefixed parses an id of the form "<prefix>_<ulid>"
func ParsePrefixed(s, prefix string) (ulid.ULID, error) {
	raw, ok := strings.CutPrefix(s, prefix+"_")
	if !ok {
		return ulid.ULID{}, fmt.Errorf("id %q lacks prefix %q", s, prefix)
	}
	return ulid.ParseStrict(raw)
}

// IsRequestID reports whether s is a request id issued by NewRequestID
func IsRequestID(s string) bool {
	_, err := ParsePrefixed(s, RequestPrefix)
	return err == nil
}
