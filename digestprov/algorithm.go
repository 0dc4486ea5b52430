package digestprov

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Algorithm identifies a digest or MAC algorithm.
// The numeric values are part of the wire protocol and must not change.
type Algorithm uint32

// Algorithm identifiers.
const (
	SHA256 Algorithm = iota
	SHA384
	SHA512
	SHA3_256
	SHA3_384
	SHA3_512
	HMACSHA256
	HMACSHA384
	HMACSHA512
)

// Limits shared by all backends.
const (
	// MaxSessions is the capacity of a session store.
	MaxSessions = 8

	// MaxChunkSize is the largest data slice accepted by a single update call.
	MaxChunkSize = 1024

	// MaxOneshotSize is the largest message accepted by a one-shot digest.
	MaxOneshotSize = 1024
)

// String returns the algorithm name
func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "SHA-256"
	case SHA384:
		return "SHA-384"
	case SHA512:
		return "SHA-512"
	case SHA3_256:
		return "SHA3-256"
	case SHA3_384:
		return "SHA3-384"
	case SHA3_512:
		return "SHA3-512"
	case HMACSHA256:
		return "HMAC-SHA-256"
	case HMACSHA384:
		return "HMAC-SHA-384"
	case HMACSHA512:
		return "HMAC-SHA-512"
	}
	return fmt.Sprintf("Algorithm(%d)", uint32(a))
}

// IsMac reports whether the algorithm is a keyed MAC.
func (a Algorithm) IsMac() bool {
	switch a {
	case HMACSHA256, HMACSHA384, HMACSHA512:
		return true
	}
	return false
}

// Underlying returns the hash algorithm a MAC is built on.
// For plain digest algorithms it returns the algorithm itself.
func (a Algorithm) Underlying() Algorithm {
	switch a {
	case HMACSHA256:
		return SHA256
	case HMACSHA384:
		return SHA384
	case HMACSHA512:
		return SHA512
	}
	return a
}

// Size returns the digest size in bytes, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a.Underlying() {
	case SHA256, SHA3_256:
		return 32
	case SHA384, SHA3_384:
		return 48
	case SHA512, SHA3_512:
		return 64
	}
	return 0
}

// MaxKeySize returns the largest MAC key the algorithm accepts,
// which equals the block size of the underlying hash.
// It returns 0 for algorithms that do not take a key.
func (a Algorithm) MaxKeySize() int {
	switch a {
	case HMACSHA256:
		return 64
	case HMACSHA384, HMACSHA512:
		return 128
	}
	return 0
}

// Supported reports whether the algorithm is implemented by the service.
// The SHA-3 family is reserved in the protocol but not yet supported.
func (a Algorithm) Supported() bool {
	switch a {
	case SHA256, SHA384, SHA512, HMACSHA256, HMACSHA384, HMACSHA512:
		return true
	}
	return false
}

// ValidateKey checks the MAC key bounds for the algorithm.
func (a Algorithm) ValidateKey(key []byte) error {
	if !a.IsMac() {
		return errors.WithMessagef(ErrUnsupportedAlgorithm, "%s does not take a key", a.String())
	}
	if len(key) == 0 {
		return errors.WithStack(ErrKeyRequired)
	}
	if max := a.MaxKeySize(); len(key) > max {
		return errors.WithMessagef(ErrInvalidKeyLength, "key of %d bytes exceeds %d for %s", len(key), max, a.String())
	}
	return nil
}

// ParseAlgorithm returns the Algorithm for a name, in any common spelling,
// such as "SHA-256", "sha256" or "hmac-sha256".
func ParseAlgorithm(name string) (Algorithm, error) {
	norm := strings.ToUpper(strings.NewReplacer("-", "", "_", "").Replace(name))
	for _, a := range []Algorithm{SHA256, SHA384, SHA512, SHA3_256, SHA3_384, SHA3_512, HMACSHA256, HMACSHA384, HMACSHA512} {
		canon := strings.NewReplacer("-", "", "_", "").Replace(a.String())
		if norm == canon {
			return a, nil
		}
	}
	return 0, errors.WithMessagef(ErrUnsupportedAlgorithm, "unknown algorithm: %q", name)
}
