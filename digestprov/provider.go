package digestprov

import (
	"crypto/subtle"
)

// TokenInfo provides basic token information
type TokenInfo struct {
	SlotID       uint
	Description  string
	Label        string
	Manufacturer string
	Model        string
	Serial       string
}

// DigestContext is a streaming digest computation owned by a single session.
// A context is not safe for concurrent use.
type DigestContext interface {
	// Update absorbs the next chunk of the message.
	Update(data []byte) error

	// Finalize completes the computation and returns the digest.
	Finalize() ([]byte, error)

	// Reset discards all absorbed data and starts a fresh computation
	// with the same algorithm.
	Reset() error

	// Close releases backend resources held by the context.
	Close() error
}

// MacContext is a streaming MAC computation owned by a single session.
// A context is not safe for concurrent use.
type MacContext interface {
	// Update absorbs the next chunk of the message.
	Update(data []byte) error

	// Finalize completes the computation and returns the MAC.
	Finalize() ([]byte, error)

	// Reset discards all absorbed data and restarts the computation
	// with the key supplied at init.
	Reset() error

	// Close releases backend resources held by the context,
	// including the key material.
	Close() error
}

// Provider is an interface to a digest backend.
type Provider interface {
	// Manufacturer returns name of the provider
	Manufacturer() string

	// Model returns model of the device
	Model() string

	// Devices reports how many computations the backend can run at once.
	// Zero means contexts are independent and not limited by the device.
	Devices() int

	// DigestInit starts a streaming digest computation.
	DigestInit(algo Algorithm) (DigestContext, error)

	// MacInit starts a streaming MAC computation with the given key.
	// The key is copied, the caller may discard its buffer after the call.
	MacInit(algo Algorithm, key []byte) (MacContext, error)

	// Close frees the backend resources
	Close() error
}

// TokenManager provides token enumeration for providers that support it
type TokenManager interface {
	// EnumTokens lists tokens. For PKCS#11 this enumerates hardware slots,
	// with currentSlotOnly restricting the list to the configured token.
	EnumTokens(currentSlotOnly bool, slotInfoFunc func(slotID uint, description, label, manufacturer, model, serial string) error) error
}

// ConstantTimeEqual compares two digests without leaking the position
// of the first difference. It returns false for different lengths.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
