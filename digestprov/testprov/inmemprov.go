package testprov

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
)

// ProviderName specifies a provider name
const ProviderName = "inmem"

func init() {
	_ = digestprov.Register(ProviderName, Loader)
}

// FNV-1a parameters for the stand-in computation.
const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// Provider implements digestprov.Provider with a deterministic stand-in
// computation. It lets tests exercise session and device plumbing
// without a real hash implementation, and can inject device faults.
type Provider struct {
	tc      digestprov.TokenConfig
	devices int
	active  atomic.Int32

	// Fault injection. When set, the corresponding context
	// operation fails with a backend error.
	FailUpdate   bool
	FailFinalize bool
	FailReset    bool
}

// Init returns an unlimited in-memory provider
func Init() (*Provider, error) {
	return &Provider{}, nil
}

// WithDevices returns a provider limited to n concurrent contexts
func WithDevices(n int) *Provider {
	return &Provider{devices: n}
}

// Loader provides loader for the in-memory provider.
// The device count is taken from the "Devices" token attribute.
func Loader(tc digestprov.TokenConfig) (digestprov.Provider, error) {
	return &Provider{
		tc:      tc,
		devices: digestprov.TokenAttributeInt(tc, "Devices", 0),
	}, nil
}

// Manufacturer returns manufacturer for the provider
func (p *Provider) Manufacturer() string {
	return ProviderName
}

// Model returns model for the provider
func (p *Provider) Model() string {
	return "FNV1A"
}

// Devices returns the configured device count
func (p *Provider) Devices() int {
	return p.devices
}

// Active returns the number of open contexts
func (p *Provider) Active() int {
	return int(p.active.Load())
}

// DigestInit starts a stand-in digest computation
func (p *Provider) DigestInit(algo digestprov.Algorithm) (digestprov.DigestContext, error) {
	if algo.IsMac() || !algo.Supported() {
		return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", algo.String())
	}
	return p.newContext(algo, nil), nil
}

// MacInit starts a stand-in MAC computation
func (p *Provider) MacInit(algo digestprov.Algorithm, key []byte) (digestprov.MacContext, error) {
	if !algo.IsMac() || !algo.Supported() {
		return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", algo.String())
	}
	if err := algo.ValidateKey(key); err != nil {
		return nil, err
	}
	return p.newContext(algo, key), nil
}

// Close frees the provider resources
func (p *Provider) Close() error {
	return nil
}

// EnumTokens lists tokens. For the in-memory provider only one
// pseudo token is available.
func (p *Provider) EnumTokens(currentSlotOnly bool, slotInfoFunc func(slotID uint, description, label, manufacturer, model, serial string) error) error {
	return slotInfoFunc(0, "inmem", "", p.Manufacturer(), p.Model(), "")
}

func (p *Provider) newContext(algo digestprov.Algorithm, key []byte) *inmemContext {
	seed := uint64(offset64)
	seed = (seed ^ uint64(algo)) * prime64
	for _, b := range key {
		seed = (seed ^ uint64(b)) * prime64
	}
	if key != nil {
		seed = (seed ^ 0xff) * prime64
	}
	p.active.Add(1)
	return &inmemContext{p: p, algo: algo, seed: seed, state: seed}
}

// inmemContext absorbs bytes into a rolling FNV-1a state, so the
// result depends only on the byte sequence, not on chunk boundaries.
type inmemContext struct {
	p      *Provider
	algo   digestprov.Algorithm
	seed   uint64
	state  uint64
	closed bool
}

func (c *inmemContext) Update(data []byte) error {
	if c.p.FailUpdate {
		return errors.New("inmem: injected update failure")
	}
	for _, b := range data {
		c.state = (c.state ^ uint64(b)) * prime64
	}
	return nil
}

func (c *inmemContext) Finalize() ([]byte, error) {
	if c.p.FailFinalize {
		return nil, errors.New("inmem: injected finalize failure")
	}
	out := make([]byte, c.algo.Size())
	s := c.state
	for i := 0; i < len(out); i += 8 {
		s = (s ^ uint64(i+1)) * prime64
		binary.BigEndian.PutUint64(out[i:], s)
	}
	return out, nil
}

func (c *inmemContext) Reset() error {
	if c.p.FailReset {
		return errors.New("inmem: injected reset failure")
	}
	c.state = c.seed
	return nil
}

func (c *inmemContext) Close() error {
	if !c.closed {
		c.closed = true
		c.p.active.Add(-1)
	}
	return nil
}

// Ensure compiles
var _ digestprov.Provider = (*Provider)(nil)
var _ digestprov.TokenManager = (*Provider)(nil)
