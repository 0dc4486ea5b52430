package softcrypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/xdigest", "softcrypto")

// ProviderName specifies a provider name
const ProviderName = "SoftCrypto"

func init() {
	_ = digestprov.Register(ProviderName, Loader)
}

// Provider implements digestprov.Provider in pure software on the
// SHA-2 and HMAC primitives of the standard library.
type Provider struct {
	tc digestprov.TokenConfig
}

// Init configures the software provider. The token configuration
// is optional and may be nil.
func Init(tc digestprov.TokenConfig) (*Provider, error) {
	return &Provider{tc: tc}, nil
}

// Manufacturer returns manufacturer for the provider
func (p *Provider) Manufacturer() string {
	if p.tc != nil && p.tc.Manufacturer() != "" {
		return p.tc.Manufacturer()
	}
	return ProviderName
}

// Model returns model for the provider
func (p *Provider) Model() string {
	if p.tc != nil && p.tc.Model() != "" {
		return p.tc.Model()
	}
	return "SHA2"
}

// Devices returns 0, software contexts are independent and not
// limited by a device.
func (p *Provider) Devices() int {
	return 0
}

func newHashFunc(algo digestprov.Algorithm) (func() hash.Hash, error) {
	switch algo.Underlying() {
	case digestprov.SHA256:
		return sha256.New, nil
	case digestprov.SHA384:
		return sha512.New384, nil
	case digestprov.SHA512:
		return sha512.New, nil
	}
	return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", algo.String())
}

// DigestInit starts a streaming digest computation
func (p *Provider) DigestInit(algo digestprov.Algorithm) (digestprov.DigestContext, error) {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), ProviderName, "digest_init")

	if algo.IsMac() {
		return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "%s requires MacInit", algo.String())
	}
	newHash, err := newHashFunc(algo)
	if err != nil {
		return nil, err
	}

	logger.KV(xlog.DEBUG, "op", "digest_init", "algo", algo.String())

	return &hashContext{h: newHash()}, nil
}

// MacInit starts a streaming MAC computation with the given key
func (p *Provider) MacInit(algo digestprov.Algorithm, key []byte) (digestprov.MacContext, error) {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), ProviderName, "mac_init")

	if !algo.IsMac() {
		return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "%s requires DigestInit", algo.String())
	}
	if err := algo.ValidateKey(key); err != nil {
		return nil, err
	}
	newHash, err := newHashFunc(algo)
	if err != nil {
		return nil, err
	}

	logger.KV(xlog.DEBUG, "op", "mac_init", "algo", algo.String(), "key_len", len(key))

	return &hashContext{h: hmac.New(newHash, key)}, nil
}

// Close frees the provider resources
func (p *Provider) Close() error {
	return nil
}

// EnumTokens lists tokens. For the software provider only one
// pseudo token is available.
func (p *Provider) EnumTokens(currentSlotOnly bool, slotInfoFunc func(slotID uint, description, label, manufacturer, model, serial string) error) error {
	return slotInfoFunc(0, "software", "", p.Manufacturer(), p.Model(), "")
}

// hashContext adapts hash.Hash to the streaming context interfaces.
// hmac.New returns a hash.Hash whose Reset restores the keyed state.
type hashContext struct {
	h hash.Hash
}

func (c *hashContext) Update(data []byte) error {
	// hash.Hash.Write never returns an error
	_, _ = c.h.Write(data)
	return nil
}

func (c *hashContext) Finalize() ([]byte, error) {
	return c.h.Sum(nil), nil
}

func (c *hashContext) Reset() error {
	c.h.Reset()
	return nil
}

func (c *hashContext) Close() error {
	return nil
}

// Loader provides loader for the software provider
func Loader(tc digestprov.TokenConfig) (digestprov.Provider, error) {
	p, err := Init(tc)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Ensure compiles
var _ digestprov.Provider = (*Provider)(nil)
var _ digestprov.TokenManager = (*Provider)(nil)
var _ digestprov.DigestContext = (*hashContext)(nil)
var _ digestprov.MacContext = (*hashContext)(nil)
