package session

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
)

// Context holds the backend computation of a single session.
// Exactly one of the digest or MAC arms is set, selected by the
// algorithm tag at init.
type Context struct {
	algo digestprov.Algorithm
	dig  digestprov.DigestContext
	mac  digestprov.MacContext
}

func newContext(prov digestprov.Provider, algo digestprov.Algorithm, key []byte) (*Context, error) {
	switch algo {
	case digestprov.SHA256, digestprov.SHA384, digestprov.SHA512:
		dig, err := prov.DigestInit(algo)
		if err != nil {
			return nil, err
		}
		return &Context{algo: algo, dig: dig}, nil

	case digestprov.HMACSHA256, digestprov.HMACSHA384, digestprov.HMACSHA512:
		mac, err := prov.MacInit(algo, key)
		if err != nil {
			return nil, err
		}
		return &Context{algo: algo, mac: mac}, nil
	}

	return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", algo.String())
}

func (c *Context) update(data []byte) error {
	if c.dig != nil {
		return c.dig.Update(data)
	}
	return c.mac.Update(data)
}

// finalize checks the requested variant against the session algorithm
// before producing the result from the matching arm. On a mismatch the
// computation is left untouched.
func (c *Context) finalize(want digestprov.Algorithm) ([]byte, error) {
	if want != c.algo {
		return nil, errors.WithMessagef(digestprov.ErrInvalidSession,
			"session is %s, requested %s", c.algo.String(), want.String())
	}

	switch c.algo {
	case digestprov.SHA256, digestprov.SHA384, digestprov.SHA512:
		return c.dig.Finalize()
	case digestprov.HMACSHA256, digestprov.HMACSHA384, digestprov.HMACSHA512:
		return c.mac.Finalize()
	}

	return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", c.algo.String())
}

func (c *Context) reset() error {
	if c.dig != nil {
		return c.dig.Reset()
	}
	return c.mac.Reset()
}

func (c *Context) close() error {
	if c.dig != nil {
		return c.dig.Close()
	}
	return c.mac.Close()
}
