package session

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xlog"
)

// Guard owns the backend context and the device lease of one live
// computation. Closing it releases both exactly once.
type Guard struct {
	ctx     *Context
	lease   *Lease
	created time.Time
	once    sync.Once
}

// NewGuard starts a backend computation under the given lease.
// On failure the lease is released before returning.
func NewGuard(prov digestprov.Provider, lease *Lease, algo digestprov.Algorithm, key []byte) (*Guard, error) {
	ctx, err := newContext(prov, algo, key)
	if err != nil {
		lease.Release()
		return nil, publicError(err)
	}
	return &Guard{ctx: ctx, lease: lease, created: time.Now()}, nil
}

// Algorithm returns the algorithm the computation was started with
func (g *Guard) Algorithm() digestprov.Algorithm {
	return g.ctx.algo
}

// Update absorbs the next chunk into the computation
func (g *Guard) Update(data []byte) error {
	return publicError(g.ctx.update(data))
}

// Finalize completes the computation for the requested variant
func (g *Guard) Finalize(want digestprov.Algorithm) ([]byte, error) {
	out, err := g.ctx.finalize(want)
	if err != nil {
		return nil, publicError(err)
	}
	return out, nil
}

// Reset discards absorbed data, keeping the key and the device lease
func (g *Guard) Reset() error {
	return publicError(g.ctx.reset())
}

// Close tears down the backend context and releases the device lease.
// It is safe to call more than once.
func (g *Guard) Close() error {
	var err error
	g.once.Do(func() {
		err = g.ctx.close()
		g.lease.Release()
	})
	return publicError(err)
}

// publicError keeps errors of the public taxonomy as they are and
// surfaces any other backend failure as ErrHardwareFailure.
func publicError(err error) error {
	if err == nil || digestprov.KnownError(err) {
		return err
	}
	logger.KV(xlog.ERROR, "reason", "backend", "err", err.Error())
	return errors.WithMessagef(digestprov.ErrHardwareFailure, "%v", err)
}
