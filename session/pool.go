package session

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent backend computations to the device count
// reported by the provider. A zero device count means no bound.
type Pool struct {
	devices int
	sem     *semaphore.Weighted
}

// NewPool returns a pool for the given device count
func NewPool(devices int) *Pool {
	p := &Pool{devices: devices}
	if devices > 0 {
		p.sem = semaphore.NewWeighted(int64(devices))
	}
	return p
}

// Devices returns the configured device count
func (p *Pool) Devices() int {
	return p.devices
}

// TryAcquire leases a device without blocking. It reports false when
// every device is held by a live computation.
func (p *Pool) TryAcquire() (*Lease, bool) {
	if p.sem != nil && !p.sem.TryAcquire(1) {
		return nil, false
	}
	return &Lease{pool: p}, true
}

// Lease is the device hold of one computation.
type Lease struct {
	pool *Pool
	once sync.Once
}

// Release returns the device to the pool.
// It is safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		if l.pool.sem != nil {
			l.pool.sem.Release(1)
		}
	})
}
