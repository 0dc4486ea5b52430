package session

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/xdigest", "session")

type slot struct {
	handle uint32
	guard  *Guard
}

// Store tracks live sessions in a fixed arena of MaxSessions slots.
// Handles are allocated from 1 upwards, wrapping around and skipping
// zero and values still held by live sessions.
//
// A Store is not safe for concurrent use, callers serialize access.
type Store struct {
	prov   digestprov.Provider
	pool   *Pool
	slots  [digestprov.MaxSessions]slot
	nextID uint32
	count  int
}

// NewStore returns an empty session store backed by the provider and
// its device pool
func NewStore(prov digestprov.Provider, pool *Pool) *Store {
	return &Store{
		prov:   prov,
		pool:   pool,
		nextID: 1,
	}
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.count
}

func (s *Store) index(handle uint32) int {
	if handle == 0 {
		return -1
	}
	for i := range s.slots {
		if s.slots[i].handle == handle {
			return i
		}
	}
	return -1
}

func (s *Store) allocHandle() uint32 {
	for {
		id := s.nextID
		s.nextID++
		if s.nextID == 0 {
			s.nextID = 1
		}
		if id != 0 && s.index(id) < 0 {
			return id
		}
	}
}

// Create starts a new session and returns its handle. The key is
// required for MAC algorithms and must be within the algorithm bounds.
// When the store is full or no device can be leased it fails with
// ErrTooManySessions.
func (s *Store) Create(algo digestprov.Algorithm, key []byte) (uint32, error) {
	if algo.IsMac() {
		if err := algo.ValidateKey(key); err != nil {
			return 0, err
		}
	}

	free := -1
	for i := range s.slots {
		if s.slots[i].handle == 0 {
			free = i
			break
		}
	}
	if free < 0 {
		return 0, errors.WithMessagef(digestprov.ErrTooManySessions, "capacity: %d", digestprov.MaxSessions)
	}

	lease, ok := s.pool.TryAcquire()
	if !ok {
		return 0, errors.WithMessage(digestprov.ErrTooManySessions, "no device available")
	}

	guard, err := NewGuard(s.prov, lease, algo, key)
	if err != nil {
		return 0, err
	}

	handle := s.allocHandle()
	s.slots[free] = slot{handle: handle, guard: guard}
	s.count++

	logger.KV(xlog.DEBUG, "op", "create", "algo", algo.String(), "handle", handle, "live", s.count)

	return handle, nil
}

// Update absorbs data into the session. A backend failure tears the
// session down and releases its device.
func (s *Store) Update(handle uint32, data []byte) error {
	i := s.index(handle)
	if i < 0 {
		return errors.WithMessagef(digestprov.ErrInvalidSession, "handle: %d", handle)
	}

	if err := s.slots[i].guard.Update(data); err != nil {
		s.evict(i)
		return err
	}
	return nil
}

// Finalize completes the session for the requested variant, frees its
// slot and releases its device. When the variant does not match the
// session algorithm the session stays live and usable.
func (s *Store) Finalize(handle uint32, want digestprov.Algorithm) ([]byte, error) {
	i := s.index(handle)
	if i < 0 {
		return nil, errors.WithMessagef(digestprov.ErrInvalidSession, "handle: %d", handle)
	}

	out, err := s.slots[i].guard.Finalize(want)
	if err != nil {
		if errors.Is(err, digestprov.ErrInvalidSession) {
			// no state was consumed, the session survives
			return nil, err
		}
		s.evict(i)
		return nil, err
	}

	s.evict(i)
	return out, nil
}

// Reset discards the absorbed data of the session but keeps its
// handle, key and device lease.
func (s *Store) Reset(handle uint32) error {
	i := s.index(handle)
	if i < 0 {
		return errors.WithMessagef(digestprov.ErrInvalidSession, "handle: %d", handle)
	}

	if err := s.slots[i].guard.Reset(); err != nil {
		s.evict(i)
		return err
	}
	return nil
}

func (s *Store) evict(i int) {
	g := s.slots[i].guard
	handle := s.slots[i].handle
	s.slots[i] = slot{}
	s.count--

	metricskey.PerfDigestSession.MeasureSince(g.created, s.prov.Manufacturer(), g.Algorithm().String())

	if err := g.Close(); err != nil {
		logger.KV(xlog.WARNING, "op", "evict", "handle", handle, "err", err.Error())
	}
}

// Close tears down all live sessions
func (s *Store) Close() error {
	for i := range s.slots {
		if s.slots[i].handle != 0 {
			s.evict(i)
		}
	}
	return nil
}
