// Package server implements the digest service core. It dispatches
// streaming digest and MAC operations to a backend provider through a
// fixed capacity session store and a device pool.
package server

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/metricskey"
	"github.com/effective-security/xdigest/session"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/xdigest", "server")

// Server dispatches digest requests to a backend provider. Methods are
// safe for concurrent use, operations are serialized the way a single
// shared device is.
type Server struct {
	mu    sync.Mutex
	prov  digestprov.Provider
	pool  *session.Pool
	store *session.Store
}

// New returns a server for the provider
func New(prov digestprov.Provider) *Server {
	pool := session.NewPool(prov.Devices())
	logger.KV(xlog.INFO,
		"status", "started",
		"provider", prov.Manufacturer(),
		"model", prov.Model(),
		"devices", prov.Devices())

	return &Server{
		prov:  prov,
		pool:  pool,
		store: session.NewStore(prov, pool),
	}
}

// Provider returns the backend provider
func (s *Server) Provider() digestprov.Provider {
	return s.prov
}

// Sessions returns the number of live sessions
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// InitSHA256 starts a SHA-256 session and returns its handle
func (s *Server) InitSHA256() (uint32, error) {
	return s.create(digestprov.SHA256, nil)
}

// InitSHA384 starts a SHA-384 session and returns its handle
func (s *Server) InitSHA384() (uint32, error) {
	return s.create(digestprov.SHA384, nil)
}

// InitSHA512 starts a SHA-512 session and returns its handle
func (s *Server) InitSHA512() (uint32, error) {
	return s.create(digestprov.SHA512, nil)
}

// InitHMACSHA256 starts an HMAC-SHA-256 session with the given key
func (s *Server) InitHMACSHA256(key []byte) (uint32, error) {
	return s.create(digestprov.HMACSHA256, key)
}

// InitHMACSHA384 starts an HMAC-SHA-384 session with the given key
func (s *Server) InitHMACSHA384(key []byte) (uint32, error) {
	return s.create(digestprov.HMACSHA384, key)
}

// InitHMACSHA512 starts an HMAC-SHA-512 session with the given key
func (s *Server) InitHMACSHA512(key []byte) (uint32, error) {
	return s.create(digestprov.HMACSHA512, key)
}

func (s *Server) create(algo digestprov.Algorithm, key []byte) (uint32, error) {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), s.prov.Manufacturer(), "init")

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Create(algo, key)
}

// Update absorbs the next chunk of data into the session.
// A single chunk is limited to MaxChunkSize bytes.
func (s *Server) Update(handle uint32, data []byte) error {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), s.prov.Manufacturer(), "update")

	if len(data) > digestprov.MaxChunkSize {
		return errors.WithMessagef(digestprov.ErrInvalidInputLength,
			"chunk of %d bytes exceeds %d", len(data), digestprov.MaxChunkSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Update(handle, data)
}

// FinalizeSHA256 completes a SHA-256 session and frees its handle
func (s *Server) FinalizeSHA256(handle uint32) ([]byte, error) {
	return s.finalize(handle, digestprov.SHA256)
}

// FinalizeSHA384 completes a SHA-384 session and frees its handle
func (s *Server) FinalizeSHA384(handle uint32) ([]byte, error) {
	return s.finalize(handle, digestprov.SHA384)
}

// FinalizeSHA512 completes a SHA-512 session and frees its handle
func (s *Server) FinalizeSHA512(handle uint32) ([]byte, error) {
	return s.finalize(handle, digestprov.SHA512)
}

// FinalizeHMACSHA256 completes an HMAC-SHA-256 session and frees its handle
func (s *Server) FinalizeHMACSHA256(handle uint32) ([]byte, error) {
	return s.finalize(handle, digestprov.HMACSHA256)
}

// FinalizeHMACSHA384 completes an HMAC-SHA-384 session and frees its handle
func (s *Server) FinalizeHMACSHA384(handle uint32) ([]byte, error) {
	return s.finalize(handle, digestprov.HMACSHA384)
}

// FinalizeHMACSHA512 completes an HMAC-SHA-512 session and frees its handle
func (s *Server) FinalizeHMACSHA512(handle uint32) ([]byte, error) {
	return s.finalize(handle, digestprov.HMACSHA512)
}

func (s *Server) finalize(handle uint32, want digestprov.Algorithm) ([]byte, error) {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), s.prov.Manufacturer(), "finalize")

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Finalize(handle, want)
}

// Reset discards the absorbed data of a session. The session keeps its
// handle, key and device lease and can absorb data again.
func (s *Server) Reset(handle uint32) error {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), s.prov.Manufacturer(), "reset")

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Reset(handle)
}

// DigestOneshotSHA256 computes the SHA-256 digest of data in a single
// call without holding a session slot
func (s *Server) DigestOneshotSHA256(data []byte) ([]byte, error) {
	return s.oneshot(digestprov.SHA256, data)
}

// DigestOneshotSHA384 computes the SHA-384 digest of data in a single
// call without holding a session slot
func (s *Server) DigestOneshotSHA384(data []byte) ([]byte, error) {
	return s.oneshot(digestprov.SHA384, data)
}

// DigestOneshotSHA512 computes the SHA-512 digest of data in a single
// call without holding a session slot
func (s *Server) DigestOneshotSHA512(data []byte) ([]byte, error) {
	return s.oneshot(digestprov.SHA512, data)
}

func (s *Server) oneshot(algo digestprov.Algorithm, data []byte) ([]byte, error) {
	defer metricskey.PerfDigestOneshot.MeasureSince(time.Now(), s.prov.Manufacturer(), algo.String())

	if len(data) > digestprov.MaxOneshotSize {
		return nil, errors.WithMessagef(digestprov.ErrInvalidInputLength,
			"message of %d bytes exceeds %d", len(data), digestprov.MaxOneshotSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lease, ok := s.pool.TryAcquire()
	if !ok {
		return nil, errors.WithMessage(digestprov.ErrBusy, "no device available")
	}

	guard, err := session.NewGuard(s.prov, lease, algo, nil)
	if err != nil {
		return nil, err
	}
	defer guard.Close()

	if err := guard.Update(data); err != nil {
		return nil, err
	}
	return guard.Finalize(algo)
}

// Close tears down all live sessions and the provider
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.store.Close()
	return s.prov.Close()
}
