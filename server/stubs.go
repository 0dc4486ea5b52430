package server

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
)

// Operations reserved in the protocol but not implemented by this
// service. They fail with ErrUnsupportedAlgorithm without touching
// session state, so clients can probe the surface safely.

// HMACOneshotSHA256 is reserved and not implemented
func (s *Server) HMACOneshotSHA256(key, data []byte) ([]byte, error) {
	return nil, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// HMACOneshotSHA384 is reserved and not implemented
func (s *Server) HMACOneshotSHA384(key, data []byte) ([]byte, error) {
	return nil, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// HMACOneshotSHA512 is reserved and not implemented
func (s *Server) HMACOneshotSHA512(key, data []byte) ([]byte, error) {
	return nil, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// VerifyHMACSHA256 is reserved and not implemented
func (s *Server) VerifyHMACSHA256(key, data, mac []byte) (bool, error) {
	return false, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// VerifyHMACSHA384 is reserved and not implemented
func (s *Server) VerifyHMACSHA384(key, data, mac []byte) (bool, error) {
	return false, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// VerifyHMACSHA512 is reserved and not implemented
func (s *Server) VerifyHMACSHA512(key, data, mac []byte) (bool, error) {
	return false, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// InitSHA3_256 is reserved for the SHA-3 family and not implemented
func (s *Server) InitSHA3_256() (uint32, error) {
	return 0, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// InitSHA3_384 is reserved for the SHA-3 family and not implemented
func (s *Server) InitSHA3_384() (uint32, error) {
	return 0, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// InitSHA3_512 is reserved for the SHA-3 family and not implemented
func (s *Server) InitSHA3_512() (uint32, error) {
	return 0, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// FinalizeSHA3_256 is reserved for the SHA-3 family and not implemented
func (s *Server) FinalizeSHA3_256(handle uint32) ([]byte, error) {
	return nil, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// FinalizeSHA3_384 is reserved for the SHA-3 family and not implemented
func (s *Server) FinalizeSHA3_384(handle uint32) ([]byte, error) {
	return nil, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}

// FinalizeSHA3_512 is reserved for the SHA-3 family and not implemented
func (s *Server) FinalizeSHA3_512(handle uint32) ([]byte, error) {
	return nil, errors.WithStack(digestprov.ErrUnsupportedAlgorithm)
}
