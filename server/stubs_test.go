package server_test

import (
	"testing"

	"github.com/effective-security/xdigest/digestprov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubsUnsupported(t *testing.T) {
	s := newSoftServer(t)
	defer s.Close()

	key := []byte("key")
	data := []byte("data")
	mac := make([]byte, 32)

	_, err := s.HMACOneshotSHA256(key, data)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	_, err = s.HMACOneshotSHA384(key, data)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	_, err = s.HMACOneshotSHA512(key, data)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)

	ok, err := s.VerifyHMACSHA256(key, data, mac)
	assert.False(t, ok)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	ok, err = s.VerifyHMACSHA384(key, data, mac)
	assert.False(t, ok)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	ok, err = s.VerifyHMACSHA512(key, data, mac)
	assert.False(t, ok)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)

	_, err = s.InitSHA3_256()
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	_, err = s.InitSHA3_384()
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	_, err = s.InitSHA3_512()
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)

	_, err = s.FinalizeSHA3_256(1)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	_, err = s.FinalizeSHA3_384(1)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
	_, err = s.FinalizeSHA3_512(1)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
}

func TestStubsLeaveStateAlone(t *testing.T) {
	s := newSoftServer(t)
	defer s.Close()

	h, err := s.InitSHA256()
	require.NoError(t, err)
	require.NoError(t, s.Update(h, []byte("abc")))

	_, _ = s.HMACOneshotSHA256([]byte("k"), []byte("d"))
	_, _ = s.VerifyHMACSHA512([]byte("k"), []byte("d"), make([]byte, 64))
	_, _ = s.InitSHA3_256()
	_, _ = s.FinalizeSHA3_512(h)

	assert.Equal(t, 1, s.Sessions())
	sum, err := s.FinalizeSHA256(h)
	require.NoError(t, err)
	assert.Len(t, sum, 32)
}
