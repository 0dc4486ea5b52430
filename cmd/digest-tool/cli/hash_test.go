package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type hashSuite struct {
	testSuite
}

func TestHashSuite(t *testing.T) {
	suite.Run(t, new(hashSuite))
}

func (s *hashSuite) TestHashStdin() {
	s.ctl.WithReader(strings.NewReader("abc"))

	cmd := HashCmd{File: "-", Alg: "SHA-256"}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad  -\n")
}

func (s *hashSuite) TestHashFile() {
	file := filepath.Join(s.T().TempDir(), "data.txt")
	s.Require().NoError(os.WriteFile(file, []byte("abc"), 0644))

	// spellings are normalized
	cmd := HashCmd{File: file, Alg: "sha384"}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7")
}

func (s *hashSuite) TestHashLargeFile() {
	// larger than a single chunk, exercises the streaming path
	file := filepath.Join(s.T().TempDir(), "data.bin")
	s.Require().NoError(os.WriteFile(file, make([]byte, 10000), 0644))

	cmd := HashCmd{File: file, Alg: "SHA-256"}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("95b532cc4381affdff0d956e12520a04129ed49d37e154228368fe5621f0b9a2")
}

func (s *hashSuite) TestHashOut() {
	tmpdir := s.T().TempDir()
	file := filepath.Join(tmpdir, "data.txt")
	s.Require().NoError(os.WriteFile(file, []byte("abc"), 0644))

	out := filepath.Join(tmpdir, "digest.txt")
	cmd := HashCmd{File: file, Alg: "SHA-256", Out: out}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)

	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Contains(err.Error(), "specify --force flag to override")

	cmd.Force = true
	s.Require().NoError(cmd.Run(s.ctl))

	b, err := os.ReadFile(out)
	s.Require().NoError(err)
	s.Equal("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad\n", string(b))
}

func (s *hashSuite) TestHashJSON() {
	s.ctl.WithReader(strings.NewReader("abc"))

	cmd := HashCmd{File: "-", Alg: "SHA-512", JSON: true}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText(
		"SHA-512",
		"ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
	)
}

func (s *hashSuite) TestHashErrors() {
	cmd := HashCmd{File: "-", Alg: "MD5"}
	err := cmd.Run(s.ctl)
	s.Require().Error(err)

	cmd = HashCmd{File: "-", Alg: "HMAC-SHA-256"}
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Equal("use the hmac command for HMAC-SHA-256", err.Error())

	cmd = HashCmd{File: filepath.Join(s.T().TempDir(), "missing.txt"), Alg: "SHA-256"}
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
}
