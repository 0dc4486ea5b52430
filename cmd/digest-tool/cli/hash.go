package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/server"
	"github.com/effective-security/xdigest/x/ctl"
	"github.com/pkg/errors"
)

// HashCmd computes the digest of a file
type HashCmd struct {
	File  string `kong:"arg" optional:"" default:"-" help:"file to hash, use - for STDIN"`
	Alg   string `help:"digest algorithm: SHA-256|SHA-384|SHA-512" default:"SHA-256"`
	JSON  bool   `help:"print the result as JSON"`
	Out   string `help:"location to write the digest, if not set, the output will be printed to STDOUT only"`
	Force bool   `help:"force to override output file if exists"`
}

// DigestInfo is the JSON output of the hash and hmac commands
type DigestInfo struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
	File      string `json:"file,omitempty"`
}

// Run the command
func (a *HashCmd) Run(ctx *Cli) error {
	algo, err := digestprov.ParseAlgorithm(a.Alg)
	if err != nil {
		return err
	}
	if algo.IsMac() {
		return errors.Errorf("use the hmac command for %s", algo.String())
	}
	if a.Out != "" && !a.Force && ctl.FileExists(a.Out) == nil {
		return errors.Errorf("%q file exists, specify --force flag to override", a.Out)
	}

	data, err := ctx.ReadFile(a.File)
	if err != nil {
		return errors.WithStack(err)
	}

	sum, err := streamSum(ctx.DigestServer(), algo, nil, data)
	if err != nil {
		return err
	}

	return writeSum(ctx, a.JSON, a.Out, algo, a.File, sum)
}

// streamSum feeds data through a streaming session in chunks the
// server accepts.
func streamSum(srv *server.Server, algo digestprov.Algorithm, key, data []byte) ([]byte, error) {
	init, finalize, err := sessionFuncs(srv, algo, key)
	if err != nil {
		return nil, err
	}

	handle, err := init()
	if err != nil {
		return nil, err
	}
	for len(data) > 0 {
		n := len(data)
		if n > digestprov.MaxChunkSize {
			n = digestprov.MaxChunkSize
		}
		if err := srv.Update(handle, data[:n]); err != nil {
			// the session is evicted on backend faults, finalize
			// releases it in the remaining cases
			_, _ = finalize(handle)
			return nil, err
		}
		data = data[n:]
	}
	return finalize(handle)
}

func sessionFuncs(srv *server.Server, algo digestprov.Algorithm, key []byte) (func() (uint32, error), func(uint32) ([]byte, error), error) {
	switch algo {
	case digestprov.SHA256:
		return srv.InitSHA256, srv.FinalizeSHA256, nil
	case digestprov.SHA384:
		return srv.InitSHA384, srv.FinalizeSHA384, nil
	case digestprov.SHA512:
		return srv.InitSHA512, srv.FinalizeSHA512, nil
	case digestprov.HMACSHA256:
		return func() (uint32, error) { return srv.InitHMACSHA256(key) }, srv.FinalizeHMACSHA256, nil
	case digestprov.HMACSHA384:
		return func() (uint32, error) { return srv.InitHMACSHA384(key) }, srv.FinalizeHMACSHA384, nil
	case digestprov.HMACSHA512:
		return func() (uint32, error) { return srv.InitHMACSHA512(key) }, srv.FinalizeHMACSHA512, nil
	}
	return nil, nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", algo.String())
}

func writeSum(ctx *Cli, asJSON bool, outFile string, algo digestprov.Algorithm, file string, sum []byte) error {
	hexsum := hex.EncodeToString(sum)

	if outFile != "" {
		err := os.WriteFile(outFile, []byte(hexsum+"\n"), 0644)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	if asJSON {
		return ctx.WriteJSON(&DigestInfo{
			Algorithm: algo.String(),
			Digest:    hexsum,
			File:      file,
		})
	}

	fmt.Fprintf(ctx.Writer(), "%s  %s\n", hexsum, file)
	return nil
}
