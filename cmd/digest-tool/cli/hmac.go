package cli

import (
	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/x/ctl"
	"github.com/effective-security/xdigest/x/fileutil"
	"github.com/pkg/errors"
)

// HmacCmd computes the HMAC of a file
type HmacCmd struct {
	File  string `kong:"arg" optional:"" default:"-" help:"file to authenticate, use - for STDIN"`
	Alg   string `help:"MAC algorithm: HMAC-SHA-256|HMAC-SHA-384|HMAC-SHA-512" default:"HMAC-SHA-256"`
	Key   string `required:"" help:"HMAC key, supports file:// and env:// schemas"`
	JSON  bool   `help:"print the result as JSON"`
	Out   string `help:"location to write the MAC, if not set, the output will be printed to STDOUT only"`
	Force bool   `help:"force to override output file if exists"`
}

// Run the command
func (a *HmacCmd) Run(ctx *Cli) error {
	algo, err := digestprov.ParseAlgorithm(a.Alg)
	if err != nil {
		return err
	}
	if !algo.IsMac() {
		return errors.Errorf("use the hash command for %s", algo.String())
	}
	if a.Out != "" && !a.Force && ctl.FileExists(a.Out) == nil {
		return errors.Errorf("%q file exists, specify --force flag to override", a.Out)
	}

	key, err := a.key()
	if err != nil {
		return err
	}

	data, err := ctx.ReadFile(a.File)
	if err != nil {
		return errors.WithStack(err)
	}

	mac, err := streamSum(ctx.DigestServer(), algo, key, data)
	if err != nil {
		return err
	}

	return writeSum(ctx, a.JSON, a.Out, algo, a.File, mac)
}

// key returns the HMAC key bytes, the file:// and env:// schemas
// load them from a file or an environment variable.
func (a *HmacCmd) key() ([]byte, error) {
	if a.Key == "" {
		return nil, errors.New("use --key flag to specify the HMAC key")
	}
	val, err := fileutil.LoadConfigWithSchema(a.Key)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to load key")
	}
	return []byte(val), nil
}
