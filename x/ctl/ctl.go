package ctl

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/effective-security/x/values"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// VersionFlag is a flag to print version
type VersionFlag struct {
	Version string
}

// Decode the flag
func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }

// IsBool returns true for the flag
func (v VersionFlag) IsBool() bool { return true }

// BeforeApply is executed before context is applied
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Fprintln(app.Stdout, values.StringsCoalesce(vars["version"], v.Version))
	app.Exit(0)
	return nil
}

var (
	// jsonEncPPHandle is used to encode json with a human readable pretty printed out put, as well as
	// line breaks/indents, fields are serialized in a canonical order everytime
	jsonEncPPHandle codec.JsonHandle
)

func init() {
	jsonEncPPHandle.BasicHandle.EncodeOptions.Canonical = true
	jsonEncPPHandle.Indent = -1
}

var newLine = []byte("\n")

// WriteJSON prints response to out
func WriteJSON(out io.Writer, value interface{}) error {
	var json []byte
	err := codec.NewEncoderBytes(&json, &jsonEncPPHandle).Encode(value)
	if err != nil {
		return errors.WithMessage(err, "failed to encode")
	}

	_, _ = out.Write(json)
	_, _ = out.Write(newLine)

	return nil
}

// FileExists ensures that file exists and is not a folder
func FileExists(file string) error {
	stat, err := os.Stat(file)
	if err != nil {
		return errors.WithStack(err)
	}
	if stat.IsDir() {
		return errors.Errorf("not a file: %s", file)
	}
	return nil
}
