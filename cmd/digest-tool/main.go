package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/effective-security/x/ctl"
	"github.com/effective-security/xdigest/cmd/digest-tool/cli"
	"github.com/effective-security/xdigest/internal/version"
	logger "github.com/sirupsen/logrus"

	// register providers
	_ "github.com/effective-security/xdigest/crypto11"
	_ "github.com/effective-security/xdigest/digestprov/softcrypto"
)

type app struct {
	cli.Cli

	Hash     cli.HashCmd     `cmd:"" help:"compute message digest"`
	Hmac     cli.HmacCmd     `cmd:"" help:"compute HMAC"`
	Tokens   cli.TokensCmd   `cmd:"" help:"list tokens of the configured provider"`
	Selftest cli.SelftestCmd `cmd:"" help:"verify the provider against known answers"`
}

func main() {
	logger.SetReportCaller(true)
	logger.SetFormatter(&logger.TextFormatter{})

	realMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

func realMain(args []string, out io.Writer, errout io.Writer, exit func(int)) {
	cl := app{
		Cli: cli.Cli{},
	}
	cl.Cli.WithErrWriter(errout).
		WithWriter(out)

	parser, err := kong.New(&cl,
		kong.Name("digest-tool"),
		kong.Description("CLI tool for digest and HMAC operations"),
		//kong.UsageOnError(),
		kong.Writers(out, errout),
		kong.Exit(exit),
		ctl.BoolPtrMapper,
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.Current().String(),
		})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args[1:])
	parser.FatalIfErrorf(err)

	if ctx != nil {
		if cl.Debug {
			// in DEBUG more print command line
			_, _ = fmt.Fprintf(ctx.Stdout, "#\n# %s\n#\n", strings.Join(args, " "))
		}
		err = ctx.Run(&cl.Cli)
		ctx.FatalIfErrorf(err)
	}
}
