package cli

import (
	"bytes"

	"github.com/alecthomas/kong"
	"github.com/effective-security/xdigest/x/ctl"
	"github.com/stretchr/testify/suite"

	// register providers
	_ "github.com/effective-security/xdigest/digestprov/softcrypto"
	_ "github.com/effective-security/xdigest/digestprov/testprov"
)

type testSuite struct {
	suite.Suite

	ctl *Cli
	// Out is the outpub buffer
	Out bytes.Buffer
}

func (s *testSuite) SetupTest() {

	s.ctl = &Cli{}

	s.ctl.WithErrWriter(&s.Out).
		WithWriter(&s.Out)

	parser, err := kong.New(s.ctl,
		kong.Name("digest-tool"),
		kong.Description("CLI tool for digest and HMAC operations"),
		kong.Writers(&s.Out, &s.Out),
		ctl.BoolPtrMapper,
		//kong.Exit(exit),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{})
	if err != nil {
		s.FailNow("unexpected error constructing Kong: %+v", err)
	}

	_, err = parser.Parse([]string{})
	if err != nil {
		s.FailNow("unexpected error parsing: %+v", err)
	}
}

func (s *testSuite) TearDownTest() {
	if s.ctl.srv != nil {
		_ = s.ctl.srv.Close()
		s.ctl.srv = nil
	}
	s.Out.Reset()
}

// HasText is a helper method to assert that the out stream contains the supplied
// text somewhere
func (s *testSuite) HasText(texts ...string) {
	outStr := s.Out.String()
	for _, t := range texts {
		s.Contains(outStr, t)
	}
}

// HasNoText is a helper method to assert that the out stream does not contain the
// supplied text somewhere
func (s *testSuite) HasNoText(texts ...string) {
	outStr := s.Out.String()
	for _, t := range texts {
		s.NotContains(outStr, t)
	}
}
