package cli

import (
	"fmt"

	"github.com/effective-security/xdigest/digestprov"
	"github.com/pkg/errors"
)

// TokensCmd prints tokens of the configured provider
type TokensCmd struct {
	All bool `help:"list all slots, not only the configured one"`
}

// Run the command
func (a *TokensCmd) Run(ctx *Cli) error {
	srv := ctx.DigestServer()
	tm, ok := srv.Provider().(digestprov.TokenManager)
	if !ok {
		return errors.Errorf("unsupported command for this digest provider")
	}

	out := ctx.Writer()

	printIfNotEmpty := func(label, val string) {
		if val != "" {
			fmt.Fprintf(out, "  %s:  %s\n", label, val)
		}
	}

	err := tm.EnumTokens(!a.All, func(slotID uint, description, label, manufacturer, model, serial string) error {
		fmt.Fprintf(out, "Slot: %d\n", slotID)
		printIfNotEmpty("Manufacturer", manufacturer)
		printIfNotEmpty("Model", model)
		printIfNotEmpty("Description", description)
		printIfNotEmpty("Token serial", serial)
		printIfNotEmpty("Token label", label)
		return nil
	})
	if err != nil {
		return errors.WithMessagef(err, "failed to list tokens")
	}

	fmt.Fprintf(out, "Devices: %d\n", srv.Provider().Devices())
	return nil
}
