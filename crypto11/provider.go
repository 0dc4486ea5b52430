package crypto11

import (
	"github.com/effective-security/xdigest/digestprov"
	"github.com/pkg/errors"
)

// ProviderName specifies a provider name
const ProviderName = "PKCS11"

func init() {
	_ = digestprov.Register(ProviderName, LoadProvider)
}

// LoadProvider provides loader for crypto11 provider
func LoadProvider(cfg digestprov.TokenConfig) (digestprov.Provider, error) {
	p, err := Init(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return p, nil
}

// Ensure compiles
var _ digestprov.Provider = (*PKCS11Lib)(nil)
var _ digestprov.TokenManager = (*PKCS11Lib)(nil)

// EnumTokens enumerates tokens
func (p11lib *PKCS11Lib) EnumTokens(currentSlotOnly bool, slotInfoFunc func(slotID uint, description, label, manufacturer, model, serial string) error) error {
	if currentSlotOnly {
		return slotInfoFunc(
			p11lib.Slot.id,
			p11lib.Slot.description,
			p11lib.Slot.label,
			p11lib.Slot.manufacturer,
			p11lib.Slot.model,
			p11lib.Slot.serial,
		)
	}

	list, err := p11lib.TokensInfo()
	if err != nil {
		return errors.WithStack(err)
	}
	for _, ti := range list {
		err = slotInfoFunc(ti.id, ti.description, ti.label, ti.manufacturer, ti.model, ti.serial)
		if err != nil {
			return err
		}
	}
	return nil
}
