package crypto11

import (
	"strings"

	"github.com/effective-security/xdigest/digestprov"
	"github.com/pkg/errors"
)

// CurrentSlotID returns current slot ID
func (p11lib *PKCS11Lib) CurrentSlotID() uint {
	return p11lib.Slot.id
}

// TokensInfo returns list of tokens
func (p11lib *PKCS11Lib) TokensInfo() ([]*SlotTokenInfo, error) {
	list := []*SlotTokenInfo{}
	slots, err := p11lib.Ctx.GetSlotList(true)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.Tracef("slots=%d", len(slots))

	for _, slotID := range slots {
		si, err := p11lib.Ctx.GetSlotInfo(slotID)
		if err != nil {
			return nil, errors.WithMessagef(err, "GetSlotInfo: %d", slotID)
		}
		ti, err := p11lib.Ctx.GetTokenInfo(slotID)
		if err != nil {
			logger.Errorf(
				"reason=GetTokenInfo, slotID=%d, ManufacturerID=%q, SlotDescription=%q, err=[%+v]",
				slotID,
				si.ManufacturerID,
				si.SlotDescription,
				err,
			)
		} else if ti.SerialNumber != "" || ti.Label != "" {
			list = append(list, &SlotTokenInfo{
				id:           slotID,
				description:  si.SlotDescription,
				label:        ti.Label,
				manufacturer: strings.TrimSpace(ti.ManufacturerID),
				model:        strings.TrimSpace(ti.Model),
				serial:       ti.SerialNumber,
				flags:        ti.Flags,
			})

		}
	}
	return list, nil
}

// SupportedAlgorithms returns the algorithms the configured token can
// serve, probed from its mechanism list.
func (p11lib *PKCS11Lib) SupportedAlgorithms() []digestprov.Algorithm {
	mechs, err := p11lib.Ctx.GetMechanismList(p11lib.Slot.id)
	if err != nil {
		logger.Errorf("reason=GetMechanismList, slotID=%d, err=[%+v]", p11lib.Slot.id, err)
		return nil
	}
	available := map[uint]bool{}
	for _, m := range mechs {
		available[m.Mechanism] = true
	}

	var res []digestprov.Algorithm
	for _, algo := range []digestprov.Algorithm{
		digestprov.SHA256,
		digestprov.SHA384,
		digestprov.SHA512,
	} {
		if mech, err := digestMechanism(algo); err == nil && available[mech] {
			res = append(res, algo)
		}
	}
	for _, algo := range []digestprov.Algorithm{
		digestprov.HMACSHA256,
		digestprov.HMACSHA384,
		digestprov.HMACSHA512,
	} {
		if mech, err := macMechanism(algo); err == nil && available[mech] {
			res = append(res, algo)
		}
	}
	return res
}
