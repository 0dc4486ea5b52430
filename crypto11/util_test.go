package crypto11

import (
	"testing"

	"github.com/effective-security/xdigest/digestprov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TokensInfo(t *testing.T) {
	slots, err := p11lib.TokensInfo()
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.True(t, len(slots) > 0, "At least one slot must already exist")
	for _, si := range slots {
		if si.id == 0 {
			continue
		}
		if si.serial != "" {
			assert.NotEmpty(t, si.label)
		}
	}
}

func Test_EnumTokens(t *testing.T) {
	assert.NotPanics(t, func() {
		p11lib.CurrentSlotID()
	})
	assert.NotPanics(t, func() {
		count := 0
		p11lib.EnumTokens(false, func(slotID uint, description, label, manufacturer, model, serial string) error {
			count++
			return nil
		})
		assert.Greater(t, count, 0)
		count = 0
		p11lib.EnumTokens(true, func(slotID uint, description, label, manufacturer, model, serial string) error {
			count++
			return nil
		})
		assert.Greater(t, count, 0)
	})
}

func Test_SupportedAlgorithms(t *testing.T) {
	algos := p11lib.SupportedAlgorithms()
	assert.Contains(t, algos, digestprov.SHA256)
	assert.Contains(t, algos, digestprov.SHA512)
	assert.NotContains(t, algos, digestprov.SHA3_256)
}

func Test_Devices(t *testing.T) {
	assert.Greater(t, p11lib.Devices(), 0, "hardware tokens serve a bounded number of sessions")
}
