package digestprov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigYaml(t *testing.T) {
	c, err := LoadTokenConfig("testdata/inmem_testprov.yaml")
	require.NoError(t, err)

	c2, err := LoadTokenConfig("testdata/inmem_testprov.json")
	require.NoError(t, err)

	assert.Equal(t, c, c2)
}

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadTokenConfig("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoadConfigPinFile(t *testing.T) {
	c, err := LoadTokenConfig("testdata/pkcs11_softhsm.yaml")
	require.NoError(t, err)

	assert.Equal(t, "SoftHSM", c.Manufacturer())
	assert.Equal(t, "/usr/lib/softhsm/libsofthsm2.so", c.Path())
	assert.Equal(t, "1234", c.Pin())
	assert.Equal(t, "Sessions=4", c.Attributes())
}

func TestTokenAttributes(t *testing.T) {
	tc := &tokenConfig{Attrs: "Sessions=4, UserName=y"}

	attrs := ParseTokenAttributes(tc)
	assert.Equal(t, "4", attrs["Sessions"])
	assert.Equal(t, "y", attrs["UserName"])

	assert.Equal(t, 4, TokenAttributeInt(tc, "Sessions", 1))
	assert.Equal(t, 1, TokenAttributeInt(tc, "Missing", 1))
	assert.Equal(t, 1, TokenAttributeInt(&tokenConfig{Attrs: "Sessions=abc"}, "Sessions", 1))
	assert.Empty(t, ParseTokenAttributes(nil))
}
