package digestprov_test

import (
	"testing"

	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/digestprov/softcrypto"
	"github.com/effective-security/xdigest/digestprov/testprov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RegisterUnregister(t *testing.T) {
	err := digestprov.Register("TestHSM", testprov.Loader)
	require.NoError(t, err)

	err = digestprov.Register("TestHSM", testprov.Loader)
	assert.Error(t, err)
	assert.Equal(t, "already registered: TestHSM", err.Error())

	_, err = digestprov.Unregister("TestHSM")
	require.NoError(t, err)

	_, err = digestprov.Unregister("TestHSM")
	assert.Error(t, err)
	assert.Equal(t, "not registered: TestHSM", err.Error())
}

func Test_LoadProvider(t *testing.T) {
	// registered by init
	err := digestprov.Register(testprov.ProviderName, testprov.Loader)
	assert.Error(t, err)

	p, err := digestprov.LoadProvider("testdata/inmem_testprov.yaml")
	require.NoError(t, err)
	assert.Equal(t, testprov.ProviderName, p.Manufacturer())
	assert.Equal(t, 2, p.Devices())

	_, err = digestprov.LoadProvider("testdata/unknown.yaml")
	assert.Error(t, err)
	assert.Equal(t, "provider not registered: NetHSM", err.Error())

	_, err = digestprov.LoadProvider("testdata/missing.yaml")
	assert.Error(t, err)
}

func Test_LoadProviderDefault(t *testing.T) {
	p, err := digestprov.LoadProvider("")
	require.NoError(t, err)

	assert.Equal(t, softcrypto.ProviderName, p.Manufacturer())
	assert.Equal(t, 0, p.Devices())
}
