package softcrypto_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/digestprov/softcrypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderInfo(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	assert.Equal(t, "SoftCrypto", p.Manufacturer())
	assert.Equal(t, "SHA2", p.Model())
	assert.Equal(t, 0, p.Devices())
	assert.NoError(t, p.Close())

	count := 0
	err = p.EnumTokens(false, func(slotID uint, description, label, manufacturer, model, serial string) error {
		count++
		assert.Equal(t, "SoftCrypto", manufacturer)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func digestOf(t *testing.T, p digestprov.Provider, algo digestprov.Algorithm, data []byte) []byte {
	ctx, err := p.DigestInit(algo)
	require.NoError(t, err)
	defer ctx.Close()

	require.NoError(t, ctx.Update(data))
	sum, err := ctx.Finalize()
	require.NoError(t, err)
	return sum
}

func macOf(t *testing.T, p digestprov.Provider, algo digestprov.Algorithm, key, data []byte) []byte {
	ctx, err := p.MacInit(algo, key)
	require.NoError(t, err)
	defer ctx.Close()

	require.NoError(t, ctx.Update(data))
	sum, err := ctx.Finalize()
	require.NoError(t, err)
	return sum
}

func TestDigestVectors(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	tcases := []struct {
		algo digestprov.Algorithm
		data string
		exp  string
	}{
		{digestprov.SHA256, "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{digestprov.SHA384, "", "38b060a751ac96384cd9327eb1b1e36a21fdb71114be07434c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b"},
		{digestprov.SHA512, "", "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"},
		{digestprov.SHA256, "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{digestprov.SHA384, "abc", "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7"},
		{digestprov.SHA512, "abc", "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}

	for _, tc := range tcases {
		t.Run(tc.algo.String()+"/"+tc.data, func(t *testing.T) {
			sum := digestOf(t, p, tc.algo, []byte(tc.data))
			assert.Equal(t, tc.exp, hex.EncodeToString(sum))
			assert.Equal(t, tc.algo.Size(), len(sum))
		})
	}
}

// Vectors from RFC 4231.
func TestMacVectors(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	key1 := bytes.Repeat([]byte{0x0b}, 20)
	data1 := []byte("Hi There")
	key2 := []byte("Jefe")
	data2 := []byte("what do ya want for nothing?")

	tcases := []struct {
		algo digestprov.Algorithm
		key  []byte
		data []byte
		exp  string
	}{
		{digestprov.HMACSHA256, key1, data1, "b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7"},
		{digestprov.HMACSHA384, key1, data1, "afd03944d84895626b0825f4ab46907f15f9dadbe4101ec682aa034c7cebc59cfaea9ea9076ede7f4af152e8b2fa9cb6"},
		{digestprov.HMACSHA512, key1, data1, "87aa7cdea5ef619d4ff0b4241a1d6cb02379f4e2ce4ec2787ad0b30545e17cdedaa833b7d6b8a702038b274eaea3f4e4be9d914eeb61f1702e696c203a126854"},
		{digestprov.HMACSHA256, key2, data2, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"},
		{digestprov.HMACSHA384, key2, data2, "af45d2e376484031617f78d2b58a6b1b9c7ef464f5a01b47e42ec3736322445e8e2240ca5e69e2c78b3239ecfab21649"},
		{digestprov.HMACSHA512, key2, data2, "164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737"},
	}

	for _, tc := range tcases {
		t.Run(tc.algo.String(), func(t *testing.T) {
			sum := macOf(t, p, tc.algo, tc.key, tc.data)
			assert.Equal(t, tc.exp, hex.EncodeToString(sum))
			assert.True(t, digestprov.ConstantTimeEqual(sum, sum))
		})
	}
}

func TestDigestChunked(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	data := bytes.Repeat([]byte("0123456789abcdef"), 100)
	whole := digestOf(t, p, digestprov.SHA256, data)

	ctx, err := p.DigestInit(digestprov.SHA256)
	require.NoError(t, err)
	defer ctx.Close()

	for i := 0; i < len(data); i += 33 {
		end := i + 33
		if end > len(data) {
			end = len(data)
		}
		require.NoError(t, ctx.Update(data[i:end]))
	}
	sum, err := ctx.Finalize()
	require.NoError(t, err)
	assert.Equal(t, whole, sum)
}

func TestDigestReset(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	ctx, err := p.DigestInit(digestprov.SHA256)
	require.NoError(t, err)
	defer ctx.Close()

	require.NoError(t, ctx.Update([]byte("discarded")))
	require.NoError(t, ctx.Reset())
	require.NoError(t, ctx.Update([]byte("abc")))

	sum, err := ctx.Finalize()
	require.NoError(t, err)
	assert.Equal(t, digestOf(t, p, digestprov.SHA256, []byte("abc")), sum)
}

func TestMacResetKeepsKey(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	key := []byte("Jefe")
	data := []byte("what do ya want for nothing?")

	ctx, err := p.MacInit(digestprov.HMACSHA256, key)
	require.NoError(t, err)
	defer ctx.Close()

	require.NoError(t, ctx.Update([]byte("discarded")))
	require.NoError(t, ctx.Reset())
	require.NoError(t, ctx.Update(data))

	sum, err := ctx.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", hex.EncodeToString(sum))
}

func TestMacKeyBounds(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	_, err = p.MacInit(digestprov.HMACSHA256, nil)
	assert.ErrorIs(t, err, digestprov.ErrKeyRequired)

	_, err = p.MacInit(digestprov.HMACSHA256, make([]byte, 65))
	assert.ErrorIs(t, err, digestprov.ErrInvalidKeyLength)

	ctx, err := p.MacInit(digestprov.HMACSHA256, make([]byte, 64))
	require.NoError(t, err)
	_ = ctx.Close()

	_, err = p.MacInit(digestprov.HMACSHA512, make([]byte, 129))
	assert.ErrorIs(t, err, digestprov.ErrInvalidKeyLength)

	ctx, err = p.MacInit(digestprov.HMACSHA384, make([]byte, 128))
	require.NoError(t, err)
	_ = ctx.Close()
}

func TestInitMismatch(t *testing.T) {
	p, err := softcrypto.Init(nil)
	require.NoError(t, err)

	_, err = p.DigestInit(digestprov.HMACSHA256)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)

	_, err = p.MacInit(digestprov.SHA256, []byte("key"))
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)

	_, err = p.DigestInit(digestprov.SHA3_256)
	assert.ErrorIs(t, err, digestprov.ErrUnsupportedAlgorithm)
}
