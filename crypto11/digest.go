package crypto11

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xdigest/metricskey"
	"github.com/effective-security/xlog"
	"github.com/miekg/pkcs11"
)

func digestMechanism(algo digestprov.Algorithm) (uint, error) {
	switch algo {
	case digestprov.SHA256:
		return pkcs11.CKM_SHA256, nil
	case digestprov.SHA384:
		return pkcs11.CKM_SHA384, nil
	case digestprov.SHA512:
		return pkcs11.CKM_SHA512, nil
	}
	return 0, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", algo.String())
}

func macMechanism(algo digestprov.Algorithm) (uint, error) {
	switch algo {
	case digestprov.HMACSHA256:
		return pkcs11.CKM_SHA256_HMAC, nil
	case digestprov.HMACSHA384:
		return pkcs11.CKM_SHA384_HMAC, nil
	case digestprov.HMACSHA512:
		return pkcs11.CKM_SHA512_HMAC, nil
	}
	return 0, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "algorithm: %s", algo.String())
}

// DigestInit opens a session on the token and starts a digest
// operation on it
func (p11lib *PKCS11Lib) DigestInit(algo digestprov.Algorithm) (digestprov.DigestContext, error) {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), ProviderName, "digest_init")

	if algo.IsMac() {
		return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "%s requires MacInit", algo.String())
	}
	mech, err := digestMechanism(algo)
	if err != nil {
		return nil, err
	}

	session, err := p11lib.Ctx.OpenSession(p11lib.Slot.id, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return nil, errors.WithMessagef(err, "OpenSession on slot %d", p11lib.Slot.id)
	}
	if err := p11lib.Ctx.DigestInit(session, []*pkcs11.Mechanism{pkcs11.NewMechanism(mech, nil)}); err != nil {
		_ = p11lib.Ctx.CloseSession(session)
		return nil, errors.WithMessagef(err, "DigestInit %s", algo.String())
	}

	logger.KV(xlog.DEBUG, "op", "digest_init", "algo", algo.String(), "slot", p11lib.Slot.id)

	return &digestContext{lib: p11lib, session: session, algo: algo, mech: mech}, nil
}

// MacInit imports the key as a session object and starts a signing
// operation with it. The key is never persisted on the token and is
// destroyed with the session.
func (p11lib *PKCS11Lib) MacInit(algo digestprov.Algorithm, key []byte) (digestprov.MacContext, error) {
	defer metricskey.PerfDigestOperation.MeasureSince(time.Now(), ProviderName, "mac_init")

	if !algo.IsMac() {
		return nil, errors.WithMessagef(digestprov.ErrUnsupportedAlgorithm, "%s requires DigestInit", algo.String())
	}
	if err := algo.ValidateKey(key); err != nil {
		return nil, err
	}
	mech, err := macMechanism(algo)
	if err != nil {
		return nil, err
	}

	session, err := p11lib.Ctx.OpenSession(p11lib.Slot.id, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return nil, errors.WithMessagef(err, "OpenSession on slot %d", p11lib.Slot.id)
	}
	keyHandle, err := p11lib.importSessionKey(session, key)
	if err != nil {
		_ = p11lib.Ctx.CloseSession(session)
		return nil, err
	}
	if err := p11lib.Ctx.SignInit(session, []*pkcs11.Mechanism{pkcs11.NewMechanism(mech, nil)}, keyHandle); err != nil {
		_ = p11lib.Ctx.DestroyObject(session, keyHandle)
		_ = p11lib.Ctx.CloseSession(session)
		return nil, errors.WithMessagef(err, "SignInit %s", algo.String())
	}

	logger.KV(xlog.DEBUG, "op", "mac_init", "algo", algo.String(), "slot", p11lib.Slot.id, "key_len", len(key))

	return &macContext{lib: p11lib, session: session, algo: algo, mech: mech, key: keyHandle}, nil
}

func (p11lib *PKCS11Lib) importSessionKey(session pkcs11.SessionHandle, key []byte) (pkcs11.ObjectHandle, error) {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_SECRET_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_KEY_TYPE, pkcs11.CKK_GENERIC_SECRET),
		pkcs11.NewAttribute(pkcs11.CKA_TOKEN, false),
		pkcs11.NewAttribute(pkcs11.CKA_SIGN, true),
		pkcs11.NewAttribute(pkcs11.CKA_SENSITIVE, true),
		pkcs11.NewAttribute(pkcs11.CKA_EXTRACTABLE, false),
		pkcs11.NewAttribute(pkcs11.CKA_VALUE, key),
	}
	handle, err := p11lib.Ctx.CreateObject(session, template)
	if err != nil {
		return 0, errors.WithMessage(err, "CreateObject for MAC key")
	}
	return handle, nil
}

type digestContext struct {
	lib     *PKCS11Lib
	session pkcs11.SessionHandle
	algo    digestprov.Algorithm
	mech    uint
}

func (c *digestContext) Update(data []byte) error {
	if err := c.lib.Ctx.DigestUpdate(c.session, data); err != nil {
		return errors.WithMessagef(err, "DigestUpdate %s", c.algo.String())
	}
	return nil
}

func (c *digestContext) Finalize() ([]byte, error) {
	sum, err := c.lib.Ctx.DigestFinal(c.session)
	if err != nil {
		return nil, errors.WithMessagef(err, "DigestFinal %s", c.algo.String())
	}
	return sum, nil
}

// Reset drains the active operation and starts a fresh one on the
// same session.
func (c *digestContext) Reset() error {
	if _, err := c.lib.Ctx.DigestFinal(c.session); err != nil && !isPkcs11Error(err, pkcs11.CKR_OPERATION_NOT_INITIALIZED) {
		return errors.WithMessagef(err, "DigestFinal %s", c.algo.String())
	}
	if err := c.lib.Ctx.DigestInit(c.session, []*pkcs11.Mechanism{pkcs11.NewMechanism(c.mech, nil)}); err != nil {
		return errors.WithMessagef(err, "DigestInit %s", c.algo.String())
	}
	return nil
}

func (c *digestContext) Close() error {
	if c.session == 0 {
		return nil
	}
	err := c.lib.Ctx.CloseSession(c.session)
	c.session = 0
	if err != nil {
		return errors.WithMessage(err, "CloseSession")
	}
	return nil
}

type macContext struct {
	lib     *PKCS11Lib
	session pkcs11.SessionHandle
	algo    digestprov.Algorithm
	mech    uint
	key     pkcs11.ObjectHandle
}

func (c *macContext) Update(data []byte) error {
	if err := c.lib.Ctx.SignUpdate(c.session, data); err != nil {
		return errors.WithMessagef(err, "SignUpdate %s", c.algo.String())
	}
	return nil
}

func (c *macContext) Finalize() ([]byte, error) {
	mac, err := c.lib.Ctx.SignFinal(c.session)
	if err != nil {
		return nil, errors.WithMessagef(err, "SignFinal %s", c.algo.String())
	}
	return mac, nil
}

// Reset drains the active operation and starts a fresh one with the
// same key object.
func (c *macContext) Reset() error {
	if _, err := c.lib.Ctx.SignFinal(c.session); err != nil && !isPkcs11Error(err, pkcs11.CKR_OPERATION_NOT_INITIALIZED) {
		return errors.WithMessagef(err, "SignFinal %s", c.algo.String())
	}
	if err := c.lib.Ctx.SignInit(c.session, []*pkcs11.Mechanism{pkcs11.NewMechanism(c.mech, nil)}, c.key); err != nil {
		return errors.WithMessagef(err, "SignInit %s", c.algo.String())
	}
	return nil
}

func (c *macContext) Close() error {
	if c.session == 0 {
		return nil
	}
	if c.key != 0 {
		_ = c.lib.Ctx.DestroyObject(c.session, c.key)
		c.key = 0
	}
	err := c.lib.Ctx.CloseSession(c.session)
	c.session = 0
	if err != nil {
		return errors.WithMessage(err, "CloseSession")
	}
	return nil
}

// Ensure compiles
var _ digestprov.DigestContext = (*digestContext)(nil)
var _ digestprov.MacContext = (*macContext)(nil)
