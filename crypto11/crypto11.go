package crypto11

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xdigest/digestprov"
	"github.com/effective-security/xlog"
	"github.com/miekg/pkcs11"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/xdigest", "crypto11")

// SlotTokenInfo describes a slot and the token in it
type SlotTokenInfo struct {
	id           uint
	description  string
	label        string
	manufacturer string
	model        string
	serial       string
	flags        uint
}

// PKCS11Lib provides loaded PKCS#11 library and the slot
// of the configured token
type PKCS11Lib struct {
	Ctx  *pkcs11.Ctx
	Slot *SlotTokenInfo

	tc       digestprov.TokenConfig
	sessions int

	// keeps the login state alive, PKCS#11 shares it between
	// all sessions on the slot
	loginSession pkcs11.SessionHandle
}

// Init loads the PKCS#11 library named in the configuration,
// finds the configured token and logs into it.
func Init(tc digestprov.TokenConfig) (*PKCS11Lib, error) {
	if tc.Path() == "" {
		return nil, errors.New("PKCS#11 library path is not specified")
	}

	lib := &PKCS11Lib{
		Ctx:      pkcs11.New(tc.Path()),
		tc:       tc,
		sessions: digestprov.TokenAttributeInt(tc, "Sessions", 1),
	}
	if lib.Ctx == nil {
		return nil, errors.Newf("unable to load PKCS#11 library: %s", tc.Path())
	}

	err := lib.Ctx.Initialize()
	if err != nil && !isPkcs11Error(err, pkcs11.CKR_CRYPTOKI_ALREADY_INITIALIZED) {
		return nil, errors.WithMessagef(err, "initialize PKCS#11 library: %s", tc.Path())
	}

	lib.Slot, err = lib.findToken(tc.TokenSerial(), tc.TokenLabel())
	if err != nil {
		return nil, err
	}

	session, err := lib.Ctx.OpenSession(lib.Slot.id, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return nil, errors.WithMessagef(err, "OpenSession on slot %d", lib.Slot.id)
	}
	if pin := tc.Pin(); pin != "" {
		err = lib.Ctx.Login(session, pkcs11.CKU_USER, pin)
		if err != nil && !isPkcs11Error(err, pkcs11.CKR_USER_ALREADY_LOGGED_IN) {
			_ = lib.Ctx.CloseSession(session)
			return nil, errors.WithMessagef(err, "login to slot %d", lib.Slot.id)
		}
	}
	lib.loginSession = session

	logger.KV(xlog.INFO,
		"slot", lib.Slot.id,
		"label", lib.Slot.label,
		"manufacturer", lib.Slot.manufacturer,
		"model", lib.Slot.model,
		"serial", lib.Slot.serial,
		"sessions", lib.sessions,
	)

	return lib, nil
}

// ConfigureFromFile loads token configuration from the file
// and initializes the library
func ConfigureFromFile(file string) (*PKCS11Lib, error) {
	tc, err := digestprov.LoadTokenConfig(file)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to load config: %s", file)
	}
	return Init(tc)
}

// findToken returns the slot holding the matching token.
// A serial match wins over a label match.
func (p11lib *PKCS11Lib) findToken(serial, label string) (*SlotTokenInfo, error) {
	tokens, err := p11lib.TokensInfo()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, ti := range tokens {
		if serial != "" {
			if ti.serial == serial {
				return ti, nil
			}
			continue
		}
		if label == "" || ti.label == label {
			return ti, nil
		}
	}
	return nil, errors.Newf("token not found: serial=%q, label=%q", serial, label)
}

// Manufacturer returns manufacturer for the provider
func (p11lib *PKCS11Lib) Manufacturer() string {
	return p11lib.tc.Manufacturer()
}

// Model returns model for the provider
func (p11lib *PKCS11Lib) Model() string {
	return p11lib.tc.Model()
}

// Devices returns the number of streaming contexts the token serves
// concurrently, from the Sessions attribute of the configuration.
func (p11lib *PKCS11Lib) Devices() int {
	return p11lib.sessions
}

// Close logs out and unloads the PKCS#11 library
func (p11lib *PKCS11Lib) Close() error {
	if p11lib.Ctx == nil {
		return nil
	}
	if p11lib.loginSession != 0 {
		_ = p11lib.Ctx.Logout(p11lib.loginSession)
		_ = p11lib.Ctx.CloseSession(p11lib.loginSession)
		p11lib.loginSession = 0
	}
	if err := p11lib.Ctx.Finalize(); err != nil {
		logger.KV(xlog.WARNING, "reason", "finalize", "err", err.Error())
	}
	p11lib.Ctx.Destroy()
	p11lib.Ctx = nil
	return nil
}

func isPkcs11Error(err error, rv uint) bool {
	var pe pkcs11.Error
	return errors.As(err, &pe) && uint(pe) == rv
}
