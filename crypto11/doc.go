// Package crypto11 provides access to PKCS#11 cryptographic devices
// such as Hardware Security Modules (HSMs) and smart cards.
//
// This package implements the digest provider interfaces on top of
// the PKCS#11 digest and signing operations:
//   - SHA-256, SHA-384 and SHA-512 digest sessions
//   - HMAC signing sessions with session scoped secret keys
//   - Token discovery and login
//   - One PKCS#11 session per streaming context
//
// HMAC keys are imported as session objects only. They are never
// persisted on the token and are destroyed together with the session
// that owns them.
//
// This package is based on github.com/ThalesIgnite/crypto11 with
// modifications for integration with the xdigest ecosystem.
package crypto11
