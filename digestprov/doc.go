// Package digestprov provides a unified interface for streaming digest and
// MAC computations across different backends.
//
// This package abstracts hashing operations to support:
//   - PKCS#11 compatible hardware accelerators via the crypto11 subpackage
//   - A pure software backend in the softcrypto subpackage
//   - In-memory providers for testing and development
//   - Custom providers through the Provider interface
//
// A provider hands out per-session digest or MAC contexts that absorb data
// incrementally and produce the result on finalize, allowing applications
// to switch between software and hardware backends without code changes.
//
// Configuration is typically done through YAML files that specify the
// provider type and its specific settings.
package digestprov
