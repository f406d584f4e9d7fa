package cryptox

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the size of every symmetric key (AES-256).
const KeySize = 32

// SymmetricKey is a 256-bit AES-GCM key. Keys produced by DeriveKey are
// non-exportable: their material is usable for encryption inside this
// package but Export refuses to hand it out.
type SymmetricKey struct {
	material   []byte
	exportable bool
}

// NewKey wraps raw key material (e.g. read from a key file).
func NewKey(raw []byte) (SymmetricKey, error) {
	if len(raw) != KeySize {
		return SymmetricKey{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(raw))
	}
	return SymmetricKey{material: append([]byte(nil), raw...), exportable: true}, nil
}

// Exportable reports whether Export will return the key material.
func (k SymmetricKey) Exportable() bool { return k.exportable }

// IsZero reports whether k holds no key material.
func (k SymmetricKey) IsZero() bool { return len(k.material) == 0 }

// Export returns a copy of the raw key material.
func (k SymmetricKey) Export() ([]byte, error) {
	if !k.exportable {
		return nil, ErrKeyNotExportable
	}
	return append([]byte(nil), k.material...), nil
}

// GenerateKey produces a fresh random 256-bit key.
func GenerateKey() (SymmetricKey, error) {
	return generateKey(randReader)
}

func generateKey(r io.Reader) (SymmetricKey, error) {
	raw := make([]byte, KeySize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return SymmetricKey{}, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return SymmetricKey{material: raw, exportable: true}, nil
}

// DeriveKey runs HKDF-SHA256 over master. The result is deterministic for
// identical inputs and is marked non-exportable.
func DeriveKey(master SymmetricKey, salt, info []byte) (SymmetricKey, error) {
	if master.IsZero() {
		return SymmetricKey{}, ErrInvalidKey
	}
	r := hkdf.New(sha256.New, master.material, salt, info)
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(r, out); err != nil {
		return SymmetricKey{}, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return SymmetricKey{material: out}, nil
}

// DeriveMasterKey stretches a passphrase into a vault master key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) SymmetricKey {
	return SymmetricKey{material: argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize), exportable: true}
}

// MakeVerifier returns a value that lets the vault check a passphrase
// without storing the derived key.
func MakeVerifier(master SymmetricKey) []byte {
	hash := sha256.Sum256(append([]byte("verifier:"), master.material...))
	return hash[:]
}

// PackageKey derives the per-package encryption key.
func PackageKey(master SymmetricKey, packageID string) (SymmetricKey, error) {
	return DeriveKey(master, []byte(packageID), []byte(PackageKeyInfo))
}

// PackageKeyInfo is the HKDF info string for per-package keys.
const PackageKeyInfo = "evidence-package/v1"
