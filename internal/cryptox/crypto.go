// Package cryptox is the vault's encryption service: AES-256-GCM
// authenticated encryption, HKDF-SHA256 key derivation, SHA-256 integrity
// hashing, and packaging of evidence bundles.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/audit"
	"github.com/dmitrijs2005/evidencevault/internal/client/codec"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

// Algorithm tags encrypted packages.
const Algorithm = "AES-256-GCM"

// NonceSize is the GCM nonce size in bytes.
const NonceSize = 12

var (
	ErrCryptoUnavailable    = errors.New("crypto unavailable")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrIntegrityMismatch    = errors.New("integrity mismatch")
	ErrKeyNotExportable     = errors.New("key is not exportable")
	ErrInvalidKey           = errors.New("invalid key")
)

var randReader io.Reader = rand.Reader

// Sealed is the output of Encrypt.
type Sealed struct {
	Nonce      []byte
	Ciphertext []byte
}

// EncryptedPackage is an encrypted evidence bundle plus its plaintext hash.
type EncryptedPackage struct {
	Nonce      []byte    `json:"nonce"`
	Ciphertext []byte    `json:"ciphertext"`
	Hash       string    `json:"hash"`
	SizeBefore int       `json:"size_before"`
	SizeAfter  int       `json:"size_after"`
	Algorithm  string    `json:"algorithm"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service performs cryptographic operations and audits them.
type Service struct {
	audit audit.Recorder
	rand  io.Reader
	now   func() time.Time
}

// NewService returns a Service that reports to rec (nil means no auditing).
func NewService(rec audit.Recorder) *Service {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{audit: rec, rand: randReader, now: time.Now}
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *Service) Hash(data []byte) string {
	h := Hash(data)
	s.audit.Record(audit.Record{Op: "hash", SizeBefore: len(data), Hash: h})
	return h
}

func newGCM(key SymmetricKey) (cipher.AEAD, error) {
	if len(key.material) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key.material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return aead, nil
}

// Encrypt seals plaintext under key with a freshly drawn random nonce.
// There is no way to supply a nonce, so one can never be reused.
func (s *Service) Encrypt(plaintext []byte, key SymmetricKey) (Sealed, error) {
	aead, err := newGCM(key)
	if err != nil {
		return Sealed{}, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(s.rand, nonce); err != nil {
		return Sealed{}, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}

	ct := aead.Seal(nil, nonce, plaintext, nil)
	s.audit.Record(audit.Record{Op: "encrypt", SizeBefore: len(plaintext), SizeAfter: len(ct)})
	return Sealed{Nonce: nonce, Ciphertext: ct}, nil
}

// Decrypt opens sealed data. A tag that does not verify yields ErrAuthenticationFailed.
func (s *Service) Decrypt(sealed Sealed, key SymmetricKey) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed.Nonce) != aead.NonceSize() {
		return nil, ErrAuthenticationFailed
	}

	pt, err := aead.Open(nil, sealed.Nonce, sealed.Ciphertext, nil)
	if err != nil {
		s.audit.Record(audit.Record{Op: "decrypt_failed", SizeBefore: len(sealed.Ciphertext)})
		return nil, ErrAuthenticationFailed
	}
	s.audit.Record(audit.Record{Op: "decrypt", SizeBefore: len(sealed.Ciphertext), SizeAfter: len(pt)})
	return pt, nil
}

// EncryptPackage serializes the bundle canonically, hashes the plaintext and
// encrypts it.
func (s *Service) EncryptPackage(b models.EvidenceBundle, key SymmetricKey) (*EncryptedPackage, error) {
	plaintext := codec.Marshal(b)
	hash := Hash(plaintext)

	sealed, err := s.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}

	pkg := &EncryptedPackage{
		Nonce:      sealed.Nonce,
		Ciphertext: sealed.Ciphertext,
		Hash:       hash,
		SizeBefore: len(plaintext),
		SizeAfter:  len(sealed.Ciphertext),
		Algorithm:  Algorithm,
		CreatedAt:  s.now().UTC(),
	}
	s.audit.Record(audit.Record{
		Op:         "encrypt_package",
		SizeBefore: pkg.SizeBefore,
		SizeAfter:  pkg.SizeAfter,
		Hash:       hash,
		Detail:     b.TargetDate,
	})
	return pkg, nil
}

// DecryptPackage decrypts pkg and verifies the recovered plaintext against
// pkg.Hash. Data that fails either check is never returned.
func (s *Service) DecryptPackage(pkg *EncryptedPackage, key SymmetricKey) (models.EvidenceBundle, error) {
	plaintext, err := s.Decrypt(Sealed{Nonce: pkg.Nonce, Ciphertext: pkg.Ciphertext}, key)
	if err != nil {
		return models.EvidenceBundle{}, err
	}

	got := Hash(plaintext)
	if got != pkg.Hash {
		s.audit.Record(audit.Record{Op: "integrity_mismatch", Hash: got, Detail: "expected " + pkg.Hash})
		return models.EvidenceBundle{}, ErrIntegrityMismatch
	}

	b, err := codec.Unmarshal(plaintext)
	if err != nil {
		return models.EvidenceBundle{}, fmt.Errorf("%w: %v", ErrIntegrityMismatch, err)
	}
	s.audit.Record(audit.Record{Op: "decrypt_package", SizeBefore: len(pkg.Ciphertext), SizeAfter: len(plaintext), Hash: got})
	return b, nil
}

// VerificationHashes computes the whole-package and per-kind plaintext
// hashes stored in a descriptor at packaging time.
func (s *Service) VerificationHashes(b models.EvidenceBundle) models.Verification {
	v := models.Verification{Algorithm: "SHA-256", PackageHash: s.Hash(codec.Marshal(b))}
	if b.Photo != nil {
		v.PhotoHash = s.Hash(b.Photo.Data)
	}
	if len(b.Messages) > 0 {
		v.MessagesHash = s.Hash(codec.MarshalMessages(b.Messages))
	}
	if len(b.Documents) > 0 {
		var concat []byte
		for _, d := range b.Documents {
			concat = append(concat, Hash(d.Data)...)
		}
		v.DocumentsHash = s.Hash(concat)
	}
	return v
}
