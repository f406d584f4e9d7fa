package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/cryptox"
)

const (
	saltKey     = "master_salt"
	verifierKey = "master_verifier"
	saltSize    = 16
)

var ErrWrongPassphrase = errors.New("wrong passphrase")

// loadKeyFile reads the master key from path, creating a fresh one with
// 0600 permissions when the file does not exist.
func loadKeyFile(path string) (cryptox.SymmetricKey, bool, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		k, err := cryptox.NewKey(raw)
		if err != nil {
			return cryptox.SymmetricKey{}, false, fmt.Errorf("key file %s: %w", path, err)
		}
		return k, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return cryptox.SymmetricKey{}, false, err
	}

	k, err := cryptox.GenerateKey()
	if err != nil {
		return cryptox.SymmetricKey{}, false, err
	}
	raw, err = k.Export()
	if err != nil {
		return cryptox.SymmetricKey{}, false, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return cryptox.SymmetricKey{}, false, fmt.Errorf("create key file: %w", err)
	}
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		return cryptox.SymmetricKey{}, false, fmt.Errorf("write key file: %w", err)
	}
	return k, true, f.Close()
}

// passphraseKey derives the master key from a passphrase. The first call on
// a vault stores a random salt and a verifier; later calls check against it.
func passphraseKey(ctx context.Context, kv storage.KeyValueStore, passphrase []byte) (cryptox.SymmetricKey, error) {
	var master cryptox.SymmetricKey
	err := kv.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		salt, err := tx.Get(ctx, storage.BucketMeta, saltKey)
		if errors.Is(err, common.ErrorNotFound) {
			salt = make([]byte, saltSize)
			if _, err := rand.Read(salt); err != nil {
				return fmt.Errorf("%w: %v", cryptox.ErrCryptoUnavailable, err)
			}
			master = cryptox.DeriveMasterKey(passphrase, salt)
			if err := tx.Put(ctx, storage.BucketMeta, saltKey, salt); err != nil {
				return err
			}
			return tx.Put(ctx, storage.BucketMeta, verifierKey, cryptox.MakeVerifier(master))
		}
		if err != nil {
			return err
		}

		want, err := tx.Get(ctx, storage.BucketMeta, verifierKey)
		if err != nil {
			return fmt.Errorf("vault verifier: %w", err)
		}
		master = cryptox.DeriveMasterKey(passphrase, salt)
		if subtle.ConstantTimeCompare(want, cryptox.MakeVerifier(master)) != 1 {
			return ErrWrongPassphrase
		}
		return nil
	})
	if err != nil {
		return cryptox.SymmetricKey{}, err
	}
	return master, nil
}
