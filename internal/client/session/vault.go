package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/internal/crypto"
)

// Vault шифрует токены перед записью в хранилище.
// nil *Vault - допустимое значение: токены хранятся как есть.
type Vault struct {
	key []byte
}

// OpenVault выводит ключ из passphrase. Соль генерируется один раз и хранится
// в metadata bucket, поэтому ключ стабилен между запусками.
// Пустая passphrase означает хранение без шифрования (возвращается nil).
func OpenVault(ctx context.Context, meta storage.MetadataStorage, passphrase string) (*Vault, error) {
	if passphrase == "" {
		return nil, nil
	}

	salt, err := meta.GetVaultSalt(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrMetadataNotFound) {
			return nil, fmt.Errorf("failed to get vault salt: %w", err)
		}

		// Первый запуск - генерируем соль
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return nil, err
		}
		if err := meta.SaveVaultSalt(ctx, salt); err != nil {
			return nil, fmt.Errorf("failed to save vault salt: %w", err)
		}
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}
	return &Vault{key: key}, nil
}

// NewVault создает vault с готовым ключом (32 bytes)
func NewVault(key []byte) *Vault {
	return &Vault{key: key}
}

// Seal шифрует токен; пустой токен остается пустым
func (v *Vault) Seal(token string) (string, error) {
	if v == nil || token == "" {
		return token, nil
	}
	return crypto.EncryptString(token, v.key)
}

// Open дешифрует токен, сохраненный через Seal
func (v *Vault) Open(sealed string) (string, error) {
	if v == nil || sealed == "" {
		return sealed, nil
	}
	return crypto.DecryptString(sealed, v.key)
}
