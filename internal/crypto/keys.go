package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id для ключа хранилища токенов
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// KeySize - длина ключа AES-256 в байтах
	KeySize = 32
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

// vaultContext разделяет ключ хранилища токенов и возможные будущие ключи
const vaultContext = "tasktrack/token-vault"

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey выводит 32-байтовый ключ шифрования токенов из passphrase через Argon2id
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	input := append([]byte(passphrase), []byte(vaultContext)...)
	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
