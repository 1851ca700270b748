// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigwrite.
//
// This file implements API-key-at-rest protection. The config file may
// store the API key encrypted under a machine-local master key
// (~/.rigwrite/master.key, 0600). Format:
// ENC:base64(salt | nonce | ciphertext), AES-256-GCM with a
// PBKDF2-SHA-256 derived key.
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/rigwrite/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a config value as encrypted.
const EncryptedPrefix = "ENC:"

const (
	// nonceSize is the AES-GCM nonce size (96 bits).
	nonceSize = 12
	// keySize is the AES-256 key size.
	keySize = 32
	// saltSize is the PBKDF2 salt size.
	saltSize = 32
	// pbkdf2Iterations follows the OWASP recommendation for
	// PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

var (
	// ErrInvalidCiphertext indicates the stored value is malformed.
	ErrInvalidCiphertext = errors.New("invalid encrypted value format")
	// ErrDecryptionFailed indicates a wrong key or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// KEYSTORE
// =============================================================================

// Keystore encrypts and decrypts config secrets with a file-backed
// machine-local master key.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore rooted at the given master key path.
func NewKeystore(path string) *Keystore {
	return &Keystore{path: path}
}

// DefaultKeystore uses ~/.rigwrite/master.key.
func DefaultKeystore() *Keystore {
	return &Keystore{path: filepath.Join(Dir(), "master.key")}
}

// masterKey loads the master key, generating one on first use.
func (k *Keystore) masterKey() ([]byte, error) {
	if key, err := os.ReadFile(k.path); err == nil {
		if len(key) != keySize {
			return nil, fmt.Errorf("master key has wrong size %d", len(key))
		}
		return key, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read master key: %w", err)
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	if err := util.AtomicWriteFile(k.path, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to store master key: %w", err)
	}
	return key, nil
}

// Encrypt returns the encrypted, prefixed form of value.
func (k *Keystore) Encrypt(value string) (string, error) {
	master, err := k.masterKey()
	if err != nil {
		return "", err
	}
	defer zero(master)

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key(master, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(value), nil)
	packed := append(append(salt, nonce...), sealed...)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(packed), nil
}

// Decrypt reverses Encrypt. Values without the prefix pass through
// unchanged, so callers can always route stored keys here.
func (k *Keystore) Decrypt(value string) (string, error) {
	if !strings.HasPrefix(value, EncryptedPrefix) {
		return value, nil
	}

	packed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(packed) < saltSize+nonceSize+1 {
		return "", ErrInvalidCiphertext
	}

	master, err := k.masterKey()
	if err != nil {
		return "", err
	}
	defer zero(master)

	salt := packed[:saltSize]
	nonce := packed[saltSize : saltSize+nonceSize]
	sealed := packed[saltSize+nonceSize:]

	key := pbkdf2.Key(master, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// ResolveAPIKey returns the plaintext API key from the config,
// decrypting when stored encrypted.
func (k *Keystore) ResolveAPIKey(c *Config) (string, error) {
	return k.Decrypt(c.Cloud.APIKey)
}

// zero wipes key material.
// SECURITY: Prevents disclosure via crash dumps.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
