/*
 * Copyright 2026 The Sovi Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package secrets seals and opens account credential blobs stored as base64(nonce || AES-256-GCM ciphertext).
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/ehmo/sovi/pkg/models"
)

const (
	keyLength   = 32
	nonceLength = 12
)

var (
	// ErrInvalidKeyLength indicates the provided key is not the required size.
	ErrInvalidKeyLength = errors.New("secrets: encryption key must be 32 bytes")
	// ErrCiphertextTooShort indicates the payload is shorter than the nonce.
	ErrCiphertextTooShort = errors.New("secrets: ciphertext too short")
	// ErrNoKey indicates credentials were needed but no master key is configured.
	ErrNoKey = errors.New("secrets: master key not configured")
)

// Cipher wraps one AES-GCM AEAD keyed by the master key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher from a 32 byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != keyLength {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: create cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceLength)
	if err != nil {
		return nil, fmt.Errorf("secrets: init gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// EncryptString seals plaintext and returns the base64 payload.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secrets: generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("secrets: decode ciphertext: %w", err)
	}

	if len(payload) < nonceLength {
		return "", ErrCiphertextTooShort
	}

	plaintext, err := c.aead.Open(nil, payload[:nonceLength], payload[nonceLength:], nil)
	if err != nil {
		return "", fmt.Errorf("secrets: decrypt payload: %w", err)
	}

	return string(plaintext), nil
}

// OpenCredentials decrypts every non-empty field of an account's credentials.
// A nil Cipher fails only when there is something to decrypt.
func (c *Cipher) OpenCredentials(account *models.Account) (*models.AccountCredentials, error) {
	out := &models.AccountCredentials{Username: account.Username}

	fields := []struct {
		name string
		enc  string
		dst  *string
	}{
		{"email", account.Credentials.EmailEnc, &out.Email},
		{"password", account.Credentials.PasswordEnc, &out.Password},
		{"totp_secret", account.Credentials.TOTPSecretEnc, &out.TOTPSecret},
	}

	for _, f := range fields {
		if f.enc == "" {
			continue
		}

		if c == nil {
			return nil, ErrNoKey
		}

		plain, err := c.DecryptString(f.enc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}

		*f.dst = plain
	}

	return out, nil
}

// SealCredentials encrypts every non-empty field of plaintext credentials.
func (c *Cipher) SealCredentials(creds *models.AccountCredentials) (models.Credentials, error) {
	var out models.Credentials

	if creds == nil {
		return out, nil
	}

	fields := []struct {
		name  string
		plain string
		dst   *string
	}{
		{"email", creds.Email, &out.EmailEnc},
		{"password", creds.Password, &out.PasswordEnc},
		{"totp_secret", creds.TOTPSecret, &out.TOTPSecretEnc},
	}

	for _, f := range fields {
		if f.plain == "" {
			continue
		}

		if c == nil {
			return models.Credentials{}, ErrNoKey
		}

		enc, err := c.EncryptString(f.plain)
		if err != nil {
			return models.Credentials{}, fmt.Errorf("%s: %w", f.name, err)
		}

		*f.dst = enc
	}

	return out, nil
}
