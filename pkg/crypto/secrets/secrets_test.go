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

package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmo/sovi/pkg/models"
)

func testKey() []byte {
	key := make([]byte, keyLength)
	for i := range key {
		key[i] = byte(i * 7)
	}

	return key
}

func TestRoundTrip(t *testing.T) {
	c, err := NewCipher(testKey())
	require.NoError(t, err)

	enc, err := c.EncryptString("hunter2")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	assert.Len(t, raw, nonceLength+len("hunter2")+16)

	plain, err := c.DecryptString(enc)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestDecryptRejectsTamperedAndShort(t *testing.T) {
	c, err := NewCipher(testKey())
	require.NoError(t, err)

	_, err = c.DecryptString(base64.StdEncoding.EncodeToString([]byte("short")))
	require.ErrorIs(t, err, ErrCiphertextTooShort)

	enc, err := c.EncryptString("secret")
	require.NoError(t, err)

	raw, _ := base64.StdEncoding.DecodeString(enc)
	raw[len(raw)-1] ^= 0xff

	_, err = c.DecryptString(base64.StdEncoding.EncodeToString(raw))
	require.Error(t, err)

	_, err = c.DecryptString("%%%")
	require.Error(t, err)
}

func TestNewCipherKeyLength(t *testing.T) {
	_, err := NewCipher([]byte("too short"))
	require.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestOpenCredentials(t *testing.T) {
	c, err := NewCipher(testKey())
	require.NoError(t, err)

	pw, err := c.EncryptString("pw")
	require.NoError(t, err)

	account := &models.Account{Username: "creator", Credentials: models.Credentials{PasswordEnc: pw}}

	creds, err := c.OpenCredentials(account)
	require.NoError(t, err)
	assert.Equal(t, "creator", creds.Username)
	assert.Equal(t, "pw", creds.Password)
	assert.Empty(t, creds.Email)

	var none *Cipher

	_, err = none.OpenCredentials(account)
	require.ErrorIs(t, err, ErrNoKey)

	bare, err := none.OpenCredentials(&models.Account{Username: "nocreds"})
	require.NoError(t, err)
	assert.Equal(t, "nocreds", bare.Username)
}

func TestSealThenOpenCredentials(t *testing.T) {
	c, err := NewCipher(testKey())
	require.NoError(t, err)

	sealed, err := c.SealCredentials(&models.AccountCredentials{
		Email:      "a@example.com",
		Password:   "pw",
		TOTPSecret: "JBSWY3DPEHPK3PXP",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "pw", sealed.PasswordEnc)

	opened, err := c.OpenCredentials(&models.Account{Username: "u", Credentials: sealed})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", opened.Email)
	assert.Equal(t, "pw", opened.Password)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", opened.TOTPSecret)

	var none *Cipher

	_, err = none.SealCredentials(&models.AccountCredentials{Password: "pw"})
	require.ErrorIs(t, err, ErrNoKey)

	empty, err := none.SealCredentials(&models.AccountCredentials{Username: "u"})
	require.NoError(t, err)
	assert.Empty(t, empty.PasswordEnc)
}
