// Copyright (c) 2025-2026 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cipherutil

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObfuscate(t *testing.T) {
	testcases := map[string]struct {
		in  string
		out string
	}{
		"empty":    {in: "", out: ""},
		"single":   {in: "a", out: "dc"},
		"username": {in: "admin", out: "dc13ibej?7"},
	}

	for name, tc := range testcases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.out, Obfuscate(tc.in))
		})
	}
}

func TestObfuscateDeterministic(t *testing.T) {
	for _, in := range []string{"admin", "s3cr3t-passw0rd", "abc123"} {
		assert.Equal(t, Obfuscate(in), Obfuscate(in))
		assert.Len(t, Obfuscate(in), len(in)*2)
	}
}

func TestObfuscateWithKey(t *testing.T) {
	// A different key must produce a different wire form, and an empty key
	// falls back to the shared key.
	assert.NotEqual(t,
		ObfuscateWithKey("admin", CredentialKey),
		ObfuscateWithKey("admin", "00000000000000000000000000000000"))
	assert.Equal(t, Obfuscate("admin"), ObfuscateWithKey("admin", ""))
}

func TestKeysetProtect(t *testing.T) {
	testcases := map[string]struct {
		keyset       Keyset
		wantUsername string
		wantPassword string
	}{
		"plaintext both": {
			keyset:       Keyset{},
			wantUsername: "admin",
			wantPassword: "admin",
		},
		"shared both": {
			keyset:       SharedKeyset,
			wantUsername: Obfuscate("admin"),
			wantPassword: Obfuscate("admin"),
		},
		"password only": {
			keyset:       Keyset{Password: CredentialKey},
			wantUsername: "admin",
			wantPassword: Obfuscate("admin"),
		},
	}

	for name, tc := range testcases {
		t.Run(name, func(t *testing.T) {
			u, p := tc.keyset.Protect("admin", "admin")
			assert.Equal(t, tc.wantUsername, u)
			assert.Equal(t, tc.wantPassword, p)
		})
	}
}

func TestEncryptToken(t *testing.T) {
	key := "0123456789abcdef"
	iv := "fedcba9876543210"

	encoded, err := EncryptToken("abc123", key, iv)
	require.NoError(t, err)

	// Decrypt with stdlib primitives and verify the plaintext is the
	// obfuscated token with PKCS#7 padding.
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Zero(t, len(ciphertext)%aes.BlockSize)

	block, err := aes.NewCipher([]byte(key))
	require.NoError(t, err)

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, []byte(iv)).CryptBlocks(plaintext, ciphertext)

	padding := int(plaintext[len(plaintext)-1])
	require.GreaterOrEqual(t, padding, 1)
	require.LessOrEqual(t, padding, aes.BlockSize)
	require.True(t, bytes.HasSuffix(plaintext,
		bytes.Repeat([]byte{byte(padding)}, padding)))

	assert.Equal(t, Obfuscate("abc123"), string(plaintext[:len(plaintext)-padding]))
}

func TestEncryptTokenBadParams(t *testing.T) {
	t.Run("bad key length", func(t *testing.T) {
		_, err := EncryptToken("abc123", "short", "fedcba9876543210")
		assert.Error(t, err)
	})

	t.Run("bad IV length", func(t *testing.T) {
		_, err := EncryptToken("abc123", "0123456789abcdef", "short")
		assert.Error(t, err)
	})
}
