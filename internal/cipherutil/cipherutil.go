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

// Package cipherutil implements the credential and token transforms required
// by the jrd/webapi firmware family. The algorithms are fixed by the modem
// web UI JavaScript and cannot be changed without breaking compatibility.
package cipherutil

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
)

// CredentialKey is the shared obfuscation key baked into the modem firmware.
// Verified against HH72_V1.0.0, MW40_V2.0 and several HH40V builds.
const CredentialKey = "e5dl12XYVggihggafXWf0f2YSf2Xngd1"

// Obfuscate applies the firmware's nibble-substitution cipher with the
// default shared key. Each input byte expands to two output bytes carrying
// the key byte's high nibble and the XOR-mixed low/high nibbles of the value.
func Obfuscate(value string) string {
	return ObfuscateWithKey(value, CredentialKey)
}

// ObfuscateWithKey is Obfuscate with an explicit key. Some modem variants use
// a different key per credential field.
func ObfuscateWithKey(value, key string) string {
	if key == "" {
		key = CredentialKey
	}

	out := make([]byte, 0, len(value)*2)

	for i := 0; i < len(value); i++ {
		v := value[i]
		k := key[i%len(key)]

		out = append(out,
			(k&0xf0)|((v&0x0f)^(k&0x0f)),
			(k&0xf0)|((v>>4)^(k&0x0f)),
		)
	}

	return string(out)
}

// Keyset selects the obfuscation key per credential field. An empty key
// leaves that field in the clear, which covers variants that encrypt only
// the password as well as variants with asymmetric field keys.
type Keyset struct {
	Username string
	Password string
}

// SharedKeyset obfuscates both fields with the default shared key, as the
// HH72/HH40V firmware line expects.
var SharedKeyset = Keyset{Username: CredentialKey, Password: CredentialKey}

// Protect returns the wire representation of the given credentials.
func (k Keyset) Protect(username, password string) (string, string) {
	u, p := username, password

	if k.Username != "" {
		u = ObfuscateWithKey(username, k.Username)
	}

	if k.Password != "" {
		p = ObfuscateWithKey(password, k.Password)
	}

	return u, p
}

// EncryptToken produces the encoded session token some firmware requires:
// the token is obfuscated with the shared key, then AES-CBC encrypted with
// the key and IV returned by the login response (param0/param1), then
// base64-encoded.
func EncryptToken(token, key, iv string) (string, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", fmt.Errorf("token encryption key: %w", err)
	}

	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("token encryption IV must be %d bytes, got %d",
			aes.BlockSize, len(iv))
	}

	plaintext := pad([]byte(Obfuscate(token)), aes.BlockSize)
	ciphertext := make([]byte, len(plaintext))

	cipher.NewCBCEncrypter(block, []byte(iv)).CryptBlocks(ciphertext, plaintext)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// pad implements PKCS#7 padding.
func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}
