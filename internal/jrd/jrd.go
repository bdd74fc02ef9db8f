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

// Package jrd implements the request/response envelope of the jrd/webapi
// protocol. A request is {"jrd": {"<Command>": <params|null>}} and the modem
// answers with either {"jrd": {"<Command>Res": {...}}} or
// {"jrd": {"err": {"code": <int>, "msg": <string>}}}.
package jrd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Path is the single HTTP endpoint the protocol is served on.
const Path = "/jrd/webapi"

// VerificationKey is the fixed anonymous request key baked into the modem
// web UI. Public commands are answerable with this key alone.
const VerificationKey = "KSDHSDFOGQ5WERYTUIQWERTYUISDFG1HJZXCVCXBN2GDSMNDHKVKFsVBNf"

// Header names the firmware inspects on every request.
const (
	HeaderVerificationKey   = "_TclRequestVerificationKey"
	HeaderVerificationToken = "_TclRequestVerificationToken"
)

// EncodeRequest builds the wire body for a command. A nil params value is
// sent as JSON null, which some firmware requires for parameterless commands.
func EncodeRequest(command string, params any) ([]byte, error) {
	body, err := json.Marshal(map[string]any{"jrd": map[string]any{command: params}})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", command, err)
	}

	return body, nil
}

// DecodeResponse interprets the envelope of a command response. It returns
// the raw success payload, a *ModemError when the envelope carries an err
// object, or an ErrProtocolViolation error when the body has neither shape.
func DecodeResponse(command string, body []byte) (json.RawMessage, error) {
	var outer struct {
		Jrd map[string]json.RawMessage `json:"jrd"`
	}

	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrProtocolViolation, err)
	}

	if raw, ok := outer.Jrd["err"]; ok {
		var werr struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}

		if err := json.Unmarshal(raw, &werr); err != nil {
			return nil, fmt.Errorf("%w: malformed err object: %v",
				ErrProtocolViolation, err)
		}

		return nil, &ModemError{Code: werr.Code, Msg: werr.Msg}
	}

	if raw, ok := outer.Jrd[command+"Res"]; ok {
		return raw, nil
	}

	return nil, fmt.Errorf("%w: response carries neither %sRes nor err",
		ErrProtocolViolation, command)
}

// LoginResult is the payload of a successful Login command. Param0 and
// Param1 are the AES key and IV some firmware returns when it expects the
// token header to carry the encrypted token form.
type LoginResult struct {
	Token  string
	Param0 string
	Param1 string
}

// DecodeLoginResult extracts the token and optional encryption parameters
// from a Login success payload. The token field is a string on most firmware
// but a bare number on a few builds.
func DecodeLoginResult(payload json.RawMessage) (*LoginResult, error) {
	var raw struct {
		Token  json.RawMessage `json:"token"`
		Param0 string          `json:"param0"`
		Param1 string          `json:"param1"`
	}

	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed login payload: %v",
			ErrProtocolViolation, err)
	}

	if len(raw.Token) == 0 {
		return nil, fmt.Errorf("%w: login payload carries no token",
			ErrProtocolViolation)
	}

	var token string
	if err := json.Unmarshal(raw.Token, &token); err != nil {
		// Numeric token: keep the literal digits.
		token = strings.TrimSpace(string(raw.Token))
	}

	if token == "" {
		return nil, fmt.Errorf("%w: login payload carries an empty token",
			ErrProtocolViolation)
	}

	return &LoginResult{Token: token, Param0: raw.Param0, Param1: raw.Param1}, nil
}
