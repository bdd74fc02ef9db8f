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

package client

// publicCommands are the commands every firmware variant answers with only
// the anonymous verification key, no session required. Everything else is
// assumed restricted: treating an unknown command as restricted costs at
// worst an unnecessary login, the reverse costs a rejected call.
var publicCommands = map[string]struct{}{
	"Login":              {},
	"GetCurrentLanguage": {},
	"GetLoginState":      {},
	"GetQuickSetup":      {},
	"GetSMSStorageState": {},
	"GetSimStatus":       {},
	"GetSystemInfo":      {},
	"GetSystemStatus":    {},
}

// RequiresAuth reports whether command needs a session token.
func RequiresAuth(command string) bool {
	_, public := publicCommands[command]
	return !public
}
