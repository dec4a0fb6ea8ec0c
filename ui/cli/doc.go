// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the aegis-otp command line using Cobra. It loads
// configuration, opens the vault and hands the entries either to one of the
// exporters or to the interactive selector.
package cli
