// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds helpers for handling sensitive material such as
// vault passwords and TOTP secrets without leaking them into logs or output.
package security
