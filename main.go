// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for aegis-otp.
//
// Usage:
//
//	go run . [flags] <vault-file>
//	./aegis-otp [flags] <vault-file>
//
// See --help for options.
package main

import (
	"os"

	"github.com/toeirei/aegis-otp/ui/cli"
)

func main() {
	os.Exit(cli.Execute())
}
