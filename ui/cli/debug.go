// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/toeirei/aegis-otp/internal/config"
	"github.com/toeirei/aegis-otp/internal/logging"
)

const redacted = "[SECRET]"

// secretEnv lists environment variables whose values are never printed.
var secretEnv = map[string]bool{
	"AEGIS_PASSWORD": true,
}

func (a *app) debugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Dump effective settings, flags and AEGIS_* environment",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, "--- AEGIS-OTP DEBUG ---")
			if path, err := config.GetConfigPath(false); err == nil {
				fmt.Fprintf(a.out, "User config path: %s\n", path)
			}

			settings := a.cfg
			if settings.Password != "" {
				settings.Password = redacted
			}
			b, err := json.MarshalIndent(debugView(settings), "", "  ")
			if err != nil {
				logging.Errorf("could not marshal settings: %v", err)
			} else {
				fmt.Fprintln(a.out, "-- settings --")
				fmt.Fprintln(a.out, string(b))
			}

			fmt.Fprintln(a.out, "-- flags --")
			cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
				fmt.Fprintf(a.out, "%s = %s\n", f.Name, f.Value.String())
			})
			cmd.Root().Flags().VisitAll(func(f *pflag.Flag) {
				val := f.Value.String()
				if f.Name == "password" && val != "" {
					val = redacted
				}
				fmt.Fprintf(a.out, "%s = %s\n", f.Name, val)
			})

			fmt.Fprintln(a.out, "-- environment (AEGIS_*) --")
			for _, e := range os.Environ() {
				if !strings.HasPrefix(e, "AEGIS_") {
					continue
				}
				name, _, _ := strings.Cut(e, "=")
				if secretEnv[name] {
					e = name + "=" + redacted
				}
				fmt.Fprintln(a.out, e)
			}
			fmt.Fprintln(a.out, "--- END DEBUG ---")
		},
	}
}

// debugView flattens the config into the keys users set.
func debugView(c config.Config) map[string]any {
	return map[string]any{
		"vault":             c.Vault,
		"password":          c.Password,
		"pwfile":            c.PwFile,
		"language":          c.Language,
		"verbose":           c.Verbose,
		"display.tick":      c.Display.Tick.String(),
		"display.clipboard": c.Display.Clipboard,
		"history.enabled":   c.History.Enabled,
		"history.type":      c.History.Type,
		"history.dsn":       c.History.Dsn,
	}
}
