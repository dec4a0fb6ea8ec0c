// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/aegis-otp/internal/clipboard"
	"github.com/toeirei/aegis-otp/internal/config"
	"github.com/toeirei/aegis-otp/internal/console"
	"github.com/toeirei/aegis-otp/internal/export"
	"github.com/toeirei/aegis-otp/internal/history"
	"github.com/toeirei/aegis-otp/internal/i18n"
	"github.com/toeirei/aegis-otp/internal/interrupt"
	"github.com/toeirei/aegis-otp/internal/logging"
	"github.com/toeirei/aegis-otp/internal/otp"
	"github.com/toeirei/aegis-otp/internal/tui"
	"github.com/toeirei/aegis-otp/internal/vault"
)

// flagBindings maps config keys to the flags that override them.
var flagBindings = map[string]string{
	"password":        "password",
	"pwfile":          "pwfile",
	"language":        "language",
	"verbose":         "verbose",
	"display.tick":    "tick",
	"history.enabled": "recent",
}

// envBindings are environment variables that do not follow the AEGIS_<KEY>
// naming.
var envBindings = map[string]string{
	"vault": "AEGIS_VAULT_FILE",
}

// app holds the state of one command invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfgFile     string
	otp         bool
	json        bool
	url         bool
	noClipboard bool
	filter      vault.Filter

	cfg      config.Config
	exitCode int

	// interactive runs the selector; replaced in tests.
	interactive func(ctx context.Context, entries []vault.Entry) int
}

func newApp(out, errOut io.Writer) *app {
	a := &app{out: out, errOut: errOut}
	a.interactive = a.runSelector
	return a
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	a := newApp(os.Stdout, os.Stderr)
	if err := a.command().Execute(); err != nil {
		logging.Errorf("%v", err)
		return 1
	}
	return a.exitCode
}

// NewRootCmd creates a fresh root command writing to stdout and stderr.
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdout, os.Stderr).command()
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aegis-otp [flags] <vault-file>",
		Short: "Show TOTP codes from an Aegis authenticator vault.",
		Long: `aegis-otp opens an Aegis vault (plain or password protected) and lets you
pick an entry with a fuzzy finder. The chosen code is shown with a live
countdown, copied to the clipboard, and refreshed when it expires.

The vault can also be given with AEGIS_VAULT_FILE. Use --otp, --json or --url
for non-interactive output.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.run,
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.Version = compositeVersion()

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.String("language", "en", `Output language ("en", "de")`)

	f := cmd.Flags()
	f.BoolVarP(&a.otp, "otp", "o", false, "Print the current code of every matching entry")
	f.BoolVarP(&a.json, "json", "j", false, "Export matching entries as plain Aegis JSON")
	f.BoolVarP(&a.url, "url", "u", false, "Export matching entries as otpauth:// URLs")
	f.StringVarP(&a.filter.Issuer, "issuer", "i", "", "Only entries whose issuer contains this text")
	f.StringVarP(&a.filter.Name, "name", "n", "", "Only entries whose name contains this text")
	f.StringP("pwfile", "p", "", "Read the vault password from this file")
	f.StringP("password", "P", "", "Vault password (prefer --pwfile or the prompt)")
	f.Duration("tick", tui.DefaultTick, "Countdown refresh interval (below 1s)")
	f.BoolVar(&a.noClipboard, "no-clipboard", false, "Do not copy codes to the clipboard")
	f.Bool("recent", false, "List recently viewed entries first")
	cmd.MarkFlagsMutuallyExclusive("otp", "json", "url")
	cmd.MarkFlagsMutuallyExclusive("password", "pwfile")

	cmd.AddCommand(a.versionCommand(), a.debugCommand())
	return cmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	a.cfg, err = config.LoadConfig[config.Config](cmd, config.Defaults(), flagBindings, envBindings, configPath)
	// A missing file is expected on first run; leave a default one behind
	// so users have something to edit.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		def := config.Default()
		if path, werr := config.WriteConfigFile(&def, false); werr != nil {
			logging.Warnf("could not write default config file: %v", werr)
		} else {
			logging.Infof("%s", i18n.T("cli.wrote_default_config", path))
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if len(args) > 0 {
		a.cfg.Vault = args[0]
	}
	if a.noClipboard {
		a.cfg.Display.Clipboard = false
	}
	if a.cfg.Language == "" {
		a.cfg.Language = "en"
	}

	i18n.Init(a.cfg.Language)
	logging.SetDebug(a.cfg.Verbose)
	return a.cfg.Validate()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

func (a *app) run(cmd *cobra.Command, _ []string) error {
	if a.cfg.Vault == "" {
		return errors.New(i18n.T("cli.error_missing_vault"))
	}
	if a.cfg.Password != "" && a.cfg.PwFile != "" {
		return vault.ErrPasswordConflict
	}

	entries, err := a.loadEntries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, i18n.T("cli.no_matching_entries"))
		return nil
	}

	switch {
	case a.otp:
		return export.Codes(a.out, entries, otp.NewTOTP(nil))
	case a.json:
		return export.JSON(a.out, entries)
	case a.url:
		return export.URLs(a.out, entries)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.exitCode = a.interactive(ctx, entries)
	return nil
}

func (a *app) loadEntries() ([]vault.Entry, error) {
	data, err := os.ReadFile(a.cfg.Vault)
	if err != nil {
		return nil, errors.New(i18n.T("cli.error_read_vault", err))
	}
	db, err := vault.Parse(data, vault.PasswordInput{
		Password: a.cfg.Password,
		File:     a.cfg.PwFile,
		Title:    i18n.T("password.prompt"),
	})
	if err != nil {
		return nil, errors.New(i18n.T("cli.error_open_vault", err))
	}
	return a.filter.Apply(db.TOTP()), nil
}

func (a *app) runSelector(ctx context.Context, entries []vault.Entry) int {
	sel := &tui.Selector{
		Viewer: &tui.Countdown{
			Term:      console.Stdio(),
			Source:    otp.NewTOTP(nil),
			Clipboard: clipboard.Default(a.cfg.Display.Clipboard),
			Tick:      a.cfg.Display.Tick,
		},
		Picker: tui.ListPicker{Output: a.errOut},
		Stderr: a.errOut,
	}

	if a.cfg.History.Enabled {
		store, err := history.Open(ctx, a.cfg.History.Type, a.cfg.History.Dsn, nil)
		if err != nil {
			logging.Warnf("history disabled: %v", err)
		} else {
			defer func() { _ = store.Close() }()
			if ordered, err := store.Order(ctx, entries); err != nil {
				logging.Warnf("could not order entries by history: %v", err)
			} else {
				entries = ordered
			}
			sel.History = store
		}
	}

	interrupt.Install()
	return sel.Run(ctx, entries)
}
