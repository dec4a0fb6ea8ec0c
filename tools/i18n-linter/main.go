// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against the i18n.T() calls in the Go
// sources. Keys used in code but missing from a locale fail the run; keys no
// code uses are reported as orphans.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var keyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)

// report is the outcome of one lint run.
type report struct {
	// missing maps a locale file name to the used keys it lacks.
	missing map[string][]string
	orphans []string
	used    int
}

func (r report) failed() bool { return len(r.missing) > 0 }

func main() {
	r, err := lint(projectRoot, localesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(1)
	}
	r.print(os.Stdout)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root, locales string) (report, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return report{}, fmt.Errorf("scanning sources: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	if len(files) == 0 {
		return report{}, fmt.Errorf("no locale files in %s", locales)
	}

	r := report{missing: map[string][]string{}, used: len(used)}
	usedKeys := lo.Keys(used)
	for _, file := range files {
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return report{}, err
		}
		name := filepath.Base(file)
		if missing := lo.Filter(usedKeys, func(k string, _ int) bool { _, ok := keys[k]; return !ok }); len(missing) > 0 {
			r.missing[name] = sorted(missing)
		}
		if name == primaryLocale {
			r.orphans = sorted(lo.Filter(lo.Keys(keys), func(k string, _ int) bool { _, ok := used[k]; return !ok }))
		}
	}
	return r, nil
}

func (r report) print(w io.Writer) {
	fmt.Fprintf(w, "%d translation keys used in source code\n", r.used)
	for _, name := range sorted(lo.Keys(r.missing)) {
		for _, k := range r.missing[name] {
			fmt.Fprintf(w, "  missing in %s: %s\n", name, k)
		}
	}
	for _, k := range r.orphans {
		fmt.Fprintf(w, "  orphaned in %s: %s\n", primaryLocale, k)
	}
	if !r.failed() {
		fmt.Fprintln(w, "all locales are consistent")
	}
}

// findUsedKeys collects the literal keys passed to i18n.T in non-test Go
// files below root. tools/ and _-prefixed directories are skipped.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == "tools" || strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyRe.FindAllStringSubmatch(string(content), -1) {
			keys[m[1]] = struct{}{}
		}
		return nil
	})
	return keys, err
}

func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	keys := make(map[string]struct{})
	flattenYAML("", m, keys)
	return keys, nil
}

// flattenYAML turns nested maps into dotted keys. Flat files with dotted keys
// pass through unchanged.
func flattenYAML(prefix string, m map[string]any, keys map[string]struct{}) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flattenYAML(key, sub, keys)
			continue
		}
		keys[key] = struct{}{}
	}
}

func sorted(s []string) []string {
	slices.Sort(s)
	return s
}
