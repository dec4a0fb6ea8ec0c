// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"

	"github.com/muesli/cancelreader"
	"github.com/toeirei/aegis-otp/internal/console"
	"github.com/toeirei/aegis-otp/internal/logging"
)

// listen watches keys in the background. The returned channel receives one
// value when Esc is pressed and is closed when the listener stops, so a
// receive on it succeeds in both cases. Ctrl-C is passed to onInterrupt;
// every other key is ignored.
func listen(keys console.KeyReader, onInterrupt func()) <-chan struct{} {
	exitKey := make(chan struct{}, 1)
	go func() {
		defer close(exitKey)
		defer keys.Close()
		for {
			k, err := keys.ReadKey()
			if err != nil {
				if !errors.Is(err, cancelreader.ErrCanceled) {
					logging.Debugf("key listener stopped: %v", err)
				}
				return
			}
			switch k {
			case console.KeyEscape:
				exitKey <- struct{}{}
				return
			case console.KeyInterrupt:
				onInterrupt()
			}
		}
	}()
	return exitKey
}
