//go:build windows

package main

import "context"

func setupReloadSignal(ctx context.Context, rebuild func(string)) {
	// Windows doesn't support SIGUSR1, so only file changes trigger a rebuild
}
