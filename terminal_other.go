//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package main

// isTerminal always reports false, so diagnostics are printed without color
func isTerminal(fd int) bool {
	return false
}
