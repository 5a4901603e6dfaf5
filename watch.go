// watch.go - Rebuild a binary whenever its source file changes
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// watchAndRebuild blocks until ctx is done, rebuilding outputFile on every change to sourceFile
func watchAndRebuild(ctx context.Context, c *CommandContext, sourceFile, outputFile string) error {
	absPath, err := filepath.Abs(sourceFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Stderr, "\nWatch mode enabled - monitoring %s\n", absPath)
	fmt.Fprintf(c.Stderr, "Press Ctrl+C to stop, or send SIGUSR1 to trigger a rebuild\n")
	fmt.Fprintf(c.Stderr, "Command: kill -USR1 %d\n\n", os.Getpid())

	// Rebuilds triggered by the watcher and by the signal handler must not overlap
	var mu sync.Mutex
	rebuild := func(trigger string) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(c.Stderr, "\n[%s] %s\n", time.Now().Format("15:04:05"), trigger)
		if err := c.buildFile(ctx, absPath, outputFile); err != nil {
			c.printError(err)
			return
		}
		fmt.Fprintf(c.Stderr, "Rebuilt %s\n", outputFile)
	}

	setupReloadSignal(ctx, rebuild)

	watcher, err := NewFileWatcher(c.Config.WatchDelay, func(path string) {
		rebuild(fmt.Sprintf("File changed: %s", filepath.Base(path)))
	})
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.AddFile(absPath); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher.Watch(ctx)
}
