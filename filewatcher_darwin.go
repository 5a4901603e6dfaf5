//go:build darwin

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// FileWatcher reports changes to individual files through kqueue
type FileWatcher struct {
	kq          int
	watchMap    map[int]string
	mu          sync.Mutex
	delay       time.Duration
	debounceMap map[string]*time.Timer
	onChange    func(string)
}

func NewFileWatcher(delay time.Duration, onChange func(string)) (*FileWatcher, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("kqueue failed: %w", err)
	}

	return &FileWatcher{
		kq:          kq,
		watchMap:    make(map[int]string),
		delay:       delay,
		debounceMap: make(map[string]*time.Timer),
		onChange:    onChange,
	}, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fd, err := unix.Open(absPath, unix.O_RDONLY|unix.O_EVTONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", absPath, err)
	}

	event := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_VNODE,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
		Fflags: unix.NOTE_WRITE | unix.NOTE_ATTRIB | unix.NOTE_RENAME | unix.NOTE_DELETE,
	}

	if _, err := unix.Kevent(fw.kq, []unix.Kevent_t{event}, nil, nil); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to add kevent for %s: %w", absPath, err)
	}

	fw.mu.Lock()
	fw.watchMap[fd] = absPath
	fw.mu.Unlock()

	return nil
}

// Watch delivers debounced change callbacks until ctx is done
func (fw *FileWatcher) Watch(ctx context.Context) error {
	events := make([]unix.Kevent_t, 10)
	timeout := unix.NsecToTimespec(int64(100 * time.Millisecond))

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := unix.Kevent(fw.kq, nil, events, &timeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if VerboseMode {
				fmt.Fprintf(os.Stderr, "Error reading kevent: %v\n", err)
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		for i := 0; i < n; i++ {
			event := events[i]
			fd := int(event.Ident)

			fw.mu.Lock()
			path := fw.watchMap[fd]
			replaced := event.Fflags&(unix.NOTE_RENAME|unix.NOTE_DELETE) != 0
			if replaced {
				delete(fw.watchMap, fd)
			}
			fw.mu.Unlock()

			if path == "" {
				continue
			}
			if replaced {
				unix.Close(fd)
				fw.rewatch(ctx, path)
			}
			fw.debouncedCallback(path)
		}
	}
}

// rewatch waits for a replaced file to reappear and watches it again
func (fw *FileWatcher) rewatch(ctx context.Context, path string) {
	go func() {
		for i := 0; i < 20 && ctx.Err() == nil; i++ {
			if _, err := os.Stat(path); err == nil {
				if err := fw.AddFile(path); err == nil {
					return
				}
			}
			time.Sleep(50 * time.Millisecond)
		}
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "Stopped watching %s\n", path)
		}
	}()
}

func (fw *FileWatcher) debouncedCallback(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if timer, exists := fw.debounceMap[path]; exists {
		timer.Stop()
	}

	fw.debounceMap[path] = time.AfterFunc(fw.delay, func() {
		fw.onChange(path)
		fw.mu.Lock()
		delete(fw.debounceMap, path)
		fw.mu.Unlock()
	})
}

func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, timer := range fw.debounceMap {
		timer.Stop()
	}
	for fd := range fw.watchMap {
		unix.Close(fd)
	}

	return unix.Close(fw.kq)
}
