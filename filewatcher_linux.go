//go:build linux

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const watchMask = unix.IN_MODIFY | unix.IN_CLOSE_WRITE | unix.IN_ATTRIB | unix.IN_MOVE_SELF | unix.IN_DELETE_SELF

// FileWatcher reports changes to individual files through inotify
type FileWatcher struct {
	fd          int
	watchMap    map[int]string
	mu          sync.Mutex
	delay       time.Duration
	debounceMap map[string]*time.Timer
	onChange    func(string)
}

func NewFileWatcher(delay time.Duration, onChange func(string)) (*FileWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}

	return &FileWatcher{
		fd:          fd,
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

	wd, err := unix.InotifyAddWatch(fw.fd, absPath, watchMask)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	fw.mu.Lock()
	fw.watchMap[wd] = absPath
	fw.mu.Unlock()

	return nil
}

// Watch delivers debounced change callbacks until ctx is done
func (fw *FileWatcher) Watch(ctx context.Context) error {
	buf := make([]byte, (unix.SizeofInotifyEvent+unix.NAME_MAX+1)*10)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := unix.Read(fw.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			if VerboseMode {
				fmt.Fprintf(os.Stderr, "Error reading inotify events: %v\n", err)
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		offset := 0
		for offset+unix.SizeofInotifyEvent <= n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			offset += unix.SizeofInotifyEvent + int(event.Len)

			fw.mu.Lock()
			path := fw.watchMap[int(event.Wd)]
			if event.Mask&(unix.IN_MOVE_SELF|unix.IN_DELETE_SELF|unix.IN_IGNORED) != 0 {
				delete(fw.watchMap, int(event.Wd))
			}
			fw.mu.Unlock()

			if path == "" {
				continue
			}
			if event.Mask&(unix.IN_MOVE_SELF|unix.IN_DELETE_SELF) != 0 {
				// Editors that save by renaming replace the inode, so the watch must be renewed
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
	for _, timer := range fw.debounceMap {
		timer.Stop()
	}
	fw.mu.Unlock()
	return unix.Close(fw.fd)
}
