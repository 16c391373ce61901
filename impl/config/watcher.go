package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-reads the config file when it changes on disk and hands the
// new configuration to the callback. Only settings that are safe to
// change mid-run (the diagnostic log level) should be applied by the
// callback; protocol timing and the fleet layout are fixed at boot.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	onChange  func(*Config)
	done      chan struct{}
}

func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("could not watch %s: %w", path, err)
	}

	w := &Watcher{
		path:      path,
		fsWatcher: fsWatcher,
		onChange:  onChange,
		done:      make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			config, err := Load(w.path)
			if err != nil {
				// keep the last good configuration
				continue
			}
			w.onChange(config)

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching and waits for the watch goroutine to exit.
func (w *Watcher) Close() {
	w.fsWatcher.Close()
	<-w.done
}
