// Package watcher turns fsnotify events on a directory tree into the
// created/modified notifications the detection pipeline consumes.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Kind distinguishes notification types.
type Kind int

const (
	// Created indicates a newly appeared file.
	Created Kind = iota
	// Modified indicates a content change to an existing file.
	Modified
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Notification is one file-change event delivered to the pipeline.
// Directory events are consumed internally (new directories are added to
// the watch) and never delivered.
type Notification struct {
	Kind Kind
	Path string
}

// Watcher subscribes to a directory tree. fsnotify watches are not
// recursive, so every directory under the root is added individually and
// newly created directories are added as they appear.
type Watcher struct {
	fs   *fsnotify.Watcher
	root string

	notifications chan Notification
	errors        chan error

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher for the tree rooted at root.
func New(root string) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fs:            fsw,
		root:          abs,
		notifications: make(chan Notification, 256),
		errors:        make(chan error, 10),
		done:          make(chan struct{}),
	}, nil
}

// Root returns the absolute watched root.
func (w *Watcher) Root() string {
	return w.root
}

// Notifications returns the delivery channel.
func (w *Watcher) Notifications() <-chan Notification {
	return w.notifications
}

// Errors returns the watch error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start registers the root and all existing subdirectories, then begins
// delivering notifications.
func (w *Watcher) Start() error {
	info, err := os.Stat(w.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch root %s is not a directory", w.root)
	}

	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("register watches: %w", err)
	}

	w.wg.Add(1)
	go w.eventLoop()
	return nil
}

// Stop shuts the watcher down and closes its channels.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	close(w.notifications)
	close(w.errors)
	return err
}

// eventLoop translates fsnotify events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			var kind Kind
			switch {
			case event.Op&fsnotify.Create != 0:
				kind = Created
			case event.Op&fsnotify.Write != 0:
				kind = Modified
			default:
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				// Gone already; a rapid create+delete is not actionable.
				continue
			}
			if info.IsDir() {
				if kind == Created {
					if err := w.fs.Add(event.Name); err != nil {
						w.reportError(fmt.Errorf("watch new directory %s: %w", event.Name, err))
					}
				}
				continue
			}

			select {
			case w.notifications <- Notification{Kind: kind, Path: event.Name}:
			case <-w.done:
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) reportError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
