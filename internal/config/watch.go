package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk and publishes
// the parsed result on Updates.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan Config
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	done    chan struct{}
}

// Watch starts watching path. The containing directory is watched so that
// editors replacing the file by rename are still observed.
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	watcher := &Watcher{
		path:    filepath.Clean(path),
		watcher: w,
		Updates: make(chan Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

// run reloads on the trailing edge of a burst of events so that a
// truncate-then-write sequence is read once, complete.
func (w *Watcher) run() {
	defer close(w.done)
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.sendError(err)
				continue
			}
			w.sendUpdate(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		case <-w.closeCh:
			return
		}
	}
}

// sendUpdate keeps only the most recent configuration when the consumer lags.
func (w *Watcher) sendUpdate(cfg Config) {
	select {
	case <-w.Updates:
	default:
	}
	select {
	case w.Updates <- cfg:
	case <-w.closeCh:
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
