package scene

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/ryanwebber/raybaby/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 75 * time.Millisecond

// Update is a reloaded scene or the error that prevented it.
type Update struct {
	Scene *Scene
	Err   error
}

// Watcher reloads a scene file whenever it changes on disk.
// Only the most recent update is kept if the consumer falls behind.
type Watcher struct {
	path     string
	format   Format
	debounce time.Duration
	fs       *fsnotify.Watcher
	updates  chan Update
	done     chan struct{}
	once     sync.Once
	log      *zap.Logger
}

// Watch starts watching the scene file at path.
func Watch(path string, format Format) (*Watcher, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding scene path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("resolving scene path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		format:   format,
		debounce: DefaultDebounce,
		fs:       fsw,
		updates:  make(chan Update, 1),
		done:     make(chan struct{}),
		log:      logger.Named("scene-watch"),
	}
	go w.run()
	return w, nil
}

// Poll returns a pending update without blocking.
func (w *Watcher) Poll() (Update, bool) {
	select {
	case u, ok := <-w.updates:
		return u, ok
	default:
		return Update{}, false
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.updates)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			s, err := LoadAs(w.path, w.format)
			if err != nil {
				w.log.Warn("scene reload failed", zap.String("path", w.path), zap.Error(err))
			} else {
				w.log.Debug("scene reloaded", zap.String("path", w.path), zap.Int("objects", len(s.Objects)))
			}
			w.send(Update{Scene: s, Err: err})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.send(Update{Err: fmt.Errorf("watching scene: %w", err)})
		}
	}
}

// send replaces any unread update; run is the only sender.
func (w *Watcher) send(u Update) {
	select {
	case w.updates <- u:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- u
	}
}
