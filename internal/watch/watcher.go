// Package watch rebuilds the content index when files under the content root
// change. Filesystem events are debounced so editor save bursts trigger a
// single rebuild; an optional cron schedule forces periodic full rescans.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/postbuilder/postbuilder/internal/logfields"
)

// Config configures a Watcher.
type Config struct {
	// Root is the content directory to watch, recursively.
	Root string
	// Debounce is how long to wait after the last event before rebuilding.
	Debounce time.Duration
	// Schedule is an optional cron expression for periodic full rescans.
	Schedule string
}

// Watcher monitors a content root and invokes the rebuild callback.
type Watcher struct {
	root     string
	debounce time.Duration
	schedule string
	rebuild  func(context.Context) error

	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler
	trigger   chan struct{}
	stopChan  chan struct{}
}

// New creates a Watcher that invokes rebuild after changes settle.
func New(cfg Config, rebuild func(context.Context) error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		root:     cfg.Root,
		debounce: debounce,
		schedule: cfg.Schedule,
		rebuild:  rebuild,
		watcher:  fsw,
		trigger:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins monitoring. It returns once the watch loops are running.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		w.watcher.Close()
		return fmt.Errorf("watch content root %s: %w", w.root, err)
	}

	if w.schedule != "" {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.CronJob(w.schedule, false),
			gocron.NewTask(func() {
				slog.Debug("scheduled rescan requested", logfields.Schedule(w.schedule))
				w.requestRebuild()
			}),
		)
		if err != nil {
			return fmt.Errorf("register schedule %q: %w", w.schedule, err)
		}
		scheduler.Start()
		w.scheduler = scheduler
	}

	slog.Info("watching content root", logfields.Root(w.root), slog.Duration("debounce", w.debounce))

	go w.watchLoop(ctx)
	go w.rebuildLoop(ctx)
	return nil
}

// Stop shuts down the watcher and scheduler.
func (w *Watcher) Stop() error {
	close(w.stopChan)
	if w.scheduler != nil {
		if err := w.scheduler.Shutdown(); err != nil {
			slog.Error("error shutting down scheduler", logfields.Error(err))
		}
	}
	return w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root && len(name) > 0 && name[0] == '.' {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need their own watch before events inside them
			// are visible.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}
			slog.Debug("content change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			w.requestRebuild()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("file watcher error", logfields.Error(err))
		}
	}
}

// requestRebuild is a non-blocking trigger; a pending request already covers
// any number of coalesced events.
func (w *Watcher) requestRebuild() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) rebuildLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.trigger:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timerC:
			timer = nil
			timerC = nil
			start := time.Now()
			if err := w.rebuild(ctx); err != nil {
				slog.Error("rebuild failed", logfields.Error(err))
				continue
			}
			slog.Info("rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}
