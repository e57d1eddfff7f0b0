package internal

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/spfmt/scanner"
)

// settleDelay lets editors finish a burst of writes before a file is read.
const settleDelay = 100 * time.Millisecond

// Watcher runs the engine on templates as they are written.
type Watcher struct {
	engine   *Engine
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	files    *scanner.Scanner
	onResult func(Result)

	mu       sync.Mutex
	watching bool
	done     chan struct{}
}

// NewWatcher creates a watcher that calls onResult for every processed
// file whose extension is in extensions.
func NewWatcher(engine *Engine, logger *zap.Logger, extensions []string, onResult func(Result)) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}

	return &Watcher{
		engine:   engine,
		logger:   logger,
		watcher:  fw,
		files:    scanner.New("", extensions...),
		onResult: onResult,
	}, nil
}

// Start watches every directory below dirs.
func (w *Watcher) Start(dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watching {
		return fmt.Errorf("already watching")
	}

	for _, dir := range dirs {
		subdirs, err := scanner.New(dir).Dirs()
		if err != nil {
			return fmt.Errorf("error scanning %s: %w", dir, err)
		}
		for _, d := range subdirs {
			if err := w.watcher.Add(d); err != nil {
				return fmt.Errorf("error adding directory to watcher: %w", err)
			}
		}
	}

	w.watching = true
	w.done = make(chan struct{})
	go w.watchLoop(w.done)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.watching {
		w.mu.Unlock()
		w.logger.Debug("not watching")
		return nil
	}
	w.watching = false
	done := w.done
	w.mu.Unlock()

	err := w.watcher.Close()
	<-done
	return err
}

func (w *Watcher) watchLoop(done chan struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !w.files.IsTargetFile(event.Name) {
		return
	}

	time.Sleep(settleDelay)
	res, err := w.engine.Run(event.Name)
	if err != nil {
		w.logger.Error("error processing file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	w.logger.Info("processed file",
		zap.String("file", event.Name),
		zap.Int("issues", len(res.Issues)),
		zap.Bool("changed", res.Changed()),
	)
	if w.onResult != nil {
		w.onResult(res)
	}
}
