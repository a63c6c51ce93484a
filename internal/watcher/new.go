package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
)

const (
	defaultSettleInterval = 500 * time.Millisecond
	defaultSettleChecks   = 120
)

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:       inputDir,
		handler:        handler,
		logger:         log,
		watcher:        fsw,
		maxConcurrent:  maxConcurrent,
		semaphore:      make(chan struct{}, maxConcurrent),
		inFlight:       make(map[string]struct{}),
		settleInterval: defaultSettleInterval,
		settleChecks:   defaultSettleChecks,
	}, nil
}
