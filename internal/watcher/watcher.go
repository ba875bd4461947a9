// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package watcher extracts EXIF metadata from JPEG files as they appear in a directory.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bep/framemeta"
	"github.com/bep/framemeta/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Event is sent for each created or written JPEG file.
type Event struct {
	Path string             `json:"path"`
	Data framemeta.ExifData `json:"exif"`
}

// Watcher watches directories for JPEG files.
type Watcher struct {
	watcher *fsnotify.Watcher
	opts    framemeta.Options
	log     *slog.Logger
}

// New creates a watcher for dirs.
func New(dirs []string, opts framemeta.Options, log *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
		log.Info("watching directory", "dir", dir)
	}
	return &Watcher{watcher: w, opts: opts, log: log}, nil
}

// Run calls fn for each JPEG created or written until ctx is done.
// The watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, fn func(Event) error) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsJPEG(event.Name) {
				continue
			}
			d, err := w.extract(event.Name)
			if err != nil {
				// Usually removed before we got to it.
				w.log.Debug("skipping file", "path", event.Name, "error", err)
				continue
			}
			if err := fn(Event{Path: event.Name, Data: d}); err != nil {
				return err
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) extract(filename string) (framemeta.ExifData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return framemeta.ExifData{}, err
	}
	defer f.Close()

	opts := w.opts
	opts.Warnf = logging.Warnf(w.log, "path", filename)
	return framemeta.ExtractFrom(f, opts), nil
}

// IsJPEG reports whether filename has a JPEG file extension.
func IsJPEG(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".jpe":
		return true
	default:
		return false
	}
}
