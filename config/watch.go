package config

import (
	"log/slog"
	"sync/atomic"

	"github.com/Twibooru/fancy-searchable/fieldmeta"
	"github.com/fsnotify/fsnotify"
)

// FieldMetaStore holds a hot-swappable FieldMeta, kept current by a
// background fsnotify watcher on its backing file (the same
// watcher.Add(path) plus select-on-Events/Errors loop the teacher's
// source.FileLogSource uses to watch a log file for appends).
type FieldMetaStore struct {
	current atomic.Pointer[fieldmeta.FieldMeta]
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// WatchFieldMeta loads path once, then starts a background goroutine
// that reloads it on every write and swaps the store's current value
// atomically. A reload that fails to parse is logged and the previous
// value is kept, so a mid-edit save of the file never serves a nil or
// half-written schema to an in-flight compile.
func WatchFieldMeta(path string, logger *slog.Logger) (*FieldMetaStore, error) {
	meta, err := LoadFieldMeta(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close() //nolint:errcheck
		return nil, err
	}

	s := &FieldMetaStore{watcher: watcher, logger: logger}
	s.current.Store(meta)

	go s.watch(path)

	return s, nil
}

func (s *FieldMetaStore) watch(path string) {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) {
				s.logger.Debug("field meta watcher received unhandled event", "event", event.String())
				continue
			}

			meta, err := LoadFieldMeta(path)
			if err != nil {
				s.logger.Error("failed to reload field meta, keeping previous schema", "path", path, "error", err)
				continue
			}

			s.current.Store(meta)
			s.logger.Info("reloaded field meta", "path", path)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("field meta watcher error", "error", err)
		}
	}
}

// Load returns the currently active FieldMeta.
func (s *FieldMetaStore) Load() *fieldmeta.FieldMeta {
	return s.current.Load()
}

// Close stops the background watcher.
func (s *FieldMetaStore) Close() error {
	return s.watcher.Close()
}
