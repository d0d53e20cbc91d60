package config

import (
	"fmt"
	"sync"

	"careerforge/internal/errors"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PromptStore resolves prompt templates by dotted key, e.g. "career.generate".
// Resolution order is file override first, then built-in default. When Watch
// is enabled the override file is reloaded on change, so prompt tuning does
// not require a restart.
type PromptStore struct {
	mu        sync.RWMutex
	defaults  map[string]string
	overrides map[string]string

	file    string
	watcher *fsnotify.Watcher
	logger  *errors.Logger
}

// NewPromptStore creates a prompt store from configuration. The defaults map
// is the authoritative key set; file entries for unknown keys are kept too so
// operators can stage templates ahead of a code change.
func NewPromptStore(cfg PromptsConfig, defaults map[string]string, logger *errors.Logger) (*PromptStore, error) {
	ps := &PromptStore{
		defaults:  defaults,
		overrides: map[string]string{},
		file:      cfg.File,
		logger:    logger,
	}

	if cfg.File != "" {
		if err := ps.loadFile(); err != nil {
			return nil, err
		}
		if cfg.Watch {
			if err := ps.startWatcher(); err != nil {
				return nil, err
			}
		}
	}

	return ps, nil
}

// Get returns the template for a key, or the empty string when the key is
// unknown to both the override file and the defaults.
func (ps *PromptStore) Get(key string) string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if tmpl, ok := ps.overrides[key]; ok && tmpl != "" {
		return tmpl
	}
	return ps.defaults[key]
}

// Close stops the file watcher if one is running
func (ps *PromptStore) Close() error {
	if ps.watcher != nil {
		return ps.watcher.Close()
	}
	return nil
}

// loadFile reads the override file and replaces the override set atomically.
// Nested yaml maps flatten to dotted keys, matching the key constants.
func (ps *PromptStore) loadFile() error {
	v := viper.New()
	v.SetConfigFile(ps.file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read prompts file %s: %w", ps.file, err)
	}

	overrides := map[string]string{}
	for _, key := range v.AllKeys() {
		overrides[key] = v.GetString(key)
	}

	ps.mu.Lock()
	ps.overrides = overrides
	ps.mu.Unlock()

	if ps.logger != nil {
		ps.logger.Info("Prompt overrides loaded", "file", ps.file, "count", len(overrides))
	}

	return nil
}

// startWatcher reloads the override file on write or create events. Editors
// that replace the file (rename + create) trigger a create event, so both are
// handled.
func (ps *PromptStore) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create prompts watcher: %w", err)
	}

	if err := watcher.Add(ps.file); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch prompts file %s: %w", ps.file, err)
	}

	ps.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := ps.loadFile(); err != nil {
					if ps.logger != nil {
						ps.logger.LogError(err, "Failed to reload prompts file", "file", ps.file)
					}
					continue
				}
				if ps.logger != nil {
					ps.logger.Info("Prompts file reloaded", "file", ps.file)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if ps.logger != nil {
					ps.logger.LogError(err, "Prompts watcher error", "file", ps.file)
				}
			}
		}
	}()

	return nil
}
