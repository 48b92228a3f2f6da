package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/philipparndt/dimsnap/pkg/watcher"
	"go.uber.org/zap"
)

// Watch reloads the config at path whenever it changes and passes every
// valid result to onChange. Invalid edits are logged and skipped. It
// blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *zap.Logger, onChange func(Config)) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := watcher.NewFileWatcher(debounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	err = fw.Watch([]string{path}, func(string) {
		cfg, err := Load(path)
		if err != nil {
			logger.Warn("config reload rejected", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Info("config reloaded", zap.String("path", path))
		onChange(cfg)
	})
	if err != nil {
		return fmt.Errorf("watching config: %w", err)
	}

	if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
