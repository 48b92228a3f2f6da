package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/philipparndt/dimsnap/internal/config"
	"github.com/philipparndt/dimsnap/internal/frames"
	"github.com/philipparndt/dimsnap/internal/placement"
	"github.com/philipparndt/dimsnap/internal/replay"
	"github.com/philipparndt/dimsnap/pkg/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [frames.yaml]",
	Short: "Re-run the replay whenever the recording or the policy changes",
	Long:  "Replay the recording once, then again each time the recording or the --config file is saved. Stops on Ctrl+C.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Delay before reacting to a file change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	framesPath := args[0]
	out := cmd.OutOrStdout()

	// One session lives for the whole watch; config reloads swap its policy
	// from the watcher goroutine and each rerun starts from a cancelled state.
	session := placement.NewSession(cfg.Policy(), cfg.Snap.TolerancePx, logger)

	var mu sync.Mutex
	rerun := func() {
		mu.Lock()
		defer mu.Unlock()

		rec, err := frames.Load(framesPath)
		if err != nil {
			logger.Warn("recording not loaded", zap.String("path", framesPath), zap.Error(err))
			return
		}
		session.Cancel()
		replay.Print(out, rec.Name, replay.Run(rec, session))
	}
	rerun()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Watch([]string{framesPath}, func(string) { rerun() }); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fw.Run(ctx)
	})
	if configPath != "" {
		g.Go(func() error {
			return config.Watch(ctx, configPath, watchDebounce, logger, func(c config.Config) {
				session.SetPolicy(c.Policy(), c.Snap.TolerancePx)
				rerun()
			})
		})
	}

	logger.Info("watching for changes", zap.String("frames", framesPath), zap.String("config", configPath))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
