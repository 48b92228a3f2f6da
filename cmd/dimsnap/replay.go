package main

import (
	"github.com/philipparndt/dimsnap/internal/frames"
	"github.com/philipparndt/dimsnap/internal/placement"
	"github.com/philipparndt/dimsnap/internal/replay"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [frames.yaml]",
	Short: "Replay recorded frames through a placement session",
	Long:  "Run every recorded move, click and cancel event through the snap selector and print the chosen snap per frame and the dimensions placed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	rec, err := frames.Load(args[0])
	if err != nil {
		return err
	}

	session := placement.NewSession(cfg.Policy(), cfg.Snap.TolerancePx, logger)
	replay.Print(cmd.OutOrStdout(), rec.Name, replay.Run(rec, session))
	return nil
}
