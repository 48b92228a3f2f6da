package main

import (
	"github.com/philipparndt/dimsnap/internal/frames"
	"github.com/philipparndt/dimsnap/internal/replay"
	"github.com/spf13/cobra"
)

var pickFrame int

var pickCmd = &cobra.Command{
	Use:   "pick [frames.yaml]",
	Short: "Show the scored candidate ranking for one frame",
	Long:  "Replay the frames before --frame as pointer moves, then print every eligible candidate of that frame with its score and mark the one selected.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().IntVarP(&pickFrame, "frame", "f", 0, "Index of the frame to inspect")
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	rec, err := frames.Load(args[0])
	if err != nil {
		return err
	}

	policy := cfg.Policy()
	ranked, chosen, err := replay.Inspect(rec, policy, cfg.Snap.TolerancePx, pickFrame)
	if err != nil {
		return err
	}
	replay.PrintRanking(cmd.OutOrStdout(), pickFrame, ranked, chosen, policy.SameReferenceTolerance)
	return nil
}
