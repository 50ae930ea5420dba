package cli

import (
	"github.com/rcliao/agent-recall/internal/recall"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-tier statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	e := mustEngine()
	ctx := cmd.Context()

	stats, err := e.Stats(ctx)
	e.close(ctx)
	if err != nil {
		exitErr("stats", err)
	}

	printJSON(struct {
		DBPath string `json:"db_path"`
		*recall.Stats
	}{e.store.Path(), stats})
}
