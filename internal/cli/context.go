package cli

import (
	"strings"

	"github.com/rcliao/agent-recall/internal/recall"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [description]",
		Short: "Assemble relevant entries for a task",
		Long:  "Search and score entries, then greedily pack them into a token budget.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runContext,
	}

	cmd.Flags().StringSliceP("layer", "l", nil, "Restrict to layers (hot, warm, cold, archive)")
	cmd.Flags().IntP("budget", "b", recall.DefaultBudget, "Max tokens in output")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	layerNames, _ := cmd.Flags().GetStringSlice("layer")
	budget, _ := cmd.Flags().GetInt("budget")
	query := strings.Join(args, " ")

	layers, err := parseLayers(layerNames)
	if err != nil {
		exitErr("context", err)
	}

	e := mustEngine()
	ctx := cmd.Context()

	result, err := e.Context(ctx, recall.ContextParams{
		Query:  query,
		Layers: layers,
		Budget: budget,
	})
	e.close(ctx)
	if err != nil {
		exitErr("context", err)
	}

	printJSON(result)
}
