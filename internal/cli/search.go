package cli

import (
	"strings"

	"github.com/rcliao/agent-recall/internal/recall"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search entries across tiers",
		Long:  "Rank entries by a blend of keyword and vector similarity.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringSliceP("layer", "l", nil, "Restrict to layers (hot, warm, cold, archive)")
	cmd.Flags().Int("limit", recall.DefaultLimit, "Max results")
	cmd.Flags().Float64("threshold", recall.DefaultThreshold, "Minimum score; 0 or less keeps everything")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	layerNames, _ := cmd.Flags().GetStringSlice("layer")
	limit, _ := cmd.Flags().GetInt("limit")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	query := strings.Join(args, " ")

	layers, err := parseLayers(layerNames)
	if err != nil {
		exitErr("search", err)
	}

	e := mustEngine()
	ctx := cmd.Context()

	results, err := e.Search(ctx, recall.SearchParams{
		Query:     query,
		Layers:    layers,
		Limit:     limit,
		Threshold: &threshold,
	})
	e.close(ctx)
	if err != nil {
		exitErr("search", err)
	}

	for i := range results {
		results[i].Entry = entryView(results[i].Entry)
	}
	printJSON(results)
}
