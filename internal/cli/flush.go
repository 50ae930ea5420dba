package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Age entries into colder tiers and compact",
		Long: "Run every due tier transition, then trim warm, cold and archive to capacity.\n" +
			"Schedule this externally (cron, systemd timer) for periodic aging.",
		Run: runFlush,
	}

	cmd.Flags().Bool("compact-only", false, "Only trim tiers to capacity")

	RootCmd.AddCommand(cmd)
}

func runFlush(cmd *cobra.Command, args []string) {
	compactOnly, _ := cmd.Flags().GetBool("compact-only")

	e := mustEngine()
	ctx := cmd.Context()

	var err error
	if compactOnly {
		err = e.Compact(ctx)
	} else {
		err = e.Flush(ctx)
	}
	if err != nil {
		e.close(ctx)
		exitErr("flush", err)
	}

	st, err := e.Stats(ctx)
	e.close(ctx)
	if err != nil {
		exitErr("stats", err)
	}
	fmt.Printf(`{"ok":true,"total_entries":%d}`+"\n", st.TotalEntries)
}
