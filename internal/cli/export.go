package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as JSON",
		Long: "Export every stored entry as a JSON array. The hot tier is drained first so the\n" +
			"export is complete. Use --all to include every namespace.",
		Run: runExport,
	}

	cmd.Flags().Bool("all", false, "Export all namespaces")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")

	e := mustEngine()
	ctx := cmd.Context()

	if err := e.Drain(ctx); err != nil {
		e.close(ctx)
		exitErr("drain", err)
	}

	ns := e.Namespace()
	if all {
		ns = ""
	}
	entries, err := e.store.ExportAll(ctx, ns)
	e.close(ctx)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(entries)
}
