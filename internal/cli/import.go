package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rcliao/agent-recall/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import entries from JSON",
		Long: "Import entries from JSON (file or stdin). Expects the format produced by export.\n" +
			"Entries keep their IDs, namespaces and tiers; IDs already present are skipped.",
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open file", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		exitErr("read input", err)
	}

	var entries []model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		exitErr("parse json", err)
	}
	for _, en := range entries {
		if en.Layer == model.LayerHot {
			exitErr("import", fmt.Errorf("entry %s is in the hot tier; only stored tiers can be imported", en.ID))
		}
	}

	e := mustEngine()
	ctx := cmd.Context()

	imported, err := e.store.Import(ctx, entries)
	e.close(ctx)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
