package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
	"github.com/rcliao/agent-recall/internal/recall"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember [value]",
		Short: "Store an entry",
		Long:  "Store an entry in the hot tier. The value can be a positional arg or piped via stdin.",
		Run:   runRemember,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.Flags().StringP("type", "t", string(model.TypeEpisode), "Type: episode, fact, improvement, goal, context")
	cmd.Flags().String("meta", "", "JSON object metadata")
	cmd.Flags().Duration("ttl", 0, "Expire the entry after this long (e.g. 24h)")

	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	typ, _ := cmd.Flags().GetString("type")
	meta, _ := cmd.Flags().GetString("meta")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	var value string
	if len(args) > 0 {
		value = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			value = string(b)
		}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		exitErr("remember", fmt.Errorf("value is required (positional arg or stdin)"))
	}

	if !model.ValidTypes[model.EntryType(typ)] {
		exitErr("remember", fmt.Errorf("invalid type %q", typ))
	}

	opts := recall.RememberOptions{Type: model.EntryType(typ)}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &opts.Metadata); err != nil {
			exitErr("parse meta", err)
		}
	}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		opts.ExpiresAt = &exp
	}

	e := mustEngine()
	ctx := cmd.Context()

	entry, err := e.Remember(ctx, key, value, opts)
	if err != nil {
		e.close(ctx)
		exitErr("remember", err)
	}
	e.close(ctx)

	printJSON(entryView(*entry))
}
