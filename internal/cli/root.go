// Package cli implements the agent-recall CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rcliao/agent-recall/internal/config"
	"github.com/rcliao/agent-recall/internal/model"
	"github.com/rcliao/agent-recall/internal/recall"
	"github.com/rcliao/agent-recall/internal/store"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	nsFlag     string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "agent-recall",
	Short: "Tiered memory for AI agents",
	Long: "Remember short facts and search them back. New entries start in a hot tier and age\n" +
		"through warm, cold and archive tiers in SQLite, getting smaller as they go.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $AGENT_RECALL_DB or ~/.agent-recall/recall.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $AGENT_RECALL_CONFIG)")
	RootCmd.PersistentFlags().StringVarP(&nsFlag, "ns", "n", "", "Namespace (overrides the config file)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log tier transitions to stderr")
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("AGENT_RECALL_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if nsFlag != "" {
		cfg.Namespace = nsFlag
	}
	return cfg, nil
}

func getDBPath(cfg config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("AGENT_RECALL_DB"); env != "" {
		return env
	}
	if cfg.DBPath != "" {
		return cfg.DBPath
	}
	return config.DefaultDBPath()
}

// engine bundles a coordinator with the store it owns for one invocation.
type engine struct {
	*recall.Coordinator
	store *store.SQLiteStore
}

func openEngine() (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStore(getDBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	out := io.Discard
	if verbose {
		out = os.Stderr
	}
	c, err := recall.New(st, cfg, recall.WithLogger(log.New(out, "[RECALL] ", log.LstdFlags)))
	if err != nil {
		st.Close()
		return nil, err
	}
	return &engine{Coordinator: c, store: st}, nil
}

// close drains the hot tier into the store, which outlives the process,
// then closes the store.
func (e *engine) close(ctx context.Context) {
	defer e.Close()
	if err := e.Drain(ctx); err != nil {
		e.store.Close()
		exitErr("drain", err)
	}
	if err := e.store.Close(); err != nil {
		exitErr("close store", err)
	}
}

func mustEngine() *engine {
	e, err := openEngine()
	if err != nil {
		exitErr("open", err)
	}
	return e
}

// entryView drops the vector, which is noise on a terminal.
func entryView(e model.Entry) model.Entry {
	e.Vector = nil
	return e
}

func parseLayers(names []string) ([]model.Layer, error) {
	var layers []model.Layer
	for _, n := range names {
		l := model.Layer(n)
		if !model.ValidLayers[l] {
			return nil, fmt.Errorf("invalid layer %q (want hot, warm, cold or archive)", n)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
