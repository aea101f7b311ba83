package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/api"
	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/store"
	"github.com/nickcecere/barnsbot/internal/ui"
)

// storeCmd groups vector store identity commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Show or change the active vector store",
}

var storeIDCmd = &cobra.Command{
	Use:   "id",
	Short: "Print the active vector store id",
	Long: `Print the vector store the next start will use. Nothing is created when
no store is configured yet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStoreID(config.Get(), os.Stdout)
	},
}

var storeUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Persist a different vector store for the next start",
	Long: `Check that the vector store exists and write its id to the state file.
A running server keeps its current store until restarted. VECTOR_STORE_ID,
when set, still takes precedence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStoreUse(context.Background(), config.Get(), args[0], os.Stdout)
	},
}

func init() {
	storeCmd.AddCommand(storeIDCmd)
	storeCmd.AddCommand(storeUseCmd)
}

// configuredStore returns the store id from the environment or the state
// file, or "" when neither names one.
func configuredStore(cfg *config.Config) (string, store.Source, error) {
	if cfg.Store.ID != "" {
		return cfg.Store.ID, store.SourceEnv, nil
	}
	id, err := store.NewStateFile(cfg.Store.IDFile).Read()
	if err != nil || id == "" {
		return "", "", err
	}
	return id, store.SourceFile, nil
}

func runStoreID(cfg *config.Config, out io.Writer) error {
	id, source, err := configuredStore(cfg)
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Fprintln(out, ui.Dim.Render("No vector store configured. One is created on the next start."))
		return nil
	}
	log.Debug("Vector store", "id", id, "source", source)
	fmt.Fprintln(out, id)
	return nil
}

// runStoreUse validates candidate and writes it to the state file. The
// currently configured store is never resolved, so nothing is created.
func runStoreUse(ctx context.Context, cfg *config.Config, candidate string, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, err := store.NewOpenAIService(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create vector store client: %w", err)
	}
	state := store.NewStateFile(cfg.Store.IDFile)

	id, err := store.NewAdmin(svc, state, "").Switch(ctx, candidate)
	if err != nil {
		return err
	}

	if cfg.Store.ID != "" {
		log.Warn("VECTOR_STORE_ID is set and overrides the state file", "env", cfg.Store.ID)
	}

	fmt.Fprintln(out, ui.Success.Render(api.SwitchedMessage))
	fmt.Fprintf(out, "%s %s\n", ui.Dim.Render("State file:"), state.Path())
	fmt.Fprintf(out, "%s %s\n", ui.Dim.Render("Next store:"), id)
	return nil
}
