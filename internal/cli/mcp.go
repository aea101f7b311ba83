package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/mcp"
)

var (
	mcpWatch string
)

// mcpCmd represents the MCP server command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start a Model Context Protocol (MCP) server so AI agents can use the
knowledge base. The server speaks MCP over stdin/stdout and provides:
  - barnsbot_ask: answer a question from the documents
  - barnsbot_status: list the documents in the vector store
  - barnsbot_ingest: upload a file or directory

With --watch, a directory is also kept uploaded in the background.

This command is typically launched by an agent, not run directly.`,
	Args: cobra.NoArgs,
	RunE: runMcpCmd,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpWatch, "watch", "", "directory to upload on change while serving")
}

func runMcpCmd(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}

	if mcpWatch != "" {
		absPath, err := filepath.Abs(mcpWatch)
		if err != nil {
			return err
		}
		go watchInBackground(ctx, b, absPath)
	}

	server := mcp.NewServer(mcp.Backend{
		Relay:    b.relay,
		Admin:    b.admin,
		Pipeline: b.pipeline,
		Walk:     walkOptions(cfg),
	}, version)

	log.Info("MCP server starting", "store", b.storeID)
	err = server.Run(ctx, &sdk.StdioTransport{})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
