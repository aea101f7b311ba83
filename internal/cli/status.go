package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/store"
	"github.com/nickcecere/barnsbot/internal/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List the files in the active vector store",
	Long: `Display the files attached to the active vector store with their indexing
status, size and any error reported by the provider.

Examples:
  barnsbot status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	log.Debug("Showing status")

	ctx := context.Background()
	b, err := openBackend(ctx, config.Get())
	if err != nil {
		return err
	}

	status, err := b.admin.Status(ctx)
	if err != nil {
		return err
	}

	printStatus(os.Stdout, status, b.source)
	return nil
}

func printStatus(out io.Writer, status *store.Status, source store.Source) {
	fmt.Fprintln(out, ui.Header.Render("Vector Store Status"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s %s\n", ui.Highlight.Render("Store:"), ui.Bold.Render(status.StoreID), ui.Dim.Render("("+string(source)+")"))
	fmt.Fprintf(out, "%s %d\n", ui.Highlight.Render("Files:"), status.Count)

	if status.Count == 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Warning.Render("empty (run 'barnsbot ingest <path>' to add documents)"))
		return
	}

	var total int64
	fmt.Fprintln(out)
	for _, f := range status.Files {
		total += f.UsageBytes
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			ui.FilePath.Render(f.ID),
			ui.FormatFileStatus(f.Status),
			ui.FormatBytes(f.UsageBytes),
			ui.Dim.Render(ui.FormatTime(time.Unix(f.CreatedAt, 0))),
		)
		if f.LastError != nil {
			fmt.Fprintf(out, "    %s\n", ui.Error.Render(f.LastError.Code+": "+f.LastError.Message))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.Dim.Render(fmt.Sprintf("Total: %s", ui.FormatBytes(total))))
}
