package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/fs"
	"github.com/nickcecere/barnsbot/internal/ingest"
	"github.com/nickcecere/barnsbot/internal/ui"
)

// ingestCmd uploads local documents.
var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Upload documents to the vector store",
	Long: `Upload files, or every supported document under a directory, to the active
vector store. Supported: pdf, txt, md, docx, html, json and csv (uploaded as text).

Directories honor .gitignore and the configured ignore patterns. Files named
explicitly are always sent, so unsupported ones are reported as failures.

Examples:
  barnsbot ingest ./handbook
  barnsbot ingest policies.pdf leave.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	files, err := fs.Gather(args, walkOptions(cfg))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No supported documents found.")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := b.pipeline.Ingest(ctx, sourcesFrom(files))
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	if report.AllFailed() {
		return fmt.Errorf("all uploads failed")
	}
	return nil
}

// sourcesFrom converts walked files into pipeline sources owned by the caller.
func sourcesFrom(files []fs.FileInfo) []ingest.Source {
	sources := make([]ingest.Source, 0, len(files))
	for _, f := range files {
		sources = append(sources, ingest.Source{
			OriginalName: filepath.Base(f.Path),
			Path:         f.Path,
			Hash:         f.Hash,
		})
	}
	return sources
}

func printReport(out io.Writer, report *ingest.Report) {
	fmt.Fprintln(out, ui.Header.Render("Ingest"))
	fmt.Fprintf(out, "%s %s\n\n", ui.Dim.Render("Vector store:"), report.StoreID)

	for _, r := range report.Results {
		if r.OK {
			fmt.Fprintf(out, "  %s %s %s\n", ui.Success.Render("✓"), ui.FilePath.Render(r.OriginalName), ui.FileID.Render(r.FileID))
			continue
		}
		reason := r.Error
		if r.Code != "" {
			reason = fmt.Sprintf("%s (%s)", reason, r.Code)
		}
		fmt.Fprintf(out, "  %s %s %s\n", ui.Error.Render("✗"), ui.FilePath.Render(r.OriginalName), ui.Dim.Render(reason))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, report.Message())
}
