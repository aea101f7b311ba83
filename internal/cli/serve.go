package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/api"
	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/ui"
	"github.com/nickcecere/barnsbot/internal/upload"
)

var servePort int

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API used by the dashboard and chat widget.

The active vector store is resolved once at startup: VECTOR_STORE_ID if set,
otherwise the id in the state file, otherwise a new store is created and its
id written to the state file. Switching stores through /store/use takes
effect on the next start.

Examples:
  # Listen on the default port (3000, or $PORT)
  barnsbot serve

  # Listen on another port
  barnsbot serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config and $PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ui.SetServerMode()

	cfg := config.Get()
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}

	spool, err := upload.NewSpool(cfg.Server.UploadDir)
	if err != nil {
		return err
	}

	e := api.NewServer(&api.Dependencies{
		Admin:     b.admin,
		Pipeline:  b.pipeline,
		Relay:     b.relay,
		Spool:     spool,
		MaxFiles:  cfg.Server.MaxFiles,
		BodyLimit: cfg.Server.BodyLimit,
	})

	s := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.StartServer(s)
	}()

	log.Info("Server running", "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port), "store", b.storeID, "model", cfg.OpenAI.Model)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
