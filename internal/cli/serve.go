package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/boardgen/boardgen/internal/api"
	"github.com/boardgen/boardgen/pkg/host/memory"
)

// serveCommand creates the serve command for the generation API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [document.json]",
		Short: "Serve the generation API over HTTP",
		Long: `Serve the generation API over HTTP.

The server opens the given document and exposes it on:

  GET  /healthz      liveness probe
  GET  /v1/document  current document as JSON
  GET  /v1/preview   current document as SVG
  POST /v1/generate  run a batch against the document

Batches are serialized; the document is held in memory and not written
back to disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	logger := loggerFromContext(ctx)

	doc, err := memory.LoadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           api.New(doc, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving generation API", "addr", addr, "document", input)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return err
	}
	return ctx.Err()
}
