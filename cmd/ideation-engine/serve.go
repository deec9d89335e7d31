// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ideation-engine/internal/convert"
	"github.com/pdiddy/ideation-engine/internal/httpapi"
	"github.com/pdiddy/ideation-engine/internal/sota"
	"github.com/pdiddy/ideation-engine/internal/synthesis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the synthesis and SOTA pipelines over HTTP",
	Long: `Serve starts an HTTP server with these endpoints:

  POST /analyze     multipart form with paper_a and paper_b files
  POST /sota        JSON {topic, top_k, max_results, start_date, end_date}
  GET  /sota/quick  ?topic=...&top_k=...
  GET  /health

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	mustBind("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	llm, err := newGenerator(ctx)
	if err != nil {
		return err
	}
	conv, err := convert.New(ctx, cfg.Converter)
	if err != nil {
		return err
	}
	cache, err := openMetricsCache()
	if err != nil {
		return err
	}

	opts := httpapi.Options{
		Extractor:      &convert.Extractor{Converter: conv, Log: log},
		SOTA:           sota.New(cfg, llm, cache, log),
		Defaults:       cfg.SOTA,
		Model:          modelName(),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Log:            log,
	}
	if llm != nil {
		opts.Synthesizer = synthesis.NewPipeline(llm, log)
	} else {
		log.Warn("no generation API key configured, /analyze is disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewServer(opts),
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
