// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ideation-engine/internal/acquire"
	"github.com/pdiddy/ideation-engine/internal/convert"
	"github.com/pdiddy/ideation-engine/internal/report"
	"github.com/pdiddy/ideation-engine/internal/synthesis"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <paper-a> <paper-b>",
	Short: "Propose a new method from the weaknesses of two papers",
	Long: `Synthesize reads two papers, extracts their sections, mines and
normalizes their weaknesses, partitions them into shared and paper-specific
weaknesses, proposes a method that addresses them and compares all three
approaches on five fixed aspects.

Each paper may be a local file (PDF, HTML, text), an arXiv ID, a DOI or a
URL. Remote papers are downloaded to a temporary directory that is removed
when the run ends.`,
	Args: cobra.ExactArgs(2),
	RunE: runSynthesize,
}

func init() {
	synthesizeCmd.Flags().StringP("format", "f", "json", "output format: json, yaml, table, markdown, html, xlsx")
	synthesizeCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(synthesizeCmd)
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if format == report.FormatCSL {
		return errors.New("csl output is only available for sota results")
	}

	llm, err := newGenerator(ctx)
	if err != nil {
		return err
	}
	if llm == nil {
		return fmt.Errorf("no API key for provider %q: set ai.api_key or add .secrets/%s-api-key", cfg.AI.Provider, cfg.AI.Provider)
	}

	conv, err := convert.New(ctx, cfg.Converter)
	if err != nil {
		return err
	}

	paths, cleanup, err := acquire.NewDownloader(cfg.Search, nil, log).Stage(ctx, args...)
	defer cleanup()
	if err != nil {
		return err
	}

	pipeline := synthesis.NewPipeline(llm, log)
	res, err := pipeline.RunFiles(ctx, &convert.Extractor{Converter: conv, Log: log}, paths[0], paths[1])
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	w, closeOut, err := openOutput(cmd, outPath)
	if err != nil {
		return err
	}
	if err := report.WriteSynthesis(w, res, format); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
