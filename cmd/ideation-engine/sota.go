// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ideation-engine/internal/report"
	"github.com/pdiddy/ideation-engine/internal/sota"
)

var sotaCmd = &cobra.Command{
	Use:   "sota <topic>",
	Short: "Rank the state-of-the-art papers for a research topic",
	Long: `Sota searches bibliographic sources for candidate papers, scores them for
relevance to the topic, looks up citation metrics and ranks them by
0.50 relevance + 0.25 citations + 0.25 recency. Each returned paper carries
a one-sentence explanation of its relevance.

Without a generation API key, relevance falls back to keyword overlap and
explanations to a fixed sentence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSOTA,
}

func init() {
	f := sotaCmd.Flags()
	f.IntP("top-k", "k", 0, "number of papers to return (default 2, at most 10)")
	f.Int("max-results", 0, "number of candidates to fetch (default 20, at most 50)")
	f.String("from", "", "earliest publication date (YYYY-MM-DD)")
	f.String("to", "", "latest publication date (YYYY-MM-DD)")
	f.Bool("no-metrics", false, "skip citation metrics lookup")
	f.Bool("quick", false, "use the quick limits (top-k at most 5, 15 candidates)")
	f.StringSlice("sources", nil, "bibliographic sources: arxiv, semantic_scholar, openalex")
	f.StringP("format", "f", "json", "output format: json, yaml, table, markdown, html, xlsx, csl")
	f.StringP("output", "o", "", "output file (default stdout)")
	mustBind("search.sources", f.Lookup("sources"))

	rootCmd.AddCommand(sotaCmd)
}

func runSOTA(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f := cmd.Flags()

	formatFlag, _ := f.GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	req := sota.Request{Topic: strings.Join(args, " ")}
	req.TopK, _ = f.GetInt("top-k")
	req.MaxResults, _ = f.GetInt("max-results")
	req.StartDate, _ = f.GetString("from")
	req.EndDate, _ = f.GetString("to")
	if noMetrics, _ := f.GetBool("no-metrics"); noMetrics {
		include := false
		req.IncludeMetrics = &include
	}
	req = req.WithDefaults(cfg.SOTA)
	if quick, _ := f.GetBool("quick"); quick {
		req = req.Quick()
	}
	if err := req.Normalize().Validate(); err != nil {
		return err
	}

	llm, err := newGenerator(ctx)
	if err != nil {
		return err
	}
	if llm == nil {
		log.Warn("no generation API key configured, using keyword relevance")
	}
	cache, err := openMetricsCache()
	if err != nil {
		return err
	}

	res, err := sota.New(cfg, llm, cache, log).Run(ctx, req)
	if err != nil {
		return err
	}

	outPath, _ := f.GetString("output")
	w, closeOut, err := openOutput(cmd, outPath)
	if err != nil {
		return err
	}
	if err := report.WriteSOTA(w, res, format); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
