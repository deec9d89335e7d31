// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ideation-engine/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Extract plain text from paper files",
	Long: `Convert writes the plain text of each file to <output-dir>/<name>.txt,
the same text the synthesize command reads. PDF, HTML and text files are
handled natively; the markitdown backend runs a container and accepts any
format markitdown understands. Existing output is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("output-dir", ".", "directory for extracted text")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	conv, err := convert.New(cmd.Context(), cfg.Converter)
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("output-dir")

	result := convert.ConvertPaths(cmd.Context(), conv, args, outDir, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
