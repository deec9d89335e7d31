// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Sota builds the CLI and ranks the state-of-the-art papers for topic as a table.
func Sota(topic string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "sota", "--format", "table", topic)
}

// Synthesize builds the CLI and writes a Markdown synthesis of two papers
// (paths, arXiv IDs, DOIs or URLs) to synthesis.md.
func Synthesize(paperA, paperB string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "synthesize", "--format", "markdown", "--output", "synthesis.md", paperA, paperB)
}

// Serve builds the CLI and starts the HTTP API on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve")
}
