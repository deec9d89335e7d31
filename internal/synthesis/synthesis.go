// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis turns two research papers into a proposed new method.
// Six stages run in order: the Structurer recovers paper sections, the
// Miner lists weaknesses per section, the Normalizer consolidates them,
// Fusion partitions both lists into shared and paper-specific weaknesses,
// the MethodSynthesizer proposes a method and the Comparator builds a
// fixed five-aspect comparison table.
//
// Every stage makes generation calls through a generate.Client. A
// generation failure aborts the run. Output that cannot be parsed falls
// back to a deterministic default so the result shape is always complete.
package synthesis

import (
	"bytes"
	"context"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/logging"
)

var tracer = otel.Tracer("github.com/pdiddy/ideation-engine/internal/synthesis")

// sampling holds the generation parameters of one stage.
type sampling struct {
	temperature float64
	maxTokens   int
}

var (
	structureSampling  = sampling{0.1, 3000}
	mineSampling       = sampling{0.4, 1000}
	normalizeSampling  = sampling{0.2, 800}
	fuseSampling       = sampling{0.2, 1500}
	synthesizeSampling = sampling{0.5, 2500}
	compareSampling    = sampling{0.3, 2500}
)

// caller is embedded by every stage.
type caller struct {
	llm generate.Client
	log logrus.FieldLogger
}

func newCaller(llm generate.Client, log logrus.FieldLogger) caller {
	return caller{llm: llm, log: logging.OrDiscard(log)}
}

// call renders tmpl with data and sends it with the given system prompt.
func (c caller) call(ctx context.Context, stage, paper string, s sampling, system string, tmpl *template.Template, data any) (string, error) {
	ctx, span := tracer.Start(ctx, "synthesis."+stage)
	defer span.End()
	if paper != "" {
		span.SetAttributes(attribute.String("paper", paper))
	}

	prompt, err := render(tmpl, data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := c.llm.Generate(ctx, generate.Request{
		Messages:        []generate.Message{generate.System(system), generate.User(prompt)},
		Temperature:     s.temperature,
		MaxOutputTokens: s.maxTokens,
	})
	fields := logrus.Fields{"stage": stage, "elapsed_ms": time.Since(start).Milliseconds()}
	if paper != "" {
		fields["paper"] = paper
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		c.log.WithFields(fields).WithError(err).Error("generation failed")
		return "", err
	}
	c.log.WithFields(fields).Debug("generation complete")
	return out, nil
}

// fallback logs a parse failure that is being replaced by a stage default.
func (c caller) fallback(stage, paper string, err error) {
	entry := c.log.WithField("stage", stage).WithError(err)
	if paper != "" {
		entry = entry.WithField("paper", paper)
	}
	entry.Warn("unparseable model output, using default")
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// nonEmpty returns a pointer to s, or nil when s is empty.
func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// orEmpty replaces a nil slice with an empty one so results encode as [].
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
