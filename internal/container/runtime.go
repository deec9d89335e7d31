// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs single-shot filter images (document on stdin,
// text on stdout) under Docker or Podman. The markitdown converter is the
// only user.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Supported engines, in detection order.
const (
	Docker = "docker"
	Podman = "podman"
)

// stderrLimit bounds the container stderr kept for error messages.
const stderrLimit = 2048

// Job is one container invocation.
type Job struct {
	Image  string
	Stdin  io.Reader
	Stdout io.Writer

	// Memory is a --memory limit such as "1g". Empty means unlimited.
	Memory string
}

// args returns the run arguments. Jobs never get network access and
// their root filesystem is read-only.
func (j Job) args() []string {
	args := []string{"run", "--rm", "-i", "--network", "none", "--read-only"}
	if j.Memory != "" {
		args = append(args, "--memory", j.Memory)
	}
	return append(args, j.Image)
}

// Runtime is a container engine.
type Runtime interface {
	// Name returns the engine binary, Docker or Podman.
	Name() string

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run executes job and waits for it. The container is killed when ctx
	// is done.
	Run(ctx context.Context, job Job) error
}

// commander runs engine commands. Tests replace it.
type commander interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osCommander) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// engine implements Runtime. Docker and Podman differ only in the image
// check subcommand.
type engine struct {
	bin        string
	imageCheck []string
	cmd        commander
}

func newEngine(bin string, cmd commander) *engine {
	e := &engine{bin: bin, cmd: cmd, imageCheck: []string{"image", "inspect"}}
	if bin == Podman {
		e.imageCheck = []string{"image", "exists"}
	}
	return e
}

func (e *engine) Name() string { return e.bin }

// usable reports whether the binary is on PATH and its daemon answers.
func (e *engine) usable(ctx context.Context) bool {
	if _, err := e.cmd.LookPath(e.bin); err != nil {
		return false
	}
	return e.cmd.Run(ctx, e.bin, []string{"info"}, nil, io.Discard, io.Discard) == nil
}

func (e *engine) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, e.imageCheck...), image)
	if err := e.cmd.Run(ctx, e.bin, args, nil, io.Discard, io.Discard); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, e.bin, err)
	}
	return nil
}

func (e *engine) Run(ctx context.Context, job Job) error {
	var stderr limitedBuffer
	if err := e.cmd.Run(ctx, e.bin, job.args(), job.Stdin, job.Stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s container %s: %w: %s", e.bin, job.Image, err, msg)
		}
		return fmt.Errorf("running %s container %s: %w", e.bin, job.Image, err)
	}
	return nil
}

// Detect returns a usable engine. With prefer set to Docker or Podman only
// that engine is tried; otherwise Docker is tried before Podman.
func Detect(ctx context.Context, prefer string) (Runtime, error) {
	return detect(ctx, prefer, osCommander{})
}

func detect(ctx context.Context, prefer string, cmd commander) (Runtime, error) {
	candidates := []string{Docker, Podman}
	switch prefer {
	case "":
	case Docker, Podman:
		candidates = []string{prefer}
	default:
		return nil, fmt.Errorf("unknown container runtime %q", prefer)
	}
	for _, bin := range candidates {
		if e := newEngine(bin, cmd); e.usable(ctx) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: tried %s", strings.Join(candidates, ", "))
}

// limitedBuffer keeps the first stderrLimit bytes written to it.
type limitedBuffer struct {
	bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := stderrLimit - b.Len(); room > 0 {
		b.Buffer.Write(p[:min(len(p), room)])
	}
	return len(p), nil
}
