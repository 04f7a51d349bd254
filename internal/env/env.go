// Package env builds and removes the project's Python virtual
// environment by shelling out to the configured interpreter.
package env

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Builder drives virtual environment creation and teardown.
type Builder struct {
	// Python is the interpreter used to create the environment, for
	// example /usr/bin/python3.9 or just python3.
	Python string

	// Prefix is the directory the environment is created in.
	Prefix string

	// Requirements are the pip requirements files installed into the
	// environment, in order.
	Requirements []string

	// Recreate tears down an existing environment before building.
	Recreate bool

	Logger *slog.Logger

	// Stdout and Stderr receive the interpreter's and pip's output.
	// Nil writers discard it.
	Stdout io.Writer
	Stderr io.Writer
}

// Exists reports whether the environment prefix is present on disk.
func (b *Builder) Exists() bool {
	info, err := os.Stat(b.Prefix)
	return err == nil && info.IsDir()
}

// Build creates the virtual environment and installs the requirements
// files. Building over an existing environment is an error unless
// Recreate is set.
func (b *Builder) Build(ctx context.Context) error {
	if b.Python == "" {
		return fmt.Errorf("no python interpreter configured")
	}
	if b.Prefix == "" {
		return fmt.Errorf("no environment prefix configured")
	}

	if b.Exists() {
		if !b.Recreate {
			return fmt.Errorf("environment already exists at %s, remove it first", b.Prefix)
		}
		if err := b.Remove(ctx); err != nil {
			return err
		}
	}

	b.logger().Info("creating virtual environment", "python", b.Python, "prefix", b.Prefix)
	if err := b.run(ctx, b.Python, "-m", "venv", b.Prefix); err != nil {
		return fmt.Errorf("failed to create virtual environment: %w", err)
	}

	pip := filepath.Join(b.Prefix, binDir(), "pip")
	for _, file := range b.Requirements {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("requirements file not found: %s", file)
		}
		b.logger().Info("installing requirements", "file", file)
		if err := b.run(ctx, pip, "install", "-r", file); err != nil {
			return fmt.Errorf("failed to install %s: %w", file, err)
		}
	}

	return nil
}

// Remove deletes the environment prefix. Removing an environment that
// does not exist is not an error.
func (b *Builder) Remove(ctx context.Context) error {
	if b.Prefix == "" {
		return fmt.Errorf("no environment prefix configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !b.Exists() {
		b.logger().Debug("environment not present, nothing to remove", "prefix", b.Prefix)
		return nil
	}

	b.logger().Info("removing virtual environment", "prefix", b.Prefix)
	if err := os.RemoveAll(b.Prefix); err != nil {
		return fmt.Errorf("failed to remove %s: %w", b.Prefix, err)
	}
	return nil
}

func (b *Builder) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	return cmd.Run()
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// binDir is the scripts directory inside a venv prefix.
func binDir() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}
