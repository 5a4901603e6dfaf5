// native.go - Hands the generated C++ unit to the system C++ compiler
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// NativeError is a failed run of the native compiler
type NativeError struct {
	Compiler string
	ExitCode int
	Stderr   string
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Compiler, e.ExitCode)
}

// NativeCompiler invokes an external C++ compiler as a blocking subprocess
type NativeCompiler struct {
	Path       string
	Args       []string
	IncludeDir string
}

func NewNativeCompiler(cfg *Config) *NativeCompiler {
	return &NativeCompiler{
		Path:       cfg.Compiler,
		Args:       cfg.CompilerArgs,
		IncludeDir: cfg.IncludeDir,
	}
}

// available reports if the compiler executable can be found
func (n *NativeCompiler) available() bool {
	_, err := exec.LookPath(n.Path)
	return err == nil
}

// arguments builds the command line: flags, include dir, output, then the source file
func (n *NativeCompiler) arguments(sourcePath, outputPath string) []string {
	args := append([]string{}, n.Args...)
	if n.IncludeDir != "" {
		args = append(args, "-I", n.IncludeDir)
	}
	if outputPath != "" {
		args = append(args, "-o", outputPath)
	}
	return append(args, sourcePath)
}

// Compile writes unit to a temporary .cpp file and compiles it to outputPath
func (n *NativeCompiler) Compile(ctx context.Context, unit, outputPath string) error {
	tmpFile, err := os.CreateTemp("", "aurora_*.cpp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(unit); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	args := n.arguments(tmpPath, outputPath)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "-> %s %s\n", n.Path, strings.Join(args, " "))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, n.Path, args...)
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &NativeError{Compiler: n.Path, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("failed to run %s: %w", n.Path, err)
	}
	return nil
}
