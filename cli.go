// cli.go - Command-line interface for aurora
//
// Subcommands:
// - aurora build <file> (compile to executable)
// - aurora run <file> (compile and run immediately)
// - aurora emit <file> (print the generated C++)
// - aurora check <file> (parse only)
// - aurora <file> (shorthand for build)
//
// A file name of "-" reads the program from standard input.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xyproto/aurora/internal/diag"
	"github.com/xyproto/aurora/internal/suggest"
)

// commands are the subcommand names, used for suggestions
var commands = []string{"build", "run", "emit", "check", "help", "version"}

// errReported means the failure was already printed, typically as a diagnostic
var errReported = errors.New("error already reported")

// ProgramExitError carries the exit status of a program started by "aurora run"
type ProgramExitError struct {
	Code int
}

func (e *ProgramExitError) Error() string {
	return fmt.Sprintf("program exited with status %d", e.Code)
}

// CommandContext holds the execution context for a CLI command
type CommandContext struct {
	Args   []string
	Config *Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunCLI is the main entry point for the command-line interface.
// It determines which command to run based on arguments.
func RunCLI(ctx context.Context, args []string, cfg *Config) error {
	c := &CommandContext{
		Args:   args,
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	return c.Run(ctx)
}

func (c *CommandContext) Run(ctx context.Context) error {
	args := c.Args
	if len(args) == 0 {
		return c.cmdHelp()
	}

	subcmd := args[0]
	switch subcmd {
	case "build":
		if len(args) < 2 {
			return fmt.Errorf("usage: aurora build <file> [-o output]")
		}
		return c.cmdBuild(ctx, args[1:])

	case "run":
		if len(args) < 2 {
			return fmt.Errorf("usage: aurora run <file> [args...]")
		}
		return c.cmdRun(ctx, args[1:])

	case "emit":
		if len(args) < 2 {
			return fmt.Errorf("usage: aurora emit <file>")
		}
		return c.cmdEmit(args[1])

	case "check":
		if len(args) < 2 {
			return fmt.Errorf("usage: aurora check <file>")
		}
		return c.cmdCheck(args[1:])

	case "help", "--help", "-h":
		return c.cmdHelp()

	case "version", "--version":
		fmt.Fprintln(c.Stdout, versionString)
		return nil

	default:
		if subcmd == "-" {
			return c.cmdBuild(ctx, args)
		}
		if info, err := os.Stat(subcmd); err == nil && !info.IsDir() {
			return c.cmdBuild(ctx, args)
		}
		if matches := suggest.Similar(subcmd, commands, 1); len(matches) > 0 {
			return fmt.Errorf("unknown command: %s (did you mean '%s'?)", subcmd, matches[0])
		}
		return fmt.Errorf("unknown command: %s\n\nRun 'aurora help' for usage information", subcmd)
	}
}

// readSource reads a program from a file, or from stdin when path is "-"
func (c *CommandContext) readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// report prints diagnostics and native compiler output, and returns the error to hand to main
func (c *CommandContext) report(err error) error {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		fmt.Fprint(c.Stderr, d.Render(c.Config.Color))
		return errReported
	}
	var nerr *NativeError
	if errors.As(err, &nerr) {
		fmt.Fprint(c.Stderr, nerr.Stderr)
		return fmt.Errorf("native compilation failed: %w", err)
	}
	return err
}

// printError reports err without stopping, as watch mode does
func (c *CommandContext) printError(err error) {
	if err = c.report(err); err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(c.Stderr, "Error: %v\n", err)
	}
}

// buildFile compiles one source file to outputPath
func (c *CommandContext) buildFile(ctx context.Context, sourcePath, outputPath string) error {
	source, err := c.readSource(sourcePath)
	if err != nil {
		return err
	}
	return NewPipeline().Build(ctx, NewNativeCompiler(c.Config), source, outputPath)
}

// cmdBuild compiles a source file to an executable
func (c *CommandContext) cmdBuild(ctx context.Context, args []string) error {
	inputFile := ""
	outputPath := ""
	for i := 0; i < len(args); i++ {
		if (args[i] == "-o" || args[i] == "--output") && i+1 < len(args) {
			outputPath = args[i+1]
			i++
		} else if args[i] == "-" || !strings.HasPrefix(args[i], "-") {
			if inputFile != "" {
				return fmt.Errorf("only one input file can be compiled at a time")
			}
			inputFile = args[i]
		}
	}

	if inputFile == "" {
		return fmt.Errorf("no input file specified")
	}
	if inputFile != "-" {
		if _, err := os.Stat(inputFile); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", inputFile)
		}
	}

	outputProvided := outputPath != "" || c.Config.OutputPath != ""
	if outputPath == "" {
		outputPath = c.Config.outputFor(inputFile)
	}

	if VerboseMode {
		fmt.Fprintf(c.Stderr, "Building %s -> %s\n", inputFile, outputPath)
	}

	if err := c.buildFile(ctx, inputFile, outputPath); err != nil {
		if c.Config.Watch && inputFile != "-" {
			c.printError(err)
			return watchAndRebuild(ctx, c, inputFile, outputPath)
		}
		return c.report(err)
	}

	if VerboseMode {
		fmt.Fprintf(c.Stderr, "-> Wrote executable: %s\n", outputPath)
	} else if !outputProvided {
		fmt.Fprintln(c.Stdout, outputPath)
	}

	if c.Config.Watch {
		if inputFile == "-" {
			return fmt.Errorf("watch mode needs a source file, not standard input")
		}
		return watchAndRebuild(ctx, c, inputFile, outputPath)
	}
	return nil
}

// cmdRun compiles a source file into a temporary directory and executes it
func (c *CommandContext) cmdRun(ctx context.Context, args []string) error {
	inputFile := args[0]
	programArgs := args[1:]

	tmpDir, err := os.MkdirTemp("", "aurora_run_*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	baseName := "program"
	if inputFile != "-" {
		baseName = strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	}
	tmpExec := filepath.Join(tmpDir, baseName)

	if VerboseMode {
		fmt.Fprintf(c.Stderr, "Compiling %s -> %s\n", inputFile, tmpExec)
	}

	if err := c.buildFile(ctx, inputFile, tmpExec); err != nil {
		return c.report(err)
	}

	if VerboseMode {
		fmt.Fprintf(c.Stderr, "Running %s\n", tmpExec)
	}

	cmd := exec.CommandContext(ctx, tmpExec, programArgs...)
	cmd.Stdin = c.Stdin
	if inputFile == "-" {
		// the program text already consumed stdin
		cmd.Stdin = nil
	}
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProgramExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

// cmdEmit prints the generated C++ translation unit
func (c *CommandContext) cmdEmit(inputFile string) error {
	source, err := c.readSource(inputFile)
	if err != nil {
		return err
	}
	unit, err := Translate(source)
	if err != nil {
		return c.report(err)
	}
	fmt.Fprint(c.Stdout, unit)
	return nil
}

// cmdCheck parses each file and reports the first diagnostic of each
func (c *CommandContext) cmdCheck(files []string) error {
	failed := 0
	for _, file := range files {
		source, err := c.readSource(file)
		if err != nil {
			return err
		}
		if err := Check(source); err != nil {
			if reportErr := c.report(err); !errors.Is(reportErr, errReported) {
				return reportErr
			}
			failed++
			continue
		}
		if VerboseMode {
			fmt.Fprintf(c.Stderr, "%s: ok\n", file)
		}
	}
	if failed > 0 {
		return errReported
	}
	return nil
}

// cmdHelp displays usage information
func (c *CommandContext) cmdHelp() error {
	fmt.Fprintf(c.Stdout, `%s - compiles Aurora programs to native executables through C++

USAGE:
    aurora [flags] <command> [arguments]

COMMANDS:
    build <file>          Compile a source file to an executable
    run <file> [args]     Compile and run a program immediately
    emit <file>           Print the generated C++ translation unit
    check <file>...       Parse only, and report syntax errors
    help                  Show this help message
    version               Show version information

SHORTHAND:
    aurora <file>         Same as 'aurora build <file>'
    aurora -              Read the program from standard input

FLAGS:
    -o, -output <file>    Output executable filename
    -c, -compiler <cxx>   C++ compiler to invoke
    -a, -args <flags>     Arguments for the C++ compiler
    -emit                 Print the generated C++ instead of building
    -watch                Rebuild whenever the source file changes
    -color <mode>         Colored diagnostics: auto, always or never
    -v, -verbose          Show each compilation stage
    -V, -version          Print version information and exit

ENVIRONMENT:
    AURORA_CXX            C++ compiler (default: $CXX, then c++)
    AURORA_CXXFLAGS       C++ compiler arguments (default: %s)
    AURORA_INCLUDE        Directory that contains AuroraRuntime.h
    AURORA_VERBOSE        Same as -v when set to a true value
    AURORA_WATCH_DELAY_MS Debounce delay for -watch (default: %d)
    NO_COLOR              Disable colored diagnostics
`, versionString, defaultCXXFlags, defaultWatchDelay)
	return nil
}
