// aurora compiles Aurora scripts to native executables by way of C++
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

const versionString = "aurora 1.0.0"

// VerboseMode enables progress output on stderr
var VerboseMode bool

func main() {
	cfg := LoadConfig(isTerminal(int(os.Stderr.Fd())))

	// NOTE: Go's flag package stops parsing at the first non-flag argument
	// So flags must come BEFORE the filename: aurora -o prog prog.aur
	var outputFlag = flag.String("o", "", "output executable filename")
	var outputLongFlag = flag.String("output", "", "output executable filename")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	var verbose = flag.Bool("v", false, "verbose mode (show each compilation stage)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (show each compilation stage)")
	var compilerFlag = flag.String("c", cfg.Compiler, "C++ compiler to invoke")
	var compilerLongFlag = flag.String("compiler", cfg.Compiler, "C++ compiler to invoke")
	var argsFlag = flag.String("a", "", "arguments for the C++ compiler")
	var argsLongFlag = flag.String("args", "", "arguments for the C++ compiler")
	var emitFlag = flag.Bool("emit", false, "print the generated C++ instead of building")
	var watchFlag = flag.Bool("watch", false, "watch mode: rebuild on file changes")
	var colorFlag = flag.String("color", "auto", "colored diagnostics (auto, always, never)")
	flag.Usage = func() {
		c := &CommandContext{Config: cfg, Stdout: os.Stderr}
		c.cmdHelp()
	}
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	// Set global verbosity flag (use whichever was specified)
	VerboseMode = *verbose || *verboseLong || cfg.Verbose
	cfg.Verbose = VerboseMode

	// Only explicitly given flags override the environment, and the short form wins
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	switch {
	case set["o"]:
		cfg.OutputPath = *outputFlag
	case set["output"]:
		cfg.OutputPath = *outputLongFlag
	}
	switch {
	case set["c"]:
		cfg.Compiler = *compilerFlag
	case set["compiler"]:
		cfg.Compiler = *compilerLongFlag
	}
	switch {
	case set["a"]:
		cfg.SetCompilerArgs(*argsFlag)
	case set["args"]:
		cfg.SetCompilerArgs(*argsLongFlag)
	}
	cfg.Watch = *watchFlag

	switch *colorFlag {
	case "always":
		cfg.Color = true
	case "never":
		cfg.Color = false
	case "auto":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid -color value %q (expected auto, always or never)\n", *colorFlag)
		os.Exit(1)
	}

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "-> Using %s %v\n", cfg.Compiler, cfg.CompilerArgs)
	}

	args := flag.Args()
	if *emitFlag {
		if len(args) == 0 {
			args = []string{"-"}
		}
		args = append([]string{"emit"}, args...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RunCLI(ctx, args, cfg); err != nil {
		stop()
		var exitErr *ProgramExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
