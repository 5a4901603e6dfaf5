// config.go - Compiler settings from the environment, overridden by flags
package main

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/xyproto/env/v2"
)

const (
	defaultCompiler   = "c++"
	defaultCXXFlags   = "-std=c++17 -Ofast"
	defaultWatchDelay = 500 // milliseconds
)

// Config holds everything needed to turn a source file into a binary
type Config struct {
	Compiler     string   // native C++ compiler executable
	CompilerArgs []string // arguments passed before the output and input files
	IncludeDir   string   // directory that holds AuroraRuntime.h, passed as -I
	OutputPath   string
	Verbose      bool
	Color        bool
	Watch        bool
	WatchDelay   time.Duration
}

// LoadConfig reads the AURORA_* environment variables.
// stderrIsTerminal decides the default for colored diagnostics.
func LoadConfig(stderrIsTerminal bool) *Config {
	compiler := env.Str("AURORA_CXX", env.Str("CXX", defaultCompiler))
	return &Config{
		Compiler:     compiler,
		CompilerArgs: strings.Fields(env.Str("AURORA_CXXFLAGS", defaultCXXFlags)),
		IncludeDir:   env.Str("AURORA_INCLUDE"),
		Verbose:      env.Bool("AURORA_VERBOSE"),
		Color:        stderrIsTerminal && !env.Has("NO_COLOR"),
		WatchDelay:   time.Duration(env.Int("AURORA_WATCH_DELAY_MS", defaultWatchDelay)) * time.Millisecond,
	}
}

// SetCompilerArgs replaces the compiler arguments with a whitespace separated list
func (c *Config) SetCompilerArgs(args string) {
	c.CompilerArgs = strings.Fields(args)
}

// outputFor picks the binary name for a source file when no -o was given
func (c *Config) outputFor(sourcePath string) string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	if sourcePath == "-" {
		return "a.out"
	}
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	if base == filepath.Base(sourcePath) {
		// never overwrite an extensionless source file
		base += ".out"
	}
	if runtime.GOOS == "windows" {
		base += ".exe"
	}
	return base
}
