package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/xyproto/env/v2"
)

func TestNativeArguments(t *testing.T) {
	n := &NativeCompiler{Path: "c++", Args: []string{"-std=c++17", "-Ofast"}, IncludeDir: "/usr/local/include/aurora"}

	got := n.arguments("unit.cpp", "prog")
	want := []string{"-std=c++17", "-Ofast", "-I", "/usr/local/include/aurora", "-o", "prog", "unit.cpp"}
	if !slices.Equal(got, want) {
		t.Errorf("arguments = %v, want %v", got, want)
	}

	n.IncludeDir = ""
	got = n.arguments("unit.cpp", "")
	want = []string{"-std=c++17", "-Ofast", "unit.cpp"}
	if !slices.Equal(got, want) {
		t.Errorf("arguments = %v, want %v", got, want)
	}
	if len(n.Args) != 2 {
		t.Errorf("arguments modified the configured flags: %v", n.Args)
	}
}

func TestNewNativeCompiler(t *testing.T) {
	cfg := &Config{Compiler: "clang++", CompilerArgs: []string{"-O2"}, IncludeDir: "inc"}
	n := NewNativeCompiler(cfg)
	if n.Path != "clang++" || !slices.Equal(n.Args, []string{"-O2"}) || n.IncludeDir != "inc" {
		t.Errorf("unexpected compiler: %+v", n)
	}
}

// fakeCompiler writes a shell script that stands in for a C++ compiler
func fakeCompiler(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on Windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
	path := filepath.Join(t.TempDir(), "fake-c++")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileWritesUnit(t *testing.T) {
	// The last argument is the generated .cpp file, copy it to the output path
	compiler := fakeCompiler(t, `for last; do :; done
while [ $# -gt 1 ]; do
    if [ "$1" = "-o" ]; then out="$2"; fi
    shift
done
cp "$last" "$out"
`)
	out := filepath.Join(t.TempDir(), "copy.cpp")
	n := &NativeCompiler{Path: compiler}

	unit := "#include <AuroraRuntime.h>\nint main() {\n}\n"
	if err := n.Compile(context.Background(), unit, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != unit {
		t.Errorf("compiler saw %q, want %q", data, unit)
	}
}

func TestCompileFailureCapturesOutput(t *testing.T) {
	compiler := fakeCompiler(t, "echo 'unit.cpp:1: error: boom' >&2\nexit 3\n")
	n := &NativeCompiler{Path: compiler}

	err := n.Compile(context.Background(), "int main() {}\n", filepath.Join(t.TempDir(), "out"))
	var nerr *NativeError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NativeError, got %T: %v", err, err)
	}
	if nerr.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", nerr.ExitCode)
	}
	if !strings.Contains(nerr.Stderr, "error: boom") {
		t.Errorf("stderr not captured: %q", nerr.Stderr)
	}
	if !strings.Contains(nerr.Error(), "exited with status 3") {
		t.Errorf("Error() = %q", nerr.Error())
	}
}

func TestCompileMissingCompiler(t *testing.T) {
	n := &NativeCompiler{Path: filepath.Join(t.TempDir(), "missing")}
	if n.available() {
		t.Fatal("a missing compiler should not be available")
	}

	err := n.Compile(context.Background(), "int main() {}\n", filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("expected an error")
	}
	var nerr *NativeError
	if errors.As(err, &nerr) {
		t.Errorf("a missing executable is not a compiler failure: %v", err)
	}
}

// runtimeCompiler returns a native compiler that builds against the runtime header in testdata
func runtimeCompiler(t *testing.T) *NativeCompiler {
	t.Helper()
	cxx := env.Str("AURORA_CXX", env.Str("CXX", "c++"))
	if _, err := exec.LookPath(cxx); err != nil {
		t.Skipf("%s not found", cxx)
	}
	include, err := filepath.Abs(filepath.Join("testdata", "include"))
	if err != nil {
		t.Fatal(err)
	}
	return &NativeCompiler{Path: cxx, Args: []string{"-std=c++17", "-w"}, IncludeDir: include}
}

func TestGeneratedProgramsCompile(t *testing.T) {
	native := runtimeCompiler(t)

	tests := []struct {
		name     string
		source   string
		output   string
		exitCode int
	}{
		{"indexed assignment", "xs = [1, 2]\nxs[0] = 5\nprint xs\n", "{5.000000, 2.000000}", 0},
		{"colon indexed assignment", "xs = [1, 2]\nxs:1 = 5\nprint xs\n", "{1.000000, 5.000000}", 0},
		{"scope horizon", "if true { x = 1 } end\nx = 2\nprint x\n", "2.000000", 0},
		{"function", "fn sq(x) -> x * x end\nprint sq(3)\n", "9.000000", 0},
		{"recursion", "fn fact(n) {\n    if n < 2 { return 1 } end\n    return n * fact(n - 1)\n} end\nprint fact(5)\n", "120.000000", 0},
		{"list argument", "print [1, 2]\n", "{1.000000, 2.000000}", 0},
		{"index read", "xs = [3, 4]\nprint xs[1] + xs:0\n", "7.000000", 0},
		{"arity check", "fn add(a, b) -> a + b end\nprint add(1, 2, 3)\n", "incorrect number of args", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "prog")
			if err := NewPipeline().Build(context.Background(), native, tt.source, out); err != nil {
				var nerr *NativeError
				if errors.As(err, &nerr) {
					t.Fatalf("%v\n%s", err, nerr.Stderr)
				}
				t.Fatal(err)
			}

			stdout, err := exec.Command(out).Output()
			exitCode := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else if err != nil {
				t.Fatal(err)
			}
			if exitCode != tt.exitCode {
				t.Errorf("exit code = %d, want %d", exitCode, tt.exitCode)
			}
			if !strings.Contains(string(stdout), tt.output) {
				t.Errorf("output = %q, want it to contain %q", stdout, tt.output)
			}
		})
	}
}
