// pipeline.go - Explicit compilation stages with validation
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/xyproto/aurora/internal/ast"
	"github.com/xyproto/aurora/internal/codegen"
	"github.com/xyproto/aurora/internal/diag"
	"github.com/xyproto/aurora/internal/parser"
)

// Stage is a step in turning source text into a binary
type Stage int

const (
	StageInit Stage = iota
	StageParsing
	StageCodegen
	StageNative
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "Initialization"
	case StageParsing:
		return "Parsing"
	case StageCodegen:
		return "Code Generation"
	case StageNative:
		return "Native Compilation"
	case StageComplete:
		return "Compilation Complete"
	default:
		return fmt.Sprintf("Unknown Stage %d", s)
	}
}

// transitions lists the stages reachable from each stage.
// check stops after parsing and emit stops after code generation.
var transitions = map[Stage][]Stage{
	StageInit:     {StageParsing},
	StageParsing:  {StageCodegen, StageComplete},
	StageCodegen:  {StageNative, StageComplete},
	StageNative:   {StageComplete},
	StageComplete: {},
}

// Pipeline tracks the current stage and validates state transitions
type Pipeline struct {
	current Stage
	history []Stage
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		current: StageInit,
		history: []Stage{StageInit},
	}
}

func (p *Pipeline) AdvanceTo(stage Stage) {
	valid := false
	for _, next := range transitions[p.current] {
		if next == stage {
			valid = true
			break
		}
	}

	if !valid {
		fmt.Fprintf(os.Stderr, "ERROR: Invalid stage transition: %s -> %s\n", p.current, stage)
		fmt.Fprintf(os.Stderr, "Stage history:\n")
		for i, s := range p.stages() {
			fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, s)
		}
		panic(fmt.Sprintf("Invalid compilation stage transition: %s -> %s", p.current, stage))
	}

	p.current = stage
	p.history = append(p.history, stage)

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "-> %s\n", stage)
	}
}

func (p *Pipeline) Current() Stage {
	return p.current
}

// stages is a copy of every stage reached so far, in order
func (p *Pipeline) stages() []Stage {
	return append([]Stage(nil), p.history...)
}

// asDiagnostic turns a front-end failure into a diagnostic for source
func asDiagnostic(source string, err error) *diag.Diagnostic {
	if d, ok := diag.FromError(source, err); ok {
		return d
	}
	return diag.New(diag.Internal, source, 0, err.Error())
}

// Parse runs the front end. A failure is returned as a *diag.Diagnostic.
func (p *Pipeline) Parse(source string) (*ast.Program, error) {
	p.AdvanceTo(StageParsing)
	program, err := parser.Parse(source)
	if err != nil {
		return nil, asDiagnostic(source, err)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "-> Parsed %d top-level statements\n", len(program.Statements))
	}
	return program, nil
}

// Translate parses source and returns the C++ translation unit
func (p *Pipeline) Translate(source string) (string, error) {
	program, err := p.Parse(source)
	if err != nil {
		return "", err
	}
	p.AdvanceTo(StageCodegen)
	return codegen.Generate(program), nil
}

// Build translates source and hands the result to the native compiler
func (p *Pipeline) Build(ctx context.Context, native *NativeCompiler, source, outputPath string) error {
	unit, err := p.Translate(source)
	if err != nil {
		return err
	}
	if !native.available() {
		return fmt.Errorf("C++ compiler %q not found, set AURORA_CXX or use -c", native.Path)
	}
	p.AdvanceTo(StageNative)
	if err := native.Compile(ctx, unit, outputPath); err != nil {
		return err
	}
	p.AdvanceTo(StageComplete)
	return nil
}

// Check only parses source
func Check(source string) error {
	p := NewPipeline()
	if _, err := p.Parse(source); err != nil {
		return err
	}
	p.AdvanceTo(StageComplete)
	return nil
}

// Translate is the front end and code generator as one call
func Translate(source string) (string, error) {
	p := NewPipeline()
	unit, err := p.Translate(source)
	if err != nil {
		return "", err
	}
	p.AdvanceTo(StageComplete)
	return unit, nil
}
