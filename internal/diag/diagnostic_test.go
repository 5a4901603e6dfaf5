package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/xyproto/aurora/internal/lexer"
	"github.com/xyproto/aurora/internal/parser"
)

func TestLocate(t *testing.T) {
	src := "x = 1\ny = 2\nz = 3"
	tests := []struct {
		name     string
		src      string
		offset   int
		expected Position
	}{
		{"start of input", src, 0, Position{1, 1}},
		{"mid first line", src, 4, Position{1, 5}},
		{"start of line 2", src, 6, Position{2, 1}},
		{"start of line 3", src, 12, Position{3, 1}},
		{"mid line 3", src, 16, Position{3, 5}},
		{"end of input", src, len(src), Position{3, 6}},
		{"past end of input", src, 100, Position{3, 6}},
		{"carriage returns are not columns", "a\r\n\rb = )", 8, Position{2, 5}},
		{"multi-byte characters count once", "s = \"åäö\" )", 13, Position{1, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Locate(tt.src, tt.offset); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSourceLine(t *testing.T) {
	src := "first\r\nsecond\nthird"
	tests := []struct {
		line     int
		expected string
	}{
		{1, "first⤶"},
		{2, "second⤶"},
		{3, "third"},
		{4, ""},
		{0, ""},
	}

	for _, tt := range tests {
		if got := SourceLine(src, tt.line); got != tt.expected {
			t.Errorf("line %d: expected %q, got %q", tt.line, tt.expected, got)
		}
	}

	if got := SourceLine("x = 1\n", 2); got != "" {
		t.Errorf("expected an empty line after a trailing break, got %q", got)
	}
}

func TestCaret(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		col      int
		expected string
	}{
		{"first column", "x = )", 1, "^"},
		{"spaces", "x = )", 5, "    ^"},
		{"tabs are copied", "\tx = )", 6, "\t    ^"},
		{"past the end of the line", "ab", 4, "   ^"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := caret(tt.line, tt.col); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRenderParseError(t *testing.T) {
	src := "x = 1\nif x {\n    y = )\n} end"
	_, err := parser.Parse(src)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	d, ok := FromError(src, err)
	if !ok {
		t.Fatalf("expected a diagnostic for %v", err)
	}
	if d.Kind != Syntax {
		t.Errorf("expected a syntax diagnostic, got %v", d.Kind)
	}
	if d.Pos != (Position{3, 9}) {
		t.Errorf("expected line 3, col 9, got %v", d.Pos)
	}

	lines := strings.Split(strings.TrimSuffix(d.Render(false), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], `Syntax Error: line 3, col 9: Unexpected token ")", expected one of:`) {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "    y = )⤶" {
		t.Errorf("unexpected source line %q", lines[1])
	}
	if lines[2] != "        ^" {
		t.Errorf("unexpected caret line %q", lines[2])
	}
}

func TestRenderLexicalError(t *testing.T) {
	src := "a = 1\nb = \"open"
	_, err := parser.Parse(src)
	d, ok := FromError(src, err)
	if !ok {
		t.Fatalf("expected a diagnostic for %v", err)
	}
	expected := "Syntax Error: line 2, col 5: Unterminated string\nb = \"open\n    ^\n"
	if got := d.Render(false); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestFromLexerError(t *testing.T) {
	src := "x = `"
	_, err := lexer.Tokenize(src)
	d, ok := FromError(src, err)
	if !ok {
		t.Fatalf("expected a diagnostic for %v", err)
	}
	if d.Message != "Unrecognized token" || d.Pos != (Position{1, 5}) {
		t.Errorf("unexpected diagnostic %v", d)
	}
}

func TestFromUnknownError(t *testing.T) {
	if _, ok := FromError("", errors.New("boom")); ok {
		t.Error("expected no diagnostic for an unrelated error")
	}
}

func TestHeader(t *testing.T) {
	d := &Diagnostic{Kind: Internal, Pos: Position{1, 2}, Message: "oops"}
	if got := d.Header(false); got != "Internal error: line 1, col 2: oops" {
		t.Errorf("unexpected header %q", got)
	}
	if got := d.Header(true); got != "\033[31mInternal error: \033[0mline 1, col 2: oops" {
		t.Errorf("unexpected colored header %q", got)
	}
	d.Kind = Syntax
	if got := d.Header(true); !strings.HasPrefix(got, "\033[91mSyntax Error: \033[0m") {
		t.Errorf("expected bright red label, got %q", got)
	}
	d.Kind = Semantic
	if got := d.Error(); got != "Error: line 1, col 2: oops" {
		t.Errorf("unexpected error string %q", got)
	}
}
