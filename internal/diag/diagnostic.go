// Package diag turns byte offsets from the lexer and parser into line/column
// positions and caret-annotated excerpts of the source.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xyproto/aurora/internal/lexer"
	"github.com/xyproto/aurora/internal/parser"
)

const (
	colorBrightRed = "\033[91m"
	colorRed       = "\033[31m"
	colorReset     = "\033[0m"
)

// lineBreakMarker makes a line break at the end of an excerpt visible
const lineBreakMarker = "⤶"

// Kind classifies a diagnostic. Only Syntax is produced by the current pipeline.
type Kind int

const (
	Syntax Kind = iota
	Semantic
	Internal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "Syntax Error"
	case Semantic:
		return "Error"
	default:
		return "Internal error"
	}
}

func (k Kind) color() string {
	if k == Internal {
		return colorRed
	}
	return colorBrightRed
}

// Position is a 1-based line and column
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d", p.Line, p.Col)
}

// Locate maps a byte offset to a position. Columns count characters since the last
// line break, and carriage returns do not advance the column.
func Locate(src string, offset int) Position {
	pos := Position{Line: 1, Col: 1}
	for i, r := range src {
		if i >= offset {
			break
		}
		switch r {
		case '\r':
		case '\n':
			pos.Line++
			pos.Col = 1
		default:
			pos.Col++
		}
	}
	return pos
}

// SourceLine returns the given 1-based line without carriage returns, with a
// trailing marker if the line was ended by a line break
func SourceLine(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	text := strings.ReplaceAll(lines[line-1], "\r", "")
	if line < len(lines) {
		text += lineBreakMarker
	}
	return text
}

// caret aligns a caret under col, copying tabs so the caret lines up in a terminal
func caret(line string, col int) string {
	var sb strings.Builder
	n := 0
	for _, r := range line {
		if n >= col-1 {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
		n++
	}
	for ; n < col-1; n++ {
		sb.WriteRune(' ')
	}
	sb.WriteRune('^')
	return sb.String()
}

// Diagnostic is a single user-facing failure together with the source line it points into
type Diagnostic struct {
	Kind    Kind
	Pos     Position
	Message string
	Source  string // the line at Pos, as returned by SourceLine
}

// New builds a diagnostic for a byte offset into src
func New(kind Kind, src string, offset int, message string) *Diagnostic {
	pos := Locate(src, offset)
	return &Diagnostic{
		Kind:    kind,
		Pos:     pos,
		Message: message,
		Source:  SourceLine(src, pos.Line),
	}
}

// FromError converts a lexer or parser failure into a syntax diagnostic
func FromError(src string, err error) (*Diagnostic, bool) {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return New(Syntax, src, perr.Offset(), perr.Message()), true
	}
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		return New(Syntax, src, lerr.Offset, lexMessage(lerr)), true
	}
	return nil, false
}

func lexMessage(err *lexer.Error) string {
	if err.Kind == lexer.UnterminatedString {
		return "Unterminated string"
	}
	return "Unrecognized token"
}

func (d *Diagnostic) Error() string {
	return d.Header(false)
}

// Header is the first line: kind, position and message
func (d *Diagnostic) Header(useColor bool) string {
	label := d.Kind.String() + ": "
	if useColor {
		label = d.Kind.color() + label + colorReset
	}
	return fmt.Sprintf("%s%s: %s", label, d.Pos, d.Message)
}

// Render returns the header, the source line and a caret line, each ending with a newline
func (d *Diagnostic) Render(useColor bool) string {
	var sb strings.Builder
	sb.WriteString(d.Header(useColor))
	sb.WriteString("\n")
	sb.WriteString(d.Source)
	sb.WriteString("\n")
	sb.WriteString(caret(d.Source, d.Pos.Col))
	sb.WriteString("\n")
	return sb.String()
}
