package parser

import (
	"fmt"
	"strings"

	"github.com/xyproto/aurora/internal/lexer"
)

// ErrorKind is the closed set of parse failures
type ErrorKind int

const (
	// InvalidToken is a well-formed token whose value cannot be used, such as an
	// out-of-range numeral or an identifier reserved by the generated unit
	InvalidToken ErrorKind = iota
	// UnexpectedEOF means the input ended while a symbol was still required
	UnexpectedEOF
	// UnrecognizedToken is a token that the grammar does not accept at this point
	UnrecognizedToken
	// ExtraToken trails a complete top-level statement
	ExtraToken
	// Lexical wraps a *lexer.Error
	Lexical
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidToken:
		return "invalid token"
	case UnexpectedEOF:
		return "unexpected end of input"
	case UnrecognizedToken:
		return "unrecognized token"
	case ExtraToken:
		return "extra token"
	case Lexical:
		return "lexical error"
	default:
		return "unknown parse error"
	}
}

// Error is the first failure encountered while parsing
type Error struct {
	Kind     ErrorKind
	Token    lexer.Token  // offending token, unset for Lexical
	Expected []string     // grammar symbols that would have been accepted
	Lex      *lexer.Error // set for Lexical
}

// Offset is the byte offset the failure points at
func (e *Error) Offset() int {
	if e.Lex != nil {
		return e.Lex.Offset
	}
	return e.Token.Start
}

// Message is the human readable description used in diagnostics
func (e *Error) Message() string {
	switch e.Kind {
	case InvalidToken:
		return "Invalid token"
	case UnexpectedEOF:
		return "Unexpected end of file, expected " + expectedList(e.Expected)
	case UnrecognizedToken:
		return fmt.Sprintf("Unexpected token %s, expected %s", quoteToken(e.Token), expectedList(e.Expected))
	case ExtraToken:
		return fmt.Sprintf("Unexpected token %s", quoteToken(e.Token))
	case Lexical:
		switch e.Lex.Kind {
		case lexer.UnterminatedString:
			return "Unterminated string"
		default:
			return "Unrecognized token"
		}
	}
	return e.Kind.String()
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message(), e.Offset())
}

func (e *Error) Unwrap() error {
	if e.Lex == nil {
		return nil
	}
	return e.Lex
}

func expectedList(expected []string) string {
	if len(expected) == 1 {
		return expected[0]
	}
	return "one of: " + strings.Join(expected, ", ")
}

func quoteToken(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.Newline, lexer.EOF, lexer.String:
		return tok.String()
	}
	return "\"" + tok.String() + "\""
}

// symbol names a token kind the way expected sets print it
func symbol(k lexer.Kind) string {
	switch k {
	case lexer.Ident, lexer.Number, lexer.Boolean, lexer.String, lexer.Newline, lexer.EOF:
		return k.String()
	}
	return "\"" + k.String() + "\""
}

func symbols(kinds ...lexer.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = symbol(k)
	}
	return names
}
