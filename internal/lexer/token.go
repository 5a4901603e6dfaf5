package lexer

import (
	"fmt"
	"strconv"
)

// Kind classifies a token
type Kind int

const (
	EOF Kind = iota
	Newline
	Ident
	Number
	Boolean
	String
	// Keywords
	If
	Else
	While
	For
	Fn
	Sub
	Return
	Break
	Continue
	End
	And
	Or
	Not
	// Operators
	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Mod         // %
	Less        // <
	LessEq      // <=
	Greater     // >
	GreaterEq   // >=
	Eq          // ==
	NotEq       // !=
	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=
	StarAssign  // *=
	SlashAssign // /=
	ModAssign   // %=
	Arrow       // ->
	// Punctuation
	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Comma    // ,
	Colon    // :
)

var kindNames = map[Kind]string{
	EOF:         "end of input",
	Newline:     "newline",
	Ident:       "identifier",
	Number:      "number",
	Boolean:     "boolean",
	String:      "string",
	If:          "if",
	Else:        "else",
	While:       "while",
	For:         "for",
	Fn:          "fn",
	Sub:         "sub",
	Return:      "return",
	Break:       "break",
	Continue:    "continue",
	End:         "end",
	And:         "and",
	Or:          "or",
	Not:         "not",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Mod:         "%",
	Less:        "<",
	LessEq:      "<=",
	Greater:     ">",
	GreaterEq:   ">=",
	Eq:          "==",
	NotEq:       "!=",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	StarAssign:  "*=",
	SlashAssign: "/=",
	ModAssign:   "%=",
	Arrow:       "->",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	Comma:       ",",
	Colon:       ":",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps reserved words to their token kind.
// true and false are literals, not identifiers.
var keywords = map[string]Kind{
	"if":       If,
	"else":     Else,
	"while":    While,
	"for":      For,
	"fn":       Fn,
	"sub":      Sub,
	"return":   Return,
	"break":    Break,
	"continue": Continue,
	"end":      End,
	"true":     Boolean,
	"false":    Boolean,
	"and":      And,
	"or":       Or,
	"not":      Not,
}

// Token is a classified lexical unit covering the half-open byte span [Start, End)
type Token struct {
	Kind  Kind
	Text  string  // identifier name or string contents
	Num   float64 // value of a Number token
	Bool  bool    // value of a Boolean token
	Start int
	End   int
}

func (t Token) String() string {
	switch t.Kind {
	case Ident:
		return t.Text
	case Number:
		return strconv.FormatFloat(t.Num, 'f', -1, 64)
	case Boolean:
		return strconv.FormatBool(t.Bool)
	case String:
		return strconv.Quote(t.Text)
	case Newline:
		return "newline"
	case EOF:
		return "end of input"
	}
	return t.Kind.String()
}
