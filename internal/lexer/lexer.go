package lexer

import (
	"fmt"
	"iter"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// ErrorKind classifies a lexical failure
type ErrorKind int

const (
	UnrecognizedToken ErrorKind = iota
	UnterminatedString
)

func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedToken:
		return "unrecognized token"
	case UnterminatedString:
		return "unterminated string"
	default:
		return "unknown lexical error"
	}
}

// Error is a lexical failure at a byte offset.
// For UnterminatedString the offset is the opening quote.
type Error struct {
	Kind   ErrorKind
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
}

// Lexer turns source text into tokens on demand
type Lexer struct {
	input string
	pos   int
}

func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Reset rewinds the lexer to the start of its input
func (l *Lexer) Reset() {
	l.pos = 0
}

// peek returns the rune at the current position without consuming it
func (l *Lexer) peek() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// match consumes the next byte if it equals ch
func (l *Lexer) match(ch byte) bool {
	if l.pos < len(l.input) && l.input[l.pos] == ch {
		l.pos++
		return true
	}
	return false
}

func (l *Lexer) token(kind Kind, start int) Token {
	return Token{Kind: kind, Start: start, End: l.pos}
}

// Next returns the next token. At the end of input it keeps returning an EOF token.
func (l *Lexer) Next() (Token, error) {
	for {
		if l.pos >= len(l.input) {
			return Token{Kind: EOF, Start: len(l.input), End: len(l.input)}, nil
		}
		start := l.pos
		ch, size := l.peek()
		l.pos += size

		switch ch {
		case ' ', '\t', '\r':
			continue
		case '\n':
			// A run of line breaks is one separator
			for l.pos < len(l.input) && (l.input[l.pos] == '\n' || l.input[l.pos] == '\r') {
				l.pos++
			}
			if start == 0 {
				continue
			}
			return Token{Kind: Newline, Start: start, End: start + 1}, nil
		case '+':
			if l.match('=') {
				return l.token(PlusAssign, start), nil
			}
			return l.token(Plus, start), nil
		case '-':
			if l.match('=') {
				return l.token(MinusAssign, start), nil
			}
			if l.match('>') {
				return l.token(Arrow, start), nil
			}
			return l.token(Minus, start), nil
		case '*':
			if l.match('=') {
				return l.token(StarAssign, start), nil
			}
			return l.token(Star, start), nil
		case '/':
			if l.match('=') {
				return l.token(SlashAssign, start), nil
			}
			return l.token(Slash, start), nil
		case '%':
			if l.match('=') {
				return l.token(ModAssign, start), nil
			}
			return l.token(Mod, start), nil
		case '<':
			if l.match('=') {
				return l.token(LessEq, start), nil
			}
			return l.token(Less, start), nil
		case '>':
			if l.match('=') {
				return l.token(GreaterEq, start), nil
			}
			return l.token(Greater, start), nil
		case '=':
			if l.match('=') {
				return l.token(Eq, start), nil
			}
			return l.token(Assign, start), nil
		case '!':
			if l.match('=') {
				return l.token(NotEq, start), nil
			}
			return Token{}, &Error{Kind: UnrecognizedToken, Offset: start}
		case '(':
			return l.token(LParen, start), nil
		case ')':
			return l.token(RParen, start), nil
		case '{':
			return l.token(LBrace, start), nil
		case '}':
			return l.token(RBrace, start), nil
		case '[':
			return l.token(LBracket, start), nil
		case ']':
			return l.token(RBracket, start), nil
		case ',':
			return l.token(Comma, start), nil
		case ':':
			return l.token(Colon, start), nil
		case '"':
			return l.scanString(start)
		}

		if unicode.IsLetter(ch) || ch == '_' {
			return l.scanIdent(start), nil
		}
		if ch >= '0' && ch <= '9' {
			return l.scanNumber(start), nil
		}
		return Token{}, &Error{Kind: UnrecognizedToken, Offset: start}
	}
}

// scanString reads a string literal verbatim, without escape processing
func (l *Lexer) scanString(start int) (Token, error) {
	for l.pos < len(l.input) {
		if l.input[l.pos] == '"' {
			text := l.input[start+1 : l.pos]
			l.pos++
			return Token{Kind: String, Text: text, Start: start, End: l.pos}, nil
		}
		l.pos++
	}
	return Token{}, &Error{Kind: UnterminatedString, Offset: start}
}

func (l *Lexer) scanIdent(start int) Token {
	for l.pos < len(l.input) {
		ch, size := l.peek()
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && !unicode.IsNumber(ch) && ch != '_' {
			break
		}
		l.pos += size
	}
	text := l.input[start:l.pos]
	if kind, ok := keywords[text]; ok {
		tok := l.token(kind, start)
		if kind == Boolean {
			tok.Bool = text == "true"
		}
		return tok
	}
	return Token{Kind: Ident, Text: text, Start: start, End: l.pos}
}

// scanNumber reads a run of decimal digits. Signs, fractions and exponents are not part of the literal.
func (l *Lexer) scanNumber(start int) Token {
	for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
		l.pos++
	}
	text := l.input[start:l.pos]
	// Overlong numerals parse as +Inf with a range error; the parser rejects them
	val, _ := strconv.ParseFloat(text, 64)
	return Token{Kind: Number, Text: text, Num: val, Start: start, End: l.pos}
}

// All yields every token up to, but not including, EOF.
// Iteration stops after the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if tok.Kind == EOF {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize lexes the whole input, returning the tokens without the trailing EOF
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	for tok, err := range New(input).All() {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
