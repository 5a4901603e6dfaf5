package lexer

import (
	"errors"
	"testing"
)

func kinds(t *testing.T, input string) []Kind {
	t.Helper()
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", input, err)
	}
	result := make([]Kind, len(tokens))
	for i, tok := range tokens {
		result[i] = tok.Kind
	}
	return result
}

func sameKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTwoCharacterOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"+=", PlusAssign},
		{"-=", MinusAssign},
		{"->", Arrow},
		{"*=", StarAssign},
		{"/=", SlashAssign},
		{"%=", ModAssign},
		{"<=", LessEq},
		{">=", GreaterEq},
		{"==", Eq},
		{"!=", NotEq},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tokens) != 1 {
				t.Fatalf("expected exactly one token, got %d: %v", len(tokens), tokens)
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("expected %v, got %v", tt.kind, tokens[0].Kind)
			}
			if tokens[0].Start != 0 || tokens[0].End != 2 {
				t.Errorf("expected span [0, 2), got [%d, %d)", tokens[0].Start, tokens[0].End)
			}
		})
	}
}

func TestSingleCharacterFallback(t *testing.T) {
	got := kinds(t, "+ - * / % < > = ( ) { } [ ] , :")
	want := []Kind{Plus, Minus, Star, Slash, Mod, Less, Greater, Assign,
		LParen, RParen, LBrace, RBrace, LBracket, RBracket, Comma, Colon}
	if !sameKinds(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestKeywordsWinOverIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"if", If},
		{"else", Else},
		{"while", While},
		{"for", For},
		{"fn", Fn},
		{"sub", Sub},
		{"return", Return},
		{"break", Break},
		{"continue", Continue},
		{"end", End},
		{"and", And},
		{"or", Or},
		{"not", Not},
		{"true", Boolean},
		{"false", Boolean},
		{"iffy", Ident},
		{"_end", Ident},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tokens) != 1 || tokens[0].Kind != tt.kind {
				t.Errorf("expected single %v token, got %v", tt.kind, tokens)
			}
		})
	}
}

func TestBooleanLiteralValues(t *testing.T) {
	tokens, err := Tokenize("true false")
	if err != nil {
		t.Fatal(err)
	}
	if !tokens[0].Bool || tokens[1].Bool {
		t.Errorf("expected true then false, got %v then %v", tokens[0].Bool, tokens[1].Bool)
	}
}

func TestNumbersAreDigitRuns(t *testing.T) {
	tokens, err := Tokenize("42 -7")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %v", tokens)
	}
	if tokens[0].Kind != Number || tokens[0].Num != 42 {
		t.Errorf("expected number 42, got %v", tokens[0])
	}
	if tokens[1].Kind != Minus {
		t.Errorf("expected unary minus to be a separate token, got %v", tokens[1])
	}
	if tokens[2].Num != 7 {
		t.Errorf("expected number 7, got %v", tokens[2])
	}
}

func TestStringLiteralIsVerbatim(t *testing.T) {
	tokens, err := Tokenize(`x = "a\nb"`)
	if err != nil {
		t.Fatal(err)
	}
	str := tokens[2]
	if str.Kind != String || str.Text != `a\nb` {
		t.Errorf("expected verbatim string a\\nb, got %q", str.Text)
	}
	if str.Start != 4 || str.End != 10 {
		t.Errorf("expected span [4, 10), got [%d, %d)", str.Start, str.End)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize(`x = "abc`)
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if lexErr.Kind != UnterminatedString {
		t.Errorf("expected UnterminatedString, got %v", lexErr.Kind)
	}
	if lexErr.Offset != 4 {
		t.Errorf("expected offset of opening quote (4), got %d", lexErr.Offset)
	}
}

func TestUnrecognizedCharacters(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"backtick", "`", 0},
		{"bare bang", "x = !y", 4},
		{"bang at end", "a !", 2},
		{"hash", "x # y", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if lexErr.Kind != UnrecognizedToken {
				t.Errorf("expected UnrecognizedToken, got %v", lexErr.Kind)
			}
			if lexErr.Offset != tt.offset {
				t.Errorf("expected offset %d, got %d", tt.offset, lexErr.Offset)
			}
		})
	}
}

func TestLineBreakRunsCollapse(t *testing.T) {
	got := kinds(t, "a\n\n\r\nb\n")
	want := []Kind{Ident, Newline, Ident, Newline}
	if !sameKinds(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLeadingLineBreakDiscarded(t *testing.T) {
	got := kinds(t, "\n\nx")
	want := []Kind{Ident}
	if !sameKinds(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Only a break at offset zero is dropped
	got = kinds(t, " \nx")
	want = []Kind{Newline, Ident}
	if !sameKinds(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestIdentifierSpans(t *testing.T) {
	tokens, err := Tokenize("  foo_bar1 = 3")
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Text != "foo_bar1" || tokens[0].Start != 2 || tokens[0].End != 10 {
		t.Errorf("unexpected identifier token %+v", tokens[0])
	}
}

func TestResetRestartsFromScratch(t *testing.T) {
	l := New("a b")
	first, _ := l.Next()
	l.Next()
	l.Reset()
	again, _ := l.Next()
	if first != again {
		t.Errorf("expected %v after reset, got %v", first, again)
	}
}

func TestLexingIsDeterministic(t *testing.T) {
	src := "fn add(a, b) {\n  return a + b\n} end\nx = add(1, 2) >= 3 != false"
	first, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("token counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestEOFRepeats(t *testing.T) {
	l := New("x")
	l.Next()
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil || tok.Kind != EOF {
			t.Fatalf("expected EOF, got %v %v", tok, err)
		}
		if tok.Start != 1 {
			t.Errorf("expected EOF at offset 1, got %d", tok.Start)
		}
	}
}
