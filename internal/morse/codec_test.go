package morse

import (
	"strings"
	"testing"
)

func TestTextToMorse_SOS(t *testing.T) {
	if got := TextToMorse("SOS"); got != "... --- ..." {
		t.Errorf("TextToMorse(SOS) = %q, want %q", got, "... --- ...")
	}
}

func TestTextToMorse_CaseInsensitive(t *testing.T) {
	if got, want := TextToMorse("sos"), TextToMorse("SOS"); got != want {
		t.Errorf("TextToMorse(sos) = %q, want %q", got, want)
	}
}

func TestTextToMorse_HelloWorld(t *testing.T) {
	want := ".... . .-.. .-.. ---   .-- --- .-. .-.. -.."
	if got := TextToMorse("HELLO WORLD"); got != want {
		t.Errorf("TextToMorse(HELLO WORLD) = %q, want %q", got, want)
	}
}

func TestTextToMorse_SkipsUnknownCharacters(t *testing.T) {
	// '#' has no table entry and is skipped, not an error.
	if got, want := TextToMorse("S#O#S"), TextToMorse("SOS"); got != want {
		t.Errorf("TextToMorse(S#O#S) = %q, want %q", got, want)
	}
}

func TestTextToMorse_CollapsesWhitespace(t *testing.T) {
	if got, want := TextToMorse("HELLO   WORLD"), TextToMorse("HELLO WORLD"); got != want {
		t.Errorf("TextToMorse with run of spaces = %q, want %q", got, want)
	}
}

func TestMorseToText_SOS(t *testing.T) {
	if got := MorseToText("... --- ..."); got != "SOS" {
		t.Errorf("MorseToText(... --- ...) = %q, want SOS", got)
	}
}

func TestMorseToText_HelloWorld(t *testing.T) {
	got := MorseToText(".... . .-.. .-.. ---   .-- --- .-. .-.. -..")
	if got != "HELLO WORLD" {
		t.Errorf("MorseToText = %q, want HELLO WORLD", got)
	}
}

func TestMorseToText_DropsUnknownPatterns(t *testing.T) {
	// "......." maps to nothing and is dropped silently.
	if got := MorseToText("... ....... ---"); got != "SO" {
		t.Errorf("MorseToText with bad pattern = %q, want SO", got)
	}
}

func TestRoundTrip_AllTableText(t *testing.T) {
	tests := []string{
		"THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG",
		"0123456789",
		"CQ CQ DE RUNE",
		"WHAT? YES! OK.",
	}
	for _, text := range tests {
		if got := MorseToText(TextToMorse(text)); got != strings.ToUpper(text) {
			t.Errorf("round trip of %q = %q", text, got)
		}
	}
}

func TestTable_ExactlyReversible(t *testing.T) {
	seen := make(map[string]rune, len(Table))
	for char, pattern := range Table {
		if prev, ok := seen[pattern]; ok {
			t.Errorf("pattern %q shared by %q and %q", pattern, prev, char)
		}
		seen[pattern] = char

		back, ok := Lookup(pattern)
		if !ok {
			t.Errorf("Lookup(%q) missing for %q", pattern, char)
			continue
		}
		if back != char {
			t.Errorf("Lookup(%q) = %q, want %q", pattern, back, char)
		}
	}
}

func TestSymbolsToTokens_SOS(t *testing.T) {
	symbols := []Symbol{
		Dot, IntraCharGap, Dot, IntraCharGap, Dot,
		InterCharGap,
		Dash, IntraCharGap, Dash, IntraCharGap, Dash,
		InterCharGap,
		Dot, IntraCharGap, Dot, IntraCharGap, Dot,
	}
	tokens := SymbolsToTokens(symbols)
	want := []Token{{Pattern: "..."}, {Pattern: "---"}, {Pattern: "..."}}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d] = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestSymbolsToTokens_WordBoundary(t *testing.T) {
	symbols := []Symbol{Dot, InterWordGap, Dash}
	tokens := SymbolsToTokens(symbols)
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if !tokens[0].EndsWord {
		t.Error("first token should end a word")
	}
	if tokens[1].EndsWord {
		t.Error("last token should not end a word")
	}
}

func TestSymbolsToTokens_WordGapAfterCharGap(t *testing.T) {
	// A word gap observed right after a character gap marks the
	// previous token instead of creating an empty one.
	symbols := []Symbol{Dot, InterCharGap, InterWordGap, Dash}
	tokens := SymbolsToTokens(symbols)
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if !tokens[0].EndsWord {
		t.Error("first token should end a word")
	}
}

func TestSymbolsToTokens_Empty(t *testing.T) {
	if tokens := SymbolsToTokens(nil); len(tokens) != 0 {
		t.Errorf("got %d tokens from empty input, want 0", len(tokens))
	}
	if tokens := SymbolsToTokens([]Symbol{InterCharGap, InterWordGap}); len(tokens) != 0 {
		t.Errorf("got %d tokens from gap-only input, want 0", len(tokens))
	}
}

func TestTokensToText_Words(t *testing.T) {
	tokens := []Token{
		{Pattern: "...", EndsWord: true},
		{Pattern: "---"},
	}
	if got := TokensToText(tokens, '?'); got != "S O" {
		t.Errorf("TokensToText = %q, want %q", got, "S O")
	}
}

func TestTokensToText_UnrecognizedYieldsSentinel(t *testing.T) {
	tokens := []Token{
		{Pattern: "..."},
		{Pattern: "......."},
		{Pattern: "---"},
	}
	if got := TokensToText(tokens, '#'); got != "S#O" {
		t.Errorf("TokensToText = %q, want S#O", got)
	}
	// Zero sentinel falls back to the default.
	if got := TokensToText(tokens, 0); got != "S?O" {
		t.Errorf("TokensToText with zero sentinel = %q, want S?O", got)
	}
}

func TestTokensToText_TrailingWordGapAddsNoSpace(t *testing.T) {
	tokens := []Token{{Pattern: "...", EndsWord: true}}
	if got := TokensToText(tokens, '?'); got != "S" {
		t.Errorf("TokensToText = %q, want S", got)
	}
}
