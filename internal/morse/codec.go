// internal/morse/codec.go
package morse

import (
	"strings"
)

const (
	// CharSeparator separates characters in a morse string.
	CharSeparator = " "
	// WordSeparator separates words in a morse string.
	WordSeparator = "   "

	// DefaultSentinel is emitted for tokens whose pattern has no table
	// entry when no other sentinel is configured.
	DefaultSentinel = '?'
)

// Symbol is one classified Morse timing element.
type Symbol int

const (
	// Dot is a tone of nominally one time unit.
	Dot Symbol = iota
	// Dash is a tone of nominally three time units.
	Dash
	// IntraCharGap is the one-unit silence between elements of a character.
	IntraCharGap
	// InterCharGap is the three-unit silence between characters.
	InterCharGap
	// InterWordGap is the seven-unit silence between words.
	InterWordGap
)

func (s Symbol) String() string {
	switch s {
	case Dot:
		return "dot"
	case Dash:
		return "dash"
	case IntraCharGap:
		return "intra-char-gap"
	case InterCharGap:
		return "inter-char-gap"
	case InterWordGap:
		return "inter-word-gap"
	}
	return "unknown"
}

// Token is one character's worth of dots and dashes. EndsWord marks that
// the token was followed by an inter-word gap.
type Token struct {
	Pattern  string
	EndsWord bool
}

// TextToMorse converts text to a morse string. Input is uppercased,
// characters are separated by a single space and words by three spaces.
// Characters without a table entry are skipped; this is deliberate
// permissive encoding, not an error.
func TextToMorse(text string) string {
	var words []string
	for _, word := range strings.Fields(strings.ToUpper(text)) {
		var patterns []string
		for _, char := range word {
			if pattern, ok := Pattern(char); ok {
				patterns = append(patterns, pattern)
			}
		}
		if len(patterns) > 0 {
			words = append(words, strings.Join(patterns, CharSeparator))
		}
	}
	return strings.Join(words, WordSeparator)
}

// MorseToText converts a morse string back to text, splitting words on
// triple spaces and characters on single spaces. Patterns without a table
// entry are dropped silently; the decode is lossy by design so one bad
// pattern never aborts the message.
func MorseToText(morse string) string {
	var out strings.Builder
	for i, word := range strings.Split(morse, WordSeparator) {
		var chars []rune
		for _, pattern := range strings.Split(word, CharSeparator) {
			if char, ok := Lookup(pattern); ok {
				chars = append(chars, char)
			}
		}
		if len(chars) == 0 {
			continue
		}
		if i > 0 && out.Len() > 0 {
			out.WriteRune(' ')
		}
		out.WriteString(string(chars))
	}
	return out.String()
}

// SymbolsToTokens groups a classified symbol sequence into per-character
// tokens. IntraCharGap continues the current token, InterCharGap ends it
// and InterWordGap ends it and marks a word boundary. Leading and trailing
// gaps produce no empty tokens.
func SymbolsToTokens(symbols []Symbol) []Token {
	var tokens []Token
	var pattern strings.Builder

	flush := func(endsWord bool) {
		if pattern.Len() == 0 {
			// Word boundary after an already-flushed token.
			if endsWord && len(tokens) > 0 {
				tokens[len(tokens)-1].EndsWord = true
			}
			return
		}
		tokens = append(tokens, Token{Pattern: pattern.String(), EndsWord: endsWord})
		pattern.Reset()
	}

	for _, sym := range symbols {
		switch sym {
		case Dot:
			pattern.WriteByte('.')
		case Dash:
			pattern.WriteByte('-')
		case IntraCharGap:
			// Element separator, token continues.
		case InterCharGap:
			flush(false)
		case InterWordGap:
			flush(true)
		}
	}
	flush(false)

	return tokens
}

// TokensToText decodes tokens through the table. A pattern with no table
// entry yields the sentinel character instead of failing the decode, so a
// single mangled character never corrupts the rest of the message. A zero
// sentinel falls back to DefaultSentinel.
func TokensToText(tokens []Token, sentinel rune) string {
	if sentinel == 0 {
		sentinel = DefaultSentinel
	}

	var out strings.Builder
	for i, token := range tokens {
		if char, ok := Lookup(token.Pattern); ok {
			out.WriteRune(char)
		} else {
			out.WriteRune(sentinel)
		}
		if token.EndsWord && i < len(tokens)-1 {
			out.WriteRune(' ')
		}
	}
	return out.String()
}
