// internal/morse/table.go
// Package morse implements the Morse timing codec: the character table,
// text/morse string conversion, unit estimation from timing segments,
// symbol classification and token decoding.
package morse

// Table maps characters to their international Morse patterns.
// Covers Latin letters, digits and common punctuation. The table is
// collision-free: no two characters share a pattern, so decoding is the
// exact inverse of encoding for every entry.
var Table = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.",
	'!': "-.-.--", '/': "-..-.", '(': "-.--.", ')': "-.--.-",
	'&': ".-...", ':': "---...", ';': "-.-.-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '_': "..--.-", '"': ".-..-.",
	'$': "...-..-", '@': ".--.-.",
}

// reverseTable maps patterns back to characters, built once at init.
var reverseTable = func() map[string]rune {
	rev := make(map[string]rune, len(Table))
	for char, pattern := range Table {
		rev[pattern] = char
	}
	return rev
}()

// Lookup returns the character for a dot/dash pattern, or false if the
// pattern is not in the table.
func Lookup(pattern string) (rune, bool) {
	char, ok := reverseTable[pattern]
	return char, ok
}

// Pattern returns the dot/dash pattern for a character, or false if the
// character is not in the table. Lookup is case-sensitive; callers encode
// uppercased text.
func Pattern(char rune) (string, bool) {
	pattern, ok := Table[char]
	return pattern, ok
}
