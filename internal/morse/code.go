// Package morse compiles text into timed Morse symbol sequences.
package morse

import (
	"sort"
	"unicode"
)

// codeTable maps characters to their International Morse Code elements
// (ITU-R M.1677-1). Letters, digits, and the punctuation marks used in
// CW training.
var codeTable = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '/': "-..-.",
	'=': "-...-", '+': ".-.-.",
}

// Code returns the dot/dash string for a character and whether the
// character is part of the code table. Lookup is case-insensitive.
func Code(r rune) (string, bool) {
	code, ok := codeTable[fold(r)]
	return code, ok
}

// IsMapped reports whether a character has a Morse code assignment.
// A space is not mapped; it separates words.
func IsMapped(r rune) bool {
	_, ok := codeTable[fold(r)]
	return ok
}

// MappedChars returns all characters of the code table in sorted order.
func MappedChars() []rune {
	chars := make([]rune, 0, len(codeTable))
	for r := range codeTable {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return chars
}

func fold(r rune) rune {
	return unicode.ToUpper(r)
}
