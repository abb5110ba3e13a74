package morse

import "time"

// SymbolKind distinguishes the atomic timed units of a sequence.
type SymbolKind int

// Symbol kinds. Dots and dashes carry their source character; gaps do not.
const (
	Dot SymbolKind = iota
	Dash
	// GapIntra separates elements of one character (1 unit). The player
	// pays this gap as part of the preceding element, so the symbol itself
	// carries no wait.
	GapIntra
	// GapChar separates adjacent characters of one word (3 units standard).
	GapChar
	// GapWord separates words (7 units standard).
	GapWord
)

// Symbol is one atomic timed unit of a compiled sequence.
type Symbol struct {
	Kind SymbolKind
	// Char is the source character for Dot and Dash symbols. Gaps leave
	// it zero.
	Char rune
}

// Sequence is an ordered list of symbols compiled from one text.
type Sequence []Symbol

// Unit returns the duration of one dot at the given speed, following the
// PARIS convention: one word is 50 units, so a unit lasts 1200/wpm ms.
func Unit(wpm int) time.Duration {
	return 1200 * time.Millisecond / time.Duration(wpm)
}

// Compile translates text into its Morse symbol sequence. Lookup is
// case-insensitive; characters without a code assignment are skipped and
// leave no gap behind. Each literal space becomes one GapWord. The result
// is a pure function of the text.
func Compile(text string) Sequence {
	// Unmapped characters must not influence gap placement, so reduce the
	// input to mapped characters and spaces first.
	chars := make([]rune, 0, len(text))
	for _, r := range text {
		if r == ' ' || IsMapped(r) {
			chars = append(chars, fold(r))
		}
	}

	var seq Sequence
	for i, r := range chars {
		if r == ' ' {
			seq = append(seq, Symbol{Kind: GapWord})
			continue
		}
		code, _ := Code(r)
		for j, element := range code {
			if element == '.' {
				seq = append(seq, Symbol{Kind: Dot, Char: r})
			} else {
				seq = append(seq, Symbol{Kind: Dash, Char: r})
			}
			if j < len(code)-1 {
				seq = append(seq, Symbol{Kind: GapIntra})
			}
		}
		// The gap after the final element is absorbed into the following
		// character or word boundary.
		if i < len(chars)-1 && chars[i+1] != ' ' {
			seq = append(seq, Symbol{Kind: GapChar})
		}
	}
	return seq
}
