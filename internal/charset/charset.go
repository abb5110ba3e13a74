// Package charset normalizes practice character sets.
package charset

import (
	"fmt"
	"unicode"

	"github.com/verte-zerg/tuicw/internal/morse"
)

// Normalize upper-cases a charset string, drops duplicates and characters
// without a Morse code assignment, and preserves first-seen order. An
// error is returned when nothing usable remains.
func Normalize(s string) ([]rune, error) {
	seen := map[rune]struct{}{}
	var out []rune
	for _, r := range s {
		r = unicode.ToUpper(r)
		if !morse.IsMapped(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("charset %q contains no Morse-mapped characters", s)
	}
	return out, nil
}
