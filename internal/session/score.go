package session

import (
	"math"
	"unicode"
)

// Score grades a transcript against the played target on a 0-10 scale:
// round(matches/max(len,1) x 10) to one decimal. Both texts are
// whitespace-stripped and case-folded, then compared position by position
// up to the shorter length.
func Score(target, transcript string) float64 {
	t := foldStrip(target)
	u := foldStrip(transcript)
	matches := 0
	n := len(t)
	if len(u) < n {
		n = len(u)
	}
	for i := 0; i < n; i++ {
		if t[i] == u[i] {
			matches++
		}
	}
	den := len(t)
	if den == 0 {
		den = 1
	}
	return math.Round(float64(matches)/float64(den)*100) / 10
}

// compareChars derives per-character copy results from the same
// comparison Score uses. Target characters beyond the transcript count as
// incorrect: they were played and not copied.
func compareChars(target, transcript string) map[rune]*charResult {
	t := foldStrip(target)
	u := foldStrip(transcript)
	out := map[rune]*charResult{}
	for i, r := range t {
		entry, ok := out[r]
		if !ok {
			entry = &charResult{}
			out[r] = entry
		}
		if i < len(u) && u[i] == r {
			entry.correct++
		} else {
			entry.incorrect++
		}
	}
	return out
}

type charResult struct {
	correct   int
	incorrect int
}

func foldStrip(s string) []rune {
	var out []rune
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return out
}
