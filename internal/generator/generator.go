// Package generator builds randomized practice texts.
package generator

import (
	"math/rand"
	"strings"
	"time"
)

// Generator produces randomized practice text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Text draws count characters uniformly from the charset and inserts a
// single space after every groupSize-th character, except when that
// boundary is the final character.
func (g *Generator) Text(charset []rune, count, groupSize int) string {
	var b strings.Builder
	for i := 1; i <= count; i++ {
		b.WriteRune(charset[g.rnd.Intn(len(charset))])
		if groupSize > 0 && i%groupSize == 0 && i < count {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// WeightedText draws characters with a bias toward the weak set: weak
// characters carry weight 1+factor, the rest weight 1. Grouping follows
// the same rule as Text.
func (g *Generator) WeightedText(charset []rune, count, groupSize int, weakSet map[rune]struct{}, factor float64) string {
	weights := make([]float64, len(charset))
	total := 0.0
	for i, r := range charset {
		w := 1.0
		if _, ok := weakSet[r]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	var b strings.Builder
	for i := 1; i <= count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := 0
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		b.WriteRune(charset[idx])
		if groupSize > 0 && i%groupSize == 0 && i < count {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
