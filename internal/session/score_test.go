package session

import "testing"

func TestScore(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		transcript string
		want       float64
	}{
		{name: "two of three", target: "ABC", transcript: "ABD", want: 6.7},
		{name: "perfect", target: "HELLO", transcript: "HELLO", want: 10.0},
		{name: "empty target", target: "", transcript: "ANYTHING", want: 0},
		{name: "empty transcript", target: "ABC", transcript: "", want: 0},
		{name: "case folded", target: "abc", transcript: "ABC", want: 10.0},
		{name: "whitespace stripped", target: "AB CD", transcript: "ABCD", want: 10.0},
		{name: "short transcript", target: "ABCD", transcript: "AB", want: 5.0},
		{name: "long transcript", target: "AB", transcript: "ABCD", want: 10.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.target, tc.transcript); got != tc.want {
				t.Fatalf("Score(%q, %q) = %v, want %v", tc.target, tc.transcript, got, tc.want)
			}
		})
	}
}

func TestCompareChars(t *testing.T) {
	results := compareChars("AAB", "AXB")
	a := results['A']
	if a == nil || a.correct != 1 || a.incorrect != 1 {
		t.Fatalf("unexpected stats for A: %+v", a)
	}
	b := results['B']
	if b == nil || b.correct != 1 || b.incorrect != 0 {
		t.Fatalf("unexpected stats for B: %+v", b)
	}
}

func TestCompareCharsMissedTail(t *testing.T) {
	// Played characters the user never copied count as incorrect.
	results := compareChars("ABAB", "AB")
	a := results['A']
	if a == nil || a.correct != 1 || a.incorrect != 1 {
		t.Fatalf("unexpected stats for A: %+v", a)
	}
}
