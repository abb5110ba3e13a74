package charset

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "uppercases", input: "abc", want: "ABC"},
		{name: "drops duplicates", input: "AABBA", want: "AB"},
		{name: "drops unmapped", input: "A#B!C", want: "ABC"},
		{name: "keeps first-seen order", input: "ZAZ9A", want: "ZA9"},
		{name: "punctuation", input: ".,?/=+", want: ".,?/=+"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", tc.input, err)
			}
			if string(got) != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, string(got), tc.want)
			}
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for _, input := range []string{"", "#!@", "   "} {
		if _, err := Normalize(input); err == nil {
			t.Errorf("Normalize(%q) succeeded, want error", input)
		}
	}
}
