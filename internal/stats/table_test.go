package stats

import "testing"

func TestFormatTable(t *testing.T) {
	headers := []string{"Char", "Accuracy"}
	rows := [][]string{
		{"K", "100.0%"},
		{"M", "50.0%"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	want := []string{
		"Char Accuracy",
		"K      100.0%",
		"M       50.0%",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatTableLeftAlign(t *testing.T) {
	lines := formatTable([]string{"Name"}, [][]string{{"a"}, {"longer"}}, nil)
	want := []string{
		"Name  ",
		"a     ",
		"longer",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatTableShortRow(t *testing.T) {
	lines := formatTable([]string{"A", "B"}, [][]string{{"x"}}, nil)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[1] != "x  " {
		t.Errorf("short row = %q, want padded to both columns", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("empty table rendered %q, want nil", lines)
	}
}

func TestPadCellWideRunes(t *testing.T) {
	// CJK characters occupy two cells; padding must use display width.
	if got := padCell("特", 4, false); got != "特  " {
		t.Errorf("padCell = %q, want two trailing spaces", got)
	}
	if got := padCell("特", 4, true); got != "  特" {
		t.Errorf("padCell = %q, want two leading spaces", got)
	}
}
