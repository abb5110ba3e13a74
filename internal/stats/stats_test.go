package stats

import (
	"testing"

	"github.com/verte-zerg/tuicw/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	agg := model.SessionAggregate{Matched: 30, TargetLen: 40, DurationMs: 120000}
	accuracy, cpm := SessionMetrics(agg)
	if accuracy != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", accuracy)
	}
	if cpm != 20 {
		t.Errorf("chars per minute = %v, want 20", cpm)
	}
}

func TestSessionMetricsZeroes(t *testing.T) {
	accuracy, cpm := SessionMetrics(model.SessionAggregate{})
	if accuracy != 0 || cpm != 0 {
		t.Errorf("metrics = %v, %v, want zeroes", accuracy, cpm)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5, 6}, 3)
	want := []float64{1, 1.5, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMovingAverageSmallWindow(t *testing.T) {
	values := []float64{3, 1, 4}
	got := MovingAverage(values, 1)
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("window 1 changed values: %v", got)
		}
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("sparkline %q has length %d, want 3", line, len(line))
	}
	if line[0] != ' ' || line[2] != '@' {
		t.Errorf("sparkline %q, want lowest blank and highest @", line)
	}
	if Sparkline(nil) != "" {
		t.Error("empty input should render empty sparkline")
	}
	flat := Sparkline([]float64{2, 2, 2})
	if len(flat) != 3 || flat[0] != flat[1] || flat[1] != flat[2] {
		t.Errorf("flat sparkline %q, want three identical cells", flat)
	}
}

func TestSelectWeakChars(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "A", Correct: 9, Incorrect: 1},
		{Char: "B", Correct: 1, Incorrect: 9},
		{Char: "C", Correct: 5, Incorrect: 5},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("got %d weak chars, want 2", len(weak))
	}
	if _, ok := weak['B']; !ok {
		t.Error("B missing from weak set")
	}
	if _, ok := weak['C']; !ok {
		t.Error("C missing from weak set")
	}
	if _, ok := weak['A']; ok {
		t.Error("A should not be in the weak set")
	}
}

func TestSelectWeakCharsAll(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "A", Correct: 1, Incorrect: 0},
		{Char: "B", Correct: 0, Incorrect: 1},
	}
	weak := SelectWeakChars(aggs, 0)
	if len(weak) != 2 {
		t.Fatalf("top 0 selected %d chars, want all", len(weak))
	}
	if len(SelectWeakChars(nil, 3)) != 0 {
		t.Error("no aggregates should yield an empty set")
	}
}
