package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuicw/internal/model"
	"github.com/verte-zerg/tuicw/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return st
}

func insertSession(t *testing.T, st *store.Store, endedAt time.Time, score float64, chars []model.CharStats) {
	t.Helper()
	rec := model.SessionRecord{
		StartedAt:  endedAt.Add(-time.Minute),
		EndedAt:    endedAt,
		Mode:       "copy",
		WPM:        20,
		GroupSize:  5,
		Charset:    "KM",
		TargetText: "KMKM",
		Transcript: "KMKM",
		Score:      score,
	}
	if _, err := st.InsertSession(context.Background(), rec, chars); err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}
}

func TestBuildReport(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insertSession(t, st, base, 5.0, []model.CharStats{
		{Char: "K", Correct: 1, Incorrect: 3},
	})
	insertSession(t, st, base.Add(time.Hour), 7.5, []model.CharStats{
		{Char: "K", Correct: 2, Incorrect: 2},
	})
	insertSession(t, st, base.Add(2*time.Hour), 10.0, []model.CharStats{
		{Char: "M", Correct: 4, Incorrect: 0},
	})

	report, err := BuildReport(context.Background(), st, model.StatsConfig{Last: 2, CurveWindow: 1})
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}

	// Last trims to the two newest sessions, oldest first.
	if len(report.Sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(report.Sessions))
	}
	if report.Sessions[0].Score != 7.5 || report.Sessions[1].Score != 10.0 {
		t.Errorf("session scores = %v, %v, want 7.5 then 10.0", report.Sessions[0].Score, report.Sessions[1].Score)
	}

	// All-time aggregates span both selected sessions; the window only
	// the newest one.
	all := map[string]model.CharAggregate{}
	for _, agg := range report.CharAggsAll {
		all[agg.Char] = agg
	}
	if k := all["K"]; k.Correct != 2 || k.Incorrect != 2 {
		t.Errorf("all-time K = %+v, want the middle session's counts", k)
	}
	if m := all["M"]; m.Correct != 4 {
		t.Errorf("all-time M = %+v, want 4 correct", m)
	}
	if len(report.CharAggsWindow) != 1 || report.CharAggsWindow[0].Char != "M" {
		t.Errorf("windowed aggregates = %+v, want only M", report.CharAggsWindow)
	}
}

func TestBuildReportSince(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insertSession(t, st, base, 5.0, nil)
	insertSession(t, st, base.Add(time.Hour), 10.0, nil)

	since := base.Add(time.Minute)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if len(report.Sessions) != 1 || report.Sessions[0].Score != 10.0 {
		t.Fatalf("sessions = %+v, want only the newer one", report.Sessions)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	st := openTestStore(t)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if len(report.Sessions) != 0 || len(report.CharAggsAll) != 0 || len(report.CharAggsWindow) != 0 {
		t.Fatalf("empty store produced %+v", report)
	}
}
