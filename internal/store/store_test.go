package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuicw/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
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

func sampleRecord(endedAt time.Time, score float64) model.SessionRecord {
	return model.SessionRecord{
		StartedAt:  endedAt.Add(-time.Minute),
		EndedAt:    endedAt,
		Mode:       "copy",
		WPM:        20,
		GroupSize:  5,
		Charset:    "KM",
		TargetText: "KM MK",
		Transcript: "KMMK",
		Score:      score,
	}
}

func TestInsertAndListRecords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id1, err := st.InsertSession(ctx, sampleRecord(base, 10.0), []model.CharStats{
		{Char: "K", Correct: 2, Incorrect: 0},
		{Char: "M", Correct: 2, Incorrect: 0},
	})
	if err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}
	id2, err := st.InsertSession(ctx, sampleRecord(base.Add(time.Hour), 7.5), nil)
	if err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("duplicate session ids: %d", id1)
	}

	records, err := st.ListRecords(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].ID != id2 {
		t.Errorf("first record id = %d, want %d", records[0].ID, id2)
	}
	rec := records[1]
	if rec.TargetText != "KM MK" || rec.Transcript != "KMMK" || rec.Score != 10.0 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.EndedAt.Equal(base) {
		t.Errorf("ended at = %v, want %v", rec.EndedAt, base)
	}

	limited, err := st.ListRecords(ctx, 1)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != id2 {
		t.Fatalf("limited list = %+v, want only session %d", limited, id2)
	}
}

func TestInsertSessionRollsBackOnCharStatsFailure(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Duplicate char rows violate the (session_id, char) primary key.
	_, err := st.InsertSession(ctx, sampleRecord(base, 10.0), []model.CharStats{
		{Char: "K", Correct: 1, Incorrect: 0},
		{Char: "K", Correct: 0, Incorrect: 1},
	})
	if err == nil {
		t.Fatal("insert with duplicate char stats succeeded, want error")
	}

	// The failed transaction must be rolled back, leaving no partial rows
	// and no write lock that would block the next insert.
	records, err := st.ListRecords(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records after failed insert, want 0", len(records))
	}

	id, err := st.InsertSession(ctx, sampleRecord(base.Add(time.Hour), 10.0), []model.CharStats{
		{Char: "K", Correct: 1, Incorrect: 0},
	})
	if err != nil {
		t.Fatalf("insert after rollback failed: %v", err)
	}
	aggs, err := st.ListCharAggregatesForSessions(ctx, []int64{id})
	if err != nil {
		t.Fatalf("failed to aggregate chars: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Correct != 1 {
		t.Fatalf("aggregates = %+v, want the single inserted row", aggs)
	}
}

func TestListSessionsAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := sampleRecord(base, 7.5)
	rec.TargetText = "ABCD"
	rec.Transcript = "abXD"
	if _, err := st.InsertSession(ctx, rec, nil); err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}

	aggs, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}
	agg := aggs[0]
	if agg.Matched != 3 || agg.TargetLen != 4 {
		t.Errorf("matched/total = %d/%d, want 3/4", agg.Matched, agg.TargetLen)
	}
	if agg.DurationMs != time.Minute.Milliseconds() {
		t.Errorf("duration = %dms, want %dms", agg.DurationMs, time.Minute.Milliseconds())
	}

	since := base.Add(time.Second)
	filtered, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(filtered) != 0 {
		t.Fatalf("got %d aggregates after since filter, want 0", len(filtered))
	}
}

func TestGetWeakCharsWindow(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Older session: K was copied badly.
	if _, err := st.InsertSession(ctx, sampleRecord(base, 5.0), []model.CharStats{
		{Char: "K", Correct: 0, Incorrect: 4},
	}); err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}
	// Two recent sessions inside the window.
	if _, err := st.InsertSession(ctx, sampleRecord(base.Add(time.Hour), 10.0), []model.CharStats{
		{Char: "K", Correct: 3, Incorrect: 1},
		{Char: "M", Correct: 4, Incorrect: 0},
	}); err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}
	if _, err := st.InsertSession(ctx, sampleRecord(base.Add(2*time.Hour), 10.0), []model.CharStats{
		{Char: "K", Correct: 2, Incorrect: 2},
	}); err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}

	aggs, err := st.GetWeakChars(ctx, 2)
	if err != nil {
		t.Fatalf("failed to get weak chars: %v", err)
	}
	byChar := map[string]model.CharAggregate{}
	for _, agg := range aggs {
		byChar[agg.Char] = agg
	}
	k, ok := byChar["K"]
	if !ok || k.Correct != 5 || k.Incorrect != 3 {
		t.Errorf("K aggregate = %+v, want 5 correct 3 incorrect", k)
	}
	m, ok := byChar["M"]
	if !ok || m.Correct != 4 || m.Incorrect != 0 {
		t.Errorf("M aggregate = %+v, want 4 correct 0 incorrect", m)
	}

	none, err := st.GetWeakChars(ctx, 0)
	if err != nil {
		t.Fatalf("failed to get weak chars: %v", err)
	}
	if none != nil {
		t.Fatalf("window 0 returned %+v, want nil", none)
	}
}

func TestListCharAggregatesForSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id1, err := st.InsertSession(ctx, sampleRecord(base, 10.0), []model.CharStats{
		{Char: "K", Correct: 1, Incorrect: 1},
	})
	if err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}
	if _, err := st.InsertSession(ctx, sampleRecord(base.Add(time.Hour), 10.0), []model.CharStats{
		{Char: "K", Correct: 5, Incorrect: 5},
	}); err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}

	aggs, err := st.ListCharAggregatesForSessions(ctx, []int64{id1})
	if err != nil {
		t.Fatalf("failed to aggregate chars: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Correct != 1 || aggs[0].Incorrect != 1 {
		t.Fatalf("aggregates = %+v, want only session %d counts", aggs, id1)
	}

	empty, err := st.ListCharAggregatesForSessions(ctx, nil)
	if err != nil {
		t.Fatalf("failed to aggregate chars: %v", err)
	}
	if empty != nil {
		t.Fatalf("empty id list returned %+v, want nil", empty)
	}
}
