// Package model defines shared data structures.
package model

import "time"

// Settings defines one practice run. Ranges are validated by the CLI
// before the engine runs; the engine itself trusts them.
type Settings struct {
	WPM           int     // 5-60
	Frequency     float64 // 400-1200 Hz
	Volume        float64 // 0-1
	CharSpacing   int     // dot units, >= 3
	WordSpacing   int     // dot units, >= 7
	GroupSize     int     // 1-10
	NumCharacters int     // 5-200
	PreStartText  string
	Charset       string
	FocusWeak     bool
	WeakTop       int
	WeakWindow    int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// SessionRecord is the finalized history record of one training session.
// TargetText holds what was actually played, which may be shorter than
// the generated text when the session was stopped early.
type SessionRecord struct {
	ID         int64
	StartedAt  time.Time
	EndedAt    time.Time
	Mode       string
	WPM        int
	GroupSize  int
	Charset    string
	TargetText string
	Transcript string
	Score      float64
}

// CharStats stores per-character copy results for a session.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	WPM        int
	Score      float64
	Matched    int
	TargetLen  int
	DurationMs int64
}
