// Package session orchestrates full training runs: text generation,
// playback, and history finalization.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/tuicw/internal/audio"
	"github.com/verte-zerg/tuicw/internal/generator"
	"github.com/verte-zerg/tuicw/internal/model"
	"github.com/verte-zerg/tuicw/internal/morse"
	"github.com/verte-zerg/tuicw/internal/player"
	"github.com/verte-zerg/tuicw/internal/stats"
	"github.com/verte-zerg/tuicw/internal/store"
)

// Mode recorded on trainer history entries.
const ModeCopy = "copy"

// Callbacks connects a session to its consumer. All callbacks may be nil.
type Callbacks struct {
	// Progress receives each character (spaces included) as its audio
	// begins.
	Progress func(rune)
	// Transcript is read once, at finalization, to obtain the user's
	// copy of the text. It is called from the playback goroutine.
	Transcript func() string
	// Done receives the finalized record and the playback outcome. A
	// non-nil error means playback failed; the record is still
	// finalized from whatever was played.
	Done func(model.SessionRecord, player.Outcome, error)
}

// Controller runs at most one training session at a time against an
// owned tone generator and history store.
type Controller struct {
	tone     audio.Tone
	store    *store.Store
	gen      *generator.Generator
	settings model.Settings
	charset  []rune

	mu      sync.Mutex
	active  *Session
	weakSet map[rune]struct{}
}

// Session is one in-flight playback run.
type Session struct {
	// Target is the generated practice text, fixed at start. The scored
	// target is what was actually played, which may be shorter.
	Target string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewController builds a controller. The charset must already be
// normalized to Morse-mapped uppercase characters.
func NewController(tone audio.Tone, st *store.Store, settings model.Settings, charset []rune) *Controller {
	return &Controller{
		tone:     tone,
		store:    st,
		gen:      generator.New(),
		settings: settings,
		charset:  charset,
	}
}

// SetWeakSet installs the characters the weighted generator favors.
func (c *Controller) SetWeakSet(weak map[rune]struct{}) {
	c.mu.Lock()
	c.weakSet = weak
	c.mu.Unlock()
}

// Start begins a new session. An active session is cancelled and fully
// finalized first, so its history record exists before the new text is
// generated.
func (c *Controller) Start(cb Callbacks) *Session {
	c.Stop()

	target := c.generateText()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{Target: target, cancel: cancel, done: make(chan struct{})}
	c.mu.Lock()
	c.active = s
	c.mu.Unlock()
	go c.run(ctx, s, cb)
	return s
}

// Stop cancels the active session and blocks until its record is
// finalized. Stopping with no active session is a no-op, so repeated
// stops never produce duplicate records.
func (c *Controller) Stop() {
	c.mu.Lock()
	s := c.active
	c.mu.Unlock()
	if s == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (c *Controller) generateText() string {
	c.mu.Lock()
	weak := c.weakSet
	c.mu.Unlock()
	if c.settings.FocusWeak && len(weak) > 0 {
		return c.gen.WeightedText(c.charset, c.settings.NumCharacters, c.settings.GroupSize, weak, 2.0)
	}
	return c.gen.Text(c.charset, c.settings.NumCharacters, c.settings.GroupSize)
}

func (c *Controller) run(ctx context.Context, s *Session, cb Callbacks) {
	defer close(s.done)
	defer func() {
		c.mu.Lock()
		if c.active == s {
			c.active = nil
		}
		c.mu.Unlock()
	}()

	startedAt := time.Now()
	unit := morse.Unit(c.settings.WPM)
	opts := player.Options{
		Frequency:   c.settings.Frequency,
		Volume:      c.settings.Volume,
		CharSpacing: c.settings.CharSpacing,
		WordSpacing: c.settings.WordSpacing,
	}

	var played []rune
	outcome := player.Completed
	var playErr error

	// Preamble plays without progress and stays out of the scored
	// target.
	if pre := strings.TrimSpace(c.settings.PreStartText); pre != "" {
		outcome, playErr = player.Play(ctx, c.tone, morse.Compile(pre), unit, opts, nil)
		if outcome == player.Completed && playErr == nil {
			wordUnits := opts.WordSpacing
			if wordUnits < 7 {
				wordUnits = 7
			}
			if !player.Wait(ctx, time.Duration(wordUnits)*unit) {
				outcome = player.Cancelled
			}
		}
	}

	if outcome == player.Completed && playErr == nil {
		outcome, playErr = player.Play(ctx, c.tone, morse.Compile(s.Target), unit, opts, func(r rune) {
			played = append(played, r)
			if cb.Progress != nil {
				cb.Progress(r)
			}
		})
	}

	rec := c.finalize(startedAt, string(played), cb)
	if cb.Done != nil {
		cb.Done(rec, outcome, playErr)
	}
}

// finalize builds, scores, and persists exactly one history record for
// the run. The scoring target is the accumulated played text, not the
// generated one: a stopped session is graded on what was heard.
func (c *Controller) finalize(startedAt time.Time, played string, cb Callbacks) model.SessionRecord {
	transcript := ""
	if cb.Transcript != nil {
		transcript = cb.Transcript()
	}
	rec := model.SessionRecord{
		StartedAt:  startedAt,
		EndedAt:    time.Now(),
		Mode:       ModeCopy,
		WPM:        c.settings.WPM,
		GroupSize:  c.settings.GroupSize,
		Charset:    string(c.charset),
		TargetText: played,
		Transcript: transcript,
		Score:      Score(played, transcript),
	}

	if c.store != nil {
		ctx := context.Background()
		id, err := c.store.InsertSession(ctx, rec, charStats(played, transcript))
		if err != nil {
			logErrf("failed to save session: %v\n", err)
		} else {
			rec.ID = id
		}
		if c.settings.FocusWeak {
			c.refreshWeakSet(ctx)
		}
	}
	return rec
}

func (c *Controller) refreshWeakSet(ctx context.Context) {
	aggs, err := c.store.GetWeakChars(ctx, c.settings.WeakWindow)
	if err != nil {
		logErrf("failed to load weak chars: %v\n", err)
		return
	}
	if len(aggs) == 0 {
		return
	}
	c.SetWeakSet(stats.SelectWeakChars(aggs, c.settings.WeakTop))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func charStats(target, transcript string) []model.CharStats {
	results := compareChars(target, transcript)
	stats := make([]model.CharStats, 0, len(results))
	for r, res := range results {
		stats = append(stats, model.CharStats{
			Char:      string(r),
			Correct:   res.correct,
			Incorrect: res.incorrect,
		})
	}
	return stats
}
