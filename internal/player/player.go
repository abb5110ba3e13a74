// Package player walks a compiled Morse sequence against the clock.
package player

import (
	"context"
	"time"

	"github.com/verte-zerg/tuicw/internal/audio"
	"github.com/verte-zerg/tuicw/internal/morse"
)

// Outcome is the terminal state of one playback.
type Outcome int

const (
	// Completed means the whole sequence was played.
	Completed Outcome = iota
	// Cancelled means playback was aborted before the end of the sequence.
	Cancelled
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o == Cancelled {
		return "cancelled"
	}
	return "completed"
}

// Options carries the tone and spacing parameters for one playback.
type Options struct {
	Frequency float64
	Volume    float64
	// CharSpacing and WordSpacing are in dot units. Values below the ITU
	// standard 3 and 7 are raised to it.
	CharSpacing int
	WordSpacing int
}

func (o Options) charUnits() int {
	if o.CharSpacing > 3 {
		return o.CharSpacing
	}
	return 3
}

func (o Options) wordUnits() int {
	if o.WordSpacing > 7 {
		return o.WordSpacing
	}
	return 7
}

// Play walks the sequence in order, keying the tone for dots and dashes
// and sleeping through the gaps. Every wait aborts promptly when ctx is
// cancelled; the tone is stopped before Cancelled is returned, so the
// generator always ends silent.
//
// onProgress, when non-nil, is invoked with the source character
// immediately before the first element of that character sounds, and with
// a space when a word gap begins. It is never invoked after cancellation.
func Play(ctx context.Context, tone audio.Tone, seq morse.Sequence, unit time.Duration, opts Options, onProgress func(rune)) (Outcome, error) {
	newChar := true
	for _, sym := range seq {
		// Checked up front so no progress fires once cancellation has
		// been signaled.
		if ctx.Err() != nil {
			tone.Stop()
			return Cancelled, nil
		}
		switch sym.Kind {
		case morse.Dot, morse.Dash:
			if newChar {
				if onProgress != nil {
					onProgress(sym.Char)
				}
				newChar = false
			}
			on := unit
			if sym.Kind == morse.Dash {
				on = 3 * unit
			}
			if err := tone.Play(opts.Frequency, opts.Volume); err != nil {
				tone.Stop()
				return Cancelled, err
			}
			if !wait(ctx, on) {
				tone.Stop()
				return Cancelled, nil
			}
			tone.Stop()
			// Trailing element gap, absorbed by GapChar/GapWord waits.
			if !wait(ctx, unit) {
				return Cancelled, nil
			}
		case morse.GapIntra:
			// Already paid by the preceding element.
		case morse.GapChar:
			newChar = true
			if !wait(ctx, time.Duration(opts.charUnits()-1)*unit) {
				return Cancelled, nil
			}
		case morse.GapWord:
			newChar = true
			if onProgress != nil {
				onProgress(' ')
			}
			if !wait(ctx, time.Duration(opts.wordUnits()-1)*unit) {
				return Cancelled, nil
			}
		}
	}
	return Completed, nil
}

// Wait sleeps for d or until ctx is cancelled. It reports whether the
// full duration elapsed. Cancellation is checked even for zero waits.
func Wait(ctx context.Context, d time.Duration) bool {
	return wait(ctx, d)
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
