// Package audio produces the CW sidetone.
package audio

// Tone is a continuous sidetone with click-free transitions. At most one
// tone sounds at a time: Play replaces any tone already sounding.
type Tone interface {
	// Play starts a continuous tone at the given frequency and volume.
	// It returns immediately; the tone sounds until Stop.
	Play(freq, volume float64) error
	// Stop silences the tone. Calling Stop with no tone sounding is a
	// no-op. After Stop returns, the release ramp has been scheduled and
	// no sound outlives it.
	Stop()
	// Close releases the audio device. Play fails after Close.
	Close() error
}

// noopTone is the silent fallback used when no audio device is available.
// Playback timing and progress still work; only the sound is missing.
type noopTone struct{}

func (noopTone) Play(freq, volume float64) error { return nil }
func (noopTone) Stop()                           {}
func (noopTone) Close() error                    { return nil }

// Silent returns a Tone that produces no sound.
func Silent() Tone {
	return noopTone{}
}
