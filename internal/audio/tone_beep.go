//go:build (linux && cgo) || windows || darwin

package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	sampleRate = 44100
	// rampSamples spreads attack and release over ~5ms so level changes
	// never step and click.
	rampSamples = sampleRate * 5 / 1000
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// beepTone drives the speaker with a single sine streamer.
type beepTone struct {
	mu      sync.Mutex
	current *sineStreamer
	closed  bool
}

// New opens the audio device and returns a Tone backed by it. If the
// device cannot be initialized the silent fallback is returned instead,
// so callers never need a separate no-audio path.
func New() Tone {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(beep.SampleRate(sampleRate), sampleRate/10)
	})
	if speakerErr != nil {
		return Silent()
	}
	return &beepTone{}
}

// Play starts a tone, fading out any tone already sounding first.
func (t *beepTone) Play(freq, volume float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return fmt.Errorf("audio: tone generator is closed")
	}

	speaker.Lock()
	if t.current != nil {
		t.current.release()
	}
	s := &sineStreamer{freq: freq, target: volume}
	t.current = s
	speaker.Unlock()

	speaker.Play(s)
	return nil
}

// Stop fades the tone to silence. The streamer removes itself from the
// mixer once its release ramp reaches zero.
func (t *beepTone) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	speaker.Lock()
	t.current.release()
	speaker.Unlock()
	t.current = nil
}

// Close silences and detaches from the speaker. The speaker itself stays
// initialized; it is a process-wide device.
func (t *beepTone) Close() error {
	t.Stop()
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

// sineStreamer generates a sine wave with a linear gain envelope. The
// envelope moves toward target by one rampStep per sample; once releasing
// and fully faded, the streamer ends and the mixer drops it.
type sineStreamer struct {
	freq      float64
	phase     float64
	gain      float64
	target    float64
	releasing bool
}

const rampStep = 1.0 / float64(rampSamples)

// release is called under speaker.Lock.
func (s *sineStreamer) release() {
	s.target = 0
	s.releasing = true
}

func (s *sineStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.releasing && s.gain <= 0 {
			return i, i > 0
		}
		if s.gain < s.target {
			s.gain = math.Min(s.gain+rampStep, s.target)
		} else if s.gain > s.target {
			s.gain = math.Max(s.gain-rampStep, s.target)
		}
		v := math.Sin(2*math.Pi*s.phase) * s.gain
		samples[i][0] = v
		samples[i][1] = v
		s.phase += s.freq / sampleRate
		if s.phase >= 1 {
			s.phase -= 1
		}
	}
	return len(samples), true
}

func (s *sineStreamer) Err() error {
	return nil
}
