// Package doppler provides a mutex-guarded ring of (time, frequency)
// samples with Lagrange-polynomial extrapolation, a cross-thread shared
// component: a producer thread submits samples while a consumer thread
// requests predictions concurrently.
//
// Grounded on gr-satnogs doppler_fit.h, built over internal/movingsum's
// Lagrange extrapolator.
package doppler

import (
	"sync"

	"github.com/librespace/gsat-codec/internal/movingsum"
)

// Tracker accumulates the most recent n Doppler samples and extrapolates
// a frequency prediction for an arbitrary future timestamp.
type Tracker struct {
	mu      sync.Mutex
	samples []sample
	n       int
}

type sample struct {
	t, freq float64
}

// New returns a Tracker retaining at most n most-recent samples.
func New(n int) *Tracker {
	if n <= 0 {
		n = 1
	}
	return &Tracker{n: n}
}

// Submit records one (time, frequency) observation, evicting the oldest
// sample once the ring is full. Safe for concurrent use with Predict.
func (t *Tracker) Submit(time, freq float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, sample{t: time, freq: freq})
	if len(t.samples) > t.n {
		t.samples = t.samples[len(t.samples)-t.n:]
	}
}

// Predict extrapolates the frequency at the given time from the current
// sample set, via Lagrange interpolation over internal/movingsum. Returns
// (0, false) if no samples have been submitted yet.
func (t *Tracker) Predict(time float64) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.samples) == 0 {
		return 0, false
	}
	pts := make([]movingsum.Sample, len(t.samples))
	for i, s := range t.samples {
		pts[i] = movingsum.Sample{X: s.t, Y: s.freq}
	}
	return movingsum.LagrangeExtrapolate(pts, time), true
}

// Reset clears all accumulated samples.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = nil
}
