// Package movingsum implements the streaming moving-sum accumulator and
// Lagrange polynomial extrapolator used by the CW (Morse) decoder's
// envelope classifier and the Doppler-fit helper.
//
// Grounded on gr-satnogs moving_sum.h and doppler_fit.h.
package movingsum

// Window is a fixed-size moving sum over a stream of float64 samples.
type Window struct {
	buf   []float64
	pos   int
	count int
	sum   float64
}

// New returns a Window summing over the last n samples.
func New(n int) *Window {
	return &Window{buf: make([]float64, n)}
}

// Push adds a sample and returns the updated moving sum.
func (w *Window) Push(v float64) float64 {
	old := w.buf[w.pos]
	w.buf[w.pos] = v
	w.sum += v - old
	w.pos = (w.pos + 1) % len(w.buf)
	if w.count < len(w.buf) {
		w.count++
	}
	return w.sum
}

// Sum returns the current moving sum without pushing a new sample.
func (w *Window) Sum() float64 { return w.sum }

// Full reports whether the window has accumulated a full period of
// samples.
func (w *Window) Full() bool { return w.count == len(w.buf) }

// Reset clears the window to empty.
func (w *Window) Reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}
	w.pos, w.count, w.sum = 0, 0, 0
}

// Sample is one (x, y) observation fed to the Lagrange extrapolator.
type Sample struct {
	X, Y float64
}

// LagrangeExtrapolate evaluates the unique degree-(len(pts)-1) polynomial
// through pts at x, using the classic Lagrange interpolation formula.
// Used to extrapolate a Doppler curve from a handful of recent samples.
func LagrangeExtrapolate(pts []Sample, x float64) float64 {
	var result float64
	for i, pi := range pts {
		term := pi.Y
		for j, pj := range pts {
			if i == j {
				continue
			}
			term *= (x - pj.X) / (pi.X - pj.X)
		}
		result += term
	}
	return result
}
