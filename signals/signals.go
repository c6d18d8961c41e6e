/* Package signals contains typed audio units and waveform handling for onset detection.
 *
 * Copyright 2026 Jaro Väisänen
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 *     Unless required by applicable law or agreed to in writing, software
 *     distributed under the License is distributed on an "AS IS" BASIS,
 *     WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *     See the License for the specific language governing permissions and
 *     limitations under the License.
 */
package signals

import (
	"fmt"
	"math"
)

// Hz is cycles per second.
type Hz float64

// Period returns the period of this frequency.
func (h Hz) Period() Seconds {
	return Seconds(1.0 / h)
}

// Seconds is a point in time, or a duration.
type Seconds float64

// Float64Slice represents a sound buffer of floats between -1 and 1.
type Float64Slice []float64

// EqTol returns whether the other float slice is equal to this one,
// within the given tolerance.
func (f Float64Slice) EqTol(o Float64Slice, tol float64) bool {
	if len(f) != len(o) {
		return false
	}
	for idx := range f {
		if math.Abs(f[idx]-o[idx]) > tol {
			return false
		}
	}
	return true
}

// Max returns the largest value in the slice, or 0 for an empty slice.
func (f Float64Slice) Max() float64 {
	res := 0.0
	for idx, val := range f {
		if idx == 0 || val > res {
			res = val
		}
	}
	return res
}

// Signal is a fixed-rate mono waveform, ready for framing.
type Signal struct {
	// Samples are the waveform values, downmixed to mono.
	Samples Float64Slice
	// Rate is the sample rate of the waveform.
	Rate Hz
	// Channels is the channel count of the source the waveform was decoded from.
	Channels int
}

// Duration returns the length of the signal in seconds.
func (s *Signal) Duration() Seconds {
	return Seconds(float64(len(s.Samples)) / float64(s.Rate))
}

// Validate returns an error unless the signal is non-empty with a positive rate.
func (s *Signal) Validate() error {
	if s.Rate <= 0 {
		return fmt.Errorf("signal has non-positive sample rate %v", s.Rate)
	}
	if len(s.Samples) == 0 {
		return fmt.Errorf("signal is empty")
	}
	return nil
}

// ClickTrack synthesizes a signal of the given duration containing a short
// decaying sine burst at each of the provided times. Used to produce waveforms
// with known onset positions.
func ClickTrack(onsets []Seconds, duration Seconds, rate Hz) *Signal {
	samples := make(Float64Slice, int(float64(duration)*float64(rate)))
	clickLen := int(float64(rate) * 0.01)
	for _, onset := range onsets {
		start := int(float64(onset) * float64(rate))
		for i := 0; i < clickLen && start+i < len(samples); i++ {
			t := float64(i) / float64(rate)
			samples[start+i] += math.Sin(2*math.Pi*1000*t) * math.Exp(-t*500)
		}
	}
	return &Signal{Samples: samples, Rate: rate, Channels: 1}
}
