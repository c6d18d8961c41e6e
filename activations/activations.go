/* Package activations contains per-frame onset activation curves, the spectral
 * flux function producing them, and their persisted representation.
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
package activations

import (
	"fmt"
	"math"

	"github.com/jarovaisanen/madmom/signals"
	"gonum.org/v1/gonum/stat"
)

// Sequence is an ordered activation curve, one scalar strength per frame.
// Frame i corresponds to timestamp i / FPS. Immutable once produced.
type Sequence struct {
	// Values are the per-frame activation strengths.
	Values signals.Float64Slice
	// FPS is the frame rate of the curve.
	FPS signals.Hz
}

// Len returns the number of frames.
func (s Sequence) Len() int {
	return len(s.Values)
}

// FrameTime returns the timestamp of frame i.
func (s Sequence) FrameTime(i int) signals.Seconds {
	return signals.Seconds(float64(i) / float64(s.FPS))
}

// Validate returns an error unless the frame rate is positive.
func (s Sequence) Validate() error {
	if s.FPS <= 0 {
		return fmt.Errorf("activation sequence has non-positive frame rate %v", s.FPS)
	}
	return nil
}

// Smoothed returns a copy of the sequence smoothed with a centered moving
// average of the given width. The window is clipped at the sequence bounds so
// timestamps do not shift. Widths shorter than two frames return the sequence
// unchanged.
func (s Sequence) Smoothed(width signals.Seconds) Sequence {
	frames := int(math.Round(float64(width) * float64(s.FPS)))
	if frames <= 1 || s.Len() == 0 {
		return s
	}
	pre := (frames - 1) / 2
	post := frames - 1 - pre
	smoothed := make(signals.Float64Slice, s.Len())
	for i := range s.Values {
		lo := i - pre
		if lo < 0 {
			lo = 0
		}
		hi := i + post
		if hi > s.Len()-1 {
			hi = s.Len() - 1
		}
		smoothed[i] = stat.Mean(s.Values[lo:hi+1], nil)
	}
	return Sequence{Values: smoothed, FPS: s.FPS}
}

// normalized scales the values so the largest one is 1. All-zero sequences are
// returned unchanged.
func (s Sequence) normalized() Sequence {
	max := s.Values.Max()
	if max <= 0 {
		return s
	}
	scaled := make(signals.Float64Slice, s.Len())
	for i, v := range s.Values {
		scaled[i] = v / max
	}
	return Sequence{Values: scaled, FPS: s.FPS}
}
