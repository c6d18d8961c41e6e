/* Package onsets converts activation curves into discrete onset timestamps
 * using adaptive thresholding and local maximum search.
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
package onsets

import (
	"fmt"
	"math"

	"github.com/jarovaisanen/madmom/activations"
	"github.com/jarovaisanen/madmom/signals"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Config holds the peak picking parameters. All windows are durations in
// seconds and are converted to whole frames at the activation frame rate.
type Config struct {
	// Threshold is the static offset an activation must exceed, on top of the
	// adaptive mean baseline.
	Threshold float64
	// Smooth is the width of the moving average applied to the curve before
	// detection. Zero disables smoothing.
	Smooth signals.Seconds
	// PreMax and PostMax bound the window in which a candidate frame must be
	// the maximum.
	PreMax  signals.Seconds
	PostMax signals.Seconds
	// PreAvg and PostAvg bound the window of the adaptive mean baseline. When
	// both round to zero frames the baseline is just Threshold.
	PreAvg  signals.Seconds
	PostAvg signals.Seconds
	// Combine is the minimum separation between two reported onsets.
	Combine signals.Seconds
	// Delay is added to every reported onset.
	Delay signals.Seconds
}

// InvalidConfigurationError means a peak picking parameter is out of range.
type InvalidConfigurationError struct {
	Field string
	Value float64
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid peak picking configuration: %v = %v", e.Field, e.Value)
}

// Validate checks that all windows and the combine spacing are non-negative
// and that the threshold is finite.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return &InvalidConfigurationError{Field: "threshold", Value: c.Threshold}
	}
	for _, w := range []struct {
		name  string
		value signals.Seconds
	}{
		{"smooth", c.Smooth},
		{"pre_max", c.PreMax},
		{"post_max", c.PostMax},
		{"pre_avg", c.PreAvg},
		{"post_avg", c.PostAvg},
		{"combine", c.Combine},
	} {
		if w.value < 0 {
			return &InvalidConfigurationError{Field: w.name, Value: float64(w.value)}
		}
	}
	return nil
}

// frames converts a duration to a whole number of frames at the given rate.
func frames(d signals.Seconds, fps signals.Hz) int {
	return int(math.Round(float64(d) * float64(fps)))
}

// Pick scans the activation curve and returns the onset timestamps, strictly
// increasing and spaced at least Combine seconds apart. A frame qualifies as a
// candidate when its activation reaches the adaptive mean of its surrounding
// average window plus Threshold, and is the maximum of its surrounding max
// window. Windows are clipped at the curve bounds. The first candidate inside
// a combine window wins; later ones are discarded without re-scoring.
func Pick(seq activations.Sequence, c Config) ([]signals.Seconds, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if seq.Len() == 0 {
		return []signals.Seconds{}, nil
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	if c.Smooth > 0 {
		seq = seq.Smoothed(c.Smooth)
	}
	preMax := frames(c.PreMax, seq.FPS)
	postMax := frames(c.PostMax, seq.FPS)
	preAvg := frames(c.PreAvg, seq.FPS)
	postAvg := frames(c.PostAvg, seq.FPS)
	values := []float64(seq.Values)
	last := len(values) - 1

	picked := []signals.Seconds{}
	lastOnset := signals.Seconds(math.Inf(-1))
	for i, v := range values {
		baseline := c.Threshold
		if preAvg > 0 || postAvg > 0 {
			lo, hi := clip(i-preAvg, i+postAvg, last)
			baseline += stat.Mean(values[lo:hi+1], nil)
		}
		if v < baseline {
			continue
		}
		lo, hi := clip(i-preMax, i+postMax, last)
		if v < floats.Max(values[lo:hi+1]) {
			continue
		}
		onset := seq.FrameTime(i)
		if onset-lastOnset < c.Combine {
			continue
		}
		picked = append(picked, onset+c.Delay)
		lastOnset = onset
	}
	return picked, nil
}

// clip clamps an inclusive frame window to [0, last].
func clip(lo, hi, last int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > last {
		hi = last
	}
	return lo, hi
}
