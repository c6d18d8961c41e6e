/*
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
	"math/cmplx"

	"github.com/jarovaisanen/madmom/signals"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// DefaultWindowSize is the FFT window size used by SpectralFlux unless
// configured otherwise.
const DefaultWindowSize = 2048

// Function maps a waveform to an activation curve at a fixed frame rate.
// Implementations must be pure: the same signal always yields the same curve.
type Function interface {
	Process(sig *signals.Signal) (Sequence, error)
}

// SpectralFlux computes an onset activation curve as the half-wave rectified
// first difference of consecutive Hann windowed magnitude spectra, normalized
// to [0, 1].
type SpectralFlux struct {
	// FPS is the frame rate of the produced curve.
	FPS signals.Hz
	// WindowSize is the FFT window size. Zero selects DefaultWindowSize.
	WindowSize int
}

// Process frames the signal at the configured rate and returns its spectral
// flux curve. Frame i is centered on sample i * rate / FPS, so frame
// timestamps line up with signal time. The signal is consumed read-only.
func (s SpectralFlux) Process(sig *signals.Signal) (Sequence, error) {
	if err := sig.Validate(); err != nil {
		return Sequence{}, err
	}
	if s.FPS <= 0 {
		return Sequence{}, fmt.Errorf("spectral flux needs a positive frame rate, got %v", s.FPS)
	}
	size := s.WindowSize
	if size == 0 {
		size = DefaultWindowSize
	}
	if size < 2 {
		return Sequence{}, fmt.Errorf("spectral flux needs a window of at least 2 samples, got %v", size)
	}
	hop := float64(sig.Rate) / float64(s.FPS)
	if hop < 1 {
		return Sequence{}, fmt.Errorf("frame rate %v exceeds sample rate %v", s.FPS, sig.Rate)
	}
	numFrames := int(math.Ceil(float64(len(sig.Samples)) / hop))
	flux := make(signals.Float64Slice, numFrames)
	prev := make([]float64, size/2)
	curr := make([]float64, size/2)
	frame := make([]float64, size)
	for i := 0; i < numFrames; i++ {
		center := int(math.Round(float64(i) * hop))
		start := center - size/2
		for j := range frame {
			idx := start + j
			if idx < 0 || idx >= len(sig.Samples) {
				frame[j] = 0
			} else {
				frame[j] = sig.Samples[idx]
			}
		}
		window.Apply(frame, window.Hann)
		coeffs := fft.FFTReal(frame)
		for bin := range curr {
			curr[bin] = cmplx.Abs(coeffs[bin])
		}
		if i > 0 {
			sum := 0.0
			for bin := range curr {
				if diff := curr[bin] - prev[bin]; diff > 0 {
					sum += diff
				}
			}
			flux[i] = sum
		}
		prev, curr = curr, prev
	}
	return Sequence{Values: flux, FPS: s.FPS}.normalized(), nil
}
