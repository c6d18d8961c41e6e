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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jarovaisanen/madmom/signals"
)

func TestFrameTime(t *testing.T) {
	s := Sequence{Values: make(signals.Float64Slice, 200), FPS: 100}
	for _, tc := range []struct {
		frame int
		want  signals.Seconds
	}{
		{0, 0},
		{3, 0.03},
		{100, 1.0},
	} {
		if got := s.FrameTime(tc.frame); math.Abs(float64(got-tc.want)) > 1e-12 {
			t.Errorf("FrameTime(%v) = %v, wanted %v", tc.frame, got, tc.want)
		}
	}
}

func TestSmoothed(t *testing.T) {
	s := Sequence{Values: signals.Float64Slice{0, 0, 1, 0, 0}, FPS: 100}
	smoothed := s.Smoothed(0.03)
	want := signals.Float64Slice{0, 1.0 / 3, 1.0 / 3, 1.0 / 3, 0}
	if !smoothed.Values.EqTol(want, 1e-12) {
		t.Errorf("Smoothed(0.03) = %v, wanted %v", smoothed.Values, want)
	}
	if smoothed.FPS != s.FPS {
		t.Errorf("Smoothed changed the frame rate to %v", smoothed.FPS)
	}
	if diff := cmp.Diff(s.Smoothed(0.01), s); diff != "" {
		t.Errorf("sub frame smoothing changed the sequence: %v", diff)
	}
	if diff := cmp.Diff(s.Smoothed(0), s); diff != "" {
		t.Errorf("zero smoothing changed the sequence: %v", diff)
	}
}

func TestSpectralFluxPeaksAtClicks(t *testing.T) {
	clicks := []signals.Seconds{0.5, 1.5}
	sig := signals.ClickTrack(clicks, 2, 44100)
	flux := SpectralFlux{FPS: 100, WindowSize: 1024}
	seq, err := flux.Process(sig)
	if err != nil {
		t.Fatal(err)
	}
	if seq.FPS != 100 {
		t.Errorf("Process returned frame rate %v, wanted 100", seq.FPS)
	}
	if got, want := seq.Len(), 200; got != want {
		t.Errorf("Process returned %v frames, wanted %v", got, want)
	}
	if max := seq.Values.Max(); math.Abs(max-1.0) > 1e-12 {
		t.Errorf("curve maximum is %v, wanted 1 after normalization", max)
	}
	for _, click := range clicks {
		frame := int(float64(click) * float64(seq.FPS))
		peak := 0.0
		for i := frame - 3; i <= frame+3; i++ {
			if seq.Values[i] > peak {
				peak = seq.Values[i]
			}
		}
		if peak < 0.5 {
			t.Errorf("no activation peak near click at %vs, got at most %v", click, peak)
		}
	}
	quiet := seq.Values[100]
	if quiet > 0.1 {
		t.Errorf("activation %v in silence at 1s, wanted a quiet curve", quiet)
	}
}

func TestSpectralFluxDeterministic(t *testing.T) {
	sig := signals.ClickTrack([]signals.Seconds{0.25}, 1, 8000)
	flux := SpectralFlux{FPS: 100, WindowSize: 512}
	first, err := flux.Process(sig)
	if err != nil {
		t.Fatal(err)
	}
	second, err := flux.Process(sig)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Process is not deterministic: %v", diff)
	}
}

func TestSpectralFluxRejectsBadInput(t *testing.T) {
	for _, tc := range []struct {
		desc string
		sig  *signals.Signal
		flux SpectralFlux
	}{
		{
			desc: "empty signal",
			sig:  &signals.Signal{Rate: 44100, Channels: 1},
			flux: SpectralFlux{FPS: 100},
		},
		{
			desc: "zero sample rate",
			sig:  &signals.Signal{Samples: signals.Float64Slice{0, 0}, Channels: 1},
			flux: SpectralFlux{FPS: 100},
		},
		{
			desc: "zero frame rate",
			sig:  signals.ClickTrack(nil, 0.1, 8000),
			flux: SpectralFlux{},
		},
		{
			desc: "frame rate above sample rate",
			sig:  signals.ClickTrack(nil, 0.1, 100),
			flux: SpectralFlux{FPS: 200},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			if _, err := tc.flux.Process(tc.sig); err == nil {
				t.Errorf("Process accepted %v", tc.desc)
			}
		})
	}
}
