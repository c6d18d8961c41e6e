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
package signals

import (
	"bytes"
	"math"
	"testing"
)

func TestHzPeriod(t *testing.T) {
	if got, want := Hz(100).Period(), Seconds(0.01); got != want {
		t.Errorf("Hz(100).Period() = %v, wanted %v", got, want)
	}
}

func TestFloat64SliceEqTol(t *testing.T) {
	a := Float64Slice{1, 2, 3}
	if !a.EqTol(Float64Slice{1, 2, 3.0001}, 0.001) {
		t.Errorf("%v.EqTol with tolerance 0.001 rejected a close slice", a)
	}
	if a.EqTol(Float64Slice{1, 2, 4}, 0.001) {
		t.Errorf("%v.EqTol with tolerance 0.001 accepted a distant slice", a)
	}
	if a.EqTol(Float64Slice{1, 2}, 1) {
		t.Errorf("%v.EqTol accepted a slice of different length", a)
	}
}

func TestSignalValidate(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		sig     *Signal
		wantErr bool
	}{
		{"valid", &Signal{Samples: Float64Slice{0, 0.5}, Rate: 44100, Channels: 1}, false},
		{"empty", &Signal{Rate: 44100, Channels: 1}, true},
		{"zero rate", &Signal{Samples: Float64Slice{0}, Channels: 1}, true},
		{"negative rate", &Signal{Samples: Float64Slice{0}, Rate: -1, Channels: 1}, true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			if err := tc.sig.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestClickTrack(t *testing.T) {
	sig := ClickTrack([]Seconds{0.1, 0.3}, 0.5, 8000)
	if err := sig.Validate(); err != nil {
		t.Fatal(err)
	}
	if got, want := len(sig.Samples), 4000; got != want {
		t.Errorf("ClickTrack produced %v samples, wanted %v", got, want)
	}
	if got, want := sig.Duration(), Seconds(0.5); got != want {
		t.Errorf("ClickTrack duration = %v, wanted %v", got, want)
	}
	// Energy at the clicks, silence elsewhere.
	if energy(sig.Samples[800:880]) == 0 {
		t.Errorf("no energy at the first click")
	}
	if energy(sig.Samples[2400:2480]) == 0 {
		t.Errorf("no energy at the second click")
	}
	if energy(sig.Samples[1600:2000]) != 0 {
		t.Errorf("energy between the clicks")
	}
}

func energy(samples Float64Slice) float64 {
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return sum
}

func TestWAVRoundTrip(t *testing.T) {
	orig := ClickTrack([]Seconds{0.05, 0.2}, 0.25, 8000)
	buf := &bytes.Buffer{}
	if err := orig.Samples.WriteWAV(buf, orig.Rate); err != nil {
		t.Fatal(err)
	}
	sig, err := ReadWAV(buf)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Rate != orig.Rate {
		t.Errorf("ReadWAV returned rate %v, wanted %v", sig.Rate, orig.Rate)
	}
	if sig.Channels != 2 {
		t.Errorf("ReadWAV returned %v channels, wanted 2", sig.Channels)
	}
	if len(sig.Samples) != len(orig.Samples) {
		t.Fatalf("ReadWAV returned %v samples, wanted %v", len(sig.Samples), len(orig.Samples))
	}
	// 16 bit quantization loses a little under 1/2^15 per sample.
	if !sig.Samples.EqTol(orig.Samples, 1e-4) {
		t.Errorf("ReadWAV samples differ from the written waveform")
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	if _, err := ReadWAV(bytes.NewReader([]byte("RIFFgarbage"))); err == nil {
		t.Errorf("ReadWAV accepted garbage")
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	_, err := LoadWAV("does/not/exist.wav")
	if err == nil {
		t.Fatal("LoadWAV accepted a missing file")
	}
	loadErr, ok := err.(*LoadError)
	if !ok {
		t.Fatalf("LoadWAV returned %T, wanted a *LoadError", err)
	}
	if loadErr.Path != "does/not/exist.wav" {
		t.Errorf("LoadError carries path %q", loadErr.Path)
	}
}

func TestClickDecay(t *testing.T) {
	sig := ClickTrack([]Seconds{0}, 0.02, 44100)
	first := math.Abs(sig.Samples[10])
	late := math.Abs(sig.Samples[400])
	if first == 0 {
		t.Fatal("click has no initial energy")
	}
	if late >= first {
		t.Errorf("click does not decay: sample 10 = %v, sample 400 = %v", first, late)
	}
}
