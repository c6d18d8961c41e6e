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
	"fmt"
	"io"
	"math"
	"os"

	"github.com/youpy/go-wav"
)

// LoadError means a waveform could not be decoded from its source.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load signal from %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReadWAV decodes a WAV stream into a Signal, averaging all channels
// into a single mono waveform.
func ReadWAV(r io.Reader) (*Signal, error) {
	// wav.NewReader requires an io.ReaderAt, so buffer the stream.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reader := wav.NewReader(bytes.NewReader(data))
	format, err := reader.Format()
	if err != nil {
		return nil, err
	}
	if format.SampleRate == 0 {
		return nil, fmt.Errorf("WAV declares zero sample rate")
	}
	channels := int(format.NumChannels)
	sig := &Signal{
		Rate:     Hz(format.SampleRate),
		Channels: channels,
	}
	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		for _, sample := range samples {
			sum := 0.0
			for ch := 0; ch < channels; ch++ {
				sum += reader.FloatValue(sample, uint(ch))
			}
			sig.Samples = append(sig.Samples, sum/float64(channels))
		}
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

// LoadWAV reads a WAV file from disk. Errors are wrapped in a LoadError
// carrying the offending path.
func LoadWAV(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	sig, err := ReadWAV(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return sig, nil
}

// WriteWAV writes the samples as a 16 bit stereo WAV file to a writer,
// declaring a given sample rate. Assumes the slice contains only values
// between -1.0 and 1.0.
func (f Float64Slice) WriteWAV(w io.Writer, rate Hz) error {
	wavSamples := make([]wav.Sample, len(f))
	for idx := range f {
		val := int(f[idx] * float64(math.MaxInt16))
		wavSamples[idx] = wav.Sample{
			Values: [2]int{val, val},
		}
	}
	buf := &bytes.Buffer{}
	wavWriter := wav.NewWriter(buf, uint32(len(f)), 2, uint32(rate), 16)
	if err := wavWriter.WriteSamples(wavSamples); err != nil {
		return err
	}
	_, err := io.Copy(w, buf)
	return err
}
