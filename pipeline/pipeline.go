/* Package pipeline composes the onset detection stages and dispatches them
 * over input files.
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
package pipeline

import (
	"fmt"
	"io"

	"github.com/jarovaisanen/madmom/activations"
	"github.com/jarovaisanen/madmom/onsets"
	"github.com/jarovaisanen/madmom/signals"
	"go.uber.org/zap"
)

// Mode selects which stages of the pipeline run for one input file.
type Mode int

const (
	// ComputeAndDetect runs signal -> activation -> peak picking -> sink.
	ComputeAndDetect Mode = iota
	// ComputeAndSave runs signal -> activation -> store, skipping peak picking.
	ComputeAndSave
	// LoadAndDetect runs store -> peak picking -> sink, skipping the signal
	// and the activation function entirely.
	LoadAndDetect
)

func (m Mode) String() string {
	switch m {
	case ComputeAndDetect:
		return "ComputeAndDetect"
	case ComputeAndSave:
		return "ComputeAndSave"
	case LoadAndDetect:
		return "LoadAndDetect"
	}
	return "Unknown"
}

// Config is the full, validated configuration of one pipeline run.
type Config struct {
	// FPS is the frame rate of the activation curve.
	FPS signals.Hz
	// WindowSize is the FFT window size of the activation function. Zero
	// selects the default.
	WindowSize int
	// Save persists the activation curve instead of picking peaks.
	Save bool
	// Load reads a persisted activation curve instead of computing one.
	Load bool
	// Picker holds the peak picking parameters.
	Picker onsets.Config
}

// Mode returns the pipeline mode the configuration selects. Load wins over
// Save; requesting both, or neither, falls back to ComputeAndDetect.
func (c Config) Mode() Mode {
	switch {
	case c.Load && !c.Save:
		return LoadAndDetect
	case c.Save && !c.Load:
		return ComputeAndSave
	}
	return ComputeAndDetect
}

// Validate checks the configuration eagerly, before any file is touched.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("frame rate must be positive, got %v", c.FPS)
	}
	if c.WindowSize < 0 {
		return fmt.Errorf("window size must not be negative, got %v", c.WindowSize)
	}
	return c.Picker.Validate()
}

// Pipeline is a fixed sequence of stages selected by the configured mode.
// It is pure given (signal or stored activation, configuration): running it
// twice over the same input yields identical output.
type Pipeline struct {
	cfg Config
	fn  activations.Function
	log *zap.Logger
}

// New validates the configuration and returns a pipeline. A nil function
// selects the built in spectral flux; a nil logger disables logging.
func New(cfg Config, fn activations.Function, log *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fn == nil {
		fn = activations.SpectralFlux{FPS: cfg.FPS, WindowSize: cfg.WindowSize}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, fn: fn, log: log}, nil
}

// Mode returns the mode the pipeline runs in.
func (p *Pipeline) Mode() Mode {
	return p.cfg.Mode()
}

// Run executes the pipeline for one input file and writes the result, onsets
// or a persisted activation curve, to the writer.
func (p *Pipeline) Run(inPath string, out io.Writer) error {
	seq, err := p.activation(inPath)
	if err != nil {
		return err
	}
	if p.cfg.Mode() == ComputeAndSave {
		p.log.Debug("saving activations", zap.String("file", inPath), zap.Int("frames", seq.Len()))
		return activations.Save(out, seq)
	}
	picked, err := onsets.Pick(seq, p.cfg.Picker)
	if err != nil {
		return err
	}
	p.log.Debug("picked onsets", zap.String("file", inPath), zap.Int("count", len(picked)))
	return WriteOnsets(out, picked)
}

// activation produces the curve for one input, either by loading it or by
// decoding the signal and running the activation function over it.
func (p *Pipeline) activation(inPath string) (activations.Sequence, error) {
	if p.cfg.Mode() == LoadAndDetect {
		p.log.Debug("loading activations", zap.String("file", inPath))
		return activations.LoadFile(inPath)
	}
	sig, err := signals.LoadWAV(inPath)
	if err != nil {
		return activations.Sequence{}, err
	}
	p.log.Debug("computing activations",
		zap.String("file", inPath),
		zap.Float64("seconds", float64(sig.Duration())),
		zap.Int("channels", sig.Channels))
	return p.fn.Process(sig)
}

// WriteOnsets writes one timestamp per line, in seconds with millisecond
// precision.
func WriteOnsets(w io.Writer, picked []signals.Seconds) error {
	for _, onset := range picked {
		if _, err := fmt.Fprintf(w, "%.3f\n", float64(onset)); err != nil {
			return err
		}
	}
	return nil
}
