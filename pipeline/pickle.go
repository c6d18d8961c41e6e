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
package pipeline

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jarovaisanen/madmom/onsets"
	"github.com/jarovaisanen/madmom/signals"
)

// configVersion is the version of the persisted configuration document.
const configVersion = 1

// configDocument is the stable serialized form of a Config. Replaying a
// stored document reproduces the exact run it was written from.
type configDocument struct {
	Version    int            `yaml:"version"`
	FPS        float64        `yaml:"fps"`
	WindowSize int            `yaml:"window_size"`
	Save       bool           `yaml:"save"`
	Load       bool           `yaml:"load"`
	Picker     pickerDocument `yaml:"peak_picking"`
}

type pickerDocument struct {
	Threshold float64 `yaml:"threshold"`
	Smooth    float64 `yaml:"smooth"`
	PreMax    float64 `yaml:"pre_max"`
	PostMax   float64 `yaml:"post_max"`
	PreAvg    float64 `yaml:"pre_avg"`
	PostAvg   float64 `yaml:"post_avg"`
	Combine   float64 `yaml:"combine"`
	Delay     float64 `yaml:"delay"`
}

// SaveConfig writes the configuration as a versioned YAML document.
func SaveConfig(w io.Writer, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	doc := configDocument{
		Version:    configVersion,
		FPS:        float64(cfg.FPS),
		WindowSize: cfg.WindowSize,
		Save:       cfg.Save,
		Load:       cfg.Load,
		Picker: pickerDocument{
			Threshold: cfg.Picker.Threshold,
			Smooth:    float64(cfg.Picker.Smooth),
			PreMax:    float64(cfg.Picker.PreMax),
			PostMax:   float64(cfg.Picker.PostMax),
			PreAvg:    float64(cfg.Picker.PreAvg),
			PostAvg:   float64(cfg.Picker.PostAvg),
			Combine:   float64(cfg.Picker.Combine),
			Delay:     float64(cfg.Picker.Delay),
		},
	}
	return yaml.NewEncoder(w).Encode(doc)
}

// LoadConfig reads a configuration document written by SaveConfig, rejecting
// unknown versions and invalid parameters.
func LoadConfig(r io.Reader) (Config, error) {
	doc := configDocument{}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Config{}, fmt.Errorf("undecodable configuration: %w", err)
	}
	if doc.Version != configVersion {
		return Config{}, fmt.Errorf("unsupported configuration version %v, want %v", doc.Version, configVersion)
	}
	cfg := Config{
		FPS:        signals.Hz(doc.FPS),
		WindowSize: doc.WindowSize,
		Save:       doc.Save,
		Load:       doc.Load,
		Picker: onsets.Config{
			Threshold: doc.Picker.Threshold,
			Smooth:    signals.Seconds(doc.Picker.Smooth),
			PreMax:    signals.Seconds(doc.Picker.PreMax),
			PostMax:   signals.Seconds(doc.Picker.PostMax),
			PreAvg:    signals.Seconds(doc.Picker.PreAvg),
			PostAvg:   signals.Seconds(doc.Picker.PostAvg),
			Combine:   signals.Seconds(doc.Picker.Combine),
			Delay:     signals.Seconds(doc.Picker.Delay),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfigFile persists the configuration to a file.
func SaveConfigFile(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := SaveConfig(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadConfigFile reads a configuration persisted by SaveConfigFile.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}
