/* The onsetdetector command detects note onsets in audio files, either live
 * from the waveform or replayed from stored activation curves.
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
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/jarovaisanen/madmom/activations"
	"github.com/jarovaisanen/madmom/onsets"
	"github.com/jarovaisanen/madmom/pipeline"
	"github.com/jarovaisanen/madmom/signals"
)

const defaultFPS = 100

type options struct {
	fs *flag.FlagSet

	threshold  *float64
	smooth     *float64
	preMax     *float64
	postMax    *float64
	preAvg     *float64
	postAvg    *float64
	combine    *float64
	delay      *float64
	fps        *float64
	windowSize *int
	save       *bool
	load       *bool
	configFile *string
	verbose    *bool
}

func newOptions(name string) *options {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &options{
		fs:         fs,
		threshold:  fs.Float64("threshold", 0.5, "Static threshold the activation must exceed, on top of the adaptive mean."),
		smooth:     fs.Float64("smooth", 0, "Width in seconds of the moving average smoothing the activation curve."),
		preMax:     fs.Float64("pre_max", -1, "Seconds before a frame it must be the maximum of. Defaults to one frame period."),
		postMax:    fs.Float64("post_max", -1, "Seconds after a frame it must be the maximum of. Defaults to one frame period."),
		preAvg:     fs.Float64("pre_avg", 0, "Seconds before a frame included in its adaptive mean."),
		postAvg:    fs.Float64("post_avg", 0, "Seconds after a frame included in its adaptive mean."),
		combine:    fs.Float64("combine", 0.03, "Minimum seconds between two reported onsets."),
		delay:      fs.Float64("delay", 0, "Seconds added to every reported onset."),
		fps:        fs.Float64("fps", defaultFPS, "Frame rate of the activation curve."),
		windowSize: fs.Int("window", activations.DefaultWindowSize, "FFT window size of the activation function."),
		save:       fs.Bool("save", false, "Save the activation curve instead of detecting onsets."),
		load:       fs.Bool("load", false, "Treat the input as a saved activation curve instead of audio."),
		configFile: fs.String("config", "", "Replay a configuration stored by the pickle command."),
		verbose:    fs.Bool("v", false, "Verbose logging."),
	}
}

// buildConfig assembles the pipeline configuration: a stored document when
// -config is given, flag values otherwise, with explicitly set flags winning
// in both cases.
func (o *options) buildConfig() (pipeline.Config, error) {
	set := map[string]bool{}
	o.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := pipeline.Config{}
	if *o.configFile != "" {
		loaded, err := pipeline.LoadConfigFile(*o.configFile)
		if err != nil {
			return pipeline.Config{}, err
		}
		cfg = loaded
	}
	if *o.configFile == "" || set["fps"] {
		cfg.FPS = signals.Hz(*o.fps)
	}
	if *o.configFile == "" || set["window"] {
		cfg.WindowSize = *o.windowSize
	}
	if *o.configFile == "" || set["save"] {
		cfg.Save = *o.save
	}
	if *o.configFile == "" || set["load"] {
		cfg.Load = *o.load
	}
	picker := &cfg.Picker
	if *o.configFile == "" {
		*picker = onsets.Config{
			Threshold: *o.threshold,
			Smooth:    signals.Seconds(*o.smooth),
			PreMax:    cfg.FPS.Period(),
			PostMax:   cfg.FPS.Period(),
			PreAvg:    signals.Seconds(*o.preAvg),
			PostAvg:   signals.Seconds(*o.postAvg),
			Combine:   signals.Seconds(*o.combine),
			Delay:     signals.Seconds(*o.delay),
		}
	}
	if set["threshold"] {
		picker.Threshold = *o.threshold
	}
	if set["smooth"] {
		picker.Smooth = signals.Seconds(*o.smooth)
	}
	if set["pre_max"] {
		picker.PreMax = signals.Seconds(*o.preMax)
	}
	if set["post_max"] {
		picker.PostMax = signals.Seconds(*o.postMax)
	}
	if set["pre_avg"] {
		picker.PreAvg = signals.Seconds(*o.preAvg)
	}
	if set["post_avg"] {
		picker.PostAvg = signals.Seconds(*o.postAvg)
	}
	if set["combine"] {
		picker.Combine = signals.Seconds(*o.combine)
	}
	if set["delay"] {
		picker.Delay = signals.Seconds(*o.delay)
	}
	return cfg, nil
}

func (o *options) logger() (*zap.Logger, error) {
	if *o.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %v <command> [flags] <files...>

Commands:
  single <infile>            detect onsets in one file, -o selects an output file
  batch <files...>           detect onsets in many files, -o selects an output directory
  pickle <file>              store the configuration for exact replay via -config
`, os.Args[0])
}

func runSingle(args []string) error {
	opts := newOptions("single")
	outFile := opts.fs.String("o", "", "Output file. Empty writes to stdout.")
	opts.fs.Parse(args)
	if opts.fs.NArg() != 1 {
		opts.fs.Usage()
		os.Exit(1)
	}
	cfg, err := opts.buildConfig()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}
	defer log.Sync()
	pipe, err := pipeline.New(cfg, nil, log)
	if err != nil {
		return err
	}
	d := &pipeline.Dispatcher{Pipeline: pipe, Log: log}
	return d.Single(opts.fs.Arg(0), *outFile)
}

func runBatch(args []string) error {
	opts := newOptions("batch")
	outDir := opts.fs.String("o", "", "Output directory. Empty writes next to each input.")
	suffix := opts.fs.String("s", pipeline.DefaultSuffix, "Suffix appended to input basenames to derive output names.")
	workers := opts.fs.Int("workers", runtime.NumCPU(), "Number of files processed concurrently.")
	opts.fs.Parse(args)
	if opts.fs.NArg() == 0 {
		opts.fs.Usage()
		os.Exit(1)
	}
	cfg, err := opts.buildConfig()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}
	defer log.Sync()
	pipe, err := pipeline.New(cfg, nil, log)
	if err != nil {
		return err
	}
	d := &pipeline.Dispatcher{
		Pipeline: pipe,
		Log:      log,
		Workers:  *workers,
		Progress: true,
	}
	return d.Batch(opts.fs.Args(), *outDir, *suffix)
}

func runPickle(args []string) error {
	opts := newOptions("pickle")
	opts.fs.Parse(args)
	if opts.fs.NArg() != 1 {
		opts.fs.Usage()
		os.Exit(1)
	}
	cfg, err := opts.buildConfig()
	if err != nil {
		return err
	}
	return pipeline.SaveConfigFile(opts.fs.Arg(0), cfg)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	var err error
	switch os.Args[1] {
	case "single":
		err = runSingle(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "pickle":
		err = runPickle(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
