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
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb"
	"go.uber.org/zap"

	"github.com/jarovaisanen/madmom/workerpool"
)

// DefaultSuffix is appended to input basenames to derive batch output names.
const DefaultSuffix = ".onsets.txt"

// Dispatcher drives one pipeline execution per input file.
type Dispatcher struct {
	// Pipeline is run once per file.
	Pipeline *Pipeline
	// Log receives per file progress and failures.
	Log *zap.Logger
	// Workers limits batch concurrency. Zero or less means one file at a time.
	Workers int
	// Progress shows a progress bar during batch runs.
	Progress bool
}

// Single processes one input file. An empty output path writes to stdout.
// Any failure is fatal.
func (d *Dispatcher) Single(inPath, outPath string) error {
	if outPath == "" {
		return d.Pipeline.Run(inPath, os.Stdout)
	}
	return d.runToFile(inPath, outPath)
}

// Batch processes the input files independently. Files may fail without
// aborting the rest; the returned error aggregates all failures. Output
// files are named after the input basename plus the suffix, in outDir or
// next to the input when outDir is empty.
func (d *Dispatcher) Batch(files []string, outDir, suffix string) error {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	workers := d.Workers
	if workers <= 0 {
		workers = 1
	}
	var bar *pb.ProgressBar
	if d.Progress {
		bar = pb.StartNew(len(files))
		defer bar.Finish()
	}
	pool := workerpool.New(workers)
	for _, file := range files {
		file := file
		pool.Go(func() error {
			if bar != nil {
				defer bar.Increment()
			}
			outPath := OutputName(file, outDir, suffix)
			if err := d.runToFile(file, outPath); err != nil {
				d.log().Error("file failed", zap.String("file", file), zap.Error(err))
				return fmt.Errorf("%v: %w", file, err)
			}
			d.log().Debug("file done", zap.String("file", file), zap.String("output", outPath))
			return nil
		})
	}
	return pool.Wait()
}

// OutputName derives the output filename for an input file: the input
// basename, minus its extension, plus the suffix.
func OutputName(inPath, outDir, suffix string) string {
	base := filepath.Base(inPath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + suffix
	if outDir == "" {
		return filepath.Join(filepath.Dir(inPath), base)
	}
	return filepath.Join(outDir, base)
}

func (d *Dispatcher) runToFile(inPath, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := d.Pipeline.Run(inPath, f); err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	return f.Close()
}

func (d *Dispatcher) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
