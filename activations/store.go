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
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/jarovaisanen/madmom/signals"
)

// storeVersion is the version of the persisted activation record. Bump when
// the record layout changes.
const storeVersion = 1

// record is the persisted representation of a Sequence. Values are stored as
// float64 so the round trip is bit exact.
type record struct {
	Version int
	FPS     float64
	Length  int
	Values  []float64
}

// CorruptActivationError means a persisted activation could not be decoded,
// or decoded into an inconsistent record.
type CorruptActivationError struct {
	Reason string
	Err    error
}

func (e *CorruptActivationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt activation file: %v: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt activation file: %v", e.Reason)
}

func (e *CorruptActivationError) Unwrap() error {
	return e.Err
}

// Save writes the sequence to the writer so that Load returns an identical
// sequence: values bit for bit, frame rate exactly.
func Save(w io.Writer, seq Sequence) error {
	if err := seq.Validate(); err != nil {
		return err
	}
	return gob.NewEncoder(w).Encode(record{
		Version: storeVersion,
		FPS:     float64(seq.FPS),
		Length:  seq.Len(),
		Values:  seq.Values,
	})
}

// Load reads a sequence persisted by Save.
func Load(r io.Reader) (Sequence, error) {
	rec := record{}
	if err := gob.NewDecoder(r).Decode(&rec); err != nil {
		return Sequence{}, &CorruptActivationError{Reason: "undecodable record", Err: err}
	}
	if rec.Version != storeVersion {
		return Sequence{}, &CorruptActivationError{Reason: fmt.Sprintf("unsupported version %v, want %v", rec.Version, storeVersion)}
	}
	if rec.FPS <= 0 {
		return Sequence{}, &CorruptActivationError{Reason: fmt.Sprintf("non-positive frame rate %v", rec.FPS)}
	}
	if rec.Length != len(rec.Values) {
		return Sequence{}, &CorruptActivationError{Reason: fmt.Sprintf("declared length %v but %v values", rec.Length, len(rec.Values))}
	}
	values := signals.Float64Slice(rec.Values)
	if values == nil {
		values = signals.Float64Slice{}
	}
	return Sequence{Values: values, FPS: signals.Hz(rec.FPS)}, nil
}

// SaveFile persists the sequence to a file.
func SaveFile(path string, seq Sequence) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, seq); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a sequence persisted by SaveFile.
func LoadFile(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sequence{}, err
	}
	defer f.Close()
	return Load(f)
}
