/*
Copyright 2019 The Salish Sea MEOPAR contributors
and The University of British Columbia

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

   https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gemlam

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingSource reports that the raw source file for a forecast lead hour
// does not exist. The hour assembler treats it as expected and leaves the
// gap for the repair stages; everywhere else it is fatal.
var ErrMissingSource = errors.New("gemlam: raw source file does not exist")

// A CorruptSourceError reports that a dataset that was about to be used as
// an interpolation source itself carries unresolved missing variables.
// It means the repair ordering invariant was violated and the run cannot
// safely continue.
type CorruptSourceError struct {
	Path        string
	MissingVars []string
}

func (e *CorruptSourceError) Error() string {
	return fmt.Sprintf("gemlam: interpolation source %s has missing variables: %s",
		e.Path, strings.Join(e.MissingVars, ", "))
}

// A SourceNotReadyError reports that the forward bound of an inter-day
// interpolation does not exist yet, meaning the date range or processing
// order is insufficient to repair the gap.
type SourceNotReadyError struct {
	Path string
	Hour time.Time
}

func (e *SourceNotReadyError) Error() string {
	return fmt.Sprintf("gemlam: inter-day interpolation source %s for hour %s does not exist",
		e.Path, e.Hour.Format("2006-01-02 15:04"))
}

// A MissingHoursError reports hours that were still missing when the
// missing-hour scan reached the end of the date range with no later dataset
// to bound an interpolation.
type MissingHoursError struct {
	Hours []time.Time
}

func (e *MissingHoursError) Error() string {
	hrs := make([]string, len(e.Hours))
	for i, h := range e.Hours {
		hrs[i] = h.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("gemlam: missing hours unresolved at end of date range: %s",
		strings.Join(hrs, ", "))
}

// A MissingVarsError reports variables that were still awaiting repair when
// the missing-variable scan reached the end of the date range.
type MissingVarsError struct {
	Vars map[string][]time.Time
}

func (e *MissingVarsError) Error() string {
	var parts []string
	for name, hrs := range e.Vars {
		times := make([]string, len(hrs))
		for i, h := range hrs {
			times[i] = h.Format("2006-01-02 15:04")
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", name, strings.Join(times, ", ")))
	}
	return fmt.Sprintf("gemlam: missing variables unresolved at end of date range: %s",
		strings.Join(parts, "; "))
}

// A ToolError reports a non-zero exit from an external tool invocation,
// carrying the captured output for diagnosis.
type ToolError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("gemlam: external tool %q: %v; output: %s", e.Cmd, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error { return e.Err }
