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
	"context"
	"fmt"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"
)

// A ToolRunner invokes the external dataset tools the pipeline delegates
// to: RPN archive conversion, point-in-time interpolation, flux averaging,
// and hour-to-day concatenation. Implementations either fully succeed or
// return an error that aborts the whole run; no retries.
type ToolRunner interface {
	// ConvertRawArchive populates workDir with one NetCDF file per forecast
	// lead hour of date's forecast run.
	ConvertRawArchive(ctx context.Context, origin ForecastOrigin, date time.Time, rpnDir, workDir string) error

	// InterpolateAtTime writes a full new dataset at outPath by linear
	// interpolation of the datasets at beforePath and afterPath to the
	// given time_counter value.
	InterpolateAtTime(ctx context.Context, timeCounter int, beforePath, afterPath, outPath string) error

	// InterpolateVarAtTime overwrites the named variable in the existing
	// dataset at outPath by interpolation of beforePath and afterPath to
	// the given time_counter value.
	InterpolateVarAtTime(ctx context.Context, name string, timeCounter int, beforePath, afterPath, outPath string) error

	// AverageDiffHours converts instantaneous solar radiation to hour
	// averages and accumulated precipitation to fluxes, reading the hour at
	// hourPath and the preceding hour at prevPath and updating destPath.
	AverageDiffHours(ctx context.Context, prevPath, hourPath, destPath string) error

	// ConcatHoursToDays merges the 24 hourly files named by dayStem into
	// one daily file.
	ConcatHoursToDays(ctx context.Context, dayStem string) error
}

// DefaultToolScript is the shell function library sourced by ShellTools
// before each tool invocation.
const DefaultToolScript = "rpn_netcdf.sh"

// ShellTools runs the external tools as bash functions defined in a shell
// function library.
type ShellTools struct {
	// Script is the path of the shell function library to source.
	// DefaultToolScript is used when empty.
	Script string
}

var _ ToolRunner = (*ShellTools)(nil)

func (s *ShellTools) run(ctx context.Context, bashCmd string) error {
	script := s.Script
	if script == "" {
		script = DefaultToolScript
	}
	cmd := exec.CommandContext(ctx, "bash", "-c", fmt.Sprintf("source %s; %s", script, bashCmd))
	log.Infof("executing: %s", bashCmd)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &ToolError{Cmd: bashCmd, Output: string(out), Err: err}
	}
	log.Debug(string(out))
	return nil
}

func (s *ShellTools) ConvertRawArchive(ctx context.Context, origin ForecastOrigin, date time.Time, rpnDir, workDir string) error {
	return s.run(ctx, fmt.Sprintf("rpn-netcdf %s %s %s %s",
		origin, date.Format("2006-01-02"), rpnDir, workDir))
}

func (s *ShellTools) InterpolateAtTime(ctx context.Context, timeCounter int, beforePath, afterPath, outPath string) error {
	return s.run(ctx, fmt.Sprintf("interp-for-time_counter-value %d %s %s %s",
		timeCounter, beforePath, afterPath, outPath))
}

func (s *ShellTools) InterpolateVarAtTime(ctx context.Context, name string, timeCounter int, beforePath, afterPath, outPath string) error {
	return s.run(ctx, fmt.Sprintf("interp-var-for-time_counter-value %s %d %s %s %s",
		name, timeCounter, beforePath, afterPath, outPath))
}

func (s *ShellTools) AverageDiffHours(ctx context.Context, prevPath, hourPath, destPath string) error {
	return s.run(ctx, fmt.Sprintf("avg-diff-hrs %s %s %s", prevPath, hourPath, destPath))
}

func (s *ShellTools) ConcatHoursToDays(ctx context.Context, dayStem string) error {
	return s.run(ctx, fmt.Sprintf("cat-hrs-to-days %s", dayStem))
}
