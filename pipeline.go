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
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// A Pipeline generates atmospheric forcing files for a date range. Stages
// run strictly in order over the whole range; each stage consumes the
// filesystem state left by the previous one, with the dataset-per-hour
// file as the unit of hand-off.
type Pipeline struct {
	// Start and End are the first and last calendar days (inclusive, UTC)
	// to generate forcing files for.
	Start, End time.Time

	// Forecast is the HRDPS forecast origin hour: 00, 06, 12, or 18.
	Forecast ForecastOrigin

	// RPNDir is the directory tree in which GEMLAM RPN files are stored in
	// year directories.
	RPNDir string

	// DestDir is the directory the forcing files are written to.
	DestDir string

	// WorkDir is the directory used for intermediate hourly files. When
	// empty, a temporary directory is created and removed when the run
	// finishes; set it to keep the intermediate files for debugging.
	WorkDir string

	// Prefix is the forcing file name prefix; "gemlam" when empty.
	Prefix string

	// Tools runs the external dataset tools; ShellTools with the default
	// function library when nil.
	Tools ToolRunner

	// Rotate rotates grid-relative winds to true north/east;
	// RotateWindsByBearing when nil.
	Rotate WindRotator
}

// Run executes the pipeline: assemble hourly datasets from the RPN archive,
// repair missing hours, repair missing variables, adjust radiation and
// precipitation fluxes, and concatenate the hours of each day into a daily
// forcing file.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("gemlam: end date %s is before start date %s",
			p.End.Format("2006-01-02"), p.Start.Format("2006-01-02"))
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = "gemlam"
	}
	tools := p.Tools
	if tools == nil {
		tools = &ShellTools{}
	}
	rotate := p.Rotate
	if rotate == nil {
		rotate = RotateWindsByBearing
	}
	workDir := p.WorkDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "rpn-to-gemlam-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		workDir = tmp
	} else if err := os.MkdirAll(workDir, 0o755); err != nil {
		return err
	}

	log.Infof("assembling hourly datasets for %s through %s from %s",
		p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"), p.RPNDir)
	if err := AssembleHours(ctx, tools, p.Forecast, p.Start, p.End, p.RPNDir, workDir, prefix, rotate); err != nil {
		return err
	}
	if err := RepairMissingHours(ctx, tools, workDir, prefix, p.Start, p.End); err != nil {
		return err
	}
	if err := RepairMissingVars(ctx, tools, workDir, prefix, p.Start, p.End); err != nil {
		return err
	}
	if err := AdjustFluxes(ctx, tools, workDir, p.DestDir, prefix, p.Start, p.End); err != nil {
		return err
	}
	for day := p.Start; !day.After(p.End); day = day.AddDate(0, 0, 1) {
		if err := tools.ConcatHoursToDays(ctx, dayStem(p.DestDir, prefix, day)); err != nil {
			return err
		}
	}
	return nil
}
