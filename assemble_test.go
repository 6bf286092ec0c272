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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAssembleHoursSingleDay(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2007, time.January, 1, 0, 0, 0, 0, time.UTC)
	tools := &fakeTools{}
	err := AssembleHours(context.Background(), tools, 6, day, day, "/rpn", dir, "gemlam", RotateWindsByBearing)
	if err != nil {
		t.Fatal(err)
	}

	// One conversion per day in [start-1, end].
	converts := tools.kindCalls("convert")
	if len(converts) != 2 {
		t.Fatalf("have %d converter calls; want 2", len(converts))
	}
	if converts[0].paths[0] != "2006-12-31" || converts[1].paths[0] != "2007-01-01" {
		t.Errorf("converter dates = %v, %v; want 2006-12-31, 2007-01-01",
			converts[0].paths, converts[1].paths)
	}

	// Day 2006-12-31: its first 7 hours would come from the 2006-12-30 run,
	// which is outside the range, so hours 0-6 are left as gaps; hours 7-24
	// come from the 2006-12-31 run.
	prior := day.AddDate(0, 0, -1)
	for h := 0; h <= 6; h++ {
		if _, err := os.Stat(filepath.Join(dir, HourFileName("gemlam", prior, h))); !os.IsNotExist(err) {
			t.Errorf("hour %03d of %s should be a gap", h, prior.Format("2006-01-02"))
		}
	}
	for h := 7; h <= 24; h++ {
		if _, err := os.Stat(filepath.Join(dir, HourFileName("gemlam", prior, h))); err != nil {
			t.Errorf("hour %03d of %s: %v", h, prior.Format("2006-01-02"), err)
		}
	}

	// Day 2007-01-01: hour 0 shares its source lead hour with the previous
	// day's seam file and is left as a structural gap for the repair stage;
	// hours 1-24 are all present.
	if _, err := os.Stat(filepath.Join(dir, HourFileName("gemlam", day, 0))); !os.IsNotExist(err) {
		t.Errorf("hour 000 of %s should be a day-seam gap", day.Format("2006-01-02"))
	}
	for h := 1; h <= 24; h++ {
		if _, err := os.Stat(filepath.Join(dir, HourFileName("gemlam", day, h))); err != nil {
			t.Errorf("hour %03d of %s: %v", h, day.Format("2006-01-02"), err)
		}
	}

	// Consumed raw lead-hour files are removed.
	raws, err := filepath.Glob(filepath.Join(dir, "2*.nc"))
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 6 {
		// Leads 19-24 of the 2007-01-01 run feed the next day, which is
		// outside the range, so they stay behind.
		t.Errorf("have %d leftover raw files: %v; want 6", len(raws), raws)
	}
}

func TestAssembleHoursTimeCounters(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2007, time.January, 1, 0, 0, 0, 0, time.UTC)
	tools := &fakeTools{}
	err := AssembleHours(context.Background(), tools, 6, day, day, "/rpn", dir, "gemlam", RotateWindsByBearing)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range []int{1, 6, 7, 23} {
		hr := day.Add(time.Duration(h) * time.Hour)
		ds, err := ReadHourDataset(hourPath(dir, "gemlam", hr))
		if err != nil {
			t.Fatal(err)
		}
		if ds.TimeCounter != TimeCounter(hr) {
			t.Errorf("hour %03d: time_counter = %g; want %g", h, ds.TimeCounter, TimeCounter(hr))
		}
	}
}

func TestAssembleHoursConverterFailure(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2007, time.January, 1, 0, 0, 0, 0, time.UTC)
	tools := &failingTools{}
	err := AssembleHours(context.Background(), tools, 6, day, day, "/rpn", dir, "gemlam", RotateWindsByBearing)
	if _, ok := err.(*ToolError); !ok {
		t.Fatalf("have %v; want *ToolError", err)
	}
}

// failingTools fails every external tool invocation.
type failingTools struct{ fakeTools }

func (f *failingTools) ConvertRawArchive(ctx context.Context, origin ForecastOrigin, date time.Time, rpnDir, workDir string) error {
	return &ToolError{Cmd: "rpn-netcdf", Output: "no such archive", Err: os.ErrNotExist}
}
