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
	"testing"
	"time"
)

func TestPipelineRun(t *testing.T) {
	workDir := t.TempDir()
	destDir := t.TempDir()
	day := time.Date(2007, time.January, 1, 0, 0, 0, 0, time.UTC)

	// The first hours of the day before the range start come from a
	// forecast run outside the range; seed them as if left by an earlier
	// run so the only gap is the structural one at the day seam.
	prior := day.AddDate(0, 0, -1)
	for h := 0; h <= 6; h++ {
		writeHourFixture(t, workDir, "gemlam", prior.Add(time.Duration(h)*time.Hour), nil)
	}

	tools := &fakeTools{}
	p := &Pipeline{
		Start:    day,
		End:      day,
		Forecast: 6,
		RPNDir:   "/rpn",
		DestDir:  destDir,
		WorkDir:  workDir,
		Tools:    tools,
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if have := len(tools.kindCalls("convert")); have != 2 {
		t.Errorf("converter calls = %d; want 2", have)
	}
	// The one gap is hour 000 of the start day, interpolated between hour
	// 023 of the prior day and hour 001 of the start day.
	interps := tools.kindCalls("interp")
	if len(interps) != 1 {
		t.Fatalf("interpolation calls = %d; want 1", len(interps))
	}
	if want := hourPath(workDir, "gemlam", day); interps[0].paths[2] != want {
		t.Errorf("interpolated %s; want %s", interps[0].paths[2], want)
	}
	if want := int(TimeCounter(prior.Add(23*time.Hour))) + 3600; interps[0].timeCounter != want {
		t.Errorf("interpolation time_counter = %d; want %d", interps[0].timeCounter, want)
	}
	if have := len(tools.kindCalls("interpvar")); have != 0 {
		t.Errorf("per-variable interpolation calls = %d; want 0", have)
	}
	if have := len(tools.kindCalls("avgdiff")); have != 24 {
		t.Errorf("flux adjustment calls = %d; want 24", have)
	}
	concats := tools.kindCalls("concat")
	if len(concats) != 1 {
		t.Fatalf("concatenation calls = %d; want 1", len(concats))
	}
	if want := dayStem(destDir, "gemlam", day); concats[0].paths[0] != want {
		t.Errorf("concatenated %s; want %s", concats[0].paths[0], want)
	}

	// Stages run strictly in order.
	order := map[string]int{"convert": 0, "interp": 1, "avgdiff": 2, "concat": 3}
	prev := -1
	for _, call := range tools.calls {
		stage := order[call.kind]
		if stage < prev {
			t.Fatalf("stage %s ran after a later stage: %v", call.kind, tools.calls)
		}
		prev = stage
	}

	// Every hour of the start day lands in the destination directory, and
	// the repaired day's time counters step by exactly one hour.
	if have := countHourFiles(t, destDir, "gemlam"); have != 24 {
		t.Errorf("destination hour files = %d; want 24", have)
	}
	prevTC := TimeCounter(day) - 3600
	for h := 0; h < 24; h++ {
		hr := day.Add(time.Duration(h) * time.Hour)
		ds, err := ReadHourDataset(hourPath(destDir, "gemlam", hr))
		if err != nil {
			t.Fatal(err)
		}
		if ds.TimeCounter != prevTC+3600 {
			t.Errorf("hour %03d: time_counter = %g; want %g", h, ds.TimeCounter, prevTC+3600)
		}
		prevTC = ds.TimeCounter
	}
}

func TestPipelineRunBadRange(t *testing.T) {
	p := &Pipeline{
		Start: time.Date(2007, time.January, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2007, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := p.Run(context.Background()); err == nil {
		t.Error("want error for end date before start date")
	}
}
