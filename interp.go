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
	"fmt"
	"os"
	"time"

	"github.com/ctessum/cdf"
)

// A missingHour is a pending repair unit: the absolute hour and the dataset
// path it must eventually occupy.
type missingHour struct {
	hr   time.Time
	path string
}

// interpInfo describes the two bounding datasets of an interpolation: their
// paths, the time_counter of the earlier bound, and the missing-variable
// markers both carry. It is shared by the hour-level and variable-level
// repair paths so the bound-lookup arithmetic lives in one place.
type interpInfo struct {
	prevPath, nextPath       string
	prevTimeCounter          int
	prevMissing, nextMissing []string
}

// interpSources reads the time_counter and missing-variable marker of the
// bounding datasets at prevPath and nextPath.
func interpSources(prevPath, nextPath string) (interpInfo, error) {
	info := interpInfo{prevPath: prevPath, nextPath: nextPath}
	tc, missing, err := readSourceHeader(prevPath)
	if err != nil {
		return info, err
	}
	info.prevTimeCounter = int(tc)
	info.prevMissing = missing
	if _, info.nextMissing, err = readSourceHeader(nextPath); err != nil {
		return info, err
	}
	return info, nil
}

// readSourceHeader reads just the time_counter value and missing-variable
// marker of the dataset at path.
func readSourceHeader(path string) (float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return 0, nil, fmt.Errorf("gemlam: open netcdf file %s: %v", path, err)
	}
	r := ff.Reader("time_counter", []int{0}, []int{1})
	buf := r.Zero(1)
	if _, err := r.Read(buf); err != nil {
		return 0, nil, fmt.Errorf("gemlam: read time_counter from %s: %v", path, err)
	}
	return toFloat64(buf), parseMissingVars(globalStringAttr(ff, "missing_variables")), nil
}

// intraDaySources returns the interpolation bounds for a run of consecutive
// missing hours: exactly one hour before the run's start and one hour after
// its end.
func intraDaySources(workDir, prefix string, run []missingHour) (interpInfo, error) {
	prev := run[0].hr.Add(-time.Hour)
	next := run[len(run)-1].hr.Add(time.Hour)
	return interpSources(hourPath(workDir, prefix, prev), hourPath(workDir, prefix, next))
}

// interDaySources returns the interpolation bounds for one missing hour
// repaired across days: the same hour of day one calendar day earlier and
// one calendar day later. The later bound must already exist; inter-day
// repair requires forward progress of the outer day loop.
func interDaySources(workDir, prefix string, m missingHour) (interpInfo, error) {
	prev := m.hr.AddDate(0, 0, -1)
	next := m.hr.AddDate(0, 0, 1)
	nextPath := hourPath(workDir, prefix, next)
	if _, err := os.Stat(nextPath); os.IsNotExist(err) {
		return interpInfo{}, &SourceNotReadyError{Path: nextPath, Hour: m.hr}
	}
	return interpSources(hourPath(workDir, prefix, prev), nextPath)
}

// interDays returns the number of whole days strictly between the bounds of
// info's inter-day interpolation for hour m.
func interDays(m missingHour) int {
	prev := m.hr.AddDate(0, 0, -1)
	next := m.hr.AddDate(0, 0, 1)
	return int(next.Sub(prev).Hours()/24) - 1
}
