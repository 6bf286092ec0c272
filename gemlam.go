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

// Package gemlam generates atmospheric forcing files for the SalishSeaCast
// NEMO model from the ECCC 2007-2014 archival GEMLAM files produced by the
// experimental phase of the HRDPS model.
//
// The pipeline converts each day's RPN archive into per-hour NetCDF datasets,
// derives the physical fields the ocean model needs (humidity, longwave
// radiation, rotated winds), repairs missing hours and missing variables by
// time interpolation, and concatenates the repaired hours into per-day files.
package gemlam

import (
	"fmt"
	"path/filepath"
	"time"
)

// Version is the version of this package.
const Version = "0.6.0"

// timeCounterUnits is the units attribute attached to the time_counter
// coordinate of every hourly dataset. All time_counter values are counted
// from this epoch.
const timeCounterUnits = "seconds since 1950-01-01 00:00:00"

// timeCounterEpoch is the epoch that time_counter values are counted from.
var timeCounterEpoch = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

// historyTimeFormat is the timestamp format used for dataset history lines.
const historyTimeFormat = "Mon Jan 02 15:04:05 2006"

// rawDateFormat is the date format embedded in converted RPN hour file names.
const rawDateFormat = "20060102"

// TimeCounter returns the time_counter value (seconds since the 1950-01-01
// epoch) for the given time.
func TimeCounter(t time.Time) float64 {
	return t.Sub(timeCounterEpoch).Seconds()
}

// ForecastOrigin is the hour of day (00, 06, 12, or 18) at which an HRDPS
// forecast run starts. It determines how the run's lead hours split across
// the calendar day boundary.
type ForecastOrigin int

// ParseForecastOrigin parses a forecast origin hour given as a 2 digit
// string; 00, 06, 12, and 18 are the only valid values.
func ParseForecastOrigin(s string) (ForecastOrigin, error) {
	switch s {
	case "00", "06", "12", "18":
		return ForecastOrigin(10*int(s[0]-'0') + int(s[1]-'0')), nil
	}
	return 0, fmt.Errorf("gemlam: invalid forecast origin %q; must be 00, 06, 12, or 18", s)
}

func (f ForecastOrigin) String() string { return fmt.Sprintf("%02d", int(f)) }

// fileDate formats a date the way it appears in hourly and daily forcing
// file names, e.g. y2007m01d01.
func fileDate(t time.Time) string {
	return fmt.Sprintf("y%dm%02dd%02d", t.Year(), int(t.Month()), t.Day())
}

// HourFileName returns the name of the hourly forcing dataset for the given
// calendar day and hour index. Hour indexes run from 0 through 24; index 24
// is the day-seam duplicate written by the assembler and never scanned.
func HourFileName(prefix string, day time.Time, hour int) string {
	return fmt.Sprintf("%s_%s_%03d.nc", prefix, fileDate(day), hour)
}

// hourPath returns the path of the hourly forcing dataset addressed by the
// date and hour of day of t.
func hourPath(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, HourFileName(prefix, t, t.Hour()))
}

// dayStem returns the daily forcing file path for the given day, without
// the .nc suffix.
func dayStem(dir, prefix string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s", prefix, fileDate(day)))
}

// rawHourPath returns the path of a converted RPN lead-hour file for the
// forecast run of the given day.
func rawHourPath(dir string, origin ForecastOrigin, runDay time.Time, leadHour int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s_%03d.nc", runDay.Format(rawDateFormat), origin, leadHour))
}
