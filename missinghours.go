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
	"time"

	log "github.com/sirupsen/logrus"
)

// maxIntraDayGap is the longest run of consecutive missing hours that is
// repaired by intra-day interpolation between the nearest real hours;
// longer runs are repaired hour by hour across adjacent days.
const maxIntraDayGap = 4

// RepairMissingHours scans every absolute hour from the day before start
// through the last hour of end and fills hours whose dataset file is
// missing by time interpolation. Runs of up to maxIntraDayGap hours are
// interpolated between the bounding real hours; longer runs are
// interpolated hour by hour from the same hour of day on the adjacent
// days. A run left unbounded at the end of the range is fatal.
func RepairMissingHours(ctx context.Context, tools ToolRunner, workDir, prefix string, start, end time.Time) error {
	first := start.AddDate(0, 0, -1)
	last := end.Add(23 * time.Hour)
	var missing []missingHour
	for hr := first; !hr.After(last); hr = hr.Add(time.Hour) {
		path := hourPath(workDir, prefix, hr)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			missing = append(missing, missingHour{hr: hr, path: path})
			continue
		} else if err != nil {
			return err
		}
		if len(missing) == 0 {
			continue
		}
		var err error
		if len(missing) <= maxIntraDayGap {
			err = interpolateMissingHours(ctx, tools, workDir, prefix, missing)
		} else {
			err = interpolateInterDayHours(ctx, tools, workDir, prefix, missing)
		}
		if err != nil {
			return err
		}
		missing = nil
	}
	if len(missing) > 0 {
		hrs := make([]time.Time, len(missing))
		for i, m := range missing {
			hrs[i] = m.hr
		}
		return &MissingHoursError{Hours: hrs}
	}
	return nil
}

// interpolateMissingHours repairs a short run of missing hours by intra-day
// interpolation between the hour before the run and the hour after it.
// Both bounding datasets must be free of the missing-variable marker; the
// pipeline cannot safely bootstrap from a placeholder-filled source.
func interpolateMissingHours(ctx context.Context, tools ToolRunner, workDir, prefix string, missing []missingHour) error {
	info, err := intraDaySources(workDir, prefix, missing)
	if err != nil {
		return err
	}
	if len(info.prevMissing) > 0 {
		log.Errorf("this will not end well: found missing %v variables in previous available hour dataset "+
			"during preparation to interpolate missing hours: %s", info.prevMissing, info.prevPath)
		return &CorruptSourceError{Path: info.prevPath, MissingVars: info.prevMissing}
	}
	if len(info.nextMissing) > 0 {
		log.Errorf("this will not end well: found missing %v variables in next available hour dataset "+
			"during preparation to interpolate missing hours: %s", info.nextMissing, info.nextPath)
		return &CorruptSourceError{Path: info.nextPath, MissingVars: info.nextMissing}
	}
	log.Infof("interpolating missing hours between %s and %s", info.prevPath, info.nextPath)
	for k, m := range missing {
		timeCounter := info.prevTimeCounter + (k+1)*3600
		if err := tools.InterpolateAtTime(ctx, timeCounter, info.prevPath, info.nextPath, m.path); err != nil {
			return err
		}
		log.Infof("created %s by interpolation", m.path)
	}
	return nil
}

// interpolateInterDayHours repairs a long run of missing hours one hour at
// a time, interpolating each from the same hour of day on the adjacent
// calendar days.
func interpolateInterDayHours(ctx context.Context, tools ToolRunner, workDir, prefix string, missing []missingHour) error {
	for _, m := range missing {
		info, err := interDaySources(workDir, prefix, m)
		if err != nil {
			return err
		}
		if len(info.prevMissing) > 0 {
			return &CorruptSourceError{Path: info.prevPath, MissingVars: info.prevMissing}
		}
		if len(info.nextMissing) > 0 {
			return &CorruptSourceError{Path: info.nextPath, MissingVars: info.nextMissing}
		}
		log.Infof("interpolating hour %03d across days between %s and %s",
			m.hr.Hour(), info.prevPath, info.nextPath)
		for day := 0; day < interDays(m); day++ {
			timeCounter := info.prevTimeCounter + (day+1)*86400
			if err := tools.InterpolateAtTime(ctx, timeCounter, info.prevPath, info.nextPath, m.path); err != nil {
				return err
			}
			log.Infof("created %s by inter-day interpolation", m.path)
		}
	}
	return nil
}
