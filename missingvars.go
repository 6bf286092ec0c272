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
	"time"

	log "github.com/sirupsen/logrus"
)

// solarGapStart and solarGapEnd bracket the known historical gap during
// which no interpolation source for the solar variable exists anywhere in
// the archive. Hours in [solarGapStart, solarGapEnd) get their shortwave
// radiation reconstructed from cloud fraction and solar geometry instead.
var (
	solarGapStart = time.Date(2007, time.February, 1, 0, 0, 0, 0, time.UTC)
	solarGapEnd   = time.Date(2007, time.February, 24, 0, 0, 0, 0, time.UTC)
)

// pendingVars tracks, per variable, the ordered hours at which the variable
// is a NaN placeholder awaiting repair. Flush order follows the order in
// which variables first went missing.
type pendingVars struct {
	order []string
	hrs   map[string][]missingHour
}

func (p *pendingVars) add(name string, m missingHour) {
	if p.hrs == nil {
		p.hrs = make(map[string][]missingHour)
	}
	if _, ok := p.hrs[name]; !ok {
		p.order = append(p.order, name)
	}
	p.hrs[name] = append(p.hrs[name], m)
}

func (p *pendingVars) remove(name string) {
	delete(p.hrs, name)
	order := p.order[:0]
	for _, n := range p.order {
		if n != name {
			order = append(order, n)
		}
	}
	p.order = order
}

// RepairMissingVars scans every absolute hour from the day before start
// through the last hour of end and fills individual placeholder variables
// recorded in each dataset's missing-variable marker. Pending runs of up to
// maxIntraDayGap hours are interpolated per variable between the bounding
// hours; longer runs are interpolated per variable across adjacent days.
// Solar radiation hours inside the known archive gap are reconstructed from
// cloud fraction instead of interpolated. Variables still pending at the
// end of the range are fatal.
func RepairMissingVars(ctx context.Context, tools ToolRunner, workDir, prefix string, start, end time.Time) error {
	first := start.AddDate(0, 0, -1)
	last := end.Add(23 * time.Hour)
	var pending pendingVars
	for hr := first; !hr.After(last); hr = hr.Add(time.Hour) {
		path := hourPath(workDir, prefix, hr)
		_, missing, err := readSourceHeader(path)
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			for _, name := range append([]string(nil), pending.order...) {
				if err := flushPendingVar(ctx, tools, workDir, prefix, name, pending.hrs[name]); err != nil {
					return err
				}
				pending.remove(name)
			}
			continue
		}
		for _, name := range missing {
			if name == "solar" && !hr.Before(solarGapStart) && hr.Before(solarGapEnd) {
				// No interpolation source exists anywhere in the archive for
				// these hours; reconstruct from cloud fraction instead.
				if err := reconstructSolar(path, hr); err != nil {
					return err
				}
				continue
			}
			pending.add(name, missingHour{hr: hr, path: path})
		}
	}
	if len(pending.order) > 0 {
		vars := make(map[string][]time.Time, len(pending.order))
		for _, name := range pending.order {
			for _, m := range pending.hrs[name] {
				vars[name] = append(vars[name], m.hr)
			}
		}
		return &MissingVarsError{Vars: vars}
	}
	return nil
}

// flushPendingVar repairs one variable's pending hours now that a
// subsequent hour with the variable present has been found.
func flushPendingVar(ctx context.Context, tools ToolRunner, workDir, prefix, name string, missing []missingHour) error {
	if len(missing) <= maxIntraDayGap {
		return interpolateMissingVar(ctx, tools, workDir, prefix, name, missing)
	}
	return interpolateInterDayMissingVar(ctx, tools, workDir, prefix, name, missing)
}

// interpolateMissingVar repairs a short pending run of one variable by
// intra-day interpolation, writing only that variable into each already
// existing dataset. A bounding dataset whose marker still names the
// variable cannot serve as a source.
func interpolateMissingVar(ctx context.Context, tools ToolRunner, workDir, prefix, name string, missing []missingHour) error {
	info, err := intraDaySources(workDir, prefix, missing)
	if err != nil {
		return err
	}
	if containsVar(info.prevMissing, name) {
		return &CorruptSourceError{Path: info.prevPath, MissingVars: info.prevMissing}
	}
	if containsVar(info.nextMissing, name) {
		return &CorruptSourceError{Path: info.nextPath, MissingVars: info.nextMissing}
	}
	log.Infof("interpolating %s between %s and %s", name, info.prevPath, info.nextPath)
	for k, m := range missing {
		timeCounter := info.prevTimeCounter + (k+1)*3600
		if err := tools.InterpolateVarAtTime(ctx, name, timeCounter, info.prevPath, info.nextPath, m.path); err != nil {
			return err
		}
		log.Infof("calculated %s for %s by interpolation", name, m.path)
	}
	return nil
}

// interpolateInterDayMissingVar repairs a long pending run of one variable
// hour by hour, interpolating each hour's value from the same hour of day
// on the adjacent calendar days.
func interpolateInterDayMissingVar(ctx context.Context, tools ToolRunner, workDir, prefix, name string, missing []missingHour) error {
	for _, m := range missing {
		info, err := interDaySources(workDir, prefix, m)
		if err != nil {
			return err
		}
		if containsVar(info.prevMissing, name) {
			return &CorruptSourceError{Path: info.prevPath, MissingVars: info.prevMissing}
		}
		if containsVar(info.nextMissing, name) {
			return &CorruptSourceError{Path: info.nextPath, MissingVars: info.nextMissing}
		}
		log.Infof("interpolating %s for hour %03d across days between %s and %s",
			name, m.hr.Hour(), info.prevPath, info.nextPath)
		for day := 0; day < interDays(m); day++ {
			timeCounter := info.prevTimeCounter + (day+1)*86400
			if err := tools.InterpolateVarAtTime(ctx, name, timeCounter, info.prevPath, info.nextPath, m.path); err != nil {
				return err
			}
			log.Infof("calculated %s for %s by inter-day interpolation", name, m.path)
		}
	}
	return nil
}

func containsVar(vars []string, name string) bool {
	for _, v := range vars {
		if v == name {
			return true
		}
	}
	return false
}

// reconstructSolar replaces the solar placeholder in the dataset at path
// with shortwave radiation computed from the hour's cloud fraction field
// and solar geometry, and clears solar from the missing-variable marker.
func reconstructSolar(path string, hr time.Time) error {
	ds, err := ReadHourDataset(path)
	if err != nil {
		return err
	}
	cloudFrac := ds.Field("percentcloud")
	if cloudFrac == nil {
		return fmt.Errorf("gemlam: %s has no percentcloud field to reconstruct solar radiation from", path)
	}
	if ds.HasMissingVar("percentcloud") {
		return &CorruptSourceError{Path: path, MissingVars: ds.MissingVars}
	}
	ds.SetField("solar", cloudToSolar(hr, cloudFrac))
	ds.ClearMissingVar("solar")
	ds.History += fmt.Sprintf("\n%s: Calculate shortwave radiation from cloud fraction and solar geometry",
		time.Now().Format(historyTimeFormat))
	log.Infof("calculated solar for %s from cloud fraction", path)
	return WriteHourDataset(path, ds)
}
