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
	"errors"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// AssembleHours converts each calendar day's RPN archive in [start-1, end]
// into hourly forcing datasets in workDir. For each day the external
// converter is invoked once, then every lead hour of the day's forecast run
// is passed through DeriveHour and the consumed raw file is removed. A lead
// hour whose raw file is absent is skipped, leaving a gap for the repair
// stages to detect.
//
// The forecast origin determines how lead hours split across the day
// boundary: lead hours [24-origin, 24] of the previous day's run become the
// first origin+1 hour files of a day, and lead hours [1, 24-origin] of the
// day's own run become the rest.
func AssembleHours(ctx context.Context, tools ToolRunner, origin ForecastOrigin, start, end time.Time, rpnDir, workDir, prefix string, rotate WindRotator) error {
	f := int(origin)
	for day := start.AddDate(0, 0, -1); !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := tools.ConvertRawArchive(ctx, origin, day, rpnDir, workDir); err != nil {
			return err
		}
		for hr := 24 - f; hr <= 24; hr++ {
			rawPath := rawHourPath(workDir, origin, day.AddDate(0, 0, -1), hr)
			outPath := filepath.Join(workDir, HourFileName(prefix, day, hr-(24-f)))
			if err := deriveLeadHour(rawPath, outPath, rotate); err != nil {
				return err
			}
		}
		for hr := 0; hr < 24-f; hr++ {
			rawPath := rawHourPath(workDir, origin, day, hr+1)
			outPath := filepath.Join(workDir, HourFileName(prefix, day, hr+1+f))
			if err := deriveLeadHour(rawPath, outPath, rotate); err != nil {
				return err
			}
		}
	}
	return nil
}

// deriveLeadHour derives one lead hour's forcing dataset and removes the
// consumed raw file. A missing raw file is expected here; the repair stages
// fill the gap in later.
func deriveLeadHour(rawPath, outPath string, rotate WindRotator) error {
	switch err := DeriveHour(rawPath, outPath, rotate); {
	case err == nil:
		return os.Remove(rawPath)
	case errors.Is(err, ErrMissingSource):
		log.Debugf("missing forecast hour %s; will fill it in later", rawPath)
		return nil
	default:
		return err
	}
}
