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
	"io"
	"os"
	"path/filepath"
	"time"
)

// AdjustFluxes copies each repaired hourly dataset in [start, end] to
// destDir and invokes the external flux tool on it. Solar radiation becomes
// the average of the instantaneous values from the hour and the preceding
// hour; precipitation flux is calculated from hour-to-hour differences of
// the accumulated precipitation. The preceding hour of the range's first
// hour is the last hour of the day before start, which the assembler always
// produces.
func AdjustFluxes(ctx context.Context, tools ToolRunner, workDir, destDir, prefix string, start, end time.Time) error {
	last := end.Add(23 * time.Hour)
	for hr := start; !hr.After(last); hr = hr.Add(time.Hour) {
		prevPath := hourPath(workDir, prefix, hr.Add(-time.Hour))
		srcPath := hourPath(workDir, prefix, hr)
		destPath := filepath.Join(destDir, filepath.Base(srcPath))
		if err := copyFile(srcPath, destPath); err != nil {
			return err
		}
		if err := tools.AverageDiffHours(ctx, prevPath, srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
