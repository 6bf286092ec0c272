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
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ctessum/cdf"
)

func TestHourDatasetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gemlam_y2007m01d01_003.nc")
	lon, lat := testGrid()
	hr := time.Date(2007, time.January, 1, 3, 0, 0, 0, time.UTC)
	ds := &HourDataset{
		Lon:         lon,
		Lat:         lat,
		TimeCounter: TimeCounter(hr),
		History:     "Thu Sep 12 14:48:21 2019: Convert RPN fields",
	}
	ds.SetField("tair", constArray(278.4))
	ds.SetField("atmpres", constArray(101200))
	if err := WriteHourDataset(path, ds); err != nil {
		t.Fatal(err)
	}

	have, err := ReadHourDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	if have.TimeCounter != ds.TimeCounter {
		t.Errorf("TimeCounter = %g; want %g", have.TimeCounter, ds.TimeCounter)
	}
	if have.History != ds.History {
		t.Errorf("History = %q; want %q", have.History, ds.History)
	}
	if len(have.MissingVars) != 0 {
		t.Errorf("MissingVars = %v; want none", have.MissingVars)
	}
	if !reflect.DeepEqual(have.FieldNames(), []string{"tair", "atmpres"}) {
		t.Errorf("FieldNames = %v; want [tair atmpres]", have.FieldNames())
	}
	// Coordinates are stored at full precision, fields at single precision.
	arrayCompare(have.Lon, lon, 1.0e-12, "nav_lon", t)
	arrayCompare(have.Lat, lat, 1.0e-12, "nav_lat", t)
	arrayCompare(have.Field("tair"), ds.Field("tair"), 1.0e-6, "tair", t)
	arrayCompare(have.Field("atmpres"), ds.Field("atmpres"), 1.0e-6, "atmpres", t)
}

func TestHourDatasetMissingVarsMarker(t *testing.T) {
	dir := t.TempDir()
	hr := time.Date(2007, time.February, 10, 6, 0, 0, 0, time.UTC)
	path := writeHourFixture(t, dir, "gemlam", hr, []string{"solar", "precip"})

	have, err := ReadHourDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have.MissingVars, []string{"solar", "precip"}) {
		t.Errorf("MissingVars = %v; want [solar precip]", have.MissingVars)
	}
	if !have.HasMissingVar("solar") || have.HasMissingVar("tair") {
		t.Error("HasMissingVar gives wrong answers")
	}
	have.ClearMissingVar("solar")
	if !reflect.DeepEqual(have.MissingVars, []string{"precip"}) {
		t.Errorf("MissingVars after clear = %v; want [precip]", have.MissingVars)
	}
	have.ClearMissingVar("precip")
	if have.MissingVars != nil {
		t.Errorf("MissingVars after clearing all = %v; want nil", have.MissingVars)
	}
}

func TestWriteHourDatasetEncoding(t *testing.T) {
	dir := t.TempDir()
	hr := time.Date(2007, time.January, 1, 0, 0, 0, 0, time.UTC)
	path := writeHourFixture(t, dir, "gemlam", hr, nil)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	if !ff.Header.IsRecordVariable("tair") {
		t.Error("tair is not a record variable")
	}
	if ff.Header.IsRecordVariable("nav_lon") {
		t.Error("nav_lon is a record variable")
	}
	if have := ff.Header.GetAttribute("time_counter", "units"); have != timeCounterUnits {
		t.Errorf("time_counter units = %v; want %q", have, timeCounterUnits)
	}
	if have := ff.Header.GetAttribute("tair", "units"); have != "K" {
		t.Errorf("tair units = %v; want K", have)
	}
	// The marker attribute must be absent, not empty, when nothing is
	// missing; downstream tooling checks for its presence.
	if att := ff.Header.GetAttribute("", "missing_variables"); att != nil {
		t.Errorf("missing_variables attribute present on complete dataset: %v", att)
	}
}

func TestParseMissingVars(t *testing.T) {
	if have := parseMissingVars(""); have != nil {
		t.Errorf("parseMissingVars(\"\") = %v; want nil", have)
	}
	have := parseMissingVars("solar, precip")
	if !reflect.DeepEqual(have, []string{"solar", "precip"}) {
		t.Errorf("parseMissingVars = %v; want [solar precip]", have)
	}
	if have := joinMissingVars([]string{"solar", "precip"}); have != "solar, precip" {
		t.Errorf("joinMissingVars = %q", have)
	}
}
