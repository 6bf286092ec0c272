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
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// An HourDataset is a gridded atmospheric snapshot for one hour.
// All fields share the shape of the Lon/Lat coordinate grid.
// Fields named in MissingVars hold NaN placeholders awaiting repair by
// interpolation; on disk they are flagged by the missing_variables global
// attribute.
type HourDataset struct {
	Lon, Lat *sparse.DenseArray

	// TimeCounter is seconds since 1950-01-01 00:00:00 UTC, the ordering
	// and interpolation key for hourly datasets.
	TimeCounter float64

	History     string
	MissingVars []string

	names  []string
	fields map[string]*sparse.DenseArray
}

// SetField adds or replaces the named field, preserving insertion order
// for fields seen for the first time.
func (d *HourDataset) SetField(name string, data *sparse.DenseArray) {
	if d.fields == nil {
		d.fields = make(map[string]*sparse.DenseArray)
	}
	if _, ok := d.fields[name]; !ok {
		d.names = append(d.names, name)
	}
	d.fields[name] = data
}

// Field returns the named field, or nil if the dataset doesn't have it.
func (d *HourDataset) Field(name string) *sparse.DenseArray { return d.fields[name] }

// FieldNames returns the field names in insertion order.
func (d *HourDataset) FieldNames() []string { return d.names }

// HasMissingVar reports whether the named field is a placeholder.
func (d *HourDataset) HasMissingVar(name string) bool {
	for _, v := range d.MissingVars {
		if v == name {
			return true
		}
	}
	return false
}

// ClearMissingVar removes the named field from the missing-variable marker.
func (d *HourDataset) ClearMissingVar(name string) {
	vars := d.MissingVars[:0]
	for _, v := range d.MissingVars {
		if v != name {
			vars = append(vars, v)
		}
	}
	d.MissingVars = vars
	if len(d.MissingVars) == 0 {
		d.MissingVars = nil
	}
}

// missing_variables is comma-space-joined on disk.

func parseMissingVars(marker string) []string {
	if marker == "" {
		return nil
	}
	return strings.Split(marker, ", ")
}

func joinMissingVars(vars []string) string { return strings.Join(vars, ", ") }

// varNotFoundError reports a variable absent from a NetCDF file.
type varNotFoundError struct{ name string }

func (e *varNotFoundError) Error() string {
	return fmt.Sprintf("gemlam: variable %s not in file", e.name)
}

func isVarNotFound(err error) bool {
	_, ok := err.(*varNotFoundError)
	return ok
}

// readField reads the first record of the named variable out of NetCDF file
// ff and squeezes leading singleton dimensions down to the 2-D grid shape.
func readField(ff *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, &varNotFoundError{name}
	}
	var buf interface{}
	if ff.Header.IsRecordVariable(name) {
		dims = dims[1:]
		nread := 1
		for _, dim := range dims {
			nread *= dim
		}
		start, end := make([]int, len(dims)+1), make([]int, len(dims)+1)
		start[0], end[0] = 0, 1
		r := ff.Reader(name, start, end)
		buf = r.Zero(nread)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("gemlam: read netcdf variable %s: %v", name, err)
		}
	} else {
		r := ff.Reader(name, nil, nil)
		buf = r.Zero(-1)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("gemlam: read netcdf variable %s: %v", name, err)
		}
	}
	// Sources carry a singleton vertical axis that the ocean model will not
	// tolerate; squeeze down to 2-D.
	for len(dims) > 2 && dims[0] == 1 {
		dims = dims[1:]
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("gemlam: netcdf variable %s has unsupported type %T", name, buf)
	}
	return data, nil
}

// globalStringAttr returns the named global attribute, or "" if absent.
func globalStringAttr(ff *cdf.File, name string) string {
	att := ff.Header.GetAttribute("", name)
	if att == nil {
		return ""
	}
	if s, ok := att.(string); ok {
		return s
	}
	return ""
}

// ReadHourDataset reads an hourly forcing dataset from path.
func ReadHourDataset(path string) (*HourDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("gemlam: open netcdf file %s: %v", path, err)
	}
	ds := &HourDataset{
		History:     globalStringAttr(ff, "history"),
		MissingVars: parseMissingVars(globalStringAttr(ff, "missing_variables")),
	}
	for _, name := range ff.Header.Variables() {
		switch name {
		case "time_counter":
			r := ff.Reader(name, []int{0}, []int{1})
			buf := r.Zero(1)
			if _, err := r.Read(buf); err != nil {
				return nil, fmt.Errorf("gemlam: read time_counter from %s: %v", path, err)
			}
			ds.TimeCounter = buf.([]float64)[0]
		case "nav_lon":
			if ds.Lon, err = readField(ff, name); err != nil {
				return nil, err
			}
		case "nav_lat":
			if ds.Lat, err = readField(ff, name); err != nil {
				return nil, err
			}
		default:
			data, err := readField(ff, name)
			if err != nil {
				return nil, err
			}
			ds.SetField(name, data)
		}
	}
	return ds, nil
}

// WriteHourDataset writes an hourly forcing dataset to path, encoding the
// time_counter coordinate as a float count of seconds since the 1950-01-01
// epoch with its dimension marked unlimited.
func WriteHourDataset(path string, ds *HourDataset) error {
	if ds.Lon == nil || len(ds.Lon.Shape) != 2 {
		return fmt.Errorf("gemlam: write %s: dataset has no 2-D coordinate grid", path)
	}
	ny, nx := ds.Lon.Shape[0], ds.Lon.Shape[1]

	h := cdf.NewHeader([]string{"time_counter", "y", "x"}, []int{0, ny, nx})
	if ds.History != "" {
		h.AddAttribute("", "history", ds.History)
	}
	if len(ds.MissingVars) > 0 {
		h.AddAttribute("", "missing_variables", joinMissingVars(ds.MissingVars))
	}
	h.AddVariable("time_counter", []string{"time_counter"}, []float64{0})
	h.AddAttribute("time_counter", "units", timeCounterUnits)
	h.AddAttribute("time_counter", "long_name", "Time axis")
	h.AddVariable("nav_lon", []string{"y", "x"}, []float64{0})
	h.AddVariable("nav_lat", []string{"y", "x"}, []float64{0})
	for _, name := range ds.names {
		h.AddVariable(name, []string{"time_counter", "y", "x"}, []float32{0})
	}
	for _, name := range []string{"nav_lon", "nav_lat"} {
		for _, att := range varMetadata[name] {
			h.AddAttribute(name, att.key, att.value)
		}
	}
	for _, name := range ds.names {
		for _, att := range varMetadata[name] {
			h.AddAttribute(name, att.key, att.value)
		}
	}
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ff, err := cdf.Create(f, h) // writes the header to f
	if err != nil {
		return fmt.Errorf("gemlam: create netcdf file %s: %v", path, err)
	}
	w := ff.Writer("time_counter", []int{0}, []int{1})
	if _, err := w.Write([]float64{ds.TimeCounter}); err != nil {
		return fmt.Errorf("gemlam: write time_counter to %s: %v", path, err)
	}
	if err := writeCoord(ff, "nav_lon", ds.Lon); err != nil {
		return fmt.Errorf("gemlam: write %s: %v", path, err)
	}
	if err := writeCoord(ff, "nav_lat", ds.Lat); err != nil {
		return fmt.Errorf("gemlam: write %s: %v", path, err)
	}
	for _, name := range ds.names {
		data := ds.fields[name]
		if data.Shape[0] != ny || data.Shape[1] != nx {
			return fmt.Errorf("gemlam: write %s: field %s shape %v does not match grid (%d, %d)",
				path, name, data.Shape, ny, nx)
		}
		if err := writeFieldRecord(ff, name, data); err != nil {
			return fmt.Errorf("gemlam: write %s: %v", path, err)
		}
	}
	return cdf.UpdateNumRecs(f)
}

func writeCoord(ff *cdf.File, name string, data *sparse.DenseArray) error {
	w := ff.Writer(name, make([]int, len(data.Shape)), data.Shape)
	if _, err := w.Write(data.Elements); err != nil {
		return fmt.Errorf("coordinate %s: %v", name, err)
	}
	return nil
}

func writeFieldRecord(ff *cdf.File, name string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := append([]int{1}, data.Shape...)
	w := ff.Writer(name, make([]int, len(end)), end)
	if _, err := w.Write(data32); err != nil {
		return fmt.Errorf("field %s: %v", name, err)
	}
	return nil
}
