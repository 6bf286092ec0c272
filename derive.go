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
	"math"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	log "github.com/sirupsen/logrus"
)

// physical constants
const (
	sigma    = 5.6697e-8 // W/m^2/K^4, Stefan-Boltzmann constant
	zerodegC = 273.15    // K
)

// forcingVars maps the standardized output field names to the RPN variables
// they are copied from. A variable absent from the source is written as a
// NaN placeholder and recorded in the missing_variables marker.
var forcingVars = []struct {
	name, rpn string
}{
	{"atmpres", "PN"},
	{"percentcloud", "NT"},
	{"PRATE_surface", "RT"},
	{"precip", "PR"},
	{"solar", "FB"},
	{"tair", "TT"},
}

// DeriveHour reads one converted RPN forecast-hour file and writes the
// corresponding hourly forcing dataset with the variable names the NEMO and
// FVCOM models expect. Derived variables are:
//
//   - specific humidity 2m above surface
//   - relative humidity 2m above surface
//   - incoming longwave radiation at surface
//   - winds rotated to true north/east
//
// If the raw file does not exist, DeriveHour returns ErrMissingSource so the
// caller can decide whether the gap is expected.
func DeriveHour(rawPath, outPath string, rotate WindRotator) error {
	f, err := os.Open(rawPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrMissingSource
		}
		return err
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return fmt.Errorf("gemlam: open raw hour file %s: %v", rawPath, err)
	}
	log.Debugf("calculating specific humidity and incoming longwave radiation from %s", rawPath)

	lon, err := readField(ff, "nav_lon")
	if err != nil {
		return fmt.Errorf("gemlam: %s: %v", rawPath, err)
	}
	lat, err := readField(ff, "nav_lat")
	if err != nil {
		return fmt.Errorf("gemlam: %s: %v", rawPath, err)
	}
	raw := make(map[string]*sparse.DenseArray)
	for _, name := range []string{"TD", "PN", "TT", "NT", "UU", "VV"} {
		if raw[name], err = readField(ff, name); err != nil {
			return fmt.Errorf("gemlam: %s: %v", rawPath, err)
		}
	}

	qair, rh := humidity(raw["TD"], raw["PN"], raw["TT"])
	ilwr := longwaveDown(raw["TD"], raw["TT"], raw["NT"])
	uOut, vOut, err := rotate(raw["UU"], raw["VV"], lon, lat)
	if err != nil {
		return fmt.Errorf("gemlam: rotate winds from %s: %v", rawPath, err)
	}

	ds := &HourDataset{
		Lon:     lon,
		Lat:     lat,
		History: globalStringAttr(ff, "history"),
	}
	r := ff.Reader("time_counter", []int{0}, []int{1})
	buf := r.Zero(1)
	if _, err := r.Read(buf); err != nil {
		return fmt.Errorf("gemlam: read time_counter from %s: %v", rawPath, err)
	}
	ds.TimeCounter = toFloat64(buf)

	ds.SetField("qair", qair)
	ds.SetField("RH_2maboveground", rh)
	ds.SetField("therm_rad", ilwr)
	ds.SetField("u_wind", uOut)
	ds.SetField("v_wind", vOut)
	for _, fv := range forcingVars {
		data, err := readField(ff, fv.rpn)
		switch {
		case err == nil:
			ds.SetField(fv.name, data)
		case isVarNotFound(err):
			// Provide a placeholder full of NaNs that the repair stages
			// will deal with later via interpolation.
			placeholder := sparse.ZerosDense(lon.Shape...)
			for i := range placeholder.Elements {
				placeholder.Elements[i] = math.NaN()
			}
			ds.SetField(fv.name, placeholder)
			ds.MissingVars = append(ds.MissingVars, fv.name)
			log.Warnf("missing RPN variable %s from %s", fv.rpn, rawPath)
		default:
			return fmt.Errorf("gemlam: %s: %v", rawPath, err)
		}
	}

	now := time.Now().Format(historyTimeFormat)
	ds.History += fmt.Sprintf(
		"\n%s: Add specific and relative humidity and incoming longwave radiation variables from correlations", now)
	ds.History += fmt.Sprintf("\n%s: Add data variables metadata", now)
	return WriteHourDataset(outPath, ds)
}

// toFloat64 returns the first element of a numeric read buffer as a float64.
func toFloat64(buf interface{}) float64 {
	switch b := buf.(type) {
	case []float64:
		return b[0]
	case []float32:
		return float64(b[0])
	case []int32:
		return float64(b[0])
	}
	return math.NaN()
}

// humidity calculates specific and relative humidity from dewpoint
// temperature TD [degC], sea level pressure PN [Pa], and air temperature
// TT [K] using the Magnus-form saturation water vapour pressure
// approximation.
func humidity(TD, PN, TT *sparse.DenseArray) (qair, rh *sparse.DenseArray) {
	qair = sparse.ZerosDense(TD.Shape...)
	rh = sparse.ZerosDense(TD.Shape...)
	for i, td := range TD.Elements {
		// saturation water vapour at the dew point in the pure phase,
		// which within 0.5% is that of moist air
		ew := saturationVapourPressure(td)
		xvw := ew / (0.01 * PN.Elements[i]) // P in hectopascals
		r := 0.62198 * xvw / (1 - xvw)      // at Td, r = rw
		qair.Elements[i] = r / (1 + r)
		// saturation water vapour at the current temperature
		eT := saturationVapourPressure(TT.Elements[i] - zerodegC)
		rh.Elements[i] = 100 * ew / eT
	}
	return qair, rh
}

// longwaveDown calculates incoming longwave radiation [W/m^2] from dewpoint
// temperature TD [degC], air temperature TT [K], and cloud fraction NT
// (0-1) via the Dilley clear-sky and Unsworth cloud-correction correlations.
func longwaveDown(TD, TT, NT *sparse.DenseArray) *sparse.DenseArray {
	ilwr := sparse.ZerosDense(TD.Shape...)
	for i, td := range TD.Elements {
		tt := TT.Elements[i]
		ew := saturationVapourPressure(td) / 10 // hPa to kPa
		w := 465 * ew / tt                      // precipitable water
		lclr := 59.38 + 113.7*math.Pow(tt/273.16, 6) + 96.96*math.Sqrt(w/2.5)
		eclr := lclr / (sigma * math.Pow(tt, 4))
		ewc := (1-0.84*NT.Elements[i])*eclr + 0.84*NT.Elements[i]
		ilwr.Elements[i] = ewc * sigma * math.Pow(tt, 4)
	}
	return ilwr
}

// saturationVapourPressure returns the Magnus-form saturation water vapour
// pressure [hPa] at temperature t [degC].
func saturationVapourPressure(t float64) float64 {
	return 6.112 * math.Exp(17.62*t/(243.12+t))
}
