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
	"math"
	"time"

	"github.com/ctessum/sparse"
)

// Solar geometry constants. The reference latitude and time zone are fixed
// domain-wide approximations inherited from the original forcing system;
// downstream numeric parity depends on them, so they are deliberately not
// generalized per grid cell.
const (
	solarConstant = 1368.0 // W/m^2, top-of-atmosphere irradiance
	// refLatitudeDeg is the approximate latitude of the centre of the
	// model domain.
	refLatitudeDeg = 50.0
)

// refTimeZone is the fixed local standard time zone used for solar hour
// angle calculations.
var refTimeZone = time.FixedZone("PST", -8*60*60)

// Dobson-Smith cloud model coefficients, indexed by cloud fraction in
// tenths.
var (
	cloudA = [11]float64{0.6337, 0.6149, 0.5861, 0.5512, 0.5002, 0.4649, 0.4225, 0.3669, 0.2468, 0.1981, 0.0841}
	cloudB = [11]float64{0.1959, 0.2119, 0.2400, 0.2859, 0.3192, 0.3356, 0.3339, 0.3490, 0.4427, 0.3116, 0.2283}
)

// cloudToSolar computes surface shortwave radiation [W/m^2] for the given
// hour from the cloud fraction field (0-1 scale) via solar geometry and the
// Dobson-Smith cloud model. Outside the local [sunrise, sunset] interval
// the result is zero everywhere.
func cloudToSolar(t time.Time, cloudFrac *sparse.DenseArray) *sparse.DenseArray {
	solar := sparse.ZerosDense(cloudFrac.Shape...)

	local := t.In(refTimeZone)
	daySeconds := float64(local.Hour()*3600 + local.Minute()*60 + local.Second())
	day := float64(local.YearDay())

	hour := (daySeconds/3600 - 12) * 15 // degrees
	decl := 23.45 * math.Pi / 180 * math.Sin((284+day)/365.25*2*math.Pi)
	lat := math.Pi * refLatitudeDeg / 180
	cosZ := math.Sin(decl)*math.Sin(lat) + math.Cos(decl)*math.Cos(lat)*math.Cos(math.Pi/180*hour)

	// Day length assumes we are south of the Arctic Circle.
	hourAngle := math.Tan(lat) * math.Tan(decl)
	dayLength := math.Acos(-hourAngle) / 15 * 2 * 180 / math.Pi // hours
	sunrise := 12 - 0.5*dayLength
	sunset := 12 + 0.5*dayLength
	if daySeconds/3600 <= sunrise || daySeconds/3600 >= sunset {
		return solar
	}

	qso := solarConstant * (1 + 0.033*math.Cos(day/365.25*2*math.Pi))
	for i, frac := range cloudFrac.Elements {
		cf := frac * 10 // cloud fraction in tenths
		if cf < 0 {
			cf = 0
		} else if cf > 10 {
			cf = 10
		}
		fcf := math.Floor(cf)
		ccf := math.Ceil(cf)
		if fcf == ccf {
			if fcf == 10 {
				fcf = 9
			} else {
				ccf = fcf + 1
			}
		}
		fi, ci := int(fcf), int(ccf)
		a := cloudA[fi]*(ccf-cf) + cloudA[ci]*(cf-fcf)
		b := cloudB[fi]*(ccf-cf) + cloudB[ci]*(cf-fcf)
		solar.Elements[i] = qso * (a + b*cosZ) * cosZ
	}
	return solar
}
