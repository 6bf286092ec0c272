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
	"testing"

	"github.com/ctessum/sparse"
)

func TestRotateWindsAlignedGrid(t *testing.T) {
	// A grid whose x axis points due east leaves the winds unchanged.
	lon := sparse.ZerosDense(2, 3)
	lat := sparse.ZerosDense(2, 3)
	for j := 0; j < 2; j++ {
		for i := 0; i < 3; i++ {
			lon.Set(-123.5+0.1*float64(i), j, i)
			lat.Set(49.0+0.1*float64(j), j, i)
		}
	}
	u := sparse.ZerosDense(2, 3)
	v := sparse.ZerosDense(2, 3)
	for i := range u.Elements {
		u.Elements[i] = 5
		v.Elements[i] = -2
	}
	uOut, vOut, err := RotateWindsByBearing(u, v, lon, lat)
	if err != nil {
		t.Fatal(err)
	}
	arrayCompare(uOut, u, 1.0e-12, "u_wind", t)
	arrayCompare(vOut, v, 1.0e-12, "v_wind", t)
}

func TestRotateWindsQuarterTurn(t *testing.T) {
	// A grid whose x axis points due north maps grid u onto true v and
	// grid v onto true -u.
	lon := sparse.ZerosDense(2, 3)
	lat := sparse.ZerosDense(2, 3)
	for j := 0; j < 2; j++ {
		for i := 0; i < 3; i++ {
			lon.Set(-123.5+0.1*float64(j), j, i)
			lat.Set(49.0+0.1*float64(i), j, i)
		}
	}
	u := sparse.ZerosDense(2, 3)
	v := sparse.ZerosDense(2, 3)
	for i := range u.Elements {
		u.Elements[i] = 5
		v.Elements[i] = -2
	}
	uOut, vOut, err := RotateWindsByBearing(u, v, lon, lat)
	if err != nil {
		t.Fatal(err)
	}
	wantU := sparse.ZerosDense(2, 3)
	wantV := sparse.ZerosDense(2, 3)
	for i := range wantU.Elements {
		wantU.Elements[i] = 2
		wantV.Elements[i] = 5
	}
	arrayCompare(uOut, wantU, 1.0e-12, "u_wind", t)
	arrayCompare(vOut, wantV, 1.0e-12, "v_wind", t)
}

func TestRotateWindsPreservesSpeed(t *testing.T) {
	lon, lat := testGrid()
	u := constArray(3)
	v := constArray(-4)
	uOut, vOut, err := RotateWindsByBearing(u, v, lon, lat)
	if err != nil {
		t.Fatal(err)
	}
	for i := range uOut.Elements {
		speed2 := uOut.Elements[i]*uOut.Elements[i] + vOut.Elements[i]*vOut.Elements[i]
		if diff := speed2 - 25; diff > 1.0e-9 || diff < -1.0e-9 {
			t.Errorf("element %d: wind speed changed by rotation; speed^2 = %g", i, speed2)
		}
	}
}

func TestRotateWindsBadShapes(t *testing.T) {
	lon, lat := testGrid()
	if _, _, err := RotateWindsByBearing(sparse.ZerosDense(3, 3), sparse.ZerosDense(3, 3), lon, lat); err == nil {
		t.Error("want error for mismatched wind and coordinate shapes")
	}
	if _, _, err := RotateWindsByBearing(lon, lat, sparse.ZerosDense(4), sparse.ZerosDense(4)); err == nil {
		t.Error("want error for 1-D coordinate grid")
	}
}
