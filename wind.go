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

	"github.com/ctessum/sparse"
)

// A WindRotator rotates a grid-relative wind vector field (u, v) to true
// north/east components using the grid's longitude/latitude coordinates.
type WindRotator func(u, v, lon, lat *sparse.DenseArray) (uOut, vOut *sparse.DenseArray, err error)

// RotateWindsByBearing rotates grid-relative winds to true north/east by
// the local bearing of the grid x axis, computed from the coordinate
// arrays. It is the default WindRotator.
func RotateWindsByBearing(u, v, lon, lat *sparse.DenseArray) (*sparse.DenseArray, *sparse.DenseArray, error) {
	if len(lon.Shape) != 2 {
		return nil, nil, fmt.Errorf("coordinate grid must be 2-D, have shape %v", lon.Shape)
	}
	ny, nx := lon.Shape[0], lon.Shape[1]
	if nx < 2 {
		return nil, nil, fmt.Errorf("coordinate grid needs at least 2 columns to determine bearing")
	}
	for _, a := range []*sparse.DenseArray{u, v, lat} {
		if a.Shape[0] != ny || a.Shape[1] != nx {
			return nil, nil, fmt.Errorf("wind and coordinate grids have mismatched shapes %v and %v",
				a.Shape, lon.Shape)
		}
	}
	uOut := sparse.ZerosDense(ny, nx)
	vOut := sparse.ZerosDense(ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			// Bearing of the grid x axis from geographic east, from the
			// coordinate difference to the next column (previous column at
			// the grid edge).
			i0, i1 := i, i+1
			if i1 == nx {
				i0, i1 = i-1, i
			}
			dlat := lat.Get(j, i1) - lat.Get(j, i0)
			dlon := lon.Get(j, i1) - lon.Get(j, i0)
			theta := math.Atan2(dlat, dlon*math.Cos(lat.Get(j, i)*math.Pi/180))
			sin, cos := math.Sin(theta), math.Cos(theta)
			ug, vg := u.Get(j, i), v.Get(j, i)
			uOut.Set(ug*cos-vg*sin, j, i)
			vOut.Set(ug*sin+vg*cos, j, i)
		}
	}
	return uOut, vOut, nil
}
