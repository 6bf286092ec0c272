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

// attr is one metadata attribute attached to a dataset variable at write
// time.
type attr struct {
	key, value string
}

// varMetadata holds the CF-like metadata attached to every variable stored
// in the hourly forcing files.
var varMetadata = map[string][]attr{
	"nav_lon": {
		{"ioos_category", "location"},
	},
	"nav_lat": {
		{"ioos_category", "location"},
	},
	"atmpres": {
		{"level", "mean sea level"},
		{"long_name", "Pressure Reduced to MSL"},
		{"standard_name", "air_pressure_at_sea_level"},
		{"units", "Pa"},
	},
	"percentcloud": {
		{"long_name", "Cloud Fraction"},
		{"standard_name", "cloud_area_fraction"},
		{"units", "percent"},
	},
	"PRATE_surface": {
		{"level", "surface"},
		{"long_name", "Precipitation Rate"},
		{"standard_name", "precipitation_flux"},
		{"units", "kg/m^2/s"},
	},
	"precip": {
		{"level", "surface"},
		{"long_name", "Total Precipitation"},
		{"standard_name", "precipitation_flux"},
		{"units", "kg/m^2/s"},
	},
	"qair": {
		{"level", "2 m above surface"},
		{"long_name", "Specific Humidity"},
		{"standard_name", "specific_humidity_2maboveground"},
		{"units", "kg/kg"},
		{"comment", "calculated from sea level air pressure and dewpoint temperature via WMO 2012 ocean best practices"},
	},
	"RH_2maboveground": {
		{"level", "2 m above surface"},
		{"long_name", "Relative Humidity"},
		{"standard_name", "relative_humidity_2maboveground"},
		{"units", "percent"},
		{"comment", "calculated from air temperature and dewpoint temperature via WMO 2012 ocean best practices"},
	},
	"solar": {
		{"level", "surface"},
		{"long_name", "Downward Short-Wave Radiation Flux"},
		{"standard_name", "net_downward_shortwave_flux_in_air"},
		{"units", "W/m^2"},
	},
	"tair": {
		{"level", "2 m above surface"},
		{"long_name", "Air Temperature"},
		{"standard_name", "air_temperature_2maboveground"},
		{"units", "K"},
	},
	"therm_rad": {
		{"level", "surface"},
		{"long_name", "Downward Long-Wave Radiation Flux"},
		{"standard_name", "net_downward_longwave_flux_in_air"},
		{"units", "W/m^2"},
		{"comment", "calculated from saturation water vapour pressure, air temperature, and cloud fraction via Dilley-Unsworth correlation"},
	},
	"u_wind": {
		{"level", "10 m above surface"},
		{"long_name", "U-Component of Wind"},
		{"standard_name", "x_wind"},
		{"units", "m/s"},
		{"ioos_category", "wind speed and direction"},
	},
	"v_wind": {
		{"level", "10 m above surface"},
		{"long_name", "V-Component of Wind"},
		{"standard_name", "y_wind"},
		{"units", "m/s"},
		{"ioos_category", "wind speed and direction"},
	},
}
