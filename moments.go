/*
Copyright © 2024 the Radish authors.
This file is part of Radish.

Radish is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Radish is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Radish.  If not, see <http://www.gnu.org/licenses/>.
*/

package radish

// Standard moment names.
const (
	DBZH  = "DBZH"
	DBZV  = "DBZV"
	VRADH = "VRADH"
	VRADV = "VRADV"
	WRADH = "WRADH"
	WRADV = "WRADV"
	ZDR   = "ZDR"
	PHIDP = "PHIDP"
	KDP   = "KDP"
	RHOHV = "RHOHV"
	LDRH  = "LDRH"
	LDRV  = "LDRV"
	SNRH  = "SNRH"
	SNRV  = "SNRV"
	NCP   = "NCP"
)

// MomentInfo describes a standard moment.
type MomentInfo struct {
	Name         string
	StandardName string
	LongName     string
	Units        string
}

var momentInfo = []MomentInfo{
	{DBZH, "equivalent_reflectivity_factor", "Equivalent reflectivity factor (horizontal channel)", "dBZ"},
	{VRADH, "radial_velocity_of_scatterers_away_from_instrument", "Radial velocity (horizontal channel)", "m/s"},
	{WRADH, "doppler_spectrum_width", "Doppler spectrum width (horizontal channel)", "m/s"},
	{ZDR, "differential_reflectivity_hv", "Differential reflectivity", "dB"},
	{PHIDP, "differential_phase_hv", "Differential propagation phase", "degrees"},
	{KDP, "specific_differential_phase_hv", "Specific differential phase", "degrees/km"},
	{RHOHV, "cross_correlation_ratio_hv", "Cross-correlation coefficient", ""},
	{NCP, "normalized_coherent_power", "Normalized coherent power", ""},
	{SNRH, "signal_to_noise_ratio", "Signal-to-noise ratio (horizontal channel)", "dB"},
}

// Alternative names used by some file producers.
var momentAliases = map[string]string{
	"DBZ":            DBZH,
	"reflectivity":   DBZH,
	"VEL":            VRADH,
	"velocity":       VRADH,
	"WIDTH":          WRADH,
	"spectrum_width": WRADH,
	"SNR":            SNRH,
}

// LookupMoment returns the standard description of the moment with
// the given name or alias.
func LookupMoment(name string) (MomentInfo, bool) {
	if n, ok := momentAliases[name]; ok {
		name = n
	}
	for _, info := range momentInfo {
		if info.Name == name {
			return info, true
		}
	}
	return MomentInfo{}, false
}
