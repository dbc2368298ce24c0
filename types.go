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

import "strings"

// SweepMode is the scan pattern of a sweep.
type SweepMode int

// These are the sweep modes.
const (
	Azimuth SweepMode = iota
	Elevation
	Sector
	Coplane
	Pointing
	ManualPPI
	ManualRHI
	Idle
	CalibrationScan
	VerticalPointing
)

var sweepModeNames = []string{
	Azimuth:          "azimuth_surveillance",
	Elevation:        "elevation_surveillance",
	Sector:           "sector",
	Coplane:          "coplane",
	Pointing:         "pointing",
	ManualPPI:        "manual_ppi",
	ManualRHI:        "manual_rhi",
	Idle:             "idle",
	CalibrationScan:  "calibration",
	VerticalPointing: "vertical_pointing",
}

func (m SweepMode) String() string { return enumName(sweepModeNames, int(m)) }

var sweepModeAliases = map[string]SweepMode{
	"ppi":  Azimuth,
	"sur":  Azimuth,
	"rhi":  Elevation,
	"sec":  Sector,
	"pnt":  Pointing,
	"vert": VerticalPointing,
	"cal":  CalibrationScan,
}

// ParseSweepMode parses a CF/Radial sweep mode string, ignoring case.
// Unrecognized strings return Azimuth and false.
func ParseSweepMode(s string) (SweepMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m, ok := sweepModeAliases[s]; ok {
		return m, true
	}
	if i, ok := enumIndex(sweepModeNames, s); ok {
		return SweepMode(i), true
	}
	return Azimuth, false
}

// FollowMode describes what, if anything, the antenna is tracking.
type FollowMode int

// These are the follow modes.
const (
	FollowNone FollowMode = iota
	FollowSun
	FollowVehicle
	FollowAircraft
	FollowTarget
	FollowManual
)

var followModeNames = []string{"none", "sun", "vehicle", "aircraft", "target", "manual"}

func (m FollowMode) String() string { return enumName(followModeNames, int(m)) }

// ParseFollowMode parses a follow mode string, ignoring case.
func ParseFollowMode(s string) (FollowMode, bool) {
	i, ok := enumIndex(followModeNames, strings.ToLower(strings.TrimSpace(s)))
	return FollowMode(i), ok
}

// PRTMode is the pulse repetition scheme.
type PRTMode int

// These are the PRT modes.
const (
	PRTFixed PRTMode = iota
	PRTStaggered2_3
	PRTStaggered3_4
	PRTStaggered4_5
	PRTDual
)

var prtModeNames = []string{"fixed", "staggered_2_3", "staggered_3_4", "staggered_4_5", "dual"}

func (m PRTMode) String() string { return enumName(prtModeNames, int(m)) }

// ParsePRTMode parses a PRT mode string, ignoring case. The generic
// CF/Radial value "staggered" maps to PRTStaggered2_3.
func ParsePRTMode(s string) (PRTMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "staggered" {
		return PRTStaggered2_3, true
	}
	i, ok := enumIndex(prtModeNames, s)
	return PRTMode(i), ok
}

// PlatformType is the kind of platform the radar is mounted on.
type PlatformType int

// These are the platform types.
const (
	PlatformFixed PlatformType = iota
	PlatformVehicle
	PlatformShip
	PlatformAircraft
	PlatformSatellite
)

var platformTypeNames = []string{"fixed", "vehicle", "ship", "aircraft", "satellite"}

func (p PlatformType) String() string { return enumName(platformTypeNames, int(p)) }

// ParsePlatformType parses a platform type string, ignoring case.
// Unrecognized strings return false.
func ParsePlatformType(s string) (PlatformType, bool) {
	i, ok := enumIndex(platformTypeNames, strings.ToLower(strings.TrimSpace(s)))
	return PlatformType(i), ok
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func enumIndex(names []string, s string) (int, bool) {
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}

// MarshalText renders the sweep mode by name.
func (m SweepMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// MarshalText renders the follow mode by name.
func (m FollowMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// MarshalText renders the PRT mode by name.
func (m PRTMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// MarshalText renders the platform type by name.
func (p PlatformType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
