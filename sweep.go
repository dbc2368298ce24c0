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

import (
	"fmt"
	"sort"
)

// SweepMetadata describes how a sweep was collected.
type SweepMetadata struct {
	// SweepNumber is the 0-based position of the sweep in its volume.
	SweepNumber uint32    `json:"sweep_number"`
	SweepMode   SweepMode `json:"sweep_mode"`
	// FixedAngle is the nominal elevation (PPI) or azimuth (RHI) [degrees].
	FixedAngle float64 `json:"fixed_angle"`

	FollowMode         *FollowMode `json:"follow_mode,omitempty"`
	PRTMode            *PRTMode    `json:"prt_mode,omitempty"`
	TargetScanRate     *float64    `json:"target_scan_rate,omitempty"`
	RaysAreIndexed     *bool       `json:"rays_are_indexed,omitempty"`
	RayAngleResolution *float64    `json:"ray_angle_resolution,omitempty"`
	PolarizationMode   *string     `json:"polarization_mode,omitempty"`
	// PRF is the pulse repetition frequency [1/s].
	PRF *float64 `json:"prf,omitempty"`
	// NyquistVelocity is [m/s].
	NyquistVelocity *float64 `json:"nyquist_velocity,omitempty"`
	// UnambiguousRange is [m].
	UnambiguousRange *float64 `json:"unambiguous_range,omitempty"`
}

// Sweep holds the moments and coordinates of one sweep.
type Sweep struct {
	Metadata    SweepMetadata      `json:"metadata"`
	Moments     map[string]*Moment `json:"moments"`
	Coordinates Coordinates        `json:"coordinates"`
}

// NumRays returns the number of rays in the sweep.
func (s *Sweep) NumRays() int { return s.Coordinates.NumRays() }

// NumGates returns the number of gates along each ray.
func (s *Sweep) NumGates() int { return s.Coordinates.NumGates() }

// Moment returns the named moment.
func (s *Sweep) Moment(name string) (*Moment, bool) {
	m, ok := s.Moments[name]
	return m, ok
}

// MomentNames returns the names of the moments in the sweep, sorted.
func (s *Sweep) MomentNames() []string {
	names := make([]string, 0, len(s.Moments))
	for n := range s.Moments {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FilterMoments removes all moments whose names are not in names.
func (s *Sweep) FilterMoments(names ...string) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	for n := range s.Moments {
		if !keep[n] {
			delete(s.Moments, n)
		}
	}
}

// Validate checks that the coordinates are consistent and that every
// moment has one value per ray and gate.
func (s *Sweep) Validate() error {
	if err := s.Coordinates.Validate(); err != nil {
		return err
	}
	for _, name := range s.MomentNames() {
		r, g := s.Moments[name].Shape()
		if r != s.NumRays() || g != s.NumGates() {
			return &Error{Kind: KindConversion, Name: name,
				Err: fmt.Errorf("shape %d×%d does not match sweep shape %d×%d", r, g, s.NumRays(), s.NumGates())}
		}
	}
	return nil
}
