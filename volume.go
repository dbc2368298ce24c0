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
	"time"
)

// VolumeMetadata describes a radar volume without its sweep data.
type VolumeMetadata struct {
	InstrumentName string        `json:"instrument_name"`
	Institution    string        `json:"institution"`
	PlatformType   *PlatformType `json:"platform_type,omitempty"`
	SiteName       *string       `json:"site_name,omitempty"`

	// Latitude is degrees north.
	Latitude float64 `json:"latitude"`
	// Longitude is degrees east.
	Longitude float64 `json:"longitude"`
	// Altitude is meters above mean sea level.
	Altitude float64 `json:"altitude"`
	// AltitudeAGL is meters above ground level.
	AltitudeAGL *float64 `json:"altitude_agl,omitempty"`

	TimeCoverageStart time.Time `json:"time_coverage_start"`
	TimeCoverageEnd   time.Time `json:"time_coverage_end"`

	// SweepFixedAngles holds one fixed angle per sweep [degrees].
	SweepFixedAngles []float64 `json:"sweep_fixed_angles"`
	// SweepGroupNames holds one label per sweep.
	SweepGroupNames []string `json:"sweep_group_names"`

	Frequency    *float64 `json:"frequency,omitempty"`
	VolumeNumber uint32   `json:"volume_number"`

	Attributes map[string]string `json:"attributes,omitempty"`
}

// NumSweeps returns the number of sweeps in the volume.
func (m *VolumeMetadata) NumSweeps() int { return len(m.SweepGroupNames) }

// Validate checks that there is one fixed angle per sweep name.
func (m *VolumeMetadata) Validate() error {
	if len(m.SweepGroupNames) != len(m.SweepFixedAngles) {
		return &Error{Kind: KindConversion, Name: "sweep_fixed_angles",
			Err: fmt.Errorf("%d fixed angles for %d sweeps", len(m.SweepFixedAngles), len(m.SweepGroupNames))}
	}
	return nil
}

// GenerateSweepNames returns the group names of n sweeps.
func GenerateSweepNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("sweep_%d", i)
	}
	return names
}

// Volume holds the sweeps of one radar volume scan.
type Volume struct {
	Metadata    VolumeMetadata `json:"metadata"`
	Sweeps      []*Sweep       `json:"sweeps"`
	Calibration *Calibration   `json:"calibration,omitempty"`
}

// NumSweeps returns the number of sweeps.
func (v *Volume) NumSweeps() int { return len(v.Sweeps) }

// Sweep returns sweep i.
func (v *Volume) Sweep(i int) (*Sweep, error) {
	if i < 0 || i >= len(v.Sweeps) {
		return nil, invalidSweepIndex("", i)
	}
	return v.Sweeps[i], nil
}

// FilterMoments removes all moments whose names are not in names
// from every sweep.
func (v *Volume) FilterMoments(names ...string) {
	for _, s := range v.Sweeps {
		s.FilterMoments(names...)
	}
}

// Validate checks the metadata and every sweep.
func (v *Volume) Validate() error {
	if err := v.Metadata.Validate(); err != nil {
		return err
	}
	if len(v.Sweeps) != v.Metadata.NumSweeps() {
		return &Error{Kind: KindConversion,
			Err: fmt.Errorf("%d sweeps but metadata lists %d", len(v.Sweeps), v.Metadata.NumSweeps())}
	}
	for i, s := range v.Sweeps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sweep %d: %w", i, err)
		}
	}
	return nil
}

// Calibration holds radar calibration constants. Any field may be
// absent.
type Calibration struct {
	Time *time.Time `json:"time,omitempty"`

	// PulseWidth is [s].
	PulseWidth *float64 `json:"pulse_width,omitempty"`

	XmitPowerH *float64 `json:"xmit_power_h,omitempty"`
	XmitPowerV *float64 `json:"xmit_power_v,omitempty"`

	TwoWayWaveguideLossH *float64 `json:"two_way_waveguide_loss_h,omitempty"`
	TwoWayWaveguideLossV *float64 `json:"two_way_waveguide_loss_v,omitempty"`
	TwoWayRadomeLossH    *float64 `json:"two_way_radome_loss_h,omitempty"`
	TwoWayRadomeLossV    *float64 `json:"two_way_radome_loss_v,omitempty"`

	ReceiverGainH *float64 `json:"receiver_gain_h,omitempty"`
	ReceiverGainV *float64 `json:"receiver_gain_v,omitempty"`

	BaseDBZ1kmH *float64 `json:"base_dbz_1km_h,omitempty"`
	BaseDBZ1kmV *float64 `json:"base_dbz_1km_v,omitempty"`

	SunPowerH   *float64 `json:"sun_power_h,omitempty"`
	SunPowerV   *float64 `json:"sun_power_v,omitempty"`
	NoisePowerH *float64 `json:"noise_power_h,omitempty"`
	NoisePowerV *float64 `json:"noise_power_v,omitempty"`

	ReceiverSlopeH *float64 `json:"receiver_slope_h,omitempty"`
	ReceiverSlopeV *float64 `json:"receiver_slope_v,omitempty"`
	DynamicRangeH  *float64 `json:"dynamic_range_h,omitempty"`
	DynamicRangeV  *float64 `json:"dynamic_range_v,omitempty"`

	ZDRCorrection  *float64 `json:"zdr_correction,omitempty"`
	LDRCorrectionH *float64 `json:"ldr_correction_h,omitempty"`
	LDRCorrectionV *float64 `json:"ldr_correction_v,omitempty"`
	SystemPhiDP    *float64 `json:"system_phidp,omitempty"`
}

// calibrationFields maps CF/Radial calibration variable names to the
// fields they fill.
func (c *Calibration) calibrationFields() map[string]**float64 {
	return map[string]**float64{
		"r_calib_pulse_width":              &c.PulseWidth,
		"r_calib_xmit_power_h":             &c.XmitPowerH,
		"r_calib_xmit_power_v":             &c.XmitPowerV,
		"r_calib_two_way_waveguide_loss_h": &c.TwoWayWaveguideLossH,
		"r_calib_two_way_waveguide_loss_v": &c.TwoWayWaveguideLossV,
		"r_calib_two_way_radome_loss_h":    &c.TwoWayRadomeLossH,
		"r_calib_two_way_radome_loss_v":    &c.TwoWayRadomeLossV,
		"r_calib_receiver_gain_hc":         &c.ReceiverGainH,
		"r_calib_receiver_gain_vc":         &c.ReceiverGainV,
		"r_calib_base_dbz_1km_hc":          &c.BaseDBZ1kmH,
		"r_calib_base_dbz_1km_vc":          &c.BaseDBZ1kmV,
		"r_calib_sun_power_hc":             &c.SunPowerH,
		"r_calib_sun_power_vc":             &c.SunPowerV,
		"r_calib_noise_hc":                 &c.NoisePowerH,
		"r_calib_noise_vc":                 &c.NoisePowerV,
		"r_calib_receiver_slope_hc":        &c.ReceiverSlopeH,
		"r_calib_receiver_slope_vc":        &c.ReceiverSlopeV,
		"r_calib_dynamic_range_db_hc":      &c.DynamicRangeH,
		"r_calib_dynamic_range_db_vc":      &c.DynamicRangeV,
		"r_calib_zdr_correction":           &c.ZDRCorrection,
		"r_calib_ldr_correction_h":         &c.LDRCorrectionH,
		"r_calib_ldr_correction_v":         &c.LDRCorrectionV,
		"r_calib_system_phidp":             &c.SystemPhiDP,
	}
}
