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

package radishutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spatialmodel/radish"
)

// momentView is the output form of a moment. It adds the shape, which
// the moment does not export, and writes masked values as null.
type momentView struct {
	*radish.Moment
	Rays  int          `json:"rays"`
	Gates int          `json:"gates"`
	Data  floatsOrNull `json:"data"`
}

type sweepView struct {
	Metadata    radish.SweepMetadata  `json:"metadata"`
	Coordinates radish.Coordinates    `json:"coordinates"`
	Moments     map[string]momentView `json:"moments"`
}

type volumeView struct {
	Metadata    radish.VolumeMetadata `json:"metadata"`
	Sweeps      []sweepView           `json:"sweeps"`
	Calibration *radish.Calibration   `json:"calibration,omitempty"`
}

func newMomentView(m *radish.Moment) momentView {
	r, g := m.Shape()
	return momentView{Moment: m, Rays: r, Gates: g, Data: m.Data}
}

func newSweepView(s *radish.Sweep) sweepView {
	v := sweepView{
		Metadata:    s.Metadata,
		Coordinates: s.Coordinates,
		Moments:     make(map[string]momentView, len(s.Moments)),
	}
	for name, m := range s.Moments {
		v.Moments[name] = newMomentView(m)
	}
	return v
}

func newVolumeView(vol *radish.Volume) volumeView {
	v := volumeView{Metadata: vol.Metadata, Calibration: vol.Calibration}
	for _, s := range vol.Sweeps {
		v.Sweeps = append(v.Sweeps, newSweepView(s))
	}
	return v
}

// floatsOrNull marshals NaN and infinite values as null, which JSON
// cannot otherwise represent.
type floatsOrNull []float32

func (f floatsOrNull) MarshalJSON() ([]byte, error) {
	b := bytes.NewBuffer(make([]byte, 0, len(f)*8+2))
	b.WriteByte('[')
	for i, v := range f {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			b.WriteString("null")
			continue
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(v); err != nil {
		return fmt.Errorf("radishutil: encoding output: %v", err)
	}
	return nil
}

// checkFormat returns an error if format is not a supported output
// format.
func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("radishutil: invalid output format %q; must be 'text' or 'json'", format)
	}
}

// writeMetadata writes the volume metadata in the given format.
func writeMetadata(w io.Writer, format string, m *radish.VolumeMetadata) error {
	if format == "json" {
		return writeJSON(w, m)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "instrument\t%s\n", m.InstrumentName)
	fmt.Fprintf(tw, "institution\t%s\n", m.Institution)
	if m.SiteName != nil {
		fmt.Fprintf(tw, "site\t%s\n", *m.SiteName)
	}
	if m.PlatformType != nil {
		fmt.Fprintf(tw, "platform\t%s\n", m.PlatformType)
	}
	fmt.Fprintf(tw, "location\t%.4f°N %.4f°E %.1f m\n", m.Latitude, m.Longitude, m.Altitude)
	fmt.Fprintf(tw, "time coverage\t%s to %s\n",
		m.TimeCoverageStart.Format(time.RFC3339), m.TimeCoverageEnd.Format(time.RFC3339))
	if m.Frequency != nil {
		fmt.Fprintf(tw, "frequency\t%g Hz\n", *m.Frequency)
	}
	fmt.Fprintf(tw, "volume number\t%d\n", m.VolumeNumber)
	fmt.Fprintf(tw, "sweeps\t%d\n", m.NumSweeps())
	for i, name := range m.SweepGroupNames {
		fmt.Fprintf(tw, "  %s\tfixed angle %g°\n", name, m.SweepFixedAngles[i])
	}
	return tw.Flush()
}

// writeSweep writes sweep i in the given format. The text format
// summarizes each moment rather than listing its values.
func writeSweep(w io.Writer, format string, i int, s *radish.Sweep) error {
	if format == "json" {
		return writeJSON(w, newSweepView(s))
	}
	return writeSweepText(w, i, s)
}

func writeSweepText(w io.Writer, i int, s *radish.Sweep) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	md := s.Metadata
	fmt.Fprintf(tw, "sweep %d\t%s, fixed angle %g°, %d rays × %d gates\n",
		i, md.SweepMode, md.FixedAngle, s.NumRays(), s.NumGates())
	if md.PRTMode != nil {
		fmt.Fprintf(tw, "  prt mode\t%s\n", md.PRTMode)
	}
	if md.NyquistVelocity != nil {
		fmt.Fprintf(tw, "  nyquist velocity\t%g m/s\n", *md.NyquistVelocity)
	}
	fmt.Fprintln(tw, "  moment\tunits\tstate\tvalid\tmin\tmax\tmean\tstddev")
	for _, name := range s.MomentNames() {
		m := s.Moments[name]
		st := m.Stats()
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\n",
			name, m.Units, m.State, st.Count, st.Min, st.Max, st.Mean, st.StdDev)
	}
	return tw.Flush()
}

// writeVolume writes the whole volume in the given format.
func writeVolume(w io.Writer, format string, v *radish.Volume) error {
	if format == "json" {
		return writeJSON(w, newVolumeView(v))
	}
	if err := writeMetadata(w, format, &v.Metadata); err != nil {
		return err
	}
	for i, s := range v.Sweeps {
		fmt.Fprintln(w, strings.Repeat("-", 40))
		if err := writeSweepText(w, i, s); err != nil {
			return err
		}
	}
	return nil
}
