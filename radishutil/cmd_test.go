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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/radish"
	"github.com/spatialmodel/radish/internal/radartest"
)

// run executes the root command with args. Flag values persist between
// runs, so each test sets the flags it depends on.
func run(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	Root.SetArgs(args)
	err := Root.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run("version")
	require.NoError(t, err)
	assert.Equal(t, "radish v"+radish.Version+"\n", out)
}

func TestScanCmd(t *testing.T) {
	path := writeTestVolume(t)

	out, err := run("scan", path, "--format=text")
	require.NoError(t, err)
	assert.Contains(t, out, "KTST")
	assert.Contains(t, out, "Radish test suite")
	assert.Contains(t, out, "2024-05-01T12:00:00Z to 2024-05-01T12:05:00Z")
	assert.Contains(t, out, "sweep_1")
	assert.Contains(t, out, "fixed angle 1.5°")

	out, err = run("scan", path, "--format=json")
	require.NoError(t, err)
	var md radish.VolumeMetadata
	require.NoError(t, json.Unmarshal([]byte(out), &md))
	assert.Equal(t, "KTST", md.InstrumentName)
	assert.Equal(t, 2, md.NumSweeps())

	// Blob locations are downloaded first.
	out, err = run("scan", "file://"+filepath.ToSlash(path), "--format=text", "--retries=0")
	require.NoError(t, err)
	assert.Contains(t, out, "KTST")

	_, err = run("scan", path, "--format=xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")

	_, err = run("scan")
	require.Error(t, err)
}

func TestSweepCmd(t *testing.T) {
	path := writeTestVolume(t)

	out, err := run("sweep", path, "--sweep=1", "--format=json", "--moments=DBZH", "--decode=true", "--mask=true")
	require.NoError(t, err)
	var sw testSweep
	require.NoError(t, json.Unmarshal([]byte(out), &sw))
	require.Len(t, sw.Moments, 1)
	dbz := sw.Moments[radish.DBZH]
	assert.Equal(t, "physical", dbz.State)
	assert.Equal(t, 1.5, sw.Metadata.FixedAngle)
	assert.Equal(t, 0.5*radartest.RawValue(4, 0)-10, *dbz.Data[0])

	_, err = run("sweep", path, "--sweep=5", "--format=text")
	require.Error(t, err)
	assert.ErrorIs(t, err, radish.KindInvalidSweepIndex)
	assert.Contains(t, err.Error(), "invalid sweep index 5")
}

func TestReadCmd(t *testing.T) {
	path := writeTestVolume(t)

	out, err := run("read", path, "--format=text", "--decode=true", "--mask=false")
	require.NoError(t, err)
	assert.Contains(t, out, "sweep 0")
	assert.Contains(t, out, "sweep 1")
	assert.Contains(t, out, "physical")
	assert.Contains(t, out, "DBZH")

	out, err = run("read", path, "--format=json", "--decode=false")
	require.NoError(t, err)
	var vol struct {
		Sweeps []testSweep `json:"sweeps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &vol))
	require.Len(t, vol.Sweeps, 2)
	assert.Equal(t, "raw", vol.Sweeps[0].Moments[radish.DBZH].State)
}

func TestPlotCmd(t *testing.T) {
	path := writeTestVolume(t)
	out := filepath.Join(t.TempDir(), "dbzh.png")

	msg, err := run("plot", path, "--sweep=0", "--moment=DBZH", "--output="+out, "--decode=true")
	require.NoError(t, err)
	assert.Contains(t, msg, "wrote "+out)
	_, err = os.Stat(out)
	require.NoError(t, err)

	_, err = run("plot", path, "--sweep=0", "--moment=KDP", "--output="+out)
	require.Error(t, err)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := run("version", "--config="+filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problem reading configuration file")

	cfg := filepath.Join(dir, "radish.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("maskvalue = \"-32768\"\ncachesize = 4\n"), 0o644))
	_, err = run("version", "--config="+cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, Cfg.GetInt("cachesize"))
	o, err := configMomentOptions()
	require.NoError(t, err)
	assert.Equal(t, float32(-32768), o.maskValue)

	_, err = run("version", "--config=", "--loglevel=loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = run("version", "--loglevel=info")
	require.NoError(t, err)
}
