package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosima/remap-weights/conf"
	"github.com/cosima/remap-weights/fsutil"
)

func TestOutputName(t *testing.T) {
	assert.Equal(t,
		fsutil.Path("CORE2_MOM1_conserve2nd.nc"),
		outputName(conf.CORE2, conf.MOM1, conf.Conserve2nd))

	assert.Equal(t,
		fsutil.Path("JRA55_runoff_MOM025_patch.nc"),
		outputName(conf.JRA55Runoff, conf.MOM025, conf.Patch))
}

// runDriver runs the command in a child process and returns its
// combined output and exit code. main exits through log.Fatal,
// which would tear down the test binary if called in-process.
func runDriver(t *testing.T, workDir string, args ...string) (string, int) {
	t.Helper()

	cmdArgs := append([]string{"-test.run=TestDriverProcess", "--"}, args...)
	cmd := exec.Command(os.Args[0], cmdArgs...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "REMAP_WEIGHTS_DRIVER=1")

	output, err := cmd.CombinedOutput()
	if err == nil {
		return string(output), 0
	}
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, string(output))
	return string(output), exitErr.ExitCode()
}

// TestDriverProcess is the child side of runDriver: it reruns
// main with the arguments after the -- separator. A no-op in a
// normal test run.
func TestDriverProcess(t *testing.T) {
	if os.Getenv("REMAP_WEIGHTS_DRIVER") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	os.Args = append([]string{"remap-weights"}, args[1:]...)
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	main()
	os.Exit(0)
}

func writeDriverStub(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), os.FileMode(0755))
	require.NoError(t, err)
	return path
}

// writeDriverInputs lays out the grid files for the CORE2 and
// MOM1 pair the way the model input directory holds them.
func writeDriverInputs(t *testing.T) (inputDir, jra55Dir string) {
	t.Helper()
	inputDir = t.TempDir()
	jra55Dir = t.TempDir()

	core2Dir := filepath.Join(inputDir, "core_nyf")
	require.NoError(t, os.MkdirAll(core2Dir, os.FileMode(0755)))
	ds, err := netcdf.CreateFile(filepath.Join(core2Dir, "t_10.0001.nc"), netcdf.CLOBBER)
	require.NoError(t, err)
	lonDim, err := ds.AddDim("LON", 4)
	require.NoError(t, err)
	latDim, err := ds.AddDim("LAT", 3)
	require.NoError(t, err)
	lonVar, err := ds.AddVar("LON", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	require.NoError(t, err)
	latVar, err := ds.AddVar("LAT", netcdf.DOUBLE, []netcdf.Dim{latDim})
	require.NoError(t, err)
	require.NoError(t, ds.EndDef())
	require.NoError(t, lonVar.WriteFloat64s([]float64{0, 90, 180, 270}))
	require.NoError(t, latVar.WriteFloat64s([]float64{-60, 0, 60}))
	require.NoError(t, ds.Close())

	momDir := filepath.Join(inputDir, "mom_1deg")
	require.NoError(t, os.MkdirAll(momDir, os.FileMode(0755)))

	ds, err = netcdf.CreateFile(filepath.Join(momDir, "ocean_hgrid.nc"), netcdf.CLOBBER)
	require.NoError(t, err)
	nyp, err := ds.AddDim("nyp", 5)
	require.NoError(t, err)
	nxp, err := ds.AddDim("nxp", 5)
	require.NoError(t, err)
	ny, err := ds.AddDim("ny", 4)
	require.NoError(t, err)
	nx, err := ds.AddDim("nx", 4)
	require.NoError(t, err)
	xVar, err := ds.AddVar("x", netcdf.DOUBLE, []netcdf.Dim{nyp, nxp})
	require.NoError(t, err)
	yVar, err := ds.AddVar("y", netcdf.DOUBLE, []netcdf.Dim{nyp, nxp})
	require.NoError(t, err)
	areaVar, err := ds.AddVar("area", netcdf.DOUBLE, []netcdf.Dim{ny, nx})
	require.NoError(t, err)
	require.NoError(t, ds.EndDef())

	x := make([]float64, 25)
	y := make([]float64, 25)
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			x[j*5+i] = float64(i) * 0.5
			y[j*5+i] = -1 + float64(j)*0.5
		}
	}
	area := make([]float64, 16)
	for i := range area {
		area[i] = 1
	}
	require.NoError(t, xVar.WriteFloat64s(x))
	require.NoError(t, yVar.WriteFloat64s(y))
	require.NoError(t, areaVar.WriteFloat64s(area))
	require.NoError(t, ds.Close())

	ds, err = netcdf.CreateFile(filepath.Join(momDir, "ocean_mask.nc"), netcdf.CLOBBER)
	require.NoError(t, err)
	myDim, err := ds.AddDim("ny", 2)
	require.NoError(t, err)
	mxDim, err := ds.AddDim("nx", 2)
	require.NoError(t, err)
	maskVar, err := ds.AddVar("mask", netcdf.DOUBLE, []netcdf.Dim{myDim, mxDim})
	require.NoError(t, err)
	require.NoError(t, ds.EndDef())
	require.NoError(t, maskVar.WriteFloat64s([]float64{1, 0, 0, 1}))
	require.NoError(t, ds.Close())

	return inputDir, jra55Dir
}

// writeDriverWeights writes the file the stubbed weight generator
// hands back. NetCDF-4, as the generator is invoked with --netcdf4.
func writeDriverWeights(t *testing.T) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "weights.nc")
	ds, err := netcdf.CreateFile(file, netcdf.CLOBBER|netcdf.NETCDF4)
	require.NoError(t, err)
	linksDim, err := ds.AddDim("num_links", 3)
	require.NoError(t, err)
	_, err = ds.AddDim("num_wgts", 1)
	require.NoError(t, err)
	sVar, err := ds.AddVar("S", netcdf.DOUBLE, []netcdf.Dim{linksDim})
	require.NoError(t, err)
	require.NoError(t, ds.EndDef())
	require.NoError(t, sVar.WriteFloat64s([]float64{0.25, 0.5, 0.25}))
	require.NoError(t, ds.Close())

	return file
}

func TestDriverRejectsUnknownGridNames(t *testing.T) {
	outDir := t.TempDir()

	for _, args := range [][]string{
		{"-atm", "MOM1"},
		{"-ocean", "CORE2"},
		{"-method", "bilinear"},
	} {
		output, code := runDriver(t, outDir, append(args, "in", "jra")...)
		assert.Equal(t, 1, code, output)
		assert.Contains(t, output, "Usage:")

		// Nothing was written before the arguments were checked.
		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestDriverSingleCombination(t *testing.T) {
	workDir := t.TempDir()
	outDir := t.TempDir()
	inputDir, jra55Dir := writeDriverInputs(t)

	mpirun := writeDriverStub(t, "mpirun", fmt.Sprintf(`
out=""
while [ $# -gt 0 ]; do
	if [ "$1" = "-w" ]; then out="$2"; fi
	shift
done
cp %q "$out"
`, writeDriverWeights(t)))
	ncrename := writeDriverStub(t, "ncrename", `
while [ $# -gt 2 ]; do shift; done
cp "$1" "$2"
`)

	cfgFile := filepath.Join(t.TempDir(), "remap-weights.cfg")
	cfg := fmt.Sprintf("[Commands]\nMpirun = %q\nNcrename = %q\n", mpirun, ncrename)
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), os.FileMode(0644)))

	output, code := runDriver(t, workDir,
		"-config", cfgFile, "-out", outDir,
		"-atm", "CORE2", "-ocean", "MOM1", "-method", "conserve2nd",
		inputDir, jra55Dir)
	assert.Equal(t, 0, code, output)
	assert.Contains(t, output, "COMPLETED REGRID CORE2 TO MOM1 WITH conserve2nd")

	// Exactly the selected pair's weight file, nothing for the
	// other methods or grids.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CORE2_MOM1_conserve2nd.nc", entries[0].Name())
}
