package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosima/remap-weights/conf"
	"github.com/cosima/remap-weights/fsutil"
)

// writeStub writes an executable shell script standing in for one
// of the external tools.
func writeStub(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), os.FileMode(0755))
	require.NoError(t, err)
	return path
}

// writeRawWeights writes a minimal weight generator output file:
// the sparse weight values plus the dimensions the converter
// needs. NetCDF-4, as the generator is invoked with --netcdf4.
func writeRawWeights(t *testing.T, s []float64) fsutil.Path {
	t.Helper()

	file := filepath.Join(t.TempDir(), "weights.nc")
	ds, err := netcdf.CreateFile(file, netcdf.CLOBBER|netcdf.NETCDF4)
	require.NoError(t, err)

	linksDim, err := ds.AddDim("num_links", uint64(len(s)))
	require.NoError(t, err)
	_, err = ds.AddDim("num_wgts", 1)
	require.NoError(t, err)

	sVar, err := ds.AddVar("S", netcdf.DOUBLE, []netcdf.Dim{linksDim})
	require.NoError(t, err)
	require.NoError(t, ds.EndDef())
	require.NoError(t, sVar.WriteFloat64s(s))
	require.NoError(t, ds.Close())

	return fsutil.Path(file)
}

func TestRenameTableIsABijection(t *testing.T) {
	assert.Len(t, dimRenames, 5)
	assert.Len(t, varRenames, 16)

	old := map[string]bool{}
	renamed := map[string]bool{}
	for _, r := range append(append([][2]string{}, dimRenames...), varRenames...) {
		assert.False(t, old[r[0]], "duplicate old name %s", r[0])
		assert.False(t, renamed[r[1]], "duplicate new name %s", r[1])
		old[r[0]] = true
		renamed[r[1]] = true
	}
}

func TestConvertToScrip(t *testing.T) {
	conf.Default()
	// The stub drops the rename options and copies the source
	// file to the target, like ncrename with an empty table.
	conf.Config.Commands.Ncrename = writeStub(t, "ncrename", `
while [ $# -gt 2 ]; do shift; done
cp "$1" "$2"
`)

	s := []float64{0.1, 0.2, 0.7}
	weights := writeRawWeights(t, s)

	converted, err := ConvertToScrip(weights)
	require.NoError(t, err)
	defer os.Remove(converted.String())

	// The original is gone, only the converted file remains.
	assert.NoFileExists(t, weights.String())
	assert.FileExists(t, converted.String())

	ds, err := netcdf.OpenFile(converted.String(), netcdf.NOWRITE)
	require.NoError(t, err)
	defer ds.Close()

	matrix, err := ds.Var("remap_matrix")
	require.NoError(t, err)

	dims, err := matrix.Dims()
	require.NoError(t, err)
	require.Len(t, dims, 2)
	nLinks, err := dims[0].Len()
	require.NoError(t, err)
	nWgts, err := dims[1].Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), nLinks)
	assert.Equal(t, uint64(1), nWgts)

	flat := make([]float64, nLinks*nWgts)
	require.NoError(t, matrix.ReadFloat64s(flat))
	assert.Equal(t, s, flat)
}

func TestConvertToScripRenameFailure(t *testing.T) {
	conf.Default()
	conf.Config.Commands.Ncrename = writeStub(t, "ncrename", `
echo "ncrename: unknown option" >&2
exit 1
`)

	weights := writeRawWeights(t, []float64{0.5})

	_, err := ConvertToScrip(weights)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ncrename: unknown option")

	// A failed rename leaves the original in place.
	assert.FileExists(t, weights.String())
}
