// Package folders resolves the grid definition files under the
// two input roots. Paths are computed only, never checked for
// existence; a missing file surfaces later as an I/O error when
// the grid is read.
package folders

import (
	"github.com/cosima/remap-weights/conf"
	"github.com/cosima/remap-weights/fsutil"
)

// OceanGridDef holds the two files a MOM grid is built from.
type OceanGridDef struct {
	HGridFile fsutil.Path
	MaskFile  fsutil.Path
}

// GridDefs maps grid identifiers to their definition files.
type GridDefs struct {
	inputDir   fsutil.Path
	jra55Input fsutil.Path
}

// NewGridDefs ...
func NewGridDefs(inputDir, jra55Input fsutil.Path) GridDefs {
	return GridDefs{inputDir: inputDir, jra55Input: jra55Input}
}

// Ocean returns the geometry and mask files for an ocean grid.
func (d GridDefs) Ocean(grid conf.OceanGrid) OceanGridDef {
	var sub string
	switch grid {
	case conf.MOM1:
		sub = "mom_1deg"
	case conf.MOM025:
		sub = "mom_025deg"
	case conf.MOM01:
		sub = "mom_01deg"
	}

	dir := d.inputDir.Join(sub)
	return OceanGridDef{
		HGridFile: dir.Join("ocean_hgrid.nc"),
		MaskFile:  dir.Join("ocean_mask.nc"),
	}
}

// Atm returns the data file an atmosphere grid is built from.
func (d GridDefs) Atm(grid conf.AtmGrid) fsutil.Path {
	switch grid {
	case conf.CORE2:
		return d.inputDir.Join("core_nyf").Join("t_10.0001.nc")
	case conf.JRA55:
		return d.jra55Input.Join("RYF.t_10.1990_1991.nc")
	case conf.JRA55Runoff:
		return d.jra55Input.Join("RYF.runoff_all.1990_1991.nc")
	}
	return ""
}
