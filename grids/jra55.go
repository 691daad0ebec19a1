package grids

import "github.com/cosima/remap-weights/fsutil"

// NewJra55Grid builds the JRA55-do forcing grid from one of its
// data files.
func NewJra55Grid(file fsutil.Path) (*Grid, error) {
	return newLatLonGrid("JRA55", file, "longitude", "latitude")
}

// NewJra55RunoffGrid builds the JRA55-do river runoff grid. The
// runoff files use the same coordinate layout as the forcing
// files.
func NewJra55RunoffGrid(file fsutil.Path) (*Grid, error) {
	return newLatLonGrid("JRA55_runoff", file, "longitude", "latitude")
}
