package grids

import "github.com/cosima/remap-weights/fsutil"

// NewCore2Grid builds the CORE2 normal year forcing grid from one
// of its data files. The coordinates are the `LON` and `LAT`
// variables; any of the forcing files carries them.
func NewCore2Grid(file fsutil.Path) (*Grid, error) {
	return newLatLonGrid("CORE2", file, "LON", "LAT")
}
