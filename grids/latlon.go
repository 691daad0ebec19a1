package grids

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/cosima/remap-weights/fsutil"
)

// newLatLonGrid builds a regular grid from 1D coordinate
// variables. Cell corners sit at the midpoints between
// neighboring centers; longitude edges wrap around the globe and
// latitude edges are clamped to the poles. Every cell is active.
func newLatLonGrid(name string, file fsutil.Path, lonVar, latVar string) (*Grid, error) {
	ds, err := netcdf.OpenFile(file.String(), netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("%s grid `%s`: Open error: %w", name, file.String(), err)
	}
	defer ds.Close()

	lon, err := readVar1D(ds, lonVar)
	if err != nil {
		return nil, fmt.Errorf("%s grid `%s`: %w", name, file.String(), err)
	}
	lat, err := readVar1D(ds, latVar)
	if err != nil {
		return nil, fmt.Errorf("%s grid `%s`: %w", name, file.String(), err)
	}

	nx := len(lon)
	ny := len(lat)
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%s grid `%s`: too few points (%dx%d)", name, file.String(), nx, ny)
	}

	lonEdges := cellEdges(lon)

	latEdges := cellEdges(lat)
	latEdges[0] = clampLat(latEdges[0])
	latEdges[ny] = clampLat(latEdges[ny])

	g := &Grid{
		Name:      name,
		Nx:        nx,
		Ny:        ny,
		CenterLat: make([]float64, nx*ny),
		CenterLon: make([]float64, nx*ny),
		CornerLat: make([]float64, nx*ny*4),
		CornerLon: make([]float64, nx*ny*4),
		Mask:      make([]int32, nx*ny),
	}

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			cell := j*nx + i

			g.CenterLat[cell] = lat[j]
			g.CenterLon[cell] = lon[i]
			g.Mask[cell] = 1

			// Counterclockwise from the south-west corner.
			cLat := []float64{latEdges[j], latEdges[j], latEdges[j+1], latEdges[j+1]}
			cLon := []float64{lonEdges[i], lonEdges[i+1], lonEdges[i+1], lonEdges[i]}
			for c := 0; c < 4; c++ {
				g.CornerLat[cell*4+c] = cLat[c]
				g.CornerLon[cell*4+c] = cLon[c]
			}
		}
	}

	return g, nil
}

// cellEdges returns the n+1 edges of n cells centered on the
// given coordinates. Inner edges sit halfway between neighboring
// centers; the two outermost edges are extrapolated from the
// first and last spacing, which closes a uniform global
// longitude axis on itself. Callers clamp latitude edges at the
// poles.
func cellEdges(centers []float64) []float64 {
	n := len(centers)
	edges := make([]float64, n+1)
	for i := 1; i < n; i++ {
		edges[i] = (centers[i-1] + centers[i]) / 2
	}
	edges[0] = centers[0] - (centers[1]-centers[0])/2
	edges[n] = centers[n-1] + (centers[n-1]-centers[n-2])/2
	return edges
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}
