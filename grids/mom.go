package grids

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/cosima/remap-weights/fsutil"
)

// NewMomGrid builds the MOM tracer grid from an ocean_hgrid.nc
// supergrid file and an ocean_mask.nc land mask file.
//
// The supergrid carries coordinates at twice the model resolution
// plus one: tracer cell centers sit at the odd supergrid points
// and tracer cell corners at the even ones. Supergrid areas are
// at twice the resolution, four sub-cells per tracer cell.
func NewMomGrid(hgridFile, maskFile fsutil.Path) (*Grid, error) {
	hgrid, err := netcdf.OpenFile(hgridFile.String(), netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("NewMomGrid `%s`: Open error: %w", hgridFile.String(), err)
	}
	defer hgrid.Close()

	x, xRows, xCols, err := readVar2D(hgrid, "x")
	if err != nil {
		return nil, fmt.Errorf("NewMomGrid `%s`: %w", hgridFile.String(), err)
	}
	y, yRows, yCols, err := readVar2D(hgrid, "y")
	if err != nil {
		return nil, fmt.Errorf("NewMomGrid `%s`: %w", hgridFile.String(), err)
	}
	if xRows != yRows || xCols != yCols {
		return nil, fmt.Errorf("NewMomGrid `%s`: x is %dx%d but y is %dx%d",
			hgridFile.String(), xRows, xCols, yRows, yCols)
	}
	if xRows%2 == 0 || xCols%2 == 0 {
		return nil, fmt.Errorf("NewMomGrid `%s`: supergrid must have odd dimensions, got %dx%d",
			hgridFile.String(), xRows, xCols)
	}

	area, aRows, aCols, err := readVar2D(hgrid, "area")
	if err != nil {
		return nil, fmt.Errorf("NewMomGrid `%s`: %w", hgridFile.String(), err)
	}

	ny := (xRows - 1) / 2
	nx := (xCols - 1) / 2
	if aRows != 2*ny || aCols != 2*nx {
		return nil, fmt.Errorf("NewMomGrid `%s`: area is %dx%d, expected %dx%d",
			hgridFile.String(), aRows, aCols, 2*ny, 2*nx)
	}

	mask, err := readMomMask(maskFile, ny, nx)
	if err != nil {
		return nil, err
	}

	g := &Grid{
		Name:      "MOM",
		Nx:        nx,
		Ny:        ny,
		CenterLat: make([]float64, nx*ny),
		CenterLon: make([]float64, nx*ny),
		CornerLat: make([]float64, nx*ny*4),
		CornerLon: make([]float64, nx*ny*4),
		Mask:      mask,
		Area:      make([]float64, nx*ny),
	}

	super := func(data []float64, j, i int) float64 {
		return data[j*xCols+i]
	}

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			cell := j*nx + i

			g.CenterLat[cell] = super(y, 2*j+1, 2*i+1)
			g.CenterLon[cell] = super(x, 2*j+1, 2*i+1)

			// Counterclockwise from the south-west corner.
			jc := []int{2 * j, 2 * j, 2*j + 2, 2*j + 2}
			ic := []int{2 * i, 2*i + 2, 2*i + 2, 2 * i}
			for c := 0; c < 4; c++ {
				g.CornerLat[cell*4+c] = super(y, jc[c], ic[c])
				g.CornerLon[cell*4+c] = super(x, jc[c], ic[c])
			}

			g.Area[cell] = area[(2*j)*aCols+2*i] +
				area[(2*j)*aCols+2*i+1] +
				area[(2*j+1)*aCols+2*i] +
				area[(2*j+1)*aCols+2*i+1]
		}
	}

	return g, nil
}

// readMomMask reads the wet mask (1 = ocean cell) from an
// ocean_mask.nc file.
func readMomMask(maskFile fsutil.Path, ny, nx int) ([]int32, error) {
	ds, err := netcdf.OpenFile(maskFile.String(), netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("NewMomGrid `%s`: Open error: %w", maskFile.String(), err)
	}
	defer ds.Close()

	wet, rows, cols, err := readVar2D(ds, "mask")
	if err != nil {
		return nil, fmt.Errorf("NewMomGrid `%s`: %w", maskFile.String(), err)
	}
	if rows != ny || cols != nx {
		return nil, fmt.Errorf("NewMomGrid `%s`: mask is %dx%d, grid is %dx%d",
			maskFile.String(), rows, cols, ny, nx)
	}

	mask := make([]int32, ny*nx)
	for i, w := range wet {
		if w != 0 {
			mask[i] = 1
		}
	}
	return mask, nil
}
