// Package grids builds in-memory representations of the model
// grids from their definition files and serializes them in the
// SCRIP grid description format the weight generator consumes.
package grids

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/cosima/remap-weights/fsutil"
)

// Grid is a 2D model grid. Centers and masks are flattened
// row-major; corners hold four values per cell, counterclockwise
// from the south-west corner.
type Grid struct {
	Name string

	Nx, Ny int

	// Cell center coordinates, degrees.
	CenterLat []float64
	CenterLon []float64

	// Cell corner coordinates, degrees.
	CornerLat []float64
	CornerLon []float64

	// Participation mask, 1 = the cell takes part in the
	// regridding.
	Mask []int32

	// Cell areas in m^2. Nil for grids whose definition files
	// carry no area information.
	Area []float64
}

// Size returns the number of cells.
func (g *Grid) Size() int {
	return g.Nx * g.Ny
}

// WriteScrip writes the grid as a SCRIP grid description file.
// When mask is non-nil it is written as grid_imask in place of
// the grid's own mask.
func (g *Grid) WriteScrip(file fsutil.Path, mask []int32) error {
	imask := g.Mask
	if mask != nil {
		imask = mask
	}
	if len(imask) != g.Size() {
		return fmt.Errorf("WriteScrip `%s`: mask has %d cells, grid has %d", file.String(), len(imask), g.Size())
	}

	ds, err := netcdf.CreateFile(file.String(), netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("WriteScrip `%s`: Create error: %w", file.String(), err)
	}
	defer ds.Close()

	sizeDim, err := ds.AddDim("grid_size", uint64(g.Size()))
	if err != nil {
		return fmt.Errorf("WriteScrip `%s`: AddDim grid_size: %w", file.String(), err)
	}
	cornersDim, err := ds.AddDim("grid_corners", 4)
	if err != nil {
		return fmt.Errorf("WriteScrip `%s`: AddDim grid_corners: %w", file.String(), err)
	}
	rankDim, err := ds.AddDim("grid_rank", 2)
	if err != nil {
		return fmt.Errorf("WriteScrip `%s`: AddDim grid_rank: %w", file.String(), err)
	}

	// Definitions first, data writes after EndDef.
	addVar := func(name string, t netcdf.Type, dims []netcdf.Dim, units string) netcdf.Var {
		if err != nil {
			return netcdf.Var{}
		}
		var v netcdf.Var
		v, err = ds.AddVar(name, t, dims)
		if err != nil {
			err = fmt.Errorf("AddVar %s: %w", name, err)
			return netcdf.Var{}
		}
		if units != "" {
			err = v.Attr("units").WriteBytes([]byte(units))
			if err != nil {
				err = fmt.Errorf("AddVar %s: units attribute: %w", name, err)
			}
		}
		return v
	}

	gridDims := addVar("grid_dims", netcdf.INT, []netcdf.Dim{rankDim}, "")
	centerLat := addVar("grid_center_lat", netcdf.DOUBLE, []netcdf.Dim{sizeDim}, "degrees")
	centerLon := addVar("grid_center_lon", netcdf.DOUBLE, []netcdf.Dim{sizeDim}, "degrees")
	gridIMask := addVar("grid_imask", netcdf.INT, []netcdf.Dim{sizeDim}, "unitless")
	cornerLat := addVar("grid_corner_lat", netcdf.DOUBLE, []netcdf.Dim{sizeDim, cornersDim}, "degrees")
	cornerLon := addVar("grid_corner_lon", netcdf.DOUBLE, []netcdf.Dim{sizeDim, cornersDim}, "degrees")

	var gridArea netcdf.Var
	if g.Area != nil {
		gridArea = addVar("grid_area", netcdf.DOUBLE, []netcdf.Dim{sizeDim}, "m^2")
	}
	if err != nil {
		return fmt.Errorf("WriteScrip `%s`: %w", file.String(), err)
	}

	if err = ds.EndDef(); err != nil {
		return fmt.Errorf("WriteScrip `%s`: EndDef error: %w", file.String(), err)
	}

	// SCRIP wants the dimension sizes as (lon, lat).
	if err = gridDims.WriteInt32s([]int32{int32(g.Nx), int32(g.Ny)}); err != nil {
		return fmt.Errorf("WriteScrip `%s`: write grid_dims: %w", file.String(), err)
	}
	if err = centerLat.WriteFloat64s(g.CenterLat); err != nil {
		return fmt.Errorf("WriteScrip `%s`: write grid_center_lat: %w", file.String(), err)
	}
	if err = centerLon.WriteFloat64s(g.CenterLon); err != nil {
		return fmt.Errorf("WriteScrip `%s`: write grid_center_lon: %w", file.String(), err)
	}
	if err = gridIMask.WriteInt32s(imask); err != nil {
		return fmt.Errorf("WriteScrip `%s`: write grid_imask: %w", file.String(), err)
	}
	if err = cornerLat.WriteFloat64s(g.CornerLat); err != nil {
		return fmt.Errorf("WriteScrip `%s`: write grid_corner_lat: %w", file.String(), err)
	}
	if err = cornerLon.WriteFloat64s(g.CornerLon); err != nil {
		return fmt.Errorf("WriteScrip `%s`: write grid_corner_lon: %w", file.String(), err)
	}
	if g.Area != nil {
		if err = gridArea.WriteFloat64s(g.Area); err != nil {
			return fmt.Errorf("WriteScrip `%s`: write grid_area: %w", file.String(), err)
		}
	}

	return nil
}
