package grids

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"
)

// readVar reads a whole variable as float64, whatever its stored
// type, and returns its data flattened together with its shape.
func readVar(ds netcdf.Dataset, name string) ([]float64, []int, error) {
	v, err := ds.Var(name)
	if err != nil {
		return nil, nil, fmt.Errorf("variable `%s` not found: %w", name, err)
	}

	dims, err := v.Dims()
	if err != nil {
		return nil, nil, fmt.Errorf("variable `%s`: Dims error: %w", name, err)
	}

	shape := make([]int, len(dims))
	total := 1
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, nil, fmt.Errorf("variable `%s`: dim length error: %w", name, err)
		}
		shape[i] = int(n)
		total *= int(n)
	}

	t, err := v.Type()
	if err != nil {
		return nil, nil, fmt.Errorf("variable `%s`: Type error: %w", name, err)
	}

	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, total)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, nil, fmt.Errorf("variable `%s`: read error: %w", name, err)
		}
		return data, shape, nil
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, nil, fmt.Errorf("variable `%s`: read error: %w", name, err)
		}
		data := make([]float64, total)
		for i, val := range tmp {
			data[i] = float64(val)
		}
		return data, shape, nil
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, nil, fmt.Errorf("variable `%s`: read error: %w", name, err)
		}
		data := make([]float64, total)
		for i, val := range tmp {
			data[i] = float64(val)
		}
		return data, shape, nil
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, nil, fmt.Errorf("variable `%s`: read error: %w", name, err)
		}
		data := make([]float64, total)
		for i, val := range tmp {
			data[i] = float64(val)
		}
		return data, shape, nil
	default:
		return nil, nil, fmt.Errorf("variable `%s`: unsupported type %v", name, t)
	}
}

// readVar1D reads a one dimensional variable.
func readVar1D(ds netcdf.Dataset, name string) ([]float64, error) {
	data, shape, err := readVar(ds, name)
	if err != nil {
		return nil, err
	}
	if len(shape) != 1 {
		return nil, fmt.Errorf("variable `%s`: expected 1D, got %dD", name, len(shape))
	}
	return data, nil
}

// readVar2D reads a two dimensional variable, returned flattened
// row-major with its (rows, cols) shape.
func readVar2D(ds netcdf.Dataset, name string) ([]float64, int, int, error) {
	data, shape, err := readVar(ds, name)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(shape) != 2 {
		return nil, 0, 0, fmt.Errorf("variable `%s`: expected 2D, got %dD", name, len(shape))
	}
	return data, shape[0], shape[1], nil
}
