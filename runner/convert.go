package runner

import (
	"fmt"
	"os"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/cosima/remap-weights/conf"
	"github.com/cosima/remap-weights/fsutil"
)

// The weight generator names dimensions and variables in its own
// convention; the model expects SCRIP remap naming. dimRenames
// and varRenames map one onto the other, old name first.
var dimRenames = [][2]string{
	{"n_a", "src_grid_size"},
	{"n_b", "dst_grid_size"},
	{"n_s", "num_links"},
	{"nv_a", "src_grid_corners"},
	{"nv_b", "dst_grid_corners"},
}

var varRenames = [][2]string{
	{"yc_a", "src_grid_center_lat"},
	{"yc_b", "dst_grid_center_lat"},
	{"xc_a", "src_grid_center_lon"},
	{"xc_b", "dst_grid_center_lon"},
	{"yv_a", "src_grid_corner_lat"},
	{"xv_a", "src_grid_corner_lon"},
	{"yv_b", "dst_grid_corner_lat"},
	{"xv_b", "dst_grid_corner_lon"},
	{"mask_a", "src_grid_imask"},
	{"mask_b", "dst_grid_imask"},
	{"area_a", "src_grid_area"},
	{"area_b", "dst_grid_area"},
	{"frac_a", "src_grid_frac"},
	{"frac_b", "dst_grid_frac"},
	{"col", "src_address"},
	{"row", "dst_address"},
}

// ConvertToScrip rewrites a raw weight file into SCRIP remap
// naming: ncrename maps the dimensions and variables, then the
// two dimensional remap_matrix variable is added with the sparse
// weight values in its first column. The original file is removed
// and the path of the converted file returned.
func ConvertToScrip(weights fsutil.Path) (fsutil.Path, error) {
	converted, err := fsutil.TempFile("remap-weights-*.nc")
	if err != nil {
		return "", err
	}
	// ncrename prompts before overwriting an existing target.
	if err = os.Remove(converted.String()); err != nil {
		return "", fmt.Errorf("ConvertToScrip: cannot remove `%s`: %w", converted.String(), err)
	}

	args := make([]string, 0, 2*(len(dimRenames)+len(varRenames))+2)
	for _, r := range dimRenames {
		args = append(args, "-d", r[0]+","+r[1])
	}
	for _, r := range varRenames {
		args = append(args, "-v", r[0]+","+r[1])
	}
	args = append(args, weights.String(), converted.String())

	output, err := fsutil.RunCommand("", "", conf.Config.Commands.Ncrename, args...)
	if err != nil {
		if output != "" {
			return "", fmt.Errorf("ConvertToScrip `%s`: %w\n%s", weights.String(), err, output)
		}
		return "", fmt.Errorf("ConvertToScrip `%s`: %w", weights.String(), err)
	}

	if err = addRemapMatrix(weights, converted); err != nil {
		return "", err
	}

	if err = os.Remove(weights.String()); err != nil {
		return "", fmt.Errorf("ConvertToScrip: cannot remove `%s`: %w", weights.String(), err)
	}

	return converted, nil
}

// addRemapMatrix creates the remap_matrix variable, shaped
// num_links x num_wgts, in the converted file and copies the
// sparse weight values from the original file's S variable into
// its first column. The remaining columns stay zero.
func addRemapMatrix(weights, converted fsutil.Path) error {
	s, err := readWeightValues(weights)
	if err != nil {
		return err
	}

	ds, err := netcdf.OpenFile(converted.String(), netcdf.WRITE)
	if err != nil {
		return fmt.Errorf("addRemapMatrix `%s`: Open error: %w", converted.String(), err)
	}
	defer ds.Close()

	linksDim, err := ds.Dim("num_links")
	if err != nil {
		return fmt.Errorf("addRemapMatrix `%s`: dimension num_links not found: %w", converted.String(), err)
	}
	wgtsDim, err := ds.Dim("num_wgts")
	if err != nil {
		return fmt.Errorf("addRemapMatrix `%s`: dimension num_wgts not found: %w", converted.String(), err)
	}

	nLinks, err := linksDim.Len()
	if err != nil {
		return fmt.Errorf("addRemapMatrix `%s`: num_links length: %w", converted.String(), err)
	}
	nWgts, err := wgtsDim.Len()
	if err != nil {
		return fmt.Errorf("addRemapMatrix `%s`: num_wgts length: %w", converted.String(), err)
	}
	if int(nLinks) != len(s) {
		return fmt.Errorf("addRemapMatrix `%s`: %d links but %d weight values",
			converted.String(), nLinks, len(s))
	}

	matrix, err := ds.AddVar("remap_matrix", netcdf.DOUBLE, []netcdf.Dim{linksDim, wgtsDim})
	if err != nil {
		return fmt.Errorf("addRemapMatrix `%s`: AddVar remap_matrix: %w", converted.String(), err)
	}

	flat := make([]float64, int(nLinks)*int(nWgts))
	for i, w := range s {
		flat[i*int(nWgts)] = w
	}
	if err = matrix.WriteFloat64s(flat); err != nil {
		return fmt.Errorf("addRemapMatrix `%s`: write remap_matrix: %w", converted.String(), err)
	}

	return nil
}

// readWeightValues reads the sparse weight values (the S
// variable) from a raw weight file.
func readWeightValues(weights fsutil.Path) ([]float64, error) {
	ds, err := netcdf.OpenFile(weights.String(), netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("readWeightValues `%s`: Open error: %w", weights.String(), err)
	}
	defer ds.Close()

	v, err := ds.Var("S")
	if err != nil {
		return nil, fmt.Errorf("readWeightValues `%s`: variable S not found: %w", weights.String(), err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("readWeightValues `%s`: Dims error: %w", weights.String(), err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("readWeightValues `%s`: S is %dD, expected 1D", weights.String(), len(dims))
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, fmt.Errorf("readWeightValues `%s`: dim length error: %w", weights.String(), err)
	}

	s := make([]float64, n)
	if err = v.ReadFloat64s(s); err != nil {
		return nil, fmt.Errorf("readWeightValues `%s`: read error: %w", weights.String(), err)
	}
	return s, nil
}
