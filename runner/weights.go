// Package runner drives the external tools that compute the
// remapping weights and rewrite them into SCRIP naming.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cosima/remap-weights/conf"
	"github.com/cosima/remap-weights/fsutil"
	"github.com/cosima/remap-weights/grids"
)

// The weight generator reports its progress here, in its working
// directory, not on stdout.
const regridLog = "PET0.RegridWeightGen.Log"

// Options control how CreateWeights invokes the weight generator.
type Options struct {
	// IgnoreUnmapped tolerates destination cells with no
	// overlapping source cells.
	IgnoreUnmapped bool

	// UnmaskedSrc and UnmaskedDst substitute an all-zero mask
	// for the corresponding side before it is written out, so
	// the generator sees the whole grid.
	UnmaskedSrc bool
	UnmaskedDst bool
}

// DefaultOptions returns the options the batch driver regrids
// with: the atmosphere side unmasked, the ocean side masked.
func DefaultOptions() Options {
	return Options{UnmaskedSrc: true}
}

// CreateWeights writes src and dst to scratch SCRIP files and
// runs the weight generator on them under mpirun. On success the
// scratch grid files are removed and the path of the raw weight
// file is returned; the caller owns it.
func CreateWeights(src, dst *grids.Grid, method conf.Method, opts Options) (fsutil.Path, error) {
	srcScrip, err := fsutil.TempFile("src-grid-*.nc")
	if err != nil {
		return "", err
	}
	dstScrip, err := fsutil.TempFile("dst-grid-*.nc")
	if err != nil {
		return "", err
	}
	weights, err := fsutil.TempFile("regrid-weights-*.nc")
	if err != nil {
		return "", err
	}

	if err = writeGrid(src, srcScrip, opts.UnmaskedSrc); err != nil {
		return "", err
	}
	if err = writeGrid(dst, dstScrip, opts.UnmaskedDst); err != nil {
		return "", err
	}

	args := conf.MkMPIOptions(
		"-np", strconv.Itoa(conf.ProcCount()),
		conf.Config.Commands.RegridWeightGen,
		"-s", srcScrip.String(),
		"-d", dstScrip.String(),
		"-m", method.String(),
		"-w", weights.String(),
		// NetCDF-4 output lets the converter add remap_matrix
		// without re-entering define mode.
		"--netcdf4",
	)
	if opts.IgnoreUnmapped {
		args = append(args, "--ignore_unmapped")
	}

	fsutil.Logf("running %s %s\n", conf.Config.Commands.Mpirun, strings.Join(args, " "))
	output, err := fsutil.RunCommand("", regridLog, conf.Config.Commands.Mpirun, args...)
	if err != nil {
		return "", regridError(err, output)
	}

	if err = os.Remove(srcScrip.String()); err != nil {
		return "", fmt.Errorf("CreateWeights: cannot remove scratch grid `%s`: %w", srcScrip.String(), err)
	}
	if err = os.Remove(dstScrip.String()); err != nil {
		return "", fmt.Errorf("CreateWeights: cannot remove scratch grid `%s`: %w", dstScrip.String(), err)
	}

	return weights, nil
}

// writeGrid writes one side of the regridding, substituting an
// all-zero mask when that side runs unmasked.
func writeGrid(g *grids.Grid, file fsutil.Path, unmasked bool) error {
	if unmasked {
		return g.WriteScrip(file, make([]int32, g.Size()))
	}
	return g.WriteScrip(file, nil)
}

// regridError builds the diagnostic for a failed generator run:
// exit status, captured output and, when present, the generator's
// own log file.
func regridError(runErr error, output string) error {
	ret := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		ret = exitErr.ExitCode()
	}

	diag := fmt.Sprintf("%s failed ret %d", conf.Config.Commands.RegridWeightGen, ret)
	if output != "" {
		diag = fmt.Sprintf("%s\n%s", diag, output)
	}
	if content, err := os.ReadFile(regridLog); err == nil {
		diag = fmt.Sprintf("%s\ncontents of %s:\n%s", diag, regridLog, content)
	}

	return fmt.Errorf("%s: %w", diag, runErr)
}
