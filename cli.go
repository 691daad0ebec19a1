package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/cosima/remap-weights/conf"
	"github.com/cosima/remap-weights/folders"
	"github.com/cosima/remap-weights/fsutil"
	"github.com/cosima/remap-weights/grids"
	"github.com/cosima/remap-weights/runner"
)

// Version of the command
var Version string = "development"

const usage = `
Usage: remap-weights [options] <input_dir> <jra55_input>

Computes the remapping weights between every atmosphere and ocean
grid pair with ESMF_RegridWeightGen and converts each result to
SCRIP remap naming. Weight files are named {atm}_{ocean}_{method}.nc.

<input_dir> is the model input directory holding the MOM and CORE2
grid files, <jra55_input> the JRA55-do input directory.

-atm NAME     regrid only from this atmosphere grid; one of
              CORE2, JRA55, JRA55_runoff
-ocean NAME   regrid only to this ocean grid; one of
              MOM1, MOM025, MOM01
-method NAME  use only this interpolation method; one of
              patch, conserve2nd
-out DIR      directory the weight files are written to.
              Default is the current directory
-config FILE  TOML configuration file with the external command
              names and mpirun options
-ignore-unmapped
              tolerate destination cells with no source cells
-v            print version to stdout
`

func failed(err error) {
	log.Fatalf("%s\n%s", err, usage)
}

// buildAtmGrid selects the constructor matching the atmosphere
// grid variant.
func buildAtmGrid(atm conf.AtmGrid, defs folders.GridDefs) (*grids.Grid, error) {
	switch atm {
	case conf.CORE2:
		return grids.NewCore2Grid(defs.Atm(atm))
	case conf.JRA55:
		return grids.NewJra55Grid(defs.Atm(atm))
	case conf.JRA55Runoff:
		return grids.NewJra55RunoffGrid(defs.Atm(atm))
	}
	return nil, fmt.Errorf("no constructor for atmosphere grid %s", atm)
}

func outputName(atm conf.AtmGrid, ocean conf.OceanGrid, method conf.Method) fsutil.Path {
	return fsutil.PathF("%s_%s_%s.nc", atm, ocean, method)
}

func main() {
	showver := flag.Bool("v", false, "")
	atmF := flag.String("atm", "", "")
	oceanF := flag.String("ocean", "", "")
	methodF := flag.String("method", "", "")
	outF := flag.String("out", ".", "")
	configF := flag.String("config", "", "")
	ignoreUnmappedF := flag.Bool("ignore-unmapped", false, "")

	flag.Parse()

	if showver != nil && *showver {
		fmt.Printf("remap-weights ver. %s\n", Version)
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		failed(errors.New("Invalid arguments provided"))
	}

	if *configF != "" {
		if err := conf.Init(*configF); err != nil {
			log.Fatalf("Cannot read configuration: %s", err)
		}
	} else {
		conf.Default()
	}

	atmGrids := conf.AllAtmGrids
	if *atmF != "" {
		var atm conf.AtmGrid
		if err := atm.FromString(*atmF); err != nil {
			failed(err)
		}
		atmGrids = []conf.AtmGrid{atm}
	}

	oceanGrids := conf.AllOceanGrids
	if *oceanF != "" {
		var ocean conf.OceanGrid
		if err := ocean.FromString(*oceanF); err != nil {
			failed(err)
		}
		oceanGrids = []conf.OceanGrid{ocean}
	}

	methods := conf.AllMethods
	if *methodF != "" {
		var method conf.Method
		if err := method.FromString(*methodF); err != nil {
			failed(err)
		}
		methods = []conf.Method{method}
	}

	defs := folders.NewGridDefs(fsutil.Path(args[0]), fsutil.Path(args[1]))

	outDir := fsutil.Path(*outF)
	fs := fsutil.Transaction{Root: outDir}
	if !fs.Exists(".") {
		log.Fatalf("Directory not found: %s", outDir.String())
	}

	for _, atm := range atmGrids {
		for _, ocean := range oceanGrids {
			for _, method := range methods {
				fsutil.Logf("START REGRID %s TO %s WITH %s\n", atm, ocean, method)

				srcGrid, err := buildAtmGrid(atm, defs)
				if err != nil {
					log.Fatal(err)
				}

				oceanDef := defs.Ocean(ocean)
				dstGrid, err := grids.NewMomGrid(oceanDef.HGridFile, oceanDef.MaskFile)
				if err != nil {
					log.Fatal(err)
				}

				opts := runner.DefaultOptions()
				opts.IgnoreUnmapped = *ignoreUnmappedF

				weights, err := runner.CreateWeights(srcGrid, dstGrid, method, opts)
				if err != nil {
					log.Fatal(err)
				}

				converted, err := runner.ConvertToScrip(weights)
				if err != nil {
					log.Fatal(err)
				}

				fs := fsutil.Transaction{Root: outDir}
				fs.MoveAbs(converted, outputName(atm, ocean, method))
				if fs.Err != nil {
					log.Fatal(fs.Err)
				}

				fsutil.Logf("COMPLETED REGRID %s TO %s WITH %s\n", atm, ocean, method)
			}
		}
	}
}
