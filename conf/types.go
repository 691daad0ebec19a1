package conf

import "fmt"

// AtmGrid identifies one of the atmosphere grids the forcing
// fields are regridded from.
type AtmGrid int

const (
	// CORE2 - the CORE2 normal year forcing grid
	CORE2 AtmGrid = iota
	// JRA55 - the JRA55-do forcing grid
	JRA55
	// JRA55Runoff - the JRA55-do river runoff grid
	JRA55Runoff
)

// AllAtmGrids lists every atmosphere grid, in the order the
// batch driver iterates them.
var AllAtmGrids = []AtmGrid{CORE2, JRA55, JRA55Runoff}

func (g AtmGrid) String() string {
	switch g {
	case CORE2:
		return "CORE2"
	case JRA55:
		return "JRA55"
	case JRA55Runoff:
		return "JRA55_runoff"
	}
	return fmt.Sprintf("AtmGrid(%d)", int(g))
}

// FromString ...
func (g *AtmGrid) FromString(s string) error {
	switch s {
	case "CORE2":
		*g = CORE2
	case "JRA55":
		*g = JRA55
	case "JRA55_runoff":
		*g = JRA55Runoff
	default:
		return fmt.Errorf("Unknown atmosphere grid `%s`", s)
	}
	return nil
}

// OceanGrid identifies one of the ocean grids the forcing fields
// are regridded to.
type OceanGrid int

const (
	// MOM1 - the 1 degree MOM grid
	MOM1 OceanGrid = iota
	// MOM025 - the 0.25 degree MOM grid
	MOM025
	// MOM01 - the 0.1 degree MOM grid
	MOM01
)

// AllOceanGrids lists every ocean grid, in the order the batch
// driver iterates them.
var AllOceanGrids = []OceanGrid{MOM1, MOM025, MOM01}

func (g OceanGrid) String() string {
	switch g {
	case MOM1:
		return "MOM1"
	case MOM025:
		return "MOM025"
	case MOM01:
		return "MOM01"
	}
	return fmt.Sprintf("OceanGrid(%d)", int(g))
}

// FromString ...
func (g *OceanGrid) FromString(s string) error {
	switch s {
	case "MOM1":
		*g = MOM1
	case "MOM025":
		*g = MOM025
	case "MOM01":
		*g = MOM01
	default:
		return fmt.Errorf("Unknown ocean grid `%s`", s)
	}
	return nil
}

// Method identifies one of the interpolation methods the weight
// generator supports. The methods themselves are opaque to the
// driver; the names are passed through to the generator.
type Method int

const (
	// Patch - patch recovery interpolation
	Patch Method = iota
	// Conserve2nd - second order conservative interpolation
	Conserve2nd
)

// AllMethods lists every interpolation method, in the order the
// batch driver iterates them.
var AllMethods = []Method{Patch, Conserve2nd}

func (m Method) String() string {
	switch m {
	case Patch:
		return "patch"
	case Conserve2nd:
		return "conserve2nd"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// FromString ...
func (m *Method) FromString(s string) error {
	switch s {
	case "patch":
		*m = Patch
	case "conserve2nd":
		*m = Conserve2nd
	default:
		return fmt.Errorf("Unknown interpolation method `%s`", s)
	}
	return nil
}
