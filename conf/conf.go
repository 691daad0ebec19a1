package conf

// This module contains data structures used to keep
// configuration variables for the command.

import (
	"runtime"

	"github.com/BurntSushi/toml"
)

// CommandsConf contains the names of the external executables the
// driver invokes. Each one is looked up in the system path unless
// an absolute path is given.
type CommandsConf struct {
	Mpirun          string
	RegridWeightGen string
	Ncrename        string
}

// MPIConf contains additional options to use in mpirun calls.
// You can use MkMPIOptions function to build an array of command
// arguments in a practical way.
type MPIConf struct {
	// ProcCount is the number of processes the weight generator
	// runs with. Zero means half of the available CPUs.
	ProcCount int

	AdditionalOptions []string
}

// Configuration contains all configuration sub structures
type Configuration struct {
	Commands CommandsConf
	MPI      MPIConf
}

// Config is the runtime configuration readed from file.
var Config Configuration

// Default resets Config to the built-in defaults.
func Default() {
	Config = Configuration{
		Commands: CommandsConf{
			Mpirun:          "mpirun",
			RegridWeightGen: "ESMF_RegridWeightGen",
			Ncrename:        "ncrename",
		},
	}
}

// Init initializes the system by reading configuration from
// `confPath` file. Values omitted from the file keep their
// defaults.
func Init(confPath string) error {
	Default()
	_, err := toml.DecodeFile(confPath, &Config)
	return err
}

// ProcCount returns the number of processes to run the weight
// generator with.
func ProcCount() int {
	if Config.MPI.ProcCount > 0 {
		return Config.MPI.ProcCount
	}
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// MkMPIOptions build an array of command arguments merging given
// options with `AdditionalOptions` as read from configuration file.
func MkMPIOptions(options ...string) []string {
	var res []string
	res = append(res, Config.MPI.AdditionalOptions...)
	res = append(res, options...)
	return res
}
