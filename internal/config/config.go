// Package config loads the virtual machine's execution limits from the
// environment, using the same struct-tag-driven approach as the rest of the
// toolchain's dependency set.
package config

import (
	"github.com/caarlos0/env/v6"

	"github.com/mna/kerchow/lang/machine"
)

// envVars holds the environment variable overrides for machine.Config. An
// unset variable takes the default below; an explicit 0 disables the
// corresponding limit, matching machine.Config's own convention.
type envVars struct {
	MaxSteps     int `env:"KERCHOW_MAX_STEPS" envDefault:"10000000"`
	MaxCallDepth int `env:"KERCHOW_MAX_CALL_DEPTH" envDefault:"10000"`
}

// Load reads KERCHOW_MAX_STEPS and KERCHOW_MAX_CALL_DEPTH from the
// environment into a machine.Config, defaulting to machine.DefaultConfig's
// values when unset.
func Load() (machine.Config, error) {
	var e envVars
	if err := env.Parse(&e); err != nil {
		return machine.Config{}, err
	}
	return machine.Config{MaxSteps: e.MaxSteps, MaxCallDepth: e.MaxCallDepth}, nil
}
