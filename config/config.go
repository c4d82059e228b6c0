// Package config holds the few knobs the interpreter's ambient behavior
// needs outside of program source itself: how many VM steps a run may take
// before it's treated as runaway, and the prompt a REPL session shows.
// Values come from environment variables via fortio.org/struct2env, the
// same env-driven configuration style the fortio.org tool family uses,
// layered under whatever the CLI flags in cmd/sophia override.
package config

import "fortio.org/struct2env"

// Options is the environment-configurable knob set. struct2env derives the
// variable names from the field names under the SOPHIA prefix, so these
// read SOPHIA_MAX_STEPS and SOPHIA_PROMPT.
type Options struct {
	MaxSteps int
	Prompt   string
}

// Default returns the built-in defaults before any environment or flag
// overrides are applied.
func Default() Options {
	return Options{
		MaxSteps: 10_000_000,
		Prompt:   "sophia> ",
	}
}

// FromEnv layers environment-variable overrides onto the defaults.
func FromEnv() (Options, error) {
	opts := Default()
	if errs := struct2env.SetFromEnv("SOPHIA", &opts); len(errs) > 0 {
		return opts, errs[0]
	}
	return opts, nil
}
