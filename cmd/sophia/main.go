// Command sophia runs sophia programs: pass one or more file paths to run
// them in order, or run with no arguments to get an interactive REPL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/progressbar"
	"fortio.org/safecast"
	"fortio.org/sets"
	"fortio.org/terminal"

	"github.com/juno-r1/sophia/config"
	"github.com/juno-r1/sophia/engine"
	"github.com/juno-r1/sophia/interp"
)

func main() {
	maxSteps := flag.Int64("max-steps", 10_000_000, "abort a run after this many VM steps (0 = unbounded)")
	cli.MinArgs = 0
	cli.MaxArgs = -1
	cli.ArgsHelp = "[file ...]"
	cli.Main()

	opts, err := config.FromEnv()
	if err != nil {
		log.Errf("sophia: reading environment configuration: %v", err)
		os.Exit(1)
	}
	if steps, err := safecast.Convert[int](*maxSteps); err == nil {
		opts.MaxSteps = steps
	} else {
		log.Warnf("sophia: -max-steps %d out of range, keeping default %d", *maxSteps, opts.MaxSteps)
	}

	args := flag.Args()
	if len(args) == 0 {
		runREPL(opts)
		return
	}
	if runFiles(args, opts) {
		os.Exit(1)
	}
}

// runFiles executes each named file in turn, skipping any path already seen
// (a caller accidentally listing the same module twice shouldn't rerun it).
// It returns true iff any file failed to read or compile, or ended in a
// runtime Err.
func runFiles(paths []string, opts config.Options) bool {
	seen := sets.New[string]()
	bar := progressbar.DefaultConfig().NewBar()
	failed := false
	for i, path := range paths {
		bar.Progress(100 * float64(i) / float64(len(paths)))
		if seen.Has(path) {
			log.Infof("sophia: skipping already-run file %s", path)
			continue
		}
		seen.Add(path)
		source, err := os.ReadFile(path)
		if err != nil {
			log.Errf("sophia: reading %s: %v", path, err)
			failed = true
			continue
		}
		result, err := engine.RunSource(string(source), opts)
		if err != nil {
			log.Errf("sophia: %s: %v", path, err)
			failed = true
			continue
		}
		if result.Kind == interp.KindErr {
			log.Errf("sophia: %s: runtime error %s", path, interp.Debug(result))
			failed = true
			continue
		}
		fmt.Println(interp.Debug(result))
	}
	bar.Progress(100)
	bar.End()
	return failed
}

// runREPL drives an interactive read-eval-print loop over fortio.org/terminal,
// recompiling and running the whole accumulated buffer each time so a later
// line can see earlier bindings (the VM has no incremental-compile mode).
func runREPL(opts config.Options) {
	term, err := terminal.Open(context.Background())
	if err != nil {
		log.Errf("sophia: opening terminal: %v", err)
		os.Exit(1)
	}
	defer term.Close()
	term.SetPrompt(opts.Prompt)

	var buffer string
	for {
		line, err := term.ReadLine()
		if err != nil {
			return // EOF or interrupt: exit quietly.
		}
		buffer += line + "\n"
		result, err := engine.RunSource(buffer, opts)
		if err != nil {
			log.Errf("sophia: %v", err)
			continue
		}
		if result.Kind == interp.KindErr {
			log.Errf("sophia: runtime error %s", interp.Debug(result))
			continue
		}
		fmt.Println(interp.Debug(result))
	}
}
