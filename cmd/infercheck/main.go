// Command infercheck drives the inference pipeline (spec §6: walk,
// solve, resolve) over a handful of hand-built scenarios and prints
// each scenario's root expression's resolved type (or its errors), the
// way cmd/typecheck/main.go drives the
// teacher's types.InferenceContext over hand-built ast.Expr trees.
//
// Parsing and name resolution are out of this core's scope (spec §1),
// so there is nothing for a textual REPL to parse; -repl instead opens
// an interactive scenario picker over internal/repl's liner-based
// idiom, reusing its color palette and history file conventions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/vela-lang/typecore/internal/config"
	"github.com/vela-lang/typecore/internal/diagnostic"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/infer"
	"github.com/vela-lang/typecore/internal/resolve"
	"github.com/vela-lang/typecore/internal/typeterm"
	"github.com/vela-lang/typecore/internal/unify"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

func main() {
	configPath := flag.String("config", "", "path to a pass configuration YAML file (default: built-in defaults)")
	replMode := flag.Bool("repl", false, "open an interactive scenario picker instead of running every scenario")
	only := flag.String("scenario", "", "run only the named scenario and exit")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("config error"), err)
			os.Exit(1)
		}
		cfg = loaded
	}
	typeterm.SetMaxStripIterations(cfg.MaxStripIterations)
	diagnostic.SetVerbose(cfg.VerboseDiagnostics)

	if *replMode {
		runREPL(cfg, os.Stdout)
		return
	}

	if *only != "" {
		sc, ok := findScenario(*only)
		if !ok {
			fmt.Fprintf(os.Stderr, "%s: no such scenario %q\n", red("error"), *only)
			os.Exit(1)
		}
		runScenario(sc, cfg, os.Stdout)
		return
	}

	for _, sc := range scenarios {
		runScenario(sc, cfg, os.Stdout)
	}
}

func findScenario(name string) (scenario, bool) {
	for _, sc := range scenarios {
		if sc.name == name {
			return sc, true
		}
	}
	return scenario{}, false
}

// runScenario runs one scenario's expression through the full
// pipeline — walk, solve, resolve — and prints its outcome.
func runScenario(sc scenario, cfg config.Pass, out io.Writer) {
	fmt.Fprintf(out, "%s %s\n", bold(cyan("▶")), bold(sc.name))
	fmt.Fprintf(out, "  %s\n", dim(sc.description))

	st, root := sc.build()

	ctx := infer.NewContextWithConfig(st, 0, cfg)
	ctx.Visit(root)
	result := ctx.IntoOverallResult()

	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			fmt.Fprintf(out, "  %s during inference: %v\n", red("error"), err)
		}
		fmt.Fprintln(out)
		return
	}

	gen := ids.NewGenerator(result.NextIDCount)
	uctx := unify.NewContext(st, result.Subst, gen)
	unifyErrs := uctx.SolveConstraints(result.Constraints)
	if len(unifyErrs) > 0 {
		for _, err := range unifyErrs {
			fmt.Fprintf(out, "  %s %v\n", red("unification failed:"), err)
		}
		fmt.Fprintln(out)
		return
	}

	helper := resolve.NewHelper(st, uctx.Substitutions(), result.TypeEnv)
	resolved, err := helper.ResolveByID(root.TypeID())
	if err != nil {
		fmt.Fprintf(out, "  %s %v\n", red("resolution failed:"), err)
		fmt.Fprintln(out)
		return
	}

	fmt.Fprintf(out, "  %s %s\n", green("type:"), bold(resolved.String()))
	fmt.Fprintln(out)
}

// runREPL opens a liner-driven scenario picker: no lexer/parser exists
// in this core to feed a textual expression through, so the
// interactive loop instead lets a user step through the built-in
// scenarios by name or number, mirroring internal/repl/repl.go's
// history-file and prompt conventions from the teacher.
func runREPL(cfg config.Pass, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".infercheck_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(partial string) (c []string) {
		for _, sc := range scenarios {
			if strings.HasPrefix(sc.name, partial) {
				c = append(c, sc.name)
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("infercheck scenario picker"))
	fmt.Fprintln(out, dim("Enter a scenario name or number, :list to list, :quit to exit"))
	fmt.Fprintln(out)
	printScenarioList(out)

prompt:
	for {
		input, err := line.Prompt("infer> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q":
			fmt.Fprintln(out, green("Goodbye!"))
			break prompt
		case input == ":list":
			printScenarioList(out)
		default:
			sc, ok := resolveScenarioInput(input)
			if !ok {
				fmt.Fprintf(out, "%s: unknown scenario %q\n", yellow("warning"), input)
				continue
			}
			runScenario(sc, cfg, out)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func printScenarioList(out io.Writer) {
	for i, sc := range scenarios {
		fmt.Fprintf(out, "  %s %s %s\n", dim(fmt.Sprintf("%d)", i+1)), bold(sc.name), dim(sc.description))
	}
	fmt.Fprintln(out)
}

func resolveScenarioInput(input string) (scenario, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(scenarios) {
			return scenarios[n-1], true
		}
		return scenario{}, false
	}
	return findScenario(input)
}
