// Command sweepgen reads a YAML parameter grid and prints one reassort
// command line per combination, replacing the ad hoc command-generation
// script that formatted one shell command per sweep point by hand.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Grid is a parameter sweep specification: every key is a positional
// argument name from the reassort command line, and every value is the
// list of settings to sweep across for that argument. Keys absent from
// the grid fall back to Fixed.
type Grid struct {
	Binary string              `yaml:"binary"`
	Fixed  map[string]string   `yaml:"fixed"`
	Axes   map[string][]string `yaml:"axes"`
}

// argOrder is the reassort binary's fixed positional contract.
var argOrder = []string{
	"destination", "timestep", "krecord", "untilext", "rep", "s", "N0", "K", "u",
	"gen_num", "c", "r", "seed", "host_num", "kmax",
	"pop2init_str", "pop2init_len", "pop1init_str", "pop1init_len",
	"tr", "mig", "mutcap",
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	gridPath := flag.String("grid", "", "path to the sweep grid YAML file")
	flag.Parse()

	if *gridPath == "" {
		slog.Error("sweepgen: -grid is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*gridPath)
	if err != nil {
		slog.Error("sweepgen: reading grid file", "error", err)
		os.Exit(1)
	}

	var grid Grid
	if err := yaml.Unmarshal(data, &grid); err != nil {
		slog.Error("sweepgen: parsing grid file", "error", err)
		os.Exit(1)
	}
	if grid.Binary == "" {
		grid.Binary = "reassort"
	}

	combos := expand(grid.Axes)
	for _, combo := range combos {
		args := make(map[string]string, len(argOrder))
		for k, v := range grid.Fixed {
			args[k] = v
		}
		for k, v := range combo {
			args[k] = v
		}

		line, err := buildLine(grid.Binary, args)
		if err != nil {
			slog.Error("sweepgen: building command line", "error", err)
			os.Exit(1)
		}
		fmt.Println(line)
	}
}

// buildLine renders one full command line in argOrder, failing loudly if
// the grid + fixed values leave any positional argument unset.
func buildLine(binary string, args map[string]string) (string, error) {
	line := binary
	for _, name := range argOrder {
		v, ok := args[name]
		if !ok {
			return "", fmt.Errorf("missing value for positional argument %q (set it under fixed: or axes:)", name)
		}
		line += " " + v
	}
	return line, nil
}

// expand computes the cartesian product of every axis, returning one map
// per combination. Axis keys are sorted first so output order is stable
// across runs of the same grid file.
func expand(axes map[string][]string) []map[string]string {
	if len(axes) == 0 {
		return []map[string]string{{}}
	}

	keys := make([]string, 0, len(axes))
	for k := range axes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	combos := []map[string]string{{}}
	for _, key := range keys {
		values := axes[key]
		next := make([]map[string]string, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				extended := make(map[string]string, len(combo)+1)
				for k, existing := range combo {
					extended[k] = existing
				}
				extended[key] = v
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}
