// Package runconfig parses and validates the engine's fixed-order
// positional command-line arguments into a typed, validated Config.
// Unlike the rest of this codebase's flag-based tools, the external
// contract here is a fixed positional argument list, so it is hand-parsed
// rather than routed through the flag package.
package runconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds every resolved, validated run parameter.
type Config struct {
	Destination string
	Timestep    int // 0 = per-replicate rows, 1 = per-generation rows
	Krecord     int // 0 = mean load, 1 = minimum load
	Untilext    bool

	Rep int

	S  float64 // selection coefficient
	N0 int     // base initial population size
	K  float64 // carrying capacity per host
	U  float64 // mutation rate per segment

	GenNum int

	C float64 // cost of carrying two segments
	R float64 // reassortment probability

	Seed int64

	HostNum int
	Kmax    int

	Pop2Init []float64 // proportion of N0 seeded as two-segment, per host
	Pop1Init []float64 // proportion of N0 seeded as one-segment, per host

	Tr     float64 // transmission rate
	Mig    float64 // migration rate into the pool
	Mutcap int     // per-generation mutation cap

	// ProgressEvery controls how often the engine logs replicate
	// progress; not part of the fixed positional contract, defaulted
	// here rather than exposed as a 23rd argument.
	ProgressEvery int
}

// argCount is the number of positional arguments the contract defines,
// not counting argv[0].
const argCount = 22

// Parse parses the fixed positional argument list into a validated
// Config. args must not include the program name.
func Parse(args []string) (*Config, error) {
	if len(args) != argCount {
		return nil, fmt.Errorf("runconfig: expected %d positional arguments, got %d", argCount, len(args))
	}

	var (
		err error
		cfg Config
	)

	cfg.Destination = args[0]

	if cfg.Timestep, err = parseIntFlag(args[1], "timestep"); err != nil {
		return nil, err
	}
	if cfg.Krecord, err = parseIntFlag(args[2], "krecord"); err != nil {
		return nil, err
	}
	var untilextFlag int
	if untilextFlag, err = parseIntFlag(args[3], "untilext"); err != nil {
		return nil, err
	}
	cfg.Untilext = untilextFlag == 1

	if cfg.Rep, err = parsePositiveInt(args[4], "rep"); err != nil {
		return nil, err
	}
	if cfg.S, err = parseFloat(args[5], "s"); err != nil {
		return nil, err
	}
	if cfg.N0, err = parsePositiveInt(args[6], "N0"); err != nil {
		return nil, err
	}
	if cfg.K, err = parseFloat(args[7], "K"); err != nil {
		return nil, err
	}
	if cfg.U, err = parseFloat(args[8], "u"); err != nil {
		return nil, err
	}
	if cfg.GenNum, err = parsePositiveInt(args[9], "gen_num"); err != nil {
		return nil, err
	}
	if cfg.C, err = parseFloat(args[10], "c"); err != nil {
		return nil, err
	}
	if cfg.R, err = parseFloat(args[11], "r"); err != nil {
		return nil, err
	}
	if cfg.Seed, err = strconv.ParseInt(args[12], 10, 64); err != nil {
		return nil, fmt.Errorf("runconfig: parsing seed: %w", err)
	}
	if cfg.HostNum, err = parsePositiveInt(args[13], "host_num"); err != nil {
		return nil, err
	}
	if cfg.Kmax, err = parsePositiveInt(args[14], "kmax"); err != nil {
		return nil, err
	}

	pop2Str := args[15]
	pop2Len, err := parsePositiveInt(args[16], "pop2init_len")
	if err != nil {
		return nil, err
	}
	if len(pop2Str) != pop2Len {
		return nil, fmt.Errorf("runconfig: pop2init_len=%d does not match string length %d", pop2Len, len(pop2Str))
	}
	if cfg.Pop2Init, err = ParseProportions(pop2Str); err != nil {
		return nil, fmt.Errorf("runconfig: pop2init_str: %w", err)
	}

	pop1Str := args[17]
	pop1Len, err := parsePositiveInt(args[18], "pop1init_len")
	if err != nil {
		return nil, err
	}
	if len(pop1Str) != pop1Len {
		return nil, fmt.Errorf("runconfig: pop1init_len=%d does not match string length %d", pop1Len, len(pop1Str))
	}
	if cfg.Pop1Init, err = ParseProportions(pop1Str); err != nil {
		return nil, fmt.Errorf("runconfig: pop1init_str: %w", err)
	}

	if cfg.Tr, err = parseFloat(args[19], "tr"); err != nil {
		return nil, err
	}
	if cfg.Mig, err = parseFloat(args[20], "mig"); err != nil {
		return nil, err
	}
	if cfg.Mutcap, err = parsePositiveInt(args[21], "mutcap"); err != nil {
		return nil, err
	}

	cfg.ProgressEvery = 100

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field invariants that a single argument's parse
// step cannot catch on its own.
func (c *Config) Validate() error {
	if c.Destination == "" {
		return fmt.Errorf("runconfig: destination must not be empty")
	}
	if c.Timestep != 0 && c.Timestep != 1 {
		return fmt.Errorf("runconfig: timestep must be 0 or 1, got %d", c.Timestep)
	}
	if c.Krecord != 0 && c.Krecord != 1 {
		return fmt.Errorf("runconfig: krecord must be 0 or 1, got %d", c.Krecord)
	}
	if c.HostNum < 1 {
		return fmt.Errorf("runconfig: host_num must be >= 1, got %d", c.HostNum)
	}
	if c.Kmax < 1 {
		return fmt.Errorf("runconfig: kmax must be >= 1, got %d", c.Kmax)
	}
	if c.Mutcap < 1 {
		return fmt.Errorf("runconfig: mutcap must be >= 1, got %d", c.Mutcap)
	}
	if len(c.Pop2Init) != c.HostNum {
		return fmt.Errorf("runconfig: pop2init has %d entries, want host_num=%d", len(c.Pop2Init), c.HostNum)
	}
	if len(c.Pop1Init) != c.HostNum {
		return fmt.Errorf("runconfig: pop1init has %d entries, want host_num=%d", len(c.Pop1Init), c.HostNum)
	}
	if c.K <= 0 {
		return fmt.Errorf("runconfig: K must be > 0, got %v", c.K)
	}
	if c.S < 0 || c.S > 1 {
		return fmt.Errorf("runconfig: s must be in [0,1], got %v", c.S)
	}
	if c.C < 0 || c.C > 1 {
		return fmt.Errorf("runconfig: c must be in [0,1], got %v", c.C)
	}
	if c.R < 0 || c.R > 1 {
		return fmt.Errorf("runconfig: r must be in [0,1], got %v", c.R)
	}
	if c.Mig < 0 || c.Mig > 1 {
		return fmt.Errorf("runconfig: mig must be in [0,1], got %v", c.Mig)
	}
	return nil
}

// ParseProportions decodes a "~"-terminated list of floating point
// proportions, one per host.
func ParseProportions(s string) ([]float64, error) {
	parts := strings.Split(s, "~")
	var out []float64
	for _, p := range parts {
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing proportion %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseIntFlag(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("runconfig: parsing %s: %w", name, err)
	}
	return v, nil
}

func parsePositiveInt(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("runconfig: parsing %s: %w", name, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("runconfig: %s must be >= 1, got %d", name, v)
	}
	return v, nil
}

func parseFloat(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("runconfig: parsing %s: %w", name, err)
	}
	return v, nil
}
