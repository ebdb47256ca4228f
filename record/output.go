package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/pthm-cable/reassort/runconfig"
	"gopkg.in/yaml.v3"
)

// Destination owns the output directory for one run: the main per-row CSV,
// its run manifest, and the stage-timing summary. Rows for the main CSV
// have a host-count-dependent width, so it is written with encoding/csv
// against a header built at open time rather than a static gocsv struct.
//
// WriteRow and WriteTiming are safe for concurrent use: replicates run on
// a worker pool, and every worker shares the same underlying file handle.
type Destination struct {
	dir     string
	RunID   uuid.UUID
	cfg     *runconfig.Config
	mu      sync.Mutex
	file    *os.File
	writer  *csv.Writer
	timing  *TimingWriter
	headerN int
}

// Open creates ./data/<destination>/, picks a collision-free filename for
// the run's CSV (embedding every scalar parameter, disambiguated with a
// trailing "(n)" so repeated batch runs with identical arguments never
// clobber each other), and writes the header row.
func Open(cfg *runconfig.Config) (*Destination, error) {
	dir := filepath.Join("data", cfg.Destination)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("record: creating output directory: %w", err)
	}

	name, err := uniqueFilename(dir, baseFilename(cfg))
	if err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("record: creating output CSV: %w", err)
	}

	d := &Destination{
		dir:    dir,
		RunID:  uuid.New(),
		cfg:    cfg,
		file:   f,
		writer: csv.NewWriter(f),
	}

	if err := d.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}

	timing, err := NewTimingWriter(filepath.Join(dir, "timing.csv"))
	if err != nil {
		f.Close()
		return nil, err
	}
	d.timing = timing

	return d, nil
}

// baseFilename embeds every scalar argument in a fixed order, so two runs
// whose parameters differ at the printed precision never collide without
// the (n) suffix.
func baseFilename(c *runconfig.Config) string {
	return fmt.Sprintf(
		"run_t%d_k%d_ext%t_rep%d_s%.3f_N0%d_K%.2f_u%.5f_gen%d_c%.2f_r%.2f_seed%d_h%d_kmax%d_tr%.3f_mig%.3f_mutcap%d",
		c.Timestep, c.Krecord, c.Untilext, c.Rep, c.S, c.N0, c.K, c.U, c.GenNum, c.C, c.R, c.Seed, c.HostNum, c.Kmax, c.Tr, c.Mig, c.Mutcap,
	)
}

// uniqueFilename appends "(n)" to base until dir/base(n).csv does not
// already exist, starting at n=0 (no suffix).
func uniqueFilename(dir, base string) (string, error) {
	candidate := base + ".csv"
	for n := 0; ; n++ {
		if n > 0 {
			candidate = fmt.Sprintf("%s(%d).csv", base, n)
		}
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("record: checking for existing file %q: %w", candidate, err)
		}
		if n > 100000 {
			return "", fmt.Errorf("record: could not find an unused filename for base %q", base)
		}
	}
}

// writeHeader emits the column header. Per-generation runs (timestep=1)
// carry an extra "gen" column; both carry "rep" plus N1/N2/K1/K2 groups of four
// for the pool (host 0) and every real host.
func (d *Destination) writeHeader() error {
	var header []string
	header = append(header, "rep")
	if d.cfg.Timestep == 1 {
		header = append(header, "gen")
	}
	for h := 0; h <= d.cfg.HostNum; h++ {
		tag := strconv.Itoa(h)
		header = append(header,
			"pop1."+tag, "pop2."+tag, "k1."+tag, "k2."+tag,
		)
	}
	d.headerN = len(header)
	if err := d.writer.Write(header); err != nil {
		return err
	}
	d.writer.Flush()
	return d.writer.Error()
}

// WriteRow appends one Row. Its N1/N2/K1/K2 slices must each have
// HostNum+1 entries, matching the header written at Open.
func (d *Destination) WriteRow(row Row) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec := make([]string, 0, d.headerN)
	rec = append(rec, strconv.Itoa(row.Rep))
	if d.cfg.Timestep == 1 {
		rec = append(rec, strconv.Itoa(row.Gen))
	}
	for h := range row.N1 {
		rec = append(rec,
			strconv.FormatFloat(row.N1[h], 'f', 2, 64),
			strconv.FormatFloat(row.N2[h], 'f', 2, 64),
			strconv.FormatFloat(row.K1[h], 'f', 2, 64),
			strconv.FormatFloat(row.K2[h], 'f', 2, 64),
		)
	}
	if err := d.writer.Write(rec); err != nil {
		return fmt.Errorf("record: writing row: %w", err)
	}
	d.writer.Flush()
	return d.writer.Error()
}

// WriteTiming forwards a stage-timing sample to the fixed-shape timing CSV.
func (d *Destination) WriteTiming(s StageTiming) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timing.Write(s)
}

// WriteManifest writes run.yaml: the run's resolved configuration plus its
// generated ID, so a batch of runs can be told apart after the fact.
func (d *Destination) WriteManifest() error {
	manifest := struct {
		RunID  string            `yaml:"run_id"`
		Config *runconfig.Config `yaml:"config"`
	}{
		RunID:  d.RunID.String(),
		Config: d.cfg,
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("record: marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, "run.yaml"), data, 0644); err != nil {
		return fmt.Errorf("record: writing run.yaml: %w", err)
	}
	return nil
}

// Close flushes and closes the CSV and the timing writer.
func (d *Destination) Close() error {
	d.writer.Flush()
	err := d.writer.Error()
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	if terr := d.timing.Close(); err == nil {
		err = terr
	}
	return err
}
