package record

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/reassort/runconfig"
)

func testConfig(dest string) *runconfig.Config {
	return &runconfig.Config{
		Destination: dest,
		Timestep:    0,
		Krecord:     0,
		Rep:         2,
		S:           0.1,
		N0:          10,
		K:           10,
		U:           0.01,
		GenNum:      3,
		C:           0.1,
		R:           0.3,
		Seed:        1,
		HostNum:     2,
		Kmax:        3,
		Pop2Init:    []float64{1, 1},
		Pop1Init:    []float64{0, 0},
		Tr:          0.5,
		Mig:         0.1,
		Mutcap:      2,
	}
}

func TestOpenWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg := testConfig("unit_test_dest")
	dest, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	row := Row{
		Rep: 0,
		N1:  []float64{0, 0, 0},
		N2:  []float64{20, 10, 10},
		K1:  []float64{-1, -1, -1},
		K2:  []float64{1.5, 2, 1},
	}
	if err := dest.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := dest.WriteTiming(StageTiming{Rep: 0, TotalMs: 1.5, Generations: 3}); err != nil {
		t.Fatalf("WriteTiming: %v", err)
	}
	if err := dest.WriteManifest(); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if err := dest.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	outDir := filepath.Join(dir, "data", "unit_test_dest")
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	var sawCSV, sawTiming, sawManifest bool
	for _, e := range entries {
		switch {
		case e.Name() == "timing.csv":
			sawTiming = true
		case e.Name() == "run.yaml":
			sawManifest = true
		case filepath.Ext(e.Name()) == ".csv":
			sawCSV = true
		}
	}
	if !sawCSV || !sawTiming || !sawManifest {
		t.Fatalf("missing expected output files, got %v", entries)
	}
}

func TestWriteRowFormatsValuesToTwoDecimals(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg := testConfig("row_format")
	dest, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	row := Row{
		Rep: 0,
		N1:  []float64{0, 0, 0},
		N2:  []float64{20, 10, 10},
		K1:  []float64{-1, -1, -1},
		K2:  []float64{1.5, 2, 1},
	}
	if err := dest.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := dest.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "data", "row_format", firstCSV(t, dir, "row_format")))
	if err != nil {
		t.Fatalf("opening output CSV: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil {
		t.Fatalf("reading header row: %v", err)
	}
	rec, err := reader.Read()
	if err != nil {
		t.Fatalf("reading data row: %v", err)
	}

	want := []string{"0", "0.00", "20.00", "-1.00", "1.50"}
	for i, col := range want {
		if rec[i] != col {
			t.Fatalf("rec[%d] = %q, want %q", i, rec[i], col)
		}
	}
}

func TestUniqueFilenameDisambiguatesCollisions(t *testing.T) {
	dir := t.TempDir()

	first, err := uniqueFilename(dir, "run")
	if err != nil {
		t.Fatalf("uniqueFilename: %v", err)
	}
	if first != "run.csv" {
		t.Fatalf("first filename = %q, want run.csv", first)
	}
	if err := os.WriteFile(filepath.Join(dir, first), nil, 0644); err != nil {
		t.Fatal(err)
	}

	second, err := uniqueFilename(dir, "run")
	if err != nil {
		t.Fatalf("uniqueFilename: %v", err)
	}
	if second != "run(1).csv" {
		t.Fatalf("second filename = %q, want run(1).csv", second)
	}
}

func TestWriteHeaderIncludesGenColumnOnlyForPerGenerationRuns(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg := testConfig("per_gen")
	cfg.Timestep = 1
	dest, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dest.Close()

	// 1 (rep) + 1 (gen) + 4 columns * (HostNum+1 groups)
	want := 2 + 4*(cfg.HostNum+1)
	if dest.headerN != want {
		t.Fatalf("headerN = %d, want %d", dest.headerN, want)
	}
}

func TestWriteHeaderColumnNamesMatchHostPrefix(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg := testConfig("header_names")
	dest, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dest.Close()

	f, err := os.Open(filepath.Join(dir, "data", "header_names", firstCSV(t, dir, "header_names")))
	if err != nil {
		t.Fatalf("opening output CSV: %v", err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		t.Fatalf("reading header row: %v", err)
	}

	want := []string{"rep", "pop1.0", "pop2.0", "k1.0", "k2.0", "pop1.1", "pop2.1", "k1.1", "k2.1", "pop1.2", "pop2.2", "k1.2", "k2.2"}
	if len(header) != len(want) {
		t.Fatalf("header = %v, want %v", header, want)
	}
	for i, col := range want {
		if header[i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], col)
		}
	}
}

func firstCSV(t *testing.T, dir, dest string) string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "data", dest))
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".csv" && e.Name() != "timing.csv" {
			return e.Name()
		}
	}
	t.Fatalf("no main output CSV found in %v", entries)
	return ""
}
