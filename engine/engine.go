// Package engine drives the per-generation stage pipeline
// (mutate, reassort, reproduce, migrate) across replicates, dispatching
// replicates to a worker pool and streaming their rows to a Recorder.
package engine

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/pthm-cable/reassort/kernel"
	"github.com/pthm-cable/reassort/mutation"
	"github.com/pthm-cable/reassort/population"
	"github.com/pthm-cable/reassort/record"
	"github.com/pthm-cable/reassort/rng"
	"github.com/pthm-cable/reassort/runconfig"
)

// Sink receives rows and per-replicate stage timings from worker
// goroutines. record.Destination implements it; tests use a fake.
type Sink interface {
	WriteRow(record.Row) error
	WriteTiming(record.StageTiming) error
}

// Engine holds the shared, read-only tables built once per run and the
// configuration every replicate runs against.
type Engine struct {
	cfg      *runconfig.Config
	factor   []float64
	matrix   *mutation.Matrix
	recorder record.Recorder
}

// New builds the shared Poisson factor table and mutation matrix for cfg
// and returns an Engine ready to run replicates.
func New(cfg *runconfig.Config) *Engine {
	factor := mutation.FactorTable(cfg.U, cfg.Kmax)
	matrix := mutation.BuildMatrix(cfg.Kmax, cfg.Mutcap, factor)

	mode := record.MeanLoad
	if cfg.Krecord == 1 {
		mode = record.MinLoad
	}

	return &Engine{
		cfg:    cfg,
		factor: factor,
		matrix: matrix,
		recorder: record.Recorder{
			Mode:    mode,
			Kmax:    cfg.Kmax,
			HostNum: cfg.HostNum,
		},
	}
}

// Run executes cfg.Rep independent replicates, distributing them across
// runtime.GOMAXPROCS(0) worker goroutines, and streams every row produced
// to sink. Each worker drives one replicate's generations start to finish
// before moving to the next, so a single replicate's rows are always
// written in generation order; Sink implementations must serialize
// concurrent calls themselves (record.Destination does).
func (e *Engine) Run(sink Sink) error {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > e.cfg.Rep {
		numWorkers = e.cfg.Rep
	}

	repChan := make(chan int, e.cfg.Rep)
	for rep := 0; rep < e.cfg.Rep; rep++ {
		repChan <- rep
	}
	close(repChan)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		firstOK error
	)

	// Streams are derived sequentially, up front, from one parent: Derive
	// advances the parent's own generator, so calling it concurrently from
	// workers would race. Each replicate's stream is then handed to
	// whichever worker claims that replicate.
	seedStream := rng.New(e.cfg.Seed)
	streams := make([]*rng.Stream, e.cfg.Rep)
	for rep := range streams {
		streams[rep] = seedStream.Derive(rep)
	}

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			tensor := population.New(e.cfg.HostNum, e.cfg.Kmax)

			for rep := range repChan {
				if err := e.runReplicate(tensor, streams[rep], rep, sink); err != nil {
					mu.Lock()
					if firstOK == nil {
						firstOK = fmt.Errorf("replicate %d: %w", rep, err)
					}
					mu.Unlock()
					return
				}
				if e.cfg.ProgressEvery > 0 && (rep+1)%e.cfg.ProgressEvery == 0 {
					slog.Info("replicate progress", "rep", rep+1, "of", e.cfg.Rep)
				}
			}
		}(w)
	}

	wg.Wait()
	return firstOK
}

// runReplicate resets tensor, seeds the initial condition, and advances it
// GenNum generations in the fixed mutate->reassort->reproduce->migrate
// order, emitting rows per Timestep and stopping early under Untilext.
func (e *Engine) runReplicate(tensor *population.Tensor, stream *rng.Stream, rep int, sink Sink) error {
	tensor.Reset()
	for h := 1; h <= e.cfg.HostNum; h++ {
		tensor.Seed(h, float64(e.cfg.N0), e.cfg.Pop2Init[h-1], e.cfg.Pop1Init[h-1])
	}
	tensor.RecomputeTotals()

	var timing record.StageTiming
	timing.Rep = rep

	for gen := 0; gen < e.cfg.GenNum; gen++ {
		t0 := time.Now()
		kernel.Mutate(tensor, e.matrix, e.factor, e.cfg.Mutcap)
		timing.MutateMs += elapsedMs(t0)

		t0 = time.Now()
		kernel.Reassort(tensor, e.cfg.R)
		timing.ReassortMs += elapsedMs(t0)

		t0 = time.Now()
		kernel.Reproduce(tensor, stream, e.cfg.S, e.cfg.C, e.cfg.K)
		timing.ReproduceMs += elapsedMs(t0)

		t0 = time.Now()
		kernel.Migrate(tensor, stream, e.cfg.Tr, e.cfg.Mig)
		timing.MigrateMs += elapsedMs(t0)

		timing.Generations++

		if e.cfg.Timestep == 1 {
			if err := sink.WriteRow(e.recorder.Row(tensor, rep, gen)); err != nil {
				return err
			}
		}

		if e.cfg.Untilext && (tensor.N2[0] == 0 || tensor.N1[0] == 0) {
			break
		}
	}

	if e.cfg.Timestep == 0 {
		if err := sink.WriteRow(e.recorder.Row(tensor, rep, e.cfg.GenNum-1)); err != nil {
			return err
		}
	}

	timing.TotalMs = timing.MutateMs + timing.ReassortMs + timing.ReproduceMs + timing.MigrateMs
	return sink.WriteTiming(timing)
}

func elapsedMs(since time.Time) float64 {
	return float64(time.Since(since)) / float64(time.Millisecond)
}
