package sim

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/YuminosukeSato/cvsim/core/parallel"
	"github.com/YuminosukeSato/cvsim/pkg/errors"
	logattr "github.com/YuminosukeSato/cvsim/pkg/log"
)

// GridConfig describes a full sweep: every training size is repeated for a
// number of independent seeds, with the repetition count reduced above a
// size threshold to bound total compute.
type GridConfig struct {
	// TrainSizes are the training subset sizes to sweep.
	TrainSizes []int

	// Draws is the number of repetitions (seeds) per training size.
	Draws int

	// LargeSizeThreshold divides Draws by 10 for training sizes at or
	// above it. Zero keeps the default of 500.
	LargeSizeThreshold int

	// Dim, Separability and NoiseCorr are held fixed across the sweep.
	Dim          int
	Separability float64
	NoiseCorr    float64

	// Workers is the worker pool size. Zero or negative uses the number
	// of CPU cores.
	Workers int
}

// Validate checks the grid parameters.
func (c GridConfig) Validate() error {
	if len(c.TrainSizes) == 0 {
		return errors.NewValidationError("TrainSizes", "must not be empty", c.TrainSizes)
	}
	if c.Draws < 1 {
		return errors.NewValidationError("Draws", "must be >= 1", c.Draws)
	}
	if c.Dim < 1 {
		return errors.NewValidationError("Dim", "must be >= 1", c.Dim)
	}
	return nil
}

// Grid runs trials over a sweep of training sizes and seeds on a fixed
// size worker pool, optionally memoizing trials through a Cache.
type Grid struct {
	cfg   GridConfig
	cache *Cache
}

// NewGrid creates a grid runner without memoization.
func NewGrid(cfg GridConfig) *Grid {
	return &Grid{cfg: cfg}
}

// NewGridWithCache creates a grid runner that serves repeated
// configurations from the given cache.
func NewGridWithCache(cfg GridConfig, cache *Cache) *Grid {
	return &Grid{cfg: cfg, cache: cache}
}

// Run executes the whole sweep and returns the accumulated results table.
// Trials run concurrently; workers pass their rows to a single aggregator
// goroutine, so no trial ever touches shared mutable state. Row order
// follows completion order and carries no meaning.
//
// A trial that fails is reported as NaN rows; Run only returns an error
// for an invalid grid configuration.
func (g *Grid) Run() ([]TrialResult, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	threshold := g.cfg.LargeSizeThreshold
	if threshold == 0 {
		threshold = 500
	}
	workers := g.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var all []TrialResult
	for _, trainSize := range g.cfg.TrainSizes {
		draws := g.cfg.Draws
		if trainSize >= threshold && draws >= 10 {
			draws /= 10
		}

		jobs := make([]TrialConfig, draws)
		for i := range jobs {
			jobs[i] = TrialConfig{
				TrainSize:    trainSize,
				Dim:          g.cfg.Dim,
				NoiseCorr:    g.cfg.NoiseCorr,
				Separability: g.cfg.Separability,
				Seed:         uint64(i),
			}
		}

		start := time.Now()
		rows := g.runJobs(jobs, workers)
		all = append(all, rows...)

		slog.Info("training size complete",
			logattr.TrainSizeKey, trainSize,
			logattr.DrawsKey, draws,
			logattr.WorkersKey, workers,
			logattr.CompletedKey, len(all),
			logattr.DurationSecondsKey, time.Since(start).Seconds(),
		)
	}

	if g.cache != nil {
		slog.Debug("cache statistics",
			logattr.CacheHitsKey, g.cache.Hits(),
		)
	}

	return all, nil
}

// runJobs fans the jobs out to the worker pool and reduces the result rows
// through one aggregator goroutine.
func (g *Grid) runJobs(jobs []TrialConfig, workers int) []TrialResult {
	resCh := make(chan []TrialResult)
	done := make(chan struct{})

	var rows []TrialResult
	go func() {
		defer close(done)
		for r := range resCh {
			rows = append(rows, r...)
		}
	}()

	parallel.ForEachN(len(jobs), workers, func(i int) {
		resCh <- g.runOne(jobs[i])
	})
	close(resCh)
	<-done

	return rows
}

// runOne executes (or recalls) a single trial. Errors degrade to NaN rows
// so the grid always completes.
func (g *Grid) runOne(cfg TrialConfig) []TrialResult {
	var results []TrialResult
	var err error

	if g.cache != nil {
		results, err = g.cache.Do(cfg, RunTrial)
	} else {
		results, err = RunTrial(cfg)
	}

	if err != nil {
		slog.Warn("trial failed, recording undefined scores",
			logattr.TrialSeedKey, cfg.Seed,
			logattr.TrainSizeKey, cfg.TrainSize,
			logattr.ErrAttr(err),
		)
		return UndefinedResults(cfg)
	}
	return results
}
