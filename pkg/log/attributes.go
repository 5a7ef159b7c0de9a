// Package log defines standard attribute keys for simulation logging.
//
// Using these keys consistently makes grid runs easy to filter and analyze:
// every trial logs under the same trial.* and cv.* keys, and the driver
// logs grid.* progress.
package log

// Trial context
const (
	// TrialSeedKey is the random seed of a single trial.
	TrialSeedKey = "trial.seed"

	// TrainSizeKey is the training subset size of a trial.
	TrainSizeKey = "trial.train_size"

	// DimKey is the feature dimensionality of the synthetic data.
	DimKey = "trial.dim"

	// SeparabilityKey is the class separation scale of the synthetic data.
	SeparabilityKey = "trial.separability"

	// NoiseCorrKey is the sample-axis noise correlation width.
	NoiseCorrKey = "trial.noise_corr"
)

// Cross-validation context
const (
	// StrategyKey names the cross-validation strategy being evaluated.
	StrategyKey = "cv.strategy"

	// FoldsKey is the number of folds an estimate was computed from.
	FoldsKey = "cv.folds"

	// EstimateStatusKey records which rung of the fallback ladder produced
	// the estimate: "ok", "pooled_fallback" or "undefined".
	EstimateStatusKey = "cv.estimate_status"
)

// Grid driver context
const (
	// WorkersKey is the size of the worker pool.
	WorkersKey = "grid.workers"

	// DrawsKey is the number of repetitions per training size.
	DrawsKey = "grid.draws"

	// CompletedKey counts finished trials.
	CompletedKey = "grid.completed"

	// DurationSecondsKey records elapsed wall time in seconds.
	DurationSecondsKey = "perf.duration_seconds"

	// CacheHitsKey counts trials served from the memoization cache.
	CacheHitsKey = "grid.cache_hits"
)
