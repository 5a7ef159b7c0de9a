// Package sim contains the Monte Carlo trial runner and the grid driver
// that repeats trials across training sizes and seeds.
//
// A trial draws one synthetic dataset, measures the classifier's true
// generalization AUC on a large held-out validation subset, re-estimates
// the same AUC with two cross-validation strategies on the training subset
// alone, and records the discrepancy. Trials are stateless apart from
// their seed, so the grid runs them on a worker pool and reduces results
// through a single aggregator.
package sim

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvsim/crossval"
	"github.com/YuminosukeSato/cvsim/dataset"
	"github.com/YuminosukeSato/cvsim/linear"
	"github.com/YuminosukeSato/cvsim/metrics"
	"github.com/YuminosukeSato/cvsim/pkg/errors"
	logattr "github.com/YuminosukeSato/cvsim/pkg/log"
)

// validationSize is the number of held-out samples used as ground truth in
// every trial, independent of the training size.
const validationSize = 10000

// nBlocks is the number of contiguous sample blocks used both as group
// identifiers for group-aware splits and as the fold count.
const nBlocks = 10

// Strategy names, used as the cv_name column of the results table.
const (
	StrategyRepeatedKFold = "10 repeated 10-fold"
	StrategyGroupShuffle  = "50 splits"
)

// TrialConfig identifies one trial. It is comparable, so it doubles as the
// memoization key.
type TrialConfig struct {
	TrainSize    int
	Dim          int
	NoiseCorr    float64
	Separability float64
	Seed         uint64
}

// Validate checks the trial parameters before any random draw.
func (c TrialConfig) Validate() error {
	if c.TrainSize < nBlocks {
		return errors.NewValidationError("TrainSize", "must allow at least one sample per block", c.TrainSize)
	}
	if c.Dim < 1 {
		return errors.NewValidationError("Dim", "must be >= 1", c.Dim)
	}
	return nil
}

// EstimateStatus records which rung of the fallback ladder produced a
// cross-validation estimate.
type EstimateStatus int

const (
	// EstimateOK: fold-wise scoring succeeded.
	EstimateOK EstimateStatus = iota
	// EstimateFallback: fold-wise scoring failed; a single pooled AUC over
	// out-of-fold predictions was used instead.
	EstimateFallback
	// EstimateUndefined: no rung produced a score; the estimate is NaN.
	EstimateUndefined
)

func (s EstimateStatus) String() string {
	switch s {
	case EstimateOK:
		return "ok"
	case EstimateFallback:
		return "pooled_fallback"
	case EstimateUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Estimate is the typed outcome of one strategy's evaluation.
type Estimate struct {
	Status EstimateStatus
	Scores []float64
}

// TrialResult is one row of the results table: the cross-validation error
// of one strategy in one trial.
type TrialResult struct {
	Strategy        string
	ValidationScore float64
	TrainSize       int
	Dim             int
	NoiseCorr       float64
	Separability    float64
	ScoreError      float64
	ScoreSEM        float64

	// Status is not part of the persisted table; it makes the fallback
	// policy auditable per row.
	Status EstimateStatus
}

// RunTrial executes one complete trial and returns one result per
// cross-validation strategy. Estimation failures degrade to NaN scores;
// only configuration errors and panics surface as errors.
func RunTrial(cfg TrialConfig) (results []TrialResult, err error) {
	defer errors.Recover(&err, "sim.RunTrial")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	X, y, err := dataset.Generate(dataset.Config{
		NSamples:     cfg.TrainSize + validationSize,
		Dim:          cfg.Dim,
		Separability: cfg.Separability,
		NoiseCorr:    cfg.NoiseCorr,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	XTrain, XVal, yTrain, yVal, err := dataset.Split(X, y, cfg.TrainSize)
	if err != nil {
		return nil, err
	}

	validationScore, err := groundTruthScore(XTrain, yTrain, XVal, yVal)
	if err != nil {
		return nil, err
	}

	groups, err := crossval.ContiguousGroups(cfg.TrainSize, nBlocks)
	if err != nil {
		return nil, err
	}

	newEstimator := func() crossval.Estimator {
		return linear.NewContinuousSVC()
	}

	strategies := []struct {
		name        string
		splitter    crossval.Splitter
		hasFallback bool
	}{
		{StrategyRepeatedKFold, crossval.NewRepeatedKFold(nBlocks, 10, cfg.Seed), true},
		{StrategyGroupShuffle, crossval.NewGroupShuffleSplit(50, cfg.Seed), false},
	}

	for _, s := range strategies {
		est := estimate(newEstimator, XTrain, yTrain, groups, s.splitter, s.name, s.hasFallback, cfg)
		results = append(results, newResult(s.name, validationScore, cfg, est))
	}

	return results, nil
}

// groundTruthScore fits the classifier on the training subset and scores
// its decision values on the disjoint validation subset.
func groundTruthScore(XTrain *mat.Dense, yTrain *mat.VecDense, XVal *mat.Dense, yVal *mat.VecDense) (float64, error) {
	clf := linear.NewContinuousSVC()
	if err := clf.Fit(XTrain, yTrain); err != nil {
		return 0, err
	}

	decision, err := clf.DecisionFunction(XVal)
	if err != nil {
		return 0, err
	}

	return metrics.AUC(yVal, decision)
}

// estimate walks the fallback ladder for one strategy: fold-wise scoring,
// then (for the repeated-fold strategy only) a pooled AUC over out-of-fold
// predictions from a plain contiguous 10-fold, then undefined.
func estimate(newEstimator crossval.Factory, X *mat.Dense, y *mat.VecDense, groups []int, splitter crossval.Splitter, strategy string, hasFallback bool, cfg TrialConfig) Estimate {
	scores, err := crossval.CrossValScore(newEstimator, X, y, groups, splitter, strategy)
	if err == nil {
		return Estimate{Status: EstimateOK, Scores: scores}
	}

	slog.Debug("fold-wise scoring failed",
		logattr.StrategyKey, strategy,
		logattr.TrialSeedKey, cfg.Seed,
		logattr.TrainSizeKey, cfg.TrainSize,
		logattr.ErrAttr(err),
	)

	if hasFallback {
		if auc, perr := pooledScore(newEstimator, X, y); perr == nil {
			return Estimate{Status: EstimateFallback, Scores: []float64{auc}}
		} else {
			slog.Debug("pooled fallback failed",
				logattr.StrategyKey, strategy,
				logattr.TrialSeedKey, cfg.Seed,
				logattr.ErrAttr(perr),
			)
		}
	}

	return Estimate{Status: EstimateUndefined}
}

func pooledScore(newEstimator crossval.Factory, X *mat.Dense, y *mat.VecDense) (float64, error) {
	pooled, err := crossval.CrossValPredict(newEstimator, X, y, nBlocks)
	if err != nil {
		return 0, err
	}
	return metrics.AUC(y, pooled)
}

// newResult turns an estimate into a results-table row, guarding the
// standard-error denominator: zero scores yields NaN, a single score a SEM
// of exactly zero.
func newResult(strategy string, validationScore float64, cfg TrialConfig, est Estimate) TrialResult {
	res := TrialResult{
		Strategy:        strategy,
		ValidationScore: validationScore,
		TrainSize:       cfg.TrainSize,
		Dim:             cfg.Dim,
		NoiseCorr:       cfg.NoiseCorr,
		Separability:    cfg.Separability,
		Status:          est.Status,
	}

	n := len(est.Scores)
	if n == 0 {
		res.ScoreError = math.NaN()
		res.ScoreSEM = math.NaN()
		return res
	}

	var sum float64
	for _, s := range est.Scores {
		sum += s
	}
	mean := sum / float64(n)
	res.ScoreError = mean - validationScore

	if n == 1 {
		res.ScoreSEM = 0
		return res
	}

	var sq float64
	for _, s := range est.Scores {
		d := s - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(n))
	res.ScoreSEM = std / math.Sqrt(float64(n))
	return res
}

// UndefinedResults builds the rows reported for a trial that failed
// outright (configuration error or panic): one NaN row per strategy, so
// the grid always completes with a full table.
func UndefinedResults(cfg TrialConfig) []TrialResult {
	var results []TrialResult
	for _, name := range []string{StrategyRepeatedKFold, StrategyGroupShuffle} {
		results = append(results, TrialResult{
			Strategy:        name,
			ValidationScore: math.NaN(),
			TrainSize:       cfg.TrainSize,
			Dim:             cfg.Dim,
			NoiseCorr:       cfg.NoiseCorr,
			Separability:    cfg.Separability,
			ScoreError:      math.NaN(),
			ScoreSEM:        math.NaN(),
			Status:          EstimateUndefined,
		})
	}
	return results
}
