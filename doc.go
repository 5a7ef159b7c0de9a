// Package cvsim is a Monte Carlo harness that measures how much
// cross-validation estimates of classifier performance fluctuate when the
// training sample is small.
//
// The experiment follows a fixed protocol: draw a synthetic binary
// classification dataset with a known signal and noise structure, fit a
// linear max-margin classifier on a small training subset, measure the
// "true" generalization AUC on a large held-out validation subset, then
// re-estimate the same AUC with two cross-validation schemes using only the
// training subset. The gap between the two is the quantity of interest,
// tabulated across thousands of independent seeds and a sweep of training
// set sizes.
//
// # Packages
//
//   - dataset: deterministic synthetic data generation with tunable
//     separability, dimensionality and sample-axis noise correlation
//   - linear: LinearSVC, an L2-regularized max-margin classifier exposing
//     continuous decision values for ranking metrics
//   - metrics: ranking metrics (AUC)
//   - crossval: fold splitters (KFold, RepeatedKFold, GroupShuffleSplit)
//     and fold-wise AUC scoring
//   - sim: the trial runner, grid driver, memoizing cache and CSV output
//   - core/parallel: parallel execution helpers
//   - pkg/errors, pkg/log: structured error handling and logging
//
// # Quick start
//
//	results, err := sim.RunTrial(sim.TrialConfig{
//	    TrainSize:    250,
//	    Dim:          300,
//	    Separability: 6.25,
//	    Seed:         0,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Printf("%s: error=%.4f sem=%.4f\n", r.Strategy, r.ScoreError, r.ScoreSEM)
//	}
//
// The cvsim command runs the full grid and writes a CSV table, one row per
// (strategy, seed, train size) combination.
package cvsim
