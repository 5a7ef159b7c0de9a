package crossval

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvsim/metrics"
	"github.com/YuminosukeSato/cvsim/pkg/errors"
)

// Estimator is the capability set fold scoring needs from a classifier: a
// Fit method and a continuous decision value per sample.
type Estimator interface {
	Fit(X, y mat.Matrix) error
	DecisionFunction(X mat.Matrix) (*mat.VecDense, error)
}

// Factory creates a fresh, unfitted estimator. Every fold is fit on its
// own instance so folds never share state.
type Factory func() Estimator

// CrossValScore evaluates the estimator with one AUC per fold of the
// splitter. It is strict: a single degenerate fold (evaluation slice with
// one class, or a failed fit) fails the whole strategy with an
// EstimationError, mirroring the all-or-nothing behavior of fold-wise
// scoring.
func CrossValScore(newEstimator Factory, X *mat.Dense, y *mat.VecDense, groups []int, splitter Splitter, strategy string) ([]float64, error) {
	nSamples, _ := X.Dims()
	if y.Len() != nSamples {
		return nil, errors.NewDimensionError("crossval.CrossValScore", nSamples, y.Len(), 0)
	}

	folds, err := splitter.Split(nSamples, groups)
	if err != nil {
		return nil, errors.NewEstimationError(strategy, -1, "could not build folds", err)
	}

	scores := make([]float64, 0, len(folds))
	for foldIdx, fold := range folds {
		XTrain, yTrain := subset(X, y, fold.TrainIndices)
		XTest, yTest := subset(X, y, fold.TestIndices)

		if !metrics.HasBothClasses(yTest) {
			return nil, errors.NewEstimationError(strategy, foldIdx, "evaluation slice contains a single class", nil)
		}

		clf := newEstimator()
		if err := clf.Fit(XTrain, yTrain); err != nil {
			return nil, errors.NewEstimationError(strategy, foldIdx, "fit failed", err)
		}

		decision, err := clf.DecisionFunction(XTest)
		if err != nil {
			return nil, errors.NewEstimationError(strategy, foldIdx, "decision function failed", err)
		}

		auc, err := metrics.AUC(yTest, decision)
		if err != nil {
			return nil, errors.NewEstimationError(strategy, foldIdx, "AUC undefined", err)
		}
		scores = append(scores, auc)
	}

	return scores, nil
}

// CrossValPredict produces one out-of-fold decision value per sample using
// a plain contiguous k-fold partition: each sample is predicted exactly
// once, by a model that never saw it during fitting. The pooled values can
// then be scored with a single AUC.
func CrossValPredict(newEstimator Factory, X *mat.Dense, y *mat.VecDense, nFolds int) (*mat.VecDense, error) {
	nSamples, _ := X.Dims()
	if y.Len() != nSamples {
		return nil, errors.NewDimensionError("crossval.CrossValPredict", nSamples, y.Len(), 0)
	}

	kf := NewKFold(nFolds, false, 0)
	folds, err := kf.Split(nSamples, nil)
	if err != nil {
		return nil, err
	}

	pooled := mat.NewVecDense(nSamples, nil)
	for _, fold := range folds {
		XTrain, yTrain := subset(X, y, fold.TrainIndices)

		// subset sorts row indices; keep a matching sorted view so pooled
		// values land on the right samples
		testIndices := make([]int, len(fold.TestIndices))
		copy(testIndices, fold.TestIndices)
		sort.Ints(testIndices)
		XTest, _ := subset(X, y, testIndices)

		clf := newEstimator()
		if err := clf.Fit(XTrain, yTrain); err != nil {
			return nil, err
		}

		decision, err := clf.DecisionFunction(XTest)
		if err != nil {
			return nil, err
		}

		for k, idx := range testIndices {
			pooled.SetVec(idx, decision.AtVec(k))
		}
	}

	return pooled, nil
}

// subset extracts the rows of X and y named by indices, in sorted order.
func subset(X *mat.Dense, y *mat.VecDense, indices []int) (*mat.Dense, *mat.VecDense) {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	_, cols := X.Dims()
	xSub := mat.NewDense(len(sorted), cols, nil)
	ySub := mat.NewVecDense(len(sorted), nil)

	for i, idx := range sorted {
		for j := 0; j < cols; j++ {
			xSub.Set(i, j, X.At(idx, j))
		}
		ySub.SetVec(i, y.AtVec(idx))
	}

	return xSub, ySub
}
