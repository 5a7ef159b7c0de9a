package crossval

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvsim/pkg/errors"
)

// firstFeatureEstimator scores each sample by its first feature. It makes
// fold scoring deterministic without any actual fitting.
type firstFeatureEstimator struct {
	failFit bool
}

func (e *firstFeatureEstimator) Fit(X, y mat.Matrix) error {
	if e.failFit {
		return errors.New("induced fit failure")
	}
	return nil
}

func (e *firstFeatureEstimator) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	rows, _ := X.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, X.At(i, 0))
	}
	return out, nil
}

// separableData builds n samples whose first feature equals the label plus
// a deterministic sub-unit offset, so the first feature ranks classes
// perfectly and every contiguous block holds both classes.
func separableData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		label := float64(i % 2)
		y.SetVec(i, label)
		X.Set(i, 0, label+float64(i%7)/10.0)
		X.Set(i, 1, float64(i))
	}
	return X, y
}

func TestCrossValScore(t *testing.T) {
	X, y := separableData(100)
	factory := func() Estimator { return &firstFeatureEstimator{} }

	// Unshuffled folds: labels alternate, so every contiguous test slice
	// holds both classes.
	splitter := NewKFold(10, false, 0)
	scores, err := CrossValScore(factory, X, y, nil, splitter, "plain k-fold")
	if err != nil {
		t.Fatalf("CrossValScore() error = %v", err)
	}

	if len(scores) != splitter.NSplits() {
		t.Fatalf("got %d scores, want %d", len(scores), splitter.NSplits())
	}
	for i, s := range scores {
		if s != 1 {
			t.Errorf("fold %d AUC = %v, want 1 for a perfectly ranked feature", i, s)
		}
	}
}

func TestCrossValScoreGroupShuffle(t *testing.T) {
	X, y := separableData(100)
	factory := func() Estimator { return &firstFeatureEstimator{} }

	// Alternating labels keep every contiguous block mixed, so any group
	// holdout is a valid evaluation slice.
	groups, err := ContiguousGroups(100, 10)
	if err != nil {
		t.Fatalf("ContiguousGroups() error = %v", err)
	}

	splitter := NewGroupShuffleSplit(50, 2)
	scores, err := CrossValScore(factory, X, y, groups, splitter, "group shuffle")
	if err != nil {
		t.Fatalf("CrossValScore() error = %v", err)
	}
	if len(scores) != 50 {
		t.Fatalf("got %d scores, want 50", len(scores))
	}
	for i, s := range scores {
		if s != 1 {
			t.Errorf("split %d AUC = %v, want 1 for a perfectly ranked feature", i, s)
		}
	}
}

func TestCrossValScoreSingleClassFold(t *testing.T) {
	// All labels positive: every evaluation slice is degenerate.
	X := mat.NewDense(40, 2, nil)
	y := mat.NewVecDense(40, nil)
	for i := 0; i < 40; i++ {
		y.SetVec(i, 1)
	}

	factory := func() Estimator { return &firstFeatureEstimator{} }
	_, err := CrossValScore(factory, X, y, nil, NewKFold(4, false, 0), "plain k-fold")
	if err == nil {
		t.Fatal("CrossValScore() expected error for single-class folds, got nil")
	}

	var estErr *errors.EstimationError
	if !errors.As(err, &estErr) {
		t.Fatalf("error type = %T, want *errors.EstimationError", err)
	}
	if estErr.Strategy != "plain k-fold" {
		t.Errorf("EstimationError.Strategy = %q, want %q", estErr.Strategy, "plain k-fold")
	}
}

func TestCrossValScoreFitFailure(t *testing.T) {
	X, y := separableData(40)
	factory := func() Estimator { return &firstFeatureEstimator{failFit: true} }

	_, err := CrossValScore(factory, X, y, nil, NewKFold(4, false, 0), "plain k-fold")
	if err == nil {
		t.Fatal("CrossValScore() expected error for failing fit, got nil")
	}
	var estErr *errors.EstimationError
	if !errors.As(err, &estErr) {
		t.Fatalf("error type = %T, want *errors.EstimationError", err)
	}
}

func TestCrossValScoreDimensionMismatch(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewVecDense(8, nil)
	factory := func() Estimator { return &firstFeatureEstimator{} }

	if _, err := CrossValScore(factory, X, y, nil, NewKFold(2, false, 0), "plain k-fold"); err == nil {
		t.Error("CrossValScore() expected dimension error, got nil")
	}
}

func TestCrossValPredict(t *testing.T) {
	X, y := separableData(95)
	factory := func() Estimator { return &firstFeatureEstimator{} }

	pooled, err := CrossValPredict(factory, X, y, 10)
	if err != nil {
		t.Fatalf("CrossValPredict() error = %v", err)
	}

	if pooled.Len() != 95 {
		t.Fatalf("pooled length = %d, want 95", pooled.Len())
	}

	// The stub predicts each sample's own first feature, so alignment bugs
	// show up as mismatched values.
	for i := 0; i < pooled.Len(); i++ {
		if got, want := pooled.AtVec(i), X.At(i, 0); got != want {
			t.Fatalf("pooled[%d] = %v, want %v", i, got, want)
		}
	}

	if math.IsNaN(mat.Sum(pooled)) {
		t.Error("pooled predictions contain NaN")
	}
}

func TestSubsetSortsIndices(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{10, 11, 12, 13})
	y := mat.NewVecDense(4, []float64{0, 1, 0, 1})

	xSub, ySub := subset(X, y, []int{3, 0, 2})

	want := []float64{10, 12, 13}
	for i, w := range want {
		if xSub.At(i, 0) != w {
			t.Errorf("xSub[%d] = %v, want %v", i, xSub.At(i, 0), w)
		}
	}
	if ySub.AtVec(0) != 0 || ySub.AtVec(1) != 0 || ySub.AtVec(2) != 1 {
		t.Errorf("ySub = %v, want [0 0 1]", ySub.RawVector().Data)
	}
}
