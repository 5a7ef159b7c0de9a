package linear

import (
	"gonum.org/v1/gonum/mat"
)

// DecisionScorer is the capability set ranking-metric evaluation needs: a
// trainable model whose score for a sample is a real-valued decision value,
// not a hard label.
type DecisionScorer interface {
	Fit(X, y mat.Matrix) error
	DecisionFunction(X mat.Matrix) (*mat.VecDense, error)
}

// ContinuousSVC adapts LinearSVC so that Predict returns the continuous
// decision values instead of hard labels. AUC is computed from a ranking of
// scores, so estimators evaluated under it must predict continuously.
type ContinuousSVC struct {
	*LinearSVC
}

// NewContinuousSVC wraps a fresh LinearSVC built with the given options.
func NewContinuousSVC(opts ...LinearSVCOption) *ContinuousSVC {
	return &ContinuousSVC{LinearSVC: NewLinearSVC(opts...)}
}

// Predict returns the decision values as an n x 1 matrix, overriding the
// label-valued Predict of the wrapped classifier.
func (c *ContinuousSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := c.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	n := scores.Len()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, scores.AtVec(i))
	}
	return out, nil
}

var _ DecisionScorer = (*ContinuousSVC)(nil)
