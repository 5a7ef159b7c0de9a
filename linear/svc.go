// Package linear implements LinearSVC, an L2-regularized linear max-margin
// classifier, together with a continuous-score adapter for ranking metrics.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvsim/core/model"
	"github.com/YuminosukeSato/cvsim/pkg/errors"
)

// LinearSVC is a binary linear classifier trained by minimizing the hinge
// loss with L2 regularization via subgradient descent. Labels are expected
// in {0, 1}.
type LinearSVC struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // inverse regularization strength
	fitIntercept bool
	maxIter      int
	tol          float64

	// Model parameters
	coef_      []float64
	intercept_ float64
	nFeatures_ int
	nIter_     int
}

// LinearSVCOption is a functional option for LinearSVC.
type LinearSVCOption func(*LinearSVC)

// NewLinearSVC creates a LinearSVC with L2 penalty and intercept fitting
// enabled, matching the defaults the simulation protocol calls for.
func NewLinearSVC(opts ...LinearSVCOption) *LinearSVC {
	svc := &LinearSVC{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithC sets the inverse regularization strength.
func WithC(c float64) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.c = c
	}
}

// WithFitIntercept sets whether to fit an intercept term.
func WithFitIntercept(fit bool) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.fitIntercept = fit
	}
}

// WithMaxIter sets the maximum number of descent iterations.
func WithMaxIter(maxIter int) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.maxIter = maxIter
	}
}

// WithTol sets the gradient-norm tolerance for early stopping.
func WithTol(tol float64) LinearSVCOption {
	return func(svc *LinearSVC) {
		svc.tol = tol
	}
}

// Fit trains the classifier. Weights are zero-initialized, so fitting is
// deterministic and touches no random source.
func (svc *LinearSVC) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LinearSVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("LinearSVC.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LinearSVC.Fit", "y must be a column vector")
	}

	// Signed targets t in {-1, +1}; anything labeled 1 is positive.
	targets := make([]float64, nSamples)
	var nPos int
	for i := 0; i < nSamples; i++ {
		if y.At(i, 0) == 1 {
			targets[i] = 1
			nPos++
		} else {
			targets[i] = -1
		}
	}
	if nPos == 0 || nPos == nSamples {
		return errors.NewValueError("LinearSVC.Fit", "training labels contain a single class")
	}

	svc.nFeatures_ = nFeatures
	svc.coef_ = make([]float64, nFeatures)
	svc.intercept_ = 0

	weights := svc.coef_
	lambda := 1.0 / svc.c
	baseLearningRate := 1.0

	for iter := 0; iter < svc.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := svc.intercept_
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			// Hinge subgradient: only margin violators contribute.
			if targets[i]*z < 1 {
				gradIntercept -= targets[i]
				for j := 0; j < nFeatures; j++ {
					gradWeights[j] -= targets[i] * X.At(i, j)
				}
			}
		}

		for j := range gradWeights {
			gradWeights[j] = gradWeights[j]/float64(nSamples) + lambda/float64(nSamples)*weights[j]
		}
		gradIntercept /= float64(nSamples)

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))

		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if svc.fitIntercept {
			svc.intercept_ -= learningRate * gradIntercept
		}

		svc.nIter_ = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < svc.tol {
			break
		}
	}

	if err := errors.CheckNumericalStability("LinearSVC.Fit", weights, svc.nIter_); err != nil {
		return err
	}

	svc.state.SetDimensions(nFeatures, nSamples)
	svc.state.SetFitted()
	return nil
}

// DecisionFunction returns the signed distance of each sample to the
// separating hyperplane.
func (svc *LinearSVC) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if err := svc.state.RequireFitted("LinearSVC", "DecisionFunction"); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != svc.nFeatures_ {
		return nil, errors.NewDimensionError("LinearSVC.DecisionFunction", svc.nFeatures_, nFeatures, 1)
	}

	scores := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		z := svc.intercept_
		for j := 0; j < nFeatures; j++ {
			z += X.At(i, j) * svc.coef_[j]
		}
		scores.SetVec(i, z)
	}
	return scores, nil
}

// Predict returns hard class labels in {0, 1}, thresholding the decision
// value at zero.
func (svc *LinearSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := svc.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	n := scores.Len()
	labels := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if scores.AtVec(i) >= 0 {
			labels.Set(i, 0, 1)
		}
	}
	return labels, nil
}

// Coef returns a copy of the learned weight vector.
func (svc *LinearSVC) Coef() []float64 {
	if svc.coef_ == nil {
		return nil
	}
	out := make([]float64, len(svc.coef_))
	copy(out, svc.coef_)
	return out
}

// Intercept returns the learned intercept.
func (svc *LinearSVC) Intercept() float64 {
	return svc.intercept_
}

// NIter returns the number of descent iterations actually run.
func (svc *LinearSVC) NIter() int {
	return svc.nIter_
}

// IsFitted returns whether Fit has completed successfully.
func (svc *LinearSVC) IsFitted() bool {
	return svc.state.IsFitted()
}
