package dataset

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/cvsim/core/parallel"
	"github.com/YuminosukeSato/cvsim/pkg/errors"
)

// Columns beyond this count are normalized and smoothed in parallel.
const parallelColumnThreshold = 64

// Generate draws one dataset from the given configuration. It returns an
// NSamples x Dim feature matrix and a length-NSamples label vector with
// entries in {0, 1}.
//
// The generation order is fixed: labels first, then the noise matrix, both
// from the same seeded source, so a config maps to exactly one dataset.
func Generate(cfg Config) (*mat.Dense, *mat.VecDense, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	src := rand.NewSource(cfg.Seed)
	coin := distuv.Bernoulli{P: 0.5, Src: src}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	y := mat.NewVecDense(cfg.NSamples, nil)
	for i := 0; i < cfg.NSamples; i++ {
		y.SetVec(i, coin.Rand())
	}

	noise := mat.NewDense(cfg.NSamples, cfg.Dim, nil)
	for i := 0; i < cfg.NSamples; i++ {
		for j := 0; j < cfg.Dim; j++ {
			noise.Set(i, j, normal.Rand())
		}
	}

	if cfg.NoiseCorr > 0 {
		smoothColumns(noise, cfg.NoiseCorr)
	}
	normalizeColumns(noise)

	// Class centers sit at +/- 4/Dim per coordinate. The shrinking magnitude
	// keeps univariate separability roughly constant as Dim grows.
	centerMag := 4.0 / float64(cfg.Dim)

	X := mat.NewDense(cfg.NSamples, cfg.Dim, nil)
	for i := 0; i < cfg.NSamples; i++ {
		center := -centerMag
		if y.AtVec(i) == 1 {
			center = centerMag
		}
		shift := cfg.Separability * center
		for j := 0; j < cfg.Dim; j++ {
			X.Set(i, j, shift+noise.At(i, j))
		}
	}

	return X, y, nil
}

// smoothColumns convolves every column with a 1-D Gaussian kernel along the
// sample axis. Feature columns are never mixed.
func smoothColumns(m *mat.Dense, sigma float64) {
	rows, cols := m.Dims()
	kernel := gaussianKernel(sigma)

	parallel.ParallelizeWithThreshold(cols, parallelColumnThreshold, func(start, end int) {
		col := make([]float64, rows)
		out := make([]float64, rows)
		for j := start; j < end; j++ {
			mat.Col(col, j, m)
			convolveReflect(out, col, kernel)
			for i := 0; i < rows; i++ {
				m.Set(i, j, out[i])
			}
		}
	})
}

// gaussianKernel builds a normalized Gaussian kernel truncated at four
// standard deviations, radius int(4*sigma + 0.5).
func gaussianKernel(sigma float64) []float64 {
	radius := int(4*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for k := -radius; k <= radius; k++ {
		w := math.Exp(-float64(k*k) / (2 * sigma * sigma))
		kernel[k+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// convolveReflect correlates in with the kernel using reflected boundaries
// (..., c, b, a | a, b, c, ... | ..., c, b, a).
func convolveReflect(out, in, kernel []float64) {
	n := len(in)
	radius := (len(kernel) - 1) / 2
	for i := 0; i < n; i++ {
		acc := 0.0
		for k := -radius; k <= radius; k++ {
			idx := reflectIndex(i+k, n)
			acc += in[idx] * kernel[k+radius]
		}
		out[i] = acc
	}
}

func reflectIndex(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}

// normalizeColumns rescales each column to unit population standard
// deviation. Constant columns are left untouched to avoid division by a
// near-zero scale.
func normalizeColumns(m *mat.Dense) {
	rows, cols := m.Dims()

	parallel.ParallelizeWithThreshold(cols, parallelColumnThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			var sum float64
			for i := 0; i < rows; i++ {
				sum += m.At(i, j)
			}
			mean := sum / float64(rows)

			var sq float64
			for i := 0; i < rows; i++ {
				d := m.At(i, j) - mean
				sq += d * d
			}
			std := math.Sqrt(sq / float64(rows))
			if std < 1e-8 {
				continue
			}
			for i := 0; i < rows; i++ {
				m.Set(i, j, m.At(i, j)/std)
			}
		}
	})
}

// Split partitions a generated dataset into a training head of trainSize
// rows and a validation tail holding the remainder. The two views never
// share a sample index.
func Split(X *mat.Dense, y *mat.VecDense, trainSize int) (XTrain, XVal *mat.Dense, yTrain, yVal *mat.VecDense, err error) {
	rows, cols := X.Dims()
	if y.Len() != rows {
		return nil, nil, nil, nil, errors.NewDimensionError("dataset.Split", rows, y.Len(), 0)
	}
	if trainSize < 1 || trainSize >= rows {
		return nil, nil, nil, nil, errors.NewValidationError("trainSize", "must be in [1, rows)", trainSize)
	}

	XTrain = X.Slice(0, trainSize, 0, cols).(*mat.Dense)
	XVal = X.Slice(trainSize, rows, 0, cols).(*mat.Dense)
	yTrain = y.SliceVec(0, trainSize).(*mat.VecDense)
	yVal = y.SliceVec(trainSize, rows).(*mat.VecDense)
	return XTrain, XVal, yTrain, yVal, nil
}
