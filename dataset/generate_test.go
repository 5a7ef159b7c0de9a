package dataset

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGenerateShape(t *testing.T) {
	X, y, err := Generate(Config{
		NSamples:     200,
		Dim:          100,
		Separability: 1,
		Seed:         0,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	r, c := X.Dims()
	if r != 200 || c != 100 {
		t.Errorf("feature matrix shape = (%d, %d), want (200, 100)", r, c)
	}
	if y.Len() != 200 {
		t.Errorf("label vector length = %d, want 200", y.Len())
	}

	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			t.Fatalf("label %d = %v, want 0 or 1", i, v)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{
		NSamples:     100,
		Dim:          20,
		Separability: 2,
		NoiseCorr:    2,
		Seed:         42,
	}

	X1, y1, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	X2, y2, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !mat.Equal(X1, X2) {
		t.Error("identical configs produced different feature matrices")
	}
	if !mat.Equal(y1, y2) {
		t.Error("identical configs produced different label vectors")
	}
}

func TestGenerateSeedIndependence(t *testing.T) {
	base := Config{
		NSamples:     100,
		Dim:          20,
		Separability: 2,
		Seed:         1,
	}
	other := base
	other.Seed = 2

	X1, _, err := Generate(base)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	X2, _, err := Generate(other)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if mat.Equal(X1, X2) {
		t.Error("different seeds produced identical feature matrices")
	}
}

func TestGenerateColumnStd(t *testing.T) {
	tests := []struct {
		name      string
		noiseCorr float64
	}{
		{"unsmoothed", 0},
		{"smoothed", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Separability 0 exposes the normalized noise directly.
			X, _, err := Generate(Config{
				NSamples:     2000,
				Dim:          10,
				Separability: 0,
				NoiseCorr:    tt.noiseCorr,
				Seed:         7,
			})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			rows, cols := X.Dims()
			for j := 0; j < cols; j++ {
				var sum float64
				for i := 0; i < rows; i++ {
					sum += X.At(i, j)
				}
				mean := sum / float64(rows)

				var sq float64
				for i := 0; i < rows; i++ {
					d := X.At(i, j) - mean
					sq += d * d
				}
				std := math.Sqrt(sq / float64(rows))
				if math.Abs(std-1) > 1e-6 {
					t.Errorf("column %d std = %v, want 1", j, std)
				}
			}
		})
	}
}

// Smoothing must act along the sample axis only: consecutive samples of a
// smoothed column vary less than those of the unsmoothed draw.
func TestGenerateSmoothingAxis(t *testing.T) {
	cfg := Config{
		NSamples:     1000,
		Dim:          5,
		Separability: 0,
		Seed:         3,
	}
	smoothedCfg := cfg
	smoothedCfg.NoiseCorr = 3

	plain, _, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	smoothed, _, err := Generate(smoothedCfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if mat.Equal(plain, smoothed) {
		t.Fatal("smoothing changed nothing")
	}

	rough := func(m *mat.Dense) float64 {
		rows, cols := m.Dims()
		var sum float64
		for j := 0; j < cols; j++ {
			for i := 1; i < rows; i++ {
				sum += math.Abs(m.At(i, j) - m.At(i-1, j))
			}
		}
		return sum / float64((rows-1)*cols)
	}

	if rough(smoothed) >= rough(plain) {
		t.Errorf("smoothed roughness %v >= plain roughness %v", rough(smoothed), rough(plain))
	}
}

func TestGenerateSeparability(t *testing.T) {
	// With strong separability and 1 dimension, the class means must be on
	// opposite sides of the origin.
	X, y, err := Generate(Config{
		NSamples:     2000,
		Dim:          1,
		Separability: 5,
		Seed:         11,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var mean0, mean1 float64
	var n0, n1 int
	for i := 0; i < y.Len(); i++ {
		if y.AtVec(i) == 1 {
			mean1 += X.At(i, 0)
			n1++
		} else {
			mean0 += X.At(i, 0)
			n0++
		}
	}
	mean0 /= float64(n0)
	mean1 /= float64(n1)

	if !(mean0 < 0 && mean1 > 0) {
		t.Errorf("class means = (%v, %v), want negative/positive", mean0, mean1)
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero samples", Config{NSamples: 0, Dim: 10}},
		{"zero dim", Config{NSamples: 10, Dim: 0}},
		{"negative dim", Config{NSamples: 10, Dim: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Generate(tt.cfg); err == nil {
				t.Error("Generate() expected validation error, got nil")
			}
		})
	}
}

func TestSplit(t *testing.T) {
	X, y, err := Generate(Config{
		NSamples:     120,
		Dim:          3,
		Separability: 1,
		Seed:         0,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	XTrain, XVal, yTrain, yVal, err := Split(X, y, 20)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	tr, _ := XTrain.Dims()
	vr, _ := XVal.Dims()
	if tr != 20 || vr != 100 {
		t.Errorf("split sizes = (%d, %d), want (20, 100)", tr, vr)
	}
	if tr+vr != 120 {
		t.Errorf("split sizes sum to %d, want 120", tr+vr)
	}
	if yTrain.Len() != 20 || yVal.Len() != 100 {
		t.Errorf("label split sizes = (%d, %d), want (20, 100)", yTrain.Len(), yVal.Len())
	}

	// The tail view must start exactly where the head view ends.
	for i := 0; i < vr; i++ {
		if XVal.At(i, 0) != X.At(20+i, 0) {
			t.Fatalf("validation row %d does not match source row %d", i, 20+i)
		}
	}
}

func TestSplitValidation(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewVecDense(10, nil)

	if _, _, _, _, err := Split(X, y, 0); err == nil {
		t.Error("Split(trainSize=0) expected error, got nil")
	}
	if _, _, _, _, err := Split(X, y, 10); err == nil {
		t.Error("Split(trainSize=rows) expected error, got nil")
	}
}

func TestGaussianKernel(t *testing.T) {
	sigma := 2.0
	kernel := gaussianKernel(sigma)

	wantLen := 2*int(4*sigma+0.5) + 1
	if len(kernel) != wantLen {
		t.Errorf("kernel length = %d, want %d", len(kernel), wantLen)
	}

	var sum float64
	for _, w := range kernel {
		sum += w
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("kernel sum = %v, want 1", sum)
	}

	// Symmetric around the center.
	for i := 0; i < len(kernel)/2; i++ {
		if math.Abs(kernel[i]-kernel[len(kernel)-1-i]) > 1e-12 {
			t.Errorf("kernel not symmetric at %d", i)
		}
	}
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 0},
		{-2, 5, 1},
		{5, 5, 4},
		{6, 5, 3},
	}

	for _, tt := range tests {
		if got := reflectIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
