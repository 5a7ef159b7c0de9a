// Package crossval provides fold splitters and fold-wise AUC scoring for
// cross-validated evaluation of continuous-score classifiers.
package crossval

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/cvsim/pkg/errors"
)

// Fold is one train/evaluate partition of the sample indices.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates the folds of a cross-validation scheme. groups carries
// one group identifier per sample; splitters that are not group-aware
// ignore it.
type Splitter interface {
	Split(nSamples int, groups []int) ([]Fold, error)
	NSplits() int
}

// KFold partitions samples into k folds of near-equal size, optionally
// shuffling indices first with a seeded generator.
type KFold struct {
	NFolds  int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a k-fold splitter.
func NewKFold(nFolds int, shuffle bool, seed uint64) *KFold {
	if nFolds < 2 {
		nFolds = 5
	}
	return &KFold{
		NFolds:  nFolds,
		Shuffle: shuffle,
		Seed:    seed,
	}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.NFolds
}

// Split generates train/test indices for each fold.
func (kf *KFold) Split(nSamples int, _ []int) ([]Fold, error) {
	if nSamples < kf.NFolds {
		return nil, errors.NewValueError("KFold.Split", "more folds than samples")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NFolds)
	foldSize := nSamples / kf.NFolds
	remainder := nSamples % kf.NFolds

	currentIdx := 0
	for i := 0; i < kf.NFolds; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		trainIndices := make([]int, 0, nSamples-testSize)
		trainIndices = append(trainIndices, indices[:currentIdx]...)
		trainIndices = append(trainIndices, indices[currentIdx+testSize:]...)

		folds[i] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}

		currentIdx += testSize
	}

	return folds, nil
}

// RepeatedKFold runs k-fold cross-validation several times, each repeat
// with an independent shuffle derived from the base seed.
type RepeatedKFold struct {
	NFolds   int
	NRepeats int
	Seed     uint64
}

// NewRepeatedKFold creates a repeated k-fold splitter.
func NewRepeatedKFold(nFolds, nRepeats int, seed uint64) *RepeatedKFold {
	if nFolds < 2 {
		nFolds = 5
	}
	if nRepeats < 1 {
		nRepeats = 1
	}
	return &RepeatedKFold{
		NFolds:   nFolds,
		NRepeats: nRepeats,
		Seed:     seed,
	}
}

// NSplits returns the total number of folds over all repeats.
func (rkf *RepeatedKFold) NSplits() int {
	return rkf.NFolds * rkf.NRepeats
}

// Split concatenates the folds of NRepeats shuffled k-fold runs.
func (rkf *RepeatedKFold) Split(nSamples int, groups []int) ([]Fold, error) {
	folds := make([]Fold, 0, rkf.NSplits())
	for repeat := 0; repeat < rkf.NRepeats; repeat++ {
		kf := &KFold{
			NFolds:  rkf.NFolds,
			Shuffle: true,
			// mix the repeat index into the seed so each repeat shuffles
			// independently while staying reproducible
			Seed: rkf.Seed ^ (uint64(repeat)<<32 | uint64(repeat)),
		}
		repeatFolds, err := kf.Split(nSamples, groups)
		if err != nil {
			return nil, err
		}
		folds = append(folds, repeatFolds...)
	}
	return folds, nil
}

// GroupShuffleSplit draws random train/test splits that keep all samples of
// a group on the same side, for data with block or temporal structure.
type GroupShuffleSplit struct {
	NumSplits    int
	TestFraction float64 // fraction of groups held out per split
	Seed         uint64
}

// NewGroupShuffleSplit creates a group-aware shuffle splitter holding out
// 20% of the groups per split.
func NewGroupShuffleSplit(nSplits int, seed uint64) *GroupShuffleSplit {
	if nSplits < 1 {
		nSplits = 5
	}
	return &GroupShuffleSplit{
		NumSplits:    nSplits,
		TestFraction: 0.2,
		Seed:         seed,
	}
}

// NSplits returns the number of random splits.
func (gss *GroupShuffleSplit) NSplits() int {
	return gss.NumSplits
}

// Split generates NumSplits independent random partitions of the groups.
func (gss *GroupShuffleSplit) Split(nSamples int, groups []int) ([]Fold, error) {
	if len(groups) != nSamples {
		return nil, errors.NewDimensionError("GroupShuffleSplit.Split", nSamples, len(groups), 0)
	}

	uniqueGroups := uniqueInts(groups)
	nGroups := len(uniqueGroups)
	if nGroups < 2 {
		return nil, errors.NewValueError("GroupShuffleSplit.Split", "need at least 2 groups")
	}

	nTestGroups := int(math.Ceil(gss.TestFraction * float64(nGroups)))
	if nTestGroups < 1 {
		nTestGroups = 1
	}
	if nTestGroups >= nGroups {
		return nil, errors.NewValueError("GroupShuffleSplit.Split", "test fraction leaves no training groups")
	}

	r := rand.New(rand.NewPCG(gss.Seed, gss.Seed))
	folds := make([]Fold, gss.NumSplits)

	for s := 0; s < gss.NumSplits; s++ {
		shuffled := make([]int, nGroups)
		copy(shuffled, uniqueGroups)
		r.Shuffle(nGroups, func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		testGroups := make(map[int]bool, nTestGroups)
		for _, g := range shuffled[:nTestGroups] {
			testGroups[g] = true
		}

		var trainIndices, testIndices []int
		for i, g := range groups {
			if testGroups[g] {
				testIndices = append(testIndices, i)
			} else {
				trainIndices = append(trainIndices, i)
			}
		}

		folds[s] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}
	}

	return folds, nil
}

// ContiguousGroups assigns nSamples indices to nGroups equal contiguous
// blocks: group(i) = i / (nSamples/nGroups). The sample count must allow at
// least one sample per block.
func ContiguousGroups(nSamples, nGroups int) ([]int, error) {
	if nGroups < 1 {
		return nil, errors.NewValidationError("nGroups", "must be >= 1", nGroups)
	}
	blockSize := nSamples / nGroups
	if blockSize < 1 {
		return nil, errors.NewValidationError("nSamples", "fewer samples than groups", nSamples)
	}

	groups := make([]int, nSamples)
	for i := range groups {
		g := i / blockSize
		// trailing remainder joins the last block
		if g >= nGroups {
			g = nGroups - 1
		}
		groups[i] = g
	}
	return groups, nil
}

func uniqueInts(values []int) []int {
	seen := make(map[int]bool, len(values))
	var out []int
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
