package ml

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"medstat/domain/core"
)

// SMOTE oversamples every minority class up to the majority count by
// interpolating between a minority sample and one of its K nearest
// minority neighbours.
type SMOTE struct {
	K    int
	Seed int64
}

// NewSMOTE creates a resampler with k neighbours
func NewSMOTE(k int, seed int64) *SMOTE {
	return &SMOTE{K: k, Seed: seed}
}

// Resample returns the original rows followed by the synthetic ones.
// Inputs are not modified. K is lowered to minority-1 for small classes;
// a class with fewer than two samples cannot be oversampled.
func (s *SMOTE) Resample(X [][]float64, y []int) ([][]float64, []int, error) {
	if len(X) != len(y) {
		return nil, nil, fmt.Errorf("smote: %w", core.ErrShapeMismatch)
	}
	byClass := make(map[int][]int)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	if len(byClass) < 2 {
		return nil, nil, fmt.Errorf("smote: %w", core.ErrSingleClass)
	}

	classes := make([]int, 0, len(byClass))
	majority := 0
	for c, idx := range byClass {
		classes = append(classes, c)
		if len(idx) > majority {
			majority = len(idx)
		}
	}
	sort.Ints(classes)

	outX := make([][]float64, len(X), len(X)*2)
	outY := make([]int, len(y), len(y)*2)
	for i := range X {
		outX[i] = append([]float64(nil), X[i]...)
	}
	copy(outY, y)

	rng := rand.New(rand.NewSource(s.Seed))
	for _, c := range classes {
		members := byClass[c]
		need := majority - len(members)
		if need == 0 {
			continue
		}
		if len(members) < 2 {
			return nil, nil, fmt.Errorf("smote: class %d has %d sample(s): %w", c, len(members), core.ErrInsufficientMinority)
		}
		k := s.K
		if k > len(members)-1 {
			k = len(members) - 1
		}
		if k < 1 {
			return nil, nil, fmt.Errorf("smote: k must be positive, got %d", s.K)
		}

		neighbours := nearestNeighbours(X, members, k)
		for n := 0; n < need; n++ {
			a := rng.Intn(len(members))
			b := neighbours[a][rng.Intn(k)]
			gap := rng.Float64()

			xa, xb := X[members[a]], X[b]
			synth := make([]float64, len(xa))
			floats.SubTo(synth, xb, xa)
			floats.Scale(gap, synth)
			floats.Add(synth, xa)

			outX = append(outX, synth)
			outY = append(outY, c)
		}
	}
	return outX, outY, nil
}

// nearestNeighbours returns, for each member, the row indices of its k
// nearest other members by euclidean distance
func nearestNeighbours(X [][]float64, members []int, k int) [][]int {
	out := make([][]int, len(members))
	type candidate struct {
		row  int
		dist float64
	}
	cands := make([]candidate, 0, len(members)-1)
	for a, i := range members {
		cands = cands[:0]
		for b, j := range members {
			if a == b {
				continue
			}
			cands = append(cands, candidate{row: j, dist: floats.Distance(X[i], X[j], 2)})
		}
		sort.SliceStable(cands, func(p, q int) bool { return cands[p].dist < cands[q].dist })
		nn := make([]int, k)
		for m := 0; m < k; m++ {
			nn[m] = cands[m].row
		}
		out[a] = nn
	}
	return out
}
