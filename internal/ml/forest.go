package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"medstat/domain/core"
)

// RandomForest is a bagged ensemble of decision trees. Class probabilities
// are the mean of the per-tree leaf probabilities.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 uses floor(sqrt(p))
	Bootstrap       bool
	Seed            int64

	Trees    []*DecisionTree
	nClasses int
}

// ForestOption configures a RandomForest
type ForestOption func(*RandomForest)

func WithNEstimators(n int) ForestOption     { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithForestMaxDepth(d int) ForestOption  { return func(rf *RandomForest) { rf.MaxDepth = d } }
func WithForestFeatures(n int) ForestOption  { return func(rf *RandomForest) { rf.MaxFeatures = n } }
func WithBootstrap(b bool) ForestOption      { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestSeed(seed int64) ForestOption { return func(rf *RandomForest) { rf.Seed = seed } }

// NewRandomForest initializes the forest with 100 bootstrapped trees
func NewRandomForest(opts ...ForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		Bootstrap:       true,
		Seed:            42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains every tree concurrently. Tree seeds are drawn up front from
// the forest seed, so the fitted forest does not depend on scheduling.
func (rf *RandomForest) Fit(ctx context.Context, X [][]float64, y []int) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("random forest: %w", core.ErrInsufficientData)
	}
	if len(y) != n {
		return fmt.Errorf("random forest: %w", core.ErrShapeMismatch)
	}
	p := len(X[0])
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("random forest: row %d: %w", i, core.ErrInconsistentRow)
		}
	}
	if rf.NEstimators <= 0 {
		return fmt.Errorf("random forest: n_estimators must be positive, got %d", rf.NEstimators)
	}

	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(p))))
	}

	master := rand.New(rand.NewSource(rf.Seed))
	seeds := make([]int64, rf.NEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]*DecisionTree, rf.NEstimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			treeRand := rand.New(rand.NewSource(seeds[i]))
			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}
			tree := NewDecisionTree(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMaxFeatures(maxFeatures),
				WithTreeSeed(treeRand.Int63()),
			)
			if err := tree.FitIndices(X, y, sample); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rf.Trees = trees
	rf.nClasses = numClasses(y)
	return nil
}

// PredictProba returns per-class probabilities for every row of X
func (rf *RandomForest) PredictProba(X [][]float64) ([][]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, core.ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		acc := make([]float64, rf.nClasses)
		for _, t := range rf.Trees {
			p, err := t.PredictProba(x)
			if err != nil {
				return nil, err
			}
			for c, v := range p {
				acc[c] += v
			}
		}
		for c := range acc {
			acc[c] /= float64(len(rf.Trees))
		}
		out[i] = acc
	}
	return out, nil
}

// PositiveProba returns P(class 1) for every row of X
func (rf *RandomForest) PositiveProba(X [][]float64) ([]float64, error) {
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(proba))
	for i, p := range proba {
		if len(p) > 1 {
			out[i] = p[1]
		}
	}
	return out, nil
}

// Predict returns the most probable class per row; ties go to the lower class
func (rf *RandomForest) Predict(X [][]float64) ([]int, error) {
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		best := 0
		for c := 1; c < len(p); c++ {
			if p[c] > p[best] {
				best = c
			}
		}
		out[i] = best
	}
	return out, nil
}
