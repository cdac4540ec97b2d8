// Package ml holds the classifiers, resampling and evaluation used by the
// training cycles. Everything that draws random numbers takes an explicit
// seed so a run is reproducible.
package ml

import (
	"fmt"
	"math/rand"
	"sort"

	"medstat/domain/core"
)

// DecisionTree is a CART classifier using gini impurity
type DecisionTree struct {
	MaxDepth        int // 0 grows until leaves are pure
	MinSamplesSplit int
	MaxFeatures     int // features tried per split; 0 tries all
	Seed            int64

	root     *treeNode
	nClasses int
	rng      *rand.Rand
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	proba     []float64 // set on leaves only
}

func (n *treeNode) isLeaf() bool { return n.proba != nil }

// TreeOption configures a DecisionTree
type TreeOption func(*DecisionTree)

func WithMaxDepth(d int) TreeOption        { return func(t *DecisionTree) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption { return func(t *DecisionTree) { t.MinSamplesSplit = n } }
func WithMaxFeatures(n int) TreeOption     { return func(t *DecisionTree) { t.MaxFeatures = n } }
func WithTreeSeed(seed int64) TreeOption   { return func(t *DecisionTree) { t.Seed = seed } }

// NewDecisionTree creates an unfitted tree
func NewDecisionTree(opts ...TreeOption) *DecisionTree {
	t := &DecisionTree{MinSamplesSplit: 2}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on all rows of X
func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices grows the tree on the rows of X named by idx. Repeated
// indices act as sample weights, which is how bootstrap samples are fed.
func (t *DecisionTree) FitIndices(X [][]float64, y []int, idx []int) error {
	if len(X) == 0 || len(idx) == 0 {
		return fmt.Errorf("decision tree: %w", core.ErrInsufficientData)
	}
	if len(X) != len(y) {
		return fmt.Errorf("decision tree: %w", core.ErrShapeMismatch)
	}
	t.nClasses = numClasses(y)
	t.rng = rand.New(rand.NewSource(t.Seed))
	t.root = t.grow(X, y, append([]int(nil), idx...), 0)
	return nil
}

func (t *DecisionTree) grow(X [][]float64, y []int, idx []int, depth int) *treeNode {
	counts := t.classCounts(y, idx)
	if len(idx) < t.MinSamplesSplit || isPure(counts) || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return t.leaf(counts, len(idx))
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, counts)
	if !ok {
		return t.leaf(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(X, y, left, depth+1),
		right:     t.grow(X, y, right, depth+1),
	}
}

func (t *DecisionTree) leaf(counts []int, n int) *treeNode {
	proba := make([]float64, t.nClasses)
	for c, k := range counts {
		proba[c] = float64(k) / float64(n)
	}
	return &treeNode{proba: proba}
}

// bestSplit scans a random subset of features and returns the threshold
// with the lowest weighted gini. Thresholds are midpoints between
// consecutive distinct values.
func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, parent []int) (int, float64, bool) {
	nFeatures := len(X[idx[0]])
	try := t.MaxFeatures
	if try <= 0 || try > nFeatures {
		try = nFeatures
	}
	features := t.rng.Perm(nFeatures)[:try]

	n := len(idx)
	bestScore := gini(parent, n)
	bestFeature, bestThreshold, found := -1, 0.0, false

	sorted := make([]int, n)
	left := make([]int, t.nClasses)
	right := make([]int, t.nClasses)
	for _, f := range features {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool { return X[sorted[a]][f] < X[sorted[b]][f] })

		for c := range left {
			left[c] = 0
		}
		copy(right, parent)
		for k := 0; k < n-1; k++ {
			cls := y[sorted[k]]
			left[cls]++
			right[cls]--

			v, next := X[sorted[k]][f], X[sorted[k+1]][f]
			if v == next {
				continue
			}
			nl, nr := k+1, n-k-1
			score := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(n)
			if score < bestScore-1e-12 {
				bestScore = score
				bestFeature = f
				bestThreshold = v + (next-v)/2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

// PredictProba returns class probabilities for one sample
func (t *DecisionTree) PredictProba(x []float64) ([]float64, error) {
	if t.root == nil {
		return nil, core.ErrNotFitted
	}
	n := t.root
	for !n.isLeaf() {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.proba, nil
}

// Depth returns the depth of the fitted tree; a single leaf has depth 0
func (t *DecisionTree) Depth() int {
	var walk func(*treeNode) int
	walk = func(n *treeNode) int {
		if n == nil || n.isLeaf() {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(t.root)
}

func (t *DecisionTree) classCounts(y []int, idx []int) []int {
	counts := make([]int, t.nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// numClasses returns max(y)+1; labels are expected to be 0..K-1
func numClasses(y []int) int {
	k := 0
	for _, v := range y {
		if v+1 > k {
			k = v + 1
		}
	}
	return k
}
