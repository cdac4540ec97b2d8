package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"medstat/domain/core"
)

// Split holds row indices of a train/test partition
type Split struct {
	Train []int
	Test  []int
}

// TestCount returns ceil(n*testSize), the holdout size for n rows
func TestCount(n int, testSize float64) int {
	return int(math.Ceil(float64(n) * testSize))
}

func checkSplit(n int, testSize float64) (int, error) {
	if testSize <= 0 || testSize >= 1 {
		return 0, fmt.Errorf("test size must be in (0, 1), got %g", testSize)
	}
	nTest := TestCount(n, testSize)
	if nTest < 1 || n-nTest < 1 {
		return 0, fmt.Errorf("cannot split %d rows with test size %g: %w", n, testSize, core.ErrInsufficientData)
	}
	return nTest, nil
}

// RandomSplit shuffles 0..n-1 and holds out the first ceil(n*testSize)
func RandomSplit(n int, testSize float64, seed int64) (Split, error) {
	nTest, err := checkSplit(n, testSize)
	if err != nil {
		return Split{}, err
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return Split{Train: perm[nTest:], Test: perm[:nTest]}, nil
}

// StratifiedSplit holds out ceil(n*testSize) rows while keeping each
// class's share. Per-class quotas start at floor(n_c*testSize) and the
// remainder goes to the classes with the largest fractional parts.
func StratifiedSplit(y []int, testSize float64, seed int64) (Split, error) {
	n := len(y)
	nTest, err := checkSplit(n, testSize)
	if err != nil {
		return Split{}, err
	}

	byClass := make(map[int][]int)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	classes := make([]int, 0, len(byClass))
	for c, idx := range byClass {
		if len(idx) < 2 {
			return Split{}, fmt.Errorf("class %d has %d member(s), need at least 2 to stratify: %w", c, len(idx), core.ErrInsufficientData)
		}
		classes = append(classes, c)
	}
	sort.Ints(classes)
	if nTest < len(classes) || n-nTest < len(classes) {
		return Split{}, fmt.Errorf("test size %d must cover all %d classes: %w", nTest, len(classes), core.ErrInsufficientData)
	}

	quota := make(map[int]int, len(classes))
	frac := make([]float64, len(classes))
	assigned := 0
	for i, c := range classes {
		exact := float64(len(byClass[c])) * float64(nTest) / float64(n)
		quota[c] = int(math.Floor(exact))
		frac[i] = exact - math.Floor(exact)
		assigned += quota[c]
	}
	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return frac[order[a]] > frac[order[b]] })
	for k := 0; assigned < nTest; k = (k + 1) % len(order) {
		c := classes[order[k]]
		if quota[c] < len(byClass[c])-1 {
			quota[c]++
			assigned++
		}
	}

	rng := rand.New(rand.NewSource(seed))
	var split Split
	for _, c := range classes {
		idx := append([]int(nil), byClass[c]...)
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		split.Test = append(split.Test, idx[:quota[c]]...)
		split.Train = append(split.Train, idx[quota[c]:]...)
	}
	rng.Shuffle(len(split.Test), func(a, b int) { split.Test[a], split.Test[b] = split.Test[b], split.Test[a] })
	rng.Shuffle(len(split.Train), func(a, b int) { split.Train[a], split.Train[b] = split.Train[b], split.Train[a] })
	return split, nil
}
