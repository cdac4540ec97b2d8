// Package smoothing fits locally weighted scatterplot smoothing curves.
package smoothing

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"medstat/domain/analysis"
)

// Default LOWESS parameters
const (
	DefaultFrac       = 2.0 / 3.0
	DefaultIterations = 3
)

// Lowess fits a locally linear curve through (x, y). Each fitted value uses
// the ceil(frac*n) nearest points weighted by a tricube kernel; iterations
// reweight by bisquare of the residuals to damp outliers. The result is
// sorted by x, one point per input pair.
func Lowess(x, y []float64, frac float64, iterations int) ([]analysis.Point, error) {
	n := len(x)
	if n != len(y) {
		return nil, fmt.Errorf("lowess: %d x values, %d y values", n, len(y))
	}
	if frac <= 0 || frac > 1 {
		return nil, fmt.Errorf("lowess: frac must be in (0, 1], got %g", frac)
	}
	if n == 0 {
		return nil, nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })
	xs := make([]float64, n)
	ys := make([]float64, n)
	for k, i := range order {
		xs[k], ys[k] = x[i], y[i]
	}

	k := int(math.Ceil(frac * float64(n)))
	k = min(max(k, 2), n)

	robust := make([]float64, n)
	for i := range robust {
		robust[i] = 1
	}
	fitted := make([]float64, n)
	weights := make([]float64, n)

	for iter := 0; iter <= iterations; iter++ {
		lo, hi := 0, k
		for i := 0; i < n; i++ {
			for hi < n && xs[i]-xs[lo] > xs[hi]-xs[i] {
				lo++
				hi++
			}
			h := math.Max(xs[i]-xs[lo], xs[hi-1]-xs[i])
			fitted[i] = localFit(xs, ys, robust, weights, lo, hi, i, h)
		}
		if iter == iterations {
			break
		}
		if !reweight(ys, fitted, robust) {
			break
		}
	}

	out := make([]analysis.Point, n)
	for i := range out {
		out[i] = analysis.Point{X: xs[i], Y: fitted[i]}
	}
	return out, nil
}

// localFit runs weighted least squares over xs[lo:hi] centred on xs[i]
func localFit(xs, ys, robust, weights []float64, lo, hi, i int, h float64) float64 {
	sum := 0.0
	for j := lo; j < hi; j++ {
		w := 1.0
		if h > 0 {
			w = tricube(math.Abs(xs[j]-xs[i]) / h)
		}
		weights[j] = w * robust[j]
		sum += weights[j]
	}
	if sum <= 0 {
		return ys[i]
	}
	wx, wy, w := xs[lo:hi], ys[lo:hi], weights[lo:hi]
	if stat.Variance(wx, nil) > 0 {
		alpha, beta := stat.LinearRegression(wx, wy, w, false)
		if finite(alpha) && finite(beta) {
			return alpha + beta*xs[i]
		}
	}
	return stat.Mean(wy, w)
}

// reweight updates robustness weights from the residuals; it reports
// false when the residuals vanish and further passes cannot change the fit
func reweight(ys, fitted, robust []float64) bool {
	residuals := make(stats.Float64Data, len(ys))
	for i := range ys {
		residuals[i] = math.Abs(ys[i] - fitted[i])
	}
	mad, err := residuals.Median()
	if err != nil || mad <= 1e-12*(1+meanAbs(ys)) {
		return false
	}
	scale := 6 * mad
	for i, r := range residuals {
		robust[i] = bisquare(r / scale)
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func tricube(u float64) float64 {
	if u >= 1 {
		return 0
	}
	t := 1 - u*u*u
	return t * t * t
}

func bisquare(u float64) float64 {
	if u >= 1 {
		return 0
	}
	t := 1 - u*u
	return t * t
}

func meanAbs(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += math.Abs(x)
	}
	return sum / float64(len(v))
}
