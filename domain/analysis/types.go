package analysis

// FeatureCorrelation is one entry of the correlation ranking
type FeatureCorrelation struct {
	Feature     string  `json:"feature"`
	Coefficient float64 `json:"coefficient"`
}

// Ranking is ordered by descending signed coefficient
type Ranking []FeatureCorrelation

// Features returns the feature names in rank order
func (r Ranking) Features() []string {
	out := make([]string, len(r))
	for i, fc := range r {
		out[i] = fc.Feature
	}
	return out
}

// Head returns at most n leading entries
func (r Ranking) Head(n int) Ranking {
	if n >= len(r) || n < 0 {
		return r
	}
	return r[:n]
}

// LabelDistribution counts rows per label value
type LabelDistribution struct {
	Column   string `json:"column"`
	Negative int    `json:"negative"`
	Positive int    `json:"positive"`
}

// Total returns the number of labelled rows
func (d LabelDistribution) Total() int {
	return d.Negative + d.Positive
}

// ClassMetrics holds precision/recall/F1 for one class or an average row
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Names of the two training cycles, used as report names
const (
	CycleUnbalanced = "unbalanced"
	CycleBalanced   = "smote"
)

// EvaluationReport is the outcome of one training/evaluation cycle
type EvaluationReport struct {
	Name         string         `json:"name"`
	Accuracy     float64        `json:"accuracy"`
	Classes      []ClassMetrics `json:"classes"`
	MacroAvg     ClassMetrics   `json:"macro_avg"`
	WeightedAvg  ClassMetrics   `json:"weighted_avg"`
	TrainSize    int            `json:"train_size"`
	TestSize     int            `json:"test_size"`
	SampledTotal int            `json:"sampled_total"`
}

// ProbabilitySeries pairs feature values with predicted positive-class probabilities
type ProbabilitySeries struct {
	Feature       string    `json:"feature"`
	Values        []float64 `json:"-"`
	Probabilities []float64 `json:"-"`
	Smoothed      []Point   `json:"-"`
}

// Point is an (x, y) pair on a smoothed curve
type Point struct {
	X float64
	Y float64
}
