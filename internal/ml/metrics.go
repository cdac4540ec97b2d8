package ml

import (
	"fmt"
	"sort"
	"strconv"

	"medstat/domain/analysis"
	"medstat/domain/core"
)

// Accuracy is the fraction of exact matches
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("accuracy: %w", core.ErrShapeMismatch)
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("accuracy: %w", core.ErrInsufficientData)
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ClassificationReport computes accuracy, per-class precision, recall, F1
// and support, and their macro and support-weighted averages. Classes are
// the union of true and predicted labels in ascending order; undefined
// ratios count as 0.
func ClassificationReport(name string, yTrue, yPred []int) (*analysis.EvaluationReport, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	for i := range yTrue {
		seen[yTrue[i]] = true
		seen[yPred[i]] = true
	}
	labels := make([]int, 0, len(seen))
	for c := range seen {
		labels = append(labels, c)
	}
	sort.Ints(labels)

	report := &analysis.EvaluationReport{
		Name:     name,
		Accuracy: acc,
		TestSize: len(yTrue),
	}
	total := len(yTrue)
	macro := analysis.ClassMetrics{Label: "macro avg", Support: total}
	weighted := analysis.ClassMetrics{Label: "weighted avg", Support: total}

	for _, c := range labels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yTrue[i] == c && yPred[i] == c:
				tp++
			case yTrue[i] != c && yPred[i] == c:
				fp++
			case yTrue[i] == c && yPred[i] != c:
				fn++
			}
		}
		m := analysis.ClassMetrics{
			Label:     strconv.Itoa(c),
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes = append(report.Classes, m)

		k := float64(len(labels))
		macro.Precision += m.Precision / k
		macro.Recall += m.Recall / k
		macro.F1 += m.F1 / k

		w := float64(m.Support) / float64(total)
		weighted.Precision += m.Precision * w
		weighted.Recall += m.Recall * w
		weighted.F1 += m.F1 * w
	}

	report.MacroAvg = macro
	report.WeightedAvg = weighted
	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
