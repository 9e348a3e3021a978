package artifact

import (
	"fmt"
	"math"
)

// Classifier kinds understood by LoadClassifier.
const (
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
)

const defaultThreshold = 0.5

// Classifier predicts one label per row.
type Classifier interface {
	Kind() string
	Predict(batch [][]float64) ([]int, error)
}

// LogisticRegression is a binary linear classifier.
type LogisticRegression struct {
	coef      []float64
	intercept float64
	threshold float64
}

// NewLogisticRegression validates and copies the fitted parameters. A zero
// threshold selects 0.5.
func NewLogisticRegression(coef []float64, intercept, threshold float64) (*LogisticRegression, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("%w: no coefficients", ErrMalformed)
	}
	if err := checkFinite("coef", coef); err != nil {
		return nil, err
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("%w: intercept %v", ErrMalformed, intercept)
	}
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if !(threshold > 0 && threshold < 1) {
		return nil, fmt.Errorf("%w: threshold %v outside (0,1)", ErrMalformed, threshold)
	}
	return &LogisticRegression{coef: clone(coef), intercept: intercept, threshold: threshold}, nil
}

func (m *LogisticRegression) Kind() string { return KindLogisticRegression }

// Width is the number of coefficients.
func (m *LogisticRegression) Width() int { return len(m.coef) }

// PredictProba returns the probability of class 1 for each row.
func (m *LogisticRegression) PredictProba(batch [][]float64) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, row := range batch {
		if len(row) != len(m.coef) {
			return nil, fmt.Errorf("%w: row %d has %d columns, model expects %d", ErrDimension, i, len(row), len(m.coef))
		}
		z := m.intercept
		for j, x := range row {
			z += m.coef[j] * x
		}
		out[i] = 1 / (1 + math.Exp(-z))
	}
	return out, nil
}

// Predict labels a row 1 when its probability exceeds the threshold.
func (m *LogisticRegression) Predict(batch [][]float64) ([]int, error) {
	probs, err := m.PredictProba(batch)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p > m.threshold {
			labels[i] = 1
		}
	}
	return labels, nil
}

// TreeNode is one entry of a flattened decision tree. Non-leaf nodes send a
// row left when row[FeatureIdx] <= Threshold.
type TreeNode struct {
	FeatureIdx int     `koanf:"feature_idx"`
	Threshold  float64 `koanf:"threshold"`
	LeftChild  int     `koanf:"left_child"`
	RightChild int     `koanf:"right_child"`
	ClassLabel int     `koanf:"class_label"`
	IsLeaf     bool    `koanf:"is_leaf"`
}

// DecisionTree walks a flattened tree rooted at node 0.
type DecisionTree struct {
	nodes []TreeNode
	width int
}

// NewDecisionTree validates child indices, feature indices and split
// thresholds.
func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrMalformed)
	}
	width := 0
	for i, n := range nodes {
		if n.IsLeaf {
			continue
		}
		if n.FeatureIdx < 0 {
			return nil, fmt.Errorf("%w: node %d has negative feature index", ErrMalformed, i)
		}
		if math.IsNaN(n.Threshold) || math.IsInf(n.Threshold, 0) {
			return nil, fmt.Errorf("%w: node %d has threshold %v", ErrMalformed, i, n.Threshold)
		}
		if n.LeftChild <= 0 || n.LeftChild >= len(nodes) || n.RightChild <= 0 || n.RightChild >= len(nodes) {
			return nil, fmt.Errorf("%w: node %d has child out of range", ErrMalformed, i)
		}
		if n.FeatureIdx+1 > width {
			width = n.FeatureIdx + 1
		}
	}
	cp := make([]TreeNode, len(nodes))
	copy(cp, nodes)
	return &DecisionTree{nodes: cp, width: width}, nil
}

func (t *DecisionTree) Kind() string { return KindDecisionTree }

// Predict walks the tree for each row.
func (t *DecisionTree) Predict(batch [][]float64) ([]int, error) {
	labels := make([]int, len(batch))
	for i, row := range batch {
		if len(row) < t.width {
			return nil, fmt.Errorf("%w: row %d has %d columns, tree reads %d", ErrDimension, i, len(row), t.width)
		}
		label, err := t.walk(row)
		if err != nil {
			return nil, err
		}
		labels[i] = label
	}
	return labels, nil
}

func (t *DecisionTree) walk(row []float64) (int, error) {
	idx := 0
	// A well-formed tree reaches a leaf in fewer steps than it has nodes.
	for steps := 0; steps <= len(t.nodes); steps++ {
		n := t.nodes[idx]
		if n.IsLeaf {
			return n.ClassLabel, nil
		}
		if row[n.FeatureIdx] <= n.Threshold {
			idx = n.LeftChild
		} else {
			idx = n.RightChild
		}
	}
	return 0, fmt.Errorf("%w: tree contains a cycle", ErrMalformed)
}
