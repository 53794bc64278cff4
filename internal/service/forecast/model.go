package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

// artifactSchemaVersion guards persisted models against code drift. Bump it
// whenever the feature schema or tree encoding changes.
const artifactSchemaVersion = 1

// Params control gradient-boosted tree training.
type Params struct {
	NumTrees     int
	MaxDepth     int
	LearningRate float64
	MinLeafSize  int
	TestFraction float64
}

func DefaultParams() Params {
	return Params{
		NumTrees:     150,
		MaxDepth:     3,
		LearningRate: 0.1,
		MinLeafSize:  2,
		TestFraction: 0.2,
	}
}

// Metrics summarize model fit on a sample set.
type Metrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// treeNode is one node of a regression tree. Leaves carry Value; internal
// nodes split on Feature < Threshold.
type treeNode struct {
	Feature   int       `json:"f,omitempty"`
	Threshold float64   `json:"t,omitempty"`
	Left      *treeNode `json:"l,omitempty"`
	Right     *treeNode `json:"r,omitempty"`
	Value     float64   `json:"v,omitempty"`
	Leaf      bool      `json:"leaf,omitempty"`
}

func (n *treeNode) predict(x []float64) float64 {
	if n.Leaf {
		return n.Value
	}
	if x[n.Feature] < n.Threshold {
		return n.Left.predict(x)
	}
	return n.Right.predict(x)
}

// Model is a gradient-boosted ensemble of shallow regression trees
// predicting next-day household kWh from a fixed feature schema.
type Model struct {
	base         float64
	learningRate float64
	trees        []*treeNode
	featureNames []string

	TrainedAt    time.Time
	TrainMetrics Metrics
	TestMetrics  Metrics
}

// Train fits a model on samples. The holdout split is chronological: the
// trailing TestFraction of the sequence is never trained on, so evaluation
// reflects genuine forecasting rather than interpolation.
func Train(samples []Sample, params Params) (*Model, error) {
	if len(samples) < MinHistoryDays {
		return nil, fmt.Errorf("training set has %d samples: %w",
			len(samples), constants.ErrInsufficientData)
	}

	split := len(samples) - int(float64(len(samples))*params.TestFraction)
	if split < 1 {
		split = 1
	}
	train, test := samples[:split], samples[split:]

	xs := make([][]float64, len(train))
	ys := make([]float64, len(train))
	for i, s := range train {
		xs[i] = s.Features.Values()
		ys[i] = s.TargetKWh
	}

	m := &Model{
		base:         mean(ys),
		learningRate: params.LearningRate,
		featureNames: FeatureNames(),
		TrainedAt:    time.Now().UTC(),
	}

	// Boosting: each tree fits the residual of the current ensemble.
	preds := make([]float64, len(train))
	for i := range preds {
		preds[i] = m.base
	}
	residuals := make([]float64, len(train))
	idx := make([]int, len(train))
	for i := range idx {
		idx[i] = i
	}

	for t := 0; t < params.NumTrees; t++ {
		for i := range residuals {
			residuals[i] = ys[i] - preds[i]
		}
		tree := growTree(xs, residuals, idx, params.MaxDepth, params.MinLeafSize)
		m.trees = append(m.trees, tree)
		for i := range preds {
			preds[i] += params.LearningRate * tree.predict(xs[i])
		}
	}

	m.TrainMetrics = m.evaluate(train)
	if len(test) > 0 {
		m.TestMetrics = m.evaluate(test)
	}

	return m, nil
}

// Predict returns the estimated total kWh for one feature row.
func (m *Model) Predict(v FeatureVector) float64 {
	x := v.Values()
	out := m.base
	for _, tree := range m.trees {
		out += m.learningRate * tree.predict(x)
	}
	return out
}

func (m *Model) evaluate(samples []Sample) Metrics {
	var sse, sae, tss float64
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.TargetKWh
	}
	yMean := mean(ys)
	for _, s := range samples {
		diff := s.TargetKWh - m.Predict(s.Features)
		sse += diff * diff
		sae += math.Abs(diff)
		d := s.TargetKWh - yMean
		tss += d * d
	}
	n := float64(len(samples))
	met := Metrics{
		RMSE: math.Sqrt(sse / n),
		MAE:  sae / n,
	}
	if tss > 0 {
		met.R2 = 1 - sse/tss
	}
	return met
}

// growTree builds one regression tree on the rows in idx by greedy
// variance-reduction splits.
func growTree(xs [][]float64, ys []float64, idx []int, depth, minLeaf int) *treeNode {
	if depth == 0 || len(idx) < 2*minLeaf {
		return leaf(ys, idx)
	}

	bestFeature, bestThreshold, bestScore := -1, 0.0, math.Inf(1)
	var bestLeft, bestRight []int

	for f := 0; f < NumFeatures; f++ {
		thresholds := candidateThresholds(xs, idx, f)
		for _, th := range thresholds {
			var left, right []int
			for _, i := range idx {
				if xs[i][f] < th {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			if len(left) < minLeaf || len(right) < minLeaf {
				continue
			}
			score := sumSquares(ys, left) + sumSquares(ys, right)
			if score < bestScore {
				bestFeature, bestThreshold, bestScore = f, th, score
				bestLeft, bestRight = left, right
			}
		}
	}

	if bestFeature < 0 {
		return leaf(ys, idx)
	}

	return &treeNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      growTree(xs, ys, bestLeft, depth-1, minLeaf),
		Right:     growTree(xs, ys, bestRight, depth-1, minLeaf),
	}
}

// candidateThresholds returns midpoints between adjacent distinct values of
// feature f across the rows in idx.
func candidateThresholds(xs [][]float64, idx []int, f int) []float64 {
	seen := make(map[float64]struct{}, len(idx))
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		v := xs[i][f]
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			vals = append(vals, v)
		}
	}
	if len(vals) < 2 {
		return nil
	}
	sort.Float64s(vals)
	out := make([]float64, 0, len(vals)-1)
	for i := 1; i < len(vals); i++ {
		out = append(out, (vals[i-1]+vals[i])/2)
	}
	return out
}

func leaf(ys []float64, idx []int) *treeNode {
	var sum float64
	for _, i := range idx {
		sum += ys[i]
	}
	return &treeNode{Leaf: true, Value: sum / float64(len(idx))}
}

func sumSquares(ys []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += ys[i]
	}
	m := sum / float64(len(idx))
	var ss float64
	for _, i := range idx {
		d := ys[i] - m
		ss += d * d
	}
	return ss
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// artifact is the on-disk JSON form of a trained model.
type artifact struct {
	SchemaVersion int         `json:"schema_version"`
	FeatureNames  []string    `json:"feature_names"`
	Base          float64     `json:"base"`
	LearningRate  float64     `json:"learning_rate"`
	Trees         []*treeNode `json:"trees"`
	TrainedAt     time.Time   `json:"trained_at"`
	TrainMetrics  Metrics     `json:"train_metrics"`
	TestMetrics   Metrics     `json:"test_metrics"`
}

// Save writes the model atomically: serialize to a temp file in the target
// directory, then rename over the destination.
func (m *Model) Save(path string) error {
	art := artifact{
		SchemaVersion: artifactSchemaVersion,
		FeatureNames:  m.featureNames,
		Base:          m.base,
		LearningRate:  m.learningRate,
		Trees:         m.trees,
		TrainedAt:     m.TrainedAt,
		TrainMetrics:  m.TrainMetrics,
		TestMetrics:   m.TestMetrics,
	}

	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace model file: %w", err)
	}

	return nil
}

// Load reads a model artifact from disk. A missing file maps to
// ErrModelNotFound; a schema or feature mismatch to ErrModelVersionMismatch.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, constants.ErrModelNotFound
		}
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}

	if art.SchemaVersion != artifactSchemaVersion {
		return nil, fmt.Errorf("artifact schema v%d, want v%d: %w",
			art.SchemaVersion, artifactSchemaVersion, constants.ErrModelVersionMismatch)
	}
	if len(art.FeatureNames) != NumFeatures {
		return nil, fmt.Errorf("artifact has %d features, want %d: %w",
			len(art.FeatureNames), NumFeatures, constants.ErrModelVersionMismatch)
	}
	for i, name := range art.FeatureNames {
		if name != featureNames[i] {
			return nil, fmt.Errorf("artifact feature %q at %d, want %q: %w",
				name, i, featureNames[i], constants.ErrModelVersionMismatch)
		}
	}

	return &Model{
		base:         art.Base,
		learningRate: art.LearningRate,
		trees:        art.Trees,
		featureNames: art.FeatureNames,
		TrainedAt:    art.TrainedAt,
		TrainMetrics: art.TrainMetrics,
		TestMetrics:  art.TestMetrics,
	}, nil
}
