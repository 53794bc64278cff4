package forecast

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

func trainOn(t *testing.T, total float64, days int) *Model {
	t.Helper()
	samples, err := BuildTrainingSet(constantHistory(days, total))
	if err != nil {
		t.Fatal(err)
	}
	m, err := Train(samples, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTrainConstantSeries(t *testing.T) {
	m := trainOn(t, 10, 60)

	samples, _ := BuildTrainingSet(constantHistory(60, 10))
	for _, s := range samples {
		got := m.Predict(s.Features)
		if math.Abs(got-10) > 0.5 {
			t.Fatalf("Predict = %v, want ~10", got)
		}
	}
}

func TestTrainLearnsLagFeature(t *testing.T) {
	// Alternating 5/15 pattern: prev_day_kwh alone separates the classes.
	aggs := constantHistory(60, 0)
	for i, agg := range aggs {
		if i%2 == 0 {
			agg.TotalKWh = 5
		} else {
			agg.TotalKWh = 15
		}
	}
	samples, err := BuildTrainingSet(aggs)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Train(samples, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	var errSum float64
	for _, s := range samples {
		errSum += math.Abs(m.Predict(s.Features) - s.TargetKWh)
	}
	if mae := errSum / float64(len(samples)); mae > 2 {
		t.Fatalf("MAE = %v, want < 2 on a learnable alternating pattern", mae)
	}
}

func TestTrainTooFewSamples(t *testing.T) {
	_, err := Train([]Sample{{TargetKWh: 1}}, DefaultParams())
	if !errors.Is(err, constants.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestTrainReportsMetrics(t *testing.T) {
	m := trainOn(t, 10, 60)
	if m.TrainMetrics.RMSE > 1 {
		t.Errorf("train RMSE = %v on constant data, want near 0", m.TrainMetrics.RMSE)
	}
	if m.TrainedAt.IsZero() {
		t.Error("TrainedAt not set")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := trainOn(t, 12, 60)
	path := filepath.Join(t.TempDir(), "model.json")

	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	samples, _ := BuildTrainingSet(constantHistory(60, 12))
	for _, s := range samples[:5] {
		want := m.Predict(s.Features)
		got := loaded.Predict(s.Features)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("loaded Predict = %v, original = %v", got, want)
		}
	}
	if !loaded.TrainedAt.Equal(m.TrainedAt) {
		t.Errorf("TrainedAt = %v, want %v", loaded.TrainedAt, m.TrainedAt)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, constants.ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
}

func TestLoadRejectsSchemaDrift(t *testing.T) {
	m := trainOn(t, 10, 30)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var art map[string]json.RawMessage
	if err := json.Unmarshal(data, &art); err != nil {
		t.Fatal(err)
	}

	t.Run("schema version", func(t *testing.T) {
		tampered := clone(art)
		tampered["schema_version"] = json.RawMessage("99")
		_, err := Load(writeArtifact(t, tampered))
		if !errors.Is(err, constants.ErrModelVersionMismatch) {
			t.Fatalf("err = %v, want ErrModelVersionMismatch", err)
		}
	})

	t.Run("feature width", func(t *testing.T) {
		tampered := clone(art)
		tampered["feature_names"] = json.RawMessage(`["day_of_week"]`)
		_, err := Load(writeArtifact(t, tampered))
		if !errors.Is(err, constants.ErrModelVersionMismatch) {
			t.Fatalf("err = %v, want ErrModelVersionMismatch", err)
		}
	})
}

func clone(m map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func writeArtifact(t *testing.T, art map[string]json.RawMessage) string {
	t.Helper()
	data, err := json.Marshal(art)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
