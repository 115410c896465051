package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/urbansense/placement-core/pkg/models"
)

func TestCoverageHistoryRenders(t *testing.T) {
	rec := &models.NetworkRecord{
		RunMeta: models.RunMeta{
			Region:     "test",
			Optimiser:  "greedy",
			DecayKind:  "binary",
			DecayParam: 500,
			Objectives: []string{"workers"},
		},
		NSensors:         3,
		SensorIndices:    []int{2, 4, 10},
		SensorIDs:        []string{"a", "b", "c"},
		TotalCoverage:    0.79,
		PlacementHistory: []int{4, 10, 2},
		CoverageHistory:  []float64{0.38, 0.70, 0.79},
	}

	var buf bytes.Buffer
	if err := CoverageHistory(rec, &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "echarts") {
		t.Fatalf("expected an echarts document")
	}

	empty := &models.NetworkRecord{}
	if err := CoverageHistory(empty, &buf); err == nil {
		t.Fatalf("expected an error for a record without history")
	}
}

func TestObjectiveSpaceRenders(t *testing.T) {
	rec := &models.PopulationRecord{
		RunMeta: models.RunMeta{
			Region:     "test",
			Optimiser:  "evolutionary",
			Objectives: []string{"workers", "residents"},
		},
		NSensors:       2,
		PopulationSize: 3,
		Generations:    10,
		Population:     [][]int{{0, 1}, {2, 3}, {1, 2}},
		TotalCoverage: [][]float64{
			{0.9, 0.1},
			{0.1, 0.9},
			{0.3, 0.3},
		},
	}

	var buf bytes.Buffer
	if err := ObjectiveSpace(rec, &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "echarts") {
		t.Fatalf("expected an echarts document")
	}

	bad := &models.PopulationRecord{
		Population:    [][]int{{0}},
		TotalCoverage: [][]float64{{0.5}},
	}
	if err := ObjectiveSpace(bad, &buf); err == nil {
		t.Fatalf("expected an error for a single-objective record")
	}

	noFitness := &models.PopulationRecord{
		Population: [][]int{{0, 1}},
	}
	if err := ObjectiveSpace(noFitness, &buf); err == nil {
		t.Fatalf("expected an error for a record without fitness values")
	}
}
