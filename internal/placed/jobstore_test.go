package placed

import (
	"testing"

	"github.com/urbansense/placement-core/pkg/models"
)

func testParams() models.JobParams {
	return models.JobParams{
		Kind:       models.JobKindGreedy,
		NSensors:   2,
		DecayKind:  "binary",
		DecayParam: 500,
		Objectives: []models.ObjectiveSpec{{Column: "workers", Weight: 1}},
	}
}

func TestJobStoreLifecycle(t *testing.T) {
	store := NewJobStore()

	rec, err := store.Create(testParams())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rec.Job.ID == "" {
		t.Fatalf("expected a generated job id")
	}
	if rec.Job.Status != models.JobStatusPending {
		t.Fatalf("expected pending status, got %s", rec.Job.Status)
	}
	if rec.Job.CreatedAtUnixMs == 0 {
		t.Fatalf("expected a creation timestamp")
	}

	got, ok := store.Get(rec.Job.ID)
	if !ok {
		t.Fatalf("job not found after create")
	}
	if got.Job.ID != rec.Job.ID {
		t.Fatalf("expected job %s, got %s", rec.Job.ID, got.Job.ID)
	}

	updated, err := store.SetStatus(rec.Job.ID, models.JobStatusRunning, "")
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if updated.Job.StartedAtUnixMs == 0 {
		t.Fatalf("expected a start timestamp")
	}

	if err := store.SetProgress(rec.Job.ID, 0.5, "halfway"); err != nil {
		t.Fatalf("set progress failed: %v", err)
	}
	got, _ = store.Get(rec.Job.ID)
	if got.Job.Progress != 0.5 || got.Job.StatusDetail != "halfway" {
		t.Fatalf("unexpected progress state: %+v", got.Job)
	}

	updated, err = store.SetStatus(rec.Job.ID, models.JobStatusCompleted, "")
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if updated.Job.EndedAtUnixMs == 0 {
		t.Fatalf("expected an end timestamp")
	}

	// Terminal states are sticky.
	updated, err = store.SetStatus(rec.Job.ID, models.JobStatusRunning, "")
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if updated.Job.Status != models.JobStatusCompleted {
		t.Fatalf("expected completed to stay, got %s", updated.Job.Status)
	}
}

func TestJobStoreUnknownJob(t *testing.T) {
	store := NewJobStore()

	if _, ok := store.Get("missing"); ok {
		t.Fatalf("expected missing job to be absent")
	}
	if _, err := store.SetStatus("missing", models.JobStatusRunning, ""); err == nil {
		t.Fatalf("expected an error for a missing job")
	}
	if err := store.SetProgress("missing", 0.5, ""); err == nil {
		t.Fatalf("expected an error for a missing job")
	}
}

func TestJobStoreList(t *testing.T) {
	store := NewJobStore()
	for i := 0; i < 5; i++ {
		if _, err := store.Create(testParams()); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	if got := len(store.List(3)); got != 3 {
		t.Fatalf("expected 3 jobs, got %d", got)
	}
	if got := len(store.List(0)); got != 5 {
		t.Fatalf("expected all 5 jobs for the default limit, got %d", got)
	}
}

func TestJobStoreResults(t *testing.T) {
	store := NewJobStore()
	rec, err := store.Create(testParams())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	network := &models.NetworkRecord{NSensors: 2, TotalCoverage: 0.8}
	if err := store.SetNetworkResult(rec.Job.ID, network); err != nil {
		t.Fatalf("set network result failed: %v", err)
	}
	got, _ := store.Get(rec.Job.ID)
	if got.Network == nil || got.Network.TotalCoverage != 0.8 {
		t.Fatalf("unexpected network result: %+v", got.Network)
	}

	population := &models.PopulationRecord{PopulationSize: 10}
	if err := store.SetPopulationResult(rec.Job.ID, population); err != nil {
		t.Fatalf("set population result failed: %v", err)
	}
	got, _ = store.Get(rec.Job.ID)
	if got.Population == nil || got.Population.PopulationSize != 10 {
		t.Fatalf("unexpected population result: %+v", got.Population)
	}
}
