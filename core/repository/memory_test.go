package repository

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"text-playground/core/models"
)

func newTestProject(t *testing.T, s Store, name string) *models.Project {
	t.Helper()
	p := &models.Project{
		Name: name,
		Type: models.ProjectTypeTextRecognition,
	}
	if err := s.CreateProject(p); err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	return p
}

func TestCreateAndGetProject(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	got, err := s.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if got.Name != "mood detector" {
		t.Errorf("Name = %q, want mood detector", got.Name)
	}
	if got.Status != models.ProjectStatusDraft {
		t.Errorf("Status = %q, want draft", got.Status)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetProject("missing")
	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("GetProject() error = %v, want NotFoundError", err)
	}
}

func TestListProjectsFilterAndSearch(t *testing.T) {
	s := NewMemoryStore()
	a := newTestProject(t, s, "mood detector")
	newTestProject(t, s, "spam filter")

	if err := s.SetProjectStatus(a.ID, models.ProjectStatusTrained, ""); err != nil {
		t.Fatalf("SetProjectStatus() error: %v", err)
	}

	items, total, err := s.ListProjects(ProjectFilter{Status: "trained"})
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != a.ID {
		t.Errorf("status filter returned %d/%d projects", len(items), total)
	}

	items, total, err = s.ListProjects(ProjectFilter{Search: "MOOD"})
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != a.ID {
		t.Errorf("search returned %d/%d projects", len(items), total)
	}
}

func TestListProjectsPagination(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		newTestProject(t, s, "project")
	}

	items, total, err := s.ListProjects(ProjectFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
}

func TestUpdateProjectPreservesLifecycleState(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	// Caller snapshots the project, then a training publishes a model.
	snapshot, err := s.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	info := models.ModelInfo{URI: "models/x/v1.model", Version: 1}
	if err := s.SetProjectModel(p.ID, info, models.ProjectStatusTrained); err != nil {
		t.Fatalf("SetProjectModel() error: %v", err)
	}

	// Writing the stale snapshot back must not roll the model back.
	snapshot.Name = "renamed detector"
	if err := s.UpdateProject(snapshot); err != nil {
		t.Fatalf("UpdateProject() error: %v", err)
	}

	got, err := s.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if got.Name != "renamed detector" {
		t.Errorf("Name = %q, want renamed detector", got.Name)
	}
	if got.Model.URI != info.URI || got.Model.Version != 1 {
		t.Errorf("Model = %+v, want the published model to survive the update", got.Model)
	}
}

func TestAddExamplesUpdatesSummary(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	added, err := s.AddExamples(p.ID, "happy", []string{"sunny day", "great fun"})
	if err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	if _, err := s.AddExamples(p.ID, "sad", []string{"awful rain"}); err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}

	got, err := s.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if got.Dataset.Records != 3 {
		t.Errorf("Records = %d, want 3", got.Dataset.Records)
	}
	if !reflect.DeepEqual(got.Dataset.Labels, []string{"happy", "sad"}) {
		t.Errorf("Labels = %v, want [happy sad]", got.Dataset.Labels)
	}
}

func TestAddExamplesAtomicValidation(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	tooLong := strings.Repeat("x", models.MaxExampleTextLen+1)
	_, err := s.AddExamples(p.ID, "happy", []string{"fine", tooLong})
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("AddExamples() error = %v, want ValidationError", err)
	}

	dataset, err := s.ListExamples(p.ID)
	if err != nil {
		t.Fatalf("ListExamples() error: %v", err)
	}
	if dataset.Records != 0 {
		t.Errorf("Records = %d, want 0 after rejected batch", dataset.Records)
	}
}

func TestDeleteExampleByLabelIndex(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")
	if _, err := s.AddExamples(p.ID, "happy", []string{"first", "second"}); err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}
	if _, err := s.AddExamples(p.ID, "sad", []string{"other"}); err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}

	if err := s.DeleteExample(p.ID, "happy", 0); err != nil {
		t.Fatalf("DeleteExample() error: %v", err)
	}
	dataset, err := s.ListExamples(p.ID)
	if err != nil {
		t.Fatalf("ListExamples() error: %v", err)
	}
	if dataset.Records != 2 {
		t.Errorf("Records = %d, want 2", dataset.Records)
	}
	for _, ex := range dataset.Examples {
		if ex.Text == "first" {
			t.Error("deleted example still present")
		}
	}

	var notFoundErr *models.NotFoundError
	if err := s.DeleteExample(p.ID, "happy", 5); !errors.As(err, &notFoundErr) {
		t.Errorf("DeleteExample() with bad index error = %v, want NotFoundError", err)
	}
}

func TestDeleteLabel(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")
	if _, err := s.AddExamples(p.ID, "happy", []string{"one", "two"}); err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}
	if _, err := s.AddExamples(p.ID, "sad", []string{"three"}); err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}

	if err := s.DeleteLabel(p.ID, "happy"); err != nil {
		t.Fatalf("DeleteLabel() error: %v", err)
	}
	got, err := s.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject() error: %v", err)
	}
	if !reflect.DeepEqual(got.Dataset.Labels, []string{"sad"}) {
		t.Errorf("Labels = %v, want [sad]", got.Dataset.Labels)
	}

	var notFoundErr *models.NotFoundError
	if err := s.DeleteLabel(p.ID, "happy"); !errors.As(err, &notFoundErr) {
		t.Errorf("DeleteLabel() twice error = %v, want NotFoundError", err)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	job := &models.TrainingJob{ProjectID: p.ID, Config: models.DefaultTrainingConfig()}
	if err := s.CreateJob(job); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}

	active, err := s.GetActiveJob(p.ID)
	if err != nil {
		t.Fatalf("GetActiveJob() error: %v", err)
	}
	if active == nil || active.ID != job.ID {
		t.Fatal("GetActiveJob() did not return the pending job")
	}

	if err := s.MarkJobRunning(job.ID); err != nil {
		t.Fatalf("MarkJobRunning() error: %v", err)
	}
	// Running twice must fail: the transition is pending-only
	if err := s.MarkJobRunning(job.ID); err == nil {
		t.Error("MarkJobRunning() on a running job did not fail")
	}

	result := &models.TrainingResult{Accuracy: 100, Labels: []string{"happy", "sad"}}
	if err := s.CompleteJob(job.ID, result); err != nil {
		t.Fatalf("CompleteJob() error: %v", err)
	}

	got, err := s.GetJob(job.ID)
	if err != nil {
		t.Fatalf("GetJob() error: %v", err)
	}
	if got.Status != models.JobStatusReady {
		t.Errorf("Status = %q, want ready", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("Progress = %v, want 100", got.Progress)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	active, err = s.GetActiveJob(p.ID)
	if err != nil {
		t.Fatalf("GetActiveJob() error: %v", err)
	}
	if active != nil {
		t.Error("GetActiveJob() returned a terminal job")
	}
}

func TestCreateJobRejectsSecondActiveJob(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	first := &models.TrainingJob{ProjectID: p.ID}
	if err := s.CreateJob(first); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}

	var conflictErr *models.ConflictError
	if err := s.CreateJob(&models.TrainingJob{ProjectID: p.ID}); !errors.As(err, &conflictErr) {
		t.Fatalf("CreateJob() with pending sibling error = %v, want ConflictError", err)
	}

	// Still rejected while the first job runs
	if err := s.MarkJobRunning(first.ID); err != nil {
		t.Fatalf("MarkJobRunning() error: %v", err)
	}
	if err := s.CreateJob(&models.TrainingJob{ProjectID: p.ID}); !errors.As(err, &conflictErr) {
		t.Fatalf("CreateJob() with running sibling error = %v, want ConflictError", err)
	}

	// Allowed again once the first job is terminal
	if err := s.FailJob(first.ID, "boom", "training_failed"); err != nil {
		t.Fatalf("FailJob() error: %v", err)
	}
	if err := s.CreateJob(&models.TrainingJob{ProjectID: p.ID}); err != nil {
		t.Fatalf("CreateJob() after terminal sibling error: %v", err)
	}

	// Other projects are unaffected
	other := newTestProject(t, s, "spam filter")
	if err := s.CreateJob(&models.TrainingJob{ProjectID: other.ID}); err != nil {
		t.Fatalf("CreateJob() for other project error: %v", err)
	}
}

func TestFailJobIsTerminalSafe(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	job := &models.TrainingJob{ProjectID: p.ID}
	if err := s.CreateJob(job); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}
	if err := s.MarkJobRunning(job.ID); err != nil {
		t.Fatalf("MarkJobRunning() error: %v", err)
	}
	if err := s.CompleteJob(job.ID, &models.TrainingResult{Accuracy: 90}); err != nil {
		t.Fatalf("CompleteJob() error: %v", err)
	}

	// A late failure must not overwrite the completed state
	if err := s.FailJob(job.ID, "too late", "user_cancelled"); err != nil {
		t.Fatalf("FailJob() error: %v", err)
	}
	got, err := s.GetJob(job.ID)
	if err != nil {
		t.Fatalf("GetJob() error: %v", err)
	}
	if got.Status != models.JobStatusReady {
		t.Errorf("Status = %q, want ready after no-op fail", got.Status)
	}
}

func TestJobEventsRecordTransitions(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	job := &models.TrainingJob{ProjectID: p.ID}
	if err := s.CreateJob(job); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}
	if err := s.MarkJobRunning(job.ID); err != nil {
		t.Fatalf("MarkJobRunning() error: %v", err)
	}
	if err := s.FailJob(job.ID, "boom", "training_failed"); err != nil {
		t.Fatalf("FailJob() error: %v", err)
	}

	events, err := s.GetJobEvents(job.ID, 10)
	if err != nil {
		t.Fatalf("GetJobEvents() error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	// Newest first
	if events[0].ToStatus != models.JobStatusFailed || events[0].Reason != "training_failed" {
		t.Errorf("newest event = %+v, want failed/training_failed", events[0])
	}
	if events[2].FromStatus != nil {
		t.Error("creation event should have no from status")
	}
}

func TestModelVersions(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")

	v, err := s.NextModelVersion(p.ID)
	if err != nil {
		t.Fatalf("NextModelVersion() error: %v", err)
	}
	if v != 1 {
		t.Errorf("first version = %d, want 1", v)
	}

	if err := s.CreateModelVersion(p.ID, models.ModelInfo{URI: "models/x/v1.model", Version: 1}); err != nil {
		t.Fatalf("CreateModelVersion() error: %v", err)
	}
	if err := s.CreateModelVersion(p.ID, models.ModelInfo{URI: "models/x/v2.model", Version: 2}); err != nil {
		t.Fatalf("CreateModelVersion() error: %v", err)
	}

	v, err = s.NextModelVersion(p.ID)
	if err != nil {
		t.Fatalf("NextModelVersion() error: %v", err)
	}
	if v != 3 {
		t.Errorf("next version = %d, want 3", v)
	}

	uris, err := s.DeleteModelVersions(p.ID)
	if err != nil {
		t.Fatalf("DeleteModelVersions() error: %v", err)
	}
	if len(uris) != 2 {
		t.Errorf("len(uris) = %d, want 2", len(uris))
	}

	// Idempotent
	uris, err = s.DeleteModelVersions(p.ID)
	if err != nil {
		t.Fatalf("DeleteModelVersions() error: %v", err)
	}
	if len(uris) != 0 {
		t.Errorf("second delete returned %d uris, want 0", len(uris))
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")
	if _, err := s.AddExamples(p.ID, "happy", []string{"one"}); err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}
	job := &models.TrainingJob{ProjectID: p.ID}
	if err := s.CreateJob(job); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}

	if err := s.DeleteProject(p.ID); err != nil {
		t.Fatalf("DeleteProject() error: %v", err)
	}

	var notFoundErr *models.NotFoundError
	if _, err := s.GetProject(p.ID); !errors.As(err, &notFoundErr) {
		t.Errorf("GetProject() after delete error = %v, want NotFoundError", err)
	}
	if _, err := s.GetJob(job.ID); !errors.As(err, &notFoundErr) {
		t.Errorf("GetJob() after delete error = %v, want NotFoundError", err)
	}
}

func TestStats(t *testing.T) {
	s := NewMemoryStore()
	p := newTestProject(t, s, "mood detector")
	if _, err := s.AddExamples(p.ID, "happy", []string{"one", "two"}); err != nil {
		t.Fatalf("AddExamples() error: %v", err)
	}
	if err := s.CreateJob(&models.TrainingJob{ProjectID: p.ID}); err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.TotalProjects != 1 || stats.TotalJobs != 1 || stats.TotalExamples != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.ProjectsByStatus[models.ProjectStatusDraft] != 1 {
		t.Errorf("ProjectsByStatus = %v", stats.ProjectsByStatus)
	}
	if stats.JobsByStatus[models.JobStatusPending] != 1 {
		t.Errorf("JobsByStatus = %v", stats.JobsByStatus)
	}
}
