package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"text-playground/core/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation. It backs the service
// when no database is configured and is the fixture for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*models.Project
	examples map[string][]models.Example
	jobs     map[string]*models.TrainingJob
	events   map[string][]models.JobEvent
	versions map[string][]models.ModelInfo
	eventSeq int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*models.Project),
		examples: make(map[string][]models.Example),
		jobs:     make(map[string]*models.TrainingJob),
		events:   make(map[string][]models.JobEvent),
		versions: make(map[string][]models.ModelInfo),
	}
}

// CreateProject stores a new project, assigning an ID and timestamps if unset
func (s *MemoryStore) CreateProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := s.projects[p.ID]; ok {
		return &models.ConflictError{Msg: fmt.Sprintf("project %s already exists", p.ID)}
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.ProjectStatusDraft
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

// GetProject returns a copy of the project
func (s *MemoryStore) GetProject(id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProjectLocked(id)
}

func (s *MemoryStore) getProjectLocked(id string) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "project", ID: id}
	}
	cp := *p
	return &cp, nil
}

// ListProjects filters, searches and paginates projects ordered by creation
// time descending. The returned total counts all matches before pagination.
func (s *MemoryStore) ListProjects(f ProjectFilter) ([]*models.Project, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Project
	search := strings.ToLower(f.Search)
	for _, p := range s.projects {
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.Type != "" && string(p.Type) != f.Type {
			continue
		}
		if f.CreatedBy != "" && p.CreatedBy != f.CreatedBy {
			continue
		}
		if search != "" && !projectMatches(p, search) {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[f.Offset:]
		}
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func projectMatches(p *models.Project, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Description), search) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// UpdateProject replaces the stored project's mutable fields. Lifecycle
// state the store manages itself (dataset summary, published model, current
// job pointer) is kept from the stored row, so a caller holding a stale
// snapshot cannot roll it back.
func (s *MemoryStore) UpdateProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.projects[p.ID]
	if !ok {
		return &models.NotFoundError{Resource: "project", ID: p.ID}
	}
	cp := *p
	cp.CreatedAt = stored.CreatedAt
	cp.Dataset = stored.Dataset
	cp.Model = stored.Model
	cp.CurrentJobID = stored.CurrentJobID
	cp.UpdatedAt = time.Now().UTC()
	s.projects[p.ID] = &cp
	return nil
}

// DeleteProject removes the project and everything attached to it
func (s *MemoryStore) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return &models.NotFoundError{Resource: "project", ID: id}
	}
	delete(s.projects, id)
	delete(s.examples, id)
	delete(s.versions, id)
	for jobID, job := range s.jobs {
		if job.ProjectID == id {
			delete(s.jobs, jobID)
			delete(s.events, jobID)
		}
	}
	return nil
}

// AddExamples appends validated examples under one label. All texts are
// validated before any is stored, and the dataset summary is updated in the
// same critical section.
func (s *MemoryStore) AddExamples(projectID, label string, texts []string) (int, error) {
	for _, text := range texts {
		if err := models.ValidateExample(text, label); err != nil {
			return 0, err
		}
	}
	if len(texts) == 0 {
		return 0, &models.ValidationError{Msg: "examples must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return 0, &models.NotFoundError{Resource: "project", ID: projectID}
	}

	now := time.Now().UTC()
	for _, text := range texts {
		s.examples[projectID] = append(s.examples[projectID], models.Example{
			Text:    text,
			Label:   label,
			AddedAt: now,
		})
	}
	s.refreshSummaryLocked(p)
	return len(texts), nil
}

// ListExamples returns the project's dataset
func (s *MemoryStore) ListExamples(projectID string) (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, &models.NotFoundError{Resource: "project", ID: projectID}
	}
	examples := append([]models.Example(nil), s.examples[projectID]...)
	return &models.Dataset{
		Examples: examples,
		Labels:   distinctLabels(examples),
		Records:  len(examples),
	}, nil
}

// DeleteExample removes the index-th example of a label, in addition order
func (s *MemoryStore) DeleteExample(projectID, label string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return &models.NotFoundError{Resource: "project", ID: projectID}
	}

	seen := 0
	for i, ex := range s.examples[projectID] {
		if ex.Label != label {
			continue
		}
		if seen == index {
			s.examples[projectID] = append(s.examples[projectID][:i], s.examples[projectID][i+1:]...)
			s.refreshSummaryLocked(p)
			return nil
		}
		seen++
	}
	return &models.NotFoundError{Resource: "example", ID: fmt.Sprintf("%s/%d", label, index)}
}

// DeleteLabel removes every example with the given label
func (s *MemoryStore) DeleteLabel(projectID, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return &models.NotFoundError{Resource: "project", ID: projectID}
	}

	kept := s.examples[projectID][:0]
	removed := 0
	for _, ex := range s.examples[projectID] {
		if ex.Label == label {
			removed++
			continue
		}
		kept = append(kept, ex)
	}
	if removed == 0 {
		return &models.NotFoundError{Resource: "label", ID: label}
	}
	s.examples[projectID] = kept
	s.refreshSummaryLocked(p)
	return nil
}

func (s *MemoryStore) refreshSummaryLocked(p *models.Project) {
	examples := s.examples[p.ID]
	p.Dataset = models.DatasetSummary{
		Records: len(examples),
		Labels:  distinctLabels(examples),
	}
	p.UpdatedAt = time.Now().UTC()
}

func distinctLabels(examples []models.Example) []string {
	set := make(map[string]struct{})
	for _, ex := range examples {
		set[ex.Label] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// SetProjectStatus updates the lifecycle status and current job pointer
func (s *MemoryStore) SetProjectStatus(projectID string, status models.ProjectStatus, currentJobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return &models.NotFoundError{Resource: "project", ID: projectID}
	}
	p.Status = status
	p.CurrentJobID = currentJobID
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// SetProjectModel publishes model info on the project and moves its status
func (s *MemoryStore) SetProjectModel(projectID string, info models.ModelInfo, status models.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return &models.NotFoundError{Resource: "project", ID: projectID}
	}
	p.Model = info
	p.Status = status
	p.CurrentJobID = ""
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// CreateJob stores a new training job. The one-active-job-per-project rule
// is enforced here, inside the write lock, so concurrent creates for the
// same project cannot both slip past a separate check.
func (s *MemoryStore) CreateJob(j *models.TrainingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.jobs {
		if existing.ProjectID == j.ProjectID && !existing.Status.Terminal() {
			return &models.ConflictError{
				Msg: fmt.Sprintf("training already in progress for project %s (job %s is %s)", j.ProjectID, existing.ID, existing.Status),
			}
		}
	}

	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	if j.Status == "" {
		j.Status = models.JobStatusPending
	}
	cp := *j
	s.jobs[j.ID] = &cp
	s.appendEventLocked(j.ID, nil, j.Status, "job_created")
	return nil
}

// GetJob returns a copy of the job
func (s *MemoryStore) GetJob(id string) (*models.TrainingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "job", ID: id}
	}
	cp := *j
	return &cp, nil
}

// GetActiveJob returns the pending or running job for a project, or nil
func (s *MemoryStore) GetActiveJob(projectID string) (*models.TrainingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active *models.TrainingJob
	for _, j := range s.jobs {
		if j.ProjectID != projectID || j.Status.Terminal() {
			continue
		}
		if active == nil || j.CreatedAt.After(active.CreatedAt) {
			active = j
		}
	}
	if active == nil {
		return nil, nil
	}
	cp := *active
	return &cp, nil
}

// ListJobs returns the project's jobs, newest first
func (s *MemoryStore) ListJobs(projectID string, limit int) ([]*models.TrainingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []*models.TrainingJob
	for _, j := range s.jobs {
		if j.ProjectID != projectID {
			continue
		}
		cp := *j
		jobs = append(jobs, &cp)
	}
	sort.Slice(jobs, func(i, k int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
		}
		return jobs[i].ID < jobs[k].ID
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// CountJobs returns the total number of jobs for a project
func (s *MemoryStore) CountJobs(projectID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, j := range s.jobs {
		if j.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

// ListJobsByStatus returns jobs in the given status across all projects
func (s *MemoryStore) ListJobsByStatus(status models.JobStatus, limit int) ([]*models.TrainingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []*models.TrainingJob
	for _, j := range s.jobs {
		if j.Status != status {
			continue
		}
		cp := *j
		jobs = append(jobs, &cp)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.Before(jobs[k].CreatedAt) })
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// MarkJobRunning transitions a pending job to running
func (s *MemoryStore) MarkJobRunning(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return &models.NotFoundError{Resource: "job", ID: id}
	}
	if j.Status != models.JobStatusPending {
		return fmt.Errorf("job %s is %s, not pending", id, j.Status)
	}
	now := time.Now().UTC()
	from := j.Status
	j.Status = models.JobStatusRunning
	j.StartedAt = &now
	s.appendEventLocked(id, &from, j.Status, "training_started")
	return nil
}

// UpdateJobProgress records coarse progress for polling callers
func (s *MemoryStore) UpdateJobProgress(id string, progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return &models.NotFoundError{Resource: "job", ID: id}
	}
	if j.Status.Terminal() {
		return nil
	}
	j.Progress = progress
	return nil
}

// CompleteJob transitions a job to ready with its result. Terminal jobs are
// left untouched.
func (s *MemoryStore) CompleteJob(id string, result *models.TrainingResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return &models.NotFoundError{Resource: "job", ID: id}
	}
	if j.Status.Terminal() {
		return nil
	}
	now := time.Now().UTC()
	from := j.Status
	j.Status = models.JobStatusReady
	j.CompletedAt = &now
	j.Progress = 100
	j.Result = result
	s.appendEventLocked(id, &from, j.Status, "training_completed")
	return nil
}

// FailJob transitions a job to failed. Terminal jobs are left untouched.
func (s *MemoryStore) FailJob(id string, errMsg, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return &models.NotFoundError{Resource: "job", ID: id}
	}
	if j.Status.Terminal() {
		return nil
	}
	now := time.Now().UTC()
	from := j.Status
	j.Status = models.JobStatusFailed
	j.CompletedAt = &now
	j.Error = errMsg
	s.appendEventLocked(id, &from, j.Status, reason)
	return nil
}

// GetJobEvents returns the job's transition events, newest first
func (s *MemoryStore) GetJobEvents(jobID string, limit int) ([]models.JobEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := append([]models.JobEvent(nil), s.events[jobID]...)
	sort.Slice(events, func(i, j int) bool { return events[i].ID > events[j].ID })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (s *MemoryStore) appendEventLocked(jobID string, from *models.JobStatus, to models.JobStatus, reason string) {
	s.eventSeq++
	s.events[jobID] = append(s.events[jobID], models.JobEvent{
		ID:         s.eventSeq,
		JobID:      jobID,
		At:         time.Now().UTC(),
		FromStatus: from,
		ToStatus:   to,
		Reason:     reason,
	})
}

// NextModelVersion returns the next artifact version for a project
func (s *MemoryStore) NextModelVersion(projectID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := 0
	for _, v := range s.versions[projectID] {
		if v.Version > max {
			max = v.Version
		}
	}
	return max + 1, nil
}

// CreateModelVersion records a published model artifact
func (s *MemoryStore) CreateModelVersion(projectID string, info models.ModelInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return &models.NotFoundError{Resource: "project", ID: projectID}
	}
	s.versions[projectID] = append(s.versions[projectID], info)
	return nil
}

// ListModelVersions returns all recorded versions, newest first
func (s *MemoryStore) ListModelVersions(projectID string) ([]models.ModelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := append([]models.ModelInfo(nil), s.versions[projectID]...)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions, nil
}

// DeleteModelVersions removes all versions and returns their artifact URIs
func (s *MemoryStore) DeleteModelVersions(projectID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uris := make([]string, 0, len(s.versions[projectID]))
	for _, v := range s.versions[projectID] {
		uris = append(uris, v.URI)
	}
	delete(s.versions, projectID)
	return uris, nil
}

// Stats aggregates counts across the store
func (s *MemoryStore) Stats() (*models.SystemStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.SystemStats{
		ProjectsByStatus: make(map[models.ProjectStatus]int),
		JobsByStatus:     make(map[models.JobStatus]int),
	}
	for _, p := range s.projects {
		stats.ProjectsByStatus[p.Status]++
		stats.TotalProjects++
	}
	for _, j := range s.jobs {
		stats.JobsByStatus[j.Status]++
		stats.TotalJobs++
	}
	for _, examples := range s.examples {
		stats.TotalExamples += len(examples)
	}
	for _, versions := range s.versions {
		stats.TotalModels += len(versions)
	}
	return stats, nil
}
