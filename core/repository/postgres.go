package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"text-playground/core/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore is the Postgres-backed Store implementation
type PostgresStore struct {
	db *DB
}

// NewPostgresStore creates a store on an initialized database
func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const projectColumns = `id, name, description, type, status, created_by, tags, notes,
	epochs, batch_size, learning_rate, validation_split, current_job_id,
	records, labels, model_uri, model_version, model_type, model_accuracy,
	model_labels, model_trained_at, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	var tags, labels, modelLabels pq.StringArray
	var modelTrainedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Type, &p.Status, &p.CreatedBy,
		&tags, &p.Notes,
		&p.Config.Epochs, &p.Config.BatchSize, &p.Config.LearningRate, &p.Config.ValidationSplit,
		&p.CurrentJobID,
		&p.Dataset.Records, &labels,
		&p.Model.URI, &p.Model.Version, &p.Model.ModelType, &p.Model.Accuracy,
		&modelLabels, &modelTrainedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	p.Dataset.Labels = labels
	p.Model.Labels = modelLabels
	if modelTrainedAt.Valid {
		p.Model.TrainedAt = &modelTrainedAt.Time
	}
	return &p, nil
}

// CreateProject inserts a new project
func (s *PostgresStore) CreateProject(p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.ProjectStatusDraft
	}

	query := `
		INSERT INTO projects (
			id, name, description, type, status, created_by, tags, notes,
			epochs, batch_size, learning_rate, validation_split, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.Exec(query,
		p.ID, p.Name, p.Description, p.Type, p.Status, p.CreatedBy,
		pq.Array(p.Tags), p.Notes,
		p.Config.Epochs, p.Config.BatchSize, p.Config.LearningRate, p.Config.ValidationSplit,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetProject fetches a project by ID
func (s *PostgresStore) GetProject(id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "project", ID: id}
	}
	return p, err
}

// ListProjects filters and paginates projects, newest first
func (s *PostgresStore) ListProjects(f ProjectFilter) ([]*models.Project, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	addFilter := func(clause string, value interface{}) {
		where += fmt.Sprintf(" AND "+clause, argIndex)
		args = append(args, value)
		argIndex++
	}
	if f.Status != "" {
		addFilter("status = $%d", f.Status)
	}
	if f.Type != "" {
		addFilter("type = $%d", f.Type)
	}
	if f.CreatedBy != "" {
		addFilter("created_by = $%d", f.CreatedBy)
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE $%d))", argIndex, argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM projects"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where + " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, f.Limit)
		argIndex++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

// UpdateProject updates the mutable project fields
func (s *PostgresStore) UpdateProject(p *models.Project) error {
	query := `
		UPDATE projects SET
			name = $1, description = $2, type = $3, status = $4, tags = $5, notes = $6,
			epochs = $7, batch_size = $8, learning_rate = $9, validation_split = $10,
			updated_at = NOW()
		WHERE id = $11
	`
	res, err := s.db.Exec(query,
		p.Name, p.Description, p.Type, p.Status, pq.Array(p.Tags), p.Notes,
		p.Config.Epochs, p.Config.BatchSize, p.Config.LearningRate, p.Config.ValidationSplit,
		p.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "project", p.ID)
}

// DeleteProject removes a project and its jobs, events and model versions
func (s *PostgresStore) DeleteProject(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res, "project", id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM job_events WHERE job_id IN (SELECT id FROM jobs WHERE project_id = $1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM jobs WHERE project_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM model_versions WHERE project_id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// AddExamples inserts validated examples and refreshes the dataset summary
// in one transaction.
func (s *PostgresStore) AddExamples(projectID, label string, texts []string) (int, error) {
	for _, text := range texts {
		if err := models.ValidateExample(text, label); err != nil {
			return 0, err
		}
	}
	if len(texts) == 0 {
		return 0, &models.ValidationError{Msg: "examples must not be empty"}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := projectExistsTx(tx, projectID); err != nil {
		return 0, err
	}
	for _, text := range texts {
		if _, err := tx.Exec(
			`INSERT INTO examples (project_id, label, text) VALUES ($1, $2, $3)`,
			projectID, label, text,
		); err != nil {
			return 0, err
		}
	}
	if err := refreshSummaryTx(tx, projectID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(texts), nil
}

// ListExamples returns the full dataset for a project
func (s *PostgresStore) ListExamples(projectID string) (*models.Dataset, error) {
	if err := s.projectExists(projectID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT text, label, added_at FROM examples WHERE project_id = $1 ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dataset := &models.Dataset{}
	for rows.Next() {
		var ex models.Example
		if err := rows.Scan(&ex.Text, &ex.Label, &ex.AddedAt); err != nil {
			return nil, err
		}
		dataset.Examples = append(dataset.Examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	dataset.Records = len(dataset.Examples)
	dataset.Labels = distinctLabels(dataset.Examples)
	return dataset, nil
}

// DeleteExample removes the index-th example of a label, in insertion order
func (s *PostgresStore) DeleteExample(projectID, label string, index int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := projectExistsTx(tx, projectID); err != nil {
		return err
	}
	res, err := tx.Exec(`
		DELETE FROM examples WHERE id IN (
			SELECT id FROM examples
			WHERE project_id = $1 AND label = $2
			ORDER BY id OFFSET $3 LIMIT 1
		)`, projectID, label, index)
	if err != nil {
		return err
	}
	if err := requireRow(res, "example", fmt.Sprintf("%s/%d", label, index)); err != nil {
		return err
	}
	if err := refreshSummaryTx(tx, projectID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteLabel removes all examples with the given label
func (s *PostgresStore) DeleteLabel(projectID, label string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := projectExistsTx(tx, projectID); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM examples WHERE project_id = $1 AND label = $2`, projectID, label)
	if err != nil {
		return err
	}
	if err := requireRow(res, "label", label); err != nil {
		return err
	}
	if err := refreshSummaryTx(tx, projectID); err != nil {
		return err
	}
	return tx.Commit()
}

func refreshSummaryTx(tx *sql.Tx, projectID string) error {
	_, err := tx.Exec(`
		UPDATE projects SET
			records = (SELECT COUNT(*) FROM examples WHERE project_id = $1),
			labels = COALESCE(
				(SELECT array_agg(DISTINCT label ORDER BY label) FROM examples WHERE project_id = $1),
				'{}'
			),
			updated_at = NOW()
		WHERE id = $1
	`, projectID)
	return err
}

// SetProjectStatus updates the lifecycle status and current job pointer
func (s *PostgresStore) SetProjectStatus(projectID string, status models.ProjectStatus, currentJobID string) error {
	res, err := s.db.Exec(
		`UPDATE projects SET status = $1, current_job_id = $2, updated_at = NOW() WHERE id = $3`,
		status, currentJobID, projectID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "project", projectID)
}

// SetProjectModel publishes model info on the project and moves its status
func (s *PostgresStore) SetProjectModel(projectID string, info models.ModelInfo, status models.ProjectStatus) error {
	var trainedAt sql.NullTime
	if info.TrainedAt != nil {
		trainedAt = sql.NullTime{Time: *info.TrainedAt, Valid: true}
	}
	res, err := s.db.Exec(`
		UPDATE projects SET
			model_uri = $1, model_version = $2, model_type = $3, model_accuracy = $4,
			model_labels = $5, model_trained_at = $6,
			status = $7, current_job_id = '', updated_at = NOW()
		WHERE id = $8
	`, info.URI, info.Version, info.ModelType, info.Accuracy,
		pq.Array(info.Labels), trainedAt, status, projectID)
	if err != nil {
		return err
	}
	return requireRow(res, "project", projectID)
}

// CreateJob inserts a job with its creation event. The idx_jobs_one_active
// partial unique index rejects a second non-terminal job per project, so the
// one-active-job rule holds even across concurrent inserts.
func (s *PostgresStore) CreateJob(j *models.TrainingJob) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	if j.Status == "" {
		j.Status = models.JobStatusPending
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO jobs (id, project_id, status, created_at, progress, epochs, batch_size, learning_rate, validation_split)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, j.ID, j.ProjectID, j.Status, j.CreatedAt, j.Progress,
		j.Config.Epochs, j.Config.BatchSize, j.Config.LearningRate, j.Config.ValidationSplit)
	if err != nil {
		return activeJobConflict(err, j.ProjectID)
	}
	if err := createEventTx(tx, j.ID, nil, j.Status, "job_created"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return activeJobConflict(err, j.ProjectID)
	}
	return nil
}

// activeJobConflict translates a unique violation on idx_jobs_one_active
// into the conflict the API reports as 409.
func activeJobConflict(err error, projectID string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return &models.ConflictError{
			Msg: fmt.Sprintf("training already in progress for project %s", projectID),
		}
	}
	return err
}

const jobColumns = `id, project_id, status, created_at, started_at, completed_at,
	error_msg, progress, epochs, batch_size, learning_rate, validation_split, result_json`

func scanJob(row interface{ Scan(...interface{}) error }) (*models.TrainingJob, error) {
	var j models.TrainingJob
	var startedAt, completedAt sql.NullTime
	var resultJSON string

	err := row.Scan(
		&j.ID, &j.ProjectID, &j.Status, &j.CreatedAt, &startedAt, &completedAt,
		&j.Error, &j.Progress,
		&j.Config.Epochs, &j.Config.BatchSize, &j.Config.LearningRate, &j.Config.ValidationSplit,
		&resultJSON,
	)
	if err != nil {
		return nil, err
	}
	if startedAt.Valid {
		j.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		j.CompletedAt = &completedAt.Time
	}
	if resultJSON != "" {
		var result models.TrainingResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err == nil {
			j.Result = &result
		}
	}
	return &j, nil
}

// GetJob fetches a job by ID
func (s *PostgresStore) GetJob(id string) (*models.TrainingJob, error) {
	j, err := scanJob(s.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "job", ID: id}
	}
	return j, err
}

// GetActiveJob returns the pending or running job for a project, or nil
func (s *PostgresStore) GetActiveJob(projectID string) (*models.TrainingJob, error) {
	j, err := scanJob(s.db.QueryRow(`
		SELECT `+jobColumns+` FROM jobs
		WHERE project_id = $1 AND status IN ('pending', 'running')
		ORDER BY created_at DESC LIMIT 1
	`, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

// ListJobs returns the project's jobs, newest first
func (s *PostgresStore) ListJobs(projectID string, limit int) ([]*models.TrainingJob, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE project_id = $1 ORDER BY created_at DESC, id`
	args := []interface{}{projectID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.queryJobs(query, args...)
}

// CountJobs returns the total number of jobs for a project
func (s *PostgresStore) CountJobs(projectID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM jobs WHERE project_id = $1`, projectID).Scan(&count)
	return count, err
}

// ListJobsByStatus returns jobs in the given status across all projects
func (s *PostgresStore) ListJobsByStatus(status models.JobStatus, limit int) ([]*models.TrainingJob, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = $1 ORDER BY created_at`
	args := []interface{}{status}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.queryJobs(query, args...)
}

func (s *PostgresStore) queryJobs(query string, args ...interface{}) ([]*models.TrainingJob, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.TrainingJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// MarkJobRunning transitions a pending job to running
func (s *PostgresStore) MarkJobRunning(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE jobs SET status = 'running', started_at = NOW() WHERE id = $1 AND status = 'pending'`,
		id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("job %s is not pending", id)
	}
	from := models.JobStatusPending
	if err := createEventTx(tx, id, &from, models.JobStatusRunning, "training_started"); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateJobProgress records coarse progress for polling callers
func (s *PostgresStore) UpdateJobProgress(id string, progress float64) error {
	_, err := s.db.Exec(
		`UPDATE jobs SET progress = $1 WHERE id = $2 AND status NOT IN ('ready', 'failed')`,
		progress, id,
	)
	return err
}

// CompleteJob transitions a job to ready with its result. Terminal jobs are
// left untouched.
func (s *PostgresStore) CompleteJob(id string, result *models.TrainingResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.finishJob(id, models.JobStatusReady, "", string(resultJSON), "training_completed")
}

// FailJob transitions a job to failed. Terminal jobs are left untouched.
func (s *PostgresStore) FailJob(id string, errMsg, reason string) error {
	return s.finishJob(id, models.JobStatusFailed, errMsg, "", reason)
}

func (s *PostgresStore) finishJob(id string, to models.JobStatus, errMsg, resultJSON, reason string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var from models.JobStatus
	err = tx.QueryRow(`SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.NotFoundError{Resource: "job", ID: id}
	}
	if err != nil {
		return err
	}
	if from.Terminal() {
		return tx.Commit()
	}

	progress := `progress`
	if to == models.JobStatusReady {
		progress = `100`
	}
	_, err = tx.Exec(
		`UPDATE jobs SET status = $1, completed_at = NOW(), error_msg = $2, result_json = $3, progress = `+progress+` WHERE id = $4`,
		to, errMsg, resultJSON, id,
	)
	if err != nil {
		return err
	}
	if err := createEventTx(tx, id, &from, to, reason); err != nil {
		return err
	}
	return tx.Commit()
}

func createEventTx(tx *sql.Tx, jobID string, from *models.JobStatus, to models.JobStatus, reason string) error {
	var fromStr *string
	if from != nil {
		s := string(*from)
		fromStr = &s
	}
	_, err := tx.Exec(
		`INSERT INTO job_events (job_id, from_status, to_status, reason) VALUES ($1, $2, $3, $4)`,
		jobID, fromStr, to, reason,
	)
	return err
}

// GetJobEvents returns the job's transition events, newest first
func (s *PostgresStore) GetJobEvents(jobID string, limit int) ([]models.JobEvent, error) {
	query := `SELECT id, job_id, at, from_status, to_status, reason FROM job_events WHERE job_id = $1 ORDER BY id DESC`
	args := []interface{}{jobID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.JobEvent
	for rows.Next() {
		var event models.JobEvent
		var fromStatus sql.NullString
		if err := rows.Scan(&event.ID, &event.JobID, &event.At, &fromStatus, &event.ToStatus, &event.Reason); err != nil {
			return nil, err
		}
		if fromStatus.Valid {
			status := models.JobStatus(fromStatus.String)
			event.FromStatus = &status
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// NextModelVersion returns the next artifact version for a project
func (s *PostgresStore) NextModelVersion(projectID string) (int, error) {
	var max int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(version), 0) FROM model_versions WHERE project_id = $1`,
		projectID,
	).Scan(&max)
	return max + 1, err
}

// CreateModelVersion records a published model artifact
func (s *PostgresStore) CreateModelVersion(projectID string, info models.ModelInfo) error {
	var trainedAt time.Time
	if info.TrainedAt != nil {
		trainedAt = *info.TrainedAt
	} else {
		trainedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO model_versions (project_id, version, uri, model_type, accuracy, labels, trained_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, projectID, info.Version, info.URI, info.ModelType, info.Accuracy, pq.Array(info.Labels), trainedAt)
	return err
}

// ListModelVersions returns all recorded versions, newest first
func (s *PostgresStore) ListModelVersions(projectID string) ([]models.ModelInfo, error) {
	rows, err := s.db.Query(`
		SELECT version, uri, model_type, accuracy, labels, trained_at
		FROM model_versions WHERE project_id = $1 ORDER BY version DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []models.ModelInfo
	for rows.Next() {
		var info models.ModelInfo
		var labels pq.StringArray
		var trainedAt time.Time
		if err := rows.Scan(&info.Version, &info.URI, &info.ModelType, &info.Accuracy, &labels, &trainedAt); err != nil {
			return nil, err
		}
		info.Labels = labels
		info.TrainedAt = &trainedAt
		versions = append(versions, info)
	}
	return versions, rows.Err()
}

// DeleteModelVersions removes all versions and returns their artifact URIs
func (s *PostgresStore) DeleteModelVersions(projectID string) ([]string, error) {
	rows, err := s.db.Query(
		`DELETE FROM model_versions WHERE project_id = $1 RETURNING uri`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uris []string
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		uris = append(uris, uri)
	}
	return uris, rows.Err()
}

// Stats aggregates counts across the store
func (s *PostgresStore) Stats() (*models.SystemStats, error) {
	stats := &models.SystemStats{
		ProjectsByStatus: make(map[models.ProjectStatus]int),
		JobsByStatus:     make(map[models.JobStatus]int),
	}

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status models.ProjectStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ProjectsByStatus[status] = count
		stats.TotalProjects += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	jobRows, err := s.db.Query(`SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer jobRows.Close()
	for jobRows.Next() {
		var status models.JobStatus
		var count int
		if err := jobRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.JobsByStatus[status] = count
		stats.TotalJobs += count
	}
	if err := jobRows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM examples`).Scan(&stats.TotalExamples); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM model_versions`).Scan(&stats.TotalModels); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *PostgresStore) projectExists(projectID string) error {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM projects WHERE id = $1`, projectID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.NotFoundError{Resource: "project", ID: projectID}
	}
	return err
}

func projectExistsTx(tx *sql.Tx, projectID string) error {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM projects WHERE id = $1`, projectID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.NotFoundError{Resource: "project", ID: projectID}
	}
	return err
}

func requireRow(res sql.Result, resource, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &models.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
