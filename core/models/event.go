package models

import "time"

// JobEvent represents a state transition event for a training job
type JobEvent struct {
	ID         int64      `json:"id"`
	JobID      string     `json:"jobId"`
	At         time.Time  `json:"at"`
	FromStatus *JobStatus `json:"fromStatus,omitempty"`
	ToStatus   JobStatus  `json:"toStatus"`
	Reason     string     `json:"reason"`
}

// SystemStats aggregates counts for the stats and metrics endpoints
type SystemStats struct {
	ProjectsByStatus map[ProjectStatus]int `json:"projectsByStatus"`
	JobsByStatus     map[JobStatus]int     `json:"jobsByStatus"`
	TotalProjects    int                   `json:"totalProjects"`
	TotalJobs        int                   `json:"totalJobs"`
	TotalExamples    int                   `json:"totalExamples"`
	TotalModels      int                   `json:"totalModels"`
}
