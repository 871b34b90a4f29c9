package monitoring

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"text-playground/core/models"
	"text-playground/core/repository"
)

// MetricsExporter exports service metrics in Prometheus text format plus
// live request counters maintained by the HTTP layer.
type MetricsExporter struct {
	repo repository.Store

	requestsTotal    atomic.Int64
	predictionsTotal atomic.Int64
	trainingsTotal   atomic.Int64
}

// NewMetricsExporter creates a metrics exporter
func NewMetricsExporter(repo repository.Store) *MetricsExporter {
	return &MetricsExporter{repo: repo}
}

// IncRequests counts one handled HTTP request
func (me *MetricsExporter) IncRequests() { me.requestsTotal.Add(1) }

// IncPredictions counts one served prediction
func (me *MetricsExporter) IncPredictions() { me.predictionsTotal.Add(1) }

// IncTrainings counts one accepted training request
func (me *MetricsExporter) IncTrainings() { me.trainingsTotal.Add(1) }

// GetPrometheusMetrics returns metrics in Prometheus text format
func (me *MetricsExporter) GetPrometheusMetrics() string {
	var b strings.Builder

	b.WriteString("# HELP playground_requests_total Total HTTP requests handled\n")
	b.WriteString("# TYPE playground_requests_total counter\n")
	fmt.Fprintf(&b, "playground_requests_total %d\n", me.requestsTotal.Load())

	b.WriteString("# HELP playground_predictions_total Total predictions served\n")
	b.WriteString("# TYPE playground_predictions_total counter\n")
	fmt.Fprintf(&b, "playground_predictions_total %d\n", me.predictionsTotal.Load())

	b.WriteString("# HELP playground_trainings_total Total training jobs accepted\n")
	b.WriteString("# TYPE playground_trainings_total counter\n")
	fmt.Fprintf(&b, "playground_trainings_total %d\n", me.trainingsTotal.Load())

	stats, err := me.repo.Stats()
	if err != nil {
		return b.String()
	}

	projectStatuses := make([]string, 0, len(stats.ProjectsByStatus))
	for status := range stats.ProjectsByStatus {
		projectStatuses = append(projectStatuses, string(status))
	}
	sort.Strings(projectStatuses)
	b.WriteString("# HELP playground_projects Projects by status\n")
	b.WriteString("# TYPE playground_projects gauge\n")
	for _, status := range projectStatuses {
		fmt.Fprintf(&b, "playground_projects{status=%q} %d\n", status, stats.ProjectsByStatus[models.ProjectStatus(status)])
	}

	jobStatuses := make([]string, 0, len(stats.JobsByStatus))
	for status := range stats.JobsByStatus {
		jobStatuses = append(jobStatuses, string(status))
	}
	sort.Strings(jobStatuses)
	b.WriteString("# HELP playground_jobs Training jobs by status\n")
	b.WriteString("# TYPE playground_jobs gauge\n")
	for _, status := range jobStatuses {
		fmt.Fprintf(&b, "playground_jobs{status=%q} %d\n", status, stats.JobsByStatus[models.JobStatus(status)])
	}

	b.WriteString("# HELP playground_examples_total Stored training examples\n")
	b.WriteString("# TYPE playground_examples_total gauge\n")
	fmt.Fprintf(&b, "playground_examples_total %d\n", stats.TotalExamples)

	b.WriteString("# HELP playground_models_total Published model versions\n")
	b.WriteString("# TYPE playground_models_total gauge\n")
	fmt.Fprintf(&b, "playground_models_total %d\n", stats.TotalModels)

	return b.String()
}
