package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// JobQueue is a priority queue of job IDs ordered by enqueue time, so
// dispatched jobs start in arrival order.
type JobQueue struct {
	jobs []*QueuedJob
	mu   sync.Mutex
}

// QueuedJob wraps a job ID with its enqueue time
type QueuedJob struct {
	JobID      string
	EnqueuedAt time.Time
	Index      int // For heap.Interface
}

// NewJobQueue creates a new job queue
func NewJobQueue() *JobQueue {
	jq := &JobQueue{
		jobs: make([]*QueuedJob, 0),
	}
	heap.Init(jq)
	return jq
}

// Enqueue adds a job ID to the queue
func (jq *JobQueue) Enqueue(jobID string) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	heap.Push(jq, &QueuedJob{
		JobID:      jobID,
		EnqueuedAt: time.Now(),
	})
}

// PopJob removes and returns the oldest job ID, or "" when empty
func (jq *JobQueue) PopJob() string {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if jq.Len() == 0 {
		return ""
	}

	item := heap.Pop(jq).(*QueuedJob)
	return item.JobID
}

// Len returns the number of jobs in the queue
func (jq *JobQueue) Len() int {
	return len(jq.jobs)
}

// Less orders by enqueue time
func (jq *JobQueue) Less(i, j int) bool {
	return jq.jobs[i].EnqueuedAt.Before(jq.jobs[j].EnqueuedAt)
}

// Swap swaps two jobs
func (jq *JobQueue) Swap(i, j int) {
	jq.jobs[i], jq.jobs[j] = jq.jobs[j], jq.jobs[i]
	jq.jobs[i].Index = i
	jq.jobs[j].Index = j
}

// Push implements heap.Interface
func (jq *JobQueue) Push(x interface{}) {
	n := len(jq.jobs)
	item := x.(*QueuedJob)
	item.Index = n
	jq.jobs = append(jq.jobs, item)
}

// Pop implements heap.Interface
func (jq *JobQueue) Pop() interface{} {
	old := jq.jobs
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	jq.jobs = old[0 : n-1]
	return item
}
