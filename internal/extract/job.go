package extract

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MeKo-Tech/critex/internal/criteria"
)

// Status is the lifecycle state of a job. Completed and failed are
// terminal; a job never leaves a terminal state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one extraction through its lifecycle.
type Job struct {
	ID        string           `json:"job_id"`
	Filename  string           `json:"filename"`
	Status    Status           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Result    *criteria.Result `json:"result,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Registry holds jobs in memory. All methods are safe for concurrent use;
// accessors return copies so callers never share mutable state with the
// registry.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new pending job and returns its snapshot.
func (r *Registry) Create(filename string) Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.jobs[job.ID] = job
	return *job
}

// Get returns a snapshot of the job, or ok=false when unknown.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// List returns snapshots of all jobs, in no particular order.
func (r *Registry) List() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	return out
}

// MarkProcessing moves a pending job to processing.
func (r *Registry) MarkProcessing(id string) error {
	return r.transition(id, StatusProcessing, func(job *Job) {})
}

// Complete moves a job to completed and attaches its result.
func (r *Registry) Complete(id string, result *criteria.Result) error {
	return r.transition(id, StatusCompleted, func(job *Job) {
		job.Result = result
	})
}

// Fail moves a job to failed and records the cause.
func (r *Registry) Fail(id string, cause error) error {
	return r.transition(id, StatusFailed, func(job *Job) {
		if cause != nil {
			job.Error = cause.Error()
		}
	})
}

func (r *Registry) transition(id string, next Status, apply func(*Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("extract: unknown job %s", id)
	}
	if job.Status.Terminal() {
		return fmt.Errorf("extract: job %s already %s", id, job.Status)
	}
	job.Status = next
	job.UpdatedAt = time.Now()
	apply(job)
	return nil
}
