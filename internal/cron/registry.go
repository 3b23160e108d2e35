package cron

import "context"

// Job is a unit of scheduled work. Run must be safe to invoke
// repeatedly; jobs own their own idempotence.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes, in registration order.
// Registering a second job under an already-taken name is a no-op.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	for _, existing := range r.jobs {
		if existing.Name() == job.Name() {
			return
		}
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy so callers cannot reorder the schedule.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
