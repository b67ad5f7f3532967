package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// JobFunc - one page generation job
type JobFunc func(ctx context.Context, env *Env) error

// Job - a registered job
type Job struct {
	Name string
	Desc string
	Run  JobFunc
}

// Registry keeps jobs in registration order.
type Registry struct {
	jobs   []Job
	byName map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a job. Registering a name twice replaces the earlier job.
func (r *Registry) Register(name, desc string, fn JobFunc) {
	job := Job{Name: name, Desc: desc, Run: fn}
	if i, ok := r.byName[name]; ok {
		r.jobs[i] = job
		return
	}
	r.byName[name] = len(r.jobs)
	r.jobs = append(r.jobs, job)
}

func (r *Registry) Lookup(name string) (Job, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Job{}, false
	}
	return r.jobs[i], true
}

// Jobs returns every job in registration order.
func (r *Registry) Jobs() []Job {
	return append([]Job(nil), r.jobs...)
}

// AllJobs selects every registered job.
const AllJobs = "all"

// Select resolves job names; "all" expands to every job. Each job is picked
// once, in the order first named.
func (r *Registry) Select(names []string) ([]Job, error) {
	var selected []Job
	seen := make(map[string]bool)
	add := func(j Job) {
		if !seen[j.Name] {
			seen[j.Name] = true
			selected = append(selected, j)
		}
	}
	for _, name := range names {
		if name == AllJobs {
			for _, j := range r.jobs {
				add(j)
			}
			continue
		}
		j, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown job %q", name)
		}
		add(j)
	}
	return selected, nil
}

// Run executes jobs one after another and stops at the first error.
func Run(ctx context.Context, env *Env, jobs []Job) error {
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		log.Info().Str("job", j.Name).Msg("[Jobs] starting")
		if err := j.Run(ctx, env); err != nil {
			return fmt.Errorf("job %s: %w", j.Name, err)
		}
		log.Info().Str("job", j.Name).Dur("took", time.Since(start)).Msg("[Jobs] finished")
	}
	return nil
}
