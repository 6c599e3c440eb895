// Package scheduler runs periodic ingestion, staleness sweeps and exemplar analysis on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/exemplar"
	"github.com/umputun/storydesk/pkg/ingest"
)

//go:generate moq -out mocks/ingester.go -pkg mocks -skip-ensure -fmt goimports . Ingester
//go:generate moq -out mocks/sweeper.go -pkg mocks -skip-ensure -fmt goimports . Sweeper
//go:generate moq -out mocks/analyzer.go -pkg mocks -skip-ensure -fmt goimports . Analyzer

// job names
const (
	JobIngest   = "ingest"
	JobSweep    = "sweep"
	JobExemplar = "exemplar"
)

// Ingester runs one ingestion pass
type Ingester interface {
	Ingest(ctx context.Context) (ingest.Result, error)
}

// Sweeper dismisses stale stories
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Analyzer fingerprints pending exemplars
type Analyzer interface {
	AnalyzePending(ctx context.Context) (exemplar.Result, error)
}

// Params defines scheduler dependencies and cron specs. An empty spec disables the job.
type Params struct {
	Ingester     Ingester
	Sweeper      Sweeper
	Analyzer     Analyzer
	IngestSpec   string        // e.g. "*/15 * * * *" or "@every 15m"
	SweepSpec    string        // e.g. "@every 30m"
	ExemplarSpec string        // e.g. "@every 5m"
	RunOnStart   bool          // run ingestion once right after start
	JobTimeout   time.Duration // per run, default 10m
}

// JobStatus reports the schedule and last outcome of a job
type JobStatus struct {
	Name      string    `json:"name"`
	Spec      string    `json:"spec"`
	Running   bool      `json:"running"`
	Runs      int       `json:"runs"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
	Next      time.Time `json:"next"`
}

// Scheduler manages cron jobs. A job never overlaps with itself, a tick arriving while the
// previous run is active is skipped, and RunNow waits for the active run instead.
type Scheduler struct {
	cron       *cron.Cron
	jobs       map[string]*job
	runOnStart bool
	timeout    time.Duration

	mu     sync.Mutex // protects ctx and cancel
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type job struct {
	name    string
	spec    string
	run     func(ctx context.Context) (string, error)
	entryID cron.EntryID
	exec    sync.Mutex // held while the job runs

	mu        sync.Mutex // protects fields below
	running   bool
	runs      int
	lastRun   time.Time
	lastError string
}

// NewScheduler creates a scheduler and registers jobs with non-empty specs.
// Returns an error for an invalid cron spec.
func NewScheduler(params Params) (*Scheduler, error) {
	if params.JobTimeout <= 0 {
		params.JobTimeout = 10 * time.Minute
	}
	s := &Scheduler{
		cron:       cron.New(cron.WithLogger(cronLogger{})),
		jobs:       map[string]*job{},
		runOnStart: params.RunOnStart,
		timeout:    params.JobTimeout,
		ctx:        context.Background(),
	}

	if params.Ingester != nil {
		s.jobs[JobIngest] = &job{name: JobIngest, spec: params.IngestSpec, run: func(ctx context.Context) (string, error) {
			res, err := params.Ingester.Ingest(ctx)
			return fmt.Sprintf("created %d, updated %d, failed %d", res.Created, res.Updated, res.Failed), err
		}}
	}
	if params.Sweeper != nil {
		s.jobs[JobSweep] = &job{name: JobSweep, spec: params.SweepSpec, run: func(ctx context.Context) (string, error) {
			n, err := params.Sweeper.Sweep(ctx)
			return fmt.Sprintf("dismissed %d", n), err
		}}
	}
	if params.Analyzer != nil {
		s.jobs[JobExemplar] = &job{name: JobExemplar, spec: params.ExemplarSpec, run: func(ctx context.Context) (string, error) {
			res, err := params.Analyzer.AnalyzePending(ctx)
			return fmt.Sprintf("analyzed %d, failed %d", res.Analyzed, res.Failed), err
		}}
	}

	for _, j := range s.jobs {
		if j.spec == "" {
			continue
		}
		id, err := s.cron.AddFunc(j.spec, func() { s.tick(j) })
		if err != nil {
			return nil, fmt.Errorf("invalid %s schedule %q: %w", j.name, j.spec, err)
		}
		j.entryID = id
	}
	return s, nil
}

// Start begins running scheduled jobs. Jobs get a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()
	if j, ok := s.jobs[JobIngest]; ok && s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tick(j)
		}()
	}

	for _, st := range s.Status() {
		if st.Spec != "" {
			lgr.Printf("[INFO] scheduled %s job %q, next run %s", st.Name, st.Spec, st.Next.Format(time.RFC3339))
		}
	}
}

// Stop cancels running jobs and waits for them to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// RunNow runs the named job immediately and waits for it, an active run of the same job is awaited first.
// Returns the job's summary.
func (s *Scheduler) RunNow(ctx context.Context, name string) (string, error) {
	j, ok := s.jobs[name]
	if !ok {
		return "", fmt.Errorf("unknown job %q: %w", name, domain.ErrNotFound)
	}
	j.exec.Lock()
	defer j.exec.Unlock()
	return s.execute(ctx, j)
}

// Status returns jobs ordered by name
func (s *Scheduler) Status() []JobStatus {
	res := make([]JobStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		j.mu.Lock()
		st := JobStatus{Name: j.name, Spec: j.spec, Running: j.running, Runs: j.runs, LastRun: j.lastRun, LastError: j.lastError}
		j.mu.Unlock()
		if j.entryID != 0 {
			st.Next = s.cron.Entry(j.entryID).Next
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, k int) bool { return res[i].Name < res[k].Name })
	return res
}

// tick runs a scheduled job unless it is already running
func (s *Scheduler) tick(j *job) {
	if !j.exec.TryLock() {
		lgr.Printf("[DEBUG] %s job still running, tick skipped", j.name)
		return
	}
	defer j.exec.Unlock()

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	_, _ = s.execute(ctx, j)
}

func (s *Scheduler) execute(ctx context.Context, j *job) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	j.mu.Lock()
	j.running = true
	j.mu.Unlock()

	start := time.Now()
	summary, err := j.run(ctx)

	j.mu.Lock()
	j.running = false
	j.runs++
	j.lastRun = start
	j.lastError = ""
	if err != nil {
		j.lastError = err.Error()
	}
	j.mu.Unlock()

	if err != nil {
		lgr.Printf("[WARN] %s job failed after %v: %v", j.name, time.Since(start).Round(time.Millisecond), err)
		return summary, fmt.Errorf("%s job: %w", j.name, err)
	}
	lgr.Printf("[INFO] %s job completed in %v: %s", j.name, time.Since(start).Round(time.Millisecond), summary)
	return summary, nil
}

// cronLogger sends cron library logs to lgr
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	lgr.Printf("[DEBUG] cron %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	lgr.Printf("[WARN] cron %s %v: %v", msg, keysAndValues, err)
}
