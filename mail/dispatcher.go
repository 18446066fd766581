package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/user/tareas-go/users"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 64
	sendTimeout      = 30 * time.Second
)

// job is one welcome mail waiting to go out.
type job struct {
	user *users.User
}

// result is what a worker reports back for a job.
type result struct {
	userID int64
	took   time.Duration
	err    error
}

// Dispatcher sends mail in the background with a small pool of workers.
//
// Workers take jobs from a buffered queue and push their results to a single reporter goroutine,
// which logs them. Enqueue never blocks: when the queue is full the job is dropped and logged.
// Stop closes the queue, lets the workers drain it, then waits for the reporter.
type Dispatcher struct {
	mailer  Mailer
	logger  *slog.Logger
	workers int

	jobs    chan job
	results chan result

	mu      sync.RWMutex
	stopped bool

	workersWg  sync.WaitGroup
	reporterWg sync.WaitGroup
}

// NewDispatcher creates a dispatcher; zero workers or queueSize use the defaults.
func NewDispatcher(mailer Mailer, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		mailer:  mailer,
		logger:  logger,
		workers: workers,
		jobs:    make(chan job, queueSize),
		results: make(chan result, queueSize),
	}
}

// Start launches the workers and the reporter.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.workersWg.Add(1)
		go d.work(i)
	}

	d.reporterWg.Add(1)
	go d.report()

	// Once every worker has drained the queue, nothing else will write results.
	go func() {
		d.workersWg.Wait()
		close(d.results)
	}()

	d.logger.Info("mail dispatcher started", "workers", d.workers, "queue", cap(d.jobs))
}

// EnqueueWelcome queues the welcome mail for user. It returns false when the mail was dropped.
func (d *Dispatcher) EnqueueWelcome(user *users.User) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.logger.Warn("mail dispatcher stopped, dropping welcome mail", "user_id", user.ID)
		return false
	}

	select {
	case d.jobs <- job{user: user}:
		return true
	default:
		d.logger.Warn("mail queue full, dropping welcome mail", "user_id", user.ID)
		return false
	}
}

// Stop stops accepting mail and waits until queued mail has been handled or ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.reporterWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("mail dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work(workerID int) {
	defer d.workersWg.Done()
	for j := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		start := time.Now()
		err := d.mailer.SendWelcome(ctx, j.user)
		cancel()
		d.results <- result{userID: j.user.ID, took: time.Since(start), err: err}
	}
	d.logger.Debug("mail worker exiting", "worker", workerID)
}

func (d *Dispatcher) report() {
	defer d.reporterWg.Done()
	for r := range d.results {
		if r.err != nil {
			d.logger.Error("welcome mail failed", "user_id", r.userID, "error", r.err)
			continue
		}
		d.logger.Info("welcome mail sent", "user_id", r.userID, "took", r.took)
	}
}
