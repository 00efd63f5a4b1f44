package prewarm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/ledgerline/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultTaskTimeout = 2 * time.Minute

// Task is one fire-and-forget warm-up unit. Key deduplicates tasks already
// queued or running so repeated report requests cannot flood the pool.
type Task struct {
	Key string
	Run func(ctx context.Context) error
}

// Pool computes reports for likely-next periods in the background. Submissions
// never block the caller and failures never surface beyond a log line.
type Pool struct {
	log     *zap.Logger
	holder  *config.ReportConfigHolder
	timeout time.Duration

	tasks  chan Task
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]struct{}
}

type Params struct {
	fx.In

	Holder *config.ReportConfigHolder
	Log    *zap.Logger
}

func NewPool(p Params) *Pool {
	cfg := p.Holder.Get()
	return &Pool{
		log:      p.Log.Named("prewarm"),
		holder:   p.Holder,
		timeout:  defaultTaskTimeout,
		tasks:    make(chan Task, cfg.PrewarmQueueSize),
		inflight: make(map[string]struct{}),
	}
}

// Start launches the worker goroutines. Worker count is fixed at start; queue
// and TTL tuning stay hot-reloadable through the config holder.
func (p *Pool) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	workers := p.holder.Get().PrewarmWorkers
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	p.log.Info("prewarm pool started", zap.Int("workers", workers), zap.Int("queue", cap(p.tasks)))
}

// Stop cancels in-flight tasks and waits for workers to drain.
func (p *Pool) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enqueues a task unless an identical key is already queued or running,
// or the queue is full. It never blocks.
func (p *Pool) Submit(task Task) bool {
	if task.Key == "" || task.Run == nil {
		return false
	}

	p.mu.Lock()
	if _, dup := p.inflight[task.Key]; dup {
		p.mu.Unlock()
		return false
	}
	p.inflight[task.Key] = struct{}{}
	p.mu.Unlock()

	select {
	case p.tasks <- task:
		return true
	default:
		p.release(task.Key)
		p.log.Debug("prewarm queue full, task dropped", zap.String("key", task.Key))
		return false
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.tasks:
			p.run(ctx, task)
		}
	}
}

func (p *Pool) run(parent context.Context, task Task) {
	defer p.release(task.Key)

	taskID := uuid.NewString()
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		p.log.Warn("prewarm task failed",
			zap.String("task_id", taskID),
			zap.String("key", task.Key),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	p.log.Debug("prewarm task done",
		zap.String("task_id", taskID),
		zap.String("key", task.Key),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (p *Pool) release(key string) {
	p.mu.Lock()
	delete(p.inflight, key)
	p.mu.Unlock()
}
