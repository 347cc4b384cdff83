package gaze

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// callbackQueue runs collaborator callbacks one at a time, in submission
// order, on its own goroutine. Submit never blocks so the engine loop is
// not held up by slow listeners.
type callbackQueue struct {
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []func()
	closed bool
	done   chan struct{}
}

func newCallbackQueue(logger *slog.Logger) *callbackQueue {
	q := &callbackQueue{logger: logger, done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Submit enqueues fn. Jobs submitted after Close are dropped.
func (q *callbackQueue) Submit(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.jobs = append(q.jobs, fn)
	q.mu.Unlock()
	q.cond.Signal()
}

// Flush blocks until every job submitted before the call has run. It must
// not be called from a callback.
func (q *callbackQueue) Flush() {
	ch := make(chan struct{})
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.jobs = append(q.jobs, func() { close(ch) })
	q.mu.Unlock()
	q.cond.Signal()
	<-ch
}

// Close runs the jobs already queued and stops the worker.
func (q *callbackQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
	<-q.done
}

func (q *callbackQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.jobs) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.jobs) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		q.mu.Unlock()
		q.call(fn)
	}
}

func (q *callbackQueue) call(fn func()) {
	defer func() {
		if r := recover(); r != nil && q.logger != nil {
			q.logger.Error("callback panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
