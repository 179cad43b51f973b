package slotz

import "sync"

// Executor is the owner execution context for one or more slots. Everything
// a Binding does — state reads and writes, slot mutations, currency checks —
// runs through a single Executor, which is what makes the check-then-mutate
// sequence atomic with respect to concurrent loads. On a platform with a UI
// thread, the Executor is that thread.
type Executor interface {
	// Do runs fn on the owner context. Calls from the owner context itself
	// may run fn inline; calls from other goroutines must enqueue.
	Do(fn func())
}

// Immediate runs work inline on the calling goroutine. It is the owner
// executor behind Binding.Sync(): correct whenever a single goroutine
// drives both the loads and the completions, which is the shape of
// deterministic tests.
var Immediate Executor = immediateExecutor{}

type immediateExecutor struct{}

func (immediateExecutor) Do(fn func()) {
	fn()
}

// SerialExecutor is a FIFO queue drained by one goroutine. That goroutine
// is the owner context for every binding sharing the executor.
type SerialExecutor struct {
	queue chan func()
	stop  chan struct{}
	once  sync.Once
}

// NewSerialExecutor creates a running SerialExecutor.
func NewSerialExecutor() *SerialExecutor {
	e := &SerialExecutor{
		queue: make(chan func(), 128),
		stop:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *SerialExecutor) run() {
	for {
		// Stop takes priority: select chooses uniformly among ready cases,
		// so without this check a queued fn could still run after Close.
		select {
		case <-e.stop:
			return
		default:
		}
		select {
		case <-e.stop:
			return
		case fn := <-e.queue:
			fn()
		}
	}
}

// Do enqueues fn. Work submitted after Close is dropped.
func (e *SerialExecutor) Do(fn func()) {
	select {
	case <-e.stop:
		return
	default:
	}
	select {
	case <-e.stop:
	case e.queue <- fn:
	}
}

// Close stops the executor. Queued work that has not started is dropped.
func (e *SerialExecutor) Close() {
	e.once.Do(func() {
		close(e.stop)
	})
}
